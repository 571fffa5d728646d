// Package equipment implements the application services for equipment records.
package equipment

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/equipment/backend/internal/application/extraction"
	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/domain/shared"
	"github.com/equipment/backend/internal/infrastructure/storage"
)

// Engine identifiers recorded on records created through JSON import
const (
	jsonImportOCREngine = "json-import"
	jsonImportLLMEngine = "claude-vlm"
)

// Service provides equipment CRUD and import operations
type Service struct {
	repo   equipment.Repository
	blobs  storage.BlobStore
	logger *zap.Logger
}

// NewService creates a new equipment Service
func NewService(repo equipment.Repository, blobs storage.BlobStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, blobs: blobs, logger: logger}
}

// CreateInput carries the fields accepted when creating equipment manually
type CreateInput struct {
	Name             string `json:"equipment_name"`
	ModelNumber      string `json:"model_number"`
	SerialNumber     string `json:"serial_number"`
	PurchaseDate     string `json:"purchase_date"`
	ToolCategory     string `json:"tool_category"`
	Manufacturer     string `json:"manufacturer"`
	Weight           string `json:"weight"`
	OutputPower      string `json:"output_power"`
	EngineModel      string `json:"engine_model"`
	YearManufactured string `json:"year_manufactured"`
	Specifications   string `json:"specifications"`
	Quantity         *int   `json:"quantity"`
	Notes            string `json:"notes"`
	ImagePath        string `json:"image_path"`
}

// Create persists a new equipment record. The tool category is derived from
// the classifier when absent, and quantity defaults to 1.
func (s *Service) Create(ctx context.Context, in CreateInput) (*equipment.Equipment, error) {
	if strings.TrimSpace(in.Name) == "" && strings.TrimSpace(in.ModelNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "equipment_name or model_number is required")
	}

	quantity := 1
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "quantity must not be negative")
		}
		quantity = *in.Quantity
	}

	eq := &equipment.Equipment{
		Name:             in.Name,
		ModelNumber:      in.ModelNumber,
		SerialNumber:     in.SerialNumber,
		PurchaseDate:     in.PurchaseDate,
		ToolCategory:     in.ToolCategory,
		Manufacturer:     in.Manufacturer,
		Weight:           extraction.NormalizeWeight(in.Weight),
		OutputPower:      in.OutputPower,
		EngineModel:      in.EngineModel,
		YearManufactured: in.YearManufactured,
		Specifications:   in.Specifications,
		Quantity:         quantity,
		Notes:            in.Notes,
		ImagePath:        in.ImagePath,
	}
	eq.EnsureCategory()

	if err := s.repo.Create(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

// Get returns one equipment record
func (s *Service) Get(ctx context.Context, id int64) (*equipment.Equipment, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns equipment matching the query plus the total match count
func (s *Service) List(ctx context.Context, q equipment.ListQuery) ([]*equipment.Equipment, int64, error) {
	return s.repo.List(ctx, q)
}

// UpdateInput carries the partial-update fields; nil means "leave unchanged"
type UpdateInput struct {
	Name             *string `json:"equipment_name"`
	ModelNumber      *string `json:"model_number"`
	SerialNumber     *string `json:"serial_number"`
	PurchaseDate     *string `json:"purchase_date"`
	ToolCategory     *string `json:"tool_category"`
	Manufacturer     *string `json:"manufacturer"`
	Weight           *string `json:"weight"`
	OutputPower      *string `json:"output_power"`
	EngineModel      *string `json:"engine_model"`
	YearManufactured *string `json:"year_manufactured"`
	Specifications   *string `json:"specifications"`
	Quantity         *int    `json:"quantity"`
	Notes            *string `json:"notes"`
	ImagePath        *string `json:"image_path"`
}

// Update applies a partial update; omitted fields keep their stored values
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*equipment.Equipment, error) {
	fields := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}

	setString("equipment_name", in.Name)
	setString("model_number", in.ModelNumber)
	setString("serial_number", in.SerialNumber)
	setString("purchase_date", in.PurchaseDate)
	setString("tool_category", in.ToolCategory)
	setString("manufacturer", in.Manufacturer)
	setString("output_power", in.OutputPower)
	setString("engine_model", in.EngineModel)
	setString("year_manufactured", in.YearManufactured)
	setString("specifications", in.Specifications)
	setString("notes", in.Notes)
	setString("image_path", in.ImagePath)
	if in.Weight != nil {
		fields["weight"] = extraction.NormalizeWeight(*in.Weight)
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "quantity must not be negative")
		}
		fields["quantity"] = *in.Quantity
	}

	if len(fields) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "no updatable fields in request")
	}
	return s.repo.Update(ctx, id, fields)
}

// Delete removes an equipment record and its stored image
func (s *Service) Delete(ctx context.Context, id int64) error {
	eq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.blobs != nil && eq.ImagePath != "" {
		if err := s.blobs.Delete(ctx, eq.ImagePath); err != nil {
			s.logger.Warn("failed to delete equipment image",
				zap.Int64("id", id),
				zap.String("ref", eq.ImagePath),
				zap.Error(err),
			)
		}
	}
	return nil
}

// DeleteAll removes every equipment record. Stored images are left behind;
// blob cleanup for a full wipe is an operator task.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("all equipment deleted", zap.Int64("deleted", n))
	return n, nil
}

// Increment raises the quantity by one, for the quick +/- controls in the
// list view.
func (s *Service) Increment(ctx context.Context, id int64) (*equipment.Equipment, error) {
	eq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, map[string]interface{}{"quantity": eq.Quantity + 1})
}

// Decrement lowers the quantity by one, flooring at zero.
func (s *Service) Decrement(ctx context.Context, id int64) (*equipment.Equipment, error) {
	eq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := eq.Quantity - 1
	if next < 0 {
		next = 0
	}
	return s.repo.Update(ctx, id, map[string]interface{}{"quantity": next})
}

// Categories returns the distinct tool categories in use
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// ImportItem is one record in a JSON import payload. The field names match
// the export format of the vision-language extraction notebooks.
type ImportItem struct {
	EquipmentName    string `json:"equipment_name"`
	ModelNumber      string `json:"model_number"`
	SerialNumber     string `json:"serial_number"`
	Manufacturer     string `json:"manufacturer"`
	Weight           string `json:"weight"`
	OutputPower      string `json:"output_power"`
	EngineModel      string `json:"engine_model"`
	YearManufactured string `json:"year_manufactured"`
	Specifications   string `json:"specifications"`
	RawText          string `json:"raw_text"`
	FileName         string `json:"file_name"`
	ImagePath        string `json:"image_path"`
	Notes            string `json:"notes"`
}

// ImportError reports one failed item from a JSON import
type ImportError struct {
	Index int    `json:"index"`
	File  string `json:"file"`
	Error string `json:"error"`
}

// ImportJSON creates equipment records from pre-extracted JSON data. Items
// failing validation are reported and skipped; the import continues.
func (s *Service) ImportJSON(ctx context.Context, items []ImportItem) (int, []ImportError) {
	var imported int
	var errs []ImportError

	llmEngine := jsonImportLLMEngine
	for i, item := range items {
		eq := &equipment.Equipment{
			Name:             item.EquipmentName,
			ModelNumber:      item.ModelNumber,
			SerialNumber:     item.SerialNumber,
			Manufacturer:     item.Manufacturer,
			Weight:           extraction.NormalizeWeight(item.Weight),
			OutputPower:      item.OutputPower,
			EngineModel:      item.EngineModel,
			YearManufactured: item.YearManufactured,
			Specifications:   item.Specifications,
			RawText:          item.RawText,
			OCREngine:        jsonImportOCREngine,
			LLMEngine:        &llmEngine,
			FileName:         item.FileName,
			ImagePath:        item.ImagePath,
			Quantity:         1,
		}
		if !eq.HasIdentifyingInfo() {
			errs = append(errs, ImportError{Index: i, File: item.FileName, Error: "no identifying fields"})
			continue
		}
		eq.EnsureCategory()

		if err := s.repo.Create(ctx, eq); err != nil {
			errs = append(errs, ImportError{Index: i, File: item.FileName, Error: err.Error()})
			continue
		}
		imported++
	}

	s.logger.Info("JSON import finished",
		zap.Int("imported", imported),
		zap.Int("failed", len(errs)),
	)
	return imported, errs
}
