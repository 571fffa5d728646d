// Package signboard implements the application services for signboard
// inventory, including the audited quantity ledger.
package signboard

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/equipment/backend/internal/domain/shared"
	"github.com/equipment/backend/internal/domain/signboard"
	"github.com/equipment/backend/internal/infrastructure/storage"
)

// casRetries bounds how often a quantity change is retried after losing a
// concurrent update race.
const casRetries = 3

const defaultHistoryLimit = 50

// Service provides signboard CRUD and quantity operations
type Service struct {
	repo   signboard.Repository
	blobs  storage.BlobStore
	logger *zap.Logger
}

// NewService creates a new signboard Service
func NewService(repo signboard.Repository, blobs storage.BlobStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, blobs: blobs, logger: logger}
}

// CreateInput carries the fields accepted when creating a signboard
type CreateInput struct {
	Comment     string `json:"comment"`
	Description string `json:"description"`
	Size        string `json:"size"`
	Quantity    *int   `json:"quantity"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	ImagePath   string `json:"image_path"`
}

// Create persists a new signboard. Quantity defaults to 1 and status to the
// in-stock label when omitted.
func (s *Service) Create(ctx context.Context, in CreateInput) (*signboard.Signboard, error) {
	quantity := 1
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "quantity must not be negative")
		}
		quantity = *in.Quantity
	}

	sb := &signboard.Signboard{
		Comment:     in.Comment,
		Description: in.Description,
		Size:        in.Size,
		Quantity:    quantity,
		Location:    in.Location,
		Status:      in.Status,
		Notes:       in.Notes,
		ImagePath:   in.ImagePath,
	}
	if err := s.repo.Create(ctx, sb); err != nil {
		return nil, err
	}
	return sb, nil
}

// Get returns one signboard
func (s *Service) Get(ctx context.Context, id int64) (*signboard.Signboard, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns signboards matching the query plus the total match count
func (s *Service) List(ctx context.Context, q signboard.ListQuery) ([]*signboard.Signboard, int64, error) {
	return s.repo.List(ctx, q)
}

// UpdateInput carries the partial-update fields; nil means "leave unchanged".
// Quantity changes must go through the ledger operations and are rejected here.
type UpdateInput struct {
	Comment     *string `json:"comment"`
	Description *string `json:"description"`
	Size        *string `json:"size"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
	ImagePath   *string `json:"image_path"`
}

// Update applies a partial update; omitted fields keep their stored values
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*signboard.Signboard, error) {
	fields := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}

	setString("comment", in.Comment)
	setString("description", in.Description)
	setString("size", in.Size)
	setString("location", in.Location)
	setString("status", in.Status)
	setString("notes", in.Notes)
	setString("image_path", in.ImagePath)

	if len(fields) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "no updatable fields in request")
	}
	return s.repo.Update(ctx, id, fields)
}

// Delete removes a signboard, its quantity history and its stored image
func (s *Service) Delete(ctx context.Context, id int64) error {
	sb, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.blobs != nil && sb.ImagePath != "" {
		if err := s.blobs.Delete(ctx, sb.ImagePath); err != nil {
			s.logger.Warn("failed to delete signboard image",
				zap.Int64("id", id),
				zap.String("ref", sb.ImagePath),
				zap.Error(err),
			)
		}
	}
	return nil
}

// AddQuantity increases the stock of a signboard and records a ledger entry.
// The amount must be positive and the reason non-blank; validation happens
// before any state is touched.
func (s *Service) AddQuantity(ctx context.Context, id int64, amount int, reason string) (*signboard.Signboard, error) {
	return s.applyChange(ctx, id, signboard.ChangeAdd, amount, reason)
}

// SubtractQuantity decreases the stock of a signboard and records a ledger
// entry. The resulting quantity is floored at zero.
func (s *Service) SubtractQuantity(ctx context.Context, id int64, amount int, reason string) (*signboard.Signboard, error) {
	return s.applyChange(ctx, id, signboard.ChangeSubtract, amount, reason)
}

func (s *Service) applyChange(ctx context.Context, id int64, changeType signboard.ChangeType, amount int, reason string) (*signboard.Signboard, error) {
	if amount <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "amount must be positive")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "reason is required")
	}

	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		sb, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		before := sb.Quantity
		var after int
		switch changeType {
		case signboard.ChangeAdd:
			after = before + amount
		case signboard.ChangeSubtract:
			after = before - amount
			if after < 0 {
				after = 0
			}
		default:
			return nil, shared.NewDomainError("INVALID_INPUT", "unknown change type")
		}

		entry := &signboard.QuantityHistory{
			SignboardID:    id,
			ChangeType:     changeType,
			ChangeAmount:   amount,
			QuantityBefore: before,
			QuantityAfter:  after,
			Reason:         reason,
		}
		err = s.repo.ApplyQuantityChange(ctx, id, before, after, entry)
		if err == nil {
			sb.Quantity = after
			return sb, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.Debug("quantity change lost update race, retrying",
			zap.Int64("id", id),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, lastErr
}

// Increment raises the quantity by one without writing a ledger entry. It is
// meant for the quick +/- controls in the list view.
func (s *Service) Increment(ctx context.Context, id int64) (*signboard.Signboard, error) {
	sb, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.SetQuantity(ctx, id, sb.Quantity+1)
}

// Decrement lowers the quantity by one without writing a ledger entry,
// flooring at zero.
func (s *Service) Decrement(ctx context.Context, id int64) (*signboard.Signboard, error) {
	sb, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := sb.Quantity - 1
	if next < 0 {
		next = 0
	}
	return s.repo.SetQuantity(ctx, id, next)
}

// History returns the most recent ledger entries for a signboard
func (s *Service) History(ctx context.Context, id int64, limit int) ([]*signboard.QuantityHistory, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.History(ctx, id, limit)
}

// AllHistory returns the most recent ledger entries across every signboard
func (s *Service) AllHistory(ctx context.Context, limit int) ([]*signboard.QuantityHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.AllHistory(ctx, limit)
}

// ResetAll zeroes every signboard quantity and clears the ledger. Returns the
// number of signboards whose quantity changed.
func (s *Service) ResetAll(ctx context.Context) (int64, error) {
	n, err := s.repo.ResetAllQuantities(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("signboard quantities reset", zap.Int64("affected", n))
	return n, nil
}
