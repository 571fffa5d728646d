package extraction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/domain/metering"
	"github.com/equipment/backend/internal/infrastructure/storage"
)

// Engine identifiers recorded on extracted equipment
const (
	OCREngineVision = "google-vision"
	OCREngineNone   = "none"
	OCREnginePDF    = "pdf-text"

	LLMEngineGeminiVision = "gemini-vision"
	LLMEngineGemini       = "gemini"
)

// VisionAPIName is the metered counter key for Cloud Vision calls
const VisionAPIName = "cloud-vision"

// directRawText marks records whose fields came straight from the vision
// model without an OCR pass.
const directRawText = "(Gemini Visionで画像から直接抽出)"

// Pipeline runs the two extraction strategies over a nameplate photo and
// persists the resulting equipment record.
//
// Strategy 1 sends the image straight to the vision model. When that yields
// nothing identifying (or errors), strategy 2 runs Cloud Vision OCR followed
// by a text extraction prompt. OCR failure is fatal for the image; LLM
// failure after a successful OCR is not, the raw text is kept.
type Pipeline struct {
	ocr    OCRClient
	llm    LLMClient
	usage  metering.Repository
	repo   equipment.Repository
	blobs  storage.BlobStore
	logger *zap.Logger
	now    func() time.Time
}

// PipelineOption is a functional option for configuring Pipeline
type PipelineOption func(*Pipeline)

// WithClock overrides the pipeline clock, used by tests
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a new extraction Pipeline
func NewPipeline(
	ocr OCRClient,
	llmClient LLMClient,
	usage metering.Repository,
	repo equipment.Repository,
	blobs storage.BlobStore,
	logger *zap.Logger,
	opts ...PipelineOption,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		ocr:    ocr,
		llm:    llmClient,
		usage:  usage,
		repo:   repo,
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessImage extracts a single nameplate photo into a persisted equipment
// record and returns it.
func (p *Pipeline) ProcessImage(ctx context.Context, filename string, image []byte) (*equipment.Equipment, error) {
	eq, err := p.extract(ctx, image)
	if err != nil {
		return nil, err
	}

	eq.FileName = filename
	if eq.Quantity == 0 {
		eq.Quantity = 1
	}
	eq.Weight = NormalizeWeight(eq.Weight)
	eq.EnsureCategory()

	if p.blobs != nil {
		ref, err := p.blobs.Save(ctx, filename, image, storage.DetectImageContentType(image))
		if err != nil {
			// The record is still worth keeping without its image.
			p.logger.Warn("failed to store nameplate image",
				zap.String("file", filename),
				zap.Error(err),
			)
		} else {
			eq.ImagePath = ref
		}
	}

	if err := p.repo.Create(ctx, eq); err != nil {
		return nil, fmt.Errorf("failed to persist equipment: %w", err)
	}

	p.logger.Info("nameplate processed",
		zap.String("file", filename),
		zap.String("ocr_engine", eq.OCREngine),
		zap.Int64("id", eq.ID),
	)
	return eq, nil
}

// ProcessSpecSheet extracts equipment fields from spec sheet text (typically
// pulled out of a PDF) and persists the record. Unlike the photo path there is
// no OCR fallback, so a configured LLM is required.
func (p *Pipeline) ProcessSpecSheet(ctx context.Context, filename, text string) (*equipment.Equipment, error) {
	if p.llm == nil || !p.llm.Configured() {
		return nil, fmt.Errorf("spec sheet extraction requires a configured LLM")
	}

	out, err := p.llm.GenerateFromText(ctx, specSheetPrompt+text)
	if err != nil {
		return nil, fmt.Errorf("LLM extraction failed: %w", err)
	}

	fields, err := ParseFields(out)
	if err != nil {
		return nil, fmt.Errorf("LLM output unparseable: %w", err)
	}
	if !fields.HasIdentifyingInfo() {
		return nil, fmt.Errorf("no identifying information found in %s", filename)
	}

	llmEngine := LLMEngineGemini
	eq := &equipment.Equipment{
		Name:             fields.EquipmentName,
		ModelNumber:      fields.ModelNumber,
		SerialNumber:     fields.SerialNumber,
		Manufacturer:     fields.Manufacturer,
		Weight:           NormalizeWeight(fields.Weight),
		OutputPower:      fields.OutputPower,
		EngineModel:      fields.EngineModel,
		YearManufactured: fields.YearManufactured,
		Specifications:   fields.Specifications,
		RawText:          text,
		FileName:         filename,
		Quantity:         1,
		OCREngine:        OCREnginePDF,
		LLMEngine:        &llmEngine,
	}
	eq.EnsureCategory()

	if err := p.repo.Create(ctx, eq); err != nil {
		return nil, fmt.Errorf("failed to persist equipment: %w", err)
	}

	p.logger.Info("spec sheet processed",
		zap.String("file", filename),
		zap.Int64("id", eq.ID),
	)
	return eq, nil
}

func (p *Pipeline) extract(ctx context.Context, image []byte) (*equipment.Equipment, error) {
	if p.llm != nil && p.llm.Configured() {
		if eq := p.extractDirect(ctx, image); eq != nil {
			return eq, nil
		}
	}
	return p.extractViaOCR(ctx, image)
}

// extractDirect runs the vision-model strategy. A nil return means the
// strategy missed and the OCR path should run.
func (p *Pipeline) extractDirect(ctx context.Context, image []byte) *equipment.Equipment {
	out, err := p.llm.GenerateFromImage(ctx, visionPrompt, image)
	if err != nil {
		p.logger.Warn("direct vision extraction failed, falling back to OCR", zap.Error(err))
		return nil
	}

	fields, err := ParseFields(out)
	if err != nil {
		p.logger.Warn("direct vision output unparseable, falling back to OCR", zap.Error(err))
		return nil
	}
	if !fields.HasIdentifyingInfo() {
		p.logger.Debug("direct vision found nothing identifying, falling back to OCR")
		return nil
	}

	llmEngine := LLMEngineGeminiVision
	return &equipment.Equipment{
		Name:             fields.EquipmentName,
		ModelNumber:      fields.ModelNumber,
		SerialNumber:     fields.SerialNumber,
		Manufacturer:     fields.Manufacturer,
		Weight:           fields.Weight,
		OutputPower:      fields.OutputPower,
		EngineModel:      fields.EngineModel,
		YearManufactured: fields.YearManufactured,
		Specifications:   fields.Specifications,
		RawText:          directRawText,
		OCREngine:        OCREngineNone,
		LLMEngine:        &llmEngine,
	}
}

// extractViaOCR runs the OCR+LLM strategy. OCR failure is fatal; LLM failure
// keeps the OCR text with an error annotation.
func (p *Pipeline) extractViaOCR(ctx context.Context, image []byte) (*equipment.Equipment, error) {
	if p.ocr == nil {
		return nil, fmt.Errorf("no OCR client is configured")
	}

	rawText, err := p.ocr.DetectText(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Exactly one metered call per OCR request, success or not downstream.
	if p.usage != nil {
		if err := p.usage.Increment(ctx, VisionAPIName, metering.CurrentYearMonth(p.now())); err != nil {
			p.logger.Warn("failed to record vision API usage", zap.Error(err))
		}
	}

	eq := &equipment.Equipment{
		RawText:   rawText,
		OCREngine: OCREngineVision,
	}

	if p.llm == nil || !p.llm.Configured() {
		return eq, nil
	}

	out, err := p.llm.GenerateFromText(ctx, textPrompt+rawText)
	if err != nil {
		eq.RawText = rawText + "\n\n[LLM解析エラー: " + err.Error() + "]"
		p.logger.Warn("LLM extraction failed, keeping raw OCR text", zap.Error(err))
		return eq, nil
	}

	fields, err := ParseFields(out)
	if err != nil {
		eq.RawText = rawText + "\n\n[LLM解析エラー: " + err.Error() + "]"
		p.logger.Warn("LLM output unparseable, keeping raw OCR text", zap.Error(err))
		return eq, nil
	}

	eq.Name = fields.EquipmentName
	eq.ModelNumber = fields.ModelNumber
	eq.SerialNumber = fields.SerialNumber
	eq.Manufacturer = fields.Manufacturer
	eq.Weight = fields.Weight
	eq.OutputPower = fields.OutputPower
	eq.EngineModel = fields.EngineModel
	eq.YearManufactured = fields.YearManufactured
	eq.Specifications = fields.Specifications

	if fields.HasIdentifyingInfo() {
		llmEngine := LLMEngineGemini
		eq.LLMEngine = &llmEngine
	}
	return eq, nil
}
