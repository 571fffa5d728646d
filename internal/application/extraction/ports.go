// Package extraction turns nameplate photos into structured equipment
// records through OCR and LLM extraction.
package extraction

import "context"

// OCRClient extracts raw text from an image
type OCRClient interface {
	DetectText(ctx context.Context, image []byte) (string, error)
	Available() bool
}

// LLMClient generates model output from an image or text prompt
type LLMClient interface {
	GenerateFromImage(ctx context.Context, prompt string, image []byte) (string, error)
	GenerateFromText(ctx context.Context, prompt string) (string, error)
	Configured() bool
}
