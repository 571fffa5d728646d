// Package ocr provides the Google Cloud Vision OCR client.
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// VisionClient extracts text from nameplate photos with the Cloud Vision
// document text detection endpoint. The service is built per call because the
// service-account credentials can be replaced at runtime through the config
// endpoints.
type VisionClient struct {
	credentialsFile string
	logger          *zap.Logger
}

// VisionOption is a functional option for configuring VisionClient
type VisionOption func(*VisionClient)

// WithVisionLogger sets a custom logger
func WithVisionLogger(logger *zap.Logger) VisionOption {
	return func(c *VisionClient) {
		c.logger = logger
	}
}

// NewVisionClient creates a new VisionClient
func NewVisionClient(credentialsFile string, opts ...VisionOption) *VisionClient {
	c := &VisionClient{
		credentialsFile: credentialsFile,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the service-account credentials file exists
func (c *VisionClient) Available() bool {
	info, err := os.Stat(c.credentialsFile)
	return err == nil && !info.IsDir()
}

// DetectText runs document text detection over the image and returns the
// recognized text. Japanese nameplates mix kanji and Latin model numbers, so
// both language hints are passed.
func (c *VisionClient) DetectText(ctx context.Context, image []byte) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("vision credentials file %s is missing", c.credentialsFile)
	}

	svc, err := vision.NewService(ctx, option.WithCredentialsFile(c.credentialsFile))
	if err != nil {
		return "", fmt.Errorf("failed to create vision service: %w", err)
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image: &vision.Image{
				Content: base64.StdEncoding.EncodeToString(image),
			},
			Features: []*vision.Feature{{
				Type: "DOCUMENT_TEXT_DETECTION",
			}},
			ImageContext: &vision.ImageContext{
				LanguageHints: []string{"ja", "en"},
			},
		}},
	}

	resp, err := svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("vision annotate request failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", fmt.Errorf("vision returned no responses")
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("vision API error %d: %s", r.Error.Code, r.Error.Message)
	}

	var text string
	switch {
	case r.FullTextAnnotation != nil && r.FullTextAnnotation.Text != "":
		text = r.FullTextAnnotation.Text
	case len(r.TextAnnotations) > 0:
		text = r.TextAnnotations[0].Description
	}

	c.logger.Debug("vision OCR completed", zap.Int("text_length", len(text)))
	return text, nil
}
