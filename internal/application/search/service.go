// Package search finds equipment documents (manuals, spec sheets, parts
// lists) on the web through pluggable search providers.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/equipment/backend/internal/domain/shared"
)

// Result is one normalized search hit
type Result struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Snippet string   `json:"snippet"`
	Score   *float64 `json:"score,omitempty"`
}

// Provider executes a query against one search backend
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
	Name() string
}

// typeKeywords appends Japanese document keywords to the query per document
// type. Unknown types fall back to manual.
var typeKeywords = map[string]string{
	"manual": "説明書 取扱説明書 マニュアル PDF",
	"spec":   "仕様書 カタログ スペック PDF",
	"parts":  "部品表 パーツリスト 部品図 PDF",
}

const snippetLimit = 300

// Service queries the primary provider and falls back to the secondary when
// the primary fails or is unconfigured.
type Service struct {
	primary    Provider
	fallback   Provider
	maxResults int
	logger     *zap.Logger
}

// NewService creates a search Service. Either provider may be nil.
func NewService(primary, fallback Provider, maxResults int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Service{
		primary:    primary,
		fallback:   fallback,
		maxResults: maxResults,
		logger:     logger,
	}
}

// BuildQuery combines the equipment terms with the document-type keywords
func BuildQuery(name, modelNumber, manufacturer, docType string) string {
	keywords, ok := typeKeywords[docType]
	if !ok {
		keywords = typeKeywords["manual"]
	}

	var terms []string
	for _, t := range []string{manufacturer, name, modelNumber} {
		if strings.TrimSpace(t) != "" {
			terms = append(terms, strings.TrimSpace(t))
		}
	}
	terms = append(terms, keywords)
	return strings.Join(terms, " ")
}

// Search runs the query against the providers and returns normalized results
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "search query must not be empty")
	}

	var firstErr error
	for _, p := range []Provider{s.primary, s.fallback} {
		if p == nil {
			continue
		}
		results, err := p.Search(ctx, query, s.maxResults)
		if err != nil {
			s.logger.Warn("search provider failed",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return normalize(results, s.maxResults), nil
	}

	if firstErr != nil {
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", fmt.Sprintf("all search providers failed: %v", firstErr))
	}
	return nil, shared.NewDomainError("INVALID_STATE", "no search provider is configured")
}

// SearchDocuments builds the document query for an equipment record and runs it
func (s *Service) SearchDocuments(ctx context.Context, name, modelNumber, manufacturer, docType string) ([]Result, error) {
	if strings.TrimSpace(name) == "" && strings.TrimSpace(modelNumber) == "" && strings.TrimSpace(manufacturer) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "at least one of name, model number or manufacturer is required")
	}
	return s.Search(ctx, BuildQuery(name, modelNumber, manufacturer, docType))
}

func normalize(results []Result, max int) []Result {
	if len(results) > max {
		results = results[:max]
	}
	out := make([]Result, 0, len(results))
	for _, r := range results {
		r.Snippet = truncateRunes(r.Snippet, snippetLimit)
		out = append(out, r)
	}
	return out
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
