package manual

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const maxResults = 5

// SearchOutcome pairs ranked pages with the keywords that found them; the
// keywords drive screen resolution downstream.
type SearchOutcome struct {
	Results  []Result `json:"results"`
	Keywords []string `json:"keywords"`
}

// Service is the manual search front: keyword extraction, full-text lookup
// and a short-lived cache keyed by the normalized query. Repeated identical
// utterances inside the TTL never hit the model twice.
type Service struct {
	index     *Index
	extractor KeywordExtractor
	cache     *gocache.Cache
	logger    *zap.Logger
}

func NewService(index *Index, extractor KeywordExtractor, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		index:     index,
		extractor: extractor,
		cache:     gocache.New(cacheTTL, 2*cacheTTL),
		logger:    logger,
	}
}

// Search resolves a spoken query to ranked manual pages. An empty query or
// zero hits returns an empty outcome; only index failures are errors.
func (s *Service) Search(ctx context.Context, query string) (*SearchOutcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchOutcome{}, nil
	}

	if cached, ok := s.cache.Get(query); ok {
		s.logger.Debug("manual search cache hit", zap.String("query", query))
		return cached.(*SearchOutcome), nil
	}

	keywords := s.extractor.Extract(ctx, query)
	results, err := s.index.Search(query, keywords, maxResults)
	if err != nil {
		return nil, err
	}

	outcome := &SearchOutcome{Results: results, Keywords: keywords}
	s.cache.Set(query, outcome, gocache.DefaultExpiration)

	s.logger.Info("manual search",
		zap.String("query", query),
		zap.Strings("keywords", keywords),
		zap.Int("hits", len(results)))
	return outcome, nil
}
