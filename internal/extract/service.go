// Package extract orchestrates cache lookup, provider calls and
// normalization into one extraction operation.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"tokgrab/internal/cache"
	"tokgrab/internal/log"
	"tokgrab/internal/metrics"
	"tokgrab/internal/normalize"
	"tokgrab/internal/provider"
	"tokgrab/pkg/models"
)

// ErrExtractionFailed reports that the upstream call produced no usable
// result. Nothing is cached when it occurs.
var ErrExtractionFailed = errors.New("extraction failed")

// Service produces canonical records for source URLs, consulting the TTL
// cache before going upstream. Within the TTL window repeated extractions of
// the same URL return the identical cached record.
type Service struct {
	cache    *cache.Store
	provider provider.Provider
	group    *singleflight.Group // nil unless de-duplication is enabled
	logger   zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSingleFlight collapses concurrent first-time extractions of the same
// URL into one upstream call. Off by default: duplicate concurrent calls are
// an accepted cost for this workload.
func WithSingleFlight() Option {
	return func(s *Service) {
		s.group = new(singleflight.Group)
	}
}

// NewService creates an extraction service over the given cache and provider.
func NewService(store *cache.Store, p provider.Provider, opts ...Option) *Service {
	s := &Service{
		cache:    store,
		provider: p,
		logger:   log.WithComponent("extract"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract returns the canonical record for sourceURL: cache hit, or exactly
// one provider call followed by normalization and a cache write.
func (s *Service) Extract(ctx context.Context, sourceURL string) (models.VideoRecord, error) {
	if record, ok := s.cache.Get(sourceURL); ok {
		metrics.CacheHits.Inc()
		s.logger.Debug().Str("url", sourceURL).Msg("cache hit")
		return record, nil
	}
	metrics.CacheMisses.Inc()

	if s.group != nil {
		v, err, _ := s.group.Do(sourceURL, func() (interface{}, error) {
			return s.fetchAndStore(ctx, sourceURL)
		})
		if err != nil {
			return models.VideoRecord{}, err
		}
		return v.(models.VideoRecord), nil
	}

	return s.fetchAndStore(ctx, sourceURL)
}

func (s *Service) fetchAndStore(ctx context.Context, sourceURL string) (models.VideoRecord, error) {
	raw, err := s.provider.Fetch(ctx, sourceURL)
	if err != nil {
		metrics.Extractions.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("url", sourceURL).Msg("upstream fetch failed")
		return models.VideoRecord{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	record, err := normalize.Video(raw)
	if err != nil {
		metrics.Extractions.WithLabelValues("error").Inc()
		return models.VideoRecord{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	s.cache.Put(sourceURL, record)
	metrics.Extractions.WithLabelValues("ok").Inc()
	s.logger.Info().Str("url", sourceURL).Str("id", record.ID).Msg("extracted video")

	return record, nil
}
