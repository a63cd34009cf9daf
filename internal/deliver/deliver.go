// Package deliver resolves download requests against cached records.
package deliver

import (
	"errors"
	"fmt"

	"tokgrab/internal/cache"
	"tokgrab/pkg/models"
)

var (
	// ErrRecordNotFound reports a delivery request for a URL with no live
	// cache entry; the caller must extract first.
	ErrRecordNotFound = errors.New("video record not found")

	// ErrQualityUnavailable reports that the requested tier resolves to no
	// usable URL even after fallback.
	ErrQualityUnavailable = errors.New("quality not available")
)

// Resolution describes the concrete media URL to serve for a download.
type Resolution struct {
	URL         string
	Filename    string
	ContentType string
}

// Service resolves quality tiers against previously extracted records. It
// performs no network I/O itself; transferring the resolved URL is the
// boundary layer's job.
type Service struct {
	cache *cache.Store
}

// NewService creates a delivery service over the given cache.
func NewService(store *cache.Store) *Service {
	return &Service{cache: store}
}

// Resolve picks the media URL for the requested tier. SD falls back to HD
// when absent; audio has no substitute.
func (s *Service) Resolve(sourceURL string, quality models.Quality) (Resolution, error) {
	record, ok := s.cache.Get(sourceURL)
	if !ok {
		return Resolution{}, ErrRecordNotFound
	}

	var mediaURL string
	switch quality {
	case models.QualityHD:
		mediaURL = record.DownloadURLs.HD
	case models.QualitySD:
		mediaURL = record.DownloadURLs.SD
		if mediaURL == "" {
			mediaURL = record.DownloadURLs.HD
		}
	case models.QualityAudio:
		mediaURL = record.DownloadURLs.Audio
	default:
		return Resolution{}, fmt.Errorf("%w: %s", ErrQualityUnavailable, quality)
	}

	if mediaURL == "" {
		return Resolution{}, fmt.Errorf("%w: %s", ErrQualityUnavailable, quality)
	}

	return Resolution{
		URL:         mediaURL,
		Filename:    fmt.Sprintf("%s_%s.%s", record.ID, quality, quality.Extension()),
		ContentType: quality.ContentType(),
	}, nil
}
