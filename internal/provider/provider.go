// Package provider fetches raw metadata payloads for source URLs.
//
// A provider is an opaque upstream strategy: it returns whatever
// semi-structured JSON the upstream gives it and leaves all shape concerns
// to the normalizer.
package provider

import (
	"context"
	"errors"
)

var (
	ErrEmptyResult     = errors.New("provider returned an empty result")
	ErrUpstreamFailure = errors.New("upstream request failed")
)

// Provider fetches the raw metadata payload for a source URL.
type Provider interface {
	Fetch(ctx context.Context, sourceURL string) ([]byte, error)
}
