package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tokgrab/internal/log"
)

// apiEnvelope is the response wrapper used by the scraping API: payload
// data nested under "data", non-zero "code" signalling failure.
type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// APIProvider fetches metadata from a hosted scraping API over HTTP.
type APIProvider struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewAPIProvider creates an API provider against the given base URL.
func NewAPIProvider(baseURL string, timeout time.Duration) *APIProvider {
	return &APIProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  log.WithComponent("provider.api"),
	}
}

// Fetch performs a single best-effort metadata request. No retries.
func (p *APIProvider) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	form := url.Values{}
	form.Set("url", sourceURL)
	form.Set("hd", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	if envelope.Code != 0 {
		p.logger.Warn().Int("code", envelope.Code).Str("msg", envelope.Msg).Msg("upstream rejected request")
		return nil, fmt.Errorf("%w: %s", ErrUpstreamFailure, envelope.Msg)
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, ErrEmptyResult
	}

	return envelope.Data, nil
}
