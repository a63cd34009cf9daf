package provider

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"

	"tokgrab/internal/log"
)

// YtdlpProvider shells out to yt-dlp for metadata extraction. The JSON dump
// it emits is consumed by the normalizer like any other upstream payload.
type YtdlpProvider struct {
	path   string
	logger zerolog.Logger
}

// NewYtdlpProvider creates a provider invoking the yt-dlp binary at path.
func NewYtdlpProvider(path string) *YtdlpProvider {
	return &YtdlpProvider{
		path:   path,
		logger: log.WithComponent("provider.ytdlp"),
	}
}

// Fetch runs yt-dlp once and returns its JSON metadata dump.
func (p *YtdlpProvider) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	args := []string{
		"-J",
		"--no-playlist",
		"--no-warnings",
		sourceURL,
	}

	cmd := exec.CommandContext(ctx, p.path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		p.logger.Warn().Err(err).Str("stderr", stderr.String()).Msg("yt-dlp invocation failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}

	return out, nil
}
