package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tokgrab/internal/deliver"
	"tokgrab/internal/metrics"
	"tokgrab/pkg/models"
)

var ErrUnsupportedURL = errors.New("unsupported video URL")

// extractRequest is the body of POST /api/extract.
type extractRequest struct {
	URL string `json:"url"`
}

// handleHealth handles health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract handles POST /api/extract: validate the source URL, then
// delegate to the extraction service.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	if err := validateSourceURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a valid TikTok video link")
		return
	}

	record, err := s.extractor.Extract(r.Context(), req.URL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process video. Please ensure the URL is a valid TikTok video link.")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleDownload handles GET /api/download: resolve the media URL for the
// requested quality and stream the bytes through as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sourceURL := r.URL.Query().Get("url")
	if err := validateSourceURL(sourceURL); err != nil {
		writeError(w, http.StatusBadRequest, "Video URL is required")
		return
	}

	quality, ok := models.ParseQuality(r.URL.Query().Get("quality"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid quality option")
		return
	}

	resolution, err := s.deliverer.Resolve(sourceURL, quality)
	switch {
	case errors.Is(err, deliver.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "Video data not found. Please extract the video first.")
		return
	case errors.Is(err, deliver.ErrQualityUnavailable):
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s quality not available for this video", strings.ToUpper(string(quality))))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to download video. Please try again.")
		return
	}

	metrics.Downloads.WithLabelValues(string(quality)).Inc()

	if err := s.streamMedia(w, r, resolution); err != nil {
		s.logger.Error().Err(err).Str("quality", string(quality)).Msg("media transfer failed")
	}
}

// streamMedia proxies the resolved media URL to the client as a file
// attachment.
func (s *Server) streamMedia(w http.ResponseWriter, r *http.Request, resolution deliver.Resolution) error {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, resolution.URL, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to download video. Please try again.")
		return err
	}

	resp, err := s.mediaClient.Do(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to download video. Please try again.")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		writeError(w, http.StatusInternalServerError, "Failed to download video. Please try again.")
		return fmt.Errorf("media fetch returned status %d", resp.StatusCode)
	}

	w.Header().Set("Content-Type", resolution.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resolution.Filename))
	w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

	// Headers are committed after the first copied byte; transfer errors
	// past this point can only be logged.
	_, err = io.Copy(w, resp.Body)
	return err
}

// validateSourceURL checks that the URL is well-formed and belongs to a
// supported video platform domain.
func validateSourceURL(rawURL string) error {
	if rawURL == "" {
		return ErrUnsupportedURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ErrUnsupportedURL
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrUnsupportedURL
	}

	host := parsed.Hostname()
	if host == "tiktok.com" || strings.HasSuffix(host, ".tiktok.com") {
		return nil
	}

	return ErrUnsupportedURL
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
