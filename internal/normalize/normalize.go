// Package normalize coerces untyped upstream payloads into canonical records.
//
// Upstream responses vary by provider revision: some nest media URLs under
// "video", some under flat keys, some report durations in milliseconds and
// some in seconds. Each canonical field is resolved through a fixed,
// priority-ordered chain of candidate paths; the first usable value wins and
// anything unresolved falls back to a documented default.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"tokgrab/pkg/models"
)

// ErrNoResult reports a fully absent or malformed upstream payload. Missing
// individual fields are never an error, only a missing payload is.
var ErrNoResult = errors.New("upstream returned no usable result")

// Defaults substituted for unresolvable fields.
const (
	defaultTitle    = "TikTok Video"
	defaultAuthor   = "Unknown"
	defaultDuration = "0:00"
)

// Candidate paths per field, in priority order. Adding support for a new
// upstream shape means appending paths here, not touching control flow.
var (
	idPaths        = []string{"aweme_id", "id", "video.id"}
	titlePaths     = []string{"desc", "title", "content"}
	authorPaths    = []string{"author.nickname", "author.unique_id", "author.username", "author", "uploader"}
	durationPaths  = []string{"duration", "video.duration", "music.duration"}
	viewPaths      = []string{"statistics.play_count", "play_count", "stats.playCount", "view_count"}
	thumbnailPaths = []string{"video.cover", "video.originCover", "origin_cover", "cover", "thumbnail"}
	hdPaths        = []string{"video.playAddr.0", "video.playAddr", "video.downloadAddr", "hdplay", "play"}
	sdPaths        = []string{"video.playAddr.1", "video.playAddr.0", "video.downloadAddr", "play", "wmplay"}
	audioPaths     = []string{"music.playUrl", "music.downloadUrl", "music_info.play", "music", "audio"}
)

// Video converts one raw upstream payload into a VideoRecord. It only fails
// when the payload itself is absent or not a JSON object; per-field absences
// are defaulted.
func Video(raw []byte) (models.VideoRecord, error) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return models.VideoRecord{}, ErrNoResult
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return models.VideoRecord{}, ErrNoResult
	}

	record := models.VideoRecord{
		ID:        firstString(root, idPaths),
		Title:     firstString(root, titlePaths),
		Author:    strings.TrimPrefix(firstString(root, authorPaths), "@"),
		Duration:  formatDuration(firstNumber(root, durationPaths)),
		Views:     formatViews(int64(firstNumber(root, viewPaths))),
		Thumbnail: firstString(root, thumbnailPaths),
		DownloadURLs: models.DownloadURLs{
			HD:    firstString(root, hdPaths),
			SD:    firstString(root, sdPaths),
			Audio: firstString(root, audioPaths),
		},
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Title == "" {
		record.Title = defaultTitle
	}
	if record.Author == "" {
		record.Author = defaultAuthor
	}

	return record, nil
}

// firstString returns the first non-empty string along the candidate paths.
// Numeric values are accepted and stringified; some revisions report ids as
// numbers.
func firstString(root gjson.Result, paths []string) string {
	for _, path := range paths {
		v := root.Get(path)
		switch v.Type {
		case gjson.String:
			if v.Str != "" {
				return v.Str
			}
		case gjson.Number:
			return v.String()
		}
	}
	return ""
}

// firstNumber returns the first positive numeric value along the candidate
// paths. Numeric strings are accepted.
func firstNumber(root gjson.Result, paths []string) float64 {
	for _, path := range paths {
		v := root.Get(path)
		if !v.Exists() {
			continue
		}
		if f := v.Float(); f > 0 {
			return f
		}
	}
	return 0
}

// formatDuration renders a raw duration as M:SS. Values above 1000 are
// interpreted as milliseconds. This is a heuristic, not a unit tag: a
// 17-minute duration reported in seconds would be misread as milliseconds.
func formatDuration(raw float64) string {
	if raw <= 0 {
		return defaultDuration
	}

	seconds := int(raw)
	if raw > 1000 {
		seconds = int(raw / 1000)
	}

	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// formatViews renders a view count as a compact human-readable string:
// "999", "1.0K", "2.5M".
func formatViews(count int64) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	case count > 0:
		return strconv.FormatInt(count, 10)
	default:
		return "0"
	}
}
