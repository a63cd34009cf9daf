package models

// VideoRecord is the canonical record the rest of the system depends on,
// regardless of which upstream payload shape produced it. ID, Title and
// Author are always non-empty; Duration matches M:SS; Views matches
// ^\d+(\.\d)?[KM]?$. A record is never mutated after construction.
type VideoRecord struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Author       string       `json:"author"`
	Duration     string       `json:"duration"`
	Views        string       `json:"views"`
	Thumbnail    string       `json:"thumbnail"`
	DownloadURLs DownloadURLs `json:"downloadUrls"`
}

// DownloadURLs holds the candidate media URLs per quality tier.
// An empty string means the tier is not offered; all three may be empty.
type DownloadURLs struct {
	HD    string `json:"hd"`
	SD    string `json:"sd"`
	Audio string `json:"audio"`
}

// Quality represents a deliverable media tier.
type Quality string

const (
	QualityHD    Quality = "hd"
	QualitySD    Quality = "sd"
	QualityAudio Quality = "audio"
)

// ParseQuality maps a request parameter to a quality tier.
// An empty value defaults to HD; unknown values are rejected.
func ParseQuality(s string) (Quality, bool) {
	switch s {
	case "":
		return QualityHD, true
	case "hd", "sd", "audio":
		return Quality(s), true
	default:
		return "", false
	}
}

// Extension returns the file extension used for downloads of this tier.
func (q Quality) Extension() string {
	if q == QualityAudio {
		return "mp3"
	}
	return "mp4"
}

// ContentType returns the MIME type served for downloads of this tier.
func (q Quality) ContentType() string {
	if q == QualityAudio {
		return "audio/mpeg"
	}
	return "video/mp4"
}
