package models

// Config represents the application configuration
type Config struct {
	BindAddr              string `json:"bindAddr"`
	Port                  int    `json:"port"`
	LogLevel              string `json:"logLevel"`
	Provider              string `json:"provider"` // "api" or "ytdlp"
	APIBaseURL            string `json:"apiBaseUrl"`
	YtdlPath              string `json:"ytdlPath"`
	RequestTimeoutSeconds int    `json:"requestTimeoutSeconds"`
	DedupeInFlight        bool   `json:"dedupeInFlight"`
}

// Provider selection values.
const (
	ProviderAPI   = "api"
	ProviderYtdlp = "ytdlp"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BindAddr:              "0.0.0.0",
		Port:                  8080,
		LogLevel:              "info",
		Provider:              ProviderAPI,
		APIBaseURL:            "https://www.tikwm.com/api/",
		YtdlPath:              "yt-dlp",
		RequestTimeoutSeconds: 15,
		DedupeInFlight:        false,
	}
}
