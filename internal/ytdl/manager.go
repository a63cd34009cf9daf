// Package ytdl manages the yt-dlp binary used by the subprocess provider.
package ytdl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"tokgrab/internal/log"
)

const releaseAPI = "https://api.github.com/repos/yt-dlp/yt-dlp/releases/latest"

// Manager handles yt-dlp installation
type Manager struct {
	utilsDir string
	logger   zerolog.Logger
}

// githubRelease is the subset of the GitHub release payload we consume.
type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// NewManager creates a new yt-dlp manager rooted at utilsDir
func NewManager(utilsDir string) *Manager {
	os.MkdirAll(utilsDir, 0755)

	return &Manager{
		utilsDir: utilsDir,
		logger:   log.WithComponent("ytdl"),
	}
}

// BinaryPath returns the path to the yt-dlp executable
func (m *Manager) BinaryPath() string {
	return filepath.Join(m.utilsDir, binaryName())
}

// IsInstalled checks if yt-dlp is installed
func (m *Manager) IsInstalled() bool {
	_, err := os.Stat(m.BinaryPath())
	return err == nil
}

// EnsureInstalled downloads yt-dlp when it is not present yet
func (m *Manager) EnsureInstalled() error {
	if m.IsInstalled() {
		return nil
	}

	m.logger.Info().Msg("yt-dlp not found, downloading")
	return m.Download()
}

// Download fetches the latest yt-dlp release and installs it
func (m *Manager) Download() error {
	release, err := m.latestRelease()
	if err != nil {
		return err
	}

	name := binaryName()
	var downloadURL string
	for _, asset := range release.Assets {
		if asset.Name == name {
			downloadURL = asset.BrowserDownloadURL
			break
		}
	}
	if downloadURL == "" {
		return fmt.Errorf("no yt-dlp asset found for platform %s", name)
	}

	m.logger.Info().Str("version", release.TagName).Msg("downloading yt-dlp")

	resp, err := http.Get(downloadURL)
	if err != nil {
		return fmt.Errorf("failed to download yt-dlp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	binaryPath := m.BinaryPath()
	tmpPath := binaryPath + ".tmp"

	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0755); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to make executable: %w", err)
	}

	if err := os.Rename(tmpPath, binaryPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to install binary: %w", err)
	}

	m.logger.Info().Str("version", release.TagName).Msg("yt-dlp installed")

	return nil
}

// latestRelease fetches the latest release metadata from GitHub
func (m *Manager) latestRelease() (*githubRelease, error) {
	resp, err := http.Get(releaseAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to parse release info: %w", err)
	}

	return &release, nil
}

// binaryName returns the yt-dlp asset name for the current platform
func binaryName() string {
	switch runtime.GOOS {
	case "windows":
		return "yt-dlp.exe"
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "yt-dlp_linux_aarch64"
		}
		return "yt-dlp_linux"
	case "darwin":
		return "yt-dlp_macos"
	default:
		return "yt-dlp"
	}
}
