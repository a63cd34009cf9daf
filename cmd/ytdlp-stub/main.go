// Command ytdlp-stub is a minimal stand-in for yt-dlp used in tests of the
// subprocess provider. It recognises the -J flag and prints a canned JSON
// metadata dump for the URL it is given.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrNoURL = errors.New("no URL found in arguments")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the stub logic and returns an exit code
func run(args []string, stdout, stderr io.Writer) int {
	videoURL, dumpJSON, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	if !dumpJSON {
		fmt.Fprintln(stderr, "ERROR: only -J mode is supported")
		return 1
	}

	if strings.Contains(videoURL, "fail") {
		fmt.Fprintln(stderr, "ERROR: Unable to extract video data")
		return 1
	}

	fmt.Fprint(stdout, payloadFor(videoURL))
	return 0
}

// parseArgs extracts the URL and mode from yt-dlp style arguments
func parseArgs(args []string) (string, bool, error) {
	var videoURL string
	var dumpJSON bool

	for _, arg := range args {
		switch {
		case arg == "-J" || arg == "--dump-single-json":
			dumpJSON = true
		case strings.HasPrefix(arg, "-"):
			// Ignore other flags
		default:
			videoURL = arg
		}
	}

	if videoURL == "" {
		return "", dumpJSON, ErrNoURL
	}

	return videoURL, dumpJSON, nil
}

// payloadFor renders the canned metadata dump for a URL
func payloadFor(videoURL string) string {
	return fmt.Sprintf(`{
  "id": "stub123",
  "title": "Stub Video",
  "uploader": "stubuser",
  "duration": 42,
  "view_count": 1234,
  "thumbnail": "https://example.com/thumb.jpg",
  "webpage_url": %q
}`, videoURL)
}
