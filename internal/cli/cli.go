// Package cli parses the command-line interface of the tokgrab binary.
package cli

import (
	"flag"
	"fmt"
	"io"
)

// CommandType represents the type of CLI command
type CommandType int

const (
	CommandHelp CommandType = iota
	CommandVersion
	CommandServer
	CommandExtract
)

// Command represents a parsed CLI command
type Command struct {
	Type       CommandType
	Port       int
	ConfigPath string
	URL        string
}

// String returns a string representation of the command
func (c *Command) String() string {
	switch c.Type {
	case CommandHelp:
		return "help"
	case CommandVersion:
		return "version"
	case CommandServer:
		return fmt.Sprintf("server (port: %d)", c.Port)
	case CommandExtract:
		return fmt.Sprintf("extract (url: %s)", c.URL)
	default:
		return "unknown"
	}
}

// CLI represents the command-line interface
type CLI struct {
	version string
}

// NewCLI creates a new CLI instance
func NewCLI(version string) *CLI {
	return &CLI{version: version}
}

// ParseCommand parses command-line arguments and returns a Command
func (c *CLI) ParseCommand(args []string) (*Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command specified")
	}

	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		return &Command{Type: CommandHelp}, nil
	}

	if args[0] == "-v" || args[0] == "--version" || args[0] == "version" {
		return &Command{Type: CommandVersion}, nil
	}

	switch args[0] {
	case "server":
		return c.parseServerCommand(args[1:])
	case "extract":
		return c.parseExtractCommand(args[1:])
	default:
		return nil, fmt.Errorf("unknown command: %s", args[0])
	}
}

// parseServerCommand parses the server subcommand
func (c *CLI) parseServerCommand(args []string) (*Command, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	port := fs.Int("port", 0, "override the configured listen port")
	configPath := fs.String("config", "", "path to the config file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("invalid server flags: %w", err)
	}

	return &Command{
		Type:       CommandServer,
		Port:       *port,
		ConfigPath: *configPath,
	}, nil
}

// parseExtractCommand parses the extract subcommand
func (c *CLI) parseExtractCommand(args []string) (*Command, error) {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "path to the config file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("invalid extract flags: %w", err)
	}

	if fs.NArg() != 1 {
		return nil, fmt.Errorf("extract requires exactly one video URL")
	}

	return &Command{
		Type:       CommandExtract,
		ConfigPath: *configPath,
		URL:        fs.Arg(0),
	}, nil
}

// PrintHelp prints usage information
func (c *CLI) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `tokgrab %s - short-video metadata extraction and download service

Usage:
  tokgrab server [-port N] [-config PATH]   run the HTTP server
  tokgrab extract [-config PATH] URL        extract one video and print JSON
  tokgrab version                           print the version
  tokgrab help                              print this help
`, c.version)
}

// PrintVersion prints the version
func (c *CLI) PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "tokgrab %s\n", c.version)
}
