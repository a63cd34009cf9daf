package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tokgrab/internal/api"
	"tokgrab/internal/cache"
	"tokgrab/internal/cli"
	"tokgrab/internal/config"
	"tokgrab/internal/deliver"
	"tokgrab/internal/extract"
	"tokgrab/internal/log"
	"tokgrab/internal/provider"
	"tokgrab/internal/ytdl"
	"tokgrab/pkg/models"
)

const Version = "0.1.0"

func main() {
	cliApp := cli.NewCLI(Version)

	if len(os.Args) < 2 {
		cliApp.PrintHelp(os.Stderr)
		os.Exit(1)
	}

	cmd, err := cliApp.ParseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		cliApp.PrintHelp(os.Stderr)
		os.Exit(1)
	}

	switch cmd.Type {
	case cli.CommandHelp:
		cliApp.PrintHelp(os.Stdout)
	case cli.CommandVersion:
		cliApp.PrintVersion(os.Stdout)
	case cli.CommandServer:
		os.Exit(runServer(cmd))
	case cli.CommandExtract:
		os.Exit(runExtract(cmd))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd.String())
		os.Exit(1)
	}
}

// loadConfig loads the configuration from the given path or the default one.
func loadConfig(path string) (*models.Config, error) {
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, err
	}

	return mgr.Get(), nil
}

// buildProvider creates the upstream provider selected by the configuration.
func buildProvider(cfg *models.Config) (provider.Provider, error) {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	switch cfg.Provider {
	case models.ProviderYtdlp:
		path := cfg.YtdlPath
		if _, err := os.Stat(path); err != nil {
			// Configured binary missing: install a managed copy
			mgr := ytdl.NewManager(filepath.Join(config.GetDataDir(), "utils"))
			if err := mgr.EnsureInstalled(); err != nil {
				return nil, fmt.Errorf("yt-dlp unavailable: %w", err)
			}
			path = mgr.BinaryPath()
		}
		return provider.NewYtdlpProvider(path), nil
	default:
		return provider.NewAPIProvider(cfg.APIBaseURL, timeout), nil
	}
}

func runServer(cmd *cli.Command) int {
	cfg, err := loadConfig(cmd.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	if cmd.Port != 0 {
		cfg.Port = cmd.Port
	}

	log.Configure(log.Config{Level: cfg.LogLevel})
	logger := log.WithComponent("main")

	prov, err := buildProvider(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("provider setup failed")
		return 1
	}

	store := cache.NewStore()

	var opts []extract.Option
	if cfg.DedupeInFlight {
		opts = append(opts, extract.WithSingleFlight())
	}
	extractor := extract.NewService(store, prov, opts...)
	deliverer := deliver.NewService(store)

	server := api.NewServer(cfg, extractor, deliverer)
	if err := server.Start(); err != nil {
		logger.Error().Err(err).Msg("server start failed")
		return 1
	}

	logger.Info().Str("addr", server.GetActualAddr()).Str("provider", cfg.Provider).Msg("server listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	if err := server.Stop(); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
		return 1
	}

	return 0
}

func runExtract(cmd *cli.Command) int {
	cfg, err := loadConfig(cmd.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	log.Configure(log.Config{Level: cfg.LogLevel, Output: os.Stderr})

	prov, err := buildProvider(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	extractor := extract.NewService(cache.NewStore(), prov)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	record, err := extractor.Extract(ctx, cmd.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(string(out))

	return 0
}
