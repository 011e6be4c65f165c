// Package main provides the entry point for the storefront service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atunesdelpacifico/storefront/pkg/platform"
)

// Version is the release version, overridden at build time.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	address     string
	showVersion bool
}

func parseFlags() options {
	opts := options{}
	flag.StringVar(&opts.configPath, "config", "storefront.yaml", "Path to configuration file")
	flag.StringVar(&opts.address, "address", "", "Listen address override")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("storefront version %s\n", Version)
		return nil
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := platform.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}

	p, err := platform.New(cfg, platform.WithLogger(log), platform.WithVersion(Version))
	if err != nil {
		return fmt.Errorf("assembling storefront: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return p.Run(ctx)
}
