// CLAUDE:SUMMARY CLI entry point for pagerip — archives one web page with flag or interactive-prompt input.
// Command pagerip archives a single web page for offline viewing.
//
// Usage:
//
//	pagerip -url https://example.com -dest ./example
//	pagerip                                  # prompts for URL and destination
//	pagerip -config pagerip.yaml -url ...    # tuning via YAML config
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hazyhaar/pagerip"
)

func main() {
	pageURL := flag.String("url", "", "page to archive (scheme defaults to https)")
	dest := flag.String("dest", "", "destination directory")
	configPath := flag.String("config", "", "path to pagerip.yaml config file")
	timeout := flag.Duration("timeout", 0, "per-request timeout (overrides config)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *pageURL, *dest, *timeout); err != nil {
		logger.Error("pagerip: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, pageURL, dest string, timeout time.Duration) error {
	cfg := pagerip.DefaultConfig()
	if configPath != "" {
		loaded, err := pagerip.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if timeout > 0 {
		cfg.HTTP.Timeout = timeout
	}

	in := bufio.NewScanner(os.Stdin)
	if pageURL == "" {
		pageURL = prompt(in, "Enter website URL (e.g. https://example.com): ")
	}
	if dest == "" {
		dest = cfg.Output.Dir
	}
	if dest == "" {
		dest = prompt(in, "Enter destination folder: ")
	}

	stats, err := pagerip.New(cfg, logger).Rip(ctx, pageURL, dest)
	if err != nil {
		return err
	}

	printSummary(stats)
	return nil
}

// prompt reads a non-empty line from stdin, stripping surrounding quotes.
func prompt(in *bufio.Scanner, label string) string {
	for {
		fmt.Fprint(os.Stderr, label)
		if !in.Scan() {
			fmt.Fprintln(os.Stderr)
			os.Exit(1)
		}
		if v := strings.Trim(strings.TrimSpace(in.Text()), `"'`); v != "" {
			return v
		}
	}
}

func printSummary(stats *pagerip.Stats) {
	fmt.Printf("Saved %s to %s (%s)\n",
		stats.PageURL, stats.Dest, stats.Elapsed.Round(time.Millisecond))
	for _, cat := range []pagerip.Category{pagerip.Stylesheet, pagerip.Script, pagerip.Image} {
		fmt.Printf("  %-5s %d files, %s\n",
			cat.Dir()+":", stats.Files[cat], humanize.Bytes(uint64(stats.Bytes[cat])))
	}
	if stats.Skipped > 0 {
		fmt.Printf("  skipped %d assets (references kept pointing at the originals)\n", stats.Skipped)
	}
}
