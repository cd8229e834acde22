package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"rewind/analysis"
	"rewind/ingest"
	"rewind/logging"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := analysis.Config{
		Type:  analysis.Music,
		Force: cfg.Force,
		Log:   logging.New("apple-music"),
	}

	var idx *analysis.Index
	if !cfg.Force {
		idx, _ = analysis.ReadValidIndex(engine, cfg.OutputDir)
	}
	if idx == nil {
		idx, err = ingest.ParseAppleMusic(ctx, engine, cfg.InputPath, cfg.OutputDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}

	if _, err := analysis.Analyse(ctx, engine, idx, cfg.OutputDir); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()

	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Path to the Apple Music Play Activity CSV file")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory to write the index, detail files and analysis artifacts into")
	fs.BoolVar(&cfg.Force, "force", cfg.Force, "Skip the index and cache lookups and recompute everything")
	fs.BoolVar(&cfg.Force, "f", cfg.Force, "Shorthand for -force")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/apple-music -in 'Apple Music - Play History Daily Tracks.csv' -out out/music")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.InputPath != "" {
		cfg.InputPath = filepath.Clean(cfg.InputPath)
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	}
	return cfg, nil
}
