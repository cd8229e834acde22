package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"rewind/analysis"
	"rewind/fileutils"
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

	if err := run(cfg, logging.New("export-schemas")); err != nil {
		fmt.Fprintf(os.Stderr, "export-schemas: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, log zerolog.Logger) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	schemas := analysis.ArtifactSchemas()
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(cfg.OutputDir, name+".schema.json")
		if err := fileutils.WriteJSON(path, schemas[name], true); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote schema")
	}
	return nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()

	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory to write the JSON schema files into")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/export-schemas -out docs/schemas")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.OutputDir != "" {
		cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	}
	return cfg, nil
}
