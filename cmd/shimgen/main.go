// Command shimgen renders index domains and result shims from bindings.yaml.
//
//	go run ./cmd/shimgen -config bindings.yaml
//	go run ./cmd/shimgen -config bindings.yaml -check
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/draco-go/internal/gen"
)

func main() {
	var (
		configFile  = flag.String("config", "bindings.yaml", "Path to bindings.yaml")
		check       = flag.Bool("check", false, "Report stale generated files and exit non-zero instead of writing")
		skipInspect = flag.Bool("skip-inspect", false, "Do not load payload packages to verify their types")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	log, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()
	gen.SetLogger(log)

	if err := run(*configFile, *check, *skipInspect); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func run(configFile string, check, skipInspect bool) error {
	cfg, err := gen.LoadConfig(configFile)
	if err != nil {
		return err
	}
	root := filepath.Dir(configFile)

	if !skipInspect {
		if _, err := (&gen.Inspector{Dir: root}).Inspect(cfg); err != nil {
			return fmt.Errorf("inspect payloads: %w", err)
		}
	}

	files, err := gen.Generate(cfg)
	if err != nil {
		return err
	}

	if check {
		var stale []string
		for _, f := range files {
			old, err := os.ReadFile(filepath.Join(root, f.Path))
			if err != nil || !bytes.Equal(old, f.Content) {
				stale = append(stale, f.Path)
			}
		}
		if len(stale) > 0 {
			return fmt.Errorf("stale generated files: %v", stale)
		}
		return nil
	}

	_, err = gen.WriteFiles(root, files)
	return err
}
