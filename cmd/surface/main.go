// Command surface prints the bound interop surface: index domains, result
// shims and the bridge host module.
//
//	surface -config bindings.yaml -list
//	surface -config bindings.yaml -wit
//	surface -config bindings.yaml -i
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/draco-go/bridge"
	"github.com/wippyai/draco-go/internal/gen"
)

func main() {
	var (
		configFile  = flag.String("config", "bindings.yaml", "Path to bindings.yaml")
		list        = flag.Bool("list", false, "List the surface and exit (default)")
		witOut      = flag.Bool("wit", false, "Print the bridge interface as WIT and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		logLevel    = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	log, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()
	gen.SetLogger(log)
	bridge.SetLogger(log)

	cfg, err := gen.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))

	if *interactive {
		if !tty {
			fmt.Fprintln(os.Stderr, "Error: -i needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg, *configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *witOut {
		fmt.Print(bridge.RenderWIT(bridge.New(nil, bridgeConfig(cfg)).ModuleName()))
	}
	if *list || !*witOut {
		printSurface(os.Stdout, buildEntries(cfg), tty)
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

func printSurface(w io.Writer, entries []entry, color bool) {
	render := func(s styleFunc, text string) string {
		if !color {
			return text
		}
		return s(text)
	}

	section := ""
	for _, e := range entries {
		if e.section != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			section = e.section
			fmt.Fprintln(w, render(titleStyle.Render, section))
		}
		fmt.Fprintf(w, "  %s  %s\n", render(funcStyle.Render, e.name), render(typeStyle.Render, e.summary))
	}
}
