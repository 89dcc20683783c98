package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/fault-tree-analyzer/pkg/config"
	"github.com/ritzau/fault-tree-analyzer/pkg/cycles"
	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
	"github.com/ritzau/fault-tree-analyzer/pkg/logging"
	"github.com/ritzau/fault-tree-analyzer/pkg/mef"
	"github.com/ritzau/fault-tree-analyzer/pkg/report"
	"github.com/ritzau/fault-tree-analyzer/pkg/shorthand"
	"github.com/ritzau/fault-tree-analyzer/pkg/watcher"
	"github.com/ritzau/fault-tree-analyzer/pkg/web"
)

func main() {
	f := pflag.NewFlagSet("fta", pflag.ExitOnError)
	f.StringP("input", "i", "", "Shorthand model file to load")
	f.StringP("output", "o", "", "Output path (default: stdout)")
	f.String("format", "xml", "Output format: xml or shorthand")
	f.Int("nest", 0, "Nesting depth for gate formulas in XML output")
	f.Bool("serve", false, "Start the web viewer instead of writing output")
	f.Int("port", 8080, "Port for the web viewer (only used with --serve)")
	f.Bool("watch", false, "Reload the model when the input file changes (only used with --serve)")
	f.String("verbosity", "", "Log level: debug, info, warn, error")
	f.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	f.Bool("json-logs", false, "Log as JSON instead of compact console lines")
	if err := f.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	setupLogging(cfg)

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file (use --input)")
		os.Exit(2)
	}

	if cfg.Serve {
		runServe(cfg)
		return
	}

	if err := runOnce(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.VerboseCnt > 0 {
		level = slog.LevelDebug
	}
	switch cfg.Verbosity {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.JSONLogs {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}
}

// runOnce loads the model, prints the report, and writes the converted
// model unless validation found gate cycles.
func runOnce(cfg *config.Config) error {
	ft, gateCycles, err := loadModel(cfg.Input)
	if err != nil {
		return err
	}

	report.PrintModelReport(ft, gateCycles)

	if len(gateCycles) > 0 {
		return fmt.Errorf("model %q contains gate cycles", ft.Name())
	}

	return writeOutput(cfg, ft)
}

// loadModel parses the shorthand file and validates the gate structure.
// A cyclic model is not an error here; the cycles are returned so
// callers can report them.
func loadModel(path string) (*faulttree.FaultTree, []cycles.GateCycle, error) {
	logging.Debug("loading model", "path", path)

	ft, err := shorthand.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}

	if _, err := ft.SortedGates(); err != nil {
		if errors.Is(err, faulttree.ErrCycle) {
			return ft, cycles.FindGateCycles(ft.Gates()), nil
		}
		return nil, nil, err
	}

	logging.Debug("model loaded",
		"name", ft.Name(),
		"gates", len(ft.Gates()),
		"basicEvents", len(ft.BasicEvents()))
	return ft, nil, nil
}

func writeOutput(cfg *config.Config, ft *faulttree.FaultTree) error {
	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	switch cfg.Format {
	case "shorthand":
		return mef.WriteShorthand(w, ft)
	default:
		return mef.WriteXML(w, ft, cfg.Nest)
	}
}

func runServe(cfg *config.Config) {
	server := web.NewServer(cfg.Nest)

	reload := func() {
		ft, gateCycles, err := loadModel(cfg.Input)
		if err != nil {
			logging.Error("failed to load model", "error", err)
			server.SetInvalid(err.Error())
			return
		}
		if len(gateCycles) > 0 {
			logging.Error("model contains gate cycles", "count", len(gateCycles))
			server.SetInvalid(fmt.Sprintf("model contains %d gate cycle(s)", len(gateCycles)))
			return
		}
		server.SetTree(ft)
	}
	reload()

	if cfg.Watch {
		if err := watchModel(cfg.Input, reload); err != nil {
			logging.Fatal("failed to watch model file", "error", err)
		}
	}

	logging.Info("starting web viewer", "port", cfg.Port)
	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("failed to start server", "error", err)
	}
}

// watchModel re-runs reload whenever the model file changes. Events are
// debounced so editors that write in several bursts trigger one reload.
func watchModel(path string, reload func()) error {
	ctx := context.Background()

	fw, err := watcher.NewFileWatcher(path)
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	deb := watcher.NewDebouncer(fw.Events(), 200*time.Millisecond, 2*time.Second)
	deb.Start(ctx)

	go func() {
		for ev := range deb.Events() {
			logging.Info("model file changed, reloading", "paths", ev.Paths)
			reload()
		}
	}()

	return nil
}
