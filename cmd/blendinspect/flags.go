package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/arloliu/blend"
	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/internal/logger"
	"github.com/arloliu/blend/view"
)

// settings holds the global flags, after the config file has been applied.
type settings struct {
	configFile string
	logLevel   string
	logFormat  string
	debug      bool
	json       bool
	listLimit  int
	heapBase   int64
	offHeap    []string
}

func (s *settings) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config file",
			Value:       configPath(),
			Destination: &s.configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &s.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &s.logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &s.debug,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print results as JSON",
			Destination: &s.json,
		},
		&cli.IntFlag{
			Name:        "list-limit",
			Usage:       "maximum steps of a linked-list traversal",
			Value:       view.DefaultListLimit,
			Destination: &s.listLimit,
		},
		&cli.Int64Flag{
			Name:        "heap-base",
			Usage:       "lowest valid block address",
			Value:       int64(block.DefaultHeapBase),
			Destination: &s.heapBase,
		},
		&cli.StringSliceFlag{
			Name:        "off-heap",
			Usage:       "struct kinds with their own address space (default depends on the file version)",
			Destination: &s.offHeap,
		},
	}
}

// before applies the config file and installs the logger.
func (s *settings) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := loadConfig(s.configFile)
	if err != nil {
		return ctx, err
	}
	applyConfig(cmd, cfg, s)

	level, err := logger.ParseLevel(s.logLevel)
	if err != nil {
		return ctx, err
	}
	if s.debug {
		level = slog.LevelDebug
	}
	l, err := logger.New(stderr(cmd), s.logFormat, level)
	if err != nil {
		return ctx, err
	}

	return logger.WithContext(ctx, l), nil
}

// open parses a file with the global options. Diagnostics are logged and collected.
func (s *settings) open(ctx context.Context, path string) (*blend.File, *view.Collector, error) {
	if s.heapBase < 0 {
		return nil, nil, fmt.Errorf("heap base must not be negative, got %d", s.heapBase)
	}

	diags := &view.Collector{}
	opts := []blend.Option{
		blend.WithLogger(logger.FromContext(ctx)),
		blend.WithDiagnostics(diags.Handle),
		blend.WithListLimit(s.listLimit),
		blend.WithHeapBase(uint64(s.heapBase)),
	}
	if len(s.offHeap) > 0 {
		opts = append(opts, blend.WithOffHeapStructs(s.offHeap...))
	}

	f, err := blend.Open(path, opts...)
	if err != nil {
		return nil, nil, err
	}

	return f, diags, nil
}

// emit prints v as JSON with --json, otherwise through text.
func (s *settings) emit(cmd *cli.Command, v any, text func(w io.Writer) error) error {
	w := stdout(cmd)
	if !s.json {
		return text(w)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))

	return err
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}

// pathArg returns the first positional argument.
func pathArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() == 0 {
		return "", cli.Exit(fmt.Sprintf("%s: missing .blend file argument", cmd.Name), 2)
	}

	return cmd.Args().First(), nil
}
