package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nconklindev/labpivot/internal/config"
	"github.com/nconklindev/labpivot/internal/logging"
	"github.com/nconklindev/labpivot/internal/pipeline"
	"github.com/nconklindev/labpivot/internal/ui"

	"github.com/urfave/cli/v3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newSelector picks the interactive file picker unless a path was given.
var newSelector = func(cfg *config.Config, path string) pipeline.Selector {
	if path != "" {
		return pipeline.StaticSelector(path)
	}
	return ui.FilePicker{StartDir: cfg.Input.StartDir}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Println(ui.RenderError(err))
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "labpivot",
		Usage:   "Turn lab result exports into one row per patient",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Transform this file instead of opening the picker",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log at debug level and mirror logs to stderr",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Init(logging.Options{
		File:    cfg.Logging.File,
		Level:   cfg.Logging.Level,
		Verbose: cmd.Bool("verbose"),
	}); err != nil {
		return err
	}
	defer logging.Close()

	log := logging.Logger(logging.SourceApp)
	if cfg.Source != "" {
		log.Info("loaded configuration", "path", cfg.Source)
	} else {
		log.Info("no configuration file, using defaults")
	}

	selector := newSelector(cfg, cmd.String("file"))

	result, err := pipeline.Run(ctx, cfg, selector, ui.NewProgressReporter(out))
	if errors.Is(err, pipeline.ErrCancelled) {
		fmt.Fprintln(out, ui.RenderCancelled())
		return nil
	}
	if err != nil {
		log.Error("transformation failed", "err", err)
		return err
	}

	fmt.Fprintln(out, ui.RenderComplete(result))
	return nil
}
