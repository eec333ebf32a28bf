package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nconklindev/labpivot/internal/config"
	"github.com/nconklindev/labpivot/internal/converter"
	"github.com/nconklindev/labpivot/internal/logging"
	"github.com/nconklindev/labpivot/internal/pivot"
	"github.com/nconklindev/labpivot/internal/types"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type State int

const (
	StateIdle State = iota
	StateFileChosen
	StateConverted
	StateReshaped
	StateWritten
	StateCleanedUp
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFileChosen:
		return "file_chosen"
	case StateConverted:
		return "converted"
	case StateReshaped:
		return "reshaped"
	case StateWritten:
		return "written"
	case StateCleanedUp:
		return "cleaned_up"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Phase names a step that reports progress.
type Phase string

const (
	PhaseConverting Phase = "Converting"
	PhaseReshaping  Phase = "Reshaping"
	PhaseWriting    Phase = "Writing"
)

// Reporter receives progress for each phase of a run.
type Reporter interface {
	Start(phase Phase)
	Progress(done, total int)
	Finish()
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) Start(Phase) {}

func (NopReporter) Progress(int, int) {}

func (NopReporter) Finish() {}

// Options derives the reshape settings from cfg.
func Options(cfg *config.Config) pivot.Options {
	overrides := make(map[string]string, len(cfg.Columns.Abbreviations))
	for _, a := range cfg.Columns.Abbreviations {
		overrides[a.TestName] = a.Column
	}

	return pivot.Options{
		IdentityColumns:        cfg.Pivot.IdentityColumns,
		KeyColumn:              cfg.Pivot.KeyColumn,
		ValueColumn:            cfg.Pivot.ValueColumn,
		HeaderRenames:          pivot.Renames(cfg.Columns.BuiltinAbbreviations, overrides),
		DropIncompleteIdentity: cfg.Pivot.DropIncompleteIdentity,
	}
}

type run struct {
	cfg   *config.Config
	state State
	log   *log.Logger
}

func (r *run) enter(s State) {
	r.log.Debug("state", "from", r.state, "to", s)
	r.state = s
}

// Run selects a file and transforms it: Idle -> FileChosen -> (Converted) ->
// Reshaped -> Written -> (CleanedUp) -> Done, or Idle -> Cancelled.
// Every step blocks; ctx is checked between steps only.
func Run(ctx context.Context, cfg *config.Config, selector Selector, reporter Reporter) (result *types.PivotResult, err error) {
	if reporter == nil {
		reporter = NopReporter{}
	}

	r := &run{
		cfg:   cfg,
		state: StateIdle,
		log:   logging.Logger(logging.SourcePipeline).With("run", uuid.NewString()),
	}

	inputFile, err := selector.Select(ctx)
	if err != nil {
		return nil, fmt.Errorf("file selection failed: %w", err)
	}
	if inputFile == "" {
		r.enter(StateCancelled)
		r.log.Info("selection cancelled")
		r.enter(StateDone)
		return nil, ErrCancelled
	}
	r.enter(StateFileChosen)
	r.log.Info("file chosen", "input", inputFile)

	if _, err := os.Stat(inputFile); err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", inputFile, err)
	}

	result = &types.PivotResult{InputFile: inputFile}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reporter.Start(PhaseConverting)
	norm, err := converter.Normalize(inputFile, cfg.RequiredColumns(), reporter.Progress)
	reporter.Finish()
	if err != nil {
		r.log.Error("normalize failed", "err", err)
		return nil, err
	}
	if norm.Intermediate {
		result.IntermediateFile = norm.Path
		r.enter(StateConverted)

		// Failed runs clean up here; successful ones below, where a removal
		// error becomes a warning on the result.
		defer func() {
			if err != nil {
				r.removeIntermediate(norm.Path)
			}
		}()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := converter.ReadFileData(norm.Path)
	if err != nil {
		r.log.Error("read failed", "path", norm.Path, "err", err)
		return nil, err
	}
	result.SourceRows = len(data.Rows)

	opts := Options(cfg)
	opts.Progress = reporter.Progress

	reporter.Start(PhaseReshaping)
	wide, err := pivot.Reshape(data, opts)
	reporter.Finish()
	if err != nil {
		r.log.Error("reshape failed", "err", err)
		return nil, err
	}
	r.enter(StateReshaped)

	result.Patients = len(wide.Rows)
	result.TestColumns = wide.Headers[len(opts.IdentityColumns):]

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputFile := converter.OutputPath(inputFile, cfg.Output.Suffix)
	reporter.Start(PhaseWriting)
	err = converter.WriteXLSX(outputFile, wide, converter.XLSXOptions{
		Sheet:        cfg.Output.Sheet,
		NumericCells: cfg.Output.NumericCells,
	}, reporter.Progress)
	reporter.Finish()
	if err != nil {
		r.log.Error("write failed", "output", outputFile, "err", err)
		return nil, err
	}
	result.OutputFile = outputFile
	r.enter(StateWritten)
	r.log.Info("output written", "output", outputFile, "patients", result.Patients, "tests", len(result.TestColumns))

	if norm.Intermediate {
		if warning := r.removeIntermediate(norm.Path); warning != "" {
			result.Warnings = append(result.Warnings, warning)
		} else if !cfg.Input.KeepIntermediate {
			r.enter(StateCleanedUp)
		}
	}

	r.enter(StateDone)
	return result, nil
}

// removeIntermediate deletes the synthesized CSV unless configured to keep
// it, returning a warning when the delete fails.
func (r *run) removeIntermediate(path string) string {
	if r.cfg.Input.KeepIntermediate {
		r.log.Info("keeping intermediate file", "path", path)
		return ""
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.log.Warn("failed to remove intermediate file", "path", path, "err", err)
		return fmt.Sprintf("could not remove intermediate file %s: %v", path, err)
	}

	r.log.Debug("removed intermediate file", "path", path)
	return ""
}
