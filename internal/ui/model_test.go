package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nconklindev/labpivot/internal/pipeline"
	"github.com/nconklindev/labpivot/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelCancel(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := InitialModel(t.TempDir())

			next, cmd := m.Update(tt.key)
			if cmd == nil {
				t.Fatal("Expected a quit command")
			}

			got := next.(Model)
			if got.Selected() != "" {
				t.Errorf("Selected() = %q; want empty", got.Selected())
			}
			if got.state != stateCancelled {
				t.Errorf("state = %d; want cancelled", got.state)
			}
			if got.View() != "" {
				t.Error("Expected an empty view after cancelling")
			}
		})
	}
}

func TestModelWindowSize(t *testing.T) {
	m := InitialModel(t.TempDir())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	got := next.(Model)
	if got.width != 80 || got.height != 40 {
		t.Errorf("size = %dx%d; want 80x40", got.width, got.height)
	}
}

func TestModelView(t *testing.T) {
	m := InitialModel(t.TempDir())

	view := m.View()
	for _, want := range []string{"labpivot", "XLSX or CSV", "esc/q: cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestSelectedRequiresSelection(t *testing.T) {
	m := InitialModel(t.TempDir())
	m.selectedFile = "/tmp/labs.csv"

	if m.Selected() != "" {
		t.Error("Selected() must be empty until a file is chosen")
	}

	m.state = stateSelected
	if m.Selected() != "/tmp/labs.csv" {
		t.Errorf("Selected() = %q", m.Selected())
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	// A phase with no rows draws nothing
	p.Start(pipeline.PhaseConverting)
	p.Finish()
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}

	p.Start(pipeline.PhaseReshaping)
	for i := 1; i <= 3; i++ {
		p.Progress(i, 3)
	}
	if !strings.Contains(buf.String(), "Reshaping") {
		t.Errorf("Expected phase name in output, got %q", buf.String())
	}
	p.Finish()
	if p.bar != nil {
		t.Error("Finish should drop the bar")
	}
}

func TestRenderComplete(t *testing.T) {
	out := RenderComplete(&types.PivotResult{
		InputFile:   "labs.csv",
		OutputFile:  "labs_transformed.xlsx",
		TestColumns: []string{"Glucose", "Urea"},
		SourceRows:  4,
		Patients:    2,
		Warnings:    []string{"could not remove intermediate file labs.csv"},
	})

	for _, want := range []string{
		"Transformation complete! File saved as: labs_transformed.xlsx",
		"Glucose, Urea",
		"could not remove intermediate file",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderComplete() missing %q in %q", want, out)
		}
	}
}

func TestRenderMessages(t *testing.T) {
	if !strings.Contains(RenderCancelled(), CancelledMessage) {
		t.Error("RenderCancelled() missing message")
	}
	if !strings.Contains(RenderError(errors.New("missing column(s): PID")), "missing column(s): PID") {
		t.Error("RenderError() missing error text")
	}
}
