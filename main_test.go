package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nconklindev/labpivot/internal/config"
	"github.com/nconklindev/labpivot/internal/pipeline"
	"github.com/nconklindev/labpivot/internal/ui"
)

func TestRunCancelledLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	orig := newSelector
	t.Cleanup(func() { newSelector = orig })
	newSelector = func(*config.Config, string) pipeline.Selector {
		return pipeline.StaticSelector("")
	}

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	if err := app.Run(context.Background(), []string{"labpivot"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(buf.String(), ui.CancelledMessage) {
		t.Errorf("Expected cancel message, got %q", buf.String())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("Cancelled run left %s behind", e.Name())
	}
}

func TestRunWithFileFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	input := filepath.Join(dir, "labs.csv")
	csv := "Age,Gender,Mobile,Name,PID,TestName,ResultValue\n" +
		"30,M,555,Alice,1,Glucose,90\n" +
		"30,M,555,Alice,1,Cholesterol,150\n"
	if err := os.WriteFile(input, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	if err := app.Run(context.Background(), []string{"labpivot", "--file", input}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	output := filepath.Join(dir, "labs_transformed.xlsx")
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("Expected output workbook: %v", err)
	}
	if !strings.Contains(buf.String(), output) {
		t.Errorf("Expected summary to name %s, got %q", output, buf.String())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only input and output, found %v", names)
	}
}
