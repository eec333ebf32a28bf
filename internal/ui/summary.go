package ui

import (
	"fmt"
	"strings"

	"github.com/nconklindev/labpivot/internal/types"
)

const (
	CancelledMessage = "No file selected. Exiting..."
	CompleteMessage  = "Transformation complete! File saved as: %s"
)

// RenderCancelled is printed when the picker closes without a selection.
func RenderCancelled() string {
	return SubtitleStyle.Render(CancelledMessage)
}

// RenderComplete summarizes a finished run.
func RenderComplete(result *types.PivotResult) string {
	var s strings.Builder

	s.WriteString(SuccessStyle.Render(fmt.Sprintf(CompleteMessage, result.OutputFile)))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Input:    %s\n", result.InputFile))
	s.WriteString(fmt.Sprintf("Rows:     %d\n", result.SourceRows))
	s.WriteString(fmt.Sprintf("Patients: %d\n", result.Patients))
	s.WriteString(fmt.Sprintf("Tests:    %d", len(result.TestColumns)))
	if len(result.TestColumns) > 0 {
		s.WriteString(fmt.Sprintf(" (%s)", strings.Join(result.TestColumns, ", ")))
	}

	for _, w := range result.Warnings {
		s.WriteString("\n\n")
		s.WriteString(WarningStyle.Render("⚠ " + w))
	}

	return BoxStyle.Render(s.String())
}

// RenderError reports a failed run.
func RenderError(err error) string {
	return BoxStyle.Render(ErrorStyle.Render("✗ Error") + "\n\n" + err.Error())
}
