package types

// PivotResult describes a finished transformation.
type PivotResult struct {
	InputFile        string
	IntermediateFile string
	OutputFile       string
	TestColumns      []string
	SourceRows       int
	Patients         int
	Warnings         []string
}

// FileData is a header row plus data rows, all held as text.
type FileData struct {
	Headers   []string
	Rows      [][]string
	HeaderRow int
}

// ColumnIndex returns the position of name in Headers, or -1.
func (d *FileData) ColumnIndex(name string) int {
	for i, h := range d.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i, column col, or "" when the row is short.
func (d *FileData) Cell(i, col int) string {
	if col < 0 || col >= len(d.Rows[i]) {
		return ""
	}
	return d.Rows[i][col]
}
