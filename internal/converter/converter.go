package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nconklindev/labpivot/internal/logging"
	"github.com/nconklindev/labpivot/internal/types"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const RowDetectionLimit = 10

const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

var (
	// ErrUnsupportedInput covers unknown extensions, empty files and workbooks excelize cannot parse.
	ErrUnsupportedInput = errors.New("unsupported or corrupt input")
	// ErrWriteOutput is returned when an output or intermediate file cannot be written.
	ErrWriteOutput = errors.New("cannot write output")
)

// ProgressFunc receives the number of rows handled so far and the total.
type ProgressFunc func(done, total int)

// Normalized is the CSV file the reshape reads.
type Normalized struct {
	Path string
	// Intermediate is true when Path was synthesized from a workbook and must be removed later.
	Intermediate bool
}

// Normalize makes sure the reshape has a CSV to read. An .xlsx input is
// copied into a sibling CSV; a .csv input is used as is. required names the
// columns used to skip title rows above a workbook's header.
func Normalize(inputFile string, required []string, progress ProgressFunc) (*Normalized, error) {
	ext := strings.ToLower(filepath.Ext(inputFile))

	switch ext {
	case ExtCSV:
		return &Normalized{Path: inputFile}, nil
	case ExtXLSX:
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrUnsupportedInput, ext)
	}

	data, err := readXLSXData(inputFile, required)
	if err != nil {
		return nil, err
	}

	csvPath := IntermediatePath(inputFile)
	if err := WriteCSV(csvPath, data, progress); err != nil {
		return nil, err
	}

	logging.Logger(logging.SourceConverter).Info("converted workbook",
		"input", inputFile, "csv", csvPath, "header_row", data.HeaderRow+1, "rows", len(data.Rows))

	return &Normalized{Path: csvPath, Intermediate: true}, nil
}

// IntermediatePath returns the sibling CSV path for a workbook. When that
// name is already taken, a short random tag keeps the existing file intact.
func IntermediatePath(inputFile string) string {
	base := strings.TrimSuffix(inputFile, filepath.Ext(inputFile))
	candidate := base + ExtCSV

	if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
		return candidate
	}

	return base + "-" + uuid.NewString()[:8] + ExtCSV
}

// OutputPath derives the workbook written for inputFile, e.g. data.csv -> data_transformed.xlsx.
func OutputPath(inputFile, suffix string) string {
	base := strings.TrimSuffix(inputFile, filepath.Ext(inputFile))
	return base + suffix + ExtXLSX
}

// WriteCSV writes the header and rows of data, padding short rows to the header width.
func WriteCSV(outputFile string, data *types.FileData, progress ProgressFunc) error {
	outFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	defer outFile.Close()

	writer := csv.NewWriter(outFile)

	if err := writer.Write(data.Headers); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	width := len(data.Headers)
	totalRows := len(data.Rows)
	for i, row := range data.Rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		if progress != nil {
			progress(i+1, totalRows)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	return nil
}

// XLSXOptions controls WriteXLSX.
type XLSXOptions struct {
	Sheet        string
	NumericCells bool
}

// WriteXLSX writes data to a single-sheet workbook with a header row and no index column.
func WriteXLSX(outputFile string, data *types.FileData, opts XLSXOptions, progress ProgressFunc) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if opts.Sheet != "" && opts.Sheet != sheetName {
		if err := f.SetSheetName(sheetName, opts.Sheet); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		sheetName = opts.Sheet
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	header := make([]interface{}, len(data.Headers))
	for i, h := range data.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	totalRows := len(data.Rows)
	for i := range data.Rows {
		values := make([]interface{}, len(data.Headers))
		for col := range values {
			values[col] = cellValue(data.Cell(i, col), opts.NumericCells)
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}

		if progress != nil {
			progress(i+1, totalRows)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	return nil
}

// cellValue returns nil for empty cells and a float64 for values that
// survive a parse/format round trip, so "007" stays text but "90" becomes a number.
func cellValue(s string, numeric bool) interface{} {
	if s == "" {
		return nil
	}
	if !numeric {
		return s
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if strconv.FormatFloat(v, 'f', -1, 64) != s {
		return s
	}
	return v
}

// ReadFileData reads the header and every data row from a file
func ReadFileData(filePath string) (*types.FileData, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ExtCSV:
		return readCSVData(filePath)
	case ExtXLSX:
		return readXLSXData(filePath, nil)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrUnsupportedInput, ext)
	}
}

func readCSVData(filePath string) (*types.FileData, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedInput)
	}

	return &types.FileData{
		Headers: trimHeaders(records[0]),
		Rows:    records[1:],
	}, nil
}

func readXLSXData(filePath string, required []string) (*types.FileData, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedInput)
	}

	headerRowIdx := findHeaderRow(rows, required)
	if headerRowIdx == -1 {
		return nil, fmt.Errorf("%w: could not find header row", ErrUnsupportedInput)
	}

	var data [][]string
	for _, row := range rows[headerRowIdx+1:] {
		if isBlank(row) {
			continue
		}
		data = append(data, row)
	}

	return &types.FileData{
		Headers:   trimHeaders(rows[headerRowIdx]),
		Rows:      data,
		HeaderRow: headerRowIdx,
	}, nil
}

// trimHeaders drops surrounding whitespace, which spreadsheet exports often leave on column names.
func trimHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// findHeaderRow returns the first non-blank row. When required is given,
// leading rows holding none of the required names (report titles, notes)
// are skipped, up to RowDetectionLimit*2 rows; if no row qualifies the first
// non-blank row is used and the missing columns surface later.
func findHeaderRow(rows [][]string, required []string) int {
	first := -1
	for i, row := range rows {
		if !isBlank(row) {
			first = i
			break
		}
	}
	if first == -1 || len(required) == 0 {
		return first
	}

	names := make(map[string]bool, len(required))
	for _, name := range required {
		names[name] = true
	}

	searchLimit := len(rows)
	if searchLimit > RowDetectionLimit*2 {
		searchLimit = RowDetectionLimit * 2
	}

	for i := first; i < searchLimit; i++ {
		for _, cell := range rows[i] {
			if names[strings.TrimSpace(cell)] {
				return i
			}
		}
	}

	return first
}
