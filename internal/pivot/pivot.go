// Package pivot turns long-format lab results (one test per row) into a
// wide table with one row per patient and one column per test.
package pivot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nconklindev/labpivot/internal/logging"
	"github.com/nconklindev/labpivot/internal/types"
)

// ErrMissingColumn matches every *MissingColumnError.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError lists required columns absent from the input header.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column(s): %s", strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Options selects the columns the reshape works on.
type Options struct {
	IdentityColumns []string
	KeyColumn       string
	ValueColumn     string

	// HeaderRenames maps a key value to the header it is emitted under.
	// Keys that rename to the same header share one column.
	HeaderRenames map[string]string

	// DropIncompleteIdentity skips rows with an empty identity field.
	DropIncompleteIdentity bool

	Progress func(done, total int)
}

// DefaultOptions returns the lab export layout.
func DefaultOptions() Options {
	return Options{
		IdentityColumns: []string{"Age", "Gender", "Mobile", "Name", "PID"},
		KeyColumn:       "TestName",
		ValueColumn:     "ResultValue",
	}
}

type group struct {
	identity []string
	values   map[string]string
}

// Reshape groups rows by the identity columns and spreads KeyColumn into one
// column per distinct value, filled from ValueColumn.
//
// Groups and test columns are both ordered by first appearance in the input.
// A group with no row for a test gets an empty cell. When several rows share
// an identity and a test, the first ResultValue wins and later ones are
// dropped without warning; an empty first value still wins. Callers relying
// on the last or a merged value must pre-process the rows.
//
// A test whose header (after renaming) equals an identity column name is
// skipped, since it would produce a second column with that name.
func Reshape(data *types.FileData, opts Options) (*types.FileData, error) {
	idCols, keyCol, valCol, err := locate(data, opts)
	if err != nil {
		return nil, err
	}

	var (
		groups      []*group
		byIdentity  = make(map[string]*group)
		testHeaders []string
		seenHeader  = make(map[string]bool)
		isIdentity  = make(map[string]bool, len(opts.IdentityColumns))
		conflicting = make(map[string]bool)
		dropped     int
		duplicates  int
		conflicts   int
	)
	for _, name := range opts.IdentityColumns {
		isIdentity[name] = true
	}

	log := logging.Logger(logging.SourcePivot)

	totalRows := len(data.Rows)
	for i := range data.Rows {
		if opts.Progress != nil {
			opts.Progress(i+1, totalRows)
		}

		identity := make([]string, len(idCols))
		incomplete := false
		for j, col := range idCols {
			identity[j] = data.Cell(i, col)
			if strings.TrimSpace(identity[j]) == "" {
				incomplete = true
			}
		}
		if incomplete && opts.DropIncompleteIdentity {
			dropped++
			continue
		}

		key := identityKey(identity)
		g, ok := byIdentity[key]
		if !ok {
			g = &group{identity: identity, values: make(map[string]string)}
			byIdentity[key] = g
			groups = append(groups, g)
		}

		testName := data.Cell(i, keyCol)
		if testName == "" {
			continue
		}
		header := testName
		if renamed, ok := opts.HeaderRenames[testName]; ok {
			header = renamed
		}
		if isIdentity[header] {
			if !conflicting[header] {
				conflicting[header] = true
				log.Warn("skipping test named like an identity column", "test", testName, "header", header)
			}
			conflicts++
			continue
		}

		if !seenHeader[header] {
			seenHeader[header] = true
			testHeaders = append(testHeaders, header)
		}

		if _, ok := g.values[header]; ok {
			duplicates++
			continue
		}
		g.values[header] = data.Cell(i, valCol)
	}

	headers := make([]string, 0, len(opts.IdentityColumns)+len(testHeaders))
	headers = append(headers, opts.IdentityColumns...)
	headers = append(headers, testHeaders...)

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		row := make([]string, 0, len(headers))
		row = append(row, g.identity...)
		for _, h := range testHeaders {
			row = append(row, g.values[h])
		}
		rows = append(rows, row)
	}

	log.Debug("reshaped",
		"source_rows", totalRows,
		"patients", len(rows),
		"tests", len(testHeaders),
		"duplicates_dropped", duplicates,
		"incomplete_dropped", dropped,
		"identity_conflicts", conflicts,
	)

	return &types.FileData{Headers: headers, Rows: rows}, nil
}

// locate resolves column positions, reporting every missing name at once.
func locate(data *types.FileData, opts Options) (idCols []int, keyCol, valCol int, err error) {
	var missing []string
	find := func(name string) int {
		idx := data.ColumnIndex(name)
		if idx == -1 {
			missing = append(missing, name)
		}
		return idx
	}

	for _, name := range opts.IdentityColumns {
		idCols = append(idCols, find(name))
	}
	keyCol = find(opts.KeyColumn)
	valCol = find(opts.ValueColumn)

	if len(missing) > 0 {
		return nil, 0, 0, &MissingColumnError{Columns: missing}
	}
	return idCols, keyCol, valCol, nil
}

// identityKey encodes a tuple so that no two distinct tuples share a key.
func identityKey(fields []string) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte(':')
		b.WriteString(f)
	}
	return b.String()
}
