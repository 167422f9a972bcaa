package killmap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	errs "github.com/matzehuels/mutdom/pkg/errors"
)

// Column names of the kill matrix.
const (
	ColumnTest   = "TestNo"
	ColumnMutant = "MutantNo"
	ColumnResult = "[FAIL | TIME | EXC]"

	// columnResultAlt is accepted in place of ColumnResult.
	columnResultAlt = "Result"
)

// Result is the outcome of running one test against one mutant.
type Result string

// Recognized results. Only ResultFail counts as a kill.
const (
	ResultFail      Result = "FAIL"
	ResultTimeout   Result = "TIME"
	ResultException Result = "EXC"
)

// ValidResults is the set of accepted values in the result column.
var ValidResults = map[Result]bool{
	ResultFail:      true,
	ResultTimeout:   true,
	ResultException: true,
}

// ParseOptions configures [ParseCSV].
type ParseOptions struct {
	// IncludeSurvivors keeps mutants that were never killed, with an empty
	// kill set. When false, only mutants with at least one FAIL row appear.
	IncludeSurvivors bool
}

// ParseCSV reads a kill matrix from r.
//
// The first record must be a header containing the TestNo, MutantNo and
// result columns, in any order; extra columns are ignored. Errors carry the
// [errs.ErrCodeInvalidCSV] code and the 1-based line number of the offending
// record.
func ParseCSV(r io.Reader, opts ParseOptions) (KillMap, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errs.New(errs.ErrCodeInvalidCSV, "empty input: missing header")
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidCSV, err, "read header")
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	km := New()
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidCSV, err, "read record")
		}
		line, _ := cr.FieldPos(0)
		if isBlank(record) {
			continue
		}
		if err := cols.apply(km, record, opts); err != nil {
			return nil, errs.New(errs.ErrCodeInvalidCSV, "line %d: %s", line, err)
		}
	}
	return km, nil
}

// ReadCSVFile parses the kill matrix stored at path.
func ReadCSVFile(path string, opts ParseOptions) (KillMap, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseCSV(f, opts)
}

type columns struct {
	test, mutant, result int
	width                int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{test: -1, mutant: -1, result: -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case ColumnTest:
			cols.test = i
		case ColumnMutant:
			cols.mutant = i
		case ColumnResult, columnResultAlt:
			cols.result = i
		}
	}

	var missing []string
	if cols.test < 0 {
		missing = append(missing, ColumnTest)
	}
	if cols.mutant < 0 {
		missing = append(missing, ColumnMutant)
	}
	if cols.result < 0 {
		missing = append(missing, ColumnResult)
	}
	if len(missing) > 0 {
		return cols, errs.New(errs.ErrCodeInvalidCSV, "header missing column(s): %s", strings.Join(missing, ", "))
	}
	cols.width = max(cols.test, cols.mutant, cols.result) + 1
	return cols, nil
}

func (c columns) apply(km KillMap, record []string, opts ParseOptions) error {
	if len(record) < c.width {
		return fmt.Errorf("expected at least %d fields, got %d", c.width, len(record))
	}
	test := strings.TrimSpace(record[c.test])
	mutant := strings.TrimSpace(record[c.mutant])
	result := Result(strings.TrimSpace(record[c.result]))

	if test == "" {
		return fmt.Errorf("empty %s", ColumnTest)
	}
	if mutant == "" {
		return fmt.Errorf("empty %s", ColumnMutant)
	}
	if !ValidResults[result] {
		return fmt.Errorf("unknown result %q (must be FAIL, TIME or EXC)", result)
	}

	switch {
	case result == ResultFail:
		km.Add(MutantID(mutant), TestID(test))
	case opts.IncludeSurvivors:
		km.Touch(MutantID(mutant))
	}
	return nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
