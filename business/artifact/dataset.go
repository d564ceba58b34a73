package artifact

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"myCreditAdvisor/domain"
)

// Dataset is the reference table the neighbour index was built from. Row i
// matches row i of the index. Empty cells of numeric columns hold NaN.
type Dataset struct {
	rows     int
	columns  []string
	numeric  map[string][]float64
	encoding string
}

func (d *Dataset) Len() int { return d.rows }

func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of a numeric column. It reports false when the
// column is missing or holds non numeric values.
func (d *Dataset) Column(name string) ([]float64, bool) {
	col, ok := d.numeric[name]
	return col, ok
}

// Encoding is the text encoding the dataset was decoded with, empty when it
// was not read from a file.
func (d *Dataset) Encoding() string { return d.encoding }

// ParseCSV decodes raw with the first encoding that accepts it and parses the
// result as CSV with a header row. A decoding failure moves on to the next
// encoding; a malformed CSV fails immediately.
func ParseCSV(raw []byte, encodings []string) (*Dataset, error) {
	var attempted []string
	for _, name := range encodings {
		decode, err := decoderFor(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
		}

		attempted = append(attempted, name)
		text, err := decode(raw)
		if err != nil {
			continue
		}

		ds, err := parseTable(bytes.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("%w: dataset csv: %w", ErrArtifactLoad, err)
		}
		ds.encoding = name
		return ds, nil
	}

	return nil, fmt.Errorf("%w: tried %s", ErrDatasetDecode, strings.Join(attempted, ", "))
}

func parseTable(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
		header[i] = name
	}

	cells := make([][]string, len(header))
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, v := range rec {
			cells[i] = append(cells[i], v)
		}
		rows++
	}

	ds := &Dataset{
		rows:    rows,
		columns: header,
		numeric: make(map[string][]float64, len(header)),
	}
	for i, name := range header {
		if col, ok := parseNumericColumn(cells[i]); ok {
			ds.numeric[name] = col
		}
	}
	return ds, nil
}

func parseNumericColumn(cells []string) ([]float64, bool) {
	col := make([]float64, len(cells))
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			col[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		col[i] = v
	}
	return col, true
}

// DatasetFromReferenceRows builds a Dataset from rows stored in Postgres.
// Row indexes must be exactly 0..n-1.
func DatasetFromReferenceRows(rows []domain.ReferenceCustomer) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: reference table is empty", ErrArtifactLoad)
	}

	sorted := append([]domain.ReferenceCustomer(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RowIndex < sorted[j].RowIndex })
	for i, r := range sorted {
		if r.RowIndex != i {
			return nil, fmt.Errorf("%w: reference rows not contiguous at row_index %d", ErrArtifactLoad, r.RowIndex)
		}
	}

	var columns []string
	cells := make(map[string][]any)
	add := func(i int, m map[string]any) {
		for name, v := range m {
			col, ok := cells[name]
			if !ok {
				columns = append(columns, name)
				col = make([]any, len(sorted))
				cells[name] = col
			}
			col[i] = v
		}
	}
	for i, r := range sorted {
		add(i, r.Features)
		add(i, r.Scores)
	}
	sort.Strings(columns)

	ds := &Dataset{
		rows:    len(sorted),
		columns: columns,
		numeric: make(map[string][]float64, len(columns)),
	}
	for _, name := range columns {
		if col, ok := numericValues(cells[name]); ok {
			ds.numeric[name] = col
		}
	}
	return ds, nil
}

func numericValues(values []any) ([]float64, bool) {
	col := make([]float64, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case nil:
			col[i] = math.NaN()
		case float64:
			col[i] = x
		case json.Number:
			f, err := x.Float64()
			if err != nil {
				return nil, false
			}
			col[i] = f
		case string:
			if strings.TrimSpace(x) == "" {
				col[i] = math.NaN()
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, false
			}
			col[i] = f
		default:
			return nil, false
		}
	}
	return col, true
}
