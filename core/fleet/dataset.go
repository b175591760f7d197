// Package fleet reads the fleet information dataset uploaded by operators.
package fleet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

// Columns lists the headers expected in a fleet dataset, in display order.
var Columns = []string{"ID", "Vehicle Type", "Size", "Year", "Cost", "Yearly Range", "Distance"}

// Row is one vehicle of the uploaded fleet.
type Row struct {
	ID          string          `json:"id"`
	VehicleType string          `json:"vehicle_type"`
	Size        string          `json:"size"`
	Year        int             `json:"year"`
	Cost        decimal.Decimal `json:"cost"`
	YearlyRange string          `json:"yearly_range"`
	Distance    float64         `json:"distance"`
}

// Cells returns the row formatted in Columns order.
func (r Row) Cells() []string {
	return []string{
		r.ID,
		r.VehicleType,
		r.Size,
		strconv.Itoa(r.Year),
		r.Cost.String(),
		r.YearlyRange,
		strconv.FormatFloat(r.Distance, 'f', -1, 64),
	}
}

// Dataset is a parsed fleet upload.
type Dataset struct {
	Rows []Row `json:"rows"`
}

// Len returns the number of vehicles.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Parse reads a CSV dataset. Header names are matched ignoring case and
// surrounding spaces; extra columns are ignored.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty dataset: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}
	cr.FieldsPerRecord = len(header)

	ds := &Dataset{}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, err := parseRow(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func columnIndex(header []string) (map[string]int, error) {
	seen := make(map[string]int, len(header))
	for i, h := range header {
		seen[normalize(h)] = i
	}
	idx := make(map[string]int, len(Columns))
	for _, c := range Columns {
		i, ok := seen[normalize(c)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
		idx[c] = i
	}
	return idx, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

func parseRow(rec []string, idx map[string]int) (Row, error) {
	get := func(c string) string { return strings.TrimSpace(rec[idx[c]]) }
	row := Row{
		ID:          get("ID"),
		VehicleType: get("Vehicle Type"),
		Size:        get("Size"),
		YearlyRange: get("Yearly Range"),
	}
	if row.ID == "" {
		return Row{}, errors.New("ID is required")
	}
	var err error
	if row.Year, err = strconv.Atoi(get("Year")); err != nil {
		return Row{}, fmt.Errorf("year %q: %w", get("Year"), err)
	}
	if row.Cost, err = decimal.NewFromString(strings.ReplaceAll(get("Cost"), ",", "")); err != nil {
		return Row{}, fmt.Errorf("cost %q: %w", get("Cost"), err)
	}
	if d := get("Distance"); d != "" {
		if row.Distance, err = strconv.ParseFloat(strings.ReplaceAll(d, ",", ""), 64); err != nil {
			return Row{}, fmt.Errorf("distance %q: %w", d, err)
		}
	}
	return row, nil
}
