// Package importer reads loading tasks from XLSX workbooks and writes batch
// results back as XLSX.
//
// The first sheet must start with a header row. Recognised columns (case
// insensitive): aircraft, takeoff_fuel, trip_fuel, adults, children, infants,
// cabin_baggage, cargo, ballast, allow_ballast, and one zone_<name> column per
// cabin zone, in cabin order.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Loadsheet/internal/calc/batch"
)

var ErrEmptySheet = errors.New("empty sheet")

var required = []string{"aircraft", "takeoff_fuel", "trip_fuel", "adults"}

// RowError is a row that could not be parsed. Row is 1-based as in Excel.
type RowError struct {
	Row    int    `json:"row"`
	Column string `json:"column,omitempty"`
	Err    string `json:"error"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Err)
}

type Parsed struct {
	Items []batch.Item `json:"items"`
	// Rows maps each item to its sheet row.
	Rows   []int      `json:"rows"`
	Errors []RowError `json:"errors,omitempty"`
}

// Read parses the first sheet of the workbook in r. defaultAircraft fills
// rows with an empty aircraft cell.
func Read(r io.Reader, defaultAircraft string) (Parsed, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Parsed{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Parsed{}, err
	}
	if len(rows) < 2 {
		return Parsed{}, ErrEmptySheet
	}

	cols := map[string]int{}
	var zones []int
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		if strings.HasPrefix(h, "zone_") {
			zones = append(zones, i)
			continue
		}
		cols[h] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok && !(name == "aircraft" && defaultAircraft != "") {
			return Parsed{}, fmt.Errorf("missing column %q", name)
		}
	}
	if len(zones) == 0 {
		return Parsed{}, errors.New("missing zone_<name> columns")
	}

	var out Parsed
	for n, row := range rows[1:] {
		rowNum := n + 2
		if blank(row) {
			continue
		}
		item, rerr := parseRow(row, cols, zones, defaultAircraft)
		if rerr != nil {
			rerr.Row = rowNum
			out.Errors = append(out.Errors, *rerr)
			continue
		}
		out.Items = append(out.Items, item)
		out.Rows = append(out.Rows, rowNum)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRow(row []string, cols map[string]int, zones []int, defaultAircraft string) (batch.Item, *RowError) {
	col := func(name string) int {
		if i, ok := cols[name]; ok {
			return i
		}
		return -1
	}
	num := func(name string) (float64, *RowError) {
		s := cell(row, col(name))
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0, &RowError{Column: name, Err: "not a number: " + s}
		}
		return v, nil
	}
	count := func(name string, i int) (int, *RowError) {
		s := cell(row, i)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, &RowError{Column: name, Err: "not a whole number: " + s}
		}
		return v, nil
	}

	var it batch.Item
	it.Aircraft = cell(row, col("aircraft"))
	if it.Aircraft == "" {
		it.Aircraft = defaultAircraft
	}
	if it.Aircraft == "" {
		return batch.Item{}, &RowError{Column: "aircraft", Err: "aircraft is required"}
	}

	var rerr *RowError
	t := &it.Task
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"takeoff_fuel", &t.TakeoffFuel},
		{"trip_fuel", &t.TripFuel},
		{"cabin_baggage", &t.CabinBaggage},
		{"cargo", &t.Cargo},
		{"ballast", &t.Ballast},
	} {
		if *f.dst, rerr = num(f.name); rerr != nil {
			return batch.Item{}, rerr
		}
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"adults", &t.Adults},
		{"children", &t.Children},
		{"infants", &t.Infants},
	} {
		if *f.dst, rerr = count(f.name, col(f.name)); rerr != nil {
			return batch.Item{}, rerr
		}
	}
	t.Seating = make([]int, len(zones))
	for i, z := range zones {
		if t.Seating[i], rerr = count(fmt.Sprintf("zone %d", i+1), z); rerr != nil {
			return batch.Item{}, rerr
		}
	}
	switch strings.ToLower(cell(row, col("allow_ballast"))) {
	case "", "0", "no", "false", "n":
	case "1", "yes", "true", "y", "x":
		t.AllowBallast = true
	default:
		return batch.Item{}, &RowError{Column: "allow_ballast", Err: "expected yes or no"}
	}
	return it, nil
}
