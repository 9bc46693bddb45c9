package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"Loadsheet/internal/calc/batch"
	"Loadsheet/internal/calc/wb"
)

const resultSheet = "Results"

var resultHeader = []any{
	"row", "aircraft", "status", "kind", "error",
	"zfw", "tow", "ldw", "underload", "ballast", "iterations",
	"mac_zfw", "mac_tow", "mac_ldw", "stab", "stab_eicas",
}

// Template writes an empty task workbook with one zone column per name.
func Template(w io.Writer, zones []string) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []any{"aircraft", "takeoff_fuel", "trip_fuel", "adults", "children", "infants"}
	for _, z := range zones {
		header = append(header, "zone_"+strings.ToLower(z))
	}
	header = append(header, "cabin_baggage", "cargo", "ballast", "allow_ballast")

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

// Write stores one row per task on a Results sheet, ordered by the sheet row
// the task came from. Rows of p that failed to parse are reported as failed
// input rows. outcomes are those of p.Items.
func Write(w io.Writer, p Parsed, outcomes []batch.Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), resultSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(resultSheet, "A1", &resultHeader); err != nil {
		return err
	}

	type line struct {
		row   int
		cells []any
	}
	lines := make([]line, 0, len(outcomes)+len(p.Errors))
	for _, o := range outcomes {
		row := o.Index + 1
		if o.Index < len(p.Rows) {
			row = p.Rows[o.Index]
		}
		cells := []any{row, o.Item.Aircraft}
		if o.OK() {
			r := o.Result
			cells = append(cells, "ok", "", "",
				r.ZFW, r.TOW, r.LDW, r.Underload, r.Ballast, r.Iterations,
				r.MACZFW, r.MACTOW, r.MACLDW, r.Stab, r.StabEICAS)
		} else {
			cells = append(cells, "failed", string(o.Kind), o.Error)
		}
		lines = append(lines, line{row, cells})
	}
	for _, e := range p.Errors {
		lines = append(lines, line{e.Row, []any{e.Row, "", "failed", string(wb.KindInput), e.Error()}})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].row < lines[j].row })

	for i, l := range lines {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(resultSheet, cellName, &l.cells); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	_, err := f.WriteTo(w)
	return err
}
