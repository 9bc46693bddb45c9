// Package report renders loadsheets as PDF.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/phpdave11/gofpdf"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/calc/index"
	"Loadsheet/internal/calc/plf"
	"Loadsheet/internal/calc/wb"
)

// Meta is the free text of a loadsheet header.
type Meta struct {
	Flight     string    `json:"flight"`
	PreparedBy string    `json:"prepared_by"`
	Date       time.Time `json:"date"`
	Notes      string    `json:"notes"`
}

const (
	pageW   = 210.0
	margin  = 15.0
	lineH   = 6.0
	colName = 60.0
	colVal  = 35.0
)

// Loadsheet writes the PDF loadsheet of res computed for p.
func Loadsheet(w io.Writer, p *aircraft.Profile, res wb.Result, meta Meta) error {
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Loadsheet "+p.Name, false)
	pdf.SetCreator("loadsheet", false)
	if meta.PreparedBy != "" {
		pdf.SetAuthor(meta.PreparedBy, false)
	}
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "LOADSHEET")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	header := fmt.Sprintf("Aircraft: %s (%s)", p.Name, p.Type)
	if meta.Flight != "" {
		header += "    Flight: " + meta.Flight
	}
	pdf.Cell(0, lineH, header)
	pdf.Ln(lineH)
	pdf.Cell(0, lineH, "Date: "+meta.Date.Format("2006-01-02 15:04"))
	pdf.Ln(lineH)
	if meta.PreparedBy != "" {
		pdf.Cell(0, lineH, "Prepared by: "+meta.PreparedBy)
		pdf.Ln(lineH)
	}
	pdf.Ln(4)

	t := res.Task
	section(pdf, "Load")
	rows(pdf, [][2]string{
		{"Dry operating weight", kg(p.DOW)},
		{"Dry operating index", fmt.Sprintf("%.2f", p.DOI)},
		{"Takeoff fuel", kg(t.TakeoffFuel)},
		{"Trip fuel", kg(t.TripFuel)},
		{"Passengers (adult/child/infant)", fmt.Sprintf("%d/%d/%d", t.Adults, t.Children, t.Infants)},
		{"Cabin baggage", kg(t.CabinBaggage)},
		{"Cargo", kg(t.Cargo)},
		{"Ballast", kg(res.Ballast)},
		{"Traffic load", kg(res.TrafficLoad)},
		{"Allowed traffic load", kg(res.AllowedTrafficLoad)},
		{"Underload", kg(res.Underload)},
	})

	section(pdf, "Seating")
	seats := make([][2]string, len(p.Zones))
	for i, z := range p.Zones {
		n := 0
		if i < len(t.Seating) {
			n = t.Seating[i]
		}
		seats[i] = [2]string{"Zone " + z.Name, fmt.Sprintf("%d / %d", n, z.Capacity)}
	}
	rows(pdf, seats)

	section(pdf, "Weights and balance")
	pdf.SetFont("Helvetica", "B", 10)
	for _, h := range []string{"", "Weight", "Limit", "Index", "%MAC", "Fwd", "Aft"} {
		width := 24.0
		if h == "" {
			width = 30
		}
		pdf.CellFormat(width, lineH, h, "B", 0, "R", false, 0, "")
	}
	pdf.Ln(lineH)
	pdf.SetFont("Helvetica", "", 10)
	for _, ph := range aircraft.Phases {
		wgt, li, mac, limit := phaseFigures(p, res, ph)
		lim := p.MACLimits[ph]
		pdf.CellFormat(30, lineH, ph.String(), "", 0, "R", false, 0, "")
		for _, v := range []string{
			fmt.Sprintf("%.0f", wgt), fmt.Sprintf("%.0f", limit), fmt.Sprintf("%.2f", li),
			fmt.Sprintf("%.2f", mac), fmt.Sprintf("%.1f", lim.Forward), fmt.Sprintf("%.1f", lim.Aft),
		} {
			pdf.CellFormat(24, lineH, v, "", 0, "R", false, 0, "")
		}
		pdf.Ln(lineH)
	}
	pdf.Ln(2)
	rows(pdf, [][2]string{
		{"Stab trim", fmt.Sprintf("%.2f", res.Stab)},
		{"Stab trim (EICAS)", fmt.Sprintf("%.1f", res.StabEICAS)},
	})

	pdf.Ln(4)
	chart(pdf, p, res, pdf.GetY())

	if meta.Notes != "" {
		pdf.SetY(pdf.GetY() + 4)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, meta.Notes, "", "L", false)
	}
	return pdf.Output(w)
}

func kg(v float64) string { return fmt.Sprintf("%.0f kg", v) }

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, lineH+1, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "", 10)
}

func rows(pdf *gofpdf.Fpdf, rs [][2]string) {
	for _, r := range rs {
		pdf.CellFormat(colName, lineH-1, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(colVal, lineH-1, r[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
}

func phaseFigures(p *aircraft.Profile, res wb.Result, ph aircraft.Phase) (weight, li, mac, limit float64) {
	switch ph {
	case aircraft.TOW:
		return res.TOW, res.LITOW, res.MACTOW, res.AllowedTOW
	case aircraft.LDW:
		return res.LDW, res.LILAW, res.MACLDW, p.MLDW
	}
	return res.ZFW, res.LIZFW, res.MACZFW, p.MZFW
}

// point is a chart coordinate in %MAC and kg.
type point struct{ mac, weight float64 }

// envelopeMAC converts an envelope boundary from index to %MAC over weight.
func envelopeMAC(p *aircraft.Profile, boundary []plf.Point) []point {
	out := make([]point, 0, len(boundary))
	for _, b := range boundary {
		m, err := index.FromIndex(index.New(b.Y, b.X, p.Constants), p.Chord)
		if err != nil {
			continue
		}
		out = append(out, point{m.Value, b.X})
	}
	return out
}

func boundaries(p *aircraft.Profile) map[aircraft.Phase][2][]point {
	out := map[aircraft.Phase][2][]point{}
	for ph, e := range p.Envelopes {
		out[ph] = [2][]point{envelopeMAC(p, e.Forward().Points()), envelopeMAC(p, e.Aft().Points())}
	}
	return out
}

// chart draws weight over %MAC with the phase limits, any envelopes and the
// ZFW, TOW and LDW points.
func chart(pdf *gofpdf.Fpdf, p *aircraft.Profile, res wb.Result, top float64) {
	const height = 80.0
	left, width := margin+12, pageW-2*margin-12
	if top+height+20 > 297-margin {
		pdf.AddPage()
		top = pdf.GetY()
	}

	loads := []point{{res.MACZFW, res.ZFW}, {res.MACTOW, res.TOW}, {res.MACLDW, res.LDW}}
	env := boundaries(p)

	minMAC, maxMAC := math.Inf(1), math.Inf(-1)
	minW, maxW := math.Min(res.ZFW, p.DOW), math.Max(res.TOW, p.MTOW)
	extend := func(pt point) {
		minMAC, maxMAC = math.Min(minMAC, pt.mac), math.Max(maxMAC, pt.mac)
		minW, maxW = math.Min(minW, pt.weight), math.Max(maxW, pt.weight)
	}
	for _, pt := range loads {
		extend(pt)
	}
	for _, lim := range p.MACLimits {
		minMAC, maxMAC = math.Min(minMAC, lim.Forward), math.Max(maxMAC, lim.Aft)
	}
	for _, b := range env {
		for _, pts := range b {
			for _, pt := range pts {
				extend(pt)
			}
		}
	}
	minMAC, maxMAC = math.Floor(minMAC/5)*5-5, math.Ceil(maxMAC/5)*5+5
	minW, maxW = math.Floor(minW/1000)*1000, math.Ceil(maxW/1000)*1000

	x := func(mac float64) float64 { return left + (mac-minMAC)/(maxMAC-minMAC)*width }
	y := func(weight float64) float64 { return top + height - (weight-minW)/(maxW-minW)*height }

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Rect(left, top, width, height, "D")
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetDrawColor(210, 210, 210)
	for m := minMAC; m <= maxMAC; m += 5 {
		pdf.Line(x(m), top, x(m), top+height)
		pdf.Text(x(m)-2, top+height+4, fmt.Sprintf("%.0f", m))
	}
	step := 1000.0
	if maxW-minW > 12000 {
		step = 2000
	}
	for wgt := minW; wgt <= maxW; wgt += step {
		pdf.Line(left, y(wgt), left+width, y(wgt))
		pdf.Text(margin, y(wgt)+1, fmt.Sprintf("%.0f", wgt))
	}
	pdf.Text(left+width/2-6, top+height+9, "% MAC")

	// Threshold lines run over the weight band of their phase.
	pdf.SetDashPattern([]float64{1.5, 1}, 0)
	pdf.SetDrawColor(200, 40, 40)
	for _, ph := range aircraft.Phases {
		lim, ok := p.MACLimits[ph]
		if !ok {
			continue
		}
		wgt, _, _, _ := phaseFigures(p, res, ph)
		lo, hi := y(math.Max(minW, wgt-1500)), y(math.Min(maxW, wgt+1500))
		pdf.Line(x(lim.Forward), lo, x(lim.Forward), hi)
		pdf.Line(x(lim.Aft), lo, x(lim.Aft), hi)
		pdf.Text(x(lim.Aft)+1, hi+3, ph.String())
	}
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetDrawColor(40, 80, 200)
	pdf.SetLineWidth(0.4)
	for _, ph := range aircraft.Phases {
		b, ok := env[ph]
		if !ok {
			continue
		}
		for _, pts := range b {
			for i := 1; i < len(pts); i++ {
				pdf.Line(x(pts[i-1].mac), y(pts[i-1].weight), x(pts[i].mac), y(pts[i].weight))
			}
		}
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(x(loads[0].mac), y(loads[0].weight), x(loads[1].mac), y(loads[1].weight))
	pdf.Line(x(loads[1].mac), y(loads[1].weight), x(loads[2].mac), y(loads[2].weight))
	for i, pt := range loads {
		pdf.Circle(x(pt.mac), y(pt.weight), 0.9, "F")
		pdf.Text(x(pt.mac)+1.5, y(pt.weight)-1, aircraft.Phases[i].String())
	}
	pdf.SetY(top + height + 12)
}
