package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"
)

const (
	radarRadius = 60.0 // mm for the 100th percentile
	labelOffset = 10.0
)

// percentile band upper bounds with their fill colors, drawn outside-in so
// each inner band paints over the one around it.
var percentileBands = []struct {
	upper   int
	r, g, b int
}{
	{100, 204, 255, 204},
	{75, 255, 255, 153},
	{25, 255, 204, 153},
	{9, 255, 153, 153},
}

// drawRadarChart renders the domain percentile polygon over colored
// percentile bands, centered at (cx, cy). Invalid domains get a red cross on
// their data point and an INVALID tag on their label.
func drawRadarChart(pdf *fpdf.Fpdf, cx, cy float64, percentiles map[string]int, invalid []string) {
	domains := make([]string, 0, len(percentiles))
	for domain := range percentiles {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	if len(domains) < 3 {
		return
	}

	invalidSet := make(map[string]bool, len(invalid))
	for _, domain := range invalid {
		invalidSet[domain] = true
	}

	for _, band := range percentileBands {
		pdf.SetFillColor(band.r, band.g, band.b)
		pdf.Circle(cx, cy, radarRadius*float64(band.upper)/100, "F")
	}

	// Spokes and ring outlines.
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.2)
	for _, ring := range []int{25, 50, 75, 100} {
		pdf.Circle(cx, cy, radarRadius*float64(ring)/100, "D")
	}
	for i := range domains {
		x, y := radarPoint(cx, cy, i, len(domains), 100)
		pdf.Line(cx, cy, x, y)
	}

	// Data polygon.
	points := make([]fpdf.PointType, len(domains))
	for i, domain := range domains {
		x, y := radarPoint(cx, cy, i, len(domains), percentiles[domain])
		points[i] = fpdf.PointType{X: x, Y: y}
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 191, 255)
	pdf.SetLineWidth(0.5)
	pdf.SetAlpha(0.6, "Normal")
	pdf.Polygon(points, "FD")
	pdf.SetAlpha(1.0, "Normal")

	// Invalid markers and labels.
	pdf.SetFont("Helvetica", "", 8)
	for i, domain := range domains {
		if invalidSet[domain] {
			x, y := radarPoint(cx, cy, i, len(domains), percentiles[domain])
			pdf.SetDrawColor(255, 0, 0)
			pdf.SetLineWidth(0.6)
			pdf.Line(x-2, y-2, x+2, y+2)
			pdf.Line(x-2, y+2, x+2, y-2)
		}

		label := fmt.Sprintf("%s %d%%", domain, percentiles[domain])
		if invalidSet[domain] {
			label += " (INVALID)"
		}
		lx, ly := radarLabelPoint(cx, cy, i, len(domains))
		width := pdf.GetStringWidth(label)
		angle := spokeAngle(i, len(domains))
		switch {
		case math.Cos(angle) < -0.3: // left side
			lx -= width
		case math.Cos(angle) < 0.3: // top or bottom
			lx -= width / 2
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(lx, ly, label)
	}
}

// spokeAngle returns the angle of spoke i of n, starting at twelve o'clock
// and proceeding clockwise.
func spokeAngle(i, n int) float64 {
	return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
}

func radarPoint(cx, cy float64, i, n, percentile int) (float64, float64) {
	radius := radarRadius * float64(percentile) / 100
	angle := spokeAngle(i, n)
	return cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)
}

func radarLabelPoint(cx, cy float64, i, n int) (float64, float64) {
	radius := radarRadius + labelOffset
	angle := spokeAngle(i, n)
	return cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)
}
