package pdf

import "strings"

// Column-gap threshold in points: a horizontal gap at least this wide between
// words on the same band starts a new cell.
const cellGap = 18.0

// Minimum rows and columns for a block of aligned bands to count as a table.
const (
	minTableRows = 2
	minTableCols = 2
)

// DetectTables reconstructs table grids from positioned words. Words are
// grouped into horizontal bands, each band split into cells at wide
// horizontal gaps, and consecutive multi-cell bands collected into a grid.
//
// This is a whitespace-gap detector: fixed-layout assessment reports draw
// their tables without ruling lines, so cell boundaries only show up as
// horizontal gaps between word clusters.
func DetectTables(words []Word) []Table {
	bands := GroupIntoLines(words)
	if len(bands) == 0 {
		return nil
	}

	var tables []Table
	var current Table

	flush := func() {
		if len(current) >= minTableRows {
			tables = append(tables, current)
		}
		current = nil
	}

	for _, band := range bands {
		cells := splitIntoCells(band)
		if len(cells) >= minTableCols {
			current = append(current, cells)
			continue
		}
		flush()
	}
	flush()

	return tables
}

// splitIntoCells partitions a left-to-right sorted band of words into cell
// strings, breaking at gaps wider than cellGap.
func splitIntoCells(band []Word) []string {
	if len(band) == 0 {
		return nil
	}

	var cells []string
	var cell []string
	prevEnd := band[0].X

	for i, w := range band {
		if i > 0 && w.X-prevEnd >= cellGap {
			cells = append(cells, strings.Join(cell, " "))
			cell = nil
		}
		cell = append(cell, w.Text)
		prevEnd = w.X + w.Width
	}
	cells = append(cells, strings.Join(cell, " "))

	return cells
}
