package wordml

import (
	"math"
	"strconv"
)

// Length is a distance in English Metric Units. Twips and inches convert to
// EMUs exactly.
type Length int64

const (
	EMU  Length = 1
	Twip Length = 635
	Inch Length = 914400
)

// Inches converts v inches to a Length.
func Inches(v float64) Length { return Length(math.Round(v * float64(Inch))) }

// Inches returns l in inches.
func (l Length) Inches() float64 { return float64(l) / float64(Inch) }

// Twips returns l rounded to whole twips.
func (l Length) Twips() int64 { return int64(math.Round(float64(l) / float64(Twip))) }

func formatTwips(l Length) string { return strconv.FormatInt(l.Twips(), 10) }

var (
	// FallbackUsableWidth is used when the template has no page geometry.
	FallbackUsableWidth = Inches(6.5)

	cellInset    = Inches(0.05)
	minCellWidth = Inches(0.1)
)

// UsablePageWidth returns page width minus left and right margins of the
// first section, or FallbackUsableWidth when that geometry is missing.
func (d *Document) UsablePageWidth() Length {
	sect := d.find(d.body, nsW, "sectPr")
	if sect == noNode {
		return FallbackUsableWidth
	}
	pgSz := d.firstChild(sect, nsW, "pgSz")
	pgMar := d.firstChild(sect, nsW, "pgMar")
	if pgSz == noNode || pgMar == noNode {
		return FallbackUsableWidth
	}
	width, ok1 := d.intAttr(pgSz, nsW, "w")
	left, ok2 := d.intAttr(pgMar, nsW, "left")
	right, ok3 := d.intAttr(pgMar, nsW, "right")
	if !ok1 || !ok2 || !ok3 {
		return FallbackUsableWidth
	}
	return max(minCellWidth, Length(width-left-right)*Twip)
}

// ColumnWidths returns the table's w:tblGrid column widths, or nil when the
// table defines no usable grid.
func (t Table) ColumnWidths() []Length {
	d := t.doc
	grid := d.firstChild(t.id, nsW, "tblGrid")
	if grid == noNode {
		return nil
	}
	cols := d.children(grid, nsW, "gridCol")
	if len(cols) == 0 {
		return nil
	}
	out := make([]Length, len(cols))
	for i, col := range cols {
		w, ok := d.intAttr(col, nsW, "w")
		if !ok {
			return nil
		}
		out[i] = Length(w) * Twip
	}
	return out
}

// SetColumnWidth sets the grid width of column col and the width of every
// cell in that column.
func (t Table) SetColumnWidth(col int, w Length) {
	d := t.doc
	if grid := d.firstChild(t.id, nsW, "tblGrid"); grid != noNode {
		if cols := d.children(grid, nsW, "gridCol"); col < len(cols) {
			d.setAttr(cols[col], nsW, "w", formatTwips(w))
		}
	}
	for _, row := range t.Rows() {
		if cells := row.Cells(); col < len(cells) {
			cells[col].SetWidth(w)
		}
	}
}

// EstimatedCellWidth estimates the drawable width inside cell. The table
// grid is used when present, indexed by the cell's grid column so earlier
// horizontally merged cells count for every column they span; otherwise the usable page width is divided
// evenly across the first row's cells.
func (d *Document) EstimatedCellWidth(cell Cell, table Table) Length {
	if grid := table.ColumnWidths(); len(grid) > 0 {
		for _, row := range table.Rows() {
			col := 0
			for _, c := range row.Cells() {
				if c.id == cell.id {
					if col < len(grid) {
						return max(minCellWidth, grid[col]-cellInset)
					}
					break
				}
				col += c.GridSpan()
			}
		}
	}
	cols := 2
	if rows := table.Rows(); len(rows) > 0 {
		if n := len(rows[0].Cells()); n > 0 {
			cols = n
		}
	}
	return max(minCellWidth, d.UsablePageWidth()/Length(cols)-cellInset)
}
