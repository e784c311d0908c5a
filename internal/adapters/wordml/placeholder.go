package wordml

import "strings"

// CellMatch locates a cell inside a table.
type CellMatch struct {
	Cell  Cell
	Table Table
	Row   int
	Col   int
}

// FindParagraphContaining returns the first paragraph whose text contains
// token. Top-level paragraphs are searched before table cells.
func (d *Document) FindParagraphContaining(token string) (Paragraph, bool) {
	for _, p := range d.Paragraphs() {
		if strings.Contains(p.Text(), token) {
			return p, true
		}
	}
	for _, t := range d.Tables() {
		for _, row := range t.Rows() {
			for _, c := range row.Cells() {
				for _, p := range c.Paragraphs() {
					if strings.Contains(p.Text(), token) {
						return p, true
					}
				}
			}
		}
	}
	return Paragraph{}, false
}

// FindCellContaining returns the first table cell holding a paragraph that
// contains token, scanning tables in document order, rows then columns.
func (d *Document) FindCellContaining(token string) (CellMatch, bool) {
	for _, t := range d.Tables() {
		for r, row := range t.Rows() {
			for c, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					if strings.Contains(p.Text(), token) {
						return CellMatch{Cell: cell, Table: t, Row: r, Col: c}, true
					}
				}
			}
		}
	}
	return CellMatch{}, false
}

// ReplaceInParagraph replaces every occurrence of token in p with value.
// The paragraph's text is collapsed into its first run (run properties of
// that run are kept); the remaining runs are removed.
func ReplaceInParagraph(p Paragraph, token, value string) {
	if token == "" {
		return
	}
	full := p.Text()
	if !strings.Contains(full, token) {
		return
	}
	updated := strings.ReplaceAll(full, token, value)

	runs := p.Runs()
	if len(runs) == 0 {
		p.AddRun(updated)
		return
	}
	for _, r := range runs[1:] {
		p.RemoveRun(r)
	}
	runs[0].SetText(updated)
}

// ReplaceEverywhere applies ReplaceInParagraph to every body paragraph and
// every paragraph of every table cell.
func (d *Document) ReplaceEverywhere(token, value string) {
	if token == "" {
		return
	}
	for _, p := range d.Paragraphs() {
		ReplaceInParagraph(p, token, value)
	}
	for _, t := range d.Tables() {
		for _, row := range t.Rows() {
			for _, c := range row.Cells() {
				for _, p := range c.Paragraphs() {
					ReplaceInParagraph(p, token, value)
				}
			}
		}
	}
}

// Text returns the visible text of the body: paragraphs and table cells in
// document order, one paragraph per line.
func (d *Document) Text() string {
	var lines []string
	var visit func(parent NodeID)
	visit = func(parent NodeID) {
		for _, k := range d.nodes[parent].children {
			switch {
			case d.is(k, nsW, "p"):
				lines = append(lines, Paragraph{doc: d, id: k}.Text())
			case d.is(k, nsW, "tbl"):
				for _, row := range (Table{doc: d, id: k}).Rows() {
					for _, c := range row.Cells() {
						visit(c.id)
					}
				}
			}
		}
	}
	visit(d.body)
	return strings.Join(lines, "\n")
}
