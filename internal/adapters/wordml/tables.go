package wordml

// InsertTableAfter creates a rows × cols table directly after anchor, in the
// same container. Every column gets colWidth; each cell holds one empty
// paragraph. When the anchor's container is a cell and the table ends up as
// its last block, an empty paragraph is appended after it since a cell must
// end with a paragraph.
func (d *Document) InsertTableAfter(anchor Paragraph, rows, cols int, colWidth Length) Table {
	rows, cols = max(rows, 1), max(cols, 1)
	width := formatTwips(colWidth)

	tbl := d.element(nsW, "tbl")
	tblPr := d.element(nsW, "tblPr")
	d.appendChild(tblPr, d.element(nsW, "tblW", "w", "0", "type", "auto"))
	d.appendChild(tblPr, d.element(nsW, "tblLayout", "type", "autofit"))
	d.appendChild(tblPr, d.element(nsW, "tblLook", "val", "04A0",
		"firstRow", "1", "lastRow", "0", "firstColumn", "1", "lastColumn", "0",
		"noHBand", "0", "noVBand", "1"))
	d.appendChild(tbl, tblPr)

	grid := d.element(nsW, "tblGrid")
	for c := 0; c < cols; c++ {
		d.appendChild(grid, d.element(nsW, "gridCol", "w", width))
	}
	d.appendChild(tbl, grid)

	for r := 0; r < rows; r++ {
		tr := d.element(nsW, "tr")
		for c := 0; c < cols; c++ {
			tc := d.element(nsW, "tc")
			tcPr := d.element(nsW, "tcPr")
			d.appendChild(tcPr, d.element(nsW, "tcW", "w", width, "type", "dxa"))
			d.appendChild(tc, tcPr)
			d.appendChild(tc, d.element(nsW, "p"))
			d.appendChild(tr, tc)
		}
		d.appendChild(tbl, tr)
	}

	parent := d.nodes[anchor.id].parent
	if parent == noNode {
		parent = d.body
		d.appendChild(parent, tbl)
	} else {
		d.insertChild(parent, d.indexInParent(anchor.id)+1, tbl)
	}
	if d.is(parent, nsW, "tc") {
		kids := d.nodes[parent].children
		if kids[len(kids)-1] == tbl {
			d.appendChild(parent, d.element(nsW, "p"))
		}
	}
	return Table{doc: d, id: tbl}
}
