package wordml

import (
	"encoding/xml"
	"strings"
)

// Kind tags the typed node variants.
type Kind uint8

const (
	KindBody Kind = iota + 1
	KindParagraph
	KindRun
	KindTable
	KindRow
	KindCell
)

// Node is implemented by Body, Paragraph, Run, Table, Row and Cell only.
type Node interface {
	ID() NodeID
	Kind() Kind
	sealed()
}

// TextNode is a node whose visible text can be read.
type TextNode interface {
	Node
	Text() string
}

// BlockContainer holds block-level content: the body and table cells.
type BlockContainer interface {
	Node
	Paragraphs() []Paragraph
	Tables() []Table
}

// Alignment is a paragraph justification value (w:jc/@w:val).
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	AlignBoth   Alignment = "both"
)

// ---------------------------------------------------------------------------
// Body
// ---------------------------------------------------------------------------

// Body is the w:body element.
type Body struct {
	doc *Document
	id  NodeID
}

func (b Body) ID() NodeID              { return b.id }
func (b Body) Kind() Kind              { return KindBody }
func (b Body) sealed()                 {}
func (b Body) Paragraphs() []Paragraph { return paragraphsOf(b.doc, b.id) }
func (b Body) Tables() []Table         { return tablesOf(b.doc, b.id) }

// Body returns the document body.
func (d *Document) Body() Body { return Body{doc: d, id: d.body} }

// Paragraphs returns the top-level paragraphs of the body.
func (d *Document) Paragraphs() []Paragraph { return d.Body().Paragraphs() }

// Tables returns every table in document order, nested tables included
// right after the table that contains them.
func (d *Document) Tables() []Table {
	var out []Table
	var visit func(parent NodeID)
	visit = func(parent NodeID) {
		for _, t := range tablesOf(d, parent) {
			out = append(out, t)
			for _, row := range t.Rows() {
				for _, c := range row.Cells() {
					visit(c.id)
				}
			}
		}
	}
	visit(d.body)
	return out
}

// AddParagraph appends an empty paragraph to the end of the body, ahead of
// the trailing section properties.
func (d *Document) AddParagraph() Paragraph {
	p := d.element(nsW, "p")
	if sect := d.firstChild(d.body, nsW, "sectPr"); sect != noNode && d.indexInParent(sect) == len(d.nodes[d.body].children)-1 {
		d.insertChild(d.body, d.indexInParent(sect), p)
	} else {
		d.appendChild(d.body, p)
	}
	return Paragraph{doc: d, id: p}
}

func paragraphsOf(d *Document, parent NodeID) []Paragraph {
	ids := d.children(parent, nsW, "p")
	out := make([]Paragraph, len(ids))
	for i, id := range ids {
		out[i] = Paragraph{doc: d, id: id}
	}
	return out
}

func tablesOf(d *Document, parent NodeID) []Table {
	ids := d.children(parent, nsW, "tbl")
	out := make([]Table, len(ids))
	for i, id := range ids {
		out[i] = Table{doc: d, id: id}
	}
	return out
}

// ---------------------------------------------------------------------------
// Paragraph
// ---------------------------------------------------------------------------

// Paragraph is a w:p element.
type Paragraph struct {
	doc *Document
	id  NodeID
}

func (p Paragraph) ID() NodeID { return p.id }
func (p Paragraph) Kind() Kind { return KindParagraph }
func (p Paragraph) sealed()    {}

// Runs returns the paragraph's direct w:r children.
func (p Paragraph) Runs() []Run {
	ids := p.doc.children(p.id, nsW, "r")
	out := make([]Run, len(ids))
	for i, id := range ids {
		out[i] = Run{doc: p.doc, id: id}
	}
	return out
}

// Text concatenates the text of the paragraph's runs in order.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// AddRun appends a run holding text to the paragraph.
func (p Paragraph) AddRun(text string) Run {
	r := Run{doc: p.doc, id: p.doc.element(nsW, "r")}
	p.doc.appendChild(p.id, r.id)
	if text != "" {
		r.SetText(text)
	}
	return r
}

// RemoveRun deletes r from the paragraph.
func (p Paragraph) RemoveRun(r Run) {
	if p.doc.nodes[r.id].parent == p.id {
		p.doc.detach(r.id)
	}
}

// Alignment returns the paragraph's direct justification, or "".
func (p Paragraph) Alignment() Alignment {
	ppr := p.doc.firstChild(p.id, nsW, "pPr")
	if ppr == noNode {
		return ""
	}
	jc := p.doc.firstChild(ppr, nsW, "jc")
	if jc == noNode {
		return ""
	}
	v, _ := p.doc.attr(jc, nsW, "val")
	return Alignment(v)
}

// SetAlignment sets w:pPr/w:jc, keeping the schema order of w:pPr.
func (p Paragraph) SetAlignment(a Alignment) {
	d := p.doc
	ppr := d.ensureChild(p.id, nsW, "pPr", 0)
	jc := d.firstChild(ppr, nsW, "jc")
	if jc == noNode {
		jc = d.element(nsW, "jc")
		d.insertOrdered(ppr, jc, "textDirection", "textAlignment", "textboxTightWrap",
			"outlineLvl", "divId", "cnfStyle", "rPr", "sectPr", "pPrChange")
	}
	d.setAttr(jc, nsW, "val", string(a))
}

// Parent returns the container holding the paragraph: the body or a cell.
func (p Paragraph) Parent() (BlockContainer, bool) {
	parent := p.doc.nodes[p.id].parent
	switch {
	case parent == p.doc.body:
		return p.doc.Body(), true
	case parent != noNode && p.doc.is(parent, nsW, "tc"):
		return Cell{doc: p.doc, id: parent}, true
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

// Run is a w:r element.
type Run struct {
	doc *Document
	id  NodeID
}

func (r Run) ID() NodeID { return r.id }
func (r Run) Kind() Kind { return KindRun }
func (r Run) sealed()    {}

// Text returns the run's text. Tabs and line breaks inside the run map to
// "\t" and "\n"; page and column breaks contribute nothing.
func (r Run) Text() string {
	d := r.doc
	var sb strings.Builder
	for _, k := range d.nodes[r.id].children {
		n := &d.nodes[k]
		if n.kind != elementNode || d.namespace(n.name.Space) != nsW {
			continue
		}
		switch n.name.Local {
		case "t":
			for _, c := range n.children {
				if d.nodes[c].kind == charDataNode {
					sb.WriteString(d.nodes[c].data)
				}
			}
		case "tab", "ptab":
			sb.WriteByte('\t')
		case "br":
			if t, _ := d.attr(k, nsW, "type"); t == "" || t == "textWrapping" {
				sb.WriteByte('\n')
			}
		case "cr":
			sb.WriteByte('\n')
		case "noBreakHyphen":
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Clear removes all run content except the run properties.
func (r Run) Clear() {
	d := r.doc
	for _, k := range append([]NodeID(nil), d.nodes[r.id].children...) {
		if !d.is(k, nsW, "rPr") {
			d.detach(k)
		}
	}
}

// SetText replaces the run content with text, keeping run properties.
func (r Run) SetText(text string) {
	r.Clear()
	d := r.doc
	var chunk strings.Builder
	flush := func() {
		if chunk.Len() == 0 {
			return
		}
		t := d.element(nsW, "t")
		d.nodes[t].attrs = append(d.nodes[t].attrs, xmlSpacePreserve())
		d.appendChild(t, d.text(chunk.String()))
		d.appendChild(r.id, t)
		chunk.Reset()
	}
	for _, c := range text {
		switch c {
		case '\t':
			flush()
			d.appendChild(r.id, d.element(nsW, "tab"))
		case '\n', '\r':
			flush()
			d.appendChild(r.id, d.element(nsW, "br"))
		default:
			if xmlChar(c) {
				chunk.WriteRune(c)
			}
		}
	}
	flush()
}

// xmlChar reports whether r may appear in an XML 1.0 document. Other
// characters are dropped from run text.
func xmlChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return r <= 0x10FFFF
}

// ---------------------------------------------------------------------------
// Table, Row, Cell
// ---------------------------------------------------------------------------

// Table is a w:tbl element.
type Table struct {
	doc *Document
	id  NodeID
}

func (t Table) ID() NodeID { return t.id }
func (t Table) Kind() Kind { return KindTable }
func (t Table) sealed()    {}

// Rows returns the table's w:tr children.
func (t Table) Rows() []Row {
	ids := t.doc.children(t.id, nsW, "tr")
	out := make([]Row, len(ids))
	for i, id := range ids {
		out[i] = Row{doc: t.doc, id: id}
	}
	return out
}

// Cell returns the cell at row r, column c.
func (t Table) Cell(r, c int) (Cell, bool) {
	rows := t.Rows()
	if r < 0 || r >= len(rows) {
		return Cell{}, false
	}
	cells := rows[r].Cells()
	if c < 0 || c >= len(cells) {
		return Cell{}, false
	}
	return cells[c], true
}

// Row is a w:tr element.
type Row struct {
	doc *Document
	id  NodeID
}

func (r Row) ID() NodeID { return r.id }
func (r Row) Kind() Kind { return KindRow }
func (r Row) sealed()    {}

// Cells returns the row's w:tc children. Horizontally merged cells appear
// once.
func (r Row) Cells() []Cell {
	ids := r.doc.children(r.id, nsW, "tc")
	out := make([]Cell, len(ids))
	for i, id := range ids {
		out[i] = Cell{doc: r.doc, id: id}
	}
	return out
}

// Cell is a w:tc element.
type Cell struct {
	doc *Document
	id  NodeID
}

func (c Cell) ID() NodeID              { return c.id }
func (c Cell) Kind() Kind              { return KindCell }
func (c Cell) sealed()                 {}
func (c Cell) Paragraphs() []Paragraph { return paragraphsOf(c.doc, c.id) }
func (c Cell) Tables() []Table         { return tablesOf(c.doc, c.id) }

// Text joins the cell's paragraph texts with newlines.
func (c Cell) Text() string {
	paras := c.Paragraphs()
	parts := make([]string, len(paras))
	for i, p := range paras {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// SetText replaces all cell content with a single paragraph holding one run
// of text. Cell properties are kept; paragraph formatting is not.
func (c Cell) SetText(text string) {
	d := c.doc
	for _, k := range append([]NodeID(nil), d.nodes[c.id].children...) {
		if !d.is(k, nsW, "tcPr") {
			d.detach(k)
		}
	}
	p := c.AddParagraph()
	r := p.AddRun("")
	r.SetText(text)
}

// AddParagraph appends an empty paragraph to the cell.
func (c Cell) AddParagraph() Paragraph {
	p := c.doc.element(nsW, "p")
	c.doc.appendChild(c.id, p)
	return Paragraph{doc: c.doc, id: p}
}

// SetWidth writes an absolute w:tcW for the cell.
func (c Cell) SetWidth(w Length) {
	d := c.doc
	tcPr := d.ensureChild(c.id, nsW, "tcPr", 0)
	tcW := d.firstChild(tcPr, nsW, "tcW")
	if tcW == noNode {
		tcW = d.element(nsW, "tcW")
		idx := 0
		if d.firstChild(tcPr, nsW, "cnfStyle") != noNode {
			idx = 1
		}
		d.insertChild(tcPr, idx, tcW)
	}
	d.setAttr(tcW, nsW, "w", formatTwips(w))
	d.setAttr(tcW, nsW, "type", "dxa")
}

// GridSpan returns the number of grid columns the cell covers (w:gridSpan),
// 1 when unset or invalid.
func (c Cell) GridSpan() int {
	d := c.doc
	tcPr := d.firstChild(c.id, nsW, "tcPr")
	if tcPr == noNode {
		return 1
	}
	span := d.firstChild(tcPr, nsW, "gridSpan")
	if span == noNode {
		return 1
	}
	if v, ok := d.intAttr(span, nsW, "val"); ok && v > 1 {
		return int(v)
	}
	return 1
}

// Width returns the cell's absolute w:tcW, if any.
func (c Cell) Width() (Length, bool) {
	d := c.doc
	tcPr := d.firstChild(c.id, nsW, "tcPr")
	if tcPr == noNode {
		return 0, false
	}
	tcW := d.firstChild(tcPr, nsW, "tcW")
	if tcW == noNode {
		return 0, false
	}
	if t, _ := d.attr(tcW, nsW, "type"); t != "" && t != "dxa" {
		return 0, false
	}
	v, ok := d.intAttr(tcW, nsW, "w")
	if !ok {
		return 0, false
	}
	return Length(v) * Twip, true
}

func xmlSpacePreserve() xml.Attr {
	return xml.Attr{Name: xml.Name{Space: "xml", Local: "space"}, Value: "preserve"}
}
