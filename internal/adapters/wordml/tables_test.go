package wordml_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/csg33k/vessel-reports/internal/adapters/wordml"
	"github.com/csg33k/vessel-reports/internal/adapters/wordml/wordmltest"
)

// ---------------------------------------------------------------------------
// InsertTableAfter
// ---------------------------------------------------------------------------

func TestInsertTableAfter_Body(t *testing.T) {
	doc := open(t, wordmltest.P("before")+wordmltest.P("anchor")+wordmltest.P("after")+wordmltest.SectionLetter)
	anchor, _ := doc.FindParagraphContaining("anchor")

	table := doc.InsertTableAfter(anchor, 4, 2, wordml.Inches(3.25))

	rows := table.Rows()
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	for i, row := range rows {
		if n := len(row.Cells()); n != 2 {
			t.Errorf("row %d has %d cells", i, n)
		}
	}

	again := reopen(t, doc)
	if got := again.Text(); got != "before\nanchor\n\n\n\n\n\n\n\n\nafter" {
		t.Errorf("table not placed after anchor: %q", got)
	}
	for col, w := range again.Tables()[0].ColumnWidths() {
		if w != wordml.Inches(3.25) {
			t.Errorf("column %d width = %v in", col, w.Inches())
		}
	}

	xml := part(t, doc, "word/document.xml")
	anchorAt := strings.Index(xml, "anchor")
	tableAt := strings.Index(xml, "<w:tbl>")
	afterAt := strings.Index(xml, ">after<")
	if !(anchorAt < tableAt && tableAt < afterAt) {
		t.Errorf("order anchor=%d table=%d after=%d", anchorAt, tableAt, afterAt)
	}
}

func TestInsertTableAfter_InsideCellKeepsTrailingParagraph(t *testing.T) {
	doc := open(t, wordmltest.Table([]string{"*GALLERY*"}))
	anchor, _ := doc.FindParagraphContaining("*GALLERY*")
	doc.InsertTableAfter(anchor, 2, 2, wordml.Inches(1))

	outer, _ := doc.Tables()[0].Cell(0, 0)
	if n := len(outer.Tables()); n != 1 {
		t.Fatalf("nested tables = %d, want 1", n)
	}
	if n := len(outer.Paragraphs()); n != 2 {
		t.Errorf("cell paragraphs = %d, want anchor plus trailing paragraph", n)
	}
	xml := part(t, doc, "word/document.xml")
	if !strings.Contains(xml, "</w:tbl><w:p/></w:tc>") {
		t.Errorf("cell does not end with a paragraph:\n%s", xml)
	}
}

// ---------------------------------------------------------------------------
// Pictures
// ---------------------------------------------------------------------------

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestAddImageAndPicture(t *testing.T) {
	doc := open(t, wordmltest.Table([]string{"photo"}))
	data := pngBytes(t, 4, 3)

	relID, err := doc.AddImage(data, "png")
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if relID != "rId2" {
		t.Errorf("relID = %q, want rId2 after the existing rId1", relID)
	}

	cell, _ := doc.Tables()[0].Cell(0, 0)
	run := cell.Paragraphs()[0].AddRun("")
	if err := run.AddPicture(relID, wordml.Inches(3), wordml.Inches(2.25)); err != nil {
		t.Fatalf("AddPicture: %v", err)
	}

	again := reopen(t, doc)
	cell, _ = again.Tables()[0].Cell(0, 0)
	pics := again.Pictures(cell)
	if len(pics) != 1 {
		t.Fatalf("pictures = %d, want 1", len(pics))
	}
	if pics[0].Width != wordml.Inches(3) || pics[0].Height != wordml.Inches(2.25) {
		t.Errorf("extent = %v x %v in", pics[0].Width.Inches(), pics[0].Height.Inches())
	}
	got, ok := again.ImageData(pics[0].RelID)
	if !ok || !bytes.Equal(got, data) {
		t.Errorf("ImageData returned %d bytes, ok=%v", len(got), ok)
	}

	types := part(t, doc, "[Content_Types].xml")
	if !strings.Contains(types, `Extension="png"`) || !strings.Contains(types, `ContentType="image/png"`) {
		t.Errorf("png content type not registered:\n%s", types)
	}
	rels := part(t, doc, "word/_rels/document.xml.rels")
	if !strings.Contains(rels, `Target="media/image1.png"`) || !strings.Contains(rels, `Target="styles.xml"`) {
		t.Errorf("relationships:\n%s", rels)
	}
	if media := part(t, doc, "word/media/image1.png"); media != string(data) {
		t.Error("media part content differs")
	}
}

func TestAddPicture_UniqueShapeIDs(t *testing.T) {
	doc := open(t, wordmltest.P("a"))
	relID, err := doc.AddImage(pngBytes(t, 1, 1), ".PNG")
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	p := doc.Paragraphs()[0]
	for i := 0; i < 3; i++ {
		if err := p.AddRun("").AddPicture(relID, wordml.Inch, wordml.Inch); err != nil {
			t.Fatalf("AddPicture: %v", err)
		}
	}
	xml := part(t, doc, "word/document.xml")
	for _, id := range []string{`<wp:docPr id="1"`, `<wp:docPr id="2"`, `<wp:docPr id="3"`} {
		if strings.Count(xml, id) != 1 {
			t.Errorf("%s appears %d times", id, strings.Count(xml, id))
		}
	}
	again := reopen(t, doc)
	if n := len(again.Pictures(again.Body())); n != 3 {
		t.Errorf("pictures = %d, want 3", n)
	}
}

func TestAddImage_RejectsUnknownType(t *testing.T) {
	doc := open(t, wordmltest.P("a"))
	if _, err := doc.AddImage([]byte("x"), "svg"); err == nil {
		t.Error("expected error for svg")
	}
}

func TestAddImage_DeclaresMissingPrefixes(t *testing.T) {
	data := wordmltest.Package(map[string]string{
		"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml": `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body><w:p/></w:body></w:document>`,
	})
	doc, err := wordml.Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	relID, err := doc.AddImage(pngBytes(t, 2, 2), "png")
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if relID != "rId1" {
		t.Errorf("relID = %q, want rId1", relID)
	}
	if err := doc.Paragraphs()[0].AddRun("").AddPicture(relID, wordml.Inch, wordml.Inch); err != nil {
		t.Fatalf("AddPicture: %v", err)
	}

	again := reopen(t, doc)
	if n := len(again.Pictures(again.Body())); n != 1 {
		t.Errorf("pictures = %d, want 1", n)
	}
	if rels := part(t, doc, "word/_rels/document.xml.rels"); !strings.Contains(rels, "media/image1.png") {
		t.Errorf("relationships part not created:\n%s", rels)
	}
}
