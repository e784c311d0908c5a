package inspection_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/csg33k/vessel-reports/internal/adapters/inspection"
	"github.com/csg33k/vessel-reports/internal/adapters/wordml"
	"github.com/csg33k/vessel-reports/internal/adapters/wordml/wordmltest"
	"github.com/csg33k/vessel-reports/internal/domain"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func open(t *testing.T, body string) *wordml.Document {
	t.Helper()
	doc, err := wordml.Open(wordmltest.Docx(body))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return doc
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{G: 180, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// grid returns the text of every cell, row by row.
func grid(table wordml.Table) [][]string {
	var out [][]string
	for _, row := range table.Rows() {
		var cells []string
		for _, c := range row.Cells() {
			cells = append(cells, c.Text())
		}
		out = append(out, cells)
	}
	return out
}

func pictureCount(doc *wordml.Document, table wordml.Table, r, c int) int {
	cell, ok := table.Cell(r, c)
	if !ok {
		return -1
	}
	return len(doc.Pictures(cell))
}

// ---------------------------------------------------------------------------
// InsertImage
// ---------------------------------------------------------------------------

func TestInsertImage_EmptyDataIsNoop(t *testing.T) {
	doc := open(t, wordmltest.Table([]string{"keep me", "x"}))
	table := doc.Tables()[0]
	cell, _ := table.Cell(0, 0)

	inspection.InsertImage(doc, cell, table, nil, inspection.SizingFixed)

	if got := cell.Text(); got != "keep me" {
		t.Errorf("cell text = %q", got)
	}
}

func TestInsertImage_InvalidBytes(t *testing.T) {
	for _, mode := range []inspection.Sizing{inspection.SizingFixed, inspection.SizingAdaptive} {
		doc := open(t, wordmltest.Table([]string{"*FOTO*", "x"}))
		table := doc.Tables()[0]
		cell, _ := table.Cell(0, 0)

		inspection.InsertImage(doc, cell, table, []byte("definitely not a jpeg"), mode)

		if got := cell.Text(); got != inspection.InvalidImageMarker {
			t.Errorf("mode %d: cell text = %q, want %q", mode, got, inspection.InvalidImageMarker)
		}
		if n := len(doc.Pictures(cell)); n != 0 {
			t.Errorf("mode %d: %d pictures inserted", mode, n)
		}
	}
}

func TestInsertImage_Fixed(t *testing.T) {
	doc := open(t, wordmltest.Table([]string{"old text", "x"}))
	table := doc.Tables()[0]
	cell, _ := table.Cell(0, 0)

	inspection.InsertImage(doc, cell, table, pngBytes(t, 10, 40), inspection.SizingFixed)

	if got := cell.Text(); got != "" {
		t.Errorf("cell text = %q, want empty", got)
	}
	pics := doc.Pictures(cell)
	if len(pics) != 1 {
		t.Fatalf("pictures = %d, want 1", len(pics))
	}
	if pics[0].Width != wordml.Inches(3) || pics[0].Height != wordml.Inches(2.25) {
		t.Errorf("extent = %v x %v in, want 3 x 2.25", pics[0].Width.Inches(), pics[0].Height.Inches())
	}
	if got := cell.Paragraphs()[0].Alignment(); got != wordml.AlignCenter {
		t.Errorf("alignment = %q, want center", got)
	}
}

func TestInsertImage_Adaptive(t *testing.T) {
	t.Run("no grid", func(t *testing.T) {
		doc := open(t, wordmltest.Table([]string{"*FOTO*", "x"})+wordmltest.SectionLetter)
		table := doc.Tables()[0]
		cell, _ := table.Cell(0, 0)

		inspection.InsertImage(doc, cell, table, pngBytes(t, 40, 30), inspection.SizingAdaptive)

		pics := doc.Pictures(cell)
		if len(pics) != 1 {
			t.Fatalf("pictures = %d, want 1", len(pics))
		}
		wantW := wordml.Inches(3.2)
		if pics[0].Width != wantW || pics[0].Height != wantW*3/4 {
			t.Errorf("extent = %d x %d EMU, want %d x %d", pics[0].Width, pics[0].Height, wantW, wantW*3/4)
		}
	})

	t.Run("grid", func(t *testing.T) {
		doc := open(t, wordmltest.GridTable([]int{1440, 5760}, []string{"a", "*FOTO*"}))
		table := doc.Tables()[0]
		cell, _ := table.Cell(0, 1)

		inspection.InsertImage(doc, cell, table, pngBytes(t, 100, 50), inspection.SizingAdaptive)

		pics := doc.Pictures(cell)
		if len(pics) != 1 {
			t.Fatalf("pictures = %d, want 1", len(pics))
		}
		wantW := wordml.Inches(4) - wordml.Inches(0.05)
		if pics[0].Width != wantW || pics[0].Height != wantW/2 {
			t.Errorf("extent = %v x %v in", pics[0].Width.Inches(), pics[0].Height.Inches())
		}
	})
}

// ---------------------------------------------------------------------------
// BuildGalleryTable
// ---------------------------------------------------------------------------

func TestBuildGalleryTable_NoItems(t *testing.T) {
	doc := open(t, wordmltest.P("Dokumentasi:")+wordmltest.P("*DOKUMENTASI*")+wordmltest.SectionLetter)

	table := inspection.BuildGalleryTable(doc, "*DOKUMENTASI*", nil)

	want := [][]string{{"", ""}, {"", ""}}
	if diff := cmp.Diff(want, grid(table)); diff != "" {
		t.Errorf("cells (-want +got):\n%s", diff)
	}
	for _, w := range table.ColumnWidths() {
		if w != wordml.Inches(3.25) {
			t.Errorf("column width = %v in, want 3.25", w.Inches())
		}
	}
}

func TestBuildGalleryTable_ThreeItems(t *testing.T) {
	doc := open(t, wordmltest.P("*DOKUMENTASI*")+wordmltest.SectionLetter)
	items := []domain.DocumentationItem{
		{Image: pngBytes(t, 8, 6), Caption: "Main deck"},
		{Caption: "  Engine room  "},
		{Image: pngBytes(t, 6, 8), Caption: "Bridge"},
	}

	table := inspection.BuildGalleryTable(doc, "*DOKUMENTASI*", items)

	want := [][]string{
		{"", ""},
		{"Main deck", "Engine room"},
		{"", ""},
		{"Bridge", ""},
	}
	if diff := cmp.Diff(want, grid(table)); diff != "" {
		t.Errorf("cells (-want +got):\n%s", diff)
	}

	pictures := [][]int{{1, 0}, {0, 0}, {1, 0}, {0, 0}}
	for r, row := range pictures {
		for c, n := range row {
			if got := pictureCount(doc, table, r, c); got != n {
				t.Errorf("cell (%d,%d) has %d pictures, want %d", r, c, got, n)
			}
		}
	}
	for _, row := range table.Rows() {
		for _, c := range row.Cells() {
			if a := c.Paragraphs()[0].Alignment(); a != wordml.AlignCenter {
				t.Errorf("cell %q not centred (%q)", c.Text(), a)
			}
		}
	}
}

func TestBuildGalleryTable_Filtering(t *testing.T) {
	tests := []struct {
		name     string
		items    []domain.DocumentationItem
		wantRows int
	}{
		{
			name:     "empty items dropped",
			items:    []domain.DocumentationItem{{}, {Caption: "a"}, {Caption: " "}, {}, {Caption: "b"}},
			wantRows: 2,
		},
		{
			name:     "all empty kept unfiltered",
			items:    make([]domain.DocumentationItem, 10),
			wantRows: 10,
		},
		{
			name:     "single item",
			items:    []domain.DocumentationItem{{Caption: "only"}},
			wantRows: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := open(t, wordmltest.P("*DOKUMENTASI*"))
			table := inspection.BuildGalleryTable(doc, "*DOKUMENTASI*", tc.items)
			if got := len(table.Rows()); got != tc.wantRows {
				t.Errorf("rows = %d, want %d", got, tc.wantRows)
			}
		})
	}
}

func TestBuildGalleryTable_PlacedAtAnchor(t *testing.T) {
	doc := open(t, wordmltest.P("before")+wordmltest.P("*DOKUMENTASI*")+wordmltest.P("after")+wordmltest.SectionLetter)

	inspection.BuildGalleryTable(doc, "*DOKUMENTASI*", []domain.DocumentationItem{{Caption: "x"}})

	if _, ok := doc.FindParagraphContaining("*DOKUMENTASI*"); ok {
		t.Error("token still present after building the table")
	}
	if got := doc.Text(); got != "before\n\n\n\nx\n\nafter" {
		t.Errorf("document text = %q", got)
	}
}

func TestBuildGalleryTable_MissingAnchor(t *testing.T) {
	doc := open(t, wordmltest.P("no token here")+wordmltest.SectionLetter)

	inspection.BuildGalleryTable(doc, "*DOKUMENTASI*", []domain.DocumentationItem{{Caption: "x"}, {Caption: "y"}})

	if n := len(doc.Tables()); n != 1 {
		t.Fatalf("tables = %d, want 1", n)
	}
	if got := doc.Text(); got != "no token here\n\n\n\nx\ny" {
		t.Errorf("document text = %q", got)
	}
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if _, err := wordml.Open(data); err != nil {
		t.Errorf("output does not reopen: %v", err)
	}
}

func TestBuildGalleryTable_InvalidImageMarker(t *testing.T) {
	doc := open(t, wordmltest.P("*DOKUMENTASI*"))
	items := []domain.DocumentationItem{{Image: []byte("garbage"), Caption: "broken"}}

	table := inspection.BuildGalleryTable(doc, "*DOKUMENTASI*", items)

	want := [][]string{{inspection.InvalidImageMarker, ""}, {"broken", ""}}
	if diff := cmp.Diff(want, grid(table)); diff != "" {
		t.Errorf("cells (-want +got):\n%s", diff)
	}
}

func TestBuildGalleryTable_AnchorInCell(t *testing.T) {
	doc := open(t, wordmltest.Table([]string{"*DOKUMENTASI*"}))
	inspection.BuildGalleryTable(doc, "*DOKUMENTASI*", nil)

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	again, err := wordml.Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	outer, _ := again.Tables()[0].Cell(0, 0)
	paras := outer.Paragraphs()
	if len(outer.Tables()) != 1 || len(paras) != 2 {
		t.Errorf("cell holds %d tables and %d paragraphs", len(outer.Tables()), len(paras))
	}
	if strings.Contains(again.Text(), "*DOKUMENTASI*") {
		t.Error("token not cleared")
	}
}
