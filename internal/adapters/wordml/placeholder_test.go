package wordml_test

import (
	"strings"
	"testing"

	"github.com/csg33k/vessel-reports/internal/adapters/wordml"
	"github.com/csg33k/vessel-reports/internal/adapters/wordml/wordmltest"
)

// ---------------------------------------------------------------------------
// Locating
// ---------------------------------------------------------------------------

func TestFindParagraphContaining(t *testing.T) {
	body := wordmltest.Table([]string{"*TOKEN* in table"}) +
		wordmltest.P("intro") +
		wordmltest.P("top *TOKEN*")
	doc := open(t, body)

	p, ok := doc.FindParagraphContaining("*TOKEN*")
	if !ok {
		t.Fatal("token not found")
	}
	if p.Text() != "top *TOKEN*" {
		t.Errorf("found %q, want the top-level paragraph", p.Text())
	}

	p, ok = doc.FindParagraphContaining("in table")
	if !ok || p.Text() != "*TOKEN* in table" {
		t.Errorf("table paragraph not found: %q, %v", p.Text(), ok)
	}

	if _, ok := doc.FindParagraphContaining("*MISSING*"); ok {
		t.Error("found a token that is not there")
	}
}

func TestFindParagraphContaining_SplitRuns(t *testing.T) {
	doc := open(t, wordmltest.P("*VES", "SEL*"))
	if _, ok := doc.FindParagraphContaining("*VESSEL*"); !ok {
		t.Error("token split across runs not found")
	}
}

func TestFindCellContaining(t *testing.T) {
	body := wordmltest.Table([]string{"a", "b"}) +
		wordmltest.Table(
			[]string{"c", "d", "e"},
			[]string{"f", "photo: *FOTO*", "*FOTO* again"},
		)
	doc := open(t, body)

	m, ok := doc.FindCellContaining("*FOTO*")
	if !ok {
		t.Fatal("cell not found")
	}
	if m.Row != 1 || m.Col != 1 {
		t.Errorf("coordinates = (%d,%d), want (1,1)", m.Row, m.Col)
	}
	if m.Table.ID() != doc.Tables()[1].ID() {
		t.Error("wrong table")
	}
	if m.Cell.Text() != "photo: *FOTO*" {
		t.Errorf("cell text = %q", m.Cell.Text())
	}

	if _, ok := doc.FindCellContaining("*NONE*"); ok {
		t.Error("found a missing token")
	}
}

func TestFindCellContaining_NestedTable(t *testing.T) {
	inner := wordmltest.Table([]string{"x", "*DEEP*"})
	body := `<w:tbl><w:tr><w:tc>` + wordmltest.P("outer") + inner + wordmltest.P("") + `</w:tc></w:tr></w:tbl>`
	doc := open(t, body)

	m, ok := doc.FindCellContaining("*DEEP*")
	if !ok {
		t.Fatal("nested cell not found")
	}
	if m.Row != 0 || m.Col != 1 || m.Cell.Text() != "*DEEP*" {
		t.Errorf("match = row %d col %d %q", m.Row, m.Col, m.Cell.Text())
	}
}

// ---------------------------------------------------------------------------
// Replacing
// ---------------------------------------------------------------------------

func TestReplaceInParagraph_CollapsesRuns(t *testing.T) {
	tests := []struct {
		name  string
		runs  []string
		token string
		value string
		want  string
	}{
		{"single run", []string{"prefix*T*suffix"}, "*T*", "V", "prefixVsuffix"},
		{"split token", []string{"prefix*", "T", "*suffix"}, "*T*", "V", "prefixVsuffix"},
		{"every occurrence", []string{"*T* and *T*"}, "*T*", "x", "x and x"},
		{"value contains token", []string{"a*T*b"}, "*T*", "[*T*]", "a[*T*]b"},
		{"empty value", []string{"keep ", "*T*"}, "*T*", "", "keep "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := open(t, wordmltest.P(tc.runs...))
			p := doc.Paragraphs()[0]
			wordml.ReplaceInParagraph(p, tc.token, tc.value)

			runs := p.Runs()
			if len(runs) != 1 {
				t.Fatalf("len(Runs) = %d, want 1", len(runs))
			}
			if got := runs[0].Text(); got != tc.want {
				t.Errorf("run text = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReplaceInParagraph_KeepsFirstRunProperties(t *testing.T) {
	doc := open(t, `<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Name: </w:t></w:r>`+
		`<w:r><w:rPr><w:i/></w:rPr><w:t>*NAME*</w:t></w:r></w:p>`)
	p := doc.Paragraphs()[0]
	wordml.ReplaceInParagraph(p, "*NAME*", "Ocean Star")

	xml := part(t, doc, "word/document.xml")
	if !strings.Contains(xml, "<w:b/>") {
		t.Error("first run properties lost")
	}
	if strings.Contains(xml, "<w:i/>") {
		t.Error("second run survived")
	}
	if got := reopen(t, doc).Paragraphs()[0].Text(); got != "Name: Ocean Star" {
		t.Errorf("text = %q", got)
	}
}

func TestReplaceInParagraph_NoMatchIsNoop(t *testing.T) {
	doc := open(t, wordmltest.P("one", "two"))
	p := doc.Paragraphs()[0]
	wordml.ReplaceInParagraph(p, "*T*", "x")
	wordml.ReplaceInParagraph(p, "", "x")
	if got := len(p.Runs()); got != 2 {
		t.Errorf("runs collapsed without a match: %d", got)
	}
}

func TestReplaceEverywhere(t *testing.T) {
	body := wordmltest.P("Vessel *V*") +
		wordmltest.Table([]string{"*V*", "other"}, []string{"x", "IMO *I*"}) +
		wordmltest.P("*V* / *V*")
	doc := open(t, body)

	doc.ReplaceEverywhere("*V*", "MV Sejahtera")
	doc.ReplaceEverywhere("*I*", "9123456")

	want := "Vessel MV Sejahtera\nMV Sejahtera\nother\nx\nIMO 9123456\nMV Sejahtera / MV Sejahtera"
	if got := reopen(t, doc).Text(); got != want {
		t.Errorf("Text =\n%q\nwant\n%q", got, want)
	}
}

func TestReplaceEverywhere_AbsentTokenLeavesTextUnchanged(t *testing.T) {
	bodies := []string{
		"",
		wordmltest.P("plain"),
		wordmltest.P("a", "b", "c") + wordmltest.Table([]string{"x", "y"}),
		wordmltest.P("*VESSEL*") + wordmltest.SectionA4,
	}
	for _, body := range bodies {
		doc := open(t, body)
		before := doc.Text()
		doc.ReplaceEverywhere("*ABSENT*", "value")
		if after := doc.Text(); after != before {
			t.Errorf("text changed: %q -> %q", before, after)
		}
	}
}

func TestReplaceEverywhere_ValueContainingToken(t *testing.T) {
	doc := open(t, wordmltest.P("*V*")+wordmltest.Table([]string{"a *V* b"}))

	doc.ReplaceEverywhere("*V*", "x*V*y")

	want := "x*V*y\na x*V*y b"
	if got := reopen(t, doc).Text(); got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestReplaceEverywhere_DropsCharactersXMLForbids(t *testing.T) {
	doc := open(t, wordmltest.P("Master: *MASTER*"))

	doc.ReplaceEverywhere("*MASTER*", "Budi\x0bSan\x00toso\x1f")

	if got, want := reopen(t, doc).Text(), "Master: BudiSantoso"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}
