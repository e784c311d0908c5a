// Package templates holds the HTML views of the web application. Each view
// is exposed as a templ.Component so handlers render them uniformly.
package templates

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/csg33k/vessel-reports/internal/domain"
	"github.com/csg33k/vessel-reports/internal/session"
)

//go:embed views/*.html
var viewsFS embed.FS

var views = template.Must(template.New("views").Funcs(template.FuncMap{
	"rupiah":     rupiah,
	"seq":        seq,
	"storedDate": storedDate,
	"longDate":   longDate,
}).ParseFS(viewsFS, "views/*.html"))

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return views.ExecuteTemplate(w, name, data)
	})
}

// ---------------------------------------------------------------------------
// View models
// ---------------------------------------------------------------------------

type IndexData struct {
	Trips       []domain.Trip
	MailEnabled bool
}

// DocSlot is one upload/caption pair of the documentation grid.
type DocSlot struct {
	Index      int
	Key        string
	CaptionKey string
	Caption    string
	Uploaded   bool
}

// DocRow is one line of the grid: two slots, the second absent when the
// row count is odd.
type DocRow struct {
	Left     DocSlot
	Right    DocSlot
	HasRight bool
}

type InspectionData struct {
	Types        []string
	SelectedType string
	Vessels      []string
	Today        string
	BowPhotoKey  string
	BowPhoto     bool
	Rows         []DocRow
	MailEnabled  bool
}

type RBDData struct {
	Trip   *domain.Trip
	Trips  []domain.Trip
	Notice string
	Error  string
}

// CaptionKey names the caption field of documentation row i (0-based).
func CaptionKey(i int) string { return "doc_cap_" + strconv.Itoa(i) }

// DocumentationRows lays out n slots two per row, marks the ones that
// already have an upload in the session and fills in captions typed so far,
// keyed by CaptionKey.
func DocumentationRows(n int, uploads map[string][]byte, captions map[string]string) []DocRow {
	slot := func(i int) DocSlot {
		key := session.DocumentationKey(i)
		return DocSlot{
			Index:      i,
			Key:        key,
			CaptionKey: CaptionKey(i),
			Caption:    captions[CaptionKey(i)],
			Uploaded:   len(uploads[key]) > 0,
		}
	}
	var rows []DocRow
	for i := 0; i < n; i += 2 {
		row := DocRow{Left: slot(i)}
		if i+1 < n {
			row.Right, row.HasRight = slot(i+1), true
		}
		rows = append(rows, row)
	}
	return rows
}

// ---------------------------------------------------------------------------
// Components
// ---------------------------------------------------------------------------

func Index(d IndexData) templ.Component { return component("index", d) }

func InspectionForm(d InspectionData) templ.Component { return component("inspection", d) }

// VesselOptions is the <option> list swapped into the vessel select.
func VesselOptions(vessels []string) templ.Component { return component("vessel-options", vessels) }

// DocRows is the documentation grid fragment.
func DocRows(rows []DocRow) templ.Component { return component("doc-rows", rows) }

func RBDForm(d RBDData) templ.Component { return component("rbd", d) }
