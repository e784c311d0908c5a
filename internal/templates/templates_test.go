package templates_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/google/go-cmp/cmp"

	"github.com/csg33k/vessel-reports/internal/domain"
	"github.com/csg33k/vessel-reports/internal/session"
	"github.com/csg33k/vessel-reports/internal/templates"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func contains(t *testing.T, html string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(html, w) {
			t.Errorf("output missing %q", w)
		}
	}
}

func sampleTrip() domain.Trip {
	trip := domain.Trip{
		ID:         "FAJAR-JAKARTA-2024-08-15",
		StartDate:  time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, time.August, 17, 0, 0, 0, 0, time.UTC),
		Purpose:    "Inspeksi <MV> NAZIHA",
		VesselCode: "NZH",
		Costs:      domain.DefaultExpenseAmounts(),
	}
	trip.Costs.Hotel = "1500000"
	return trip
}

// ---------------------------------------------------------------------------
// DocumentationRows
// ---------------------------------------------------------------------------

func TestDocumentationRows(t *testing.T) {
	uploads := map[string][]byte{session.DocumentationKey(2): []byte("img")}
	rows := templates.DocumentationRows(5, uploads, map[string]string{"doc_cap_1": "Hatch cover"})

	want := []templates.DocRow{
		{
			Left:     templates.DocSlot{Index: 0, Key: "doc_img_0", CaptionKey: "doc_cap_0"},
			Right:    templates.DocSlot{Index: 1, Key: "doc_img_1", CaptionKey: "doc_cap_1", Caption: "Hatch cover"},
			HasRight: true,
		},
		{
			Left:     templates.DocSlot{Index: 2, Key: "doc_img_2", CaptionKey: "doc_cap_2", Uploaded: true},
			Right:    templates.DocSlot{Index: 3, Key: "doc_img_3", CaptionKey: "doc_cap_3"},
			HasRight: true,
		},
		{
			Left: templates.DocSlot{Index: 4, Key: "doc_img_4", CaptionKey: "doc_cap_4"},
		},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if got := templates.DocumentationRows(0, nil, nil); len(got) != 0 {
		t.Errorf("zero slots gave %d rows", len(got))
	}
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

func TestIndex(t *testing.T) {
	html := render(t, templates.Index(templates.IndexData{Trips: []domain.Trip{sampleTrip()}}))
	contains(t, html,
		`href="/inspection"`,
		`href="/rbd?trip_id=FAJAR-JAKARTA-2024-08-15"`,
		"15 August 2024",
		"Rp 1.500.000",
		"E-mail belum dikonfigurasi",
	)

	empty := render(t, templates.Index(templates.IndexData{MailEnabled: true}))
	contains(t, empty, "Belum ada data perjalanan dinas.")
	if strings.Contains(empty, "E-mail belum dikonfigurasi") {
		t.Error("mail notice shown while mail is enabled")
	}
}

func TestInspectionForm(t *testing.T) {
	html := render(t, templates.InspectionForm(templates.InspectionData{
		Types:        []string{"Bulk Carrier", "Tug"},
		SelectedType: "Tug",
		Vessels:      []string{"TB ANUGERAH"},
		Today:        "2024-08-15",
		BowPhotoKey:  session.BowPhotoKey,
		BowPhoto:     true,
		Rows:         templates.DocumentationRows(3, nil, nil),
		MailEnabled:  true,
	}))
	contains(t, html,
		`<option value="Tug" selected>Tug</option>`,
		`<option value="TB ANUGERAH">TB ANUGERAH</option>`,
		`value="2024-08-15"`,
		`src="/inspection/uploads/foto_haluan/preview"`,
		`name="doc_img_2"`,
		`name="doc_cap_2"`,
		"Row 3 - Caption",
		`name="email"`,
	)
	if strings.Contains(html, `name="doc_img_3"`) {
		t.Error("rendered more slots than requested")
	}
}

func TestFragments(t *testing.T) {
	opts := render(t, templates.VesselOptions([]string{"MV A", "MV <B>"}))
	if opts != `<option value="MV A">MV A</option><option value="MV &lt;B&gt;">MV &lt;B&gt;</option>` {
		t.Errorf("options = %s", opts)
	}
	rows := render(t, templates.DocRows(templates.DocumentationRows(2, nil, nil)))
	contains(t, rows, `id="doc-rows"`, `name="doc_img_1"`)
}

func TestRBDForm(t *testing.T) {
	trip := sampleTrip()
	html := render(t, templates.RBDForm(templates.RBDData{
		Trip:   &trip,
		Trips:  []domain.Trip{trip},
		Notice: "Data tersimpan",
	}))
	contains(t, html,
		`value="FAJAR-JAKARTA-2024-08-15"`,
		`name="start_date" value="2024-08-15"`,
		`value="Inspeksi &lt;MV&gt; NAZIHA"`,
		`name="hotel_cost" value="1500000"`,
		`name="weekend_transport" value="0"`,
		"N52",
		`formaction="/rbd/save"`,
		"Data tersimpan",
	)
}
