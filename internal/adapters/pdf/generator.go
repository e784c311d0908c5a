// Package pdf generates a printable summary of a business trip's expenses.
// The page shows the trip header, one row per cost line with the workbook
// cell it fills, and the total of every numeric amount.
package pdf

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/csg33k/vessel-reports/internal/domain"
)

// ContentType is the MIME type of the generated summary.
const ContentType = "application/pdf"

// Generator implements ports.ExpenseSummary.
type Generator struct{}

func New() *Generator { return &Generator{} }

func (g *Generator) GenerateTripSummary(ctx context.Context, t *domain.Trip, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return GenerateTripSummary(t, w)
}

// GenerateTripSummary writes a one-page A4 PDF for t to w.
func GenerateTripSummary(t *domain.Trip, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle("Rincian Biaya Dinas "+t.ID, true)

	pdf.AddPage()
	drawTripPage(pdf, t)

	return pdf.Output(w)
}

func drawTripPage(pdf *fpdf.Fpdf, t *domain.Trip) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, pageH := pdf.GetPageSize()
	marginL, marginT, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(20, 50, 90)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, "RINCIAN BIAYA PERJALANAN DINAS", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 7, "Page "+fmt.Sprint(pdf.PageNo())+" of {nb}", "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 13

	// ── Trip section ─────────────────────────────────────────────────────────
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, "DETAIL PERJALANAN DINAS", "LRT", 1, "L", true, 0, "")
	y += 5.5

	colHalf := contentW / 2
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(colHalf, 6.5, tr("ID: "+t.ID), "L", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(colHalf, 6.5, tr("Vessel: "+t.VesselCode), "R", 1, "R", false, 0, "")
	y += 6.5

	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, tr("Tujuan: "+t.Purpose), "LR", 1, "L", false, 0, "")
	y += 5.5
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, "Periode: "+period(t), "LB", 1, "L", false, 0, "")
	y += 5.5 + 5

	// ── Cost table ───────────────────────────────────────────────────────────
	noW := contentW * 0.08
	cellW := contentW * 0.12
	amtW := contentW * 0.30
	descW := contentW - noW - cellW - amtW

	pdf.SetFillColor(20, 50, 90)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(noW, 7, "No.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(descW, 7, "Uraian", "1", 0, "L", true, 0, "")
	pdf.CellFormat(cellW, 7, "Sel", "1", 0, "C", true, 0, "")
	pdf.CellFormat(amtW, 7, "Jumlah", "1", 1, "R", true, 0, "")
	y += 7
	pdf.SetTextColor(0, 0, 0)

	rowH := 6.5
	for i, l := range t.Costs.Lines() {
		pdf.SetXY(marginL, y)
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		amount, numeric := displayAmount(l.Amount)
		if numeric {
			pdf.SetFont("Helvetica", "", 8.5)
		} else {
			pdf.SetFont("Helvetica", "I", 8.5)
		}
		pdf.CellFormat(noW, rowH, fmt.Sprint(i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(descW, rowH, l.Label, "1", 0, "L", true, 0, "")
		pdf.CellFormat(cellW, rowH, l.Cell, "1", 0, "C", true, 0, "")
		pdf.CellFormat(amtW, rowH, tr(amount), "1", 1, "R", true, 0, "")
		y += rowH
	}

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFillColor(220, 235, 220)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(noW+descW+cellW, 7.5, "TOTAL", "1", 0, "R", true, 0, "")
	pdf.CellFormat(amtW, 7.5, FormatRupiah(t.Total()), "1", 1, "R", true, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, "Generated by Vessel Reports", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, tr(t.ID+" | "+t.VesselCode), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders v with Indonesian grouping, e.g. "Rp 1.500.000" or
// "Rp 1.250,50".
func FormatRupiah(v float64) string {
	if v == math.Trunc(v) {
		return rupiah.Sprintf("Rp %.0f", v)
	}
	return rupiah.Sprintf("Rp %.2f", v)
}

// displayAmount formats numeric amounts; other text is shown as typed.
func displayAmount(s string) (string, bool) {
	if v, ok := domain.ParseAmount(s); ok {
		return FormatRupiah(v), true
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "-", false
	}
	return s, false
}

func period(t *domain.Trip) string {
	start, end := t.StartDate.Format(domain.LongDate), t.EndDate.Format(domain.LongDate)
	if start == end {
		return start
	}
	return start + " s/d " + end
}
