// Package inspection renders vessel inspection reports from a .docx
// template.
package inspection

import (
	"context"
	"fmt"
	"io"

	"github.com/csg33k/vessel-reports/internal/adapters/wordml"
	"github.com/csg33k/vessel-reports/internal/domain"
)

// Template tokens.
const (
	TokenVessel        = "*VESSEL*"
	TokenIMO           = "*IMO*"
	TokenType          = "*TYPE*"
	TokenCallSign      = "*CALLSIGN*"
	TokenPlaceDate     = "*PLACEDATE*"
	TokenMaster        = "*MASTER*"
	TokenSurveyor      = "*SURVEYOR*"
	TokenBowPhoto      = "*FOTOHALUAN*"
	TokenDocumentation = "*DOKUMENTASI*"
)

// ContentType is the MIME type of the generated report.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Generator implements ports.InspectionGenerator.
type Generator struct{}

func New() *Generator { return &Generator{} }

// Generate fills template with r and writes the finished document to w.
func (g *Generator) Generate(ctx context.Context, template []byte, r *domain.InspectionReport, w io.Writer) error {
	doc, err := wordml.Open(template)
	if err != nil {
		return fmt.Errorf("loading inspection template: %w: %w", domain.ErrInvalidTemplate, err)
	}

	for _, f := range []struct{ token, value string }{
		{TokenVessel, r.Vessel},
		{TokenIMO, r.IMO},
		{TokenType, r.VesselType},
		{TokenCallSign, r.CallSign},
		{TokenPlaceDate, r.PlaceDate()},
		{TokenMaster, r.Master},
		{TokenSurveyor, r.Surveyor},
	} {
		doc.ReplaceEverywhere(f.token, f.value)
	}

	if len(r.BowPhoto) > 0 {
		if m, ok := doc.FindCellContaining(TokenBowPhoto); ok {
			InsertImage(doc, m.Cell, m.Table, r.BowPhoto, SizingAdaptive)
		}
	}
	doc.ReplaceEverywhere(TokenBowPhoto, "")

	if err := ctx.Err(); err != nil {
		return err
	}
	BuildGalleryTable(doc, TokenDocumentation, r.Documentation)

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing inspection report: %w", err)
	}
	return nil
}

// FileName returns "2006.01.02 <vessel> Inspection Report.docx".
func FileName(r *domain.InspectionReport) string {
	return fmt.Sprintf("%s %s Inspection Report.docx", r.SurveyDate.Format(domain.FileDate), r.Vessel)
}

// EmailSubject and EmailBody are the texts of the delivery e-mail.
func EmailSubject(r *domain.InspectionReport) string {
	return "Laporan Inspeksi: " + r.Vessel
}

func EmailBody(r *domain.InspectionReport) string {
	return fmt.Sprintf("Terlampir laporan inspeksi kapal %s dalam format DOCX.", r.Vessel)
}
