// Package rbd fills the travel-expense workbook ("Rincian Biaya Dinas")
// from a saved trip.
package rbd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/csg33k/vessel-reports/internal/domain"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Header cells of the template.
const (
	CellStartDate  = "D11"
	CellEndDate    = "H11"
	CellPurpose    = "C13"
	CellVesselCode = "F13"
	CellSignature  = "A58"
)

type cellValue struct {
	cell  string
	value any
}

// Generator implements ports.ExpenseGenerator.
type Generator struct {
	signPlace string
}

// New returns a generator that signs the sheet at signPlace.
func New(signPlace string) *Generator {
	if signPlace == "" {
		signPlace = "Jakarta"
	}
	return &Generator{signPlace: signPlace}
}

// Generate writes the trip into the template's active sheet and streams the
// workbook to w.
func (g *Generator) Generate(ctx context.Context, template []byte, t *domain.Trip, signedOn time.Time, w io.Writer) error {
	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return fmt.Errorf("loading RBD template: %w: %w", domain.ErrInvalidTemplate, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return fmt.Errorf("loading RBD template: %w: no worksheet found", domain.ErrInvalidTemplate)
	}

	values := []cellValue{
		{CellStartDate, t.StartDate.Format(domain.ShortDate)},
		{CellEndDate, t.EndDate.Format(domain.ShortDate)},
		{CellPurpose, t.Purpose},
		{CellVesselCode, t.VesselCode},
	}
	for _, l := range t.Costs.Lines() {
		values = append(values, cellValue{l.Cell, amountValue(l.Amount)})
	}
	values = append(values, cellValue{CellSignature, g.signPlace + "," + signedOn.Format(domain.LongDate)})

	for _, v := range values {
		if err := f.SetCellValue(sheet, v.cell, v.value); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, v.cell, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing RBD workbook: %w", err)
	}
	return nil
}

// amountValue stores numeric amounts as numbers so the template's formulas
// can total them; anything else is kept as typed.
func amountValue(s string) any {
	if v, ok := domain.ParseAmount(s); ok {
		return v
	}
	return strings.TrimSpace(s)
}

// FileName returns "RBD_<vessel code>_2006.01.02.xlsx" for the trip start.
func FileName(t *domain.Trip) string {
	return fmt.Sprintf("RBD_%s_%s.xlsx", t.VesselCode, t.StartDate.Format(domain.FileDate))
}
