package inspection

import (
	"log/slog"
	"strings"

	"github.com/csg33k/vessel-reports/internal/adapters/imaging"
	"github.com/csg33k/vessel-reports/internal/adapters/wordml"
	"github.com/csg33k/vessel-reports/internal/domain"
)

// Sizing selects how InsertImage scales a picture.
type Sizing int

const (
	// SizingAdaptive fills the estimated cell width and keeps the aspect ratio.
	SizingAdaptive Sizing = iota
	// SizingFixed forces FixedWidth × FixedHeight.
	SizingFixed
)

// InvalidImageMarker replaces the cell text when an upload cannot be decoded.
const InvalidImageMarker = "[Invalid image]"

// Picture size used by SizingFixed: 3in × 2.25in.
const (
	FixedWidth  = 3 * wordml.Inch
	FixedHeight = wordml.Inch * 9 / 4
)

// InsertImage places data as a picture in cell. Empty data leaves the cell
// untouched. Bytes that do not decode set the cell text to
// InvalidImageMarker; that is not reported as an error.
func InsertImage(doc *wordml.Document, cell wordml.Cell, table wordml.Table, data []byte, mode Sizing) {
	if len(data) == 0 {
		return
	}
	pic, err := imaging.Inspect(data)
	if err != nil {
		slog.Warn("image rejected", "err", err)
		cell.SetText(InvalidImageMarker)
		return
	}

	// Width is measured before the cell content changes.
	width, height := FixedWidth, FixedHeight
	if mode == SizingAdaptive {
		width = doc.EstimatedCellWidth(cell, table)
		height = wordml.Length(float64(width) * pic.AspectRatio())
	}

	relID, err := doc.AddImage(pic.Data, pic.Ext)
	if err != nil {
		slog.Warn("image not embedded", "err", err)
		cell.SetText(InvalidImageMarker)
		return
	}

	cell.SetText("")
	p := cell.Paragraphs()[0]
	p.SetAlignment(wordml.AlignCenter)
	if err := p.AddRun("").AddPicture(relID, width, height); err != nil {
		slog.Warn("picture not placed", "err", err)
		cell.SetText(InvalidImageMarker)
	}
}

// galleryItems drops items with neither image nor caption, unless that
// would leave nothing, in which case the input is returned as is.
func galleryItems(items []domain.DocumentationItem) []domain.DocumentationItem {
	kept := make([]domain.DocumentationItem, 0, len(items))
	for _, it := range items {
		if !it.IsEmpty() {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return items
	}
	return kept
}

// BuildGalleryTable replaces token with a two-column table of images and
// captions. Each pair of items takes two rows: images on top, captions
// below. When no paragraph holds token the table goes at the end of the
// body.
func BuildGalleryTable(doc *wordml.Document, token string, items []domain.DocumentationItem) wordml.Table {
	anchor, ok := doc.FindParagraphContaining(token)
	if !ok {
		anchor = doc.AddParagraph()
	}
	wordml.ReplaceInParagraph(anchor, token, "")

	items = galleryItems(items)
	gridRows := max(1, (len(items)+1)/2)

	table := doc.InsertTableAfter(anchor, gridRows*2, 2, doc.UsablePageWidth()/2)
	centerAll(table)

	for r := 0; r < gridRows; r++ {
		for c := 0; c < 2; c++ {
			imageCell, _ := table.Cell(r*2, c)
			captionCell, _ := table.Cell(r*2+1, c)

			idx := r*2 + c
			if idx >= len(items) {
				setCentered(imageCell, "")
				setCentered(captionCell, "")
				continue
			}
			item := items[idx]
			if len(item.Image) > 0 {
				InsertImage(doc, imageCell, table, item.Image, SizingFixed)
			} else {
				setCentered(imageCell, "")
			}
			setCentered(captionCell, strings.TrimSpace(item.Caption))
		}
	}
	return table
}

func setCentered(cell wordml.Cell, text string) {
	cell.SetText(text)
	for _, p := range cell.Paragraphs() {
		p.SetAlignment(wordml.AlignCenter)
	}
}

func centerAll(t wordml.Table) {
	for _, row := range t.Rows() {
		for _, c := range row.Cells() {
			for _, p := range c.Paragraphs() {
				p.SetAlignment(wordml.AlignCenter)
			}
		}
	}
}
