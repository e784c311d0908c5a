// Package wordmltest builds minimal .docx packages for tests.
package wordmltest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// Namespace declarations a Word-produced document.xml root usually carries.
const Namespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`

// SectionLetter is a US Letter section with one-inch side margins
// (6.5in usable).
const SectionLetter = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
	`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`

// SectionA4 is an A4 section with 1.25in side margins (8306 twips usable).
const SectionA4 = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
	`<w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800"/></w:sectPr>`

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const styles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`

// Docx returns a package whose body is the given WordprocessingML markup.
func Docx(body string) []byte {
	return Package(map[string]string{
		"[Content_Types].xml":          contentTypes,
		"_rels/.rels":                  packageRels,
		"word/_rels/document.xml.rels": documentRels,
		"word/styles.xml":              styles,
		"word/document.xml":            Document(body),
	})
}

// Document wraps body markup in a w:document root.
func Document(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<w:document ` + Namespaces + `><w:body>` + body + `</w:body></w:document>`
}

// Package zips the given parts in a stable order.
func Package(parts map[string]string) []byte {
	order := []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/_rels/document.xml.rels", "word/styles.xml"}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			panic(fmt.Sprintf("wordmltest: %v", err))
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(fmt.Sprintf("wordmltest: %v", err))
		}
	}
	seen := map[string]bool{}
	for _, name := range order {
		if content, ok := parts[name]; ok {
			write(name, content)
			seen[name] = true
		}
	}
	for name, content := range parts {
		if !seen[name] {
			write(name, content)
		}
	}
	if err := zw.Close(); err != nil {
		panic(fmt.Sprintf("wordmltest: %v", err))
	}
	return buf.Bytes()
}

// P is a paragraph with one run per text argument.
func P(texts ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	for _, t := range texts {
		sb.WriteString(`<w:r><w:t xml:space="preserve">`)
		sb.WriteString(t)
		sb.WriteString("</w:t></w:r>")
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

// Table is a table without a grid; each row lists its cells' text.
func Table(rows ...[]string) string {
	return table("", rows)
}

// GridTable is a table whose w:tblGrid holds the given widths in twips.
func GridTable(widths []int, rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString("<w:tblGrid>")
	for _, w := range widths {
		fmt.Fprintf(&sb, `<w:gridCol w:w="%d"/>`, w)
	}
	sb.WriteString("</w:tblGrid>")
	return table(sb.String(), rows)
}

func table(grid string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>`)
	sb.WriteString(grid)
	for _, row := range rows {
		sb.WriteString("<w:tr>")
		for _, cell := range row {
			sb.WriteString("<w:tc>")
			sb.WriteString(P(cell))
			sb.WriteString("</w:tc>")
		}
		sb.WriteString("</w:tr>")
	}
	sb.WriteString("</w:tbl>")
	return sb.String()
}
