package wordml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

const (
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partContentTypes = "[Content_Types].xml"
)

var (
	// ErrMissingPart is returned when a required package part is absent.
	ErrMissingPart = errors.New("wordml: missing package part")
	// ErrNoBody is returned when word/document.xml has no w:body element.
	ErrNoBody = errors.New("wordml: document has no body")
)

// Document is an editable .docx package.
type Document struct {
	files []*zip.File

	nodes    []node
	top      NodeID // holds the prolog and the root element
	root     NodeID // w:document
	body     NodeID // w:body
	ns       map[string]string
	prefixes map[string]string

	rels      *relationships
	relsDirty bool
	types     *contentTypes
	typeDirty bool
	media     []mediaPart

	nextShapeID int
}

type mediaPart struct {
	name string
	data []byte
}

// Open parses a .docx package held in memory.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	d := &Document{
		files:    zr.File,
		ns:       make(map[string]string),
		prefixes: make(map[string]string),
		root:     noNode,
		body:     noNode,
	}

	main := d.file(partDocument)
	if main == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, partDocument)
	}
	if d.file(partContentTypes) == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, partContentTypes)
	}
	raw, err := readFile(main)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", partDocument, err)
	}

	d.top = d.newNode(node{kind: rootNode})
	if err := d.build(d.top, raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", partDocument, err)
	}
	for _, k := range d.nodes[d.top].children {
		if d.nodes[k].kind == elementNode {
			d.root = k
			break
		}
	}
	if d.root == noNode || !d.is(d.root, nsW, "document") {
		return nil, fmt.Errorf("%s: %w", partDocument, ErrNoBody)
	}
	d.body = d.firstChild(d.root, nsW, "body")
	if d.body == noNode {
		return nil, ErrNoBody
	}
	return d, nil
}

// build parses src and appends the resulting nodes under parent. RawToken is
// used so prefixes are kept verbatim; element nesting is checked here since
// RawToken does not do it.
func (d *Document) build(parent NodeID, src []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(src))
	cur := parent
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make([]xml.Attr, len(t.Attr))
			copy(attrs, t.Attr)
			for _, a := range attrs {
				switch {
				case a.Name.Space == "xmlns":
					d.bind(a.Name.Local, a.Value)
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					d.bind("", a.Value)
				}
			}
			id := d.newNode(node{kind: elementNode, name: t.Name, attrs: attrs})
			d.appendChild(cur, id)
			cur = id
		case xml.EndElement:
			if cur == parent || d.nodes[cur].name != t.Name {
				return fmt.Errorf("unexpected end element </%s>", qualified(t.Name))
			}
			cur = d.nodes[cur].parent
		case xml.CharData:
			d.appendChild(cur, d.newNode(node{kind: charDataNode, data: string(t)}))
		case xml.Comment:
			d.appendChild(cur, d.newNode(node{kind: commentNode, data: string(t)}))
		case xml.ProcInst:
			d.appendChild(cur, d.newNode(node{kind: procInstNode, name: xml.Name{Local: t.Target}, data: string(t.Inst)}))
		case xml.Directive:
			d.appendChild(cur, d.newNode(node{kind: directiveNode, data: string(t)}))
		}
	}
	if cur != parent {
		return fmt.Errorf("unclosed element <%s>", qualified(d.nodes[cur].name))
	}
	return nil
}

// fragment parses a snippet of markup into detached top-level nodes.
func (d *Document) fragment(src string) ([]NodeID, error) {
	holder := d.newNode(node{kind: elementNode})
	if err := d.build(holder, []byte(src)); err != nil {
		return nil, err
	}
	kids := append([]NodeID(nil), d.nodes[holder].children...)
	for _, k := range kids {
		d.detach(k)
	}
	return kids, nil
}

func (d *Document) file(name string) *zip.File {
	for _, f := range d.files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Bytes serializes the package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the package as a zip archive to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	wroteRels := false
	for _, f := range d.files {
		var (
			data []byte
			err  error
		)
		switch {
		case f.Name == partDocument:
			data = d.documentXML()
		case f.Name == partDocumentRels && d.relsDirty:
			data, err = marshalPart(d.rels)
			wroteRels = true
		case f.Name == partContentTypes && d.typeDirty:
			data, err = marshalPart(d.types)
		default:
			if err := zw.Copy(f); err != nil {
				return cw.n, fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}
		if err != nil {
			return cw.n, fmt.Errorf("encoding %s: %w", f.Name, err)
		}
		if err := writePart(zw, f.Name, data); err != nil {
			return cw.n, err
		}
	}
	if d.relsDirty && !wroteRels {
		data, err := marshalPart(d.rels)
		if err != nil {
			return cw.n, fmt.Errorf("encoding %s: %w", partDocumentRels, err)
		}
		if err := writePart(zw, partDocumentRels, data); err != nil {
			return cw.n, err
		}
	}
	for _, m := range d.media {
		if err := writePart(zw, m.name, m.data); err != nil {
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	pw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := pw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func marshalPart(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
