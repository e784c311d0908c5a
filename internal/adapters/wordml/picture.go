package wordml

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

const (
	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	relTypeImage   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relsContent    = "application/vnd.openxmlformats-package.relationships+xml"
)

type relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Items   []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type contentTypes struct {
	XMLName   xml.Name          `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []contentDefault  `xml:"Default"`
	Overrides []contentOverride `xml:"Override"`
}

type contentDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// imageTypes maps the extensions AddImage accepts to their content type.
var imageTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

// loadParts reads the main relationships and content types on first use.
func (d *Document) loadParts() error {
	if d.rels != nil {
		return nil
	}
	rels := &relationships{}
	if f := d.file(partDocumentRels); f != nil {
		raw, err := readFile(f)
		if err != nil {
			return fmt.Errorf("reading %s: %w", partDocumentRels, err)
		}
		if err := xml.Unmarshal(raw, rels); err != nil {
			return fmt.Errorf("parsing %s: %w", partDocumentRels, err)
		}
	} else {
		d.relsDirty = true
	}

	types := &contentTypes{}
	raw, err := readFile(d.file(partContentTypes))
	if err != nil {
		return fmt.Errorf("reading %s: %w", partContentTypes, err)
	}
	if err := xml.Unmarshal(raw, types); err != nil {
		return fmt.Errorf("parsing %s: %w", partContentTypes, err)
	}

	d.rels = rels
	d.types = types
	if d.relsDirty {
		d.ensureDefault("rels", relsContent)
	}
	return nil
}

func (d *Document) ensureDefault(ext, contentType string) {
	for _, def := range d.types.Defaults {
		if strings.EqualFold(def.Extension, ext) {
			return
		}
	}
	d.types.Defaults = append(d.types.Defaults, contentDefault{Extension: ext, ContentType: contentType})
	d.typeDirty = true
}

func (d *Document) hasPart(name string) bool {
	if d.file(name) != nil {
		return true
	}
	for _, m := range d.media {
		if m.name == name {
			return true
		}
	}
	return false
}

func (d *Document) nextRelID() string {
	highest := 0
	for _, r := range d.rels.Items {
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	return "rId" + strconv.Itoa(highest+1)
}

// AddImage stores data as a new media part and returns the relationship id
// that pictures use to reference it. ext is the file extension without the
// dot.
func (d *Document) AddImage(data []byte, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", fmt.Errorf("wordml: unsupported image type %q", ext)
	}
	if err := d.loadParts(); err != nil {
		return "", err
	}

	var name string
	for i := 1; ; i++ {
		name = fmt.Sprintf("word/media/image%d.%s", i, ext)
		if !d.hasPart(name) {
			break
		}
	}
	d.media = append(d.media, mediaPart{name: name, data: data})

	id := d.nextRelID()
	d.rels.Items = append(d.rels.Items, relationship{
		ID:     id,
		Type:   relTypeImage,
		Target: strings.TrimPrefix(name, "word/"),
	})
	d.relsDirty = true
	d.ensureDefault(ext, contentType)
	return id, nil
}

// ImageData returns the bytes of the media part referenced by relID.
func (d *Document) ImageData(relID string) ([]byte, bool) {
	if err := d.loadParts(); err != nil {
		return nil, false
	}
	for _, r := range d.rels.Items {
		if r.ID != relID || r.Type != relTypeImage {
			continue
		}
		name := path.Clean(path.Join("word", r.Target))
		for _, m := range d.media {
			if m.name == name {
				return m.data, true
			}
		}
		if f := d.file(name); f != nil {
			data, err := readFile(f)
			return data, err == nil
		}
	}
	return nil, false
}

func (d *Document) shapeID() int {
	if d.nextShapeID == 0 {
		d.nextShapeID = 1
		d.walk(d.root, func(k NodeID) bool {
			if d.is(k, nsWP, "docPr") {
				if v, ok := d.intAttr(k, "", "id"); ok && int(v) >= d.nextShapeID {
					d.nextShapeID = int(v) + 1
				}
			}
			return true
		})
	}
	id := d.nextShapeID
	d.nextShapeID++
	return id
}

// InlinePicture describes a picture anchored inline in a run.
type InlinePicture struct {
	RelID  string
	Width  Length
	Height Length
}

// AddPicture appends an inline picture of the given extent to the run. The
// picture references an image previously registered with AddImage.
func (r Run) AddPicture(relID string, width, height Length) error {
	d := r.doc
	id := d.shapeID()
	w, wp, a, pic, rel := d.prefix(nsW), d.prefix(nsWP), d.prefix(nsA), d.prefix(nsPic), d.prefix(nsR)
	cx, cy := strconv.FormatInt(int64(width), 10), strconv.FormatInt(int64(height), 10)
	name := "Picture " + strconv.Itoa(id)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<%s:drawing>`, w)
	fmt.Fprintf(&sb, `<%s:inline distT="0" distB="0" distL="0" distR="0">`, wp)
	fmt.Fprintf(&sb, `<%s:extent cx="%s" cy="%s"/>`, wp, cx, cy)
	fmt.Fprintf(&sb, `<%s:docPr id="%d" name="%s"/>`, wp, id, name)
	fmt.Fprintf(&sb, `<%s:cNvGraphicFramePr><%s:graphicFrameLocks noChangeAspect="1"/></%s:cNvGraphicFramePr>`, wp, a, wp)
	fmt.Fprintf(&sb, `<%s:graphic><%s:graphicData uri="%s">`, a, a, nsPic)
	fmt.Fprintf(&sb, `<%s:pic><%s:nvPicPr><%s:cNvPr id="0" name="%s"/><%s:cNvPicPr/></%s:nvPicPr>`, pic, pic, pic, name, pic, pic)
	fmt.Fprintf(&sb, `<%s:blipFill><%s:blip %s:embed="%s"/><%s:stretch><%s:fillRect/></%s:stretch></%s:blipFill>`, pic, a, rel, relID, a, a, a, pic)
	fmt.Fprintf(&sb, `<%s:spPr><%s:xfrm><%s:off x="0" y="0"/><%s:ext cx="%s" cy="%s"/></%s:xfrm>`, pic, a, a, a, cx, cy, a)
	fmt.Fprintf(&sb, `<%s:prstGeom prst="rect"><%s:avLst/></%s:prstGeom></%s:spPr>`, a, a, a, pic)
	fmt.Fprintf(&sb, `</%s:pic></%s:graphicData></%s:graphic></%s:inline></%s:drawing>`, pic, a, a, wp, w)

	nodes, err := d.fragment(sb.String())
	if err != nil {
		return fmt.Errorf("building drawing: %w", err)
	}
	for _, k := range nodes {
		d.appendChild(r.id, k)
	}
	return nil
}

// Pictures returns the inline pictures found anywhere below the node.
func (d *Document) Pictures(n Node) []InlinePicture {
	var out []InlinePicture
	d.walk(n.ID(), func(k NodeID) bool {
		if !d.is(k, nsWP, "inline") {
			return true
		}
		var p InlinePicture
		if ext := d.firstChild(k, nsWP, "extent"); ext != noNode {
			cx, _ := d.intAttr(ext, "", "cx")
			cy, _ := d.intAttr(ext, "", "cy")
			p.Width, p.Height = Length(cx), Length(cy)
		}
		if blip := d.find(k, nsA, "blip"); blip != noNode {
			p.RelID, _ = d.attr(blip, nsR, "embed")
		}
		out = append(out, p)
		return false
	})
	return out
}
