package wordml

import (
	"bytes"
	"encoding/xml"
)

// documentXML renders the arena back to markup. Only nodes reachable from
// the top node are written.
func (d *Document) documentXML() []byte {
	var b bytes.Buffer
	for _, k := range d.nodes[d.top].children {
		d.writeNode(&b, k)
	}
	return b.Bytes()
}

func (d *Document) writeNode(b *bytes.Buffer, id NodeID) {
	n := &d.nodes[id]
	switch n.kind {
	case charDataNode:
		escape(b, n.data, false)
	case commentNode:
		b.WriteString("<!--")
		b.WriteString(n.data)
		b.WriteString("-->")
	case procInstNode:
		b.WriteString("<?")
		b.WriteString(n.name.Local)
		if n.data != "" {
			b.WriteByte(' ')
			b.WriteString(n.data)
		}
		b.WriteString("?>")
	case directiveNode:
		b.WriteString("<!")
		b.WriteString(n.data)
		b.WriteByte('>')
	case elementNode:
		b.WriteByte('<')
		b.WriteString(qualified(n.name))
		for _, a := range n.attrs {
			b.WriteByte(' ')
			b.WriteString(qualified(a.Name))
			b.WriteString(`="`)
			escape(b, a.Value, true)
			b.WriteByte('"')
		}
		if len(n.children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, k := range n.children {
			d.writeNode(b, k)
		}
		b.WriteString("</")
		b.WriteString(qualified(n.name))
		b.WriteByte('>')
	}
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func escape(b *bytes.Buffer, s string, attr bool) {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			if !attr {
				continue
			}
			esc = "&quot;"
		case '\t':
			if !attr {
				continue
			}
			esc = "&#x9;"
		case '\n':
			if !attr {
				continue
			}
			esc = "&#xA;"
		case '\r':
			esc = "&#xD;"
		default:
			if s[i] >= 0x20 {
				continue
			}
			// Control characters are not allowed in XML 1.0.
		}
		b.WriteString(s[last:i])
		b.WriteString(esc)
		last = i + 1
	}
	b.WriteString(s[last:])
}
