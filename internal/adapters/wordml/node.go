package wordml

import (
	"encoding/xml"
	"strconv"
)

// XML namespaces used by the main document part.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsXML = "http://www.w3.org/XML/1998/namespace"
)

// NodeID indexes a node in a Document's arena.
type NodeID int32

// noNode marks a missing parent or lookup miss.
const noNode NodeID = -1

type nodeKind uint8

const (
	rootNode nodeKind = iota
	elementNode
	charDataNode
	commentNode
	procInstNode
	directiveNode
)

// node is one arena slot. For elements name.Space holds the prefix as
// written in the source, not the namespace URI.
type node struct {
	kind     nodeKind
	name     xml.Name
	attrs    []xml.Attr
	data     string
	parent   NodeID
	children []NodeID
}

func (d *Document) newNode(n node) NodeID {
	n.parent = noNode
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

func (d *Document) appendChild(parent, child NodeID) {
	d.nodes[child].parent = parent
	d.nodes[parent].children = append(d.nodes[parent].children, child)
}

func (d *Document) insertChild(parent NodeID, index int, child NodeID) {
	kids := d.nodes[parent].children
	if index < 0 || index >= len(kids) {
		d.appendChild(parent, child)
		return
	}
	kids = append(kids, noNode)
	copy(kids[index+1:], kids[index:])
	kids[index] = child
	d.nodes[parent].children = kids
	d.nodes[child].parent = parent
}

// detach unlinks id from its parent. The slot stays in the arena but is no
// longer reachable from the root and is never serialized.
func (d *Document) detach(id NodeID) {
	parent := d.nodes[id].parent
	if parent == noNode {
		return
	}
	kids := d.nodes[parent].children
	for i, k := range kids {
		if k == id {
			d.nodes[parent].children = append(kids[:i:i], kids[i+1:]...)
			break
		}
	}
	d.nodes[id].parent = noNode
}

func (d *Document) indexInParent(id NodeID) int {
	parent := d.nodes[id].parent
	if parent == noNode {
		return -1
	}
	for i, k := range d.nodes[parent].children {
		if k == id {
			return i
		}
	}
	return -1
}

// is reports whether id is an element with the given namespace and local name.
func (d *Document) is(id NodeID, ns, local string) bool {
	n := &d.nodes[id]
	return n.kind == elementNode && n.name.Local == local && d.namespace(n.name.Space) == ns
}

func (d *Document) namespace(prefix string) string {
	if prefix == "xml" {
		return nsXML
	}
	return d.ns[prefix]
}

func (d *Document) children(id NodeID, ns, local string) []NodeID {
	var out []NodeID
	for _, k := range d.nodes[id].children {
		if d.is(k, ns, local) {
			out = append(out, k)
		}
	}
	return out
}

func (d *Document) firstChild(id NodeID, ns, local string) NodeID {
	for _, k := range d.nodes[id].children {
		if d.is(k, ns, local) {
			return k
		}
	}
	return noNode
}

// walk visits id and its descendants in document order until fn returns false.
func (d *Document) walk(id NodeID, fn func(NodeID) bool) bool {
	if !fn(id) {
		return false
	}
	for _, k := range d.nodes[id].children {
		if !d.walk(k, fn) {
			return false
		}
	}
	return true
}

// find returns the first element below (and including) id matching ns/local.
func (d *Document) find(id NodeID, ns, local string) NodeID {
	found := noNode
	d.walk(id, func(k NodeID) bool {
		if d.is(k, ns, local) {
			found = k
			return false
		}
		return true
	})
	return found
}

func (d *Document) attr(id NodeID, ns, local string) (string, bool) {
	for _, a := range d.nodes[id].attrs {
		if a.Name.Local != local {
			continue
		}
		if ns == "" && a.Name.Space == "" {
			return a.Value, true
		}
		if a.Name.Space != "" && a.Name.Space != "xmlns" && d.namespace(a.Name.Space) == ns {
			return a.Value, true
		}
	}
	return "", false
}

func (d *Document) intAttr(id NodeID, ns, local string) (int64, bool) {
	v, ok := d.attr(id, ns, local)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// Some producers write fractional twips.
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return 0, false
		}
		n = int64(f)
	}
	return n, true
}

func (d *Document) setAttr(id NodeID, ns, local, value string) {
	attrs := d.nodes[id].attrs
	for i, a := range attrs {
		if a.Name.Local == local && a.Name.Space != "xmlns" && d.namespace(a.Name.Space) == ns {
			attrs[i].Value = value
			return
		}
	}
	d.nodes[id].attrs = append(attrs, xml.Attr{Name: xml.Name{Space: d.prefix(ns), Local: local}, Value: value})
}

// element creates a detached element in namespace ns. attrs alternate
// local name and value; attribute names share the element's namespace.
func (d *Document) element(ns, local string, attrs ...string) NodeID {
	prefix := d.prefix(ns)
	n := node{kind: elementNode, name: xml.Name{Space: prefix, Local: local}}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.attrs = append(n.attrs, xml.Attr{Name: xml.Name{Space: prefix, Local: attrs[i]}, Value: attrs[i+1]})
	}
	return d.newNode(n)
}

func (d *Document) text(value string) NodeID {
	return d.newNode(node{kind: charDataNode, data: value})
}

// ensureChild returns the first ns/local child of parent, inserting one at
// index when missing.
func (d *Document) ensureChild(parent NodeID, ns, local string, index int) NodeID {
	if k := d.firstChild(parent, ns, local); k != noNode {
		return k
	}
	k := d.element(ns, local)
	d.insertChild(parent, index, k)
	return k
}

// insertOrdered adds child to parent before the first existing child whose
// local name is listed in after. Property containers (pPr, tcPr) are
// order-sensitive in the schema.
func (d *Document) insertOrdered(parent, child NodeID, after ...string) {
	for i, k := range d.nodes[parent].children {
		n := &d.nodes[k]
		if n.kind != elementNode || d.namespace(n.name.Space) != nsW {
			continue
		}
		for _, name := range after {
			if n.name.Local == name {
				d.insertChild(parent, i, child)
				return
			}
		}
	}
	d.appendChild(parent, child)
}

// prefix returns the prefix bound to ns, declaring the conventional one on
// the root element when the template never bound it.
func (d *Document) prefix(ns string) string {
	if ns == nsXML {
		return "xml"
	}
	if p, ok := d.prefixes[ns]; ok {
		return p
	}
	want := conventionalPrefix(ns)
	p := want
	for i := 1; ; i++ {
		if _, taken := d.ns[p]; !taken {
			break
		}
		p = want + strconv.Itoa(i)
	}
	d.bind(p, ns)
	if d.root != noNode {
		d.nodes[d.root].attrs = append(d.nodes[d.root].attrs, xml.Attr{Name: xml.Name{Space: "xmlns", Local: p}, Value: ns})
	}
	return p
}

func (d *Document) bind(prefix, ns string) {
	if _, ok := d.ns[prefix]; !ok {
		d.ns[prefix] = ns
	}
	if _, ok := d.prefixes[ns]; !ok {
		d.prefixes[ns] = prefix
	}
}

func conventionalPrefix(ns string) string {
	switch ns {
	case nsW:
		return "w"
	case nsR:
		return "r"
	case nsWP:
		return "wp"
	case nsA:
		return "a"
	case nsPic:
		return "pic"
	}
	return "ns"
}
