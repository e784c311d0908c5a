// Package wordml loads, edits and re-serializes WordprocessingML (.docx)
// packages.
//
// The main document part is held as an arena: a Document owns a flat slice
// of nodes and every node refers to its parent and children by NodeID. The
// typed views Paragraph, Run, Table, Row and Cell are small value types
// (document pointer + NodeID) and can be copied freely. Element prefixes are
// kept exactly as they appear in the template so that namespace declarations
// and mc:Ignorable lists survive a round trip untouched.
//
// Parts other than word/document.xml, its relationships and
// [Content_Types].xml are copied to the output byte for byte.
package wordml
