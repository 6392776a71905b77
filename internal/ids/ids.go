// Package ids implements the buildingSMART IDS 1.0 document model:
// document metadata, ordered specifications, the closed facet set, and
// value restrictions, with an XML codec for the
// http://standards.buildingsmart.org/IDS namespace.
//
// The package is deliberately narrow: construct, append, serialize,
// parse. Mutation rules (entity cardinality, mandatory property sets)
// live in internal/builder, not here.
package ids

// Namespace is the IDS 1.0 XML namespace.
const Namespace = "http://standards.buildingsmart.org/IDS"

// XSNamespace is the XML Schema namespace used by restrictions.
const XSNamespace = "http://www.w3.org/2001/XMLSchema"

// SchemaLocation is the published location of the IDS 1.0 XSD.
const SchemaLocation = "http://standards.buildingsmart.org/IDS http://standards.buildingsmart.org/IDS/1.0/ids.xsd"

// Unbounded is the maxOccurs token for "no upper bound".
const Unbounded = "unbounded"

// Info is the document metadata block. Title is the only field the
// format requires.
type Info struct {
	Title       string
	Copyright   string
	Version     string
	Description string
	Author      string
	Date        string
	Purpose     string
	Milestone   string
}

// Document is one IDS document: metadata plus an ordered sequence of
// specifications. Order is significant — export preserves it and facet
// addressing is positional.
type Document struct {
	Info           Info
	Specifications []*Specification
}

// New creates a document with the given metadata.
func New(info Info) *Document {
	return &Document{Info: info}
}

// Specification is one requirement block: the entities it applies to
// and the constraints those entities must satisfy.
type Specification struct {
	Name         string
	Identifier   string
	Description  string
	Instructions string

	// IFCVersion holds recognized version tokens, e.g. "IFC4".
	IFCVersion []string

	MinOccurs int
	// MaxOccurs is a decimal string or Unbounded.
	MaxOccurs string

	Applicability []Facet
	Requirements  []Facet
}

// Section returns the named facet list, ok=false for anything other
// than "applicability" or "requirements".
func (s *Specification) Section(location string) ([]Facet, bool) {
	switch location {
	case "applicability":
		return s.Applicability, true
	case "requirements":
		return s.Requirements, true
	}
	return nil, false
}

// Append adds a facet to the named section. The location must already
// be validated by the caller.
func (s *Specification) Append(location string, f Facet) {
	if location == "applicability" {
		s.Applicability = append(s.Applicability, f)
		return
	}
	s.Requirements = append(s.Requirements, f)
}
