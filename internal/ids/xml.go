package ids

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Wire types. The IDS XSD groups facets inside a section by kind
// (entity, partOf, classification, attribute, property, material), so
// the codec groups on export and rebuilds the in-memory list in that
// order on import. XS-namespace elements are emitted with an explicit
// xmlns rather than a prefix; both forms are equivalent to a
// namespace-aware parser.

const xsURI = XSNamespace

type xmlIDS struct {
	XMLName        xml.Name `xml:"ids"`
	Xmlns          string   `xml:"xmlns,attr"`
	SchemaLocation string   `xml:"schemaLocation,attr,omitempty"`
	Info           xmlInfo  `xml:"info"`
	Specifications xmlSpecs `xml:"specifications"`
}

type xmlInfo struct {
	Title       string `xml:"title"`
	Copyright   string `xml:"copyright,omitempty"`
	Version     string `xml:"version,omitempty"`
	Description string `xml:"description,omitempty"`
	Author      string `xml:"author,omitempty"`
	Date        string `xml:"date,omitempty"`
	Purpose     string `xml:"purpose,omitempty"`
	Milestone   string `xml:"milestone,omitempty"`
}

type xmlSpecs struct {
	Specifications []xmlSpec `xml:"specification"`
}

type xmlSpec struct {
	Name          string      `xml:"name,attr"`
	IfcVersion    string      `xml:"ifcVersion,attr"`
	Identifier    string      `xml:"identifier,attr,omitempty"`
	Description   string      `xml:"description,attr,omitempty"`
	Instructions  string      `xml:"instructions,attr,omitempty"`
	Applicability xmlSection  `xml:"applicability"`
	Requirements  *xmlSection `xml:"requirements"`
}

type xmlSection struct {
	MinOccurs string `xml:"minOccurs,attr,omitempty"`
	MaxOccurs string `xml:"maxOccurs,attr,omitempty"`

	Entities        []xmlEntity         `xml:"entity"`
	PartOfs         []xmlPartOf         `xml:"partOf"`
	Classifications []xmlClassification `xml:"classification"`
	Attributes      []xmlAttribute      `xml:"attribute"`
	Properties      []xmlProperty       `xml:"property"`
	Materials       []xmlMaterial       `xml:"material"`
}

type xmlEntity struct {
	Name           xmlValue  `xml:"name"`
	PredefinedType *xmlValue `xml:"predefinedType"`
}

type xmlPartOf struct {
	Relation    string    `xml:"relation,attr,omitempty"`
	Cardinality string    `xml:"cardinality,attr,omitempty"`
	Entity      xmlEntity `xml:"entity"`
}

type xmlClassification struct {
	Cardinality string    `xml:"cardinality,attr,omitempty"`
	Value       *xmlValue `xml:"value"`
	System      *xmlValue `xml:"system"`
}

type xmlAttribute struct {
	Cardinality string    `xml:"cardinality,attr,omitempty"`
	Name        xmlValue  `xml:"name"`
	Value       *xmlValue `xml:"value"`
}

type xmlProperty struct {
	DataType    string    `xml:"dataType,attr,omitempty"`
	Cardinality string    `xml:"cardinality,attr,omitempty"`
	PropertySet xmlValue  `xml:"propertySet"`
	BaseName    xmlValue  `xml:"baseName"`
	Value       *xmlValue `xml:"value"`
}

type xmlMaterial struct {
	Cardinality string    `xml:"cardinality,attr,omitempty"`
	Value       *xmlValue `xml:"value"`
}

type xmlValue struct {
	SimpleValue *string         `xml:"simpleValue"`
	Restriction *xmlRestriction `xml:"http://www.w3.org/2001/XMLSchema restriction"`
}

type xmlRestriction struct {
	Base         string       `xml:"base,attr,omitempty"`
	Enumerations []xmlBounded `xml:"http://www.w3.org/2001/XMLSchema enumeration"`
	Pattern      *xmlBounded  `xml:"http://www.w3.org/2001/XMLSchema pattern"`
	MinInclusive *xmlBounded  `xml:"http://www.w3.org/2001/XMLSchema minInclusive"`
	MaxInclusive *xmlBounded  `xml:"http://www.w3.org/2001/XMLSchema maxInclusive"`
	MinExclusive *xmlBounded  `xml:"http://www.w3.org/2001/XMLSchema minExclusive"`
	MaxExclusive *xmlBounded  `xml:"http://www.w3.org/2001/XMLSchema maxExclusive"`
	Length       *xmlBounded  `xml:"http://www.w3.org/2001/XMLSchema length"`
	MinLength    *xmlBounded  `xml:"http://www.w3.org/2001/XMLSchema minLength"`
	MaxLength    *xmlBounded  `xml:"http://www.w3.org/2001/XMLSchema maxLength"`
}

type xmlBounded struct {
	Value string `xml:"value,attr"`
}

// ─── Export ─────────────────────────────────────────────────────────────────

// ToString serializes the document to indented IDS XML.
func (d *Document) ToString() (string, error) {
	wire := toWire(d)
	data, err := xml.MarshalIndent(wire, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling IDS document: %w", err)
	}
	return xml.Header + string(data) + "\n", nil
}

// ToFile serializes the document to a file, creating parent directories
// as needed.
func (d *Document) ToFile(path string) error {
	text, err := d.ToString()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

func toWire(d *Document) *xmlIDS {
	wire := &xmlIDS{
		Xmlns:          Namespace,
		SchemaLocation: SchemaLocation,
		Info: xmlInfo{
			Title:       d.Info.Title,
			Copyright:   d.Info.Copyright,
			Version:     d.Info.Version,
			Description: d.Info.Description,
			Author:      d.Info.Author,
			Date:        d.Info.Date,
			Purpose:     d.Info.Purpose,
			Milestone:   d.Info.Milestone,
		},
	}
	for _, spec := range d.Specifications {
		ws := xmlSpec{
			Name:          spec.Name,
			IfcVersion:    strings.Join(spec.IFCVersion, " "),
			Identifier:    spec.Identifier,
			Description:   spec.Description,
			Instructions:  spec.Instructions,
			Applicability: sectionToWire(spec.Applicability),
		}
		ws.Applicability.MinOccurs = strconv.Itoa(spec.MinOccurs)
		ws.Applicability.MaxOccurs = spec.MaxOccurs
		if len(spec.Requirements) > 0 {
			req := sectionToWire(spec.Requirements)
			ws.Requirements = &req
		}
		wire.Specifications.Specifications = append(wire.Specifications.Specifications, ws)
	}
	return wire
}

func sectionToWire(facets []Facet) xmlSection {
	var sec xmlSection
	for _, f := range facets {
		switch v := f.(type) {
		case *Entity:
			sec.Entities = append(sec.Entities, entityToWire(v.Name, v.PredefinedType))
		case *PartOf:
			sec.PartOfs = append(sec.PartOfs, xmlPartOf{
				Relation:    v.Relation,
				Cardinality: v.Card,
				Entity:      entityToWire(v.Name, v.PredefinedType),
			})
		case *Classification:
			sec.Classifications = append(sec.Classifications, xmlClassification{
				Cardinality: v.Card,
				Value:       valueToWire(v.Value),
				System:      valueToWire(v.System),
			})
		case *Attribute:
			sec.Attributes = append(sec.Attributes, xmlAttribute{
				Cardinality: v.Card,
				Name:        requiredValueToWire(v.Name),
				Value:       valueToWire(v.Value),
			})
		case *Property:
			sec.Properties = append(sec.Properties, xmlProperty{
				DataType:    v.DataType,
				Cardinality: v.Card,
				PropertySet: requiredValueToWire(v.PropertySet),
				BaseName:    requiredValueToWire(v.BaseName),
				Value:       valueToWire(v.Value),
			})
		case *Material:
			sec.Materials = append(sec.Materials, xmlMaterial{
				Cardinality: v.Card,
				Value:       valueToWire(v.Value),
			})
		}
	}
	return sec
}

func entityToWire(name, predefined Value) xmlEntity {
	return xmlEntity{
		Name:           requiredValueToWire(name),
		PredefinedType: valueToWire(predefined),
	}
}

func requiredValueToWire(v Value) xmlValue {
	if w := valueToWire(v); w != nil {
		return *w
	}
	empty := ""
	return xmlValue{SimpleValue: &empty}
}

func valueToWire(v Value) *xmlValue {
	if v.IsZero() {
		return nil
	}
	if v.Restriction != nil {
		return &xmlValue{Restriction: restrictionToWire(v.Restriction)}
	}
	s := v.Simple
	return &xmlValue{SimpleValue: &s}
}

func restrictionToWire(r *Restriction) *xmlRestriction {
	w := &xmlRestriction{}
	if r.Base != "" {
		w.Base = "xs:" + r.Base
	}
	for _, e := range r.Enumeration {
		w.Enumerations = append(w.Enumerations, xmlBounded{Value: e})
	}
	if r.Pattern != "" {
		w.Pattern = &xmlBounded{Value: r.Pattern}
	}
	w.MinInclusive = floatToWire(r.MinInclusive)
	w.MaxInclusive = floatToWire(r.MaxInclusive)
	w.MinExclusive = floatToWire(r.MinExclusive)
	w.MaxExclusive = floatToWire(r.MaxExclusive)
	w.Length = intToWire(r.Length)
	w.MinLength = intToWire(r.MinLength)
	w.MaxLength = intToWire(r.MaxLength)
	return w
}

func floatToWire(f *float64) *xmlBounded {
	if f == nil {
		return nil
	}
	return &xmlBounded{Value: strconv.FormatFloat(*f, 'f', -1, 64)}
}

func intToWire(i *int) *xmlBounded {
	if i == nil {
		return nil
	}
	return &xmlBounded{Value: strconv.Itoa(*i)}
}

// ─── Import ─────────────────────────────────────────────────────────────────

// Open parses an IDS file. With validate set, schema-level checks run
// after parsing.
func Open(path string, validate bool) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromString(string(data), validate)
}

// FromString parses IDS XML. With validate set, schema-level checks run
// after parsing: root namespace, required info/title, specification
// shape, property-set presence, cardinality tokens.
func FromString(text string, validate bool) (*Document, error) {
	var wire xmlIDS
	if err := xml.Unmarshal([]byte(text), &wire); err != nil {
		return nil, fmt.Errorf("parsing IDS XML: %w", err)
	}
	if wire.XMLName.Local != "ids" {
		return nil, fmt.Errorf("parsing IDS XML: root element is %q, want ids", wire.XMLName.Local)
	}
	doc := fromWire(&wire)
	if validate {
		if err := checkSchema(&wire, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func fromWire(wire *xmlIDS) *Document {
	doc := &Document{
		Info: Info{
			Title:       wire.Info.Title,
			Copyright:   wire.Info.Copyright,
			Version:     wire.Info.Version,
			Description: wire.Info.Description,
			Author:      wire.Info.Author,
			Date:        wire.Info.Date,
			Purpose:     wire.Info.Purpose,
			Milestone:   wire.Info.Milestone,
		},
	}
	for _, ws := range wire.Specifications.Specifications {
		spec := &Specification{
			Name:         ws.Name,
			Identifier:   ws.Identifier,
			Description:  ws.Description,
			Instructions: ws.Instructions,
			IFCVersion:   strings.Fields(ws.IfcVersion),
			MaxOccurs:    Unbounded,
		}
		if ws.Applicability.MinOccurs != "" {
			if n, err := strconv.Atoi(ws.Applicability.MinOccurs); err == nil {
				spec.MinOccurs = n
			}
		}
		if ws.Applicability.MaxOccurs != "" {
			spec.MaxOccurs = ws.Applicability.MaxOccurs
		}
		spec.Applicability = sectionFromWire(&ws.Applicability)
		if ws.Requirements != nil {
			spec.Requirements = sectionFromWire(ws.Requirements)
		}
		doc.Specifications = append(doc.Specifications, spec)
	}
	return doc
}

func sectionFromWire(sec *xmlSection) []Facet {
	var facets []Facet
	for _, e := range sec.Entities {
		facets = append(facets, &Entity{
			Name:           valueFromWire(&e.Name),
			PredefinedType: valueFromWire(e.PredefinedType),
		})
	}
	for _, p := range sec.PartOfs {
		facets = append(facets, &PartOf{
			Name:           valueFromWire(&p.Entity.Name),
			PredefinedType: valueFromWire(p.Entity.PredefinedType),
			Relation:       p.Relation,
			Card:           p.Cardinality,
		})
	}
	for _, c := range sec.Classifications {
		facets = append(facets, &Classification{
			Value:  valueFromWire(c.Value),
			System: valueFromWire(c.System),
			Card:   c.Cardinality,
		})
	}
	for _, a := range sec.Attributes {
		facets = append(facets, &Attribute{
			Name:  valueFromWire(&a.Name),
			Value: valueFromWire(a.Value),
			Card:  a.Cardinality,
		})
	}
	for _, p := range sec.Properties {
		facets = append(facets, &Property{
			PropertySet: valueFromWire(&p.PropertySet),
			BaseName:    valueFromWire(&p.BaseName),
			Value:       valueFromWire(p.Value),
			DataType:    p.DataType,
			Card:        p.Cardinality,
		})
	}
	for _, m := range sec.Materials {
		facets = append(facets, &Material{
			Value: valueFromWire(m.Value),
			Card:  m.Cardinality,
		})
	}
	return facets
}

func valueFromWire(w *xmlValue) Value {
	if w == nil {
		return Value{}
	}
	if w.Restriction != nil {
		return Value{Restriction: restrictionFromWire(w.Restriction)}
	}
	if w.SimpleValue != nil {
		return Value{Simple: *w.SimpleValue}
	}
	return Value{}
}

func restrictionFromWire(w *xmlRestriction) *Restriction {
	r := &Restriction{Base: NormalizeBaseType(w.Base)}
	for _, e := range w.Enumerations {
		r.Enumeration = append(r.Enumeration, e.Value)
	}
	if w.Pattern != nil {
		r.Pattern = w.Pattern.Value
	}
	r.MinInclusive = floatFromWire(w.MinInclusive)
	r.MaxInclusive = floatFromWire(w.MaxInclusive)
	r.MinExclusive = floatFromWire(w.MinExclusive)
	r.MaxExclusive = floatFromWire(w.MaxExclusive)
	r.Length = intFromWire(w.Length)
	r.MinLength = intFromWire(w.MinLength)
	r.MaxLength = intFromWire(w.MaxLength)
	return r
}

func floatFromWire(b *xmlBounded) *float64 {
	if b == nil {
		return nil
	}
	f, err := strconv.ParseFloat(b.Value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func intFromWire(b *xmlBounded) *int {
	if b == nil {
		return nil
	}
	n, err := strconv.Atoi(b.Value)
	if err != nil {
		return nil
	}
	return &n
}

// ─── Schema checks ──────────────────────────────────────────────────────────

// checkSchema applies the IDS 1.0 XSD-level rules the codec can verify
// without the schema file itself. Structural advisory rules (at least
// one specification, at least one applicability facet) are deliberately
// not schema failures — the XSD tolerates both, and the validation
// aggregator reports them separately.
func checkSchema(wire *xmlIDS, doc *Document) error {
	if wire.XMLName.Space != Namespace {
		return fmt.Errorf("schema: root element namespace is %q, want %q", wire.XMLName.Space, Namespace)
	}
	if doc.Info.Title == "" {
		return fmt.Errorf("schema: missing required element info/title")
	}
	for i, spec := range doc.Specifications {
		label := spec.Name
		if label == "" {
			label = fmt.Sprintf("specification %d", i)
		}
		if len(spec.IFCVersion) == 0 {
			return fmt.Errorf("schema: %s: missing required attribute ifcVersion", label)
		}
		for _, section := range [][]Facet{spec.Applicability, spec.Requirements} {
			for _, f := range section {
				if err := checkFacet(f, label); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkFacet(f Facet, specLabel string) error {
	if c := f.Cardinality(); c != "" && !ValidCardinality(c) {
		return fmt.Errorf("schema: %s: invalid cardinality %q on %s facet", specLabel, c, f.Kind())
	}
	switch v := f.(type) {
	case *Entity:
		if v.Name.IsZero() {
			return fmt.Errorf("schema: %s: entity facet has no name", specLabel)
		}
	case *Property:
		if v.PropertySet.IsZero() {
			return fmt.Errorf("schema: %s: property facet has no propertySet", specLabel)
		}
		if v.BaseName.IsZero() {
			return fmt.Errorf("schema: %s: property facet has no baseName", specLabel)
		}
	case *Attribute:
		if v.Name.IsZero() {
			return fmt.Errorf("schema: %s: attribute facet has no name", specLabel)
		}
	case *PartOf:
		if v.Name.IsZero() {
			return fmt.Errorf("schema: %s: partOf facet has no parent entity name", specLabel)
		}
	}
	return nil
}
