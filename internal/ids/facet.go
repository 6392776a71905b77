package ids

// FacetKind tags the closed set of facet variants defined by IDS 1.0.
type FacetKind int

const (
	EntityFacet FacetKind = iota
	PropertyFacet
	AttributeFacet
	ClassificationFacet
	MaterialFacet
	PartOfFacet
)

// String returns the wire name of the facet kind.
func (k FacetKind) String() string {
	switch k {
	case EntityFacet:
		return "entity"
	case PropertyFacet:
		return "property"
	case AttributeFacet:
		return "attribute"
	case ClassificationFacet:
		return "classification"
	case MaterialFacet:
		return "material"
	case PartOfFacet:
		return "partOf"
	default:
		return "unknown"
	}
}

// Cardinality values for facets in a requirements section.
const (
	CardinalityRequired   = "required"
	CardinalityOptional   = "optional"
	CardinalityProhibited = "prohibited"
)

// ValidCardinality reports whether c is a recognized cardinality token.
func ValidCardinality(c string) bool {
	return c == CardinalityRequired || c == CardinalityOptional || c == CardinalityProhibited
}

// Value is a facet parameter: either a plain string or a restriction.
// At most one of the two is set.
type Value struct {
	Simple      string
	Restriction *Restriction
}

// SimpleValue wraps a plain string parameter.
func SimpleValue(s string) Value {
	return Value{Simple: s}
}

// IsZero reports whether the parameter is unset.
func (v Value) IsZero() bool {
	return v.Simple == "" && v.Restriction == nil
}

// Text returns the plain string form of the value. Restrictions render
// as their summary string.
func (v Value) Text() string {
	if v.Restriction != nil {
		return v.Restriction.Summary()
	}
	return v.Simple
}

// Outcome records per-requirement model-check bookkeeping, filled in by
// internal/ifc when a document is run against a model.
type Outcome struct {
	PassedEntities []string
	FailedEntities []string
}

// Reset clears a previous run's bookkeeping.
func (o *Outcome) Reset() {
	o.PassedEntities = nil
	o.FailedEntities = nil
}

// Facet is the closed tagged-variant type over the six IDS facet kinds.
// Param exposes the variant's named parameters so restriction code can
// dispatch on the tag without reflection.
type Facet interface {
	Kind() FacetKind
	// Param returns a pointer to the named parameter, or nil if the
	// variant has no such parameter. Names follow the IDS wire form
	// ("name", "predefinedType", "propertySet", "baseName", "value",
	// "system", "relation").
	Param(name string) *Value
	// Cardinality returns the facet-level cardinality tag, empty for
	// facets in an applicability section.
	Cardinality() string
	Result() *Outcome
}

// Entity selects model elements by IFC class and optional predefined type.
type Entity struct {
	Name           Value
	PredefinedType Value
	Outcome        Outcome
}

func (e *Entity) Kind() FacetKind { return EntityFacet }

func (e *Entity) Param(name string) *Value {
	switch name {
	case "name":
		return &e.Name
	case "predefinedType":
		return &e.PredefinedType
	}
	return nil
}

// Cardinality is always empty: IDS gives entity facets no cardinality,
// even in requirements.
func (e *Entity) Cardinality() string { return "" }

func (e *Entity) Result() *Outcome { return &e.Outcome }

// Property constrains a property in a named property set.
type Property struct {
	PropertySet Value
	BaseName    Value
	Value       Value
	DataType    string
	Card        string
	Outcome     Outcome
}

func (p *Property) Kind() FacetKind { return PropertyFacet }

func (p *Property) Param(name string) *Value {
	switch name {
	case "propertySet":
		return &p.PropertySet
	case "baseName":
		return &p.BaseName
	case "value":
		return &p.Value
	}
	return nil
}

func (p *Property) Cardinality() string { return p.Card }

func (p *Property) Result() *Outcome { return &p.Outcome }

// Attribute constrains a direct IFC attribute.
type Attribute struct {
	Name    Value
	Value   Value
	Card    string
	Outcome Outcome
}

func (a *Attribute) Kind() FacetKind { return AttributeFacet }

func (a *Attribute) Param(name string) *Value {
	switch name {
	case "name":
		return &a.Name
	case "value":
		return &a.Value
	}
	return nil
}

func (a *Attribute) Cardinality() string { return a.Card }

func (a *Attribute) Result() *Outcome { return &a.Outcome }

// Classification constrains a classification reference.
type Classification struct {
	Value   Value
	System  Value
	Card    string
	Outcome Outcome
}

func (c *Classification) Kind() FacetKind { return ClassificationFacet }

func (c *Classification) Param(name string) *Value {
	switch name {
	case "value":
		return &c.Value
	case "system":
		return &c.System
	}
	return nil
}

func (c *Classification) Cardinality() string { return c.Card }

func (c *Classification) Result() *Outcome { return &c.Outcome }

// Material constrains an associated material by name or category.
type Material struct {
	Value   Value
	Card    string
	Outcome Outcome
}

func (m *Material) Kind() FacetKind { return MaterialFacet }

func (m *Material) Param(name string) *Value {
	if name == "value" {
		return &m.Value
	}
	return nil
}

func (m *Material) Cardinality() string { return m.Card }

func (m *Material) Result() *Outcome { return &m.Outcome }

// PartOf constrains containment in a parent entity via an IFC
// relationship.
type PartOf struct {
	Name           Value
	PredefinedType Value
	Relation       string
	Card           string
	Outcome        Outcome
}

func (p *PartOf) Kind() FacetKind { return PartOfFacet }

func (p *PartOf) Param(name string) *Value {
	switch name {
	case "name":
		return &p.Name
	case "predefinedType":
		return &p.PredefinedType
	}
	return nil
}

func (p *PartOf) Cardinality() string { return p.Card }

func (p *PartOf) Result() *Outcome { return &p.Outcome }
