// Package builder implements the document mutation contract: the atomic
// operations that add specifications and facets to an IDS document and
// the pre-mutation validation rules the IDS 1.0 format imposes.
//
// Every operation validates before touching document state — a failed
// call leaves the document exactly as it was.
package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/HendryAvila/ids-mcp/internal/fault"
	"github.com/HendryAvila/ids-mcp/internal/ids"
)

// Locations addressable within a specification.
const (
	LocationApplicability = "applicability"
	LocationRequirements  = "requirements"
)

// validVersions is the recognized IFC version token set from the IDS
// 1.0 specification.
var validVersions = map[string]bool{
	"IFC2X3":      true,
	"IFC4":        true,
	"IFC4X3_ADD2": true,
}

// versionAliases maps informal tokens to their stored form. The table
// deliberately contains the single documented alias; no fuzzy
// normalization beyond uppercasing is applied.
var versionAliases = map[string]string{
	"IFC4X3": "IFC4X3_ADD2",
}

// NormalizeVersions uppercases and alias-maps every token, failing with
// fault.InvalidVersion on the first token outside the recognized set.
func NormalizeVersions(tokens []string) ([]string, error) {
	normalized := make([]string, 0, len(tokens))
	for _, token := range tokens {
		upper := strings.ToUpper(token)
		if mapped, ok := versionAliases[upper]; ok {
			upper = mapped
		}
		if !validVersions[upper] {
			return nil, fault.New(fault.InvalidVersion,
				"invalid IFC version: %s. Valid versions: %s", token, validVersionList())
		}
		normalized = append(normalized, upper)
	}
	return normalized, nil
}

func validVersionList() string {
	out := make([]string, 0, len(validVersions))
	for v := range validVersions {
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// FindSpecification locates a specification by identifier or name,
// first match wins. Documents are expected to keep these effectively
// unique; nothing enforces it, so a colliding locator resolves to the
// earliest match.
func FindSpecification(doc *ids.Document, locator string) (*ids.Specification, error) {
	for _, spec := range doc.Specifications {
		if (spec.Identifier != "" && spec.Identifier == locator) || spec.Name == locator {
			return spec, nil
		}
	}
	return nil, fault.New(fault.NotFound, "specification not found: %s", locator)
}

// SpecParams carries add_specification's arguments.
type SpecParams struct {
	Name         string
	IFCVersions  []string
	Identifier   string
	Description  string
	Instructions string
	MinOccurs    int
	// MaxOccurs is a decimal string or ids.Unbounded. Empty defaults
	// to unbounded.
	MaxOccurs string
}

// AddSpecification validates the IFC versions, appends a new
// specification to the document's ordered list, and returns the
// resolved spec id (identifier if given, else name) plus the normalized
// version tokens.
func AddSpecification(doc *ids.Document, p SpecParams) (string, []string, error) {
	versions, err := NormalizeVersions(p.IFCVersions)
	if err != nil {
		return "", nil, err
	}

	maxOccurs := p.MaxOccurs
	if maxOccurs == "" {
		maxOccurs = ids.Unbounded
	}

	doc.Specifications = append(doc.Specifications, &ids.Specification{
		Name:         p.Name,
		Identifier:   p.Identifier,
		Description:  p.Description,
		Instructions: p.Instructions,
		IFCVersion:   versions,
		MinOccurs:    p.MinOccurs,
		MaxOccurs:    maxOccurs,
	})

	specID := p.Identifier
	if specID == "" {
		specID = p.Name
	}
	return specID, versions, nil
}

// checkLocation validates the section name and, for requirements, the
// cardinality token. Returns the cardinality to store (empty in
// applicability, where the notion has no meaning).
func checkLocation(location, cardinality string) (string, error) {
	switch location {
	case LocationApplicability:
		return "", nil
	case LocationRequirements:
		if cardinality == "" {
			return ids.CardinalityRequired, nil
		}
		if !ids.ValidCardinality(cardinality) {
			return "", fault.New(fault.InvalidArgument,
				"invalid cardinality: %s. Must be 'required', 'optional', or 'prohibited'", cardinality)
		}
		return cardinality, nil
	default:
		return "", fault.New(fault.InvalidArgument,
			"invalid location: %s. Must be 'applicability' or 'requirements'", location)
	}
}

// AddEntityFacet appends an entity facet. In applicability it first
// enforces the IDS 1.0 one-entity-per-applicability rule. Entity facets
// carry no cardinality in either section. The entity name is
// case-normalized to upper case.
func AddEntityFacet(spec *ids.Specification, location, entityName, predefinedType string) error {
	if _, err := checkLocation(location, ""); err != nil {
		return err
	}
	if location == LocationApplicability {
		if err := checkSingleEntity(spec); err != nil {
			return err
		}
	}
	facet := &ids.Entity{Name: ids.SimpleValue(strings.ToUpper(entityName))}
	if predefinedType != "" {
		facet.PredefinedType = ids.SimpleValue(predefinedType)
	}
	spec.Append(location, facet)
	return nil
}

// checkSingleEntity enforces the IDS 1.0 XSD rule that an applicability
// section holds at most one entity facet.
func checkSingleEntity(spec *ids.Specification) error {
	for _, f := range spec.Applicability {
		if f.Kind() == ids.EntityFacet {
			return fault.New(fault.ConstraintViolation,
				"IDS 1.0 allows only one entity facet per specification's applicability section, "+
					"and specification %q already has one. "+
					"To target multiple entity types, split them into separate specifications "+
					"(e.g. one specification with applicability IFCWALL, another with IFCDOOR).",
				spec.Name)
		}
	}
	return nil
}

// AddPropertyFacet appends a property facet. The property set is
// mandatory: the IDS schema technically allows its absence, but the
// facet cannot serialize into a valid document without it, so a blank
// value is rejected before any mutation. A supplied data type is
// uppercased.
func AddPropertyFacet(spec *ids.Specification, location, propertyName, propertySet, dataType, value, cardinality string) error {
	card, err := checkLocation(location, cardinality)
	if err != nil {
		return err
	}
	if strings.TrimSpace(propertySet) == "" {
		return fault.New(fault.MissingRequiredField,
			"property facet requires a property_set: property %q must belong to a property set "+
				"for valid IDS export. Common property sets include Pset_WallCommon, "+
				"Pset_DoorCommon, Pset_WindowCommon, Pset_SpaceCommon, Pset_SlabCommon, "+
				"Pset_BeamCommon, and Pset_ColumnCommon; custom sets like Pset_Common also work.",
			propertyName)
	}

	facet := &ids.Property{
		PropertySet: ids.SimpleValue(propertySet),
		BaseName:    ids.SimpleValue(propertyName),
		DataType:    strings.ToUpper(dataType),
		Card:        card,
	}
	if value != "" {
		facet.Value = ids.SimpleValue(value)
	}
	spec.Append(location, facet)
	return nil
}

// AddAttributeFacet appends an attribute facet.
func AddAttributeFacet(spec *ids.Specification, location, attributeName, value, cardinality string) error {
	card, err := checkLocation(location, cardinality)
	if err != nil {
		return err
	}
	facet := &ids.Attribute{
		Name: ids.SimpleValue(attributeName),
		Card: card,
	}
	if value != "" {
		facet.Value = ids.SimpleValue(value)
	}
	spec.Append(location, facet)
	return nil
}

// AddClassificationFacet appends a classification facet.
func AddClassificationFacet(spec *ids.Specification, location, value, system, cardinality string) error {
	card, err := checkLocation(location, cardinality)
	if err != nil {
		return err
	}
	facet := &ids.Classification{
		Value: ids.SimpleValue(value),
		Card:  card,
	}
	if system != "" {
		facet.System = ids.SimpleValue(system)
	}
	spec.Append(location, facet)
	return nil
}

// AddMaterialFacet appends a material facet.
func AddMaterialFacet(spec *ids.Specification, location, value, cardinality string) error {
	card, err := checkLocation(location, cardinality)
	if err != nil {
		return err
	}
	spec.Append(location, &ids.Material{
		Value: ids.SimpleValue(value),
		Card:  card,
	})
	return nil
}

// AddPartOfFacet appends a partOf facet. Relation and parent entity are
// case-normalized to upper case.
func AddPartOfFacet(spec *ids.Specification, location, relation, parentEntity, parentPredefinedType, cardinality string) error {
	card, err := checkLocation(location, cardinality)
	if err != nil {
		return err
	}
	facet := &ids.PartOf{
		Name:     ids.SimpleValue(strings.ToUpper(parentEntity)),
		Relation: strings.ToUpper(relation),
		Card:     card,
	}
	if parentPredefinedType != "" {
		facet.PredefinedType = ids.SimpleValue(parentPredefinedType)
	}
	spec.Append(location, facet)
	return nil
}

// FacetAt returns the facet at the 0-based index within the addressed
// section. Fails with fault.IndexOutOfRange reporting both the
// requested index and the section's length.
func FacetAt(spec *ids.Specification, location string, index int) (ids.Facet, error) {
	section, ok := spec.Section(location)
	if !ok {
		return nil, fault.New(fault.InvalidArgument,
			"invalid location: %s. Must be 'applicability' or 'requirements'", location)
	}
	if index < 0 || index >= len(section) {
		return nil, fault.New(fault.IndexOutOfRange,
			"facet index %d out of range: location %q has %d facet(s)", index, location, len(section))
	}
	return section[index], nil
}

// ApplyRestriction resolves the facet at (location, index) and
// overwrites the named parameter with the restriction, replacing any
// prior restriction there. Fails with fault.InvalidArgument if the
// facet's variant has no such parameter.
func ApplyRestriction(spec *ids.Specification, location string, index int, parameterName string, r *ids.Restriction) error {
	facet, err := FacetAt(spec, location, index)
	if err != nil {
		return err
	}
	param := facet.Param(parameterName)
	if param == nil {
		return fault.New(fault.InvalidArgument,
			"parameter %q not found on %s facet", parameterName, facet.Kind())
	}
	*param = ids.Value{Restriction: r}
	return nil
}

// ─── Restriction builders ───────────────────────────────────────────────────
//
// Each builder strips a leading xs: prefix from the base type and stores
// only the options actually supplied.

// Enumeration builds a finite-value-set restriction.
func Enumeration(baseType string, values []string) *ids.Restriction {
	return &ids.Restriction{
		Base:        ids.NormalizeBaseType(baseType),
		Enumeration: values,
	}
}

// Pattern builds a regular-expression restriction.
func Pattern(baseType, pattern string) *ids.Restriction {
	return &ids.Restriction{
		Base:    ids.NormalizeBaseType(baseType),
		Pattern: pattern,
	}
}

// BoundsOpts carries the optional numeric bounds; nil fields stay
// absent on the restriction.
type BoundsOpts struct {
	MinInclusive *float64
	MaxInclusive *float64
	MinExclusive *float64
	MaxExclusive *float64
}

// Bounds builds a numeric-bounds restriction.
func Bounds(baseType string, opts BoundsOpts) *ids.Restriction {
	return &ids.Restriction{
		Base:         ids.NormalizeBaseType(baseType),
		MinInclusive: opts.MinInclusive,
		MaxInclusive: opts.MaxInclusive,
		MinExclusive: opts.MinExclusive,
		MaxExclusive: opts.MaxExclusive,
	}
}

// LengthOpts carries the optional length constraints; nil fields stay
// absent on the restriction.
type LengthOpts struct {
	Length    *int
	MinLength *int
	MaxLength *int
}

// Length builds a character-count restriction.
func Length(baseType string, opts LengthOpts) *ids.Restriction {
	return &ids.Restriction{
		Base:      ids.NormalizeBaseType(baseType),
		Length:    opts.Length,
		MinLength: opts.MinLength,
		MaxLength: opts.MaxLength,
	}
}

// Describe returns a one-line summary of a facet for info listings.
func Describe(f ids.Facet) string {
	switch v := f.(type) {
	case *ids.Entity:
		return fmt.Sprintf("entity %s", v.Name.Text())
	case *ids.Property:
		return fmt.Sprintf("property %s/%s", v.PropertySet.Text(), v.BaseName.Text())
	case *ids.Attribute:
		return fmt.Sprintf("attribute %s", v.Name.Text())
	case *ids.Classification:
		return fmt.Sprintf("classification %s", v.Value.Text())
	case *ids.Material:
		return fmt.Sprintf("material %s", v.Value.Text())
	case *ids.PartOf:
		return fmt.Sprintf("partOf %s via %s", v.Name.Text(), v.Relation)
	default:
		return f.Kind().String()
	}
}
