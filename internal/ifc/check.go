package ifc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/HendryAvila/ids-mcp/internal/ids"
)

// RunAgainstModel evaluates every specification in the document against
// the model, recording per-requirement passed/failed entity ids on the
// facets' outcome bookkeeping. Previous run results are cleared first.
func RunAgainstModel(doc *ids.Document, m *Model) {
	for _, spec := range doc.Specifications {
		for _, f := range spec.Requirements {
			f.Result().Reset()
		}

		var applicable []*Element
		for _, el := range m.Elements {
			if matchesAll(spec.Applicability, el) {
				applicable = append(applicable, el)
			}
		}

		for _, f := range spec.Requirements {
			outcome := f.Result()
			for _, el := range applicable {
				if satisfies(f, el) {
					outcome.PassedEntities = append(outcome.PassedEntities, el.GlobalID)
				} else {
					outcome.FailedEntities = append(outcome.FailedEntities, el.GlobalID)
				}
			}
		}
	}
}

// matchesAll reports whether el satisfies every applicability facet.
// Applicability facets select by presence and value, with no
// cardinality dimension.
func matchesAll(facets []ids.Facet, el *Element) bool {
	for _, f := range facets {
		if !holds(f, el) {
			return false
		}
	}
	return len(facets) > 0
}

// satisfies applies a requirement facet to an element, honoring the
// facet-level cardinality tag.
func satisfies(f ids.Facet, el *Element) bool {
	switch f.Cardinality() {
	case ids.CardinalityProhibited:
		return !holds(f, el)
	case ids.CardinalityOptional:
		// Optional requirements pass whether or not the condition is
		// present; they only document the expectation.
		return true
	default:
		return holds(f, el)
	}
}

// holds reports whether the facet's condition is true of the element.
func holds(f ids.Facet, el *Element) bool {
	switch v := f.(type) {
	case *ids.Entity:
		if !matchValue(v.Name, el.Type) {
			return false
		}
		if !v.PredefinedType.IsZero() && !matchValue(v.PredefinedType, el.PredefinedType) {
			return false
		}
		return true

	case *ids.Property:
		for psetName, props := range el.PropertySets {
			if !matchValue(v.PropertySet, psetName) {
				continue
			}
			for propName, propValue := range props {
				if !matchValue(v.BaseName, propName) {
					continue
				}
				if v.Value.IsZero() || matchValue(v.Value, propValue) {
					return true
				}
			}
		}
		return false

	case *ids.Attribute:
		for attrName, attrValue := range el.Attributes {
			if !matchValue(v.Name, attrName) {
				continue
			}
			if v.Value.IsZero() || matchValue(v.Value, attrValue) {
				return true
			}
		}
		return false

	case *ids.Classification:
		for system, refs := range el.Classifications {
			if !v.System.IsZero() && !matchValue(v.System, system) {
				continue
			}
			if v.Value.IsZero() {
				if len(refs) > 0 {
					return true
				}
				continue
			}
			for _, ref := range refs {
				if matchValue(v.Value, ref) {
					return true
				}
			}
		}
		return false

	case *ids.Material:
		if v.Value.IsZero() {
			return len(el.Materials) > 0
		}
		for _, name := range el.Materials {
			if matchValue(v.Value, name) {
				return true
			}
		}
		return false

	case *ids.PartOf:
		for _, parentType := range el.ContainedIn {
			if matchValue(v.Name, parentType) {
				return true
			}
		}
		return false
	}
	return false
}

// matchValue applies a facet parameter — plain string or restriction —
// to a concrete model value. Plain strings compare case-insensitively,
// matching how IFC tooling treats entity and enum tokens.
func matchValue(param ids.Value, actual string) bool {
	if param.Restriction != nil {
		return matchRestriction(param.Restriction, actual)
	}
	return strings.EqualFold(param.Simple, actual)
}

func matchRestriction(r *ids.Restriction, actual string) bool {
	if len(r.Enumeration) > 0 {
		for _, allowed := range r.Enumeration {
			if allowed == actual {
				return true
			}
		}
		return false
	}
	if r.Pattern != "" {
		re, err := regexp.Compile("^(?:" + r.Pattern + ")$")
		if err != nil {
			return false
		}
		return re.MatchString(actual)
	}
	if r.Length != nil && len(actual) != *r.Length {
		return false
	}
	if r.MinLength != nil && len(actual) < *r.MinLength {
		return false
	}
	if r.MaxLength != nil && len(actual) > *r.MaxLength {
		return false
	}
	if r.MinInclusive != nil || r.MaxInclusive != nil || r.MinExclusive != nil || r.MaxExclusive != nil {
		n, err := strconv.ParseFloat(actual, 64)
		if err != nil {
			return false
		}
		if r.MinInclusive != nil && n < *r.MinInclusive {
			return false
		}
		if r.MaxInclusive != nil && n > *r.MaxInclusive {
			return false
		}
		if r.MinExclusive != nil && n <= *r.MinExclusive {
			return false
		}
		if r.MaxExclusive != nil && n >= *r.MaxExclusive {
			return false
		}
	}
	return true
}
