package ids

import (
	"fmt"
	"strings"
)

// Restriction is an XSD-style value constraint attached to one facet
// parameter. Base is the bare XSD type name without the xs: prefix
// ("string", "double", ...); the codec re-adds the prefix on export.
// Only the option fields actually supplied are set — omitted bounds and
// lengths are nil, not zero.
type Restriction struct {
	Base string

	Enumeration []string
	Pattern     string

	MinInclusive *float64
	MaxInclusive *float64
	MinExclusive *float64
	MaxExclusive *float64

	Length    *int
	MinLength *int
	MaxLength *int
}

// NormalizeBaseType strips a leading xs: schema-namespace prefix from a
// base-type token. "xs:string" and "string" both store as "string"; no
// other rewrite is applied.
func NormalizeBaseType(base string) string {
	return strings.TrimPrefix(base, "xs:")
}

// Summary returns a short human-readable description of the restriction,
// used when a restricted parameter is rendered as text.
func (r *Restriction) Summary() string {
	switch {
	case len(r.Enumeration) > 0:
		return fmt.Sprintf("one of [%s]", strings.Join(r.Enumeration, ", "))
	case r.Pattern != "":
		return fmt.Sprintf("matching /%s/", r.Pattern)
	case r.Length != nil:
		return fmt.Sprintf("length %d", *r.Length)
	case r.MinLength != nil || r.MaxLength != nil:
		return "length-bounded"
	default:
		var parts []string
		if r.MinInclusive != nil {
			parts = append(parts, fmt.Sprintf(">= %v", *r.MinInclusive))
		}
		if r.MinExclusive != nil {
			parts = append(parts, fmt.Sprintf("> %v", *r.MinExclusive))
		}
		if r.MaxInclusive != nil {
			parts = append(parts, fmt.Sprintf("<= %v", *r.MaxInclusive))
		}
		if r.MaxExclusive != nil {
			parts = append(parts, fmt.Sprintf("< %v", *r.MaxExclusive))
		}
		if len(parts) == 0 {
			return "restricted"
		}
		return strings.Join(parts, " and ")
	}
}
