package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/ids-mcp/internal/fault"
	"github.com/HendryAvila/ids-mcp/internal/ids"
)

func newDoc(t *testing.T) (*ids.Document, *ids.Specification) {
	t.Helper()
	doc := ids.New(ids.Info{Title: "Test"})
	specID, _, err := AddSpecification(doc, SpecParams{
		Name:        "Walls",
		IFCVersions: []string{"IFC4"},
	})
	require.NoError(t, err)
	spec, err := FindSpecification(doc, specID)
	require.NoError(t, err)
	return doc, spec
}

func TestNormalizeVersions(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"IFC4"}, []string{"IFC4"}},
		{[]string{"ifc4"}, []string{"IFC4"}},
		{[]string{"IFC4X3"}, []string{"IFC4X3_ADD2"}},
		{[]string{"ifc4x3"}, []string{"IFC4X3_ADD2"}},
		{[]string{"IFC2X3", "IFC4X3_ADD2"}, []string{"IFC2X3", "IFC4X3_ADD2"}},
	}
	for _, tc := range cases {
		got, err := NormalizeVersions(tc.in)
		require.NoError(t, err, "input %v", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestNormalizeVersionsRejectsUnknown(t *testing.T) {
	_, err := NormalizeVersions([]string{"IFC4", "IFC9"})
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.InvalidVersion))
	assert.Contains(t, err.Error(), "IFC9")
}

func TestAddSpecificationIDFallsBackToName(t *testing.T) {
	doc := ids.New(ids.Info{Title: "Test"})

	id, versions, err := AddSpecification(doc, SpecParams{
		Name:        "Walls",
		IFCVersions: []string{"ifc4x3"},
		Identifier:  "SPEC-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "SPEC-01", id)
	assert.Equal(t, []string{"IFC4X3_ADD2"}, versions)

	id2, _, err := AddSpecification(doc, SpecParams{
		Name:        "Doors",
		IFCVersions: []string{"IFC4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Doors", id2)
	assert.Len(t, doc.Specifications, 2)
}

func TestFindSpecificationPrefersIdentifier(t *testing.T) {
	doc := ids.New(ids.Info{Title: "Test"})
	_, _, err := AddSpecification(doc, SpecParams{
		Name: "Walls", IFCVersions: []string{"IFC4"}, Identifier: "SPEC-01",
	})
	require.NoError(t, err)

	byID, err := FindSpecification(doc, "SPEC-01")
	require.NoError(t, err)
	byName, err := FindSpecification(doc, "Walls")
	require.NoError(t, err)
	assert.Same(t, byID, byName)

	_, err = FindSpecification(doc, "nope")
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.NotFound))
}

func TestAddEntityFacetUppercasesName(t *testing.T) {
	_, spec := newDoc(t)

	require.NoError(t, AddEntityFacet(spec, LocationApplicability, "IfcWall", "SOLIDWALL"))
	require.Len(t, spec.Applicability, 1)

	entity := spec.Applicability[0].(*ids.Entity)
	assert.Equal(t, "IFCWALL", entity.Name.Text())
	assert.Equal(t, "SOLIDWALL", entity.PredefinedType.Text())
}

func TestSecondEntityFacetRejected(t *testing.T) {
	_, spec := newDoc(t)

	require.NoError(t, AddEntityFacet(spec, LocationApplicability, "IFCWALL", ""))
	err := AddEntityFacet(spec, LocationApplicability, "IFCDOOR", "")
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.ConstraintViolation))
	assert.Contains(t, err.Error(), "separate specification")
	// The rejected facet must not have been appended.
	assert.Len(t, spec.Applicability, 1)
}

func TestEntityFacetAllowedInRequirements(t *testing.T) {
	_, spec := newDoc(t)
	require.NoError(t, AddEntityFacet(spec, LocationApplicability, "IFCWALL", ""))
	require.NoError(t, AddEntityFacet(spec, LocationRequirements, "IFCWALLSTANDARDCASE", ""))
}

func TestAddPropertyFacetRequiresPset(t *testing.T) {
	_, spec := newDoc(t)

	for _, pset := range []string{"", "   "} {
		err := AddPropertyFacet(spec, LocationRequirements, "FireRating", pset, "", "", "required")
		require.Error(t, err, "pset %q", pset)
		assert.True(t, fault.Is(err, fault.MissingRequiredField))
		assert.Contains(t, err.Error(), "Pset_WallCommon")
	}
	assert.Empty(t, spec.Requirements)

	require.NoError(t, AddPropertyFacet(spec, LocationRequirements,
		"FireRating", "Pset_WallCommon", "ifclabel", "REI60", "required"))
	prop := spec.Requirements[0].(*ids.Property)
	assert.Equal(t, "IFCLABEL", prop.DataType)
	assert.Equal(t, "REI60", prop.Value.Text())
}

func TestFacetLocationAndCardinalityChecks(t *testing.T) {
	_, spec := newDoc(t)

	err := AddAttributeFacet(spec, "somewhere", "Name", "", "required")
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.InvalidArgument))

	err = AddAttributeFacet(spec, LocationRequirements, "Name", "", "mandatory")
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.InvalidArgument))

	// Empty cardinality defaults to required.
	require.NoError(t, AddAttributeFacet(spec, LocationRequirements, "Name", "", ""))
	assert.Equal(t, ids.CardinalityRequired, spec.Requirements[0].Cardinality())
}

func TestAddPartOfFacetUppercasesTokens(t *testing.T) {
	_, spec := newDoc(t)

	require.NoError(t, AddPartOfFacet(spec, LocationRequirements,
		"IfcRelContainedInSpatialStructure", "IfcSpace", "", "required"))
	po := spec.Requirements[0].(*ids.PartOf)
	assert.Equal(t, "IFCRELCONTAINEDINSPATIALSTRUCTURE", po.Relation)
	assert.Equal(t, "IFCSPACE", po.Name.Text())
}

func TestFacetAtBounds(t *testing.T) {
	_, spec := newDoc(t)
	require.NoError(t, AddMaterialFacet(spec, LocationRequirements, "concrete", "required"))

	f, err := FacetAt(spec, LocationRequirements, 0)
	require.NoError(t, err)
	assert.Equal(t, ids.MaterialFacet, f.Kind())

	for _, idx := range []int{-1, 1, 99} {
		_, err := FacetAt(spec, LocationRequirements, idx)
		require.Error(t, err, "index %d", idx)
		assert.True(t, fault.Is(err, fault.IndexOutOfRange))
	}

	_, err = FacetAt(spec, "elsewhere", 0)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.InvalidArgument))
}

func TestApplyRestriction(t *testing.T) {
	_, spec := newDoc(t)
	require.NoError(t, AddPropertyFacet(spec, LocationRequirements,
		"FireRating", "Pset_WallCommon", "", "", "required"))

	r := Enumeration("xs:string", []string{"REI30", "REI60"})
	require.NoError(t, ApplyRestriction(spec, LocationRequirements, 0, "value", r))

	prop := spec.Requirements[0].(*ids.Property)
	require.NotNil(t, prop.Value.Restriction)
	assert.Equal(t, "string", prop.Value.Restriction.Base)
	assert.Equal(t, []string{"REI30", "REI60"}, prop.Value.Restriction.Enumeration)

	// A later restriction replaces the earlier one.
	require.NoError(t, ApplyRestriction(spec, LocationRequirements, 0, "value",
		Pattern("xs:string", "REI[0-9]+")))
	assert.Empty(t, prop.Value.Restriction.Enumeration)
	assert.Equal(t, "REI[0-9]+", prop.Value.Restriction.Pattern)

	err := ApplyRestriction(spec, LocationRequirements, 0, "system", r)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.InvalidArgument))
	assert.Contains(t, err.Error(), "system")
}

func TestRestrictionBuilders(t *testing.T) {
	minv, maxv := 30.0, 120.0
	b := Bounds("xs:double", BoundsOpts{MinInclusive: &minv, MaxExclusive: &maxv})
	assert.Equal(t, "double", b.Base)
	assert.Equal(t, 30.0, *b.MinInclusive)
	assert.Equal(t, 120.0, *b.MaxExclusive)
	assert.Nil(t, b.MaxInclusive)

	n := 22
	l := Length("string", LengthOpts{Length: &n})
	assert.Equal(t, 22, *l.Length)
	assert.Nil(t, l.MinLength)
}
