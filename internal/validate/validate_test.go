package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/ids-mcp/internal/audit"
	"github.com/HendryAvila/ids-mcp/internal/builder"
	"github.com/HendryAvila/ids-mcp/internal/fault"
	"github.com/HendryAvila/ids-mcp/internal/ids"
)

// newValidator returns a validator with the external audit disabled, so
// tests never depend on a binary being installed.
func newValidator() *Validator {
	return New(audit.NewRunner(audit.Config{Enabled: false}, nil), nil)
}

func fireSafetyDoc(t *testing.T) *ids.Document {
	t.Helper()
	doc := ids.New(ids.Info{Title: "Fire Safety", Author: "qa@example.com"})
	specID, _, err := builder.AddSpecification(doc, builder.SpecParams{
		Name:        "Walls must declare fire rating",
		IFCVersions: []string{"IFC4"},
	})
	require.NoError(t, err)
	spec, err := builder.FindSpecification(doc, specID)
	require.NoError(t, err)
	require.NoError(t, builder.AddEntityFacet(spec, builder.LocationApplicability, "IFCWALL", ""))
	require.NoError(t, builder.AddPropertyFacet(spec, builder.LocationRequirements,
		"FireRating", "Pset_WallCommon", "IFCLABEL", "", "required"))
	return doc
}

func TestDocumentValid(t *testing.T) {
	v := newValidator()
	report := v.Document(context.Background(), fireSafetyDoc(t), true)

	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 1, report.SpecificationsCount)
	assert.True(t, report.Details.HasTitle)
	assert.True(t, report.Details.HasSpecifications)
	assert.True(t, report.Details.SchemaValid)
	// Audit disabled: no audit section in the report.
	assert.Nil(t, report.AuditTool)
}

func TestDocumentEmpty(t *testing.T) {
	v := newValidator()
	doc := ids.New(ids.Info{})
	report := v.Document(context.Background(), doc, false)

	assert.False(t, report.Valid)
	assert.False(t, report.Details.HasTitle)
	assert.False(t, report.Details.HasSpecifications)
	// Missing title is caught twice over: structurally and by the
	// schema round-trip.
	assert.NotEmpty(t, report.Errors)
}

func TestDocumentSpecWithoutApplicability(t *testing.T) {
	v := newValidator()
	doc := ids.New(ids.Info{Title: "T"})
	_, _, err := builder.AddSpecification(doc, builder.SpecParams{
		Name:        "Dangling",
		IFCVersions: []string{"IFC4"},
	})
	require.NoError(t, err)

	report := v.Document(context.Background(), doc, false)
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "no applicability facets")
	// The schema round-trip itself tolerates the empty section.
	assert.True(t, report.Details.SchemaValid)
}

func TestDocumentWarningsDoNotInvalidate(t *testing.T) {
	v := newValidator()
	doc := fireSafetyDoc(t)
	// A hand-edited version token outside the standard set warns only.
	doc.Specifications[0].IFCVersion = []string{"IFC99"}

	report := v.Document(context.Background(), doc, false)
	assert.True(t, report.Valid)
	assert.NotEmpty(t, report.Warnings)
}

func TestModelReportFormats(t *testing.T) {
	v := newValidator()
	doc := fireSafetyDoc(t)
	modelPath := writeModel(t)

	jsonReport, err := v.Model(context.Background(), doc, modelPath, ReportJSON)
	require.NoError(t, err)
	assert.Equal(t, "validation_complete", jsonReport.Status)
	assert.Equal(t, 1, jsonReport.TotalSpecifications)
	assert.NotNil(t, jsonReport.Raw)
	assert.NotEmpty(t, jsonReport.Specifications)
	assert.Empty(t, jsonReport.HTML)

	htmlReport, err := v.Model(context.Background(), doc, modelPath, ReportHTML)
	require.NoError(t, err)
	assert.NotEmpty(t, htmlReport.HTML)
	assert.Nil(t, htmlReport.Raw)
}

func TestModelRejectsBadInput(t *testing.T) {
	v := newValidator()
	doc := fireSafetyDoc(t)
	modelPath := writeModel(t)

	_, err := v.Model(context.Background(), doc, modelPath, "xml")
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.InvalidArgument))

	_, err = v.Model(context.Background(), doc, filepath.Join(t.TempDir(), "absent.ifc"), ReportJSON)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.NotFound))

	empty := ids.New(ids.Info{Title: "Empty"})
	_, err = v.Model(context.Background(), empty, modelPath, ReportJSON)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.InvalidArgument))
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.ifc")
	content := `ISO-10303-21;
DATA;
#10=IFCWALL('wall0000000000000000aa',$,'W-001',$,$,$,$,$,.SOLIDWALL.);
#20=IFCPROPERTYSINGLEVALUE('FireRating',$,IFCLABEL('REI60'),$);
#21=IFCPROPERTYSET('pset0000000000000000aa',$,'Pset_WallCommon',$,(#20));
#22=IFCRELDEFINESBYPROPERTIES('rel00000000000000000aa',$,$,$,(#10),#21);
ENDSEC;
END-ISO-10303-21;
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
