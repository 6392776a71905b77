package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/ids-mcp/internal/builder"
	"github.com/HendryAvila/ids-mcp/internal/session"
)

// Shared option builders for the facet tools. Every facet tool
// addresses a specification and a section the same way.

func specIDOption() mcp.ToolOption {
	return mcp.WithString("spec_id",
		mcp.Required(),
		mcp.Description("Specification identifier or name"),
	)
}

func locationOption() mcp.ToolOption {
	return mcp.WithString("location",
		mcp.Required(),
		mcp.Description("Which section to add the facet to"),
		mcp.Enum(builder.LocationApplicability, builder.LocationRequirements),
	)
}

func cardinalityOption() mcp.ToolOption {
	return mcp.WithString("cardinality",
		mcp.Description("Requirement cardinality (requirements section only)"),
		mcp.DefaultString("required"),
		mcp.Enum("required", "optional", "prohibited"),
	)
}

// facetResult is the uniform success payload of the facet tools.
func (b base) facetResult(op, facetType, specID string) *mcp.CallToolResult {
	return b.jsonResult(op, map[string]any{
		"status":     "added",
		"facet_type": facetType,
		"spec_id":    specID,
	})
}

// ─── AddEntityFacetTool ─────────────────────────────────────────────────────

// AddEntityFacetTool handles the add_entity_facet MCP tool.
type AddEntityFacetTool struct {
	base
}

// NewAddEntityFacetTool creates an AddEntityFacetTool.
func NewAddEntityFacetTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddEntityFacetTool {
	return &AddEntityFacetTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddEntityFacetTool) Definition() mcp.Tool {
	return mcp.NewTool("add_entity_facet",
		mcp.WithDescription(
			"Add an entity facet to a specification. IDS 1.0 allows only ONE entity "+
				"facet per applicability section — to target multiple entity types, create "+
				"a separate specification for each.",
		),
		specIDOption(),
		locationOption(),
		mcp.WithString("entity_name",
			mcp.Required(),
			mcp.Description("IFC entity name, e.g. IFCWALL"),
		),
		mcp.WithString("predefined_type", mcp.Description("Optional predefined type")),
	)
}

// Handle processes the add_entity_facet tool call.
func (t *AddEntityFacetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	entityName := req.GetString("entity_name", "")
	if specID == "" || entityName == "" {
		return mcp.NewToolResultError("'spec_id' and 'entity_name' are required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add entity facet", err), nil
	}
	if err := builder.AddEntityFacet(spec,
		req.GetString("location", ""),
		entityName,
		req.GetString("predefined_type", ""),
	); err != nil {
		return t.fail("add entity facet", err), nil
	}

	t.logger.Info("entity facet added",
		zap.String("spec_id", specID), zap.String("entity", entityName))
	return t.facetResult("add entity facet", "entity", specID), nil
}

// ─── AddPropertyFacetTool ───────────────────────────────────────────────────

// AddPropertyFacetTool handles the add_property_facet MCP tool.
type AddPropertyFacetTool struct {
	base
}

// NewAddPropertyFacetTool creates an AddPropertyFacetTool.
func NewAddPropertyFacetTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddPropertyFacetTool {
	return &AddPropertyFacetTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddPropertyFacetTool) Definition() mcp.Tool {
	return mcp.NewTool("add_property_facet",
		mcp.WithDescription(
			"Add a property facet to a specification. The property_set parameter is "+
				"required for valid IDS export (e.g. Pset_WallCommon).",
		),
		specIDOption(),
		locationOption(),
		mcp.WithString("property_name",
			mcp.Required(),
			mcp.Description("Property name, e.g. FireRating"),
		),
		mcp.WithString("property_set",
			mcp.Required(),
			mcp.Description("Property set name, e.g. Pset_WallCommon"),
		),
		mcp.WithString("data_type", mcp.Description("IFC data type, e.g. IFCLABEL")),
		mcp.WithString("value", mcp.Description("Required value")),
		cardinalityOption(),
	)
}

// Handle processes the add_property_facet tool call.
func (t *AddPropertyFacetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	propertyName := req.GetString("property_name", "")
	if specID == "" || propertyName == "" {
		return mcp.NewToolResultError("'spec_id' and 'property_name' are required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add property facet", err), nil
	}
	if err := builder.AddPropertyFacet(spec,
		req.GetString("location", ""),
		propertyName,
		req.GetString("property_set", ""),
		req.GetString("data_type", ""),
		req.GetString("value", ""),
		req.GetString("cardinality", "required"),
	); err != nil {
		return t.fail("add property facet", err), nil
	}

	t.logger.Info("property facet added",
		zap.String("spec_id", specID), zap.String("property", propertyName))
	return t.facetResult("add property facet", "property", specID), nil
}

// ─── AddAttributeFacetTool ──────────────────────────────────────────────────

// AddAttributeFacetTool handles the add_attribute_facet MCP tool.
type AddAttributeFacetTool struct {
	base
}

// NewAddAttributeFacetTool creates an AddAttributeFacetTool.
func NewAddAttributeFacetTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddAttributeFacetTool {
	return &AddAttributeFacetTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddAttributeFacetTool) Definition() mcp.Tool {
	return mcp.NewTool("add_attribute_facet",
		mcp.WithDescription("Add an attribute facet to a specification."),
		specIDOption(),
		locationOption(),
		mcp.WithString("attribute_name",
			mcp.Required(),
			mcp.Description("Attribute name, e.g. Name or Description"),
		),
		mcp.WithString("value", mcp.Description("Required value")),
		cardinalityOption(),
	)
}

// Handle processes the add_attribute_facet tool call.
func (t *AddAttributeFacetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	attributeName := req.GetString("attribute_name", "")
	if specID == "" || attributeName == "" {
		return mcp.NewToolResultError("'spec_id' and 'attribute_name' are required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add attribute facet", err), nil
	}
	if err := builder.AddAttributeFacet(spec,
		req.GetString("location", ""),
		attributeName,
		req.GetString("value", ""),
		req.GetString("cardinality", "required"),
	); err != nil {
		return t.fail("add attribute facet", err), nil
	}

	return t.facetResult("add attribute facet", "attribute", specID), nil
}

// ─── AddClassificationFacetTool ─────────────────────────────────────────────

// AddClassificationFacetTool handles the add_classification_facet MCP tool.
type AddClassificationFacetTool struct {
	base
}

// NewAddClassificationFacetTool creates an AddClassificationFacetTool.
func NewAddClassificationFacetTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddClassificationFacetTool {
	return &AddClassificationFacetTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddClassificationFacetTool) Definition() mcp.Tool {
	return mcp.NewTool("add_classification_facet",
		mcp.WithDescription("Add a classification facet to a specification."),
		specIDOption(),
		locationOption(),
		mcp.WithString("classification_value",
			mcp.Required(),
			mcp.Description("Classification code or pattern"),
		),
		mcp.WithString("classification_system",
			mcp.Description("Classification system name or URI"),
		),
		cardinalityOption(),
	)
}

// Handle processes the add_classification_facet tool call.
func (t *AddClassificationFacetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	value := req.GetString("classification_value", "")
	if specID == "" || value == "" {
		return mcp.NewToolResultError("'spec_id' and 'classification_value' are required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add classification facet", err), nil
	}
	if err := builder.AddClassificationFacet(spec,
		req.GetString("location", ""),
		value,
		req.GetString("classification_system", ""),
		req.GetString("cardinality", "required"),
	); err != nil {
		return t.fail("add classification facet", err), nil
	}

	return t.facetResult("add classification facet", "classification", specID), nil
}

// ─── AddMaterialFacetTool ───────────────────────────────────────────────────

// AddMaterialFacetTool handles the add_material_facet MCP tool.
type AddMaterialFacetTool struct {
	base
}

// NewAddMaterialFacetTool creates an AddMaterialFacetTool.
func NewAddMaterialFacetTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddMaterialFacetTool {
	return &AddMaterialFacetTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddMaterialFacetTool) Definition() mcp.Tool {
	return mcp.NewTool("add_material_facet",
		mcp.WithDescription("Add a material facet to a specification."),
		specIDOption(),
		locationOption(),
		mcp.WithString("material_value",
			mcp.Required(),
			mcp.Description("Material name, category, or URI"),
		),
		cardinalityOption(),
	)
}

// Handle processes the add_material_facet tool call.
func (t *AddMaterialFacetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	value := req.GetString("material_value", "")
	if specID == "" || value == "" {
		return mcp.NewToolResultError("'spec_id' and 'material_value' are required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add material facet", err), nil
	}
	if err := builder.AddMaterialFacet(spec,
		req.GetString("location", ""),
		value,
		req.GetString("cardinality", "required"),
	); err != nil {
		return t.fail("add material facet", err), nil
	}

	return t.facetResult("add material facet", "material", specID), nil
}

// ─── AddPartOfFacetTool ─────────────────────────────────────────────────────

// AddPartOfFacetTool handles the add_partof_facet MCP tool.
type AddPartOfFacetTool struct {
	base
}

// NewAddPartOfFacetTool creates an AddPartOfFacetTool.
func NewAddPartOfFacetTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddPartOfFacetTool {
	return &AddPartOfFacetTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddPartOfFacetTool) Definition() mcp.Tool {
	return mcp.NewTool("add_partof_facet",
		mcp.WithDescription(
			"Add a partOf facet constraining containment in a parent entity via an "+
				"IFC relationship.",
		),
		specIDOption(),
		locationOption(),
		mcp.WithString("relation",
			mcp.Required(),
			mcp.Description("Relationship type, e.g. IFCRELCONTAINEDINSPATIALSTRUCTURE"),
		),
		mcp.WithString("parent_entity",
			mcp.Required(),
			mcp.Description("Parent entity name, e.g. IFCSPACE"),
		),
		mcp.WithString("parent_predefined_type",
			mcp.Description("Optional predefined type for the parent"),
		),
		cardinalityOption(),
	)
}

// Handle processes the add_partof_facet tool call.
func (t *AddPartOfFacetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	relation := req.GetString("relation", "")
	parentEntity := req.GetString("parent_entity", "")
	if specID == "" || relation == "" || parentEntity == "" {
		return mcp.NewToolResultError("'spec_id', 'relation', and 'parent_entity' are required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add partOf facet", err), nil
	}
	if err := builder.AddPartOfFacet(spec,
		req.GetString("location", ""),
		relation,
		parentEntity,
		req.GetString("parent_predefined_type", ""),
		req.GetString("cardinality", "required"),
	); err != nil {
		return t.fail("add partOf facet", err), nil
	}

	return t.facetResult("add partOf facet", "partof", specID), nil
}
