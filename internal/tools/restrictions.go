package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/ids-mcp/internal/builder"
	"github.com/HendryAvila/ids-mcp/internal/session"
)

// Shared options for the restriction tools. Restrictions address a
// facet by (location, zero-based index) and name the parameter to
// replace.

func facetIndexOption() mcp.ToolOption {
	return mcp.WithNumber("facet_index",
		mcp.Required(),
		mcp.Description("Zero-based index of the facet within the section"),
	)
}

func parameterNameOption() mcp.ToolOption {
	return mcp.WithString("parameter_name",
		mcp.Required(),
		mcp.Description("Facet parameter to restrict, e.g. value, name, predefinedType"),
	)
}

func baseTypeOption(def string) mcp.ToolOption {
	return mcp.WithString("base_type",
		mcp.Description("XSD base type (the xs: prefix is optional)"),
		mcp.DefaultString(def),
	)
}

func restrictionLocationOption() mcp.ToolOption {
	return mcp.WithString("location",
		mcp.Description("Which section holds the facet"),
		mcp.DefaultString(builder.LocationRequirements),
		mcp.Enum(builder.LocationApplicability, builder.LocationRequirements),
	)
}

// ─── AddEnumerationRestrictionTool ──────────────────────────────────────────

// AddEnumerationRestrictionTool handles the add_enumeration_restriction
// MCP tool.
type AddEnumerationRestrictionTool struct {
	base
}

// NewAddEnumerationRestrictionTool creates an AddEnumerationRestrictionTool.
func NewAddEnumerationRestrictionTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddEnumerationRestrictionTool {
	return &AddEnumerationRestrictionTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddEnumerationRestrictionTool) Definition() mcp.Tool {
	return mcp.NewTool("add_enumeration_restriction",
		mcp.WithDescription(
			"Restrict a facet parameter to a finite set of allowed values.",
		),
		specIDOption(),
		facetIndexOption(),
		parameterNameOption(),
		mcp.WithArray("values",
			mcp.Required(),
			mcp.Description("Allowed values"),
			mcp.WithStringItems(),
		),
		baseTypeOption("xs:string"),
		restrictionLocationOption(),
	)
}

// Handle processes the add_enumeration_restriction tool call.
func (t *AddEnumerationRestrictionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	if specID == "" {
		return mcp.NewToolResultError("'spec_id' is required"), nil
	}
	values := stringSliceArg(req, "values")
	if len(values) == 0 {
		return mcp.NewToolResultError("'values' must be a non-empty array of strings"), nil
	}
	idx := optIntArg(req, "facet_index")
	if idx == nil {
		return mcp.NewToolResultError("'facet_index' is required"), nil
	}
	index := *idx
	parameter := req.GetString("parameter_name", "")
	if parameter == "" {
		return mcp.NewToolResultError("'parameter_name' is required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add enumeration restriction", err), nil
	}
	location := req.GetString("location", builder.LocationRequirements)
	r := builder.Enumeration(req.GetString("base_type", "xs:string"), values)
	if err := builder.ApplyRestriction(spec, location, index, parameter, r); err != nil {
		return t.fail("add enumeration restriction", err), nil
	}

	t.logger.Info("enumeration restriction applied",
		zap.String("spec_id", specID), zap.Int("facet_index", index),
		zap.String("parameter", parameter), zap.Int("values", len(values)))
	return t.jsonResult("add enumeration restriction", map[string]any{
		"status":           "added",
		"restriction_type": "enumeration",
		"spec_id":          specID,
		"facet_index":      index,
		"parameter":        parameter,
		"value_count":      len(values),
	}), nil
}

// ─── AddPatternRestrictionTool ──────────────────────────────────────────────

// AddPatternRestrictionTool handles the add_pattern_restriction MCP tool.
type AddPatternRestrictionTool struct {
	base
}

// NewAddPatternRestrictionTool creates an AddPatternRestrictionTool.
func NewAddPatternRestrictionTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddPatternRestrictionTool {
	return &AddPatternRestrictionTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddPatternRestrictionTool) Definition() mcp.Tool {
	return mcp.NewTool("add_pattern_restriction",
		mcp.WithDescription(
			"Restrict a facet parameter with a regular expression pattern.",
		),
		specIDOption(),
		facetIndexOption(),
		parameterNameOption(),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Regular expression the value must match, e.g. FD[0-9]{2,3}"),
		),
		baseTypeOption("xs:string"),
		restrictionLocationOption(),
	)
}

// Handle processes the add_pattern_restriction tool call.
func (t *AddPatternRestrictionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	pattern := req.GetString("pattern", "")
	if specID == "" || pattern == "" {
		return mcp.NewToolResultError("'spec_id' and 'pattern' are required"), nil
	}
	idx := optIntArg(req, "facet_index")
	if idx == nil {
		return mcp.NewToolResultError("'facet_index' is required"), nil
	}
	index := *idx
	parameter := req.GetString("parameter_name", "")
	if parameter == "" {
		return mcp.NewToolResultError("'parameter_name' is required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add pattern restriction", err), nil
	}
	location := req.GetString("location", builder.LocationRequirements)
	r := builder.Pattern(req.GetString("base_type", "xs:string"), pattern)
	if err := builder.ApplyRestriction(spec, location, index, parameter, r); err != nil {
		return t.fail("add pattern restriction", err), nil
	}

	return t.jsonResult("add pattern restriction", map[string]any{
		"status":           "added",
		"restriction_type": "pattern",
		"spec_id":          specID,
		"facet_index":      index,
		"parameter":        parameter,
		"pattern":          pattern,
	}), nil
}

// ─── AddBoundsRestrictionTool ───────────────────────────────────────────────

// AddBoundsRestrictionTool handles the add_bounds_restriction MCP tool.
type AddBoundsRestrictionTool struct {
	base
}

// NewAddBoundsRestrictionTool creates an AddBoundsRestrictionTool.
func NewAddBoundsRestrictionTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddBoundsRestrictionTool {
	return &AddBoundsRestrictionTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddBoundsRestrictionTool) Definition() mcp.Tool {
	return mcp.NewTool("add_bounds_restriction",
		mcp.WithDescription(
			"Restrict a facet parameter to a numeric range. Supply at least one bound.",
		),
		specIDOption(),
		facetIndexOption(),
		parameterNameOption(),
		mcp.WithNumber("min_inclusive", mcp.Description("Minimum value, inclusive")),
		mcp.WithNumber("max_inclusive", mcp.Description("Maximum value, inclusive")),
		mcp.WithNumber("min_exclusive", mcp.Description("Minimum value, exclusive")),
		mcp.WithNumber("max_exclusive", mcp.Description("Maximum value, exclusive")),
		baseTypeOption("xs:double"),
		restrictionLocationOption(),
	)
}

// Handle processes the add_bounds_restriction tool call.
func (t *AddBoundsRestrictionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	if specID == "" {
		return mcp.NewToolResultError("'spec_id' is required"), nil
	}
	idx := optIntArg(req, "facet_index")
	if idx == nil {
		return mcp.NewToolResultError("'facet_index' is required"), nil
	}
	index := *idx
	parameter := req.GetString("parameter_name", "")
	if parameter == "" {
		return mcp.NewToolResultError("'parameter_name' is required"), nil
	}

	opts := builder.BoundsOpts{
		MinInclusive: floatArg(req, "min_inclusive"),
		MaxInclusive: floatArg(req, "max_inclusive"),
		MinExclusive: floatArg(req, "min_exclusive"),
		MaxExclusive: floatArg(req, "max_exclusive"),
	}
	if opts.MinInclusive == nil && opts.MaxInclusive == nil &&
		opts.MinExclusive == nil && opts.MaxExclusive == nil {
		return mcp.NewToolResultError("at least one bound is required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add bounds restriction", err), nil
	}
	location := req.GetString("location", builder.LocationRequirements)
	r := builder.Bounds(req.GetString("base_type", "xs:double"), opts)
	if err := builder.ApplyRestriction(spec, location, index, parameter, r); err != nil {
		return t.fail("add bounds restriction", err), nil
	}

	bounds := map[string]any{}
	if opts.MinInclusive != nil {
		bounds["min_inclusive"] = *opts.MinInclusive
	}
	if opts.MaxInclusive != nil {
		bounds["max_inclusive"] = *opts.MaxInclusive
	}
	if opts.MinExclusive != nil {
		bounds["min_exclusive"] = *opts.MinExclusive
	}
	if opts.MaxExclusive != nil {
		bounds["max_exclusive"] = *opts.MaxExclusive
	}
	return t.jsonResult("add bounds restriction", map[string]any{
		"status":           "added",
		"restriction_type": "bounds",
		"spec_id":          specID,
		"facet_index":      index,
		"parameter":        parameter,
		"bounds":           bounds,
	}), nil
}

// ─── AddLengthRestrictionTool ───────────────────────────────────────────────

// AddLengthRestrictionTool handles the add_length_restriction MCP tool.
type AddLengthRestrictionTool struct {
	base
}

// NewAddLengthRestrictionTool creates an AddLengthRestrictionTool.
func NewAddLengthRestrictionTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddLengthRestrictionTool {
	return &AddLengthRestrictionTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddLengthRestrictionTool) Definition() mcp.Tool {
	return mcp.NewTool("add_length_restriction",
		mcp.WithDescription(
			"Restrict the character length of a facet parameter. Supply an exact "+
				"length or a min/max range.",
		),
		specIDOption(),
		facetIndexOption(),
		parameterNameOption(),
		mcp.WithNumber("length", mcp.Description("Exact length")),
		mcp.WithNumber("min_length", mcp.Description("Minimum length")),
		mcp.WithNumber("max_length", mcp.Description("Maximum length")),
		baseTypeOption("xs:string"),
		restrictionLocationOption(),
	)
}

// Handle processes the add_length_restriction tool call.
func (t *AddLengthRestrictionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	if specID == "" {
		return mcp.NewToolResultError("'spec_id' is required"), nil
	}
	idx := optIntArg(req, "facet_index")
	if idx == nil {
		return mcp.NewToolResultError("'facet_index' is required"), nil
	}
	index := *idx
	parameter := req.GetString("parameter_name", "")
	if parameter == "" {
		return mcp.NewToolResultError("'parameter_name' is required"), nil
	}

	opts := builder.LengthOpts{
		Length:    optIntArg(req, "length"),
		MinLength: optIntArg(req, "min_length"),
		MaxLength: optIntArg(req, "max_length"),
	}
	if opts.Length == nil && opts.MinLength == nil && opts.MaxLength == nil {
		return mcp.NewToolResultError("at least one of 'length', 'min_length', 'max_length' is required"), nil
	}

	spec, err := t.findSpec(ctx, specID)
	if err != nil {
		return t.fail("add length restriction", err), nil
	}
	location := req.GetString("location", builder.LocationRequirements)
	r := builder.Length(req.GetString("base_type", "xs:string"), opts)
	if err := builder.ApplyRestriction(spec, location, index, parameter, r); err != nil {
		return t.fail("add length restriction", err), nil
	}

	constraints := map[string]any{}
	if opts.Length != nil {
		constraints["length"] = *opts.Length
	}
	if opts.MinLength != nil {
		constraints["min_length"] = *opts.MinLength
	}
	if opts.MaxLength != nil {
		constraints["max_length"] = *opts.MaxLength
	}
	return t.jsonResult("add length restriction", map[string]any{
		"status":           "added",
		"restriction_type": "length",
		"spec_id":          specID,
		"facet_index":      index,
		"parameter":        parameter,
		"constraints":      constraints,
	}), nil
}
