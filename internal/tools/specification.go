package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/ids-mcp/internal/builder"
	"github.com/HendryAvila/ids-mcp/internal/ids"
	"github.com/HendryAvila/ids-mcp/internal/session"
)

// AddSpecificationTool handles the add_specification MCP tool.
type AddSpecificationTool struct {
	base
}

// NewAddSpecificationTool creates an AddSpecificationTool.
func NewAddSpecificationTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *AddSpecificationTool {
	return &AddSpecificationTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *AddSpecificationTool) Definition() mcp.Tool {
	return mcp.NewTool("add_specification",
		mcp.WithDescription(
			"Add a specification to the current session's IDS document. A specification "+
				"pairs an applicability section (which model elements it governs) with a "+
				"requirements section (what those elements must satisfy).",
		),
		mcp.WithString("name", mcp.Required(), mcp.Description("Specification name")),
		mcp.WithArray("ifc_versions",
			mcp.Required(),
			mcp.Description("IFC versions, e.g. [\"IFC4\"]. Recognized: IFC2X3, IFC4, IFC4X3_ADD2 (IFC4X3 is normalized to IFC4X3_ADD2)."),
			mcp.WithStringItems(),
		),
		mcp.WithString("identifier", mcp.Description("Optional unique identifier")),
		mcp.WithString("description", mcp.Description("Why this information is required")),
		mcp.WithString("instructions", mcp.Description("How to fulfill the requirements")),
		mcp.WithNumber("min_occurs",
			mcp.Description("Minimum applicable-entity occurrences (0 = optional)"),
			mcp.DefaultNumber(0),
		),
		mcp.WithString("max_occurs",
			mcp.Description("Maximum occurrences: a number or 'unbounded'"),
			mcp.DefaultString(ids.Unbounded),
		),
	)
}

// Handle processes the add_specification tool call.
func (t *AddSpecificationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	versions := stringSliceArg(req, "ifc_versions")
	if len(versions) == 0 {
		return mcp.NewToolResultError("'ifc_versions' is required and must be a non-empty array"), nil
	}

	_, doc := t.resolve(ctx)
	specID, normalized, err := builder.AddSpecification(doc, builder.SpecParams{
		Name:         name,
		IFCVersions:  versions,
		Identifier:   req.GetString("identifier", ""),
		Description:  req.GetString("description", ""),
		Instructions: req.GetString("instructions", ""),
		MinOccurs:    intArg(req, "min_occurs", 0),
		MaxOccurs:    req.GetString("max_occurs", ids.Unbounded),
	})
	if err != nil {
		return t.fail("add specification", err), nil
	}

	t.logger.Info("specification added",
		zap.String("spec_id", specID), zap.Strings("ifc_versions", normalized))

	return t.jsonResult("add specification", map[string]any{
		"status":       "added",
		"spec_id":      specID,
		"ifc_versions": normalized,
	}), nil
}
