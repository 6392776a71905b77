package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/ids-mcp/internal/ids"
	"github.com/HendryAvila/ids-mcp/internal/session"
)

// specSummary is the per-specification shape used by load/info results.
type specSummary struct {
	Identifier          string   `json:"identifier,omitempty"`
	Name                string   `json:"name"`
	IFCVersions         []string `json:"ifc_versions"`
	ApplicabilityFacets int      `json:"applicability_facets"`
	RequirementFacets   int      `json:"requirement_facets"`
}

func summarize(doc *ids.Document) []specSummary {
	out := make([]specSummary, 0, len(doc.Specifications))
	for _, spec := range doc.Specifications {
		out = append(out, specSummary{
			Identifier:          spec.Identifier,
			Name:                spec.Name,
			IFCVersions:         spec.IFCVersion,
			ApplicabilityFacets: len(spec.Applicability),
			RequirementFacets:   len(spec.Requirements),
		})
	}
	return out
}

// ─── CreateIDSTool ──────────────────────────────────────────────────────────

// CreateIDSTool handles the create_ids MCP tool. It starts a fresh
// document for the caller's session, replacing any prior one.
type CreateIDSTool struct {
	base
}

// NewCreateIDSTool creates a CreateIDSTool.
func NewCreateIDSTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *CreateIDSTool {
	return &CreateIDSTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateIDSTool) Definition() mcp.Tool {
	return mcp.NewTool("create_ids",
		mcp.WithDescription(
			"Create a new IDS (Information Delivery Specification) document for this "+
				"session, replacing any document the session already holds. The session is "+
				"tracked automatically — no session id parameter is needed.",
		),
		mcp.WithString("title", mcp.Required(), mcp.Description("Document title")),
		mcp.WithString("author", mcp.Description("Author email or name")),
		mcp.WithString("version", mcp.Description("Version string")),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format")),
		mcp.WithString("description", mcp.Description("Document description")),
		mcp.WithString("copyright", mcp.Description("Copyright notice")),
		mcp.WithString("milestone", mcp.Description("Project milestone")),
		mcp.WithString("purpose", mcp.Description("Purpose of this IDS")),
	)
}

// Handle processes the create_ids tool call.
func (t *CreateIDSTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	doc := ids.New(ids.Info{
		Title:       title,
		Author:      req.GetString("author", ""),
		Version:     req.GetString("version", ""),
		Date:        req.GetString("date", ""),
		Description: req.GetString("description", ""),
		Copyright:   req.GetString("copyright", ""),
		Milestone:   req.GetString("milestone", ""),
		Purpose:     req.GetString("purpose", ""),
	})

	id := session.FromContext(ctx)
	t.manager.Attach(id, doc)
	t.logger.Info("IDS created", zap.String("session_id", id), zap.String("title", title))

	return t.jsonResult("create IDS", map[string]any{
		"status":     "created",
		"session_id": id,
		"title":      title,
	}), nil
}

// ─── LoadIDSTool ────────────────────────────────────────────────────────────

// LoadIDSTool handles the load_ids MCP tool: parse an existing IDS
// file or XML string into the current session, replacing its document.
type LoadIDSTool struct {
	base
}

// NewLoadIDSTool creates a LoadIDSTool.
func NewLoadIDSTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *LoadIDSTool {
	return &LoadIDSTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *LoadIDSTool) Definition() mcp.Tool {
	return mcp.NewTool("load_ids",
		mcp.WithDescription(
			"Load an existing IDS document into the current session, replacing any "+
				"in-progress document. The source is a file path or a literal XML string.",
		),
		mcp.WithString("source", mcp.Required(), mcp.Description("File path or XML string")),
		mcp.WithString("source_type",
			mcp.Description("How to interpret 'source'"),
			mcp.DefaultString("file"),
			mcp.Enum("file", "string"),
		),
	)
}

// Handle processes the load_ids tool call.
func (t *LoadIDSTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := req.GetString("source", "")
	if source == "" {
		return mcp.NewToolResultError("'source' is required"), nil
	}
	kind := session.SourceKind(req.GetString("source_type", "file"))

	doc, err := t.manager.LoadFromSource(session.FromContext(ctx), source, kind)
	if err != nil {
		return t.fail("load IDS", err), nil
	}

	return t.jsonResult("load IDS", map[string]any{
		"status":              "loaded",
		"title":               doc.Info.Title,
		"author":              doc.Info.Author,
		"specification_count": len(doc.Specifications),
		"specifications":      summarize(doc),
	}), nil
}

// ─── ExportIDSTool ──────────────────────────────────────────────────────────

// ExportIDSTool handles the export_ids MCP tool: serialize the current
// session's document to a file or an XML string, optionally checking it
// against the schema on the way out.
type ExportIDSTool struct {
	base
}

// NewExportIDSTool creates an ExportIDSTool.
func NewExportIDSTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *ExportIDSTool {
	return &ExportIDSTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportIDSTool) Definition() mcp.Tool {
	return mcp.NewTool("export_ids",
		mcp.WithDescription(
			"Export the current session's IDS document as XML. With output_path the "+
				"document is written to a file; otherwise the XML string is returned.",
		),
		mcp.WithString("output_path", mcp.Description("Destination file path (optional)")),
		mcp.WithBoolean("validate",
			mcp.Description("Re-parse the exported XML with schema checks"),
			mcp.DefaultBool(true),
		),
	)
}

// Handle processes the export_ids tool call.
func (t *ExportIDSTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, doc := t.resolve(ctx)
	outputPath := req.GetString("output_path", "")
	check := boolArg(req, "validate", true)

	xmlText, err := doc.ToString()
	if err != nil {
		return t.fail("export IDS", err), nil
	}

	validation := map[string]any{"valid": true, "errors": []string{}}
	if check {
		if _, parseErr := ids.FromString(xmlText, true); parseErr != nil {
			validation["valid"] = false
			validation["errors"] = []string{parseErr.Error()}
		}
	}

	if outputPath != "" {
		if err := doc.ToFile(outputPath); err != nil {
			return t.fail("export IDS", err), nil
		}
		t.logger.Info("IDS exported", zap.String("path", outputPath))
		return t.jsonResult("export IDS", map[string]any{
			"status":     "exported",
			"file_path":  outputPath,
			"validation": validation,
		}), nil
	}

	return t.jsonResult("export IDS", map[string]any{
		"status":     "exported",
		"xml":        xmlText,
		"validation": validation,
	}), nil
}

// ─── GetInfoTool ────────────────────────────────────────────────────────────

// GetInfoTool handles the get_ids_info MCP tool.
type GetInfoTool struct {
	base
}

// NewGetInfoTool creates a GetInfoTool.
func NewGetInfoTool(manager *session.Manager, logger *zap.Logger, maskErrors bool) *GetInfoTool {
	return &GetInfoTool{base: newBase(manager, logger, maskErrors)}
}

// Definition returns the MCP tool definition for registration.
func (t *GetInfoTool) Definition() mcp.Tool {
	return mcp.NewTool("get_ids_info",
		mcp.WithDescription(
			"Get the current session's IDS document structure: metadata plus a "+
				"per-specification facet summary.",
		),
	)
}

// Handle processes the get_ids_info tool call.
func (t *GetInfoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, doc := t.resolve(ctx)

	return t.jsonResult("get IDS info", map[string]any{
		"title":               doc.Info.Title,
		"author":              doc.Info.Author,
		"version":             doc.Info.Version,
		"description":         doc.Info.Description,
		"specification_count": len(doc.Specifications),
		"specifications":      summarize(doc),
	}), nil
}
