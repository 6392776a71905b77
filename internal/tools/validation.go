package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/ids-mcp/internal/session"
	"github.com/HendryAvila/ids-mcp/internal/validate"
)

// ValidateIDSTool handles the validate_ids MCP tool. Validation
// problems are reported in the payload, not as tool errors.
type ValidateIDSTool struct {
	base
	validator *validate.Validator
}

// NewValidateIDSTool creates a ValidateIDSTool.
func NewValidateIDSTool(manager *session.Manager, validator *validate.Validator, logger *zap.Logger, maskErrors bool) *ValidateIDSTool {
	return &ValidateIDSTool{base: newBase(manager, logger, maskErrors), validator: validator}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateIDSTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_ids",
		mcp.WithDescription(
			"Validate the session's IDS document: structural checks, schema "+
				"round-trip, and the external audit tool when available.",
		),
		mcp.WithBoolean("run_audit",
			mcp.Description("Run the external audit tool if configured"),
			mcp.DefaultBool(true),
		),
	)
}

// Handle processes the validate_ids tool call.
func (t *ValidateIDSTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, doc := t.resolve(ctx)
	report := t.validator.Document(ctx, doc, boolArg(req, "run_audit", true))

	t.logger.Info("document validated",
		zap.String("session_id", id),
		zap.Bool("valid", report.Valid),
		zap.Int("errors", len(report.Errors)))
	return t.jsonResult("validate document", report), nil
}

// ValidateModelTool handles the validate_ifc_model MCP tool.
type ValidateModelTool struct {
	base
	validator *validate.Validator
}

// NewValidateModelTool creates a ValidateModelTool.
func NewValidateModelTool(manager *session.Manager, validator *validate.Validator, logger *zap.Logger, maskErrors bool) *ValidateModelTool {
	return &ValidateModelTool{base: newBase(manager, logger, maskErrors), validator: validator}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateModelTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_ifc_model",
		mcp.WithDescription(
			"Check an IFC model file against the session's IDS specifications and "+
				"report which entities pass or fail each requirement.",
		),
		mcp.WithString("ifc_file_path",
			mcp.Required(),
			mcp.Description("Path to the IFC (SPF) model file"),
		),
		mcp.WithString("report_format",
			mcp.Description("Report format"),
			mcp.DefaultString(validate.ReportJSON),
			mcp.Enum(validate.ReportJSON, validate.ReportConsole, validate.ReportHTML),
		),
	)
}

// Handle processes the validate_ifc_model tool call.
func (t *ValidateModelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelPath := req.GetString("ifc_file_path", "")
	if modelPath == "" {
		return mcp.NewToolResultError("'ifc_file_path' is required"), nil
	}

	id, doc := t.resolve(ctx)
	report, err := t.validator.Model(ctx, doc, modelPath, req.GetString("report_format", validate.ReportJSON))
	if err != nil {
		return t.fail("validate model", err), nil
	}

	t.logger.Info("model validated",
		zap.String("session_id", id),
		zap.String("model", modelPath),
		zap.Int("passed", report.PassedSpecifications),
		zap.Int("failed", report.FailedSpecifications))
	return t.jsonResult("validate model", report), nil
}
