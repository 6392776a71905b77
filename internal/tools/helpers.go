// Package tools implements the MCP tool handlers for IDS document
// authoring.
//
// Each tool is a struct with dependencies injected via its constructor,
// a Definition() returning the mcp.Tool schema, and a Handle method
// compatible with mcp-go's CallToolRequest signature. The caller's
// session id is never a tool parameter — it is resolved from the MCP
// client session attached to the request context.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/ids-mcp/internal/builder"
	"github.com/HendryAvila/ids-mcp/internal/fault"
	"github.com/HendryAvila/ids-mcp/internal/ids"
	"github.com/HendryAvila/ids-mcp/internal/session"
)

// base carries the dependencies every IDS tool shares.
type base struct {
	manager *session.Manager
	logger  *zap.Logger
	// maskErrors hides internal detail on unexpected failures.
	maskErrors bool
}

func newBase(manager *session.Manager, logger *zap.Logger, maskErrors bool) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{manager: manager, logger: logger, maskErrors: maskErrors}
}

// resolve returns the caller's session id and document, creating the
// session on first access.
func (b base) resolve(ctx context.Context) (string, *ids.Document) {
	id := session.FromContext(ctx)
	return id, b.manager.ResolveOrCreate(id)
}

// fail converts an error into a tool error result. Classified faults
// surface their message as-is; anything else is logged in full and
// surfaced masked when configured.
func (b base) fail(op string, err error) *mcp.CallToolResult {
	if kind, ok := fault.KindOf(err); ok {
		b.logger.Debug("tool call rejected",
			zap.String("op", op), zap.Stringer("kind", kind), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", op, err))
	}
	b.logger.Error("tool call failed", zap.String("op", op), zap.Error(err))
	if b.maskErrors {
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: internal error", op))
	}
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", op, err))
}

// jsonResult marshals a structured payload into a text result.
func (b base) jsonResult(op string, payload any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return b.fail(op, err)
	}
	return mcp.NewToolResultText(string(data))
}

// findSpec resolves a spec locator against the caller's document.
func (b base) findSpec(ctx context.Context, locator string) (*ids.Specification, error) {
	_, doc := b.resolve(ctx)
	return builder.FindSpecification(doc, locator)
}

// stringSliceArg extracts a []string argument. JSON arrays arrive as
// []any; anything else yields nil.
func stringSliceArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// intArg extracts an integer argument, returning defaultVal if the key
// is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// floatArg extracts an optional float argument as a pointer; nil when
// absent.
func floatArg(req mcp.CallToolRequest, key string) *float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return nil
	}
	return &v
}

// optIntArg extracts an optional integer argument as a pointer; nil
// when absent.
func optIntArg(req mcp.CallToolRequest, key string) *int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}
