// Package resources implements MCP resource handlers for IDS authoring.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (ids://...) following MCP
// conventions.
package resources

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/ids-mcp/internal/session"
)

// DocumentURI addresses the caller's in-progress IDS document.
const DocumentURI = "ids://session/document"

// Handler manages IDS resource endpoints.
type Handler struct {
	manager *session.Manager
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(manager *session.Manager) *Handler {
	return &Handler{manager: manager}
}

// DocumentResource returns the MCP resource definition for the
// session's IDS document.
func (h *Handler) DocumentResource() mcp.Resource {
	return mcp.NewResource(
		DocumentURI,
		"Current IDS Document",
		mcp.WithResourceDescription("The session's in-progress IDS document as XML"),
		mcp.WithMIMEType("application/xml"),
	)
}

// HandleDocument returns the caller's current IDS document serialized
// as IDS XML.
func (h *Handler) HandleDocument(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc := h.manager.ResolveOrCreate(session.FromContext(ctx))

	text, err := doc.ToString()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/xml",
			Text:     text,
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
