package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
)

// fallbackID scopes callers with no MCP client session (e.g. direct
// handler invocation in tests) to one shared per-process session.
var fallbackID = "local-" + uuid.NewString()

// FromContext resolves the caller's session id from the MCP client
// session attached to the request context.
func FromContext(ctx context.Context) string {
	if cs := server.ClientSessionFromContext(ctx); cs != nil {
		if id := cs.SessionID(); id != "" {
			return id
		}
	}
	return fallbackID
}
