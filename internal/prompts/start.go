// Package prompts implements MCP prompt handlers for IDS authoring.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the ids-start MCP prompt.
// It guides the AI through authoring a new IDS document from scratch.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("ids-start",
		mcp.WithPromptDescription(
			"Start authoring a new IDS (Information Delivery Specification) document. "+
				"This will guide you from creating the document to adding specifications, "+
				"facets, and exporting valid IDS XML.",
		),
		mcp.WithArgument("title",
			mcp.ArgumentDescription("Title for the IDS document"),
		),
		mcp.WithArgument("ifc_version",
			mcp.ArgumentDescription(
				"Target IFC schema version: IFC2X3, IFC4, or IFC4X3_ADD2. Default: IFC4",
			),
		),
	)
}

// Handle processes the ids-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	title := "My IDS Requirements"
	if args := req.Params.Arguments; args != nil {
		if t, ok := args["title"]; ok && t != "" {
			title = t
		}
	}

	ifcVersion := "IFC4"
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["ifc_version"]; ok && v != "" {
			ifcVersion = v
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Author IDS document: %s", title),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to author an IDS document titled '%s' targeting %s.\n\n"+
						"Please:\n"+
						"1. Run `create_ids` with title='%s' (ask me for author and purpose)\n"+
						"2. Ask me what requirements the model must satisfy\n"+
						"3. For each requirement, run `add_specification` with ifc_versions=['%s'], "+
						"then add applicability facets (which entities it applies to) and "+
						"requirement facets (what those entities must have)\n"+
						"4. Remember: only one entity facet per applicability — one specification "+
						"per entity type\n"+
						"5. Run `validate_ids` to check the document, then `export_ids` to save it\n\n"+
						"Walk me through this step by step and confirm each specification before "+
						"moving on.",
					title, ifcVersion, title, ifcVersion,
				)),
			},
		},
	}, nil
}
