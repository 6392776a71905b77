// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// them. No business logic lives here — only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/ids-mcp/internal/audit"
	"github.com/HendryAvila/ids-mcp/internal/config"
	"github.com/HendryAvila/ids-mcp/internal/prompts"
	"github.com/HendryAvila/ids-mcp/internal/resources"
	"github.com/HendryAvila/ids-mcp/internal/session"
	"github.com/HendryAvila/ids-mcp/internal/tools"
	"github.com/HendryAvila/ids-mcp/internal/validate"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered, and returns the session manager so the
// caller can run the idle-session sweeper alongside the server.
func New(cfg *config.Config, logger *zap.Logger) (*server.MCPServer, *session.Manager) {
	// --- Create shared dependencies ---

	store := session.NewStore()
	manager := session.NewManager(store, logger)

	auditor := audit.NewRunner(audit.Config{
		Enabled: cfg.Audit.Enabled,
		Path:    cfg.Audit.Path,
	}, logger)
	validator := validate.New(auditor, logger)

	mask := cfg.Server.MaskErrors

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		cfg.Server.Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register document tools ---

	createTool := tools.NewCreateIDSTool(manager, logger, mask)
	s.AddTool(createTool.Definition(), createTool.Handle)

	loadTool := tools.NewLoadIDSTool(manager, logger, mask)
	s.AddTool(loadTool.Definition(), loadTool.Handle)

	exportTool := tools.NewExportIDSTool(manager, logger, mask)
	s.AddTool(exportTool.Definition(), exportTool.Handle)

	infoTool := tools.NewGetInfoTool(manager, logger, mask)
	s.AddTool(infoTool.Definition(), infoTool.Handle)

	// --- Register specification and facet tools ---

	specTool := tools.NewAddSpecificationTool(manager, logger, mask)
	s.AddTool(specTool.Definition(), specTool.Handle)

	entityTool := tools.NewAddEntityFacetTool(manager, logger, mask)
	s.AddTool(entityTool.Definition(), entityTool.Handle)

	propertyTool := tools.NewAddPropertyFacetTool(manager, logger, mask)
	s.AddTool(propertyTool.Definition(), propertyTool.Handle)

	attributeTool := tools.NewAddAttributeFacetTool(manager, logger, mask)
	s.AddTool(attributeTool.Definition(), attributeTool.Handle)

	classificationTool := tools.NewAddClassificationFacetTool(manager, logger, mask)
	s.AddTool(classificationTool.Definition(), classificationTool.Handle)

	materialTool := tools.NewAddMaterialFacetTool(manager, logger, mask)
	s.AddTool(materialTool.Definition(), materialTool.Handle)

	partOfTool := tools.NewAddPartOfFacetTool(manager, logger, mask)
	s.AddTool(partOfTool.Definition(), partOfTool.Handle)

	// --- Register restriction tools ---

	enumTool := tools.NewAddEnumerationRestrictionTool(manager, logger, mask)
	s.AddTool(enumTool.Definition(), enumTool.Handle)

	patternTool := tools.NewAddPatternRestrictionTool(manager, logger, mask)
	s.AddTool(patternTool.Definition(), patternTool.Handle)

	boundsTool := tools.NewAddBoundsRestrictionTool(manager, logger, mask)
	s.AddTool(boundsTool.Definition(), boundsTool.Handle)

	lengthTool := tools.NewAddLengthRestrictionTool(manager, logger, mask)
	s.AddTool(lengthTool.Definition(), lengthTool.Handle)

	// --- Register validation tools ---

	validateTool := tools.NewValidateIDSTool(manager, validator, logger, mask)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	modelTool := tools.NewValidateModelTool(manager, validator, logger, mask)
	s.AddTool(modelTool.Definition(), modelTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(manager)
	s.AddResource(resourceHandler.DocumentResource(), resourceHandler.HandleDocument)

	return s, manager
}

// serverInstructions returns the system instructions that tell the AI
// how to use the IDS authoring tools effectively.
func serverInstructions() string {
	return `This server authors buildingSMART IDS (Information Delivery
Specification) documents. An IDS document holds specifications; each
specification has an applicability section (which IFC entities it
applies to) and a requirements section (what those entities must
satisfy).

Typical workflow:
1. create_ids — start a document (or load_ids to continue from a file).
2. add_specification — one per requirement, with target ifc_versions.
3. Add applicability facets (usually add_entity_facet) so the
   specification selects entities, then requirement facets
   (add_property_facet, add_attribute_facet, add_classification_facet,
   add_material_facet, add_partof_facet).
4. Refine facet parameters with add_enumeration_restriction,
   add_pattern_restriction, add_bounds_restriction, or
   add_length_restriction, addressing a facet by its section and
   zero-based index.
5. validate_ids to check the document; export_ids to write the XML.
6. validate_ifc_model to check an IFC file against the specifications.

Rules to remember:
- Only ONE entity facet is allowed per applicability section. To cover
  several entity types, create a separate specification for each.
- Property facets need a property_set (e.g. Pset_WallCommon) to export
  valid IDS.
- Supported IFC versions: IFC2X3, IFC4, IFC4X3_ADD2 (IFC4X3 is accepted
  as an alias).

All state is scoped to your MCP session and lost when it ends — export
the document before disconnecting.`
}
