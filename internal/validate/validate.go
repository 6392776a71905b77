// Package validate aggregates the document self-consistency checks with
// the schema round-trip and the external audit tool into one combined
// outcome, and runs IFC models against a document's specifications.
//
// Validation failures here are data, not errors: structural, schema,
// and audit problems are collected into the report payload so that "the
// document is invalid" is a normal, inspectable result.
package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HendryAvila/ids-mcp/internal/audit"
	"github.com/HendryAvila/ids-mcp/internal/fault"
	"github.com/HendryAvila/ids-mcp/internal/ifc"
	"github.com/HendryAvila/ids-mcp/internal/ids"
)

// structuralVersions is the token set tolerated by structural checks.
// Wider than the creation-time set: the pre-normalization IFC4X3 token
// appears in the wild and only warrants a warning.
var structuralVersions = map[string]bool{
	"IFC2X3":      true,
	"IFC4":        true,
	"IFC4X3":      true,
	"IFC4X3_ADD2": true,
}

// Details reports the individual structural verdicts.
type Details struct {
	HasTitle          bool `json:"has_title"`
	HasSpecifications bool `json:"has_specifications"`
	SchemaValid       bool `json:"xsd_valid"`
}

// Report is the combined validation outcome. Warnings never affect
// Valid.
type Report struct {
	Valid               bool          `json:"valid"`
	Errors              []string      `json:"errors"`
	Warnings            []string      `json:"warnings"`
	SpecificationsCount int           `json:"specifications_count"`
	Details             Details       `json:"details"`
	AuditTool           *audit.Result `json:"audit_tool,omitempty"`
}

// Validator fans out to the schema round-trip and the external audit
// runner and merges their findings with locally computed checks.
type Validator struct {
	auditor *audit.Runner
	logger  *zap.Logger
}

// New creates a Validator.
func New(auditor *audit.Runner, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{auditor: auditor, logger: logger}
}

// Document validates the document. With runExternalAudit set (and the
// audit runner enabled), the serialized document is also fed to the
// external audit executable and its findings merged in.
func (v *Validator) Document(ctx context.Context, doc *ids.Document, runExternalAudit bool) Report {
	report := Report{
		Errors:              []string{},
		Warnings:            []string{},
		SpecificationsCount: len(doc.Specifications),
	}

	// 1. Structural checks, independent of all external tooling.
	report.Details.HasTitle = doc.Info.Title != ""
	if !report.Details.HasTitle {
		report.Errors = append(report.Errors, "IDS must have a title")
	}
	report.Details.HasSpecifications = len(doc.Specifications) > 0
	if !report.Details.HasSpecifications {
		report.Errors = append(report.Errors, "IDS must have at least one specification")
	}
	for i, spec := range doc.Specifications {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("Specification %d", i)
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("specification at index %d has no name", i))
		}
		if len(spec.Applicability) == 0 {
			report.Errors = append(report.Errors, fmt.Sprintf(
				"specification %q (index %d) has no applicability facets; at least one is required",
				name, i))
		}
		for _, version := range spec.IFCVersion {
			if !structuralVersions[version] {
				report.Warnings = append(report.Warnings, fmt.Sprintf(
					"specification %q uses non-standard IFC version: %s", name, version))
			}
		}
	}

	// 2. Schema round-trip: serialize, then re-parse with schema checks.
	report.Details.SchemaValid = true
	if err := roundTrip(doc); err != nil {
		report.Details.SchemaValid = false
		report.Errors = append(report.Errors, fmt.Sprintf("schema validation failed: %v", err))
	}

	structuralValid := len(report.Errors) == 0

	// 3. External audit.
	auditValid := true
	if runExternalAudit && v.auditor.Enabled() {
		result := v.runAudit(ctx, doc)
		report.AuditTool = &result
		auditValid = result.Valid
		for _, e := range result.Errors {
			report.Errors = append(report.Errors, "audit tool: "+e)
		}
		for _, w := range result.Warnings {
			report.Warnings = append(report.Warnings, "audit tool: "+w)
		}
	}

	report.Valid = structuralValid && auditValid
	v.logger.Info("document validation complete",
		zap.Bool("valid", report.Valid),
		zap.Int("errors", len(report.Errors)),
		zap.Int("warnings", len(report.Warnings)))
	return report
}

func roundTrip(doc *ids.Document) error {
	text, err := doc.ToString()
	if err != nil {
		return err
	}
	_, err = ids.FromString(text, true)
	return err
}

// runAudit serializes the document to a temporary file, audits it, and
// removes the file on every exit path. Serialization problems degrade
// to an invalid audit result rather than aborting validation.
func (v *Validator) runAudit(ctx context.Context, doc *ids.Document) audit.Result {
	tmpPath := filepath.Join(os.TempDir(), "ids-"+uuid.NewString()+".ids")
	defer func() {
		// Best-effort: a leftover temp file is not worth failing over.
		_ = os.Remove(tmpPath)
	}()

	if err := doc.ToFile(tmpPath); err != nil {
		v.logger.Warn("audit export failed", zap.Error(err))
		return audit.Result{
			Valid:    false,
			ExitCode: -1,
			Output:   fmt.Sprintf("error exporting document for audit: %v", err),
			Errors:   []string{fmt.Sprintf("error exporting document for audit: %v", err)},
		}
	}
	return v.auditor.Run(ctx, tmpPath)
}

// ─── Model validation ───────────────────────────────────────────────────────

// Report kinds accepted by Model.
const (
	ReportConsole = "console"
	ReportJSON    = "json"
	ReportHTML    = "html"
)

// ModelReport is the outcome of running a model against the document.
type ModelReport struct {
	Status               string                    `json:"status"`
	Format               string                    `json:"format"`
	TotalSpecifications  int                       `json:"total_specifications"`
	PassedSpecifications int                       `json:"passed_specifications"`
	FailedSpecifications int                       `json:"failed_specifications"`
	Specifications       []ifc.SpecificationReport `json:"specifications,omitempty"`
	Raw                  *ifc.Report               `json:"raw_report,omitempty"`
	HTML                 string                    `json:"html,omitempty"`
}

// Model validates an IFC model at modelPath against the document's
// specifications and renders the engine's report in the requested
// format.
func (v *Validator) Model(ctx context.Context, doc *ids.Document, modelPath, reportKind string) (*ModelReport, error) {
	if reportKind != ReportConsole && reportKind != ReportJSON && reportKind != ReportHTML {
		return nil, fault.New(fault.InvalidArgument,
			"invalid report format: %s. Must be 'console', 'json', or 'html'", reportKind)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fault.Wrap(fault.NotFound, err, "IFC file not found: %s", modelPath)
	}
	if len(doc.Specifications) == 0 {
		return nil, fault.New(fault.InvalidArgument, "IDS has no specifications to validate against")
	}

	v.logger.Info("loading IFC model", zap.String("path", modelPath))
	model, err := ifc.Open(modelPath)
	if err != nil {
		return nil, fault.Wrap(fault.ParseError, err, "failed to load IFC model: %v", err)
	}

	ifc.RunAgainstModel(doc, model)
	native := ifc.BuildReport(doc)

	report := &ModelReport{
		Status:              "validation_complete",
		Format:              reportKind,
		TotalSpecifications: len(doc.Specifications),
	}
	for _, sr := range native.Specifications {
		switch sr.Status {
		case ifc.StatusPassed:
			report.PassedSpecifications++
		case ifc.StatusFailed:
			report.FailedSpecifications++
		}
	}

	switch reportKind {
	case ReportConsole:
		// Stdout carries the MCP transport; console output goes to
		// stderr like all other diagnostics.
		ifc.ConsoleReport(doc, os.Stderr)
	case ReportJSON:
		report.Specifications = native.Specifications
		report.Raw = &native
	case ReportHTML:
		report.HTML = ifc.HTMLReport(doc)
	}
	return report, nil
}

// Summarize renders a compact pass/fail line for logs.
func (r *ModelReport) Summarize() string {
	return strings.TrimSpace(fmt.Sprintf("%d specifications: %d passed, %d failed",
		r.TotalSpecifications, r.PassedSpecifications, r.FailedSpecifications))
}
