package ifc

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/HendryAvila/ids-mcp/internal/ids"
)

// Specification statuses reported after a model run.
const (
	StatusPassed       = "passed"
	StatusFailed       = "failed"
	StatusNoApplicable = "no_applicable_entities"
)

// RequirementReport summarizes one requirement facet's outcome.
type RequirementReport struct {
	Description    string   `json:"description"`
	PassedEntities int      `json:"passed_entities"`
	FailedEntities int      `json:"failed_entities"`
	Failed         []string `json:"failed,omitempty"`
}

// SpecificationReport summarizes one specification's outcome.
type SpecificationReport struct {
	Name               string              `json:"name"`
	Status             string              `json:"status"`
	ApplicableEntities int                 `json:"applicable_entities"`
	PassedEntities     int                 `json:"passed_entities"`
	FailedEntities     int                 `json:"failed_entities"`
	Requirements       []RequirementReport `json:"requirements"`
}

// Report is the structured outcome of a model run.
type Report struct {
	Title          string                `json:"title"`
	Specifications []SpecificationReport `json:"specifications"`
}

// BuildReport derives the per-specification summary from the outcome
// bookkeeping RunAgainstModel recorded on the document.
func BuildReport(doc *ids.Document) Report {
	report := Report{Title: doc.Info.Title}
	for i, spec := range doc.Specifications {
		sr := SpecificationReport{Name: spec.Name}
		if sr.Name == "" {
			sr.Name = fmt.Sprintf("Specification %d", i)
		}
		for _, f := range spec.Requirements {
			outcome := f.Result()
			sr.PassedEntities += len(outcome.PassedEntities)
			sr.FailedEntities += len(outcome.FailedEntities)
			sr.Requirements = append(sr.Requirements, RequirementReport{
				Description:    describeFacet(f),
				PassedEntities: len(outcome.PassedEntities),
				FailedEntities: len(outcome.FailedEntities),
				Failed:         outcome.FailedEntities,
			})
		}
		sr.ApplicableEntities = sr.PassedEntities + sr.FailedEntities
		switch {
		case sr.FailedEntities > 0:
			sr.Status = StatusFailed
		case sr.ApplicableEntities > 0:
			sr.Status = StatusPassed
		default:
			sr.Status = StatusNoApplicable
		}
		report.Specifications = append(report.Specifications, sr)
	}
	return report
}

func describeFacet(f ids.Facet) string {
	switch v := f.(type) {
	case *ids.Entity:
		return fmt.Sprintf("is a %s", v.Name.Text())
	case *ids.Property:
		return fmt.Sprintf("has property %s in %s", v.BaseName.Text(), v.PropertySet.Text())
	case *ids.Attribute:
		return fmt.Sprintf("has attribute %s", v.Name.Text())
	case *ids.Classification:
		return fmt.Sprintf("is classified as %s", v.Value.Text())
	case *ids.Material:
		return fmt.Sprintf("has material %s", v.Value.Text())
	case *ids.PartOf:
		return fmt.Sprintf("is part of %s", v.Name.Text())
	default:
		return f.Kind().String()
	}
}

// ConsoleReport writes a plain-text report to w.
func ConsoleReport(doc *ids.Document, w io.Writer) {
	report := BuildReport(doc)
	fmt.Fprintf(w, "IDS: %s\n", report.Title)
	for _, sr := range report.Specifications {
		fmt.Fprintf(w, "  [%s] %s (%d applicable, %d passed, %d failed)\n",
			strings.ToUpper(sr.Status), sr.Name,
			sr.ApplicableEntities, sr.PassedEntities, sr.FailedEntities)
		for _, rr := range sr.Requirements {
			marker := "PASS"
			if rr.FailedEntities > 0 {
				marker = "FAIL"
			}
			fmt.Fprintf(w, "    %s %s (%d/%d)\n",
				marker, rr.Description, rr.PassedEntities, rr.PassedEntities+rr.FailedEntities)
		}
	}
}

// HTMLReport renders the report as a standalone HTML document.
func HTMLReport(doc *ids.Document) string {
	report := BuildReport(doc)
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><title>")
	b.WriteString(html.EscapeString(report.Title))
	b.WriteString("</title></head><body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(report.Title))
	for _, sr := range report.Specifications {
		fmt.Fprintf(&b, "<h2 class=%q>%s — %s</h2>\n",
			sr.Status, html.EscapeString(sr.Name), sr.Status)
		fmt.Fprintf(&b, "<p>%d applicable, %d passed, %d failed</p>\n<ul>\n",
			sr.ApplicableEntities, sr.PassedEntities, sr.FailedEntities)
		for _, rr := range sr.Requirements {
			fmt.Fprintf(&b, "<li>%s: %d passed, %d failed</li>\n",
				html.EscapeString(rr.Description), rr.PassedEntities, rr.FailedEntities)
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</body></html>\n")
	return b.String()
}
