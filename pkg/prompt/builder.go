// Package prompt implements the Prompt Builder (spec.md 4.4): template
// selection plus system/user prompt rendering for the LLM-class generators.
package prompt

import (
	"fmt"
	"strings"

	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/schema"
)

// Template names the five families of spec.md 4.4.
type Template string

const (
	EdgeCase    Template = "EDGE_CASE"
	Coherent    Template = "COHERENT"
	TextContent Template = "TEXT_CONTENT"
	RAG         Template = "RAG"
	General     Template = "GENERAL"
)

var textHeavyEntities = map[string]bool{"review": true, "comment": true, "feedback": true}

const outputContract = "You must return a JSON array of objects and nothing else: no prose, no markdown fences, no preamble. Each object must include the keys \"_scenario\" and \"_index\"."

// RetrievalExample is a retrieved pattern fed into the RAG template.
type RetrievalExample struct {
	ID   string
	Data string
}

// Choose selects a template per the fixed priority order of spec.md 4.4.
func Choose(req *model.GenerateRequest, retrievalExamples []RetrievalExample) Template {
	if req.Flags.DefectTriggering || req.Hints.Intersects("edge_case", "defect") {
		return EdgeCase
	}
	if (req.Entity == "cart" || req.Entity == "order") && req.Hints.Intersects("coherent", "realistic") {
		return Coherent
	}
	if textHeavyEntities[req.Entity] {
		return TextContent
	}
	if len(retrievalExamples) > 0 {
		return RAG
	}
	return General
}

// Build renders (system_prompt, user_prompt) for req against sch (may be
// nil), using up to 5 retrieval examples.
func Build(req *model.GenerateRequest, sch *schema.Schema, retrievalExamples []RetrievalExample) (system, user string, tmpl Template) {
	tmpl = Choose(req, retrievalExamples)

	var sb strings.Builder
	sb.WriteString(personaFor(tmpl))
	sb.WriteString("\n\n")
	sb.WriteString(outputContract)
	system = sb.String()

	var ub strings.Builder
	fmt.Fprintf(&ub, "Generate %d records for entity %q in domain %q.\n\n", req.Count, req.Entity, req.Domain)
	if req.Context != "" {
		fmt.Fprintf(&ub, "Context: %s\n\n", req.Context)
	}

	if sch != nil {
		ub.WriteString("Schema:\n")
		ub.WriteString(renderSchema(sch))
		if len(sch.CoherenceRules) > 0 {
			ub.WriteString("\nCoherence rules:\n")
			for _, rule := range sch.CoherenceRules {
				fmt.Fprintf(&ub, "- %s\n", rule)
			}
		}
		ub.WriteString("\n")
	}

	if len(req.Constraints) > 0 {
		ub.WriteString("Constraints:\n")
		for path, c := range req.Constraints {
			fmt.Fprintf(&ub, "- %s: %s\n", path, renderConstraint(c))
		}
		ub.WriteString("\n")
	}

	if len(req.Scenarios) > 0 {
		ub.WriteString("Scenario breakdown:\n")
		for _, sc := range req.Scenarios {
			fmt.Fprintf(&ub, "- %s: %d records", sc.Name, sc.Count)
			if sc.Description != "" {
				fmt.Fprintf(&ub, " (%s)", sc.Description)
			}
			ub.WriteString("\n")
		}
		ub.WriteString("\n")
	}

	if len(retrievalExamples) > 0 {
		ub.WriteString("Retrieved examples:\n")
		for i, ex := range retrievalExamples {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&ub, "%d) %s\n", i+1, ex.Data)
		}
		ub.WriteString("\n")
	}

	if tmpl == EdgeCase {
		ub.WriteString("Include boundary, unicode, empty-value, timezone, injection-string, and precision edge cases.\n")
	}

	user = ub.String()
	return system, user, tmpl
}

func personaFor(tmpl Template) string {
	base := "You are a precise synthetic test-data generator for a retail test-automation platform."
	switch tmpl {
	case EdgeCase:
		return base + " Your focus is adversarial edge cases that exercise boundary conditions."
	case Coherent:
		return base + " Your focus is internally-consistent, realistic shopping behaviour."
	case TextContent:
		return base + " Your focus is natural, varied free-text content."
	case RAG:
		return base + " You adapt the given examples into new, varied records."
	default:
		return base
	}
}

func renderSchema(sch *schema.Schema) string {
	var sb strings.Builder
	for _, name := range sch.FieldOrder {
		fd := sch.Fields[name]
		if fd == nil {
			continue
		}
		renderField(&sb, name, fd, 0)
	}
	return sb.String()
}

func renderField(sb *strings.Builder, name string, fd *schema.FieldDef, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s- %s: %s", indent, name, fd.Type)
	if fd.Required {
		sb.WriteString(" (required)")
	}
	if fd.Format != "" {
		fmt.Fprintf(sb, " format=%s", fd.Format)
	}
	if fd.Description != "" {
		fmt.Fprintf(sb, " -- %s", fd.Description)
	}
	sb.WriteString("\n")

	for _, nested := range fd.FieldOrder {
		if nf := fd.Fields[nested]; nf != nil {
			renderField(sb, nested, nf, depth+1)
		}
	}
	if fd.ItemSchema != nil {
		renderField(sb, name+"[]", fd.ItemSchema, depth+1)
	}
}

func renderConstraint(c model.ConstraintSpec) string {
	var parts []string
	if c.Min != nil {
		parts = append(parts, fmt.Sprintf("min=%v", *c.Min))
	}
	if c.Max != nil {
		parts = append(parts, fmt.Sprintf("max=%v", *c.Max))
	}
	if c.MinLength != nil {
		parts = append(parts, fmt.Sprintf("min_length=%v", *c.MinLength))
	}
	if c.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("max_length=%v", *c.MaxLength))
	}
	if len(c.EnumValues) > 0 {
		parts = append(parts, fmt.Sprintf("enum=%v", c.EnumValues))
	}
	if c.Regex != "" {
		parts = append(parts, fmt.Sprintf("regex=%s", c.Regex))
	}
	return strings.Join(parts, ", ")
}
