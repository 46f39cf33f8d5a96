// Package prompts builds the static system prompts for each loop phase,
// rendered through text/template so each phase's prompt is a plain string
// constant rather than assembled with ad-hoc concatenation.
package prompts

import (
	"bytes"
	"text/template"
)

func render(name, tmpl string, data any) string {
	t := template.Must(template.New(name).Parse(tmpl))
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// All inputs are plain strings/bools under our control; a
		// template execution failure here means a template bug, not a
		// runtime condition callers should recover from.
		panic(err)
	}
	return buf.String()
}

// PlanningInput supplies the paths and context the planning prompt
// enumerates.
type PlanningInput struct {
	Focus     string
	SpecsPath string
	PlanPath  string
	Review    string
	HasReview bool
}

const planningTemplate = `You are the planning phase of an autonomous coding loop.

Focus: {{.Focus}}

Specs directory (read/write): {{.SpecsPath}}
Plan file (write your plan here): {{.PlanPath}}
Source code is read-only in this phase.

Produce a plan for the focus above. Emit exactly one terminal marker:
<PLAN_COMPLETE>summary</PLAN_COMPLETE> once the plan file is written, or
<SPEC_ISSUE>description</SPEC_ISSUE> if the focus cannot be resolved
without human clarification.
{{if .HasReview}}
The previous iteration's review requested changes:

{{.Review}}
{{end}}`

// Planning renders the planning phase's system prompt.
func Planning(in PlanningInput) string {
	return render("planning", planningTemplate, in)
}

// ImplementingInput supplies the paths the implementing prompt
// enumerates.
type ImplementingInput struct {
	Focus           string
	SpecsPath       string
	TranscriptPath  string
	CheckOutputPath string
	HasCheckOutput  bool
}

const implementingTemplate = `You are the implementing phase of an autonomous coding loop.

Focus: {{.Focus}}

Specs directory (read-only): {{.SpecsPath}}
Plan and progress log (read-only, written by the planning phase and your
own prior progress markers): {{.TranscriptPath}}
Source code is writable in this phase.
{{if .HasCheckOutput}}
Latest check command output (read-only): {{.CheckOutputPath}}
{{end}}
Emit exactly one terminal marker when you stop working this turn:
<PROGRESS>summary of this turn's work</PROGRESS> if more work remains and
you want another turn, <DONE>summary</DONE> once the focus is fully
implemented, or <SPEC_ISSUE>description</SPEC_ISSUE> if you cannot
proceed without human clarification. You may also emit <NOTE>text</NOTE>
inline without ending the turn.`

// Implementing renders the implementing phase's system prompt.
func Implementing(in ImplementingInput) string {
	return render("implementing", implementingTemplate, in)
}

// ReviewingInput supplies the paths the reviewing prompt enumerates.
type ReviewingInput struct {
	Focus           string
	SpecsPath       string
	TranscriptPath  string
	CheckOutputPath string
	HasCheckOutput  bool
	Diff            string
	HasDiff         bool
}

const reviewingTemplate = `You are the reviewing phase of an autonomous coding loop.

Focus: {{.Focus}}

Specs directory (read-only): {{.SpecsPath}}
Plan and progress log (read-only): {{.TranscriptPath}}
{{if .HasCheckOutput}}
Latest check command output (read-only): {{.CheckOutputPath}}
{{end}}
{{if .HasDiff}}
Advisory diff against the run's baseline commit:

{{.Diff}}
{{end}}
Emit exactly one terminal marker: <APPROVED>summary</APPROVED> if the
work satisfies the focus, <REQUEST_CHANGES>what needs to change</REQUEST_CHANGES>
otherwise, or <SPEC_ISSUE>description</SPEC_ISSUE> if the focus itself is
ambiguous.`

// Reviewing renders the reviewing phase's system prompt.
func Reviewing(in ReviewingInput) string {
	return render("reviewing", reviewingTemplate, in)
}

// AuditInput supplies the paths the audit prompt enumerates.
type AuditInput struct {
	SpecsPath   string
	BacklogPath string
}

const auditSystemTemplate = `You are the audit agent, running as a background side-channel while the
watch supervisor is otherwise idle.

Specs directory: {{.SpecsPath}}
Backlog directory: {{.BacklogPath}}

Review the codebase for anything worth a human's attention that does not
warrant its own backlog item or spec issue. For each such observation,
emit <TO_BE_DISCUSSED>description</TO_BE_DISCUSSED>. Emit nothing if you
find nothing worth raising.`

const auditPromptText = "Audit the codebase for anything worth flagging to the human for later discussion."

// AuditSystem renders the audit phase's system prompt.
func AuditSystem(in AuditInput) string {
	return render("auditSystem", auditSystemTemplate, in)
}

// AuditPrompt returns the one-line user prompt for the audit phase.
func AuditPrompt() string { return auditPromptText }
