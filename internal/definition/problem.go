package definition

import (
	"fmt"
	"strings"
)

// Phase identifies which validation stage reported a problem. Phases run
// in order and a phase that reports at least one problem stops the next
// phase from running.
type Phase string

const (
	PhaseSyntax Phase = "syntax"
	PhaseSchema Phase = "schema"
	PhaseLogic  Phase = "logic"
)

// Code classifies a validation problem
type Code string

const (
	CodeSyntaxError        Code = "syntax_error"
	CodeMissingField       Code = "missing_field"
	CodeInvalidValue       Code = "invalid_value"
	CodeInvalidPattern     Code = "invalid_pattern"
	CodeInvalidCondition   Code = "invalid_condition"
	CodeInvalidTarget      Code = "invalid_target"
	CodeDuplicateIDs       Code = "duplicate_ids"
	CodeInvalidDependency  Code = "invalid_dependency"
	CodeCircularDependency Code = "circular_dependency"
)

// Problem is one validation finding. Problems are values returned to the
// caller, never Go errors: the validation entry points always report the
// full list for a phase in one pass.
type Problem struct {
	Phase      Phase  `json:"phase"`
	Code       Code   `json:"code"`
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`

	// Line and Column are set for syntax problems when the underlying
	// parser reported a position.
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`

	// Cycle is the full ordered cycle for circular_dependency problems,
	// closed on the starting id (e.g. [a b c a]).
	Cycle []string `json:"cycle,omitempty"`
}

// String renders a problem the way validation reports display it
func (p Problem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", p.Phase, p.Field)
	if p.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", p.Line)
	}
	fmt.Fprintf(&b, ": %s", p.Message)
	if p.Suggestion != "" {
		fmt.Fprintf(&b, " (%s)", p.Suggestion)
	}
	return b.String()
}

// ParseResult is the outcome of parsing and validating one definition
type ParseResult struct {
	Valid      bool                `json:"valid"`
	Definition *ScenarioDefinition `json:"-"`
	Problems   []Problem           `json:"problems,omitempty"`
}

// ProblemsIn filters the result's problems by phase
func (r *ParseResult) ProblemsIn(phase Phase) []Problem {
	var out []Problem
	for _, p := range r.Problems {
		if p.Phase == phase {
			out = append(out, p)
		}
	}
	return out
}
