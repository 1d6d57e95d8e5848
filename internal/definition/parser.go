package definition

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse parses raw definition text and validates it in three ordered
// phases: syntax, schema, then logic. Each phase short-circuits the next:
// schema problems are not meaningful on top of broken syntax, and graph
// problems are not meaningful until the schema is clean. Within a phase
// every problem is collected, not just the first.
//
// Parse has no filesystem or other side effects.
func Parse(source []byte) *ParseResult {
	result := &ParseResult{}

	var doc Document
	if err := yaml.Unmarshal(source, &doc); err != nil {
		result.Problems = syntaxProblems(err)
		return result
	}

	if doc.Scenario == nil {
		result.Problems = []Problem{{
			Phase:      PhaseSchema,
			Code:       CodeMissingField,
			Field:      "scenario",
			Message:    "definition must contain a top-level 'scenario' object",
			Suggestion: "wrap the definition fields under a 'scenario:' key",
		}}
		return result
	}

	def := doc.Scenario
	result.Definition = def

	if problems := validateSchema(def); len(problems) > 0 {
		result.Problems = problems
		return result
	}

	if problems := validateGraph(def.Steps); len(problems) > 0 {
		result.Problems = problems
		return result
	}

	result.Valid = true
	return result
}

// yaml.v3 reports positions inside its error strings rather than as
// structured fields, e.g. "yaml: line 4: did not find expected key"
var yamlLinePattern = regexp.MustCompile(`line (\d+): (.+)$`)

// syntaxProblems converts a yaml decode failure into syntax-phase problems.
// A *yaml.TypeError carries one message per mistyped node, so every
// mismatch in the document is reported in one pass.
func syntaxProblems(err error) []Problem {
	typeErr, ok := err.(*yaml.TypeError)
	if !ok {
		p := Problem{
			Phase:      PhaseSyntax,
			Code:       CodeSyntaxError,
			Field:      "document",
			Message:    strings.TrimPrefix(err.Error(), "yaml: "),
			Suggestion: "check YAML syntax (indentation, colons, hyphens)",
		}
		p.Line, p.Message = splitYAMLLine(p.Message)
		return []Problem{p}
	}

	problems := make([]Problem, 0, len(typeErr.Errors))
	for _, msg := range typeErr.Errors {
		p := Problem{
			Phase:      PhaseSyntax,
			Code:       CodeInvalidValue,
			Field:      "document",
			Message:    msg,
			Suggestion: "check the field's type against the definition format",
		}
		p.Line, p.Message = splitYAMLLine(p.Message)
		problems = append(problems, p)
	}
	return problems
}

// splitYAMLLine extracts the "line N:" prefix yaml.v3 embeds in messages
func splitYAMLLine(msg string) (int, string) {
	m := yamlLinePattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, msg
	}
	line, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, msg
	}
	return line, m[2]
}
