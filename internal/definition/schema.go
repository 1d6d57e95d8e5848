package definition

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
)

var (
	namePattern    = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

const (
	minNameLength        = 3
	maxNameLength        = 50
	minDescriptionLength = 10
	maxDescriptionLength = 500
)

// validateSchema checks required fields, enum membership and pattern
// constraints. It reports one problem per violated field and fills the
// definition's parsed generation targets as a side effect, so downstream
// consumers never re-parse the raw generates strings.
func validateSchema(def *ScenarioDefinition) []Problem {
	var problems []Problem

	problems = append(problems, validateName(def.Name)...)
	problems = append(problems, validateDescription(def.Description)...)
	problems = append(problems, validateCategory(def.Category)...)
	problems = append(problems, validateVersion(def.Version)...)
	problems = append(problems, validateTrigger(def.Trigger)...)
	problems = append(problems, validateSteps(def.Steps)...)

	targets, targetProblems := parseTargets(def.Generates)
	problems = append(problems, targetProblems...)
	if len(problems) == 0 {
		def.targets = targets
	}

	return problems
}

func validateName(name string) []Problem {
	if name == "" {
		return []Problem{schemaProblem(CodeMissingField, "scenario.name",
			"name is required",
			"add a kebab-case scenario name, e.g. 'incident-triage'")}
	}

	var problems []Problem
	if !namePattern.MatchString(name) {
		problems = append(problems, schemaProblem(CodeInvalidPattern, "scenario.name",
			fmt.Sprintf("name %q is not a valid identifier", name),
			"use lowercase letters, digits and single hyphens (kebab-case)"))
	}
	if len(name) < minNameLength || len(name) > maxNameLength {
		problems = append(problems, schemaProblem(CodeInvalidValue, "scenario.name",
			fmt.Sprintf("name must be %d-%d characters, got %d", minNameLength, maxNameLength, len(name)),
			"pick a shorter or longer identifier"))
	}
	return problems
}

func validateDescription(description string) []Problem {
	if description == "" {
		return []Problem{schemaProblem(CodeMissingField, "scenario.description",
			"description is required",
			"describe what the scenario automates")}
	}
	if len(description) < minDescriptionLength || len(description) > maxDescriptionLength {
		return []Problem{schemaProblem(CodeInvalidValue, "scenario.description",
			fmt.Sprintf("description must be %d-%d characters, got %d",
				minDescriptionLength, maxDescriptionLength, len(description)),
			"write at least one full sentence")}
	}
	return nil
}

func validateCategory(category Category) []Problem {
	if category == "" {
		return []Problem{schemaProblem(CodeMissingField, "scenario.category",
			"category is required",
			"use one of: "+joinCategories())}
	}
	for _, c := range Categories {
		if category == c {
			return nil
		}
	}
	return []Problem{schemaProblem(CodeInvalidValue, "scenario.category",
		fmt.Sprintf("unknown category %q", category),
		"use one of: "+joinCategories())}
}

func validateVersion(version string) []Problem {
	if version == "" {
		return nil // optional
	}
	if !versionPattern.MatchString(version) {
		return []Problem{schemaProblem(CodeInvalidPattern, "scenario.version",
			fmt.Sprintf("version %q is not a semantic version", version),
			"use semantic versioning format, e.g. 1.0.0")}
	}
	return nil
}

// validateTrigger checks the trigger type and that type-specific fields
// are present: a command trigger needs a command, a webhook trigger needs
// a webhook path, a schedule trigger needs a cron expression
func validateTrigger(trigger Trigger) []Problem {
	if trigger.Type == "" {
		return []Problem{schemaProblem(CodeMissingField, "scenario.trigger.type",
			"trigger type is required",
			"use one of: "+joinTriggerTypes())}
	}

	known := false
	for _, t := range TriggerTypes {
		if trigger.Type == t {
			known = true
			break
		}
	}
	if !known {
		return []Problem{schemaProblem(CodeInvalidValue, "scenario.trigger.type",
			fmt.Sprintf("unknown trigger type %q", trigger.Type),
			"use one of: "+joinTriggerTypes())}
	}

	var problems []Problem
	switch trigger.Type {
	case TriggerCommand:
		if trigger.Command == "" {
			problems = append(problems, schemaProblem(CodeMissingField, "scenario.trigger.command",
				"command trigger requires a 'command' field",
				`add command: "/your-command" to the trigger`))
		}
	case TriggerWebhook:
		if trigger.Webhook == "" {
			problems = append(problems, schemaProblem(CodeMissingField, "scenario.trigger.webhook",
				"webhook trigger requires a 'webhook' field",
				`add webhook: "/hooks/your-path" to the trigger`))
		}
	case TriggerSchedule:
		if trigger.Schedule == "" {
			problems = append(problems, schemaProblem(CodeMissingField, "scenario.trigger.schedule",
				"schedule trigger requires a 'schedule' field",
				`add schedule: "0 9 * * *" (cron format) to the trigger`))
		}
	}
	return problems
}

func validateSteps(steps []Step) []Problem {
	if len(steps) == 0 {
		return []Problem{schemaProblem(CodeMissingField, "scenario.steps",
			"at least one step is required",
			"add a steps list with id, action and type per step")}
	}

	var problems []Problem
	for i, step := range steps {
		field := fmt.Sprintf("scenario.steps.%d", i)

		if step.ID == "" {
			problems = append(problems, schemaProblem(CodeMissingField, field+".id",
				"step id is required",
				"give every step a unique id"))
		}
		if step.Action == "" {
			problems = append(problems, schemaProblem(CodeMissingField, field+".action",
				"step action is required",
				"describe what the step does"))
		}
		if step.Type == "" {
			problems = append(problems, schemaProblem(CodeMissingField, field+".type",
				"step type is required",
				"use one of: "+joinStepTypes()))
		} else if !validStepType(step.Type) {
			problems = append(problems, schemaProblem(CodeInvalidValue, field+".type",
				fmt.Sprintf("unknown step type %q", step.Type),
				"use one of: "+joinStepTypes()))
		}
		if step.Timeout < 0 {
			problems = append(problems, schemaProblem(CodeInvalidValue, field+".timeout",
				fmt.Sprintf("timeout must not be negative, got %d", step.Timeout),
				"use a timeout in seconds, or omit it"))
		}
		if step.Condition != "" {
			if _, err := expr.Compile(step.Condition, expr.AllowUndefinedVariables()); err != nil {
				problems = append(problems, schemaProblem(CodeInvalidCondition, field+".condition",
					fmt.Sprintf("condition does not compile: %v", err),
					"use an expression like 'severity > 2' or 'status == \"open\"'"))
			}
		}
	}
	return problems
}

// parseTargets parses each raw "kind: name" generates entry into its
// tagged form. Malformed entries are reported; well-formed entries are
// returned in declaration order.
func parseTargets(raw []string) ([]GenerationTarget, []Problem) {
	var targets []GenerationTarget
	var problems []Problem

	for i, entry := range raw {
		field := fmt.Sprintf("scenario.generates.%d", i)

		kindPart, namePart, found := strings.Cut(entry, ":")
		if !found {
			problems = append(problems, schemaProblem(CodeInvalidTarget, field,
				fmt.Sprintf("entry %q is not of the form '<kind>: <name>'", entry),
				"use one of: "+joinTargetKinds()))
			continue
		}

		kind, ok := targetKindAliases[strings.TrimSpace(kindPart)]
		if !ok {
			problems = append(problems, schemaProblem(CodeInvalidTarget, field,
				fmt.Sprintf("unknown target kind %q", strings.TrimSpace(kindPart)),
				"use one of: "+joinTargetKinds()))
			continue
		}

		name := strings.TrimSpace(namePart)
		if name == "" {
			problems = append(problems, schemaProblem(CodeInvalidTarget, field,
				"target name must not be empty",
				"name the artifact after the colon, e.g. 'global_skill: my_skill'"))
			continue
		}

		targets = append(targets, GenerationTarget{Kind: kind, Name: name})
	}
	return targets, problems
}

func schemaProblem(code Code, field, message, suggestion string) Problem {
	return Problem{
		Phase:      PhaseSchema,
		Code:       code,
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
	}
}

func validStepType(t StepType) bool {
	for _, s := range StepTypes {
		if t == s {
			return true
		}
	}
	return false
}

func joinCategories() string {
	parts := make([]string, len(Categories))
	for i, c := range Categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinTriggerTypes() string {
	parts := make([]string, len(TriggerTypes))
	for i, t := range TriggerTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinStepTypes() string {
	parts := make([]string, len(StepTypes))
	for i, t := range StepTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinTargetKinds() string {
	// Stable order for error messages
	return "global_skill, slash_command, hook, webhook, mcp_config"
}
