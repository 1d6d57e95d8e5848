package definition

// Category classifies what part of a project a scenario automates
type Category string

const (
	CategoryDevelopment Category = "development"
	CategoryOperations  Category = "operations"
	CategoryAnalysis    Category = "analysis"
	CategoryIntegration Category = "integration"
	CategoryAutomation  Category = "automation"
)

// Categories lists all valid scenario categories
var Categories = []Category{
	CategoryDevelopment,
	CategoryOperations,
	CategoryAnalysis,
	CategoryIntegration,
	CategoryAutomation,
}

// TriggerType describes how a scenario is started
type TriggerType string

const (
	TriggerManual   TriggerType = "manual"
	TriggerCommand  TriggerType = "command"
	TriggerWebhook  TriggerType = "webhook"
	TriggerSchedule TriggerType = "schedule"
	TriggerHybrid   TriggerType = "hybrid"
)

// TriggerTypes lists all valid trigger types
var TriggerTypes = []TriggerType{
	TriggerManual,
	TriggerCommand,
	TriggerWebhook,
	TriggerSchedule,
	TriggerHybrid,
}

// StepType describes how a step is executed
type StepType string

const (
	StepManual        StepType = "manual"
	StepAPICall       StepType = "api_call"
	StepAIAnalysis    StepType = "ai_analysis"
	StepFileOperation StepType = "file_operation"
	StepNotification  StepType = "notification"
)

// StepTypes lists all valid step types
var StepTypes = []StepType{
	StepManual,
	StepAPICall,
	StepAIAnalysis,
	StepFileOperation,
	StepNotification,
}

// Trigger describes how a scenario is started
type Trigger struct {
	Type     TriggerType `yaml:"type" json:"type"`
	Command  string      `yaml:"command,omitempty" json:"command,omitempty"`
	Keywords []string    `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Schedule string      `yaml:"schedule,omitempty" json:"schedule,omitempty"`
	Webhook  string      `yaml:"webhook,omitempty" json:"webhook,omitempty"`
}

// Step is one node in the scenario's dependency graph
type Step struct {
	ID           string   `yaml:"id" json:"id"`
	Action       string   `yaml:"action" json:"action"`
	Type         StepType `yaml:"type" json:"type"`
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Condition    string   `yaml:"condition,omitempty" json:"condition,omitempty"`
	MCP          string   `yaml:"mcp,omitempty" json:"mcp,omitempty"`
	Inputs       []string `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs      []string `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Timeout      int      `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ExternalDependencies lists capabilities a scenario expects to exist
// before it can run (it does not generate them)
type ExternalDependencies struct {
	MCPs   []string `yaml:"mcps,omitempty" json:"mcps,omitempty"`
	Skills []string `yaml:"skills,omitempty" json:"skills,omitempty"`
}

// TargetKind identifies the type of artifact a generation target produces
type TargetKind string

const (
	KindSkill     TargetKind = "skill"
	KindCommand   TargetKind = "command"
	KindHook      TargetKind = "hook"
	KindWebhook   TargetKind = "webhook"
	KindMCPConfig TargetKind = "mcp_config"
)

// generates entries use a different vocabulary than the internal kinds
var targetKindAliases = map[string]TargetKind{
	"global_skill":  KindSkill,
	"slash_command": KindCommand,
	"hook":          KindHook,
	"webhook":       KindWebhook,
	"mcp_config":    KindMCPConfig,
}

// GenerationTarget is one artifact to produce, parsed once at validation
// time from a raw "kind: name" generates entry
type GenerationTarget struct {
	Kind TargetKind `json:"kind"`
	Name string     `json:"name"`
}

// ScenarioDefinition is the validated model of one scenario document.
// It is produced by Parse and must be treated as immutable afterwards.
type ScenarioDefinition struct {
	Name         string               `yaml:"name" json:"name"`
	Description  string               `yaml:"description" json:"description"`
	Category     Category             `yaml:"category" json:"category"`
	Version      string               `yaml:"version,omitempty" json:"version,omitempty"`
	Trigger      Trigger              `yaml:"trigger" json:"trigger"`
	Steps        []Step               `yaml:"steps" json:"steps"`
	Dependencies ExternalDependencies `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Generates    []string             `yaml:"generates,omitempty" json:"generates,omitempty"`

	// Parsed form of Generates, filled during schema validation so that
	// downstream consumers never re-parse the raw strings.
	targets []GenerationTarget
}

// Targets returns the generation targets parsed from the generates list.
// Only meaningful on a definition that passed validation.
func (d *ScenarioDefinition) Targets() []GenerationTarget {
	return d.targets
}

// Document is the root object of a scenario definition file
type Document struct {
	Scenario *ScenarioDefinition `yaml:"scenario" json:"scenario"`
}
