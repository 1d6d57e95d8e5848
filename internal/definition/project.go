package definition

// Metadata is a flat summary of a validated definition, used for listings
// and previews without exposing the full model
type Metadata struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Category       Category    `json:"category"`
	Version        string      `json:"version,omitempty"`
	TriggerType    TriggerType `json:"trigger_type"`
	TriggerCommand string      `json:"trigger_command,omitempty"`
	StepCount      int         `json:"step_count"`
	RequiredMCPs   []string    `json:"required_mcps,omitempty"`
	RequiredSkills []string    `json:"required_skills,omitempty"`
}

// ExtractMetadata projects flat metadata out of a validated definition.
// It is a pure read; it never re-validates.
func ExtractMetadata(def *ScenarioDefinition) Metadata {
	return Metadata{
		Name:           def.Name,
		Description:    def.Description,
		Category:       def.Category,
		Version:        def.Version,
		TriggerType:    def.Trigger.Type,
		TriggerCommand: def.Trigger.Command,
		StepCount:      len(def.Steps),
		RequiredMCPs:   def.Dependencies.MCPs,
		RequiredSkills: def.Dependencies.Skills,
	}
}

// ExtractTargets groups a validated definition's generation targets by
// kind, preserving declaration order within each kind
func ExtractTargets(def *ScenarioDefinition) map[TargetKind][]GenerationTarget {
	grouped := make(map[TargetKind][]GenerationTarget)
	for _, target := range def.Targets() {
		grouped[target.Kind] = append(grouped[target.Kind], target)
	}
	return grouped
}
