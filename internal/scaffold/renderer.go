package scaffold

import "github.com/hmori/scenforge/internal/definition"

// Artifact identifies one kind of generated file content
type Artifact string

const (
	ArtifactSkillDoc      Artifact = "skill_doc"
	ArtifactSkillMetadata Artifact = "skill_metadata"
	ArtifactCommandDoc    Artifact = "command_doc"
	ArtifactHookScript    Artifact = "hook_script"
	ArtifactHookMetadata  Artifact = "hook_metadata"
)

// RenderData is everything a renderer may use to produce file content
type RenderData struct {
	Scenario definition.Metadata
	Target   definition.GenerationTarget
	Steps    []definition.Step
}

// Renderer supplies generated file contents. It must be a pure function
// of its inputs: the orchestrator calls it during planning and previews,
// before any filesystem mutation.
type Renderer interface {
	Render(artifact Artifact, data RenderData) (string, error)
}
