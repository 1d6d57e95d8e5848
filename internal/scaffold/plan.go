package scaffold

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/hmori/scenforge/internal/definition"
	"github.com/hmori/scenforge/internal/mcpcfg"
)

// plannedFile is one concrete {path, content} pair derived from a
// validated definition's generation targets
type plannedFile struct {
	Path    string
	Content []byte
	Mode    os.FileMode
}

// plan computes the concrete file operations for every generation target
// of a validated definition. Rendering happens here, before any session
// is opened, so a renderer failure leaves the filesystem untouched.
// Webhook and mcp_config targets produce no files of their own; they are
// merged into the returned configuration fragment.
func (o *Orchestrator) plan(def *definition.ScenarioDefinition) ([]plannedFile, *mcpcfg.Fragment, error) {
	meta := definition.ExtractMetadata(def)
	fragment := mcpcfg.New()

	var files []plannedFile
	for _, target := range def.Targets() {
		data := RenderData{
			Scenario: meta,
			Target:   target,
			Steps:    def.Steps,
		}

		switch target.Kind {
		case definition.KindSkill:
			dir := filepath.Join(o.root, "skills", target.Name)
			doc, err := o.render(ArtifactSkillDoc, data)
			if err != nil {
				return nil, nil, err
			}
			metadata, err := o.render(ArtifactSkillMetadata, data)
			if err != nil {
				return nil, nil, err
			}
			files = append(files,
				plannedFile{Path: filepath.Join(dir, "SKILL.md"), Content: doc},
				plannedFile{Path: filepath.Join(dir, "metadata.json"), Content: metadata},
			)

		case definition.KindCommand:
			name := strings.TrimPrefix(target.Name, "/")
			doc, err := o.render(ArtifactCommandDoc, data)
			if err != nil {
				return nil, nil, err
			}
			files = append(files, plannedFile{
				Path:    filepath.Join(o.root, "commands", name+".md"),
				Content: doc,
			})

		case definition.KindHook:
			script, err := o.render(ArtifactHookScript, data)
			if err != nil {
				return nil, nil, err
			}
			metadata, err := o.render(ArtifactHookMetadata, data)
			if err != nil {
				return nil, nil, err
			}
			files = append(files,
				// Hook scripts need the execute bit
				plannedFile{Path: filepath.Join(o.root, "hooks", target.Name+".js"), Content: script, Mode: 0755},
				plannedFile{Path: filepath.Join(o.root, "hooks", target.Name+".json"), Content: metadata},
			)

		case definition.KindWebhook:
			fragment.AddWebhook(target.Name)

		case definition.KindMCPConfig:
			fragment.AddServer(target.Name)
		}
	}

	return files, fragment, nil
}

func (o *Orchestrator) render(artifact Artifact, data RenderData) ([]byte, error) {
	content, err := o.renderer.Render(artifact, data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render %s for target %s", artifact, data.Target.Name)
	}
	return []byte(content), nil
}
