// Package templates provides the default artifact renderer backed by
// templates embedded in the binary. It satisfies the orchestrator's
// injected-renderer boundary; callers with their own rendering replace
// it wholesale.
package templates

import (
	"embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/hmori/scenforge/internal/scaffold"
)

//go:embed *.tmpl
var embeddedFiles embed.FS

// Renderer renders artifact contents from the embedded templates.
// Rendering is a pure function of its inputs: no clock, no filesystem.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl := template.New("artifacts").Funcs(template.FuncMap{
		"join":      strings.Join,
		"trimSlash": func(s string) string { return strings.TrimPrefix(s, "/") },
	})
	tmpl, err := tmpl.ParseFS(embeddedFiles, "*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse embedded templates")
	}
	return &Renderer{templates: tmpl}, nil
}

// Render implements scaffold.Renderer
func (r *Renderer) Render(artifact scaffold.Artifact, data scaffold.RenderData) (string, error) {
	// Metadata artifacts are marshaled rather than templated so string
	// escaping is always correct
	switch artifact {
	case scaffold.ArtifactSkillMetadata:
		return skillMetadata(data)
	case scaffold.ArtifactHookMetadata:
		return hookMetadata(data)
	}

	var b strings.Builder
	name := string(artifact) + ".tmpl"
	if err := r.templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %s", name)
	}
	return b.String(), nil
}

func skillMetadata(data scaffold.RenderData) (string, error) {
	stepIDs := make([]string, len(data.Steps))
	for i, step := range data.Steps {
		stepIDs[i] = step.ID
	}

	meta := map[string]any{
		"id":          data.Target.Name,
		"type":        "skill",
		"scenario":    data.Scenario.Name,
		"description": data.Scenario.Description,
		"category":    data.Scenario.Category,
		"steps":       stepIDs,
	}
	if data.Scenario.Version != "" {
		meta["version"] = data.Scenario.Version
	}

	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode skill metadata")
	}
	return string(out) + "\n", nil
}

func hookMetadata(data scaffold.RenderData) (string, error) {
	meta := map[string]any{
		"id":          data.Target.Name,
		"type":        "hook",
		"scenario":    data.Scenario.Name,
		"description": data.Scenario.Description,
		"entry":       data.Target.Name + ".js",
	}

	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode hook metadata")
	}
	return string(out) + "\n", nil
}
