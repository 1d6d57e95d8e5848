package templates

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hmori/scenforge/internal/definition"
	"github.com/hmori/scenforge/internal/scaffold"
)

func renderData() scaffold.RenderData {
	return scaffold.RenderData{
		Scenario: definition.Metadata{
			Name:           "incident-triage",
			Description:    "Routes incoming incidents to the right owner.",
			Category:       definition.CategoryOperations,
			Version:        "1.2.0",
			TriggerType:    definition.TriggerCommand,
			TriggerCommand: "/triage",
			StepCount:      2,
		},
		Target: definition.GenerationTarget{Kind: definition.KindSkill, Name: "incident_triage"},
		Steps: []definition.Step{
			{ID: "classify", Action: "Classify the incident", Type: definition.StepAIAnalysis},
			{ID: "route", Action: "Route to the owner", Type: definition.StepNotification, Dependencies: []string{"classify"}},
		},
	}
}

func TestRender_SkillDoc(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("Failed to build renderer: %v", err)
	}

	out, err := r.Render(scaffold.ArtifactSkillDoc, renderData())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{
		"# incident_triage",
		"incident-triage",
		"Routes incoming incidents",
		"`classify`",
		"(after classify)",
		"/triage",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRender_CommandDoc(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("Failed to build renderer: %v", err)
	}

	data := renderData()
	data.Target = definition.GenerationTarget{Kind: definition.KindCommand, Name: "/triage"}
	out, err := r.Render(scaffold.ArtifactCommandDoc, data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "triage") {
		t.Errorf("Expected command name in output, got:\n%s", out)
	}
}

func TestRender_HookScript(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("Failed to build renderer: %v", err)
	}

	data := renderData()
	data.Target = definition.GenerationTarget{Kind: definition.KindHook, Name: "post_triage"}
	out, err := r.Render(scaffold.ArtifactHookScript, data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "post_triage") {
		t.Errorf("Expected hook name in output, got:\n%s", out)
	}
}

func TestRender_MetadataIsValidJSON(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("Failed to build renderer: %v", err)
	}

	t.Run("Skill", func(t *testing.T) {
		out, err := r.Render(scaffold.ArtifactSkillMetadata, renderData())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		var meta map[string]any
		if err := json.Unmarshal([]byte(out), &meta); err != nil {
			t.Fatalf("Metadata is not valid JSON: %v\n%s", err, out)
		}
		if meta["id"] != "incident_triage" || meta["scenario"] != "incident-triage" {
			t.Errorf("Unexpected metadata: %v", meta)
		}
		if meta["version"] != "1.2.0" {
			t.Errorf("Expected version in metadata, got %v", meta)
		}
	})

	t.Run("Hook", func(t *testing.T) {
		data := renderData()
		data.Target = definition.GenerationTarget{Kind: definition.KindHook, Name: "post_triage"}
		out, err := r.Render(scaffold.ArtifactHookMetadata, data)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		var meta map[string]any
		if err := json.Unmarshal([]byte(out), &meta); err != nil {
			t.Fatalf("Metadata is not valid JSON: %v\n%s", err, out)
		}
		if meta["entry"] != "post_triage.js" {
			t.Errorf("Expected entry to name the script, got %v", meta)
		}
	})
}

func TestRender_Deterministic(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("Failed to build renderer: %v", err)
	}

	data := renderData()
	first, err := r.Render(scaffold.ArtifactSkillMetadata, data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := r.Render(scaffold.ArtifactSkillMetadata, data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first != second {
		t.Error("Rendering must be deterministic for unchanged-content detection to work")
	}
}
