package scaffold

import (
	"fmt"
	"os"

	diff "github.com/hexops/gotextdiff"
	myers "github.com/hexops/gotextdiff/myers"
	"github.com/pkg/errors"

	"github.com/hmori/scenforge/internal/definition"
	"github.com/hmori/scenforge/internal/fswrite"
	"github.com/hmori/scenforge/internal/mcpcfg"
)

// PreviewFile describes one file a scaffold run would touch, with a
// unified diff against the current content where one exists
type PreviewFile struct {
	Path        string          `json:"path"`
	Outcome     fswrite.Outcome `json:"outcome"` // the outcome a real run would produce
	UnifiedDiff string          `json:"unified_diff,omitempty"`
}

// Preview is the "what would happen" view of a scaffold run
type Preview struct {
	Report    *ValidationReport `json:"report"`
	Files     []PreviewFile     `json:"files,omitempty"`
	MCPConfig *mcpcfg.Fragment  `json:"mcp_config,omitempty"`
}

// PreviewScaffold validates a definition and renders every target's
// content without writing anything. For files that already exist with
// different content it includes a unified diff of the change a real run
// with overwrite enabled would apply.
func (o *Orchestrator) PreviewScaffold(source []byte, opts Options) (*Preview, error) {
	parsed := definition.Parse(source)
	preview := &Preview{
		Report: &ValidationReport{
			Valid:    parsed.Valid,
			Problems: parsed.Problems,
		},
	}
	if !parsed.Valid {
		return preview, nil
	}

	meta := definition.ExtractMetadata(parsed.Definition)
	preview.Report.Metadata = &meta
	preview.Report.Targets = definition.ExtractTargets(parsed.Definition)

	files, fragment, err := o.plan(parsed.Definition)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		entry := PreviewFile{Path: file.Path}

		existing, err := os.ReadFile(file.Path)
		switch {
		case os.IsNotExist(err):
			entry.Outcome = fswrite.OutcomeCreated
		case err != nil:
			return nil, errors.Wrapf(err, "failed to read existing file %s", file.Path)
		case string(existing) == string(file.Content):
			entry.Outcome = fswrite.OutcomeSkipped
		case !opts.Overwrite:
			entry.Outcome = fswrite.OutcomeBlocked
		default:
			entry.Outcome = fswrite.OutcomeUpdated
		}

		// Show the change for anything that differs, blocked included:
		// the diff is exactly what enabling overwrite would apply
		if entry.Outcome == fswrite.OutcomeUpdated || entry.Outcome == fswrite.OutcomeBlocked {
			oldContent := string(existing)
			newContent := string(file.Content)
			edits := myers.ComputeEdits("", oldContent, newContent)
			unified := diff.ToUnified("a/"+file.Path, "b/"+file.Path, oldContent, edits)
			entry.UnifiedDiff = fmt.Sprint(unified)
		}

		preview.Files = append(preview.Files, entry)
	}

	if !fragment.Empty() {
		preview.MCPConfig = fragment
	}
	return preview, nil
}
