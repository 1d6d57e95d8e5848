// Package scaffold composes the definition parser, the transactional file
// writer and the rollback manager into one all-or-nothing scaffolding
// pipeline: validate, open a session, write each planned file, and undo
// everything already written the moment one write fails.
package scaffold

import (
	"os"
	"path/filepath"

	"github.com/hmori/scenforge/internal/definition"
	"github.com/hmori/scenforge/internal/fswrite"
	"github.com/hmori/scenforge/internal/mcpcfg"
	"github.com/hmori/scenforge/internal/rollback"
	"github.com/hmori/scenforge/pkg/logger"
)

// Orchestrator drives one scaffold invocation at a time. Execution is
// strictly sequential: operations are applied one by one and recorded in
// the exact order they happen, which reverse-order rollback depends on.
// There is no locking between concurrent invocations touching overlapping
// paths; serializing those is the caller's responsibility.
type Orchestrator struct {
	root     string
	writer   *fswrite.Writer
	sessions *rollback.Manager
	renderer Renderer
	log      *logger.Logger
}

// NewOrchestrator creates an orchestrator rooted at root. The rollback
// manager is injected so tests and future multi-session callers get
// isolated state instead of a process-wide default.
func NewOrchestrator(root string, renderer Renderer, sessions *rollback.Manager) *Orchestrator {
	return &Orchestrator{
		root:     root,
		writer:   fswrite.NewWriter(),
		sessions: sessions,
		renderer: renderer,
		log:      logger.NewComponentLogger("scaffold"),
	}
}

// Options is the pass-through configuration surface onto the writer,
// plus session naming
type Options struct {
	Overwrite bool
	Backup    bool
	DryRun    bool
	SessionID string
}

// ValidationReport is the outcome of validating a definition without any
// filesystem access
type ValidationReport struct {
	Valid    bool                                                  `json:"valid"`
	Problems []definition.Problem                                  `json:"problems,omitempty"`
	Metadata *definition.Metadata                                  `json:"metadata,omitempty"`
	Targets  map[definition.TargetKind][]definition.GenerationTarget `json:"targets,omitempty"`
}

// Result reports a successful scaffold run
type Result struct {
	SessionID    string           `json:"session_id"`
	FilesCreated []string         `json:"files_created"`
	FilesUpdated []string         `json:"files_updated"`
	FilesSkipped []string         `json:"files_skipped"`

	// FilesBlocked is only populated by dry runs; a real run rolls back
	// and returns an error on the first blocked write instead
	FilesBlocked []string `json:"files_blocked,omitempty"`
	MCPConfig    *mcpcfg.Fragment `json:"mcp_config,omitempty"`
}

// Validate runs the parser only and reports the outcome. It never
// touches the filesystem.
func (o *Orchestrator) Validate(source []byte) *ValidationReport {
	parsed := definition.Parse(source)

	report := &ValidationReport{
		Valid:    parsed.Valid,
		Problems: parsed.Problems,
	}
	if parsed.Valid {
		meta := definition.ExtractMetadata(parsed.Definition)
		report.Metadata = &meta
		report.Targets = definition.ExtractTargets(parsed.Definition)
	}
	return report
}

// Scaffold validates a definition and writes every generated artifact
// under the orchestrator's root with all-or-nothing semantics. On any
// validation problem it returns immediately with the full problem list;
// no session is opened and no file is touched. On a mid-batch block or
// I/O failure every recorded operation is rolled back and the summarized
// error carries the rollback result.
func (o *Orchestrator) Scaffold(source []byte, opts Options) (*Result, error) {
	parsed := definition.Parse(source)
	if !parsed.Valid {
		return nil, &ValidationFailedError{Problems: parsed.Problems}
	}

	files, fragment, err := o.plan(parsed.Definition)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		return o.dryRun(files, fragment, opts)
	}

	session := o.sessions.StartSession(opts.SessionID)
	log := o.log.WithSession(session.ID)
	log.Info("scaffolding scenario", "scenario", parsed.Definition.Name, "files", len(files))

	result := &Result{
		SessionID:    session.ID,
		FilesCreated: []string{},
		FilesUpdated: []string{},
		FilesSkipped: []string{},
	}

	writeOpts := fswrite.Options{Overwrite: opts.Overwrite, Backup: opts.Backup}

	for i, file := range files {
		fail := func(path string, cause error) (*Result, error) {
			rb := o.sessions.Rollback(session)
			log.Warn("scaffold failed, rolled back", "path", path, "undone", len(rb.Undone), "undo_errors", len(rb.Errors))
			return nil, &ScaffoldFailedError{
				Attempted: i + 1,
				Planned:   len(files),
				Path:      path,
				Cause:     cause,
				Rollback:  &rb,
			}
		}

		if err := o.ensureParentDir(session, file.Path); err != nil {
			return fail(file.Path, err)
		}

		fileOpts := writeOpts
		fileOpts.Mode = file.Mode
		written, err := o.writer.WriteFileSafe(file.Path, file.Content, fileOpts)
		if err != nil {
			return fail(file.Path, err)
		}

		switch written.Outcome {
		case fswrite.OutcomeCreated:
			if err := o.sessions.RecordCreate(session, file.Path); err != nil {
				return fail(file.Path, err)
			}
			result.FilesCreated = append(result.FilesCreated, file.Path)
		case fswrite.OutcomeUpdated:
			if err := o.sessions.RecordUpdate(session, file.Path, written.BackupPath); err != nil {
				return fail(file.Path, err)
			}
			result.FilesUpdated = append(result.FilesUpdated, file.Path)
		case fswrite.OutcomeSkipped:
			result.FilesSkipped = append(result.FilesSkipped, file.Path)
		case fswrite.OutcomeBlocked:
			return fail(file.Path, nil)
		}
	}

	if err := o.sessions.Commit(session); err != nil {
		return nil, err
	}
	if !fragment.Empty() {
		result.MCPConfig = fragment
	}

	log.Info("scaffold committed",
		"created", len(result.FilesCreated),
		"updated", len(result.FilesUpdated),
		"skipped", len(result.FilesSkipped))
	return result, nil
}

// dryRun reports what a scaffold would do without opening a session or
// touching the filesystem
func (o *Orchestrator) dryRun(files []plannedFile, fragment *mcpcfg.Fragment, opts Options) (*Result, error) {
	result := &Result{
		FilesCreated: []string{},
		FilesUpdated: []string{},
		FilesSkipped: []string{},
	}

	writeOpts := fswrite.Options{Overwrite: opts.Overwrite, Backup: opts.Backup, DryRun: true}
	for _, file := range files {
		written, err := o.writer.WriteFileSafe(file.Path, file.Content, writeOpts)
		if err != nil {
			return nil, err
		}
		switch written.Planned {
		case fswrite.OutcomeCreated:
			result.FilesCreated = append(result.FilesCreated, file.Path)
		case fswrite.OutcomeUpdated:
			result.FilesUpdated = append(result.FilesUpdated, file.Path)
		case fswrite.OutcomeSkipped:
			result.FilesSkipped = append(result.FilesSkipped, file.Path)
		case fswrite.OutcomeBlocked:
			result.FilesBlocked = append(result.FilesBlocked, file.Path)
		}
	}
	if !fragment.Empty() {
		result.MCPConfig = fragment
	}
	return result, nil
}

// ensureParentDir creates the missing ancestors of path below the
// orchestrator's root and records each newly created directory, outermost
// first, so reverse-order rollback removes them innermost first
func (o *Orchestrator) ensureParentDir(session *rollback.Session, path string) error {
	dir := filepath.Dir(path)

	var missing []string
	for cur := dir; ; cur = filepath.Dir(cur) {
		if _, err := os.Stat(cur); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return err
		}
		missing = append(missing, cur)
		if cur == o.root || cur == filepath.Dir(cur) {
			break
		}
	}

	for i := len(missing) - 1; i >= 0; i-- {
		if err := os.Mkdir(missing[i], 0755); err != nil {
			return err
		}
		if err := o.sessions.RecordMkdir(session, missing[i]); err != nil {
			return err
		}
	}
	return nil
}
