package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hmori/scenforge/internal/config"
	"github.com/hmori/scenforge/internal/definition"
	"github.com/hmori/scenforge/internal/fswrite"
	"github.com/hmori/scenforge/internal/rollback"
	"github.com/hmori/scenforge/internal/scaffold"
	"github.com/hmori/scenforge/internal/templates"
	pkgLogger "github.com/hmori/scenforge/pkg/logger"
)

func printUsage() {
	fmt.Println("scenforge - scenario validation and scaffolding")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  scenforge validate <scenario.yaml>   Validate a definition (no filesystem access)")
	fmt.Println("  scenforge preview <scenario.yaml>    Show what scaffolding would write, with diffs")
	fmt.Println("  scenforge scaffold <scenario.yaml>   Generate all artifacts transactionally")
	fmt.Println("  scenforge schema                     Print the definition JSON Schema")
	fmt.Println("  scenforge cleanup                    Remove backups older than the retention window")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -root <dir>       Root directory for generated artifacts")
	fmt.Println("  -settings <file>  Path to settings file")
	fmt.Println("  -overwrite        Replace existing files with differing content")
	fmt.Println("  -backup           Keep pre-write backups when overwriting (default true)")
	fmt.Println("  -dry-run          Report outcomes without touching the filesystem")
	fmt.Println("  -session <id>     Name the rollback session")
	fmt.Println("  -v                Enable verbose debug logging")
	fmt.Println()
}

func main() {
	var root = flag.String("root", "", "Root directory for generated artifacts")
	var settingsPath = flag.String("settings", "", "Path to settings file")
	var overwrite = flag.Bool("overwrite", false, "Replace existing files with differing content")
	var backup = flag.Bool("backup", true, "Keep pre-write backups when overwriting")
	var dryRun = flag.Bool("dry-run", false, "Report outcomes without touching the filesystem")
	var sessionID = flag.String("session", "", "Name the rollback session")
	var verbose = flag.Bool("v", false, "Enable verbose debug logging")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		pkgLogger.SetGlobalLogLevel(pkgLogger.LogLevelDebug)
	} else {
		pkgLogger.SetGlobalLogLevel(pkgLogger.LogLevel(settings.Log.Level))
	}
	if *root != "" {
		settings.Scaffold.Root = *root
	}

	command := args[0]
	switch command {
	case "schema":
		schema, err := definition.DocumentSchema()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(schema))
		return

	case "cleanup":
		writer := fswrite.NewWriter()
		retention := settings.Scaffold.BackupRetentionDays
		total := 0
		for _, dir := range backupDirs(settings.Scaffold.Root) {
			removed, err := writer.CleanupOldBackups(dir, retention)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			total += removed
		}
		fmt.Printf("Removed %d backup(s) older than %d day(s)\n", total, retention)
		return
	}

	if len(args) < 2 {
		printUsage()
		os.Exit(1)
	}
	source, err := os.ReadFile(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	orchestrator := scaffold.NewOrchestrator(settings.Scaffold.Root, renderer, rollback.NewManager())

	opts := scaffold.Options{
		Overwrite: *overwrite || settings.Scaffold.Overwrite,
		Backup:    *backup && settings.Scaffold.Backup,
		DryRun:    *dryRun,
		SessionID: *sessionID,
	}

	switch command {
	case "validate":
		report := orchestrator.Validate(source)
		printJSON(report)
		if !report.Valid {
			os.Exit(1)
		}

	case "preview":
		preview, err := orchestrator.PreviewScaffold(source, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printJSON(preview)
		if !preview.Report.Valid {
			os.Exit(1)
		}

	case "scaffold":
		result, err := orchestrator.Scaffold(source, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printJSON(result)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// backupDirs lists every directory under root, root included, so cleanup
// reaches backups next to artifacts at any depth. A missing root yields
// nothing to clean.
func backupDirs(root string) []string {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
