package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// ingestRecursive controls directory traversal.
var ingestRecursive bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest documents into the corpus",
	Long: `Reads the given files (or directories), extracts their text, and
indexes them for question answering. Re-ingesting a file replaces its
previous version.

Supported formats: plain text, Markdown, CSV, PDF, DOCX.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestRecursive, "recursive", "r", false, "descend into subdirectories")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	paths, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no ingestable files found")
	}

	raws := make([]*domain.RawDocument, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		raws = append(raws, &domain.RawDocument{
			SourceName: filepath.Base(path),
			Content:    content,
		})
	}

	reports, err := ingestService.IngestAll(cmd.Context(), raws)
	if err != nil {
		return fmt.Errorf("ingest aborted: %w", err)
	}

	failed := 0
	for _, report := range reports {
		switch {
		case report.Err != nil:
			failed++
			cmd.Printf("✗ %s: %v\n", report.SourceName, report.Err)
		case report.DocumentID == "":
			cmd.Printf("- %s: no extractable text, skipped\n", report.SourceName)
		case report.Superseded:
			cmd.Printf("✓ %s: %d chunks (replaced previous version)\n", report.SourceName, report.Chunks)
		default:
			cmd.Printf("✓ %s: %d chunks\n", report.SourceName, report.Chunks)
		}
	}

	cmd.Printf("\nIngested %d of %d documents\n", len(reports)-failed, len(reports))
	if failed > 0 {
		return fmt.Errorf("%d documents failed", failed)
	}
	return nil
}

// ingestableExtensions are the file types the extractors understand.
var ingestableExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".pdf":  true,
	".docx": true,
}

// collectFiles expands the argument list into ingestable file paths.
// Directories contribute their ingestable children; unknown extensions
// given explicitly are kept so the user gets a clear unsupported-format
// error instead of silence.
func collectFiles(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && !ingestRecursive {
					return filepath.SkipDir
				}
				return nil
			}
			if ingestableExtensions[strings.ToLower(filepath.Ext(path))] {
				paths = append(paths, path)
			} else {
				logger.Debug("Skipping %s: unsupported extension", path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}

	return paths, nil
}
