package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// watchSettleDelay is how long a file must stay quiet before it is
// ingested; editors write in bursts.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest files as they change",
	Long: `Watches a directory and automatically ingests supported files when
they are created or modified. Re-saving a file replaces its previous
version in the corpus. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)

	// Debounce per path: ingest only after a file stops changing.
	pending := make(map[string]*time.Timer)
	ingested := make(chan string)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case path := <-ingested:
			delete(pending, path)
			if err := ingestWatchedFile(cmd, path); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !ingestableExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				logger.Debug("Ignoring %s: unsupported extension", event.Name)
				continue
			}

			path := event.Name
			if timer, ok := pending[path]; ok {
				timer.Reset(watchSettleDelay)
				continue
			}
			pending[path] = time.AfterFunc(watchSettleDelay, func() {
				ingested <- path
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// ingestWatchedFile ingests a single file picked up by the watcher.
func ingestWatchedFile(cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	report, err := ingestService.Ingest(cmd.Context(), &domain.RawDocument{
		SourceName: filepath.Base(path),
		Content:    content,
	})
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	switch {
	case report.DocumentID == "":
		cmd.Printf("- %s: no extractable text, skipped\n", report.SourceName)
	case report.Superseded:
		cmd.Printf("✓ %s: %d chunks (replaced previous version)\n", report.SourceName, report.Chunks)
	default:
		cmd.Printf("✓ %s: %d chunks\n", report.SourceName, report.Chunks)
	}
	return nil
}
