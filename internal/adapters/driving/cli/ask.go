package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage-cli/internal/core/ports/driving"
)

// Flags shared by ask and chat. Zero values defer to configuration.
var (
	askShowSources bool
	askTopK        int
	askMaxChars    int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Retrieves the most relevant passages from the corpus, sends them to
the configured language model, and prints the generated answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askShowSources, "sources", "s", false, "show the supporting passages")
	askCmd.Flags().IntVar(&askTopK, "k", 0, "number of passages to retrieve (default from config)")
	askCmd.Flags().IntVar(&askMaxChars, "max-chars", 0, "context block size limit in characters (default from config)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	answer, err := askService.Ask(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)

	if askShowSources {
		printSources(cmd, answer)
	}
	return nil
}

// printSources lists the passages an answer was grounded on.
func printSources(cmd *cobra.Command, answer *driving.Answer) {
	if answer.Sources.Empty() {
		cmd.Println("\n(no supporting passages were found)")
		return
	}

	cmd.Println("\nSources:")
	for i, chunk := range answer.Sources.Chunks {
		cmd.Printf("  [%d] %s (similarity %.3f)\n", i+1, chunk.SourceName, chunk.Score)
	}
}
