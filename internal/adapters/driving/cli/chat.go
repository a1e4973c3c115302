package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Starts an interactive session against the ingested documents.
Each question is answered independently; type "history" to review the
session's exchanges, or "exit" to leave. History is discarded when the
session ends.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVarP(&askShowSources, "sources", "s", false, "show the supporting passages")
	chatCmd.Flags().IntVar(&askTopK, "k", 0, "number of passages to retrieve (default from config)")
	chatCmd.Flags().IntVar(&askMaxChars, "max-chars", 0, "context block size limit in characters (default from config)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cmd.Println("docsage chat: type a question, \"history\", or \"exit\"")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "history":
			printHistory(cmd)
			continue
		}

		answer, err := askService.Ask(cmd.Context(), line)
		if err != nil {
			// A failed question should not kill the session.
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		cmd.Println(answer.Text)
		if askShowSources {
			printSources(cmd, answer)
		}
		cmd.Println()
	}
}

// printHistory lists this session's exchanges, oldest first.
func printHistory(cmd *cobra.Command) {
	history := askService.History()
	if len(history) == 0 {
		cmd.Println("(no questions asked yet)")
		return
	}
	for i, entry := range history {
		cmd.Printf("%d. [%s] %s\n   %s\n",
			i+1, entry.AskedAt.Format("15:04:05"), entry.Query, entry.Answer)
	}
}
