// Package cli implements the docsage command-line interface using cobra.
// The root command wires configuration, storage and provider adapters into
// the core services before any subcommand runs.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	configfile "github.com/docsage-labs/docsage-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/docsage-labs/docsage-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/docsage-labs/docsage-cli/internal/adapters/driven/embedding/openai"
	llmollama "github.com/docsage-labs/docsage-cli/internal/adapters/driven/llm/ollama"
	llmopenrouter "github.com/docsage-labs/docsage-cli/internal/adapters/driven/llm/openrouter"
	"github.com/docsage-labs/docsage-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docsage-labs/docsage-cli/internal/chunker"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driving"
	"github.com/docsage-labs/docsage-cli/internal/core/services"
	"github.com/docsage-labs/docsage-cli/internal/extractors"
	"github.com/docsage-labs/docsage-cli/internal/extractors/docx"
	"github.com/docsage-labs/docsage-cli/internal/extractors/pdf"
	"github.com/docsage-labs/docsage-cli/internal/extractors/plaintext"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verboseFlag   bool
	dataDirFlag   string
	configDirFlag string
)

// Wired services, set by initServices before subcommands run.
var (
	configStore      driven.ConfigStore
	store            *sqlite.Store
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	ingestService    driving.Ingestor
	askService       driving.Answerer
)

var rootCmd = &cobra.Command{
	Use:   "docsage",
	Short: "Ask questions about your documents from the terminal",
	Long: `Docsage ingests local documents (plain text, Markdown, PDF, DOCX),
indexes them with vector embeddings, and answers questions about their
content using retrieval-augmented generation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verboseFlag)
		if skipsServices(cmd) {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.docsage/data)")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "config directory (default ~/.docsage)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// skipsServices reports whether the command runs without the full wiring.
func skipsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return false
}

// initServices wires configuration, storage, providers and core services.
func initServices() error {
	// Environment variables (API keys) may live in a .env file.
	_ = godotenv.Load()

	cfg, err := configfile.NewConfigStore(configDirFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = cfg

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	embeddingService = embedder

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	llmService = llm

	st, err := sqlite.NewStore(dataDirFlag, embedder.Dimensions(), embedder.ModelName())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	store = st

	registry := extractors.NewRegistry(plaintext.New(), pdf.New(), docx.New())

	chunkOpts := []chunker.Option{}
	if n := cfg.GetInt("chunk.max_chars"); n > 0 {
		chunkOpts = append(chunkOpts, chunker.WithMaxChars(n))
	}
	if n := cfg.GetInt("chunk.overlap"); n > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(n))
	}

	ingestOpts := []services.IngestOption{}
	if n := cfg.GetInt("ingest.concurrency"); n > 0 {
		ingestOpts = append(ingestOpts, services.WithConcurrency(n))
	}
	ingestService = services.NewIngestService(
		registry, chunker.New(chunkOpts...), embedder, st, ingestOpts...)

	retriever := services.NewRetrievalService(
		embedder, st.VectorIndex(), st.DocumentStore())

	promptOpts := []services.PromptOption{}
	if s := cfg.GetString("prompt.system"); s != "" {
		promptOpts = append(promptOpts, services.WithSystemInstruction(s))
	}
	if n := cfg.GetInt("prompt.max_context_chars"); n > 0 {
		promptOpts = append(promptOpts, services.WithMaxContextChars(n))
	}
	if askMaxChars > 0 {
		promptOpts = append(promptOpts, services.WithMaxContextChars(askMaxChars))
	}

	genOpts := []services.GeneratorOption{}
	if n := cfg.GetInt("llm.max_retries"); n > 0 {
		genOpts = append(genOpts, services.WithMaxRetries(n))
	}
	if tp := cfg.GetFloat("llm.temperature"); tp > 0 {
		genOpts = append(genOpts, services.WithTemperature(tp))
	}

	askOpts := []services.AskOption{}
	if k := cfg.GetInt("retrieval.k"); k > 0 {
		askOpts = append(askOpts, services.WithTopK(k))
	}
	if askTopK > 0 {
		askOpts = append(askOpts, services.WithTopK(askTopK))
	}
	askService = services.NewAskService(
		retriever,
		services.NewPromptBuilder(promptOpts...),
		services.NewAnswerGenerator(llm, genOpts...),
		askOpts...)

	return nil
}

// buildEmbedder selects the embedding provider from configuration.
// Defaults to a local Ollama instance.
func buildEmbedder(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "ollama":
		return embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL:           cfg.GetString("embedding.base_url"),
			Model:             cfg.GetString("embedding.model"),
			Dimensions:        cfg.GetInt("embedding.dimensions"),
			RequestsPerSecond: cfg.GetFloat("embedding.requests_per_second"),
		}), nil
	case "openai":
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:            os.Getenv("OPENAI_API_KEY"),
			BaseURL:           cfg.GetString("embedding.base_url"),
			Model:             cfg.GetString("embedding.model"),
			Dimensions:        cfg.GetInt("embedding.dimensions"),
			RequestsPerSecond: cfg.GetFloat("embedding.requests_per_second"),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want ollama or openai)", provider)
	}
}

// buildLLM selects the completion provider from configuration.
// Defaults to a local Ollama instance.
func buildLLM(cfg driven.ConfigStore) (driven.LLMService, error) {
	provider := cfg.GetString("llm.provider")
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "ollama":
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		}), nil
	case "openrouter":
		return llmopenrouter.NewLLMService(llmopenrouter.Config{
			APIKey:  os.Getenv("OPENROUTER_API_KEY"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q (want ollama or openrouter)", provider)
	}
}

// closeServices releases resources opened by initServices.
func closeServices() {
	if store != nil {
		_ = store.Close()
	}
	if embeddingService != nil {
		_ = embeddingService.Close()
	}
	if llmService != nil {
		_ = llmService.Close()
	}
}
