package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/copydesk/internal/config"
	"github.com/jonathan/copydesk/internal/db"
	"github.com/jonathan/copydesk/internal/fields"
	"github.com/jonathan/copydesk/internal/llm"
	"github.com/jonathan/copydesk/internal/observability"
	"github.com/jonathan/copydesk/internal/pipeline"
	"github.com/jonathan/copydesk/internal/retrieval"
	"github.com/jonathan/copydesk/internal/settings"
	"github.com/jonathan/copydesk/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one copy field end-to-end",
	Long: `Runs the full generation loop for one field: draft several variants, check each against the editorial constraints, repair non-compliant drafts, score, and print the winner.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerateCmd,
}

var (
	genConfigPath    string
	genField         string
	genBrief         string
	genSettings      string
	genContentDir    string
	genConstraints   string
	genVariants      int
	genMaxIterations int
	genParallelism   int
	genAPIKey        string
	genDatabaseURL   string
	genVerbose       bool
	genJSON          bool
)

func init() {
	// Config file flag (processed first)
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&genField, "field", "f", "", fmt.Sprintf("Field to generate (one of: %v)", fields.SpecKeys()))
	generateCmd.Flags().StringVarP(&genBrief, "brief", "b", "", "Editor brief describing what the copy should say")
	generateCmd.Flags().StringVarP(&genSettings, "settings", "s", "", "Path to editorial settings JSON file")
	generateCmd.Flags().StringVar(&genContentDir, "content-dir", "", "Directory of exported site content for grounding (optional)")
	generateCmd.Flags().StringVar(&genConstraints, "constraints", "", "Path to JSON file with per-field constraint overrides (optional)")
	generateCmd.Flags().IntVar(&genVariants, "variants", 0, "Number of candidate variants to draft")
	generateCmd.Flags().IntVar(&genMaxIterations, "max-iterations", -1, "Repair iteration budget per variant (0 disables repair)")
	generateCmd.Flags().IntVar(&genParallelism, "parallelism", 0, "Concurrent variant lanes")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed progress and timeline")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "Print the full run result as JSON")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	generateCmd.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if genVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", genConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("field") {
		cfg.Field = genField
	}
	if cmd.Flags().Changed("settings") {
		cfg.Settings = genSettings
	}
	if cmd.Flags().Changed("content-dir") {
		cfg.ContentDir = genContentDir
	}
	if cmd.Flags().Changed("variants") {
		cfg.Variants = genVariants
	}
	if cmd.Flags().Changed("max-iterations") {
		if genMaxIterations < 0 {
			return fmt.Errorf("--max-iterations must be non-negative")
		}
		cfg.MaxIterations = &genMaxIterations
	}
	if cmd.Flags().Changed("parallelism") {
		cfg.Parallelism = genParallelism
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}

	// Step 3: Apply defaults for unset values. MaxIterations stays nil when
	// neither the config file nor the flag set it, so an explicit 0 remains
	// distinguishable from "use the default".
	cfg = cfg.MergeWithDefaults(config.Config{
		Settings:    "settings.json",
		Variants:    pipeline.DefaultVariantCount,
		Parallelism: 1,
	})

	// Step 4: Validate required fields
	if cfg.Field == "" {
		return fmt.Errorf("--field is required (via flag or config)")
	}
	if genBrief == "" {
		return fmt.Errorf("--brief is required")
	}

	// Step 5: API key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	orchestrator := &pipeline.Orchestrator{
		Client:   client,
		Settings: settings.FileProvider{Path: cfg.Settings},
	}

	if cfg.ContentDir != "" {
		index, err := retrieval.LoadDir(cfg.ContentDir)
		if err != nil {
			return fmt.Errorf("failed to load content directory: %w", err)
		}
		orchestrator.Retriever = index
	}

	// Persistence is optional for one-shot CLI runs
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		orchestrator.DB = database
	}

	overrides, err := loadConstraintOverrides(genConstraints)
	if err != nil {
		return err
	}

	maxIterations := pipeline.UnsetMaxIterations
	if cfg.MaxIterations != nil {
		maxIterations = *cfg.MaxIterations
	}

	opts := pipeline.RunOptions{
		Field:               cfg.Field,
		Brief:               genBrief,
		ConstraintOverrides: overrides,
		VariantCount:        cfg.Variants,
		MaxIterations:       maxIterations,
		Parallelism:         cfg.Parallelism,
		GroundingK:          cfg.GroundingK,
	}
	if cfg.Verbose {
		opts.OnProgress = func(event types.TimelineEvent) {
			lane := "run"
			if event.Variant >= 0 {
				lane = fmt.Sprintf("v%d", event.Variant)
			}
			fmt.Printf("  %6dms %-4s %-15s %s\n", event.OffsetMS, lane, event.Kind, event.Message)
		}
	}

	result, err := orchestrator.Run(ctx, opts)
	if err != nil {
		return err
	}

	if genJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintVariantSummary(result.Variants)
		printer.PrintComplianceReport(result.Winner.Compliance)
	}
	printer.PrintRunResult(result)

	if !result.Compliant() {
		fmt.Println("Warning: the winning variant does not satisfy every constraint; review before publishing.")
	}
	return nil
}

// loadConstraintOverrides reads per-field constraint overrides from a JSON file.
func loadConstraintOverrides(path string) (*types.ConstraintOverrides, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read constraints file %s: %w", path, err)
	}

	var overrides types.ConstraintOverrides
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse constraints JSON: %w", err)
	}
	return &overrides, nil
}
