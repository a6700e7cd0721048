package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/adalundhe/freeflow/core/agents"
	"github.com/adalundhe/freeflow/core/config"
	"github.com/adalundhe/freeflow/core/pdf"
	"github.com/adalundhe/freeflow/core/pipeline"
	"github.com/adalundhe/freeflow/core/providers"
	"github.com/adalundhe/freeflow/core/server"
	"github.com/adalundhe/freeflow/core/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the FreeFlow API server",
	Long:  `Start the HTTP API: intake parsing, contract generation, invoicing, and dashboard reads.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := store.Open(cfg.Database.Path, store.DefaultPoolConfig())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()

	migrator := store.NewMigrator(pool, store.Migrations())
	if err := migrator.Migrate(context.Background()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	defer provider.Close()

	st := store.New(pool)
	pipe := pipeline.New(
		st,
		agents.NewIntakeAgent(provider, logger),
		agents.NewContractAgent(provider, logger, nil),
		agents.NewBillingAgent(provider, logger, nil),
		pipeline.FreelancerIdentity{Name: cfg.Freelancer.Name, Email: cfg.Freelancer.Email},
		logger,
		nil,
	)

	srv, err := server.New(cfg, st, pipe, pdf.NewRenderer(), logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer srv.Close()

	return srv.Run()
}

func buildProvider(cfg *config.Config) (providers.Provider, error) {
	registry := providers.NewRegistry()

	switch providers.ProviderType(cfg.LLM.Provider) {
	case providers.ProviderTypeOpenAI:
		openaiCfg := providers.DefaultOpenAIConfig()
		openaiCfg.APIKey = cfg.LLM.APIKey
		if cfg.LLM.Model != "" {
			openaiCfg.Model = cfg.LLM.Model
		}
		if cfg.LLM.MaxTokens > 0 {
			openaiCfg.MaxTokens = cfg.LLM.MaxTokens
		}
		if cfg.LLM.Timeout > 0 {
			openaiCfg.Timeout = cfg.LLM.Timeout
		}
		if err := registry.RegisterOpenAI(openaiCfg); err != nil {
			return nil, err
		}
	default:
		anthropicCfg := providers.DefaultAnthropicConfig()
		anthropicCfg.APIKey = cfg.LLM.APIKey
		if cfg.LLM.Model != "" {
			anthropicCfg.Model = cfg.LLM.Model
		}
		if cfg.LLM.MaxTokens > 0 {
			anthropicCfg.MaxTokens = cfg.LLM.MaxTokens
		}
		if cfg.LLM.Timeout > 0 {
			anthropicCfg.Timeout = cfg.LLM.Timeout
		}
		if err := registry.RegisterAnthropic(anthropicCfg); err != nil {
			return nil, err
		}
	}

	return registry.Default()
}
