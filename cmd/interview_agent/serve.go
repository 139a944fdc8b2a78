package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/engine"
	"github.com/jonathan/interview-coach/internal/evaluator"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/question"
	"github.com/jonathan/interview-coach/internal/report"
	"github.com/jonathan/interview-coach/internal/retrieval"
	"github.com/jonathan/interview-coach/internal/server"
	"github.com/jonathan/interview-coach/internal/store"
)

var (
	serveConfigPath string
	servePort       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running interview sessions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by environment variables)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if servePort > 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx := context.Background()

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	var closers []func()
	closers = append(closers, func() {
		if err := client.Close(); err != nil {
			log.Printf("model client close: %v", err)
		}
	})

	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		closers = append(closers, pg.Close)
		st = pg
	} else {
		log.Println("DATABASE_URL not set, using in-memory session store")
		st = store.NewMemoryStore()
	}

	var dist report.ReferenceDistribution
	if cfg.ReferenceDataPath != "" {
		dist, err = report.LoadCSV(cfg.ReferenceDataPath)
		if err != nil {
			return fmt.Errorf("failed to load reference distribution: %w", err)
		}
	}

	retriever := retrieval.NewSearchClient(cfg.SearchEndpoint, cfg.SearchIndex, cfg.SearchAPIKey)

	questionCfg := question.DefaultConfig()
	questionCfg.TopK = cfg.RetrievalTopK
	questionCfg.ContextBudget = cfg.ContextBudget

	eng := engine.New(
		st,
		question.New(retriever, client, questionCfg),
		evaluator.New(client),
		report.NewCompiler(client, dist),
	)

	srv := server.New(server.Config{Port: cfg.Port}, eng, closers...)
	return srv.Start()
}
