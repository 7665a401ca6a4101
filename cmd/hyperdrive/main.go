package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/api"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/ingest"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/config"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/docstore"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/embed"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/eventbus"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/llm"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/sqlite"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/vector"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/server"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/version"
)

const shutdownGrace = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("hyperdrive", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	showVersion := fs.Bool("version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := serve(logger); err != nil {
		logger.Error("fatal", "err", err)
		return 1
	}
	return 0
}

func serve(logger *slog.Logger) error {
	// A missing .env is fine; the environment itself may carry the config.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sqlite.NewDB(cfg.SQLitePath)
	if err != nil {
		return err
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close() //nolint:errcheck
		return err
	}

	timeout := cfg.ProviderTimeout()
	registry := llm.NewRegistry(map[string]llm.Provider{
		llm.ModelGPT35Turbo:    llm.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, llm.ModelGPT35Turbo, timeout),
		llm.ModelChatBison:     llm.NewPaLMProvider(),
		llm.ModelLlama270B:     llm.NewReplicateProvider(cfg.ReplicateBaseURL, cfg.ReplicateAPIToken, timeout),
		llm.ModelClaude2:       llm.NewAnthropicProvider(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, llm.ModelClaude2, timeout),
		llm.ModelClaudeInstant: llm.NewAnthropicProvider(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, llm.ModelClaudeInstant, timeout),
	})

	embedder := embed.NewOpenAIEmbedder(cfg.EmbeddingBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel, timeout)
	index, err := vector.NewChromemIndex(cfg.VectorDataDir, embedder)
	if err != nil {
		db.Close() //nolint:errcheck
		return err
	}

	srv := server.New(api.Deps{
		DB:       db,
		Registry: registry,
		Embedder: embedder,
		Index:    index,
		Docs:     docstore.NewDriveStore(cfg.DriveBaseURL, cfg.DriveAPIToken, timeout),
		Bus:      eventbus.New(),
		Splitter: ingest.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		Logger:   logger,
	}, serverConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr())
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func serverConfig() server.Config {
	cfg := server.DefaultConfig()
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	return cfg
}
