package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/dskvich/ai-gallery/pkg/blobstore"
	"github.com/dskvich/ai-gallery/pkg/database"
	"github.com/dskvich/ai-gallery/pkg/generator"
	"github.com/dskvich/ai-gallery/pkg/livequery"
	"github.com/dskvich/ai-gallery/pkg/llm"
	"github.com/dskvich/ai-gallery/pkg/llm/openai"
	"github.com/dskvich/ai-gallery/pkg/logger"
	"github.com/dskvich/ai-gallery/pkg/queue"
	"github.com/dskvich/ai-gallery/pkg/repository"
	"github.com/dskvich/ai-gallery/pkg/server/handlers"
	"github.com/dskvich/ai-gallery/pkg/server/middleware"
	"github.com/dskvich/ai-gallery/pkg/services"
	"github.com/joho/godotenv"
)

type Config struct {
	OpenAIKey             string        `env:"OPENAI_API_KEY"`
	CredentialFallbackURL string        `env:"CREDENTIAL_FALLBACK_URL"`
	HTTPAddr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	PublicBaseURL         string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	PgURL                 string        `env:"DATABASE_URL"`
	PgHost                string        `env:"DB_HOST" envDefault:"localhost:5432"`
	QueuePollInterval     time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"1s"`
	QueueClaimTimeout     time.Duration `env:"QUEUE_CLAIM_TIMEOUT" envDefault:"5m"`
	ReaperSchedule        string        `env:"REAPER_SCHEDULE" envDefault:"@every 1m"`
	BunDebug              int           `env:"BUNDEBUG" envDefault:"0"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	svcGroup, err := setupServices()
	if err != nil {
		return err
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return svcGroup.Start(ctx)
}

func setupServices() (services.Group, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	var svc services.Service
	var svcGroup services.Group

	db, err := database.NewDB(cfg.PgURL, cfg.PgHost)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	credentials := llm.NewCredentialResolver(cfg.OpenAIKey, cfg.CredentialFallbackURL)

	openAIClient, err := openai.NewClient(credentials)
	if err != nil {
		return nil, fmt.Errorf("creating open ai client: %w", err)
	}

	promptRepository := repository.NewPromptRepository(db)
	blobStore := blobstore.New(db, cfg.PublicBaseURL)
	jobQueue := queue.New(db)
	hub := livequery.NewHub()

	gen := generator.New(promptRepository, openAIClient, openAIClient, blobStore, hub)

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", handlers.Gallery(promptRepository, blobStore))
	mux.Handle("POST /api/prompts", handlers.SubmitPrompt(promptRepository, jobQueue, hub))
	mux.Handle("GET /api/prompts", handlers.ListPrompts(promptRepository, blobStore))
	mux.Handle("GET /api/prompts/live", handlers.LivePrompts(promptRepository, blobStore, hub))
	mux.Handle("GET /blobs/{ref}", handlers.GetBlob(blobStore))

	root := middleware.RequestID(middleware.Logging(mux))

	if svc, err = services.NewHTTPServer(cfg.HTTPAddr, root); err == nil {
		svcGroup = append(svcGroup, svc)
	} else {
		return nil, err
	}

	if svc, err = services.NewQueueDispatcher(jobQueue, gen, cfg.QueuePollInterval); err == nil {
		svcGroup = append(svcGroup, svc)
	} else {
		return nil, err
	}

	if svc, err = services.NewClaimReaper(jobQueue, cfg.ReaperSchedule, cfg.QueueClaimTimeout); err == nil {
		svcGroup = append(svcGroup, svc)
	} else {
		return nil, err
	}

	return svcGroup, nil
}
