package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/topicline/research-service/internal/agent"
	"github.com/topicline/research-service/internal/api"
	"github.com/topicline/research-service/internal/config"
	"github.com/topicline/research-service/internal/events"
	"github.com/topicline/research-service/internal/llm"
	"github.com/topicline/research-service/internal/reports"
	"github.com/topicline/research-service/internal/search"
	"github.com/topicline/research-service/internal/store/postgres"
)

type server interface {
	Start(ctx context.Context, addr string) error
}

var (
	loadConfig = func() (config.Config, error) {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
		return cfg, nil
	}
	newBroker = events.NewBroker
	newStore  = func(conn string) (*postgres.PostgresStore, error) {
		return postgres.New(conn)
	}
	newReportStore = func(ctx context.Context, bucket string, region string) (*reports.S3Store, error) {
		return reports.NewS3Store(ctx, bucket, region)
	}
	newProvider   = llm.NewProvider
	notifyContext = signal.NotifyContext
	newServer     = func(taskStore *postgres.PostgresStore, reportStore *reports.S3Store, researcher api.Researcher, broker *events.Broker, cfg config.Config) server {
		return api.NewServer(taskStore, reportStore, researcher, broker, cfg)
	}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	broker := newBroker()
	taskStore, err := newStore(cfg.PostgresURL)
	if err != nil {
		return err
	}
	reportStore, err := newReportStore(ctx, cfg.S3Bucket, cfg.AWSRegion)
	if err != nil {
		return err
	}

	provider, err := newProvider(llm.Config{
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		APIKey:  cfg.GeminiAPIKey,
	})
	if err != nil {
		return err
	}
	searchClient := search.NewSerpAPIClient(search.SerpAPIConfig{
		APIKey:  cfg.SerpAPIKey,
		BaseURL: cfg.SerpAPIBaseURL,
	})
	researcher := agent.New(provider, searchClient, agent.Config{
		MaxSteps:    cfg.AgentMaxSteps,
		Temperature: cfg.AgentTemperature,
	})

	srv := newServer(taskStore, reportStore, researcher, broker, cfg)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("research service listening on %s", addr)
	if err := srv.Start(ctx, addr); err != nil {
		return err
	}

	return nil
}
