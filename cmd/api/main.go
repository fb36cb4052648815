// Vitality Tracker API
//
// REST API computing daily sleep and recovery scores from raw
// physiological samples.
//
//	@title			Vitality Tracker API
//	@version		1.0
//	@description	Ingest raw physiological samples and serve daily 0-100 sleep and recovery scores with component breakdowns.
//
//	@BasePath	/v1
//
//	@tag.name			samples
//	@tag.description	Raw sample ingest and inspection endpoints
//
//	@tag.name			scores
//	@tag.description	Daily score endpoints
//
//	@tag.name			insights
//	@tag.description	LLM-generated score insights
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/blaisecz/vitality-tracker/internal/api"
	"github.com/blaisecz/vitality-tracker/internal/api/handler"
	"github.com/blaisecz/vitality-tracker/internal/config"
	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/events"
	"github.com/blaisecz/vitality-tracker/internal/llm"
	"github.com/blaisecz/vitality-tracker/internal/metrics"
	"github.com/blaisecz/vitality-tracker/internal/repository"
	"github.com/blaisecz/vitality-tracker/internal/seed"
	"github.com/blaisecz/vitality-tracker/internal/service"
	"github.com/blaisecz/vitality-tracker/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	// Initialize tracing (no-op when Langfuse is not configured)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "vitality-tracker-api")
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Tracer shutdown failed: %v", err)
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(&domain.Sample{}, &domain.ScoreRecord{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if cfg.Seed {
		log.Println("Seeding database with demo samples (SEED=true)...")
		if err := seed.Run(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Load scoring calibration (built-in defaults when no file configured)
	scoring, err := config.LoadScoring(cfg.ScoringConfigPath)
	if err != nil {
		log.Fatalf("Failed to load scoring config: %v", err)
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	pipeline := metrics.NewPipeline(registry)

	// Initialize repositories
	sampleRepo := repository.NewSampleRepository(db)
	scoreRepo := repository.NewScoreRecordRepository(db)

	// In-process event bus between ingest edges and the recalc controller
	bus := events.NewBus()

	// Initialize scoring pipeline
	baselines := service.NewBaselineEngine(sampleRepo, scoring.Baseline)
	scoreService := service.NewScoreService(
		service.NewSessionDetector(sampleRepo),
		service.NewMetricWindowExtractor(sampleRepo),
		service.NewSleepScoreEngine(baselines, scoring.Sleep),
		service.NewRecoveryScoreEngine(baselines, scoring.Recovery),
		scoreRepo,
		pipeline,
	)
	sampleService := service.NewSampleService(sampleRepo, bus, pipeline)

	controller := service.NewRecalcController(bus, scoreService, pipeline)
	controller.Start(ctx)

	// Optional Kafka sample feed
	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, sampleRepo, bus)
		defer consumer.Close()
		go func() {
			log.Printf("Consuming samples from Kafka topic %s", cfg.KafkaTopic)
			if err := consumer.Run(ctx); err != nil {
				log.Printf("Kafka consumer stopped: %v", err)
			}
		}()
	}

	// Initialize OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIInsightsModel)
	if openaiClient == nil {
		log.Println("Warning: OpenAI API key not configured, insights endpoint will be unavailable")
	}
	insightsService := service.NewInsightsService(scoreService, openaiClient)

	// Initialize handlers
	sampleHandler := handler.NewSampleHandler(sampleService)
	scoreHandler := handler.NewScoreHandler(scoreService)
	insightsHandler := handler.NewInsightsHandler(insightsService)

	// Setup router
	router := api.NewRouter(sampleHandler, scoreHandler, insightsHandler, registry)
	routerHandler := router.Setup()

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, routerHandler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
