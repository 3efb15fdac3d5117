package bootstrap

import (
	"context"
	"log"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/implementation"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/ai/facts"
	"ai-assistant-be/pkg/ai/pipeline"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/graph"
	"ai-assistant-be/pkg/llm/breaker"
	"ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/llm/gateway"
	"ai-assistant-be/pkg/state"

	pktNats "ai-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	SessionController  controller.ISessionController
	TaskController     controller.ITaskController
	FeedbackController controller.IFeedbackController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	MemoryWorkerService service.IMemoryWorkerService
	ScannerService      service.IScannerService

	// Shared infrastructure (Exposed for shutdown)
	GraphStore *graph.Store
	TaskQueue  *pktNats.Queue
	TaskWorker *pktNats.Worker
	Logger     logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx := context.Background()

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus (in-process, per-turn jobs)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Shared cooldown registry: generation and embedding backends both
	// report failures here, under separate keys.
	registry := breaker.New(cfg.Ai.BreakerCooldown)

	providers, err := factory.NewProviderChain(cfg.Ai.ProviderOrder, factory.ProviderConfig{
		GeminiKeys:     cfg.Keys.Gemini,
		GeminiModel:    cfg.Ai.GeminiModel,
		CohereKey:      cfg.Keys.Cohere,
		CohereModel:    cfg.Ai.CohereModel,
		AnthropicKey:   cfg.Keys.Anthropic,
		AnthropicModel: cfg.Ai.AnthropicModel,
		Timeout:        cfg.Ai.ProviderTimeout,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to build provider chain: %v", err)
	}
	log.Printf("[INFO] Generation providers (in order): %v", cfg.Ai.ProviderOrder)
	aiGateway := gateway.New(providers, registry)

	// Embedding: primary per config, the other backend as fallback.
	var embeddingProviders []embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "cohere" {
		embeddingProviders = append(embeddingProviders, embedding.NewCohereProvider(cfg.Keys.Cohere))
		if len(cfg.Keys.Gemini) > 0 {
			embeddingProviders = append(embeddingProviders, embedding.NewGeminiProvider(cfg.Keys.Gemini[0]))
		}
	} else {
		if len(cfg.Keys.Gemini) > 0 {
			embeddingProviders = append(embeddingProviders, embedding.NewGeminiProvider(cfg.Keys.Gemini[0]))
		}
		if cfg.Keys.Cohere != "" {
			embeddingProviders = append(embeddingProviders, embedding.NewCohereProvider(cfg.Keys.Cohere))
		}
	}
	embeddingProvider := embedding.NewFallbackProvider(registry, embeddingProviders...)

	factExtractor := facts.NewExtractor(aiGateway)

	// 4. Stores
	graphStore, err := graph.NewStore(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to Neo4j: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	stateStore := state.NewStore(rdb)

	sessionRepo := implementation.NewSessionRepository(db)
	summaryRepo := implementation.NewSessionSummaryRepository(db)
	taskRepo := implementation.NewTaskRepository(db)
	feedbackRepo := implementation.NewFeedbackRepository(db)
	factsCache := memory.NewFactsCache()

	// 5. Durable task queue (consolidation jobs)
	taskQueue, err := pktNats.NewQueue(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to NATS queue: %v", err)
	}
	taskWorker, err := pktNats.NewWorker(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to NATS worker: %v", err)
	}

	// 6. Services
	publisherService := service.NewPublisherService(pubSub)

	chatService := service.NewChatService(
		sessionRepo,
		summaryRepo,
		graphStore,
		factsCache,
		stateStore,
		embeddingProvider,
		aiGateway,
		publisherService,
	)
	sessionService := service.NewSessionService(sessionRepo)
	taskService := service.NewTaskService(taskRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo)

	consumerService := service.NewConsumerService(
		pubSub,
		factExtractor,
		graphStore,
		factsCache,
		aiGateway,
		stateStore,
	)

	consolidation := pipeline.NewConsolidation(
		service.NewPipelineSessionStore(sessionRepo),
		service.NewPipelineVectorStore(summaryRepo),
		graphStore,
		service.NewPipelineEmbedder(embeddingProvider),
		service.NewPipelineSummarizer(aiGateway),
		factExtractor,
	)

	workerLogger := logger.NewIsolatedLogger("logs/consolidation.log")
	memoryWorkerService := service.NewMemoryWorkerService(
		taskWorker,
		consolidation,
		constant.DurableConsolidationWorker,
		workerLogger,
	)

	scannerService := service.NewScannerService(
		sessionRepo,
		taskQueue,
		cfg.Consolidation.ScanInterval,
		cfg.Consolidation.IdleThreshold,
	)

	// 7. Controllers
	return &Container{
		ChatController:     controller.NewChatController(chatService),
		SessionController:  controller.NewSessionController(sessionService),
		TaskController:     controller.NewTaskController(taskService),
		FeedbackController: controller.NewFeedbackController(feedbackService),

		ConsumerService:     consumerService,
		MemoryWorkerService: memoryWorkerService,
		ScannerService:      scannerService,

		GraphStore: graphStore,
		TaskQueue:  taskQueue,
		TaskWorker: taskWorker,
		Logger:     sysLogger,
	}
}
