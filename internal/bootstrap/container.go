package bootstrap

import (
	"context"
	"log"
	"time"

	"clinical-assistant-be/internal/config"
	"clinical-assistant-be/internal/controller"
	"clinical-assistant-be/internal/pkg/logger"
	"clinical-assistant-be/internal/repository/implementation"
	"clinical-assistant-be/internal/service"
	"clinical-assistant-be/pkg/cache"
	"clinical-assistant-be/pkg/embedding"
	"clinical-assistant-be/pkg/events"
	"clinical-assistant-be/pkg/llm/factory"
	"clinical-assistant-be/pkg/llm/resilience"
	"clinical-assistant-be/pkg/rag/grader"
	"clinical-assistant-be/pkg/rag/grounding"
	"clinical-assistant-be/pkg/rag/guardrails"
	"clinical-assistant-be/pkg/rag/pipeline"
	"clinical-assistant-be/pkg/rag/response"
	"clinical-assistant-be/pkg/rag/rewrite"
	"clinical-assistant-be/pkg/rag/session"
	"clinical-assistant-be/pkg/search"

	pktNats "clinical-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	ProtocolController controller.IProtocolController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure, exposed for shutdown
	NatsPublisher *pktNats.Publisher
	Logger        logger.ILogger

	// Exposed for the CLI entrypoint
	ChatService service.IChatService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	rawProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// One breaker guards the shared model endpoint for every pipeline stage.
	breaker := resilience.NewCircuitBreaker(cfg.Pipeline.BreakerFailMax, cfg.Pipeline.BreakerResetAfter)
	llmProvider := resilience.NewResilientProvider(
		rawProvider,
		resilience.DefaultRetryConfig(),
		breaker,
		cfg.Pipeline.GenerateTimeout,
	)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	var responseCache *cache.ResponseCache
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, answer cache disabled: %v", err)
	} else {
		responseCache = cache.NewResponseCache(rdb, cfg.Pipeline.CacheTTL)
	}

	// 5. Pipeline Stages
	chunkRepo := implementation.NewProtocolChunkRepository(db)

	searcher := search.NewPgVectorSearcher(embeddingProvider, chunkRepo, search.Config{
		Threshold: cfg.Pipeline.SearchThreshold,
		TopK:      cfg.Pipeline.TopK,
	}, sysLogger)

	safetyValidator := guardrails.NewSafetyValidator(guardrails.Config{
		MinQuestionLength: 5,
		MaxQuestionLength: 500,
		UseLLMRelevance:   cfg.Pipeline.UseLLMRelevance,
	}, llmProvider, sysLogger)

	var scorer grader.Scorer
	if cfg.Pipeline.UseLLMGrading {
		scorer = grader.NewLLMScorer(llmProvider)
	} else {
		scorer = grader.NewLexicalScorer(cfg.Pipeline.GradingThreshold)
	}
	docGrader := grader.NewDocumentGrader(scorer, grader.EliminationPolicy(cfg.Pipeline.EliminationPolicy))

	groundingConfig := grounding.DefaultConfig()
	groundingConfig.SemanticThreshold = cfg.Pipeline.SemanticThreshold
	groundingConfig.KeywordThreshold = cfg.Pipeline.KeywordThreshold
	groundingValidator := grounding.NewValidator(embeddingProvider, groundingConfig, sysLogger)

	generator := response.NewGenerator(llmProvider, sysLogger)
	rewriter := rewrite.NewQueryRewriter(llmProvider)

	orchestrator := pipeline.NewOrchestrator(
		safetyValidator,
		searcher,
		docGrader,
		generator,
		groundingValidator,
		rewriter,
		pipeline.Config{
			MaxLoops:        cfg.Pipeline.MaxLoops,
			TopK:            cfg.Pipeline.TopK,
			SearchTimeout:   cfg.Pipeline.SearchTimeout,
			GenerateTimeout: cfg.Pipeline.GenerateTimeout,
			RewriteTimeout:  20 * time.Second,
		},
		sysLogger,
	)

	// 6. Services
	sessionManager := session.NewManager()

	publisherService := service.NewPublisherService(events.TopicIngestProtocol, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		events.TopicIngestProtocol,
		chunkRepo,
		embeddingProvider,
	)

	chatService := service.NewChatService(orchestrator, sessionManager, responseCache, natsPub, sysLogger)
	protocolService := service.NewProtocolService(publisherService, chunkRepo, responseCache, sysLogger)

	// 7. Controllers
	return &Container{
		ChatController:     controller.NewChatController(chatService),
		ProtocolController: controller.NewProtocolController(protocolService),

		ConsumerService: consumerService,
		NatsPublisher:   natsPub,
		Logger:          sysLogger,

		ChatService: chatService,
	}
}
