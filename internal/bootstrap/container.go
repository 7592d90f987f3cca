package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/controller"
	"ai-support-chat-be/internal/history"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/unitofwork"
	"ai-support-chat-be/internal/retrieval"
	"ai-support-chat-be/internal/service"
	"ai-support-chat-be/pkg/assistant"
	"ai-support-chat-be/pkg/assistant/faq"
	"ai-support-chat-be/pkg/assistant/sanitize"
	"ai-support-chat-be/pkg/embedding"
	"ai-support-chat-be/pkg/embedding/jina"
	"ai-support-chat-be/pkg/llm/factory"

	pktNats "ai-support-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	StatusController controller.IStatusController

	// Background Services (Exposed for main.go to run)
	RelayService service.IRelayService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	// Initialize LLM Provider based on Config
	llmBaseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "deepseek" {
		llmBaseURL = cfg.Ai.DeepseekBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.Deepseek,
		time.Duration(cfg.Ai.RequestTimeoutSec)*time.Second,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Curated Answers
	// A missing or broken FAQ file must not block startup, the matcher
	// just runs empty.
	faqEntries, err := faq.Load(cfg.Rag.FaqFilePath)
	if err != nil {
		log.Printf("[WARN] Failed to load priority answers from %s: %v", cfg.Rag.FaqFilePath, err)
		faqEntries = nil
	}
	matcher := faq.NewMatcher(faqEntries, cfg.Rag.SimilarityThreshold)
	log.Printf("[INFO] Priority answer table loaded: %d entries", matcher.Len())

	// 5. Conversation History Backend
	var historyStore assistant.HistoryStore
	switch cfg.Rag.HistoryBackend {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		historyStore = history.NewRedisStore(rdb, 24*time.Hour)
		log.Printf("[INFO] Using History Backend: REDIS")
	case "memory":
		historyStore = history.NewMemoryStore(24 * time.Hour)
		log.Printf("[INFO] Using History Backend: MEMORY")
	case "none":
		historyStore = nil
		log.Printf("[INFO] Conversation history disabled")
	default:
		historyStore = history.NewGormStore(uowFactory)
		log.Printf("[INFO] Using History Backend: POSTGRES")
	}

	// 6. Pipeline
	pipeline := assistant.NewPipeline(
		matcher,
		retrieval.NewProviderEmbedder(embeddingProvider),
		retrieval.NewDocumentRetriever(uowFactory),
		historyStore,
		llmProvider,
		sanitize.New(sanitize.Policy(cfg.Rag.SanitizerMode)),
		sysLogger,
		assistant.Config{
			TopK:             cfg.Rag.TopK,
			HistoryTurns:     cfg.Rag.HistoryMessages,
			MaxContextTokens: cfg.Rag.MaxContextTokens,
			CharsPerToken:    cfg.Rag.CharsPerToken,
		},
	)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.App.ChatEventsTopic, pubSub)
	chatService := service.NewChatService(pipeline, publisherService)
	relayLogger := logger.NewIsolatedLogger("logs/events.log")
	relayService := service.NewRelayService(pubSub, cfg.App.ChatEventsTopic, natsPub, relayLogger)

	// 8. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService, cfg.Keys.AccessKey),
		StatusController: controller.NewStatusController(cfg, matcher, uowFactory),
		RelayService:     relayService,
	}
}
