package bootstrap

import (
	"context"
	"log"
	"time"

	"shop-assistant-be/internal/config"
	"shop-assistant-be/internal/controller"
	"shop-assistant-be/internal/pkg/logger"
	"shop-assistant-be/internal/repository/unitofwork"
	"shop-assistant-be/internal/service"
	"shop-assistant-be/pkg/assistant/prompt"
	"shop-assistant-be/pkg/assistant/retrieval"
	"shop-assistant-be/pkg/assistant/session"
	"shop-assistant-be/pkg/embedding"
	"shop-assistant-be/pkg/llm/factory"
	"shop-assistant-be/pkg/llm/lifecycle"

	pktNats "shop-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	ContentController   controller.IContentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ContentService  service.IContentService

	Lifecycle *lifecycle.Manager
	Logger    logger.ILogger
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

	// 3. AI Providers
	embeddingProvider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	ollamaProvider, err := factory.NewModelManager(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize model manager: %v", err)
	}
	lifecycleManager := lifecycle.NewManager(ollamaProvider, cfg.Ai.LLMModel, sysLogger)

	// First probe at startup; the result lands on the status endpoint.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := lifecycleManager.CheckAvailability(ctx); err != nil {
			log.Printf("[WARN] Initial model probe failed: %v", err)
		}
	}()

	// 4. NATS (optional; nil publisher disables events)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// 5. Assistant core
	engine := retrieval.NewEngine(uowFactory, retrieval.Config{
		MinQueryLen:     cfg.Retrieval.MinQueryLen,
		PerTypeLimit:    cfg.Retrieval.PerTypeLimit,
		TotalLimit:      cfg.Retrieval.TotalLimit,
		LanguagePenalty: cfg.Retrieval.LanguagePenalty,
	})
	sessionStore := session.NewStore(uowFactory, time.Duration(cfg.Assistant.SessionIdleMinutes)*time.Minute)
	promptBuilder := prompt.NewBuilder(cfg.Assistant.PromptCharBudget)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Ai.EmbedContentTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.EmbedContentTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	// Ops audit worker consumes the service's own event stream.
	if natsSub != nil {
		opsService := service.NewOpsService(natsSub, sysLogger)
		go opsService.Start()
	}

	assistantService := service.NewAssistantService(
		sessionStore,
		engine,
		promptBuilder,
		lifecycleManager,
		llmProvider,
		cfg.Assistant,
		sysLogger,
		natsPub,
	)
	contentService := service.NewContentService(
		uowFactory,
		engine,
		embeddingProvider,
		publisherService,
		sysLogger,
	)

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		ContentController:   controller.NewContentController(contentService),
		ConsumerService:     consumerService,
		ContentService:      contentService,
		Lifecycle:           lifecycleManager,
		Logger:              sysLogger,
	}
}
