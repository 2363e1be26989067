package bootstrap

import (
	"context"
	"time"

	"onboarding-buddy-be/internal/config"
	"onboarding-buddy-be/internal/constant"
	"onboarding-buddy-be/internal/controller"
	"onboarding-buddy-be/internal/handler"
	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/internal/repository/memory"
	"onboarding-buddy-be/internal/repository/unitofwork"
	"onboarding-buddy-be/internal/service"
	"onboarding-buddy-be/internal/websocket"
	"onboarding-buddy-be/pkg/llm"
	"onboarding-buddy-be/pkg/llm/factory"
	"onboarding-buddy-be/pkg/tokenizer"

	pktNats "onboarding-buddy-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController          controller.IChatbotController
	TrainingMaterialController controller.ITrainingMaterialController
	FileUploadController       controller.IFileUploadController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	NatsPublisher   *pktNats.Publisher
	NatsSubscriber  *pktNats.Subscriber

	// WebSockets & sessions
	WebSocketHub *websocket.Hub
	SessionStore *memory.SessionStore

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS carries material changes between instances; optional.
	var (
		natsPub *pktNats.Publisher
		natsSub *pktNats.Subscriber
		bus     service.EventPublisher
	)
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			bus = natsPub
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect NATS subscriber", map[string]interface{}{"error": err.Error()})
			natsSub = nil
		}
	}

	// Redis fans system notifications out to the other instances; optional.
	rdb := newRedisClient(cfg.App.RedisURL, sysLogger)

	// 3. Chat runtime
	hubLogger := logger.NewIsolatedLogger(cfg.App.HubLogFilePath)
	wsHub := websocket.NewHub(rdb, cfg.App.InstanceID, hubLogger)

	sessionStore := memory.NewSessionStore(sysLogger,
		memory.WithTimeout(cfg.Session.Timeout),
		memory.WithSweepInterval(cfg.Session.SweepInterval),
	)

	settings := llm.Settings{
		Model:       cfg.Ai.Model,
		MaxTokens:   cfg.Ai.MaxTokens,
		Temperature: cfg.Ai.Temperature,
		Store:       cfg.Ai.StoreConversations,
	}
	payloads, err := factory.NewPayloadBuilder(cfg.Ai.Family, settings, constant.ContextRefreshInstruction)
	if err != nil {
		return nil, err
	}
	client := llm.NewClient(llm.ClientConfig{
		URL:        cfg.Ai.APIURL,
		APIKey:     cfg.Ai.APIKey,
		APIVersion: cfg.Ai.APIVersion,
		Family:     cfg.Ai.Family,
		Timeout:    cfg.Ai.RequestTimeout,
	})
	sysLogger.Info("BOOTSTRAP", "AI provider configured", map[string]interface{}{
		"family":     cfg.Ai.Family.String(),
		"model":      cfg.Ai.Model,
		"configured": cfg.Ai.AIConfigured(),
		"stateful":   cfg.Ai.StatefulMode,
	})

	// 4. Services
	publisherService := service.NewPublisherService(
		constant.TrainingMaterialsChangedTopic,
		pubSub,
		bus,
		cfg.App.InstanceID,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.TrainingMaterialsChangedTopic,
		sessionStore,
		wsHub,
		cfg.App.InstanceID,
		sysLogger,
	)

	trainingMaterialService := service.NewTrainingMaterialService(uowFactory, publisherService, sysLogger)
	fileUploadService := service.NewFileUploadService(uowFactory, constant.UploadDirectory, cfg.App.UploadMaxBytes, sysLogger)

	chatbotService := service.NewChatbotService(
		trainingMaterialService,
		sessionStore,
		payloads,
		client,
		tokenizer.New(),
		sysLogger,
		service.ChatbotConfig{
			Configured:       cfg.Ai.AIConfigured(),
			Stateful:         cfg.Ai.StatefulMode,
			MaxContextTokens: cfg.Ai.MaxContextTokens,
		},
	)

	// 5. Handlers & Controllers
	chatHandler := handler.NewChatHandler(chatbotService, sessionStore, wsHub, hubLogger)

	return &Container{
		ChatbotController:          controller.NewChatbotController(chatbotService, fileUploadService, chatHandler),
		TrainingMaterialController: controller.NewTrainingMaterialController(trainingMaterialService),
		FileUploadController:       controller.NewFileUploadController(fileUploadService),

		ConsumerService: consumerService,
		NatsPublisher:   natsPub,
		NatsSubscriber:  natsSub,

		WebSocketHub: wsHub,
		SessionStore: sessionStore,

		Logger: sysLogger,
	}, nil
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	return rdb
}
