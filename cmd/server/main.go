package main

import (
	"os"

	"go.uber.org/zap"

	"leadbox/config"
	"leadbox/internal/ai"
	"leadbox/internal/api"
	"leadbox/internal/notify"
	"leadbox/internal/repository"
	"leadbox/internal/service"
	"leadbox/internal/source"
	"leadbox/pkg/db"
	"leadbox/pkg/logger"
	"leadbox/pkg/mq"
	redisclient "leadbox/pkg/redis"
	"leadbox/pkg/synclock"
)

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	// 1. Load config
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	// 4. Init RabbitMQ publisher for pipeline events
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("MQ publisher initialization failed", zap.Error(err))
	}
	defer publisher.Close()

	// 5. Init repositories
	accountRepo := repository.NewAccountRepository(dbConn)
	emailRepo := repository.NewEmailRepository(dbConn)
	replyRepo := repository.NewReplyRepository(dbConn)
	contextRepo := repository.NewContextRepository(dbConn)

	// 6. Init mailbox source
	var src source.Source
	switch cfg.Sync.Source {
	case "fixture":
		src = source.NewFixtureSource()
		log.Warn("Using fixture mailbox source, no real mail will be fetched")
	default:
		src = source.NewIMAPSource(log)
	}

	// 7. Init services
	aiClient := ai.NewClient(cfg.AI, log)
	dispatcher := notify.NewDispatcher(cfg.Notify, log)
	lock := synclock.NewAccountLock(rdb, cfg.Sync.LockTTL, log)

	classifyService := service.NewClassifyService(emailRepo, accountRepo, aiClient, dispatcher, publisher, log)
	replyService := service.NewReplyService(
		emailRepo,
		accountRepo,
		contextRepo,
		replyRepo,
		aiClient,
		service.FixedScorer{Value: 0.85},
		publisher,
		log,
	)
	syncService := service.NewSyncService(accountRepo, emailRepo, src, classifyService, lock, publisher, log)

	// 8. Init handlers and router
	handlers := api.Handlers{
		Sync:       api.NewSyncHandler(syncService, log),
		Classify:   api.NewClassifyHandler(classifyService, log),
		Reply:      api.NewReplyHandler(replyService, log),
		EmailQuery: api.NewEmailQueryHandler(emailRepo, log),
	}
	router := api.NewRouter(handlers, cfg.JWT.Secret)

	// 9. Run server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("Server start failed", zap.Error(err))
	}
}
