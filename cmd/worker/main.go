package main

import (
	"os"
	"time"

	"go.uber.org/zap"

	"leadbox/config"
	mqcontracts "leadbox/contracts/mq"
	"leadbox/internal/mqhandler"
	"leadbox/internal/repository"
	"leadbox/pkg/db"
	"leadbox/pkg/logger"
	"leadbox/pkg/mq"
	redisclient "leadbox/pkg/redis"
	"leadbox/pkg/util"
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

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}

	log.Info("Starting worker service...")

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init Redis for dedup and retry counters
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour, log)
	retries := util.NewRetryCounter(rdb, time.Hour)

	// Init DLQ publisher for poison messages
	dlqPublisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("DLQ publisher initialization failed", zap.Error(err))
	}
	defer dlqPublisher.Close()

	if err := dlqPublisher.SetupDLQ(mqcontracts.RoutingKeyEmailClassified); err != nil {
		log.Fatal("DLQ setup failed", zap.Error(err))
	}

	// Init repositories and handlers
	notiLogRepo := repository.NewNotificationLogRepository(dbConn)
	classifiedHandler := mqhandler.NewClassifiedHandler(notiLogRepo, deduper, retries, dlqPublisher, log)

	// Consumer for the notification log
	queueName := "email.classified.log.q"
	log.Info("Initializing classified consumer", zap.String("queue", queueName))
	consumer, err := mq.NewConsumer(cfg.MQ.URL, queueName, mqcontracts.RoutingKeyEmailClassified, log)
	if err != nil {
		log.Fatal("failed to init classified consumer", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(classifiedHandler.Handle)

	go func() {
		log.Info("Starting classified consumer")
		if err := consumer.StartConsuming(); err != nil {
			log.Fatal("classified consumer failed", zap.Error(err))
		}
	}()

	log.Info("All consumers started, worker is ready to process messages")

	// Keep worker running
	select {}
}
