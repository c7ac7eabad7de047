// main.go
package main

import (
	"log"

	"quickshow/cmd"
	"quickshow/internal/data/cache"
	"quickshow/internal/data/repository"
	"quickshow/internal/payment"
	"quickshow/internal/usecase"
	"quickshow/internal/wire"
	"quickshow/internal/worker"
	"quickshow/pkg/database"
	"quickshow/pkg/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Connect to redis (seat cache + task queue backend)
	rdb, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	logger.Info("Redis connected successfully")

	redisOpt := asynq.RedisClientOpt{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Task queue client for expiry scheduling and notifications
	queue := worker.NewClient(redisOpt, logger)
	defer queue.Close()

	stripe := payment.NewStripeBridge(config.Stripe, logger)
	seatCache := cache.NewSeatCache(rdb, config.Redis.SeatCacheTTL, logger)

	service := usecase.NewService(repos, stripe, queue, queue, seatCache, config, logger)

	// Background worker consuming expiry and notification tasks
	srv := worker.NewServer(redisOpt, service.Booking, logger)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatal("Worker server error", zap.Error(err))
		}
	}()
	defer srv.Shutdown()

	// Wire all dependencies
	app := wire.Wiring(service, stripe, config, logger)

	// Start server
	cmd.APIServer(app.Router, config.App.Port, logger)
}
