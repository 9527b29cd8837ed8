package main

import (
	"os"
	"time"

	"orderflow/internal/config"
	"orderflow/internal/controllers/http"
	"orderflow/internal/infra"
	mmysql "orderflow/internal/infra/mysql"
	"orderflow/internal/infra/rabbitmq"
	mysqlrepo "orderflow/internal/repository/mysql"
	"orderflow/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()

	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1000)
	sqlDB.SetMaxIdleConns(200)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	locationRepo := mysqlrepo.NewLocationRepository(db)
	subscriptionRepo := mysqlrepo.NewSubscriptionRepository(db)
	resourceRepo := mysqlrepo.NewResourceRepository(db)

	processor := infra.NewProcessorClient(cfg.ProcessorURL, cfg.ProcessorAPIKey, cfg.ProcessorTimeout)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, "orders.exchange")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init publisher")
	}
	defer publisher.Close()

	orders := services.NewOrderService(orderRepo, processor, publisher)
	reconcile := services.NewReconcileService(orderRepo, publisher)
	kitchen := services.NewKitchenService(orderRepo, locationRepo)
	quota := services.NewQuotaService(subscriptionRepo, resourceRepo)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":6379",
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	kitchen.SetRedisClient(redisClient)

	handler := http.NewHandler(orders, reconcile, kitchen, quota, resourceRepo, cfg.JWTSecret, cfg.WebhookSecret)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	log.Info().Str("port", cfg.Port).Msg("starting order lifecycle service")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run failed")
	}
}
