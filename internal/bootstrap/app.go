package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lexportal/internal/config"
	"lexportal/internal/model"
	postgresClient "lexportal/internal/platform/postgres"
	rabbitmqClient "lexportal/internal/platform/rabbitmq"
	redisClient "lexportal/internal/platform/redis"
	"lexportal/internal/repository"
	"lexportal/internal/worker"
)

type App struct {
	Config        *config.Config
	Postgres      *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	CounterWorker *worker.CounterWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	db, err := postgresClient.New(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Document{}, &model.ChatSession{}, &model.Turn{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}
	if err := postgresClient.MigrateSearchIndex(db); err != nil {
		return nil, err
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.CounterEventQueue)
	if err != nil {
		return nil, err
	}

	documentRepo := repository.NewDocumentRepository(db)
	counterWorker := worker.NewCounterWorker(mqConn, documentRepo, cfg.RabbitMQ.CounterEventQueue)
	if err := counterWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start counter worker failed: %w", err)
	}

	return &App{
		Config:        cfg,
		Postgres:      db,
		Redis:         redisCli,
		MQConn:        mqConn,
		CounterWorker: counterWorker,
		StartedAt:     time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.CounterWorker != nil {
		a.CounterWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Postgres != nil {
		sqlDB, err := a.Postgres.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
