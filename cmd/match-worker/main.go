package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/we4us/platform/pkg/common/config"
	"github.com/we4us/platform/pkg/common/database"
	"github.com/we4us/platform/pkg/common/kafka"
	"github.com/we4us/platform/pkg/common/logger"
	"github.com/we4us/platform/pkg/common/models"
	"github.com/we4us/platform/pkg/matching"
	"github.com/we4us/platform/pkg/users"
)

// match-worker listens for profile updates and re-warms the match vector
// cache so the next matches request does not pay the encoding round trip.
func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	weights, err := matching.LoadWeights(cfg.MatchWeightsFile)
	if err != nil {
		logger.Log.WithError(err).Warn("using default match weights")
	}
	vectorCache := matching.NewVectorCache(database.GetRedis(), cfg.MatchVectorCacheTTL)
	directory := users.NewDirectory(users.NewRepository(db))
	matchService := matching.NewService(directory, matching.NewEngine(weights), vectorCache, cfg.MatchDefaultLimit, cfg.MatchPoolBatchSize)

	consumer := kafka.NewConsumer(cfg.ProfileEventTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down match worker...")
		cancel()
	}()

	logger.Log.WithField("topic", cfg.ProfileEventTopic).Info("match worker consuming")
	err = consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
		if event.Type != "profile_updated" {
			return nil
		}

		raw, ok := event.Data["user_id"].(string)
		if !ok {
			logger.Log.WithField("event_id", event.ID).Warn("profile event missing user_id")
			return nil
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			logger.Log.WithField("event_id", event.ID).Warn("profile event has invalid user_id")
			return nil
		}

		if err := matchService.WarmVector(ctx, userID); err != nil {
			return err
		}
		logger.Log.WithField("user_id", userID).Debug("re-warmed match vector")
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.WithError(err).Error("consumer stopped")
	}
	logger.Log.Info("match worker stopped")
}
