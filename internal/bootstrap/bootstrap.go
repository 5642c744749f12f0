// Copyright 2025 Verdict Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/**
 * @file: bootstrap.go
 * @description: wires config, storage, queue, services and the http router
 *               into a runnable app, and drives graceful shutdown
 */

package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-verdict/verdict/internal/engine/config"
	"github.com/go-verdict/verdict/internal/engine/logic"
	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/internal/engine/router"
	"github.com/go-verdict/verdict/internal/engine/service"
	"github.com/go-verdict/verdict/internal/pkg/notify"
	"github.com/go-verdict/verdict/internal/pkg/notify/channel"
	"github.com/go-verdict/verdict/internal/pkg/queue"
	"github.com/go-verdict/verdict/pkg/cache"
	"github.com/go-verdict/verdict/pkg/database"
	"github.com/go-verdict/verdict/pkg/log"
	"github.com/go-verdict/verdict/pkg/safe"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	HttpApp *fiber.App
	Queue   *queue.NotificationQueue
	Sweeper *cron.Cron
	Logger  *zap.Logger
	AppConf config.AppConfig
}

// NewApp loads the config and assembles every component of the engine
func NewApp(configFile string) (*App, func(), error) {
	appConf := config.NewConf(configFile)

	logger, err := log.NewLog(&appConf.Log)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		return nil, nil, err
	}
	dbClient, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, nil, err
	}

	if err := migrate(dbClient); err != nil {
		return nil, nil, err
	}

	db := database.NewGormDB(dbClient)
	redisCache := cache.NewRedisCache(redisClient)
	repos := repo.NewRepositories(db)

	// outbound channels
	manager := notify.NewNotifyManager()
	if appConf.Notify.Email.Enabled {
		emailConf := appConf.Notify.Email
		ch := channel.NewEmailChannel(emailConf.SMTPHost, emailConf.SMTPPort,
			emailConf.FromEmail, emailConf.Username, emailConf.Password)
		if err := manager.RegisterChannel(ch); err != nil {
			return nil, nil, err
		}
	}
	if appConf.Notify.Webhook.Enabled {
		webhookConf := appConf.Notify.Webhook
		ch := channel.NewWebhookChannel(webhookConf.URL, time.Duration(webhookConf.Timeout)*time.Second)
		if err := manager.RegisterChannel(ch); err != nil {
			return nil, nil, err
		}
	}

	// delivery queue
	notificationQueue, err := queue.NewNotificationQueue(&queue.Config{
		RedisClient: redisClient,
		Concurrency: appConf.Queue.Concurrency,
		Queue:       appConf.Queue.Queue,
	})
	if err != nil {
		return nil, nil, err
	}
	notificationQueue.RegisterHandler(queue.NewNotificationDispatcher(manager, repos.NotificationLog))

	services := service.NewServices(
		repos,
		redisCache,
		notify.NewResolver(repos.User, repos.NotificationRule),
		notificationQueue,
		service.Options{
			BaseURL: appConf.Notify.BaseURL,
			Thresholds: logic.Thresholds{
				High: appConf.Voting.HighThreshold,
				Low:  appConf.Voting.LowThreshold,
			},
			LookaheadDays:    appConf.Reminder.LookaheadDays,
			MaxResendsPerDay: appConf.Reminder.MaxResendsPerDay,
		},
	)

	rt := router.NewRouter(&appConf.Http, &appConf.Reminder, services)
	httpApp := rt.Router()

	// optional in-process sweep; most deployments trigger the external
	// endpoint from their own scheduler instead
	var sweeper *cron.Cron
	if appConf.Reminder.CronSpec != "" {
		sweeper = cron.New()
		_, err := sweeper.AddFunc(appConf.Reminder.CronSpec, func() {
			safe.Do(func() {
				if _, err := services.Reminder.Sweep(context.Background()); err != nil {
					log.Errorf("scheduled reminder sweep failed: %v", err)
				}
			})
		})
		if err != nil {
			return nil, nil, err
		}
	}

	cleanup := func() {
		notificationQueue.Shutdown()
		if sweeper != nil {
			sweeper.Stop()
		}
		manager.Close()
		if err := redisClient.Close(); err != nil {
			log.Warnw("error closing redis client", "error", err)
		}
		if sqlDB, err := dbClient.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warnw("error closing database", "error", err)
			}
		}
	}

	app := &App{
		HttpApp: httpApp,
		Queue:   notificationQueue,
		Sweeper: sweeper,
		Logger:  logger,
		AppConf: appConf,
	}
	return app, cleanup, nil
}

// migrate keeps the schema in step with the models
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.StaffUser{},
		&model.Application{},
		&model.CommitteeTemplate{},
		&model.CommitteeInstance{},
		&model.CommitteeMember{},
		&model.CommitteeAuditNote{},
		&model.FeedbackToken{},
		&model.Feedback{},
		&model.NotificationRule{},
		&model.NotificationLog{},
	)
}

// Run starts the app and waits for an exit signal, then gracefully shuts down
func Run(app *App, cleanup func()) {
	logger := app.Logger
	appConf := app.AppConf

	// start async notification delivery
	if err := app.Queue.Start(); err != nil {
		logger.Sugar().Errorf("notification queue failed to start: %v", err)
	}

	if app.Sweeper != nil {
		app.Sweeper.Start()
		logger.Sugar().Infow("in-process reminder sweep scheduled",
			"spec", appConf.Reminder.CronSpec,
		)
	}

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// start HTTP server (async)
	safe.Go(func() {
		addr := appConf.Http.Addr()
		logger.Sugar().Infow("HTTP listener started",
			"address", addr,
		)
		if err := app.HttpApp.Listen(addr); err != nil {
			logger.Sugar().Errorw("HTTP listener failed",
				"address", addr,
				"error", err,
			)
		}
	})

	// wait for exit signal
	sig := <-quit
	logger.Sugar().Infof("Received signal: %v, shutting down gracefully...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Sugar().Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	// queue, scheduler, storage handles
	cleanup()

	logger.Info("Server shutdown complete")
}
