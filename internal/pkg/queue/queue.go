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

package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-verdict/verdict/pkg/log"
	"github.com/go-verdict/verdict/pkg/metrics"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// 任务类型常量
const (
	TaskTypeNotification = "notification:send"
)

// Config queue 配置
type Config struct {
	RedisClient     redis.UniversalClient // Redis 客户端（复用已有的客户端）
	Concurrency     int                   // 并发处理数
	Queue           string                // 队列名称
	ShutdownTimeout int                   // 关闭超时时间（秒）
}

// NotificationPayload is the queued representation of one alert delivery,
// already fanned out to a single recipient.
type NotificationPayload struct {
	AlertType      string                 `json:"alert_type"`
	RecipientName  string                 `json:"recipient_name"`
	RecipientEmail string                 `json:"recipient_email"`
	Subject        string                 `json:"subject"`
	Body           string                 `json:"body"`
	Data           map[string]interface{} `json:"data,omitempty"`
}

// NotificationHandler processes one queued notification
type NotificationHandler interface {
	HandleNotification(ctx context.Context, payload *NotificationPayload) error
}

// NotificationQueue 基于 asynq 的通知投递队列
type NotificationQueue struct {
	client   *asynq.Client
	server   *asynq.Server
	mux      *asynq.ServeMux
	config   *Config
	redisOpt asynq.RedisConnOpt
}

// NewNotificationQueue 创建通知队列
func NewNotificationQueue(cfg *Config) (*NotificationQueue, error) {
	if cfg == nil {
		return nil, fmt.Errorf("queue config is required")
	}
	if cfg.RedisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.Queue == "" {
		cfg.Queue = "notifications"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}

	shutdownTimeout := 10 * time.Second
	if cfg.ShutdownTimeout > 0 {
		shutdownTimeout = time.Duration(cfg.ShutdownTimeout) * time.Second
	}

	redisOpt := &redisConnOptWrapper{client: cfg.RedisClient}
	client := asynq.NewClient(redisOpt)
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     cfg.Concurrency,
		Queues:          map[string]int{cfg.Queue: 1},
		Logger:          &asynqLoggerAdapter{},
		RetryDelayFunc:  asynq.DefaultRetryDelayFunc,
		ShutdownTimeout: shutdownTimeout,
	})

	q := &NotificationQueue{
		client:   client,
		server:   server,
		mux:      asynq.NewServeMux(),
		config:   cfg,
		redisOpt: redisOpt,
	}

	log.Infow("notification queue created",
		"concurrency", cfg.Concurrency,
		"queue", cfg.Queue,
	)
	return q, nil
}

// RegisterHandler 注册通知处理器
func (q *NotificationQueue) RegisterHandler(handler NotificationHandler) {
	q.mux.HandleFunc(TaskTypeNotification, func(ctx context.Context, t *asynq.Task) error {
		var payload NotificationPayload
		if err := sonic.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal notification payload: %w", err)
		}

		log.Infow("processing notification",
			"alert_type", payload.AlertType,
			"recipient", payload.RecipientEmail,
		)
		return handler.HandleNotification(ctx, &payload)
	})
}

// Enqueue 入队通知任务
func (q *NotificationQueue) Enqueue(payload *NotificationPayload) error {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeNotification, data)
	info, err := q.client.Enqueue(task,
		asynq.Queue(q.config.Queue),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	metrics.NotificationsEnqueued.WithLabelValues(payload.AlertType).Inc()

	log.Infow("notification enqueued",
		"alert_type", payload.AlertType,
		"recipient", payload.RecipientEmail,
		"task_id", info.ID,
	)
	return nil
}

// Start 启动队列服务器,立即返回不阻塞
func (q *NotificationQueue) Start() error {
	log.Info("starting notification queue server")
	return q.server.Start(q.mux)
}

// Shutdown 关闭队列
func (q *NotificationQueue) Shutdown() {
	log.Info("shutting down notification queue")
	q.server.Shutdown()
	if err := q.client.Close(); err != nil {
		log.Warnw("error closing queue client", "error", err)
	}
}

// redisConnOptWrapper 包装已有的 Redis 客户端实现 RedisConnOpt 接口
type redisConnOptWrapper struct {
	client redis.UniversalClient
}

// MakeRedisClient 实现 RedisConnOpt 接口
func (r *redisConnOptWrapper) MakeRedisClient() interface{} {
	return r.client
}
