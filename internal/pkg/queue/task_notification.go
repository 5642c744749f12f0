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
 * @file: task_notification.go
 * @description: queued notification consumer; dispatches through the channel
 *               manager and records one log row per channel attempt
 */

package queue

import (
	"context"
	"time"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/internal/pkg/notify"
	"github.com/go-verdict/verdict/pkg/id"
	"github.com/go-verdict/verdict/pkg/log"
	"github.com/go-verdict/verdict/pkg/metrics"
)

// NotificationDispatcher consumes queued notifications. Channel failures are
// logged and recorded but do not fail the task: a dead webhook must not make
// asynq redeliver an email that already went out.
type NotificationDispatcher struct {
	manager *notify.NotifyManager
	logs    repo.INotificationLogRepository
}

// NewNotificationDispatcher creates the queue-side notification consumer
func NewNotificationDispatcher(manager *notify.NotifyManager, logs repo.INotificationLogRepository) *NotificationDispatcher {
	return &NotificationDispatcher{
		manager: manager,
		logs:    logs,
	}
}

// HandleNotification implements NotificationHandler
func (d *NotificationDispatcher) HandleNotification(ctx context.Context, payload *NotificationPayload) error {
	msg := &notify.Message{
		AlertType: payload.AlertType,
		To: notify.Recipient{
			Name:  payload.RecipientName,
			Email: payload.RecipientEmail,
		},
		Subject: payload.Subject,
		Body:    payload.Body,
		Data:    payload.Data,
	}

	results := d.manager.Dispatch(ctx, msg)
	for _, res := range results {
		record := &model.NotificationLog{
			LogId:     id.GetUlid(),
			AlertType: payload.AlertType,
			Channel:   string(res.Channel),
			Recipient: res.Recipient,
			Subject:   payload.Subject,
			Content:   payload.Body,
			Status:    "success",
			SentAt:    time.Now(),
		}
		if res.Err != nil {
			record.Status = "failed"
			record.ErrorMsg = res.Err.Error()
			log.Errorw("notification delivery failed",
				"alert_type", payload.AlertType,
				"channel", res.Channel,
				"recipient", res.Recipient,
				"error", res.Err,
			)
		}
		metrics.NotificationsDelivered.WithLabelValues(string(res.Channel), record.Status).Inc()
		if err := d.logs.CreateLog(ctx, record); err != nil {
			log.Errorw("failed to record notification log", "error", err)
		}
	}
	return nil
}
