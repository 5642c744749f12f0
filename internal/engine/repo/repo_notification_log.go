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

package repo

import (
	"context"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/pkg/database"
)

// INotificationLogRepository 通知发送记录仓库接口
type INotificationLogRepository interface {
	CreateLog(ctx context.Context, log *model.NotificationLog) error
	ListLogs(ctx context.Context, alertType string, limit int) ([]*model.NotificationLog, error)
}

type NotificationLogRepo struct {
	database.IDatabase
}

func NewNotificationLogRepo(db database.IDatabase) INotificationLogRepository {
	return &NotificationLogRepo{
		IDatabase: db,
	}
}

// CreateLog appends a sending record
func (r *NotificationLogRepo) CreateLog(ctx context.Context, log *model.NotificationLog) error {
	return r.Database().WithContext(ctx).Table(log.TableName()).Create(log).Error
}

// ListLogs lists recent sending records, optionally filtered by alert type
func (r *NotificationLogRepo) ListLogs(ctx context.Context, alertType string, limit int) ([]*model.NotificationLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	tx := r.Database().WithContext(ctx).
		Table((&model.NotificationLog{}).TableName())
	if alertType != "" {
		tx = tx.Where("alert_type = ?", alertType)
	}
	var logs []*model.NotificationLog
	err := tx.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
