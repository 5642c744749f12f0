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

// INotificationRuleRepository 通知规则仓库接口
type INotificationRuleRepository interface {
	CreateRule(ctx context.Context, rule *model.NotificationRule) error
	GetRuleByAlertType(ctx context.Context, alertType string) (*model.NotificationRule, error)
	ListRules(ctx context.Context) ([]*model.NotificationRule, error)
	UpdateRule(ctx context.Context, rule *model.NotificationRule) error
	DeleteRule(ctx context.Context, ruleID string) error
}

type NotificationRuleRepo struct {
	database.IDatabase
}

func NewNotificationRuleRepo(db database.IDatabase) INotificationRuleRepository {
	return &NotificationRuleRepo{
		IDatabase: db,
	}
}

// CreateRule creates a notification rule
func (r *NotificationRuleRepo) CreateRule(ctx context.Context, rule *model.NotificationRule) error {
	return r.Database().WithContext(ctx).Table(rule.TableName()).Create(rule).Error
}

// GetRuleByAlertType retrieves the active rule for an alert type
func (r *NotificationRuleRepo) GetRuleByAlertType(ctx context.Context, alertType string) (*model.NotificationRule, error) {
	var rule model.NotificationRule
	err := r.Database().WithContext(ctx).
		Table(rule.TableName()).
		Where("alert_type = ? AND is_active = ?", alertType, true).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListRules lists all notification rules
func (r *NotificationRuleRepo) ListRules(ctx context.Context) ([]*model.NotificationRule, error) {
	var rules []*model.NotificationRule
	err := r.Database().WithContext(ctx).
		Table((&model.NotificationRule{}).TableName()).
		Order("id ASC").
		Find(&rules).Error
	return rules, err
}

// UpdateRule updates an existing rule
func (r *NotificationRuleRepo) UpdateRule(ctx context.Context, rule *model.NotificationRule) error {
	return r.Database().WithContext(ctx).
		Table(rule.TableName()).
		Where("rule_id = ?", rule.RuleId).
		Omit("id", "rule_id", "created_at").
		Updates(rule).Error
}

// DeleteRule removes a rule
func (r *NotificationRuleRepo) DeleteRule(ctx context.Context, ruleID string) error {
	return r.Database().WithContext(ctx).
		Table((&model.NotificationRule{}).TableName()).
		Where("rule_id = ?", ruleID).
		Delete(&model.NotificationRule{}).Error
}
