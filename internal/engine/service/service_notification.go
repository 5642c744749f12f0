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

package service

import (
	"context"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/pkg/id"
)

var validAlertTypes = map[string]struct{}{
	model.AlertCommitteeAssigned:  {},
	model.AlertFeedbackReceived:   {},
	model.AlertDecisionReady:      {},
	model.AlertCommitteeCancelled: {},
	model.AlertFeedbackReminder:   {},
}

// NotificationService manages routing rules and exposes the delivery log.
type NotificationService struct {
	rules repo.INotificationRuleRepository
	logs  repo.INotificationLogRepository
}

// NewNotificationService creates the notification admin service
func NewNotificationService(rules repo.INotificationRuleRepository, logs repo.INotificationLogRepository) *NotificationService {
	return &NotificationService{rules: rules, logs: logs}
}

// UpsertRule creates or replaces the rule of an alert type
func (ns *NotificationService) UpsertRule(ctx context.Context, req *model.NotificationRuleReq) (*model.NotificationRule, error) {
	if req == nil {
		return nil, validationErr("request body is required")
	}
	if _, ok := validAlertTypes[req.AlertType]; !ok {
		return nil, validationErr("unknown alert type %q", req.AlertType)
	}
	if len(req.Roles) == 0 {
		return nil, validationErr("rule needs at least one role")
	}

	rule, err := ns.rules.GetRuleByAlertType(ctx, req.AlertType)
	if err != nil {
		if !repo.IsNotFound(err) {
			return nil, err
		}
		rule = &model.NotificationRule{
			RuleId:    id.GetUUIDWithoutDashes(),
			AlertType: req.AlertType,
			IsActive:  true,
		}
		rule.Condition = req.Condition
		if err := rule.SetRoleList(req.Roles); err != nil {
			return nil, err
		}
		if err := ns.rules.CreateRule(ctx, rule); err != nil {
			return nil, err
		}
		return rule, nil
	}

	rule.Condition = req.Condition
	if err := rule.SetRoleList(req.Roles); err != nil {
		return nil, err
	}
	if err := ns.rules.UpdateRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// ListRules lists the configured routing rules
func (ns *NotificationService) ListRules(ctx context.Context) ([]*model.NotificationRule, error) {
	return ns.rules.ListRules(ctx)
}

// DeleteRule removes a routing rule
func (ns *NotificationService) DeleteRule(ctx context.Context, ruleID string) error {
	return ns.rules.DeleteRule(ctx, ruleID)
}

// ListLogs lists recent delivery records
func (ns *NotificationService) ListLogs(ctx context.Context, alertType string, limit int) ([]*model.NotificationLog, error) {
	return ns.logs.ListLogs(ctx, alertType, limit)
}
