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

package model

import (
	"encoding/json"
	"time"
)

// alert types
const (
	AlertCommitteeAssigned  = "committee_assigned"
	AlertFeedbackReceived   = "feedback_received"
	AlertDecisionReady      = "decision_ready"
	AlertCommitteeCancelled = "committee_cancelled"
	AlertFeedbackReminder   = "feedback_reminder"
)

// NotificationRule maps an alert type to the staff roles always notified of
// it, independent of any specific committee. Condition is an optional expr
// filter evaluated against the event context.
type NotificationRule struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RuleId    string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"rule_id"`
	AlertType string    `gorm:"uniqueIndex;type:varchar(50);not null" json:"alert_type"`
	Roles     string    `gorm:"type:text;not null" json:"roles"` // Notified roles (JSON array)
	Condition string    `gorm:"type:text" json:"condition"`      // Optional expr condition
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for NotificationRule
func (NotificationRule) TableName() string {
	return "notification_rules"
}

// RoleList decodes the notified roles
func (r *NotificationRule) RoleList() []string {
	if r.Roles == "" {
		return nil
	}
	var roles []string
	if err := json.Unmarshal([]byte(r.Roles), &roles); err != nil {
		return nil
	}
	return roles
}

// SetRoleList encodes the notified roles
func (r *NotificationRule) SetRoleList(roles []string) error {
	raw, err := json.Marshal(roles)
	if err != nil {
		return err
	}
	r.Roles = string(raw)
	return nil
}

// NotificationLog represents a notification sending record
type NotificationLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	LogId     string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"log_id"`
	AlertType string    `gorm:"type:varchar(50);not null;index" json:"alert_type"`
	Channel   string    `gorm:"type:varchar(50);not null;index" json:"channel"`
	Recipient string    `gorm:"type:varchar(500)" json:"recipient"`
	Subject   string    `gorm:"type:varchar(200)" json:"subject"`
	Content   string    `gorm:"type:text" json:"content"`
	Status    string    `gorm:"type:varchar(50);not null;index" json:"status"` // Status: success/failed
	ErrorMsg  string    `gorm:"type:text" json:"error_msg"`
	SentAt    time.Time `gorm:"index" json:"sent_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for NotificationLog
func (NotificationLog) TableName() string {
	return "notification_logs"
}

// NotificationRuleReq rule create/update request
type NotificationRuleReq struct {
	AlertType string   `json:"alertType"`
	Roles     []string `json:"roles"`
	Condition string   `json:"condition"`
}
