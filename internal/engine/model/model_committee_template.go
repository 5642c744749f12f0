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

// voting mechanisms
const (
	VotingAverage   = "average"
	VotingMajority  = "majority"
	VotingConsensus = "consensus"
)

// VotingPolicy is copied by value from template to instance at assignment,
// so later template edits never change a live committee.
type VotingPolicy struct {
	MinFeedbackRequired  int    `gorm:"default:1" json:"min_feedback_required"`
	RequireAllFeedback   bool   `gorm:"default:false" json:"require_all_feedback"`
	VotingMechanism      string `gorm:"type:varchar(20);default:average" json:"voting_mechanism"`
	FeedbackDeadlineDays int    `gorm:"default:7" json:"feedback_deadline_days"`
	AutoAssign           bool   `gorm:"default:false" json:"auto_assign"`
}

// CommitteeTemplate is a reusable panel blueprint scoped by department.
type CommitteeTemplate struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	TemplateId string       `gorm:"uniqueIndex;type:varchar(64);not null" json:"template_id"`
	Name       string       `gorm:"type:varchar(200);not null" json:"name"`
	Department string       `gorm:"type:varchar(100);index" json:"department"`
	Members    string       `gorm:"type:text;not null" json:"members"` // Ordered members (JSON array)
	Policy     VotingPolicy `gorm:"embedded" json:"policy"`
	IsActive   bool         `gorm:"default:true;index" json:"is_active"`
	CreatedBy  string       `gorm:"type:varchar(64)" json:"created_by"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for CommitteeTemplate
func (CommitteeTemplate) TableName() string {
	return "committee_templates"
}

// TemplateMember is one entry of the template's ordered member list.
type TemplateMember struct {
	ReviewerId string `json:"reviewerId"`
	Role       string `json:"role"`
	IsPrimary  bool   `json:"isPrimary"`
}

// MemberList decodes the ordered member list
func (t *CommitteeTemplate) MemberList() ([]TemplateMember, error) {
	var members []TemplateMember
	if t.Members == "" {
		return members, nil
	}
	if err := json.Unmarshal([]byte(t.Members), &members); err != nil {
		return nil, err
	}
	return members, nil
}

// SetMemberList encodes the ordered member list
func (t *CommitteeTemplate) SetMemberList(members []TemplateMember) error {
	raw, err := json.Marshal(members)
	if err != nil {
		return err
	}
	t.Members = string(raw)
	return nil
}

// TemplateReq template create/update request
type TemplateReq struct {
	Name       string           `json:"name"`
	Department string           `json:"department"`
	Members    []TemplateMember `json:"members"`
	Policy     VotingPolicy     `json:"policy"`
}
