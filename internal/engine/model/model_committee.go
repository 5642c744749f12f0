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
	"time"

	"github.com/go-verdict/verdict/pkg/statemachine"
)

// committee member statuses
const (
	MemberPending   = "pending"
	MemberSubmitted = "submitted"
	MemberDeclined  = "declined"
	MemberExpired   = "expired"
)

// CommitteeInstance is the live per-application roster.
// The aggregate columns are a cache derived from submitted feedback; they are
// recomputed on every write and self-healed on read, never authoritative.
type CommitteeInstance struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	CommitteeId string       `gorm:"uniqueIndex;type:varchar(64);not null" json:"committee_id"`
	AppId       string       `gorm:"index;type:varchar(64);not null" json:"app_id"`
	TemplateId  string       `gorm:"type:varchar(64)" json:"template_id"` // empty for ad hoc committees
	Policy      VotingPolicy `gorm:"embedded" json:"policy"`
	Deadline    time.Time    `json:"deadline"`
	Status      string       `gorm:"type:varchar(20);index;default:pending" json:"status"`

	// aggregate cache
	AverageScore        float64    `json:"average_score"`
	RecommendCount      int        `json:"recommend_count"`
	PendingCount        int        `json:"pending_count"`
	NotRecommendCount   int        `json:"not_recommend_count"`
	FinalRecommendation string     `gorm:"type:varchar(20)" json:"final_recommendation"`
	AggregateComputedAt *time.Time `json:"aggregate_computed_at"`

	CreatedBy    string    `gorm:"type:varchar(64)" json:"created_by"`
	CancelReason string    `gorm:"type:text" json:"cancel_reason"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Members []*CommitteeMember `gorm:"-" json:"members,omitempty"`
}

// TableName specifies the table name for CommitteeInstance
func (CommitteeInstance) TableName() string {
	return "committee_instances"
}

// CommitteeStatus returns the typed lifecycle status
func (ci *CommitteeInstance) CommitteeStatus() statemachine.CommitteeStatus {
	return statemachine.CommitteeStatus(ci.Status)
}

// CommitteeMember is one roster entry of a committee instance.
// Reviewer name/email are snapshotted so later staff edits do not rewrite
// history.
type CommitteeMember struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	MemberId    string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"member_id"`
	CommitteeId string    `gorm:"index:idx_committee_reviewer,unique;type:varchar(64);not null" json:"committee_id"`
	ReviewerId  string    `gorm:"index:idx_committee_reviewer,unique;type:varchar(64);not null" json:"reviewer_id"`
	Name        string    `gorm:"type:varchar(200)" json:"name"`
	Email       string    `gorm:"type:varchar(200);not null" json:"email"`
	Role        string    `gorm:"type:varchar(100)" json:"role"`
	IsPrimary   bool      `gorm:"default:false" json:"is_primary"`
	Position    int       `gorm:"default:0" json:"position"` // roster order
	Status      string    `gorm:"type:varchar(20);index;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for CommitteeMember
func (CommitteeMember) TableName() string {
	return "committee_members"
}

// CommitteeAuditNote is an append-only audit record for committee mutations.
type CommitteeAuditNote struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CommitteeId string    `gorm:"index;type:varchar(64);not null" json:"committee_id"`
	ActorId     string    `gorm:"type:varchar(64)" json:"actor_id"`
	Note        string    `gorm:"type:text;not null" json:"note"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for CommitteeAuditNote
func (CommitteeAuditNote) TableName() string {
	return "committee_audit_notes"
}

// MemberReq one roster entry supplied by staff
type MemberReq struct {
	ReviewerId string `json:"reviewerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsPrimary  bool   `json:"isPrimary"`
}

// AssignFromTemplateReq committee assignment from a template
type AssignFromTemplateReq struct {
	AppId      string        `json:"appId"`
	TemplateId string        `json:"templateId"`
	Policy     *VotingPolicy `json:"policy"` // optional policy override
}

// AssignCustomReq ad hoc committee assignment
type AssignCustomReq struct {
	AppId   string       `json:"appId"`
	Members []MemberReq  `json:"members"`
	Policy  VotingPolicy `json:"policy"`
}

// CancelCommitteeReq committee cancellation
type CancelCommitteeReq struct {
	Reason string `json:"reason"`
}
