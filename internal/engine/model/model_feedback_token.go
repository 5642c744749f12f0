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
)

// FeedbackToken is the sole credential for exactly one feedback submission.
// Lifecycle: created -> accessed (N times, read-only) -> used | expired.
// A reissue force-expires the previous token for the same member.
type FeedbackToken struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	TokenId        string     `gorm:"uniqueIndex;type:varchar(64);not null" json:"token_id"`
	Token          string     `gorm:"uniqueIndex;type:varchar(64);not null" json:"-"` // opaque credential, never serialized
	CommitteeId    string     `gorm:"index;type:varchar(64);not null" json:"committee_id"`
	MemberId       string     `gorm:"index;type:varchar(64);not null" json:"member_id"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	IsUsed         bool       `gorm:"default:false;index" json:"is_used"`
	UsedAt         *time.Time `json:"used_at"`
	AccessCount    int        `gorm:"default:0" json:"access_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for FeedbackToken
func (FeedbackToken) TableName() string {
	return "feedback_tokens"
}

// IsExpired reports whether the token is past its deadline
func (t *FeedbackToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
