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
	"strings"
	"time"
)

// recommendations
const (
	RecommendationRecommend    = "recommend"
	RecommendationPending      = "pending"
	RecommendationNotRecommend = "not_recommend"
)

// ValidRecommendation reports whether v is a known recommendation value
func ValidRecommendation(v string) bool {
	return v == RecommendationRecommend || v == RecommendationPending || v == RecommendationNotRecommend
}

// Feedback is one reviewer's assessment. Immutable once created; exactly one
// per committee member. Reviewer identity fields are a point-in-time snapshot.
type Feedback struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	FeedbackId    string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"feedback_id"`
	CommitteeId   string    `gorm:"index;type:varchar(64);not null" json:"committee_id"`
	MemberId      string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"member_id"`
	ReviewerName  string    `gorm:"type:varchar(200)" json:"reviewer_name"`
	ReviewerEmail string    `gorm:"type:varchar(200)" json:"reviewer_email"`
	ReviewerRole  string    `gorm:"type:varchar(100)" json:"reviewer_role"`

	TechnicalNotes string `gorm:"type:text;not null" json:"technical_notes"`
	Strengths      string `gorm:"type:text" json:"strengths"`  // newline separated list
	Weaknesses     string `gorm:"type:text" json:"weaknesses"` // newline separated list
	Recommendation string `gorm:"type:varchar(20);not null" json:"recommendation"`
	OverallScore   int    `gorm:"not null" json:"overall_score"` // integer in [1,10]

	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Feedback
func (Feedback) TableName() string {
	return "feedbacks"
}

// StrengthList parses the newline separated strengths
func (f *Feedback) StrengthList() []string {
	return parseLines(f.Strengths)
}

// WeaknessList parses the newline separated weaknesses
func (f *Feedback) WeaknessList() []string {
	return parseLines(f.Weaknesses)
}

func parseLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SubmitFeedbackReq unauthenticated feedback submission, gated by token
type SubmitFeedbackReq struct {
	Token          string `json:"token"`
	TechnicalNotes string `json:"technicalNotes"`
	Strengths      string `json:"strengths"`
	Weaknesses     string `json:"weaknesses"`
	Recommendation string `json:"recommendation"`
	OverallScore   int    `json:"overallScore"`
}

// FeedbackContext is returned by token verification for rendering the form
type FeedbackContext struct {
	CandidateName string    `json:"candidate_name"`
	Position      string    `json:"position"`
	Department    string    `json:"department"`
	ReviewerName  string    `json:"reviewer_name"`
	ReviewerEmail string    `json:"reviewer_email"`
	Deadline      time.Time `json:"deadline"`
}
