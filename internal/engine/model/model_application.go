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

// Application is the candidate application a committee is attached to.
// Kept minimal: the committee engine only needs an anchor entity and
// candidate context for the feedback form.
type Application struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	AppId          string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"app_id"`
	CandidateName  string    `gorm:"type:varchar(200);not null" json:"candidate_name"`
	CandidateEmail string    `gorm:"type:varchar(200)" json:"candidate_email"`
	Position       string    `gorm:"type:varchar(200);not null" json:"position"`
	Department     string    `gorm:"type:varchar(100);index" json:"department"`
	Status         string    `gorm:"type:varchar(50);index;default:received" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Application
func (Application) TableName() string {
	return "applications"
}

// AddApplicationReq application create request
type AddApplicationReq struct {
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
	Position       string `json:"position"`
	Department     string `json:"department"`
}
