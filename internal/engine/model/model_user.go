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

// StaffUser represents an internal staff member.
// Identity and role arrive via the auth token; this table backs recipient
// resolution and the staff directory, not authentication.
type StaffUser struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserId    string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"user_id"`
	Username  string    `gorm:"uniqueIndex;type:varchar(100);not null" json:"username"`
	Name      string    `gorm:"type:varchar(200)" json:"name"`
	Email     string    `gorm:"uniqueIndex;type:varchar(200);not null" json:"email"`
	Role      string    `gorm:"type:varchar(50);not null;index" json:"role"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	OptOuts   string    `gorm:"type:text" json:"opt_outs"` // Alert types opted out of (JSON array)
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for StaffUser
func (StaffUser) TableName() string {
	return "staff_users"
}

// OptOutList decodes the opt-out alert types
func (u *StaffUser) OptOutList() []string {
	if u.OptOuts == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(u.OptOuts), &out); err != nil {
		return nil
	}
	return out
}

// HasOptedOut reports whether the user opted out of the given alert type
func (u *StaffUser) HasOptedOut(alertType string) bool {
	for _, t := range u.OptOutList() {
		if t == alertType {
			return true
		}
	}
	return false
}

// AddUserReq staff user create request
type AddUserReq struct {
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	OptOuts  []string `json:"optOuts"`
}

// UpdateUserReq staff user update request
type UpdateUserReq struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive *bool     `json:"isActive"`
	OptOuts  *[]string `json:"optOuts"`
}
