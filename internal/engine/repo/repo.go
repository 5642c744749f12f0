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
	"errors"

	"github.com/go-verdict/verdict/pkg/database"
	"gorm.io/gorm"
)

// storage-level invariant violations surfaced to the service layer
var (
	// ErrDuplicateCommittee: the application already has a live committee
	ErrDuplicateCommittee = errors.New("application already has a pending or active committee")
)

// Repositories 统一管理所有 repository
type Repositories struct {
	User              IUserRepository
	Application       IApplicationRepository
	CommitteeTemplate ICommitteeTemplateRepository
	Committee         ICommitteeRepository
	FeedbackToken     IFeedbackTokenRepository
	Feedback          IFeedbackRepository
	NotificationRule  INotificationRuleRepository
	NotificationLog   INotificationLogRepository
}

// NewRepositories 初始化所有 repository
func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		User:              NewUserRepo(db),
		Application:       NewApplicationRepo(db),
		CommitteeTemplate: NewCommitteeTemplateRepo(db),
		Committee:         NewCommitteeRepo(db),
		FeedbackToken:     NewFeedbackTokenRepo(db),
		Feedback:          NewFeedbackRepo(db),
		NotificationRule:  NewNotificationRuleRepo(db),
		NotificationLog:   NewNotificationLogRepo(db),
	}
}

// IsNotFound reports whether err is a gorm record-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func Count(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
