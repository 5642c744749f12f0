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
	"github.com/go-verdict/verdict/internal/engine/logic"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/internal/pkg/notify"
	"github.com/go-verdict/verdict/pkg/cache"
)

// Services 统一管理所有 service
type Services struct {
	Template     *TemplateService
	Committee    *CommitteeService
	Token        *TokenService
	Feedback     *FeedbackService
	Reminder     *ReminderService
	User         *UserService
	Application  *ApplicationService
	Notification *NotificationService
}

// Options carries the tunables the services need beyond their repositories
type Options struct {
	// BaseURL is the public origin reviewer feedback links point at
	BaseURL          string
	Thresholds       logic.Thresholds
	LookaheadDays    int
	MaxResendsPerDay int
}

// NewServices 初始化所有 service
func NewServices(
	repos *repo.Repositories,
	c cache.ICache,
	resolver *notify.Resolver,
	enqueuer NotificationEnqueuer,
	opts Options,
) *Services {
	committeeService := NewCommitteeService(
		repos.Committee, repos.CommitteeTemplate, repos.Application,
		repos.User, repos.Feedback, opts.Thresholds,
	)
	tokenService := NewTokenService(
		repos.FeedbackToken,
		NewRedisResendLimiter(c, opts.MaxResendsPerDay),
		opts.BaseURL,
	)
	feedbackService := NewFeedbackService(
		committeeService, tokenService,
		repos.Committee, repos.Application, repos.Feedback, repos.FeedbackToken,
		resolver, enqueuer,
	)
	reminderService := NewReminderService(
		repos.Committee, feedbackService,
		NewRedisSweepLocker(c), opts.LookaheadDays,
	)

	return &Services{
		Template:     NewTemplateService(repos.CommitteeTemplate),
		Committee:    committeeService,
		Token:        tokenService,
		Feedback:     feedbackService,
		Reminder:     reminderService,
		User:         NewUserService(repos.User),
		Application:  NewApplicationService(repos.Application),
		Notification: NewNotificationService(repos.NotificationRule, repos.NotificationLog),
	}
}
