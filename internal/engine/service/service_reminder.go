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

/**
 * @file: service_reminder.go
 * @description: deadline sweep: finds live committees approaching their
 *               deadline and pushes reminders to pending reviewers. A redis
 *               lock keeps overlapping triggers from double-sending.
 */

package service

import (
	"context"
	"time"

	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/pkg/cache"
	"github.com/go-verdict/verdict/pkg/id"
	"github.com/go-verdict/verdict/pkg/log"
)

const sweepLockKey = "verdict:reminder:sweep"

// SweepLocker serializes concurrent sweep runs
type SweepLocker interface {
	// TryLock acquires the sweep lock; returns false when another run holds it
	TryLock(ctx context.Context, runID string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context) error
}

// RedisSweepLocker implements SweepLocker with SETNX
type RedisSweepLocker struct {
	cache cache.ICache
}

// NewRedisSweepLocker creates the default sweep locker
func NewRedisSweepLocker(c cache.ICache) *RedisSweepLocker {
	return &RedisSweepLocker{cache: c}
}

// TryLock acquires the sweep lock via SETNX
func (l *RedisSweepLocker) TryLock(ctx context.Context, runID string, ttl time.Duration) (bool, error) {
	return l.cache.SetNX(ctx, sweepLockKey, runID, ttl).Result()
}

// Unlock releases the sweep lock
func (l *RedisSweepLocker) Unlock(ctx context.Context) error {
	return l.cache.Del(ctx, sweepLockKey).Err()
}

// SweepResult summarizes one reminder run
type SweepResult struct {
	RunId      string `json:"run_id"`
	Skipped    bool   `json:"skipped"` // another run held the lock
	Committees int    `json:"committees"`
	Sent       int    `json:"sent"`
}

// ReminderService runs the deadline sweep.
type ReminderService struct {
	committees    repo.ICommitteeRepository
	feedbackSvc   *FeedbackService
	locker        SweepLocker
	lookaheadDays int
}

// NewReminderService creates the reminder service
func NewReminderService(committees repo.ICommitteeRepository, feedbackSvc *FeedbackService, locker SweepLocker, lookaheadDays int) *ReminderService {
	if lookaheadDays <= 0 {
		lookaheadDays = 2
	}
	return &ReminderService{
		committees:    committees,
		feedbackSvc:   feedbackSvc,
		locker:        locker,
		lookaheadDays: lookaheadDays,
	}
}

// Sweep sends reminders for every live committee whose deadline falls within
// the lookahead window. Safe to trigger repeatedly: overlapping runs are
// skipped, and each committee is re-read before sending.
func (rs *ReminderService) Sweep(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{RunId: id.ShortId()}

	locked, err := rs.locker.TryLock(ctx, result.RunId, 10*time.Minute)
	if err != nil {
		return nil, err
	}
	if !locked {
		result.Skipped = true
		log.Infow("reminder sweep skipped, another run in progress", "runId", result.RunId)
		return result, nil
	}
	defer func() {
		if err := rs.locker.Unlock(ctx); err != nil {
			log.Errorw("failed to release sweep lock", "runId", result.RunId, "error", err)
		}
	}()

	cutoff := time.Now().AddDate(0, 0, rs.lookaheadDays)
	instances, err := rs.committees.ListActiveWithDeadlineWithin(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	for _, instance := range instances {
		sent, err := rs.feedbackSvc.SendReminders(ctx, instance.CommitteeId)
		if err != nil {
			log.Errorw("reminder send failed", "committeeId", instance.CommitteeId, "error", err)
			continue
		}
		result.Committees++
		result.Sent += sent
	}

	log.Infow("reminder sweep finished",
		"runId", result.RunId,
		"committees", result.Committees,
		"sent", result.Sent,
	)
	return result, nil
}
