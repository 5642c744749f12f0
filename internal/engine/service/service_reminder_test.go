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
	"context"
	"testing"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepSendsRemindersToPendingMembers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	req := assignReq(reviewer("a"), reviewer("b"))
	req.Policy.FeedbackDeadlineDays = 1 // inside the default 2-day lookahead
	instance, err := env.feedbackSvc.AssignCustom(ctx, "hr1", req)
	require.NoError(t, err)

	// the first reviewer already submitted, only the second gets a nudge
	require.NoError(t, env.committees.UpdateMemberStatus(ctx, instance.Members[0].MemberId, model.MemberSubmitted))

	locker := &fakeLocker{}
	svc := NewReminderService(env.committees, env.feedbackSvc, locker, 0)

	result, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.NotEmpty(t, result.RunId)
	assert.Equal(t, 1, result.Committees)
	assert.Equal(t, 1, result.Sent)
	assert.True(t, locker.unlocked)

	reminders := env.enq.byAlertType(model.AlertFeedbackReminder)
	require.Len(t, reminders, 1)
	assert.Equal(t, "b@example.com", reminders[0].RecipientEmail)
	assert.Contains(t, reminders[0].Body, "https://verdict.example.com/feedback/")
}

func TestSweepSkippedWhenLockHeld(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	req := assignReq(reviewer("a"))
	req.Policy.FeedbackDeadlineDays = 1
	_, err := env.feedbackSvc.AssignCustom(ctx, "hr1", req)
	require.NoError(t, err)

	locker := &fakeLocker{held: true}
	svc := NewReminderService(env.committees, env.feedbackSvc, locker, 0)

	result, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Zero(t, result.Sent)
	// a skipped run must not release the other run's lock
	assert.False(t, locker.unlocked)
	assert.Empty(t, env.enq.byAlertType(model.AlertFeedbackReminder))
}

func TestSweepIgnoresFarDeadlines(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	req := assignReq(reviewer("a"))
	req.Policy.FeedbackDeadlineDays = 7 // beyond the lookahead window
	_, err := env.feedbackSvc.AssignCustom(ctx, "hr1", req)
	require.NoError(t, err)

	locker := &fakeLocker{}
	svc := NewReminderService(env.committees, env.feedbackSvc, locker, 2)

	result, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Committees)
	assert.Zero(t, result.Sent)
}

func TestSweepIsRepeatable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	req := assignReq(reviewer("a"))
	req.Policy.FeedbackDeadlineDays = 1
	_, err := env.feedbackSvc.AssignCustom(ctx, "hr1", req)
	require.NoError(t, err)

	svc := NewReminderService(env.committees, env.feedbackSvc, &fakeLocker{}, 0)

	first, err := svc.Sweep(ctx)
	require.NoError(t, err)
	second, err := svc.Sweep(ctx)
	require.NoError(t, err)

	// the token is re-sent, never consumed: both runs reach the same member
	assert.Equal(t, 1, first.Sent)
	assert.Equal(t, 1, second.Sent)
	assert.Len(t, env.enq.byAlertType(model.AlertFeedbackReminder), 2)
}
