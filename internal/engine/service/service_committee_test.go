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
	"time"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTemplate(t *testing.T, env *testEnv, policy model.VotingPolicy, members ...model.TemplateMember) *model.CommitteeTemplate {
	t.Helper()
	tpl := &model.CommitteeTemplate{
		TemplateId: "tpl1",
		Name:       "Backend Panel",
		Department: "engineering",
		Policy:     policy,
		IsActive:   true,
	}
	require.NoError(t, tpl.SetMemberList(members))
	require.NoError(t, env.templates.CreateTemplate(context.Background(), tpl))
	return tpl
}

func seedUser(env *testEnv, id, role string) *model.StaffUser {
	u := &model.StaffUser{
		UserId:   id,
		Username: id,
		Name:     "User " + id,
		Email:    id + "@example.com",
		Role:     role,
		IsActive: true,
	}
	env.users.users[id] = u
	return u
}

func TestAssignFromTemplateCopiesPolicy(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	seedUser(env, "u1", "engineer")
	seedUser(env, "u2", "manager")
	policy := model.VotingPolicy{
		MinFeedbackRequired:  2,
		VotingMechanism:      model.VotingMajority,
		FeedbackDeadlineDays: 5,
	}
	tpl := seedTemplate(t, env, policy,
		model.TemplateMember{ReviewerId: "u1", Role: "engineer", IsPrimary: true},
		model.TemplateMember{ReviewerId: "u2", Role: "manager"},
	)

	instance, err := env.committeeSvc.AssignFromTemplate(ctx, "hr1", &model.AssignFromTemplateReq{
		AppId:      "app1",
		TemplateId: tpl.TemplateId,
	})
	require.NoError(t, err)

	assert.Equal(t, tpl.TemplateId, instance.TemplateId)
	assert.Equal(t, policy, instance.Policy)
	assert.Equal(t, string(statemachine.CommitteePending), instance.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 5), instance.Deadline, time.Minute)

	require.Len(t, instance.Members, 2)
	first := instance.Members[0]
	assert.Equal(t, "u1", first.ReviewerId)
	assert.Equal(t, "u1@example.com", first.Email)
	assert.True(t, first.IsPrimary)
	assert.Equal(t, model.MemberPending, first.Status)

	// later template edits must not leak into the instance
	tpl.Policy.MinFeedbackRequired = 99
	got, err := env.committeeSvc.Get(ctx, instance.CommitteeId)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Policy.MinFeedbackRequired)
}

func TestAssignFromTemplatePolicyOverride(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	seedUser(env, "u1", "engineer")
	tpl := seedTemplate(t, env,
		model.VotingPolicy{MinFeedbackRequired: 1, VotingMechanism: model.VotingAverage, FeedbackDeadlineDays: 7},
		model.TemplateMember{ReviewerId: "u1"},
	)

	instance, err := env.committeeSvc.AssignFromTemplate(ctx, "hr1", &model.AssignFromTemplateReq{
		AppId:      "app1",
		TemplateId: tpl.TemplateId,
		Policy:     &model.VotingPolicy{VotingMechanism: model.VotingConsensus, FeedbackDeadlineDays: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, model.VotingConsensus, instance.Policy.VotingMechanism)
	assert.Equal(t, 3, instance.Policy.FeedbackDeadlineDays)

	// an override demanding more feedback than the roster holds is rejected
	env2 := newTestEnv()
	seedUser(env2, "u1", "engineer")
	tpl2 := seedTemplate(t, env2,
		model.VotingPolicy{MinFeedbackRequired: 1, VotingMechanism: model.VotingAverage, FeedbackDeadlineDays: 7},
		model.TemplateMember{ReviewerId: "u1"},
	)
	_, err = env2.committeeSvc.AssignFromTemplate(ctx, "hr1", &model.AssignFromTemplateReq{
		AppId:      "app1",
		TemplateId: tpl2.TemplateId,
		Policy:     &model.VotingPolicy{MinFeedbackRequired: 5},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAssignFromTemplateRejections(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.committeeSvc.AssignFromTemplate(ctx, "hr1", &model.AssignFromTemplateReq{
		AppId: "app1", TemplateId: "missing",
	})
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = env.committeeSvc.AssignFromTemplate(ctx, "hr1", &model.AssignFromTemplateReq{
		AppId: "no-such-app", TemplateId: "tpl1",
	})
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	// a deactivated reviewer blocks the whole assignment
	u := seedUser(env, "u1", "engineer")
	u.IsActive = false
	tpl := seedTemplate(t, env,
		model.VotingPolicy{MinFeedbackRequired: 1, VotingMechanism: model.VotingAverage, FeedbackDeadlineDays: 7},
		model.TemplateMember{ReviewerId: "u1"},
	)
	_, err = env.committeeSvc.AssignFromTemplate(ctx, "hr1", &model.AssignFromTemplateReq{
		AppId: "app1", TemplateId: tpl.TemplateId,
	})
	assert.ErrorIs(t, err, ErrValidation)

	tpl.IsActive = false
	u.IsActive = true
	_, err = env.committeeSvc.AssignFromTemplate(ctx, "hr1", &model.AssignFromTemplateReq{
		AppId: "app1", TemplateId: tpl.TemplateId,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAssignCustomValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.committeeSvc.AssignCustom(ctx, "hr1", &model.AssignCustomReq{AppId: "app1"})
	assert.ErrorIs(t, err, ErrValidation)

	dup := reviewer("a")
	_, err = env.committeeSvc.AssignCustom(ctx, "hr1", &model.AssignCustomReq{
		AppId:   "app1",
		Members: []model.MemberReq{dup, dup},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.committeeSvc.AssignCustom(ctx, "hr1", &model.AssignCustomReq{
		AppId:   "app1",
		Members: []model.MemberReq{{ReviewerId: "rev-a"}}, // no email
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancelCompletedCommitteeRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	instance, err := env.committeeSvc.AssignCustom(ctx, "hr1", assignReq(reviewer("a")))
	require.NoError(t, err)
	require.NoError(t, env.committeeSvc.MarkActive(ctx, instance.CommitteeId))
	require.NoError(t, env.committeeSvc.MarkCompleted(ctx, instance.CommitteeId))

	_, err = env.committeeSvc.Cancel(ctx, "admin1", instance.CommitteeId, "too late")
	assert.ErrorIs(t, err, ErrCommitteeNotLive)
}

func TestMutationsRejectedOnTerminalCommittee(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	instance, err := env.committeeSvc.AssignCustom(ctx, "hr1", assignReq(reviewer("a"), reviewer("b")))
	require.NoError(t, err)
	_, err = env.committeeSvc.Cancel(ctx, "admin1", instance.CommitteeId, "position closed")
	require.NoError(t, err)

	added := reviewer("c")
	_, err = env.committeeSvc.AddMember(ctx, "hr1", instance.CommitteeId, &added)
	assert.ErrorIs(t, err, ErrCommitteeNotLive)

	err = env.committeeSvc.RemoveMember(ctx, "hr1", instance.CommitteeId, instance.Members[0].MemberId)
	assert.ErrorIs(t, err, ErrCommitteeNotLive)
}

func TestRemoveMemberRecomputesAggregate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	instance, err := env.committeeSvc.AssignCustom(ctx, "hr1", assignReq(reviewer("a"), reviewer("b")))
	require.NoError(t, err)

	// one submitted feedback, then the other reviewer drops out
	require.NoError(t, env.feedbacks.CreateFeedback(ctx, &model.Feedback{
		FeedbackId:     "fb1",
		CommitteeId:    instance.CommitteeId,
		MemberId:       instance.Members[0].MemberId,
		Recommendation: model.RecommendationRecommend,
		OverallScore:   9,
		SubmittedAt:    time.Now(),
	}))

	err = env.committeeSvc.RemoveMember(ctx, "hr1", instance.CommitteeId, instance.Members[1].MemberId)
	require.NoError(t, err)

	got, err := env.committeeSvc.Get(ctx, instance.CommitteeId)
	require.NoError(t, err)
	assert.Len(t, got.Members, 1)
	assert.Equal(t, 9.0, got.AverageScore)
	assert.Equal(t, 1, got.RecommendCount)
}

func TestGetSelfHealsStaleAggregate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	instance, err := env.committeeSvc.AssignCustom(ctx, "hr1", assignReq(reviewer("a")))
	require.NoError(t, err)

	// simulate a crash after the feedback write: row exists, cache never set
	require.NoError(t, env.feedbacks.CreateFeedback(ctx, &model.Feedback{
		FeedbackId:     "fb1",
		CommitteeId:    instance.CommitteeId,
		MemberId:       instance.Members[0].MemberId,
		Recommendation: model.RecommendationNotRecommend,
		OverallScore:   3,
		SubmittedAt:    time.Now(),
	}))

	got, err := env.committeeSvc.Get(ctx, instance.CommitteeId)
	require.NoError(t, err)
	require.NotNil(t, got.AggregateComputedAt)
	assert.Equal(t, 3.0, got.AverageScore)
	assert.Equal(t, 1, got.NotRecommendCount)
	assert.Equal(t, model.RecommendationNotRecommend, got.FinalRecommendation)
}

func TestGetSelfHealsDriftedAggregate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	instance, err := env.committeeSvc.AssignCustom(ctx, "hr1", assignReq(reviewer("a"), reviewer("b")))
	require.NoError(t, err)

	require.NoError(t, env.feedbacks.CreateFeedback(ctx, &model.Feedback{
		FeedbackId:     "fb1",
		CommitteeId:    instance.CommitteeId,
		MemberId:       instance.Members[0].MemberId,
		Recommendation: model.RecommendationRecommend,
		OverallScore:   9,
		SubmittedAt:    time.Now(),
	}))
	_, _, err = env.committeeSvc.Recompute(ctx, instance.CommitteeId)
	require.NoError(t, err)

	// simulate a crash between the second feedback write and its aggregate
	// write: the cache timestamp is set but the tally is one row behind
	require.NoError(t, env.feedbacks.CreateFeedback(ctx, &model.Feedback{
		FeedbackId:     "fb2",
		CommitteeId:    instance.CommitteeId,
		MemberId:       instance.Members[1].MemberId,
		Recommendation: model.RecommendationRecommend,
		OverallScore:   8,
		SubmittedAt:    time.Now(),
	}))

	got, err := env.committeeSvc.Get(ctx, instance.CommitteeId)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RecommendCount)
	assert.Equal(t, 8.5, got.AverageScore)
}

func TestGetByApplicationReturnsLatest(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first, err := env.committeeSvc.AssignCustom(ctx, "hr1", assignReq(reviewer("a")))
	require.NoError(t, err)
	_, err = env.committeeSvc.Cancel(ctx, "admin1", first.CommitteeId, "reshuffle")
	require.NoError(t, err)

	second, err := env.committeeSvc.AssignCustom(ctx, "hr1", assignReq(reviewer("b")))
	require.NoError(t, err)
	// fake repo orders by creation time
	env.committees.instances[second.CommitteeId].CreatedAt = time.Now().Add(time.Minute)

	got, err := env.committeeSvc.GetByApplication(ctx, "app1")
	require.NoError(t, err)
	assert.Equal(t, second.CommitteeId, got.CommitteeId)

	all, err := env.committeeSvc.ListByApplication(ctx, "app1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAuditTrailRecordsLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	instance, err := env.committeeSvc.AssignCustom(ctx, "hr1", assignReq(reviewer("a")))
	require.NoError(t, err)
	_, err = env.committeeSvc.Cancel(ctx, "admin1", instance.CommitteeId, "position closed")
	require.NoError(t, err)

	notes, err := env.committeeSvc.ListAuditNotes(ctx, instance.CommitteeId)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "hr1", notes[0].ActorId)
	assert.Contains(t, notes[0].Note, "assigned")
	assert.Equal(t, "admin1", notes[1].ActorId)
	assert.Contains(t, notes[1].Note, "cancelled")
}
