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
 * @file: service_committee.go
 * @description: committee instance lifecycle: assignment from template or ad
 *               hoc roster, roster mutation, cancellation, aggregate cache
 */

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-verdict/verdict/internal/engine/logic"
	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/pkg/id"
	"github.com/go-verdict/verdict/pkg/log"
	"github.com/go-verdict/verdict/pkg/statemachine"
	"github.com/pkg/errors"
)

// CommitteeService manages committee instances.
type CommitteeService struct {
	committees   repo.ICommitteeRepository
	templates    repo.ICommitteeTemplateRepository
	applications repo.IApplicationRepository
	users        repo.IUserRepository
	feedbacks    repo.IFeedbackRepository
	thresholds   logic.Thresholds
}

// NewCommitteeService creates the committee service
func NewCommitteeService(
	committees repo.ICommitteeRepository,
	templates repo.ICommitteeTemplateRepository,
	applications repo.IApplicationRepository,
	users repo.IUserRepository,
	feedbacks repo.IFeedbackRepository,
	thresholds logic.Thresholds,
) *CommitteeService {
	return &CommitteeService{
		committees:   committees,
		templates:    templates,
		applications: applications,
		users:        users,
		feedbacks:    feedbacks,
		thresholds:   thresholds,
	}
}

// AssignFromTemplate instantiates a committee from a template. The template's
// policy and roster are copied by value; an optional policy override replaces
// the copy entirely.
func (cs *CommitteeService) AssignFromTemplate(ctx context.Context, actor string, req *model.AssignFromTemplateReq) (*model.CommitteeInstance, error) {
	if req == nil || req.AppId == "" || req.TemplateId == "" {
		return nil, validationErr("appId and templateId are required")
	}
	if _, err := cs.getApplication(ctx, req.AppId); err != nil {
		return nil, err
	}

	tpl, err := cs.templates.GetTemplateByID(ctx, req.TemplateId)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if !tpl.IsActive {
		return nil, validationErr("template %s is deactivated", req.TemplateId)
	}

	tplMembers, err := tpl.MemberList()
	if err != nil {
		return nil, err
	}

	policy := tpl.Policy
	if req.Policy != nil {
		policy = normalizePolicy(*req.Policy)
		if err := validatePolicy(policy, len(tplMembers)); err != nil {
			return nil, err
		}
	}

	members := make([]*model.CommitteeMember, 0, len(tplMembers))
	for i, tm := range tplMembers {
		user, err := cs.users.GetUserByID(ctx, tm.ReviewerId)
		if err != nil {
			if repo.IsNotFound(err) {
				return nil, validationErr("template reviewer %s not found", tm.ReviewerId)
			}
			return nil, err
		}
		if !user.IsActive {
			return nil, validationErr("template reviewer %s is inactive", tm.ReviewerId)
		}
		members = append(members, &model.CommitteeMember{
			MemberId:   id.GetUUIDWithoutDashes(),
			ReviewerId: user.UserId,
			Name:       user.Name,
			Email:      user.Email,
			Role:       tm.Role,
			IsPrimary:  tm.IsPrimary,
			Position:   i,
			Status:     model.MemberPending,
		})
	}

	return cs.create(ctx, actor, req.AppId, tpl.TemplateId, policy, members)
}

// AssignCustom instantiates an ad hoc committee from an explicit roster
func (cs *CommitteeService) AssignCustom(ctx context.Context, actor string, req *model.AssignCustomReq) (*model.CommitteeInstance, error) {
	if req == nil || req.AppId == "" {
		return nil, validationErr("appId is required")
	}
	if len(req.Members) == 0 {
		return nil, validationErr("committee needs at least one member")
	}
	if _, err := cs.getApplication(ctx, req.AppId); err != nil {
		return nil, err
	}

	policy := normalizePolicy(req.Policy)
	if err := validatePolicy(policy, len(req.Members)); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.Members))
	members := make([]*model.CommitteeMember, 0, len(req.Members))
	for i, m := range req.Members {
		if m.ReviewerId == "" || m.Email == "" {
			return nil, validationErr("member reviewerId and email are required")
		}
		if _, dup := seen[m.ReviewerId]; dup {
			return nil, validationErr("duplicate reviewer %s", m.ReviewerId)
		}
		seen[m.ReviewerId] = struct{}{}
		members = append(members, &model.CommitteeMember{
			MemberId:   id.GetUUIDWithoutDashes(),
			ReviewerId: m.ReviewerId,
			Name:       m.Name,
			Email:      m.Email,
			Role:       m.Role,
			IsPrimary:  m.IsPrimary,
			Position:   i,
			Status:     model.MemberPending,
		})
	}

	return cs.create(ctx, actor, req.AppId, "", policy, members)
}

func (cs *CommitteeService) create(ctx context.Context, actor, appID, templateID string, policy model.VotingPolicy, members []*model.CommitteeMember) (*model.CommitteeInstance, error) {
	instance := &model.CommitteeInstance{
		CommitteeId:         id.GetUUIDWithoutDashes(),
		AppId:               appID,
		TemplateId:          templateID,
		Policy:              policy,
		Deadline:            time.Now().AddDate(0, 0, policy.FeedbackDeadlineDays),
		Status:              string(statemachine.CommitteePending),
		FinalRecommendation: model.RecommendationPending,
		CreatedBy:           actor,
	}

	if err := cs.committees.CreateWithMembers(ctx, instance, members); err != nil {
		if errors.Is(err, repo.ErrDuplicateCommittee) {
			return nil, ErrDuplicateCommittee
		}
		return nil, err
	}
	instance.Members = members

	cs.audit(ctx, instance.CommitteeId, actor, fmt.Sprintf("committee assigned with %d members", len(members)))
	committeesAssigned.Inc()
	return instance, nil
}

// Get retrieves a committee and self-heals a missing aggregate cache: a
// crash between feedback write and aggregate write leaves computed_at behind.
func (cs *CommitteeService) Get(ctx context.Context, committeeID string) (*model.CommitteeInstance, error) {
	instance, err := cs.committees.GetByCommitteeID(ctx, committeeID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrCommitteeNotFound
		}
		return nil, err
	}

	if cs.aggregateStale(ctx, instance) {
		if _, _, err := cs.Recompute(ctx, instance.CommitteeId); err != nil {
			log.Errorw("aggregate self-heal failed", "committeeId", committeeID, "error", err)
		} else {
			return cs.committees.GetByCommitteeID(ctx, committeeID)
		}
	}
	return instance, nil
}

// GetByApplication retrieves the most recent committee of an application
func (cs *CommitteeService) GetByApplication(ctx context.Context, appID string) (*model.CommitteeInstance, error) {
	if _, err := cs.getApplication(ctx, appID); err != nil {
		return nil, err
	}
	instance, err := cs.committees.GetLatestByApp(ctx, appID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrCommitteeNotFound
		}
		return nil, err
	}
	return cs.Get(ctx, instance.CommitteeId)
}

// ListByApplication lists all committees of an application, newest first
func (cs *CommitteeService) ListByApplication(ctx context.Context, appID string) ([]*model.CommitteeInstance, error) {
	if _, err := cs.getApplication(ctx, appID); err != nil {
		return nil, err
	}
	return cs.committees.ListByApp(ctx, appID)
}

// AddMember appends a reviewer to a live committee
func (cs *CommitteeService) AddMember(ctx context.Context, actor, committeeID string, req *model.MemberReq) (*model.CommitteeMember, error) {
	if req == nil || req.ReviewerId == "" || req.Email == "" {
		return nil, validationErr("member reviewerId and email are required")
	}

	instance, err := cs.requireLive(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	for _, m := range instance.Members {
		if m.ReviewerId == req.ReviewerId {
			return nil, ErrMemberExists
		}
	}

	member := &model.CommitteeMember{
		MemberId:    id.GetUUIDWithoutDashes(),
		CommitteeId: committeeID,
		ReviewerId:  req.ReviewerId,
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		IsPrimary:   req.IsPrimary,
		Position:    len(instance.Members),
		Status:      model.MemberPending,
	}
	if err := cs.committees.AddMember(ctx, member); err != nil {
		return nil, err
	}

	cs.audit(ctx, committeeID, actor, fmt.Sprintf("member %s (%s) added", req.Name, req.ReviewerId))
	return member, nil
}

// RemoveMember drops a reviewer from a live committee. Submitted feedback is
// kept; a completed decision is never reopened by a roster change.
func (cs *CommitteeService) RemoveMember(ctx context.Context, actor, committeeID, memberID string) error {
	if _, err := cs.requireLive(ctx, committeeID); err != nil {
		return err
	}

	member, err := cs.committees.GetMemberByID(ctx, memberID)
	if err != nil {
		if repo.IsNotFound(err) {
			return ErrMemberNotFound
		}
		return err
	}
	if member.CommitteeId != committeeID {
		return ErrMemberNotFound
	}

	if err := cs.committees.RemoveMember(ctx, memberID); err != nil {
		return err
	}
	cs.audit(ctx, committeeID, actor, fmt.Sprintf("member %s (%s) removed", member.Name, member.ReviewerId))

	if _, _, err := cs.Recompute(ctx, committeeID); err != nil {
		log.Errorw("recompute after member removal failed", "committeeId", committeeID, "error", err)
	}
	return nil
}

// Cancel terminates a committee. Cancelling an already cancelled committee is
// a no-op; a completed committee cannot be cancelled.
func (cs *CommitteeService) Cancel(ctx context.Context, actor, committeeID, reason string) (*model.CommitteeInstance, error) {
	instance, err := cs.Get(ctx, committeeID)
	if err != nil {
		return nil, err
	}

	status := instance.CommitteeStatus()
	if status == statemachine.CommitteeCancelled {
		return instance, nil
	}

	sm := statemachine.NewCommitteeStateMachine(status)
	if !sm.CanTransition(status, statemachine.CommitteeCancelled) {
		return nil, ErrCommitteeNotLive
	}

	if err := cs.committees.UpdateCancel(ctx, committeeID, reason); err != nil {
		return nil, err
	}
	cs.audit(ctx, committeeID, actor, fmt.Sprintf("committee cancelled: %s", reason))

	instance.Status = string(statemachine.CommitteeCancelled)
	instance.CancelReason = reason
	return instance, nil
}

// MarkActive moves a pending committee to active once tokens are out
func (cs *CommitteeService) MarkActive(ctx context.Context, committeeID string) error {
	return cs.transition(ctx, committeeID, statemachine.CommitteeActive)
}

// MarkCompleted finalizes a committee that reached its feedback quorum
func (cs *CommitteeService) MarkCompleted(ctx context.Context, committeeID string) error {
	if err := cs.transition(ctx, committeeID, statemachine.CommitteeCompleted); err != nil {
		return err
	}
	committeesCompleted.Inc()
	return nil
}

func (cs *CommitteeService) transition(ctx context.Context, committeeID string, to statemachine.CommitteeStatus) error {
	instance, err := cs.committees.GetByCommitteeID(ctx, committeeID)
	if err != nil {
		if repo.IsNotFound(err) {
			return ErrCommitteeNotFound
		}
		return err
	}

	sm := statemachine.NewCommitteeStateMachine(instance.CommitteeStatus())
	if err := sm.TransitionTo(to); err != nil {
		return ErrCommitteeNotLive
	}
	return cs.committees.UpdateStatus(ctx, committeeID, string(to))
}

// Recompute derives the aggregate from the submitted feedback and persists
// the cache columns. Returns the aggregate and whether the committee has
// reached its completion condition.
func (cs *CommitteeService) Recompute(ctx context.Context, committeeID string) (logic.Aggregate, bool, error) {
	instance, err := cs.committees.GetByCommitteeID(ctx, committeeID)
	if err != nil {
		if repo.IsNotFound(err) {
			return logic.Aggregate{}, false, ErrCommitteeNotFound
		}
		return logic.Aggregate{}, false, err
	}

	feedbacks, err := cs.feedbacks.ListByCommittee(ctx, committeeID)
	if err != nil {
		return logic.Aggregate{}, false, err
	}

	agg := logic.Compute(feedbacks, instance.Policy, cs.thresholds)
	err = cs.committees.UpdateAggregate(ctx, committeeID, repo.CommitteeAggregate{
		AverageScore:        agg.AverageScore,
		RecommendCount:      agg.RecommendCount,
		PendingCount:        agg.PendingCount,
		NotRecommendCount:   agg.NotRecommendCount,
		FinalRecommendation: agg.FinalRecommendation,
		ComputedAt:          time.Now(),
	})
	if err != nil {
		return agg, false, err
	}

	complete := logic.IsComplete(agg.SubmittedCount, len(instance.Members), instance.Policy)
	return agg, complete, nil
}

// ListAuditNotes lists the committee's audit trail
func (cs *CommitteeService) ListAuditNotes(ctx context.Context, committeeID string) ([]*model.CommitteeAuditNote, error) {
	if _, err := cs.Get(ctx, committeeID); err != nil {
		return nil, err
	}
	return cs.committees.ListAuditNotes(ctx, committeeID)
}

// requireLive loads the committee and rejects mutations on terminal states
func (cs *CommitteeService) requireLive(ctx context.Context, committeeID string) (*model.CommitteeInstance, error) {
	instance, err := cs.committees.GetByCommitteeID(ctx, committeeID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrCommitteeNotFound
		}
		return nil, err
	}
	if !instance.CommitteeStatus().IsLive() {
		return nil, ErrCommitteeNotLive
	}
	return instance, nil
}

func (cs *CommitteeService) getApplication(ctx context.Context, appID string) (*model.Application, error) {
	app, err := cs.applications.GetApplicationByID(ctx, appID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// aggregateStale reports whether the cache misses feedback that exists, or
// carries a tally that no longer matches the feedback rows
func (cs *CommitteeService) aggregateStale(ctx context.Context, instance *model.CommitteeInstance) bool {
	count, err := cs.feedbacks.CountByCommittee(ctx, instance.CommitteeId)
	if err != nil {
		log.Errorw("failed to count feedback", "committeeId", instance.CommitteeId, "error", err)
		return false
	}
	if instance.AggregateComputedAt == nil {
		return count > 0
	}
	cached := instance.RecommendCount + instance.PendingCount + instance.NotRecommendCount
	return count != int64(cached)
}

func (cs *CommitteeService) audit(ctx context.Context, committeeID, actor, note string) {
	err := cs.committees.AppendAuditNote(ctx, &model.CommitteeAuditNote{
		CommitteeId: committeeID,
		ActorId:     actor,
		Note:        note,
	})
	if err != nil {
		log.Errorw("failed to append audit note", "committeeId", committeeID, "error", err)
	}
}
