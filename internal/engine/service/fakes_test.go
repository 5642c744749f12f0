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
	"sync"
	"time"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/internal/pkg/queue"
	"github.com/go-verdict/verdict/pkg/statemachine"
	"gorm.io/gorm"
)

// in-memory repo fakes shared by the service tests

type fakeApplicationRepo struct {
	apps map[string]*model.Application
}

func newFakeApplicationRepo(apps ...*model.Application) *fakeApplicationRepo {
	f := &fakeApplicationRepo{apps: map[string]*model.Application{}}
	for _, a := range apps {
		f.apps[a.AppId] = a
	}
	return f
}

func (f *fakeApplicationRepo) CreateApplication(ctx context.Context, app *model.Application) error {
	f.apps[app.AppId] = app
	return nil
}

func (f *fakeApplicationRepo) GetApplicationByID(ctx context.Context, appID string) (*model.Application, error) {
	app, ok := f.apps[appID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return app, nil
}

func (f *fakeApplicationRepo) ListApplications(ctx context.Context) ([]*model.Application, error) {
	var out []*model.Application
	for _, a := range f.apps {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeApplicationRepo) UpdateStatus(ctx context.Context, appID, status string) error {
	if app, ok := f.apps[appID]; ok {
		app.Status = status
	}
	return nil
}

type fakeUserRepo struct {
	users map[string]*model.StaffUser
}

func newFakeUserRepo(users ...*model.StaffUser) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]*model.StaffUser{}}
	for _, u := range users {
		f.users[u.UserId] = u
	}
	return f
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.StaffUser) error {
	f.users[user.UserId] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID string) (*model.StaffUser, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]*model.StaffUser, error) {
	var out []*model.StaffUser
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) ListActiveUsersByRoles(ctx context.Context, roles []string) ([]*model.StaffUser, error) {
	roleSet := map[string]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}
	var out []*model.StaffUser
	for _, u := range f.users {
		if _, ok := roleSet[u.Role]; ok && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *model.StaffUser) error {
	f.users[user.UserId] = user
	return nil
}

func (f *fakeUserRepo) DeactivateUser(ctx context.Context, userID string) error {
	if u, ok := f.users[userID]; ok {
		u.IsActive = false
	}
	return nil
}

type fakeTemplateRepo struct {
	templates map[string]*model.CommitteeTemplate
}

func newFakeTemplateRepo(tpls ...*model.CommitteeTemplate) *fakeTemplateRepo {
	f := &fakeTemplateRepo{templates: map[string]*model.CommitteeTemplate{}}
	for _, t := range tpls {
		f.templates[t.TemplateId] = t
	}
	return f
}

func (f *fakeTemplateRepo) CreateTemplate(ctx context.Context, tpl *model.CommitteeTemplate) error {
	f.templates[tpl.TemplateId] = tpl
	return nil
}

func (f *fakeTemplateRepo) GetTemplateByID(ctx context.Context, templateID string) (*model.CommitteeTemplate, error) {
	tpl, ok := f.templates[templateID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tpl, nil
}

func (f *fakeTemplateRepo) ListTemplates(ctx context.Context, onlyActive bool) ([]*model.CommitteeTemplate, error) {
	var out []*model.CommitteeTemplate
	for _, t := range f.templates {
		if onlyActive && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTemplateRepo) ListTemplatesByDepartment(ctx context.Context, department string) ([]*model.CommitteeTemplate, error) {
	var out []*model.CommitteeTemplate
	for _, t := range f.templates {
		if t.Department == department && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) UpdateTemplate(ctx context.Context, tpl *model.CommitteeTemplate) error {
	f.templates[tpl.TemplateId] = tpl
	return nil
}

func (f *fakeTemplateRepo) DeactivateTemplate(ctx context.Context, templateID string) error {
	if t, ok := f.templates[templateID]; ok {
		t.IsActive = false
	}
	return nil
}

type fakeCommitteeRepo struct {
	mu        sync.Mutex
	instances map[string]*model.CommitteeInstance
	members   map[string]*model.CommitteeMember
	notes     []*model.CommitteeAuditNote
}

func newFakeCommitteeRepo() *fakeCommitteeRepo {
	return &fakeCommitteeRepo{
		instances: map[string]*model.CommitteeInstance{},
		members:   map[string]*model.CommitteeMember{},
	}
}

func (f *fakeCommitteeRepo) CreateWithMembers(ctx context.Context, instance *model.CommitteeInstance, members []*model.CommitteeMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.instances {
		if existing.AppId == instance.AppId && statemachine.CommitteeStatus(existing.Status).IsLive() {
			return repo.ErrDuplicateCommittee
		}
	}
	f.instances[instance.CommitteeId] = instance
	for _, m := range members {
		m.CommitteeId = instance.CommitteeId
		f.members[m.MemberId] = m
	}
	return nil
}

func (f *fakeCommitteeRepo) GetByCommitteeID(ctx context.Context, committeeID string) (*model.CommitteeInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	instance, ok := f.instances[committeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *instance
	clone.Members = f.listMembersLocked(committeeID)
	return &clone, nil
}

func (f *fakeCommitteeRepo) GetLatestByApp(ctx context.Context, appID string) (*model.CommitteeInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.CommitteeInstance
	for _, instance := range f.instances {
		if instance.AppId != appID {
			continue
		}
		if latest == nil || instance.CreatedAt.After(latest.CreatedAt) {
			latest = instance
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *latest
	clone.Members = f.listMembersLocked(latest.CommitteeId)
	return &clone, nil
}

func (f *fakeCommitteeRepo) ListByApp(ctx context.Context, appID string) ([]*model.CommitteeInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.CommitteeInstance
	for _, instance := range f.instances {
		if instance.AppId == appID {
			out = append(out, instance)
		}
	}
	return out, nil
}

func (f *fakeCommitteeRepo) ListActiveWithDeadlineWithin(ctx context.Context, before time.Time) ([]*model.CommitteeInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	var out []*model.CommitteeInstance
	for _, instance := range f.instances {
		if !statemachine.CommitteeStatus(instance.Status).IsLive() {
			continue
		}
		if instance.Deadline.After(now) && !instance.Deadline.After(before) {
			out = append(out, instance)
		}
	}
	return out, nil
}

func (f *fakeCommitteeRepo) UpdateStatus(ctx context.Context, committeeID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if instance, ok := f.instances[committeeID]; ok {
		instance.Status = status
	}
	return nil
}

func (f *fakeCommitteeRepo) UpdateCancel(ctx context.Context, committeeID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if instance, ok := f.instances[committeeID]; ok {
		instance.Status = string(statemachine.CommitteeCancelled)
		instance.CancelReason = reason
	}
	return nil
}

func (f *fakeCommitteeRepo) UpdateAggregate(ctx context.Context, committeeID string, agg repo.CommitteeAggregate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	instance, ok := f.instances[committeeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	instance.AverageScore = agg.AverageScore
	instance.RecommendCount = agg.RecommendCount
	instance.PendingCount = agg.PendingCount
	instance.NotRecommendCount = agg.NotRecommendCount
	instance.FinalRecommendation = agg.FinalRecommendation
	computedAt := agg.ComputedAt
	instance.AggregateComputedAt = &computedAt
	return nil
}

func (f *fakeCommitteeRepo) ListMembers(ctx context.Context, committeeID string) ([]*model.CommitteeMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listMembersLocked(committeeID), nil
}

func (f *fakeCommitteeRepo) listMembersLocked(committeeID string) []*model.CommitteeMember {
	var out []*model.CommitteeMember
	for _, m := range f.members {
		if m.CommitteeId == committeeID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeCommitteeRepo) GetMemberByID(ctx context.Context, memberID string) (*model.CommitteeMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeCommitteeRepo) AddMember(ctx context.Context, member *model.CommitteeMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[member.MemberId] = member
	return nil
}

func (f *fakeCommitteeRepo) RemoveMember(ctx context.Context, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members, memberID)
	return nil
}

func (f *fakeCommitteeRepo) UpdateMemberStatus(ctx context.Context, memberID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.members[memberID]; ok {
		m.Status = status
	}
	return nil
}

func (f *fakeCommitteeRepo) AppendAuditNote(ctx context.Context, note *model.CommitteeAuditNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, note)
	return nil
}

func (f *fakeCommitteeRepo) ListAuditNotes(ctx context.Context, committeeID string) ([]*model.CommitteeAuditNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.CommitteeAuditNote
	for _, n := range f.notes {
		if n.CommitteeId == committeeID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.FeedbackToken // keyed by tokenId
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*model.FeedbackToken{}}
}

func (f *fakeTokenRepo) CreateToken(ctx context.Context, token *model.FeedbackToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	token.ID = uint(len(f.tokens) + 1)
	f.tokens[token.TokenId] = token
	return nil
}

func (f *fakeTokenRepo) GetByToken(ctx context.Context, raw string) (*model.FeedbackToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.Token == raw {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokenRepo) GetByTokenID(ctx context.Context, tokenID string) (*model.FeedbackToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[tokenID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeTokenRepo) GetOutstandingByMember(ctx context.Context, memberID string) (*model.FeedbackToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var newest *model.FeedbackToken
	for _, t := range f.tokens {
		if t.MemberId != memberID || t.IsUsed {
			continue
		}
		if newest == nil || t.ID > newest.ID {
			newest = t
		}
	}
	if newest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return newest, nil
}

func (f *fakeTokenRepo) Consume(ctx context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[tokenID]
	if !ok || t.IsUsed {
		return false, nil
	}
	now := time.Now()
	t.IsUsed = true
	t.UsedAt = &now
	return true, nil
}

func (f *fakeTokenRepo) IncrementAccess(ctx context.Context, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[tokenID]; ok {
		now := time.Now()
		t.AccessCount++
		t.LastAccessedAt = &now
	}
	return nil
}

func (f *fakeTokenRepo) ExpireForMember(ctx context.Context, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.MemberId == memberID && !t.IsUsed {
			t.ExpiresAt = time.Now()
		}
	}
	return nil
}

func (f *fakeTokenRepo) ExpireAllForCommittee(ctx context.Context, committeeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.CommitteeId == committeeID && !t.IsUsed {
			t.ExpiresAt = time.Now()
		}
	}
	return nil
}

type fakeFeedbackRepo struct {
	mu        sync.Mutex
	feedbacks map[string]*model.Feedback // keyed by memberId, unique per member
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{feedbacks: map[string]*model.Feedback{}}
}

func (f *fakeFeedbackRepo) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.feedbacks[fb.MemberId]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.feedbacks[fb.MemberId] = fb
	return nil
}

func (f *fakeFeedbackRepo) GetByMember(ctx context.Context, memberID string) (*model.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb, ok := f.feedbacks[memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return fb, nil
}

func (f *fakeFeedbackRepo) ListByCommittee(ctx context.Context, committeeID string) ([]*model.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Feedback
	for _, fb := range f.feedbacks {
		if fb.CommitteeId == committeeID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) CountByCommittee(ctx context.Context, committeeID string) (int64, error) {
	list, _ := f.ListByCommittee(ctx, committeeID)
	return int64(len(list)), nil
}

type fakeRuleRepo struct {
	rules map[string]*model.NotificationRule
}

func newFakeRuleRepo(rules ...*model.NotificationRule) *fakeRuleRepo {
	f := &fakeRuleRepo{rules: map[string]*model.NotificationRule{}}
	for _, r := range rules {
		f.rules[r.AlertType] = r
	}
	return f
}

func (f *fakeRuleRepo) CreateRule(ctx context.Context, rule *model.NotificationRule) error {
	f.rules[rule.AlertType] = rule
	return nil
}

func (f *fakeRuleRepo) GetRuleByAlertType(ctx context.Context, alertType string) (*model.NotificationRule, error) {
	rule, ok := f.rules[alertType]
	if !ok || !rule.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return rule, nil
}

func (f *fakeRuleRepo) ListRules(ctx context.Context) ([]*model.NotificationRule, error) {
	var out []*model.NotificationRule
	for _, r := range f.rules {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRuleRepo) UpdateRule(ctx context.Context, rule *model.NotificationRule) error {
	f.rules[rule.AlertType] = rule
	return nil
}

func (f *fakeRuleRepo) DeleteRule(ctx context.Context, ruleID string) error {
	for k, r := range f.rules {
		if r.RuleId == ruleID {
			delete(f.rules, k)
		}
	}
	return nil
}

type fakeLogRepo struct {
	mu   sync.Mutex
	logs []*model.NotificationLog
}

func (f *fakeLogRepo) CreateLog(ctx context.Context, log *model.NotificationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeLogRepo) ListLogs(ctx context.Context, alertType string, limit int) ([]*model.NotificationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logs, nil
}

// collaborator fakes

type fakeEnqueuer struct {
	mu       sync.Mutex
	payloads []*queue.NotificationPayload
	err      error
}

func (f *fakeEnqueuer) Enqueue(payload *queue.NotificationPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeEnqueuer) byAlertType(alertType string) []*queue.NotificationPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*queue.NotificationPayload
	for _, p := range f.payloads {
		if p.AlertType == alertType {
			out = append(out, p)
		}
	}
	return out
}

type fakeLimiter struct {
	allowed   bool
	err       error
	callCount int
}

func (f *fakeLimiter) Allow(ctx context.Context, memberID string) (bool, error) {
	f.callCount++
	return f.allowed, f.err
}

type fakeLocker struct {
	locked   bool
	held     bool
	unlocked bool
}

func (f *fakeLocker) TryLock(ctx context.Context, runID string, ttl time.Duration) (bool, error) {
	if f.held {
		return false, nil
	}
	f.locked = true
	return true, nil
}

func (f *fakeLocker) Unlock(ctx context.Context) error {
	f.unlocked = true
	return nil
}
