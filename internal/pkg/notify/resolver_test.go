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

package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users []*model.StaffUser
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.StaffUser) error { return nil }
func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID string) (*model.StaffUser, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]*model.StaffUser, error) {
	return f.users, nil
}
func (f *fakeUserRepo) ListActiveUsersByRoles(ctx context.Context, roles []string) ([]*model.StaffUser, error) {
	roleSet := make(map[string]struct{}, len(roles))
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
func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *model.StaffUser) error { return nil }
func (f *fakeUserRepo) DeactivateUser(ctx context.Context, userID string) error     { return nil }

type fakeRuleRepo struct {
	rules map[string]*model.NotificationRule
}

func (f *fakeRuleRepo) CreateRule(ctx context.Context, rule *model.NotificationRule) error {
	return nil
}
func (f *fakeRuleRepo) GetRuleByAlertType(ctx context.Context, alertType string) (*model.NotificationRule, error) {
	rule, ok := f.rules[alertType]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rule, nil
}
func (f *fakeRuleRepo) ListRules(ctx context.Context) ([]*model.NotificationRule, error) {
	return nil, nil
}
func (f *fakeRuleRepo) UpdateRule(ctx context.Context, rule *model.NotificationRule) error {
	return nil
}
func (f *fakeRuleRepo) DeleteRule(ctx context.Context, ruleID string) error { return nil }

func newRule(t *testing.T, alertType, condition string, roles ...string) *model.NotificationRule {
	t.Helper()
	rule := &model.NotificationRule{AlertType: alertType, Condition: condition, IsActive: true}
	require.NoError(t, rule.SetRoleList(roles))
	return rule
}

func TestResolveRosterOnly(t *testing.T) {
	resolver := NewResolver(&fakeUserRepo{}, &fakeRuleRepo{rules: map[string]*model.NotificationRule{}})

	got, err := resolver.Resolve(context.Background(), Event{
		AlertType: model.AlertFeedbackReminder,
		Roster: []Recipient{
			{Name: "Ana", Email: "ana@example.com"},
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ana@example.com", got[0].Email)
}

func TestResolveRuleRolesAndDedup(t *testing.T) {
	users := &fakeUserRepo{users: []*model.StaffUser{
		{UserId: "u1", Name: "Hiring Manager", Email: "hm@example.com", Role: "hr_manager", IsActive: true},
		{UserId: "u2", Name: "Ana", Email: "ana@example.com", Role: "hr_manager", IsActive: true},
		{UserId: "u3", Name: "Inactive", Email: "gone@example.com", Role: "hr_manager", IsActive: false},
	}}
	rules := &fakeRuleRepo{rules: map[string]*model.NotificationRule{
		model.AlertDecisionReady: newRule(t, model.AlertDecisionReady, "", "hr_manager"),
	}}
	resolver := NewResolver(users, rules)

	got, err := resolver.Resolve(context.Background(), Event{
		AlertType: model.AlertDecisionReady,
		Roster: []Recipient{
			// duplicates a rule recipient by email
			{Name: "Ana", Email: "ANA@example.com"},
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	emails := []string{got[0].Email, got[1].Email}
	assert.Contains(t, emails, "ANA@example.com")
	assert.Contains(t, emails, "hm@example.com")
}

func TestResolveOptOut(t *testing.T) {
	optedOut := &model.StaffUser{UserId: "u1", Email: "hm@example.com", Role: "hr_manager", IsActive: true}
	require.NoError(t, setOptOuts(optedOut, []string{model.AlertFeedbackReceived}))

	users := &fakeUserRepo{users: []*model.StaffUser{optedOut}}
	rules := &fakeRuleRepo{rules: map[string]*model.NotificationRule{
		model.AlertFeedbackReceived: newRule(t, model.AlertFeedbackReceived, "", "hr_manager"),
	}}
	resolver := NewResolver(users, rules)

	got, err := resolver.Resolve(context.Background(), Event{AlertType: model.AlertFeedbackReceived})
	require.NoError(t, err)
	assert.Empty(t, got)

	// override delivers despite the opt-out
	got, err = resolver.Resolve(context.Background(), Event{
		AlertType: model.AlertFeedbackReceived,
		Override:  true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hm@example.com", got[0].Email)
}

func TestResolveCondition(t *testing.T) {
	users := &fakeUserRepo{users: []*model.StaffUser{
		{UserId: "u1", Email: "hm@example.com", Role: "hr_manager", IsActive: true},
	}}
	rules := &fakeRuleRepo{rules: map[string]*model.NotificationRule{
		model.AlertDecisionReady: newRule(t, model.AlertDecisionReady, `department == "engineering"`, "hr_manager"),
	}}
	resolver := NewResolver(users, rules)

	got, err := resolver.Resolve(context.Background(), Event{
		AlertType: model.AlertDecisionReady,
		Context:   map[string]interface{}{"department": "engineering"},
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = resolver.Resolve(context.Background(), Event{
		AlertType: model.AlertDecisionReady,
		Context:   map[string]interface{}{"department": "sales"},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func setOptOuts(u *model.StaffUser, alertTypes []string) error {
	raw, err := json.Marshal(alertTypes)
	if err != nil {
		return err
	}
	u.OptOuts = string(raw)
	return nil
}
