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
 * @file: resolver.go
 * @description: recipient resolution for alert events: rule roles plus the
 *               committee roster, deduplicated, opt-outs honored
 */

package notify

import (
	"context"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/pkg/log"
)

// Event is one alert occurrence to resolve recipients for.
type Event struct {
	AlertType string
	// Context feeds the rule's expr condition and webhook payloads
	Context map[string]interface{}
	// Roster recipients are always candidates regardless of any rule
	Roster []Recipient
	// Override delivers even to recipients who opted out of this alert type
	Override bool
}

// Resolver computes the recipient set of an event.
type Resolver struct {
	users repo.IUserRepository
	rules repo.INotificationRuleRepository
}

// NewResolver creates a recipient resolver
func NewResolver(users repo.IUserRepository, rules repo.INotificationRuleRepository) *Resolver {
	return &Resolver{users: users, rules: rules}
}

// Resolve returns the deduplicated recipient list of an event. A missing or
// suppressed rule still leaves the roster recipients in place.
func (r *Resolver) Resolve(ctx context.Context, ev Event) ([]Recipient, error) {
	var recipients []Recipient
	recipients = append(recipients, ev.Roster...)

	rule, err := r.rules.GetRuleByAlertType(ctx, ev.AlertType)
	switch {
	case err != nil && repo.IsNotFound(err):
		// no rule configured for this alert type
	case err != nil:
		return nil, err
	case r.ruleFires(rule.Condition, ev.Context):
		staff, err := r.users.ListActiveUsersByRoles(ctx, rule.RoleList())
		if err != nil {
			return nil, err
		}
		for _, u := range staff {
			if !ev.Override && u.HasOptedOut(ev.AlertType) {
				continue
			}
			recipients = append(recipients, Recipient{
				UserId: u.UserId,
				Name:   u.Name,
				Email:  u.Email,
				Role:   u.Role,
			})
		}
	}

	return dedupByEmail(recipients), nil
}

// ruleFires evaluates the optional expr condition; an empty condition always
// fires, a broken one suppresses the rule rather than failing the event
func (r *Resolver) ruleFires(condition string, env map[string]interface{}) bool {
	if strings.TrimSpace(condition) == "" {
		return true
	}
	if env == nil {
		env = map[string]interface{}{}
	}
	program, err := expr.Compile(condition, expr.Env(env), expr.AsBool())
	if err != nil {
		log.Errorw("notification rule condition compile failed", "condition", condition, "error", err)
		return false
	}
	out, err := expr.Run(program, env)
	if err != nil {
		log.Errorw("notification rule condition eval failed", "condition", condition, "error", err)
		return false
	}
	fires, _ := out.(bool)
	return fires
}

func dedupByEmail(in []Recipient) []Recipient {
	seen := make(map[string]struct{}, len(in))
	out := make([]Recipient, 0, len(in))
	for _, rcpt := range in {
		key := strings.ToLower(strings.TrimSpace(rcpt.Email))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rcpt)
	}
	return out
}
