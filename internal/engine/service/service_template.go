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

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/pkg/id"
	"github.com/go-verdict/verdict/pkg/log"
)

// TemplateService manages reusable committee blueprints.
type TemplateService struct {
	templates repo.ICommitteeTemplateRepository
}

// NewTemplateService creates the template service
func NewTemplateService(templates repo.ICommitteeTemplateRepository) *TemplateService {
	return &TemplateService{templates: templates}
}

// CreateTemplate validates and persists a new template
func (ts *TemplateService) CreateTemplate(ctx context.Context, createdBy string, req *model.TemplateReq) (*model.CommitteeTemplate, error) {
	if err := validateTemplateReq(req); err != nil {
		return nil, err
	}

	tpl := &model.CommitteeTemplate{
		TemplateId: id.GetUUIDWithoutDashes(),
		Name:       req.Name,
		Department: req.Department,
		Policy:     normalizePolicy(req.Policy),
		IsActive:   true,
		CreatedBy:  createdBy,
	}
	if err := tpl.SetMemberList(req.Members); err != nil {
		return nil, err
	}
	if err := ts.templates.CreateTemplate(ctx, tpl); err != nil {
		log.Errorf("create template err: %v", err)
		return nil, err
	}
	return tpl, nil
}

// GetTemplate retrieves one template
func (ts *TemplateService) GetTemplate(ctx context.Context, templateID string) (*model.CommitteeTemplate, error) {
	tpl, err := ts.templates.GetTemplateByID(ctx, templateID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

// ListTemplates lists templates, optionally filtered by department
func (ts *TemplateService) ListTemplates(ctx context.Context, department string, onlyActive bool) ([]*model.CommitteeTemplate, error) {
	if department != "" {
		return ts.templates.ListTemplatesByDepartment(ctx, department)
	}
	return ts.templates.ListTemplates(ctx, onlyActive)
}

// UpdateTemplate replaces a template's content. Live committees keep the
// policy and roster copied at assignment time.
func (ts *TemplateService) UpdateTemplate(ctx context.Context, templateID string, req *model.TemplateReq) (*model.CommitteeTemplate, error) {
	if err := validateTemplateReq(req); err != nil {
		return nil, err
	}

	tpl, err := ts.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	tpl.Name = req.Name
	tpl.Department = req.Department
	tpl.Policy = normalizePolicy(req.Policy)
	if err := tpl.SetMemberList(req.Members); err != nil {
		return nil, err
	}
	if err := ts.templates.UpdateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// DeactivateTemplate soft deletes a template
func (ts *TemplateService) DeactivateTemplate(ctx context.Context, templateID string) error {
	if _, err := ts.GetTemplate(ctx, templateID); err != nil {
		return err
	}
	return ts.templates.DeactivateTemplate(ctx, templateID)
}

func validateTemplateReq(req *model.TemplateReq) error {
	if req == nil {
		return validationErr("request body is required")
	}
	if req.Name == "" {
		return validationErr("template name is required")
	}
	if len(req.Members) == 0 {
		return validationErr("template needs at least one member")
	}
	seen := make(map[string]struct{}, len(req.Members))
	for _, m := range req.Members {
		if m.ReviewerId == "" {
			return validationErr("template member reviewerId is required")
		}
		if _, dup := seen[m.ReviewerId]; dup {
			return validationErr("duplicate reviewer %s in template", m.ReviewerId)
		}
		seen[m.ReviewerId] = struct{}{}
	}
	return validatePolicy(req.Policy, len(req.Members))
}

func validatePolicy(p model.VotingPolicy, memberCount int) error {
	switch p.VotingMechanism {
	case "", model.VotingAverage, model.VotingMajority, model.VotingConsensus:
	default:
		return validationErr("unknown voting mechanism %q", p.VotingMechanism)
	}
	if p.MinFeedbackRequired < 0 {
		return validationErr("minFeedbackRequired cannot be negative")
	}
	if memberCount > 0 && p.MinFeedbackRequired > memberCount {
		return validationErr("minFeedbackRequired %d exceeds member count %d", p.MinFeedbackRequired, memberCount)
	}
	if p.FeedbackDeadlineDays < 0 {
		return validationErr("feedbackDeadlineDays cannot be negative")
	}
	return nil
}

// normalizePolicy fills the policy defaults
func normalizePolicy(p model.VotingPolicy) model.VotingPolicy {
	if p.VotingMechanism == "" {
		p.VotingMechanism = model.VotingAverage
	}
	if p.MinFeedbackRequired < 1 {
		p.MinFeedbackRequired = 1
	}
	if p.FeedbackDeadlineDays < 1 {
		p.FeedbackDeadlineDays = DefaultTokenTTLDays
	}
	return p
}
