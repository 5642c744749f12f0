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
	"context"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/pkg/database"
)

// ICommitteeTemplateRepository 委员会模板仓库接口
type ICommitteeTemplateRepository interface {
	CreateTemplate(ctx context.Context, tpl *model.CommitteeTemplate) error
	GetTemplateByID(ctx context.Context, templateID string) (*model.CommitteeTemplate, error)
	ListTemplates(ctx context.Context, onlyActive bool) ([]*model.CommitteeTemplate, error)
	ListTemplatesByDepartment(ctx context.Context, department string) ([]*model.CommitteeTemplate, error)
	UpdateTemplate(ctx context.Context, tpl *model.CommitteeTemplate) error
	DeactivateTemplate(ctx context.Context, templateID string) error
}

type CommitteeTemplateRepo struct {
	database.IDatabase
}

func NewCommitteeTemplateRepo(db database.IDatabase) ICommitteeTemplateRepository {
	return &CommitteeTemplateRepo{
		IDatabase: db,
	}
}

// CreateTemplate creates a new committee template
func (r *CommitteeTemplateRepo) CreateTemplate(ctx context.Context, tpl *model.CommitteeTemplate) error {
	return r.Database().WithContext(ctx).Table(tpl.TableName()).Create(tpl).Error
}

// GetTemplateByID retrieves a template by template_id
func (r *CommitteeTemplateRepo) GetTemplateByID(ctx context.Context, templateID string) (*model.CommitteeTemplate, error) {
	var tpl model.CommitteeTemplate
	err := r.Database().WithContext(ctx).
		Table(tpl.TableName()).
		Where("template_id = ?", templateID).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ListTemplates lists templates, optionally only active ones
func (r *CommitteeTemplateRepo) ListTemplates(ctx context.Context, onlyActive bool) ([]*model.CommitteeTemplate, error) {
	tx := r.Database().WithContext(ctx).
		Table((&model.CommitteeTemplate{}).TableName())
	if onlyActive {
		tx = tx.Where("is_active = ?", true)
	}
	var tpls []*model.CommitteeTemplate
	err := tx.Order("id DESC").Find(&tpls).Error
	return tpls, err
}

// ListTemplatesByDepartment lists active templates for a department
func (r *CommitteeTemplateRepo) ListTemplatesByDepartment(ctx context.Context, department string) ([]*model.CommitteeTemplate, error) {
	var tpls []*model.CommitteeTemplate
	err := r.Database().WithContext(ctx).
		Table((&model.CommitteeTemplate{}).TableName()).
		Where("department = ? AND is_active = ?", department, true).
		Order("id DESC").
		Find(&tpls).Error
	return tpls, err
}

// UpdateTemplate updates an existing template
func (r *CommitteeTemplateRepo) UpdateTemplate(ctx context.Context, tpl *model.CommitteeTemplate) error {
	return r.Database().WithContext(ctx).
		Table(tpl.TableName()).
		Where("template_id = ?", tpl.TemplateId).
		Omit("id", "template_id", "created_at").
		Updates(tpl).Error
}

// DeactivateTemplate soft deletes a template; existing committees keep their
// copied policy and roster
func (r *CommitteeTemplateRepo) DeactivateTemplate(ctx context.Context, templateID string) error {
	return r.Database().WithContext(ctx).
		Table((&model.CommitteeTemplate{}).TableName()).
		Where("template_id = ?", templateID).
		Update("is_active", false).Error
}
