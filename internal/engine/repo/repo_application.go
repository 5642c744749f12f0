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

// IApplicationRepository 候选人申请仓库接口
type IApplicationRepository interface {
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplicationByID(ctx context.Context, appID string) (*model.Application, error)
	ListApplications(ctx context.Context) ([]*model.Application, error)
	UpdateStatus(ctx context.Context, appID, status string) error
}

type ApplicationRepo struct {
	database.IDatabase
}

func NewApplicationRepo(db database.IDatabase) IApplicationRepository {
	return &ApplicationRepo{
		IDatabase: db,
	}
}

// CreateApplication creates a new application
func (r *ApplicationRepo) CreateApplication(ctx context.Context, app *model.Application) error {
	return r.Database().WithContext(ctx).Table(app.TableName()).Create(app).Error
}

// GetApplicationByID retrieves an application by app_id
func (r *ApplicationRepo) GetApplicationByID(ctx context.Context, appID string) (*model.Application, error) {
	var app model.Application
	err := r.Database().WithContext(ctx).
		Table(app.TableName()).
		Where("app_id = ?", appID).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListApplications lists all applications
func (r *ApplicationRepo) ListApplications(ctx context.Context) ([]*model.Application, error) {
	var apps []*model.Application
	err := r.Database().WithContext(ctx).
		Table((&model.Application{}).TableName()).
		Order("id DESC").
		Find(&apps).Error
	return apps, err
}

// UpdateStatus updates the application status
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, appID, status string) error {
	return r.Database().WithContext(ctx).
		Table((&model.Application{}).TableName()).
		Where("app_id = ?", appID).
		Update("status", status).Error
}
