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

// ApplicationService manages candidate applications.
type ApplicationService struct {
	applications repo.IApplicationRepository
}

// NewApplicationService creates the application service
func NewApplicationService(applications repo.IApplicationRepository) *ApplicationService {
	return &ApplicationService{applications: applications}
}

// AddApplication registers a candidate application
func (as *ApplicationService) AddApplication(ctx context.Context, req *model.AddApplicationReq) (*model.Application, error) {
	if req == nil || req.CandidateName == "" || req.Position == "" {
		return nil, validationErr("candidateName and position are required")
	}

	app := &model.Application{
		AppId:          id.GetUUIDWithoutDashes(),
		CandidateName:  req.CandidateName,
		CandidateEmail: req.CandidateEmail,
		Position:       req.Position,
		Department:     req.Department,
	}
	if err := as.applications.CreateApplication(ctx, app); err != nil {
		log.Errorf("add application err: %v", err)
		return nil, err
	}
	return app, nil
}

// GetApplication retrieves one application
func (as *ApplicationService) GetApplication(ctx context.Context, appID string) (*model.Application, error) {
	app, err := as.applications.GetApplicationByID(ctx, appID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ListApplications lists all applications
func (as *ApplicationService) ListApplications(ctx context.Context) ([]*model.Application, error) {
	return as.applications.ListApplications(ctx)
}

// UpdateStatus moves an application through the hiring pipeline
func (as *ApplicationService) UpdateStatus(ctx context.Context, appID, status string) error {
	if status == "" {
		return validationErr("status is required")
	}
	if _, err := as.GetApplication(ctx, appID); err != nil {
		return err
	}
	return as.applications.UpdateStatus(ctx, appID, status)
}
