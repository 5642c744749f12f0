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
	"encoding/json"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/pkg/id"
	"github.com/go-verdict/verdict/pkg/log"
)

// UserService manages the staff directory.
type UserService struct {
	users repo.IUserRepository
}

// NewUserService creates the user service
func NewUserService(users repo.IUserRepository) *UserService {
	return &UserService{users: users}
}

// AddUser creates a staff user
func (us *UserService) AddUser(ctx context.Context, req *model.AddUserReq) (*model.StaffUser, error) {
	if req == nil || req.Username == "" || req.Email == "" || req.Role == "" {
		return nil, validationErr("username, email and role are required")
	}

	user := &model.StaffUser{
		UserId:   id.GetUUIDWithoutDashes(),
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: true,
	}
	if len(req.OptOuts) > 0 {
		raw, err := json.Marshal(req.OptOuts)
		if err != nil {
			return nil, err
		}
		user.OptOuts = string(raw)
	}

	if err := us.users.CreateUser(ctx, user); err != nil {
		log.Errorf("add user err: %v", err)
		return nil, err
	}
	return user, nil
}

// GetUser retrieves one staff user
func (us *UserService) GetUser(ctx context.Context, userID string) (*model.StaffUser, error) {
	user, err := us.users.GetUserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, validationErr("user %s not found", userID)
		}
		return nil, err
	}
	return user, nil
}

// ListUsers lists the staff directory
func (us *UserService) ListUsers(ctx context.Context) ([]*model.StaffUser, error) {
	return us.users.ListUsers(ctx)
}

// UpdateUser applies a partial staff user update
func (us *UserService) UpdateUser(ctx context.Context, userID string, req *model.UpdateUserReq) (*model.StaffUser, error) {
	user, err := us.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.OptOuts != nil {
		raw, err := json.Marshal(*req.OptOuts)
		if err != nil {
			return nil, err
		}
		user.OptOuts = string(raw)
	}

	if err := us.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateUser removes a staff user from recipient resolution. Snapshotted
// rosters and submitted feedback keep their copied identity fields.
func (us *UserService) DeactivateUser(ctx context.Context, userID string) error {
	if _, err := us.GetUser(ctx, userID); err != nil {
		return err
	}
	return us.users.DeactivateUser(ctx, userID)
}
