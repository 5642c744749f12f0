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

// IUserRepository 员工目录仓库接口
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.StaffUser) error
	GetUserByID(ctx context.Context, userID string) (*model.StaffUser, error)
	ListUsers(ctx context.Context) ([]*model.StaffUser, error)
	ListActiveUsersByRoles(ctx context.Context, roles []string) ([]*model.StaffUser, error)
	UpdateUser(ctx context.Context, user *model.StaffUser) error
	DeactivateUser(ctx context.Context, userID string) error
}

type UserRepo struct {
	database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{
		IDatabase: db,
	}
}

// CreateUser creates a new staff user
func (r *UserRepo) CreateUser(ctx context.Context, user *model.StaffUser) error {
	return r.Database().WithContext(ctx).Table(user.TableName()).Create(user).Error
}

// GetUserByID retrieves a staff user by user_id
func (r *UserRepo) GetUserByID(ctx context.Context, userID string) (*model.StaffUser, error) {
	var user model.StaffUser
	err := r.Database().WithContext(ctx).
		Table(user.TableName()).
		Where("user_id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers lists all staff users
func (r *UserRepo) ListUsers(ctx context.Context) ([]*model.StaffUser, error) {
	var users []*model.StaffUser
	err := r.Database().WithContext(ctx).
		Table((&model.StaffUser{}).TableName()).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// ListActiveUsersByRoles lists active staff with role in roles
func (r *UserRepo) ListActiveUsersByRoles(ctx context.Context, roles []string) ([]*model.StaffUser, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	var users []*model.StaffUser
	err := r.Database().WithContext(ctx).
		Table((&model.StaffUser{}).TableName()).
		Where("is_active = ? AND role IN ?", true, roles).
		Find(&users).Error
	return users, err
}

// UpdateUser updates an existing staff user
func (r *UserRepo) UpdateUser(ctx context.Context, user *model.StaffUser) error {
	return r.Database().WithContext(ctx).
		Table(user.TableName()).
		Where("user_id = ?", user.UserId).
		Omit("id", "user_id", "created_at").
		Updates(user).Error
}

// DeactivateUser soft deletes a staff user by setting is_active = false
func (r *UserRepo) DeactivateUser(ctx context.Context, userID string) error {
	return r.Database().WithContext(ctx).
		Table((&model.StaffUser{}).TableName()).
		Where("user_id = ?", userID).
		Update("is_active", false).Error
}
