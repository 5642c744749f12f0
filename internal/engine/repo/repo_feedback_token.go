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
	"time"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/pkg/database"
	"gorm.io/gorm"
)

// IFeedbackTokenRepository 反馈令牌仓库接口
type IFeedbackTokenRepository interface {
	CreateToken(ctx context.Context, token *model.FeedbackToken) error
	GetByToken(ctx context.Context, raw string) (*model.FeedbackToken, error)
	GetByTokenID(ctx context.Context, tokenID string) (*model.FeedbackToken, error)
	// GetOutstandingByMember returns the member's newest unused token, or
	// gorm.ErrRecordNotFound when none exists.
	GetOutstandingByMember(ctx context.Context, memberID string) (*model.FeedbackToken, error)
	// Consume marks the token used. Returns false without error when the
	// token was already consumed by a concurrent submission.
	Consume(ctx context.Context, tokenID string) (bool, error)
	IncrementAccess(ctx context.Context, tokenID string) error
	ExpireForMember(ctx context.Context, memberID string) error
	ExpireAllForCommittee(ctx context.Context, committeeID string) error
}

type FeedbackTokenRepo struct {
	database.IDatabase
}

func NewFeedbackTokenRepo(db database.IDatabase) IFeedbackTokenRepository {
	return &FeedbackTokenRepo{
		IDatabase: db,
	}
}

// CreateToken persists a freshly issued token
func (r *FeedbackTokenRepo) CreateToken(ctx context.Context, token *model.FeedbackToken) error {
	return r.Database().WithContext(ctx).Table(token.TableName()).Create(token).Error
}

// GetByToken looks up by the opaque credential value
func (r *FeedbackTokenRepo) GetByToken(ctx context.Context, raw string) (*model.FeedbackToken, error) {
	var token model.FeedbackToken
	err := r.Database().WithContext(ctx).
		Table(token.TableName()).
		Where("token = ?", raw).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetByTokenID looks up by the public token id
func (r *FeedbackTokenRepo) GetByTokenID(ctx context.Context, tokenID string) (*model.FeedbackToken, error) {
	var token model.FeedbackToken
	err := r.Database().WithContext(ctx).
		Table(token.TableName()).
		Where("token_id = ?", tokenID).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetOutstandingByMember returns the newest unused token of a member
func (r *FeedbackTokenRepo) GetOutstandingByMember(ctx context.Context, memberID string) (*model.FeedbackToken, error) {
	var token model.FeedbackToken
	err := r.Database().WithContext(ctx).
		Table(token.TableName()).
		Where("member_id = ? AND is_used = ?", memberID, false).
		Order("id DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Consume 单次使用的 CAS 更新: 仅当 is_used=0 时置位, 并发提交只有一个赢家
func (r *FeedbackTokenRepo) Consume(ctx context.Context, tokenID string) (bool, error) {
	now := time.Now()
	tx := r.Database().WithContext(ctx).
		Table((&model.FeedbackToken{}).TableName()).
		Where("token_id = ? AND is_used = ?", tokenID, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// IncrementAccess bumps the read-only access counter
func (r *FeedbackTokenRepo) IncrementAccess(ctx context.Context, tokenID string) error {
	return r.Database().WithContext(ctx).
		Table((&model.FeedbackToken{}).TableName()).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"access_count":     gorm.Expr("access_count + 1"),
			"last_accessed_at": time.Now(),
		}).Error
}

// ExpireForMember force-expires every outstanding token of a member
func (r *FeedbackTokenRepo) ExpireForMember(ctx context.Context, memberID string) error {
	return r.Database().WithContext(ctx).
		Table((&model.FeedbackToken{}).TableName()).
		Where("member_id = ? AND is_used = ?", memberID, false).
		Update("expires_at", time.Now()).Error
}

// ExpireAllForCommittee force-expires every outstanding token of a committee
func (r *FeedbackTokenRepo) ExpireAllForCommittee(ctx context.Context, committeeID string) error {
	return r.Database().WithContext(ctx).
		Table((&model.FeedbackToken{}).TableName()).
		Where("committee_id = ? AND is_used = ?", committeeID, false).
		Update("expires_at", time.Now()).Error
}
