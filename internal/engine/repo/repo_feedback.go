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

// IFeedbackRepository 反馈仓库接口
type IFeedbackRepository interface {
	CreateFeedback(ctx context.Context, fb *model.Feedback) error
	GetByMember(ctx context.Context, memberID string) (*model.Feedback, error)
	ListByCommittee(ctx context.Context, committeeID string) ([]*model.Feedback, error)
	CountByCommittee(ctx context.Context, committeeID string) (int64, error)
}

type FeedbackRepo struct {
	database.IDatabase
}

func NewFeedbackRepo(db database.IDatabase) IFeedbackRepository {
	return &FeedbackRepo{
		IDatabase: db,
	}
}

// CreateFeedback persists a submission; the member_id unique index rejects a
// second feedback for the same roster entry
func (r *FeedbackRepo) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	return r.Database().WithContext(ctx).Table(fb.TableName()).Create(fb).Error
}

// GetByMember retrieves the feedback of a roster entry
func (r *FeedbackRepo) GetByMember(ctx context.Context, memberID string) (*model.Feedback, error) {
	var fb model.Feedback
	err := r.Database().WithContext(ctx).
		Table(fb.TableName()).
		Where("member_id = ?", memberID).
		First(&fb).Error
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// ListByCommittee lists all feedback of a committee in submission order
func (r *FeedbackRepo) ListByCommittee(ctx context.Context, committeeID string) ([]*model.Feedback, error) {
	var fbs []*model.Feedback
	err := r.Database().WithContext(ctx).
		Table((&model.Feedback{}).TableName()).
		Where("committee_id = ?", committeeID).
		Order("submitted_at ASC, id ASC").
		Find(&fbs).Error
	return fbs, err
}

// CountByCommittee counts the submissions of a committee
func (r *FeedbackRepo) CountByCommittee(ctx context.Context, committeeID string) (int64, error) {
	return Count(r.Database().WithContext(ctx).
		Table((&model.Feedback{}).TableName()).
		Where("committee_id = ?", committeeID))
}
