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
	"github.com/go-verdict/verdict/pkg/statemachine"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommitteeAggregate 聚合缓存列的一次性更新
type CommitteeAggregate struct {
	AverageScore        float64
	RecommendCount      int
	PendingCount        int
	NotRecommendCount   int
	FinalRecommendation string
	ComputedAt          time.Time
}

// ICommitteeRepository 委员会实例仓库接口
type ICommitteeRepository interface {
	// CreateWithMembers atomically creates the instance and its roster,
	// rejecting the write when the application already has a live committee.
	CreateWithMembers(ctx context.Context, instance *model.CommitteeInstance, members []*model.CommitteeMember) error
	GetByCommitteeID(ctx context.Context, committeeID string) (*model.CommitteeInstance, error)
	GetLatestByApp(ctx context.Context, appID string) (*model.CommitteeInstance, error)
	ListByApp(ctx context.Context, appID string) ([]*model.CommitteeInstance, error)
	ListActiveWithDeadlineWithin(ctx context.Context, before time.Time) ([]*model.CommitteeInstance, error)
	UpdateStatus(ctx context.Context, committeeID, status string) error
	UpdateCancel(ctx context.Context, committeeID, reason string) error
	UpdateAggregate(ctx context.Context, committeeID string, agg CommitteeAggregate) error

	ListMembers(ctx context.Context, committeeID string) ([]*model.CommitteeMember, error)
	GetMemberByID(ctx context.Context, memberID string) (*model.CommitteeMember, error)
	AddMember(ctx context.Context, member *model.CommitteeMember) error
	RemoveMember(ctx context.Context, memberID string) error
	UpdateMemberStatus(ctx context.Context, memberID, status string) error

	AppendAuditNote(ctx context.Context, note *model.CommitteeAuditNote) error
	ListAuditNotes(ctx context.Context, committeeID string) ([]*model.CommitteeAuditNote, error)
}

type CommitteeRepo struct {
	database.IDatabase
}

func NewCommitteeRepo(db database.IDatabase) ICommitteeRepository {
	return &CommitteeRepo{
		IDatabase: db,
	}
}

// CreateWithMembers 事务内创建实例与成员。对同一 app_id 的存量记录加锁读,
// 保证并发 assign 下 "一个申请至多一个存活委员会" 不被破坏。
func (r *CommitteeRepo) CreateWithMembers(ctx context.Context, instance *model.CommitteeInstance, members []*model.CommitteeMember) error {
	return r.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := Count(tx.
			Table(instance.TableName()).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("app_id = ? AND status IN ?", instance.AppId,
				[]string{string(statemachine.CommitteePending), string(statemachine.CommitteeActive)}))
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateCommittee
		}
		if err = tx.Table(instance.TableName()).Create(instance).Error; err != nil {
			return err
		}
		for _, m := range members {
			m.CommitteeId = instance.CommitteeId
			if err = tx.Table(m.TableName()).Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByCommitteeID retrieves an instance with its roster
func (r *CommitteeRepo) GetByCommitteeID(ctx context.Context, committeeID string) (*model.CommitteeInstance, error) {
	var instance model.CommitteeInstance
	err := r.Database().WithContext(ctx).
		Table(instance.TableName()).
		Where("committee_id = ?", committeeID).
		First(&instance).Error
	if err != nil {
		return nil, err
	}
	members, err := r.ListMembers(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	instance.Members = members
	return &instance, nil
}

// GetLatestByApp retrieves the most recent committee of an application
func (r *CommitteeRepo) GetLatestByApp(ctx context.Context, appID string) (*model.CommitteeInstance, error) {
	var instance model.CommitteeInstance
	err := r.Database().WithContext(ctx).
		Table(instance.TableName()).
		Where("app_id = ?", appID).
		Order("id DESC").
		First(&instance).Error
	if err != nil {
		return nil, err
	}
	members, err := r.ListMembers(ctx, instance.CommitteeId)
	if err != nil {
		return nil, err
	}
	instance.Members = members
	return &instance, nil
}

// ListByApp lists all committees of an application, newest first
func (r *CommitteeRepo) ListByApp(ctx context.Context, appID string) ([]*model.CommitteeInstance, error) {
	var instances []*model.CommitteeInstance
	err := r.Database().WithContext(ctx).
		Table((&model.CommitteeInstance{}).TableName()).
		Where("app_id = ?", appID).
		Order("id DESC").
		Find(&instances).Error
	return instances, err
}

// ListActiveWithDeadlineWithin lists live committees whose deadline falls
// before the given time and has not passed yet
func (r *CommitteeRepo) ListActiveWithDeadlineWithin(ctx context.Context, before time.Time) ([]*model.CommitteeInstance, error) {
	var instances []*model.CommitteeInstance
	err := r.Database().WithContext(ctx).
		Table((&model.CommitteeInstance{}).TableName()).
		Where("status IN ? AND deadline > ? AND deadline <= ?",
			[]string{string(statemachine.CommitteePending), string(statemachine.CommitteeActive)},
			time.Now(), before).
		Find(&instances).Error
	return instances, err
}

// UpdateStatus updates the committee lifecycle status
func (r *CommitteeRepo) UpdateStatus(ctx context.Context, committeeID, status string) error {
	return r.Database().WithContext(ctx).
		Table((&model.CommitteeInstance{}).TableName()).
		Where("committee_id = ?", committeeID).
		Update("status", status).Error
}

// UpdateCancel marks the committee cancelled and records the reason
func (r *CommitteeRepo) UpdateCancel(ctx context.Context, committeeID, reason string) error {
	return r.Database().WithContext(ctx).
		Table((&model.CommitteeInstance{}).TableName()).
		Where("committee_id = ?", committeeID).
		Updates(map[string]interface{}{
			"status":        string(statemachine.CommitteeCancelled),
			"cancel_reason": reason,
		}).Error
}

// UpdateAggregate writes the derived aggregate cache columns in one statement
func (r *CommitteeRepo) UpdateAggregate(ctx context.Context, committeeID string, agg CommitteeAggregate) error {
	return r.Database().WithContext(ctx).
		Table((&model.CommitteeInstance{}).TableName()).
		Where("committee_id = ?", committeeID).
		Updates(map[string]interface{}{
			"average_score":         agg.AverageScore,
			"recommend_count":       agg.RecommendCount,
			"pending_count":         agg.PendingCount,
			"not_recommend_count":   agg.NotRecommendCount,
			"final_recommendation":  agg.FinalRecommendation,
			"aggregate_computed_at": agg.ComputedAt,
		}).Error
}

// ListMembers lists the roster in position order
func (r *CommitteeRepo) ListMembers(ctx context.Context, committeeID string) ([]*model.CommitteeMember, error) {
	var members []*model.CommitteeMember
	err := r.Database().WithContext(ctx).
		Table((&model.CommitteeMember{}).TableName()).
		Where("committee_id = ?", committeeID).
		Order("position ASC, id ASC").
		Find(&members).Error
	return members, err
}

// GetMemberByID retrieves a roster entry by member_id
func (r *CommitteeRepo) GetMemberByID(ctx context.Context, memberID string) (*model.CommitteeMember, error) {
	var member model.CommitteeMember
	err := r.Database().WithContext(ctx).
		Table(member.TableName()).
		Where("member_id = ?", memberID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// AddMember appends a roster entry
func (r *CommitteeRepo) AddMember(ctx context.Context, member *model.CommitteeMember) error {
	return r.Database().WithContext(ctx).Table(member.TableName()).Create(member).Error
}

// RemoveMember deletes a roster entry
func (r *CommitteeRepo) RemoveMember(ctx context.Context, memberID string) error {
	return r.Database().WithContext(ctx).
		Table((&model.CommitteeMember{}).TableName()).
		Where("member_id = ?", memberID).
		Delete(&model.CommitteeMember{}).Error
}

// UpdateMemberStatus updates a roster entry status
func (r *CommitteeRepo) UpdateMemberStatus(ctx context.Context, memberID, status string) error {
	return r.Database().WithContext(ctx).
		Table((&model.CommitteeMember{}).TableName()).
		Where("member_id = ?", memberID).
		Update("status", status).Error
}

// AppendAuditNote appends an audit record, audit notes are never updated
func (r *CommitteeRepo) AppendAuditNote(ctx context.Context, note *model.CommitteeAuditNote) error {
	return r.Database().WithContext(ctx).Table(note.TableName()).Create(note).Error
}

// ListAuditNotes lists audit records in chronological order
func (r *CommitteeRepo) ListAuditNotes(ctx context.Context, committeeID string) ([]*model.CommitteeAuditNote, error) {
	var notes []*model.CommitteeAuditNote
	err := r.Database().WithContext(ctx).
		Table((&model.CommitteeAuditNote{}).TableName()).
		Where("committee_id = ?", committeeID).
		Order("id ASC").
		Find(&notes).Error
	return notes, err
}
