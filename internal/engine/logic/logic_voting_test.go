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

package logic

import (
	"testing"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/stretchr/testify/assert"
)

func fb(rec string, score int) *model.Feedback {
	return &model.Feedback{Recommendation: rec, OverallScore: score}
}

func TestComputeAverage(t *testing.T) {
	policy := model.VotingPolicy{VotingMechanism: model.VotingAverage}
	th := DefaultThresholds()

	agg := Compute([]*model.Feedback{
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationRecommend, 7),
	}, policy, th)
	assert.Equal(t, 7.5, agg.AverageScore)
	assert.Equal(t, model.RecommendationRecommend, agg.FinalRecommendation)

	agg = Compute([]*model.Feedback{
		fb(model.RecommendationNotRecommend, 3),
		fb(model.RecommendationNotRecommend, 4),
	}, policy, th)
	assert.Equal(t, 3.5, agg.AverageScore)
	assert.Equal(t, model.RecommendationNotRecommend, agg.FinalRecommendation)

	agg = Compute([]*model.Feedback{
		fb(model.RecommendationRecommend, 6),
		fb(model.RecommendationNotRecommend, 5),
	}, policy, th)
	assert.Equal(t, model.RecommendationPending, agg.FinalRecommendation)
}

func TestComputeAverageBoundaries(t *testing.T) {
	policy := model.VotingPolicy{VotingMechanism: model.VotingAverage}
	th := DefaultThresholds()

	// exactly at the high threshold counts as recommend
	agg := Compute([]*model.Feedback{fb(model.RecommendationRecommend, 7)}, policy, th)
	assert.Equal(t, model.RecommendationRecommend, agg.FinalRecommendation)

	// exactly at the low threshold counts as not_recommend
	agg = Compute([]*model.Feedback{fb(model.RecommendationPending, 4)}, policy, th)
	assert.Equal(t, model.RecommendationNotRecommend, agg.FinalRecommendation)

	// just above the low threshold stays pending
	agg = Compute([]*model.Feedback{
		fb(model.RecommendationPending, 4),
		fb(model.RecommendationPending, 5),
	}, policy, th)
	assert.Equal(t, 4.5, agg.AverageScore)
	assert.Equal(t, model.RecommendationPending, agg.FinalRecommendation)
}

func TestComputeAverageRoundsToOneDecimal(t *testing.T) {
	policy := model.VotingPolicy{VotingMechanism: model.VotingAverage}
	th := DefaultThresholds()

	agg := Compute([]*model.Feedback{
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationRecommend, 9),
	}, policy, th)
	// 25/3 = 8.333... -> 8.3
	assert.Equal(t, 8.3, agg.AverageScore)

	agg = Compute([]*model.Feedback{
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationRecommend, 9),
		fb(model.RecommendationRecommend, 9),
	}, policy, th)
	// 26/3 = 8.666... -> 8.7
	assert.Equal(t, 8.7, agg.AverageScore)
}

func TestComputeMajority(t *testing.T) {
	policy := model.VotingPolicy{VotingMechanism: model.VotingMajority}
	th := DefaultThresholds()

	agg := Compute([]*model.Feedback{
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationRecommend, 9),
		fb(model.RecommendationNotRecommend, 3),
	}, policy, th)
	assert.Equal(t, model.RecommendationRecommend, agg.FinalRecommendation)

	// 2-2 tie resolves to pending
	agg = Compute([]*model.Feedback{
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationNotRecommend, 3),
		fb(model.RecommendationNotRecommend, 3),
	}, policy, th)
	assert.Equal(t, model.RecommendationPending, agg.FinalRecommendation)

	agg = Compute([]*model.Feedback{
		fb(model.RecommendationNotRecommend, 2),
		fb(model.RecommendationNotRecommend, 3),
		fb(model.RecommendationRecommend, 9),
	}, policy, th)
	assert.Equal(t, model.RecommendationNotRecommend, agg.FinalRecommendation)
}

func TestComputeConsensus(t *testing.T) {
	policy := model.VotingPolicy{VotingMechanism: model.VotingConsensus}
	th := DefaultThresholds()

	agg := Compute([]*model.Feedback{
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationRecommend, 9),
	}, policy, th)
	assert.Equal(t, model.RecommendationRecommend, agg.FinalRecommendation)

	// a single dissent breaks consensus
	agg = Compute([]*model.Feedback{
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationRecommend, 9),
		fb(model.RecommendationPending, 6),
	}, policy, th)
	assert.Equal(t, model.RecommendationPending, agg.FinalRecommendation)

	agg = Compute([]*model.Feedback{
		fb(model.RecommendationNotRecommend, 2),
		fb(model.RecommendationNotRecommend, 3),
	}, policy, th)
	assert.Equal(t, model.RecommendationNotRecommend, agg.FinalRecommendation)
}

func TestComputeEmpty(t *testing.T) {
	agg := Compute(nil, model.VotingPolicy{VotingMechanism: model.VotingAverage}, DefaultThresholds())
	assert.Equal(t, 0, agg.SubmittedCount)
	assert.Equal(t, 0.0, agg.AverageScore)
	assert.Equal(t, model.RecommendationPending, agg.FinalRecommendation)
}

func TestComputeDeterministic(t *testing.T) {
	feedbacks := []*model.Feedback{
		fb(model.RecommendationRecommend, 8),
		fb(model.RecommendationPending, 5),
		fb(model.RecommendationNotRecommend, 2),
	}
	policy := model.VotingPolicy{VotingMechanism: model.VotingMajority}
	first := Compute(feedbacks, policy, DefaultThresholds())
	second := Compute(feedbacks, policy, DefaultThresholds())
	assert.Equal(t, first, second)
}

func TestIsComplete(t *testing.T) {
	// minimum not met
	assert.False(t, IsComplete(1, 3, model.VotingPolicy{MinFeedbackRequired: 2}))
	// minimum met
	assert.True(t, IsComplete(2, 3, model.VotingPolicy{MinFeedbackRequired: 2}))
	// require all overrides the minimum
	assert.False(t, IsComplete(2, 3, model.VotingPolicy{MinFeedbackRequired: 2, RequireAllFeedback: true}))
	assert.True(t, IsComplete(3, 3, model.VotingPolicy{MinFeedbackRequired: 2, RequireAllFeedback: true}))
	// zero minimum falls back to 1
	assert.False(t, IsComplete(0, 3, model.VotingPolicy{}))
	assert.True(t, IsComplete(1, 3, model.VotingPolicy{}))
}
