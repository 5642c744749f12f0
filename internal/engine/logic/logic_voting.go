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

/**
 * @file: logic_voting.go
 * @description: pure vote aggregation over submitted feedback; no storage,
 *               no clock, deterministic for a given input
 */

package logic

import (
	"math"

	"github.com/go-verdict/verdict/internal/engine/model"
)

// Thresholds are the score cutoffs used by the average mechanism.
type Thresholds struct {
	High float64 // average >= High  => recommend
	Low  float64 // average <= Low   => not_recommend
}

// DefaultThresholds returns the standard score cutoffs
func DefaultThresholds() Thresholds {
	return Thresholds{High: 7.0, Low: 4.0}
}

// Aggregate is the derived view over a committee's submitted feedback.
type Aggregate struct {
	SubmittedCount      int
	AverageScore        float64
	RecommendCount      int
	PendingCount        int
	NotRecommendCount   int
	FinalRecommendation string
}

// Compute derives the aggregate from the submitted feedback under the given
// policy. With zero submissions the average is 0 and the recommendation is
// pending.
func Compute(feedbacks []*model.Feedback, policy model.VotingPolicy, th Thresholds) Aggregate {
	agg := Aggregate{SubmittedCount: len(feedbacks)}
	if len(feedbacks) == 0 {
		agg.FinalRecommendation = model.RecommendationPending
		return agg
	}

	sum := 0
	for _, fb := range feedbacks {
		sum += fb.OverallScore
		switch fb.Recommendation {
		case model.RecommendationRecommend:
			agg.RecommendCount++
		case model.RecommendationNotRecommend:
			agg.NotRecommendCount++
		default:
			agg.PendingCount++
		}
	}
	// one decimal, the precision the aggregate cache persists
	agg.AverageScore = math.Round(float64(sum)/float64(len(feedbacks))*10) / 10

	switch policy.VotingMechanism {
	case model.VotingMajority:
		agg.FinalRecommendation = majorityOf(agg)
	case model.VotingConsensus:
		agg.FinalRecommendation = consensusOf(agg)
	default: // average
		agg.FinalRecommendation = averageOf(agg, th)
	}
	return agg
}

// averageOf maps the mean score to a recommendation band
func averageOf(agg Aggregate, th Thresholds) string {
	if agg.AverageScore >= th.High {
		return model.RecommendationRecommend
	}
	if agg.AverageScore <= th.Low {
		return model.RecommendationNotRecommend
	}
	return model.RecommendationPending
}

// majorityOf picks the strictly most frequent explicit vote; ties resolve to
// pending
func majorityOf(agg Aggregate) string {
	if agg.RecommendCount > agg.NotRecommendCount && agg.RecommendCount > agg.PendingCount {
		return model.RecommendationRecommend
	}
	if agg.NotRecommendCount > agg.RecommendCount && agg.NotRecommendCount > agg.PendingCount {
		return model.RecommendationNotRecommend
	}
	return model.RecommendationPending
}

// consensusOf requires unanimity; any split yields pending
func consensusOf(agg Aggregate) string {
	if agg.RecommendCount == agg.SubmittedCount {
		return model.RecommendationRecommend
	}
	if agg.NotRecommendCount == agg.SubmittedCount {
		return model.RecommendationNotRecommend
	}
	return model.RecommendationPending
}

// IsComplete reports whether the committee has collected enough feedback to
// finalize under the policy.
func IsComplete(submitted, totalMembers int, policy model.VotingPolicy) bool {
	min := policy.MinFeedbackRequired
	if min < 1 {
		min = 1
	}
	if submitted < min {
		return false
	}
	if policy.RequireAllFeedback && submitted < totalMembers {
		return false
	}
	return true
}
