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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedbackSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verdict",
		Name:      "feedback_submissions_total",
		Help:      "Feedback submissions by outcome",
	}, []string{"outcome"})

	tokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verdict",
		Name:      "token_verifications_total",
		Help:      "Feedback token verifications by outcome",
	}, []string{"outcome"})

	committeesAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "verdict",
		Name:      "committees_assigned_total",
		Help:      "Committee instances assigned",
	})

	committeesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "verdict",
		Name:      "committees_completed_total",
		Help:      "Committee instances that reached a final recommendation",
	})

	remindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "verdict",
		Name:      "reminders_sent_total",
		Help:      "Feedback reminder notifications sent",
	})
)
