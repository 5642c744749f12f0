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
 * @file: metrics.go
 * @description: prometheus counters for notification queue throughput,
 *               served from GET /metrics alongside the domain counters
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsEnqueued counts payloads handed to the delivery queue
	NotificationsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verdict",
		Name:      "notifications_enqueued_total",
		Help:      "Notifications enqueued for delivery, by alert type.",
	}, []string{"alert_type"})

	// NotificationsDelivered counts per-channel delivery attempts
	NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verdict",
		Name:      "notifications_delivered_total",
		Help:      "Notification delivery attempts, by channel and status.",
	}, []string{"channel", "status"})
)
