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

package notify

import (
	"context"
)

// INotifyChannel defines the interface for notification channels
type INotifyChannel interface {
	// Type returns the channel type
	Type() ChannelType
	// Send delivers one message to its recipient
	Send(ctx context.Context, msg *Message) error
	// Validate validates the channel configuration
	Validate() error
	// Close closes the channel connection
	Close() error
}

// ChannelType represents the notification channel type
type ChannelType string

const (
	ChannelTypeEmail   ChannelType = "email"
	ChannelTypeWebhook ChannelType = "webhook"
)

// Recipient is one resolved delivery target
type Recipient struct {
	UserId string
	Name   string
	Email  string
	Role   string
}

// Message is one alert addressed to a single recipient. The orchestrator
// personalizes Body per recipient (feedback links differ per member), so
// fan-out happens before the channel layer.
type Message struct {
	AlertType string
	To        Recipient
	Subject   string
	Body      string
	// Data carries the structured event context for webhook payloads
	Data map[string]interface{}
}
