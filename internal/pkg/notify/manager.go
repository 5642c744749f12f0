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
	"fmt"
	"sync"
)

// DeliveryResult records the outcome of one channel delivery attempt
type DeliveryResult struct {
	Channel   ChannelType
	Recipient string
	Err       error
}

// NotifyManager manages the enabled notification channels. Delivery failures
// are collected per channel, never aggregated into a single error: a failed
// email must not mask a successful webhook call.
type NotifyManager struct {
	channels map[ChannelType]INotifyChannel
	mu       sync.RWMutex
}

// NewNotifyManager creates a new notification manager
func NewNotifyManager() *NotifyManager {
	return &NotifyManager{
		channels: make(map[ChannelType]INotifyChannel),
	}
}

// RegisterChannel registers a notification channel
func (nm *NotifyManager) RegisterChannel(ch INotifyChannel) error {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	if ch == nil {
		return fmt.Errorf("channel cannot be nil")
	}
	if err := ch.Validate(); err != nil {
		return fmt.Errorf("channel validation failed: %w", err)
	}

	nm.channels[ch.Type()] = ch
	return nil
}

// GetChannel gets a notification channel by type
func (nm *NotifyManager) GetChannel(t ChannelType) (INotifyChannel, error) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()

	ch, exists := nm.channels[t]
	if !exists {
		return nil, fmt.Errorf("channel %s not found", t)
	}
	return ch, nil
}

// Dispatch sends the message through every registered channel and returns one
// result per channel
func (nm *NotifyManager) Dispatch(ctx context.Context, msg *Message) []DeliveryResult {
	nm.mu.RLock()
	channels := make([]INotifyChannel, 0, len(nm.channels))
	for _, ch := range nm.channels {
		channels = append(channels, ch)
	}
	nm.mu.RUnlock()

	results := make([]DeliveryResult, 0, len(channels))
	for _, ch := range channels {
		results = append(results, DeliveryResult{
			Channel:   ch.Type(),
			Recipient: msg.To.Email,
			Err:       ch.Send(ctx, msg),
		})
	}
	return results
}

// ListChannels lists the registered channel types
func (nm *NotifyManager) ListChannels() []ChannelType {
	nm.mu.RLock()
	defer nm.mu.RUnlock()

	types := make([]ChannelType, 0, len(nm.channels))
	for t := range nm.channels {
		types = append(types, t)
	}
	return types
}

// Close closes all registered channels
func (nm *NotifyManager) Close() error {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	var firstErr error
	for t, ch := range nm.channels {
		if err := ch.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close channel %s: %w", t, err)
		}
		delete(nm.channels, t)
	}
	return firstErr
}
