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

package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/go-verdict/verdict/internal/pkg/notify"
	"github.com/go-verdict/verdict/pkg/log"
)

// WebhookChannel implements generic webhook notification channel
type WebhookChannel struct {
	webhookURL string
	client     *resty.Client
}

// NewWebhookChannel creates a new generic webhook notification channel
func NewWebhookChannel(webhookURL string, timeout time.Duration) *WebhookChannel {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &WebhookChannel{
		webhookURL: webhookURL,
		client:     client,
	}
}

// Type returns the channel type
func (c *WebhookChannel) Type() notify.ChannelType {
	return notify.ChannelTypeWebhook
}

// Send posts the alert as JSON to the configured endpoint
func (c *WebhookChannel) Send(ctx context.Context, msg *notify.Message) error {
	if err := c.Validate(); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"alert_type": msg.AlertType,
		"recipient":  msg.To.Email,
		"subject":    msg.Subject,
		"message":    msg.Body,
	}
	if len(msg.Data) > 0 {
		payload["data"] = msg.Data
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.webhookURL)
	if err != nil {
		log.Errorw("webhook send request failed", "error", err)
		return fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.Errorw("webhook request failed", "statusCode", resp.StatusCode(), "response", resp.String())
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode())
	}
	return nil
}

// Validate validates the configuration
func (c *WebhookChannel) Validate() error {
	if c.webhookURL == "" {
		return fmt.Errorf("webhook URL is required")
	}
	return nil
}

// Close closes the connection
func (c *WebhookChannel) Close() error {
	return nil
}
