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
	"net/smtp"

	"github.com/go-verdict/verdict/internal/pkg/notify"
)

// EmailChannel implements email notification channel over SMTP
type EmailChannel struct {
	smtpHost  string
	smtpPort  int
	fromEmail string
	username  string
	password  string
}

// NewEmailChannel creates a new email notification channel
func NewEmailChannel(smtpHost string, smtpPort int, fromEmail, username, password string) *EmailChannel {
	return &EmailChannel{
		smtpHost:  smtpHost,
		smtpPort:  smtpPort,
		fromEmail: fromEmail,
		username:  username,
		password:  password,
	}
}

// Type returns the channel type
func (c *EmailChannel) Type() notify.ChannelType {
	return notify.ChannelTypeEmail
}

// Send sends the message as a plain text email
func (c *EmailChannel) Send(ctx context.Context, msg *notify.Message) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if msg.To.Email == "" {
		return fmt.Errorf("recipient email is required")
	}

	body := "From: " + c.fromEmail + "\r\n" +
		"To: " + msg.To.Email + "\r\n" +
		"Subject: " + msg.Subject + "\r\n" +
		"\r\n" + msg.Body

	var smtpAuth smtp.Auth
	if c.username != "" {
		smtpAuth = smtp.PlainAuth("", c.username, c.password, c.smtpHost)
	}

	addr := fmt.Sprintf("%s:%d", c.smtpHost, c.smtpPort)
	if err := smtp.SendMail(addr, smtpAuth, c.fromEmail, []string{msg.To.Email}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *EmailChannel) Validate() error {
	if c.smtpHost == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.smtpPort <= 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.fromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// Close closes the connection
func (c *EmailChannel) Close() error {
	return nil
}
