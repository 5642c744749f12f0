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
 * @file: service_token.go
 * @description: feedback token lifecycle: issue, verify, consume, reissue.
 *               The raw token value is the only credential a reviewer holds.
 */

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/pkg/cache"
	"github.com/go-verdict/verdict/pkg/id"
	"github.com/go-verdict/verdict/pkg/log"
)

// DefaultTokenTTLDays applies when a committee has no deadline set
const DefaultTokenTTLDays = 7

// ResendLimiter bounds token reissues per reviewer per day
type ResendLimiter interface {
	// Allow reports whether one more resend is permitted for the member
	Allow(ctx context.Context, memberID string) (bool, error)
}

// RedisResendLimiter counts reissues in redis with a daily window
type RedisResendLimiter struct {
	cache  cache.ICache
	maxPer int
}

// NewRedisResendLimiter creates the default resend limiter
func NewRedisResendLimiter(c cache.ICache, maxPerDay int) *RedisResendLimiter {
	if maxPerDay <= 0 {
		maxPerDay = 3
	}
	return &RedisResendLimiter{cache: c, maxPer: maxPerDay}
}

// Allow increments the member's daily counter and checks the cap
func (l *RedisResendLimiter) Allow(ctx context.Context, memberID string) (bool, error) {
	key := "verdict:resend:" + memberID
	n, err := l.cache.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// first resend today starts the window
		if err := l.cache.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
			log.Errorw("failed to set resend window ttl", "key", key, "error", err)
		}
	}
	return n <= int64(l.maxPer), nil
}

// TokenService issues and validates feedback tokens.
type TokenService struct {
	tokens  repo.IFeedbackTokenRepository
	limiter ResendLimiter
	baseURL string
}

// NewTokenService creates the token service
func NewTokenService(tokens repo.IFeedbackTokenRepository, limiter ResendLimiter, baseURL string) *TokenService {
	return &TokenService{
		tokens:  tokens,
		limiter: limiter,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Issue creates a fresh single-use token for a roster entry. The expiry
// matches the committee deadline, or the default window when none is set.
func (ts *TokenService) Issue(ctx context.Context, committeeID, memberID string, deadline time.Time) (*model.FeedbackToken, error) {
	raw, err := id.SecureToken()
	if err != nil {
		return nil, err
	}
	if deadline.IsZero() {
		deadline = time.Now().AddDate(0, 0, DefaultTokenTTLDays)
	}

	token := &model.FeedbackToken{
		TokenId:     id.GetUUIDWithoutDashes(),
		Token:       raw,
		CommitteeId: committeeID,
		MemberId:    memberID,
		ExpiresAt:   deadline,
	}
	if err := ts.tokens.CreateToken(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// FeedbackURL builds the reviewer-facing link for a raw token value
func (ts *TokenService) FeedbackURL(raw string) string {
	return fmt.Sprintf("%s/feedback/%s", ts.baseURL, raw)
}

// Verify gates read access to the feedback form. Every successful
// verification bumps the access counter; the token stays unused.
func (ts *TokenService) Verify(ctx context.Context, raw string) (*model.FeedbackToken, error) {
	token, err := ts.tokens.GetByToken(ctx, raw)
	if err != nil {
		if repo.IsNotFound(err) {
			tokenVerifications.WithLabelValues("not_found").Inc()
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	if token.IsUsed {
		tokenVerifications.WithLabelValues("used").Inc()
		return nil, ErrTokenAlreadyUsed
	}
	if token.IsExpired(time.Now()) {
		tokenVerifications.WithLabelValues("expired").Inc()
		return nil, ErrTokenExpired
	}

	if err := ts.tokens.IncrementAccess(ctx, token.TokenId); err != nil {
		log.Errorw("failed to bump token access count", "tokenId", token.TokenId, "error", err)
	}
	tokenVerifications.WithLabelValues("ok").Inc()
	return token, nil
}

// Consume marks the token used. Exactly one concurrent caller wins; the
// losers get ErrTokenAlreadyUsed.
func (ts *TokenService) Consume(ctx context.Context, tokenID string) error {
	won, err := ts.tokens.Consume(ctx, tokenID)
	if err != nil {
		return err
	}
	if !won {
		return ErrTokenAlreadyUsed
	}
	return nil
}

// Reissue force-expires the member's outstanding token and issues a new one.
// force bypasses the daily resend cap, not the single-use guarantees.
func (ts *TokenService) Reissue(ctx context.Context, committeeID, memberID string, deadline time.Time, force bool) (*model.FeedbackToken, error) {
	if !force {
		allowed, err := ts.limiter.Allow(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrResendLimitExceeded
		}
	}

	if err := ts.tokens.ExpireForMember(ctx, memberID); err != nil {
		return nil, err
	}
	return ts.Issue(ctx, committeeID, memberID, deadline)
}
