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
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(limiter *fakeLimiter) (*TokenService, *fakeTokenRepo) {
	tokens := newFakeTokenRepo()
	return NewTokenService(tokens, limiter, "https://verdict.example.com/"), tokens
}

func TestIssueToken(t *testing.T) {
	svc, _ := newTokenService(&fakeLimiter{allowed: true})
	ctx := context.Background()

	deadline := time.Now().AddDate(0, 0, 3)
	token, err := svc.Issue(ctx, "cmte1", "mem1", deadline)
	require.NoError(t, err)

	assert.NotEmpty(t, token.TokenId)
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "cmte1", token.CommitteeId)
	assert.Equal(t, "mem1", token.MemberId)
	assert.Equal(t, deadline, token.ExpiresAt)
	assert.False(t, token.IsUsed)

	// consecutive tokens never collide
	other, err := svc.Issue(ctx, "cmte1", "mem2", deadline)
	require.NoError(t, err)
	assert.NotEqual(t, token.Token, other.Token)
}

func TestIssueTokenDefaultExpiry(t *testing.T) {
	svc, _ := newTokenService(&fakeLimiter{allowed: true})

	token, err := svc.Issue(context.Background(), "cmte1", "mem1", time.Time{})
	require.NoError(t, err)

	expected := time.Now().AddDate(0, 0, DefaultTokenTTLDays)
	assert.WithinDuration(t, expected, token.ExpiresAt, time.Minute)
}

func TestFeedbackURL(t *testing.T) {
	svc, _ := newTokenService(&fakeLimiter{allowed: true})
	// trailing slash on the base url must not double up
	assert.Equal(t, "https://verdict.example.com/feedback/abc123", svc.FeedbackURL("abc123"))
}

func TestVerifyToken(t *testing.T) {
	svc, tokens := newTokenService(&fakeLimiter{allowed: true})
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "cmte1", "mem1", time.Now().AddDate(0, 0, 3))
	require.NoError(t, err)

	got, err := svc.Verify(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, issued.TokenId, got.TokenId)

	stored, err := tokens.GetByTokenID(ctx, issued.TokenId)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AccessCount)

	_, err = svc.Verify(ctx, issued.Token)
	require.NoError(t, err)
	stored, _ = tokens.GetByTokenID(ctx, issued.TokenId)
	assert.Equal(t, 2, stored.AccessCount)
}

func TestVerifyTokenFailures(t *testing.T) {
	svc, tokens := newTokenService(&fakeLimiter{allowed: true})
	ctx := context.Background()

	_, err := svc.Verify(ctx, "unknown")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	expired, err := svc.Issue(ctx, "cmte1", "mem1", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = svc.Verify(ctx, expired.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	used, err := svc.Issue(ctx, "cmte1", "mem2", time.Now().AddDate(0, 0, 3))
	require.NoError(t, err)
	_, consumeErr := tokens.Consume(ctx, used.TokenId)
	require.NoError(t, consumeErr)
	_, err = svc.Verify(ctx, used.Token)
	assert.ErrorIs(t, err, ErrTokenAlreadyUsed)
}

func TestConsumeSingleWinner(t *testing.T) {
	svc, _ := newTokenService(&fakeLimiter{allowed: true})
	ctx := context.Background()

	token, err := svc.Issue(ctx, "cmte1", "mem1", time.Now().AddDate(0, 0, 3))
	require.NoError(t, err)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Consume(ctx, token.TokenId)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrTokenAlreadyUsed)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestReissueRespectsCap(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	svc, tokens := newTokenService(limiter)
	ctx := context.Background()

	deadline := time.Now().AddDate(0, 0, 3)
	first, err := svc.Issue(ctx, "cmte1", "mem1", deadline)
	require.NoError(t, err)

	second, err := svc.Reissue(ctx, "cmte1", "mem1", deadline, false)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
	assert.Equal(t, 1, limiter.callCount)

	// the old token died with the reissue
	old, err := tokens.GetByTokenID(ctx, first.TokenId)
	require.NoError(t, err)
	assert.True(t, old.IsExpired(time.Now()))

	limiter.allowed = false
	_, err = svc.Reissue(ctx, "cmte1", "mem1", deadline, false)
	assert.ErrorIs(t, err, ErrResendLimitExceeded)

	// force skips the limiter entirely
	calls := limiter.callCount
	_, err = svc.Reissue(ctx, "cmte1", "mem1", deadline, true)
	require.NoError(t, err)
	assert.Equal(t, calls, limiter.callCount)
}
