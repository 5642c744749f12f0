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
	"github.com/pkg/errors"
)

// Service-level sentinels. Routers translate these into response codes;
// notification delivery failures are deliberately absent, they never fail the
// triggering operation.
var (
	ErrTokenNotFound       = errors.New("feedback token not found")
	ErrTokenExpired        = errors.New("feedback token expired")
	ErrTokenAlreadyUsed    = errors.New("feedback token already used")
	ErrTemplateNotFound    = errors.New("committee template not found")
	ErrCommitteeNotFound   = errors.New("committee not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrMemberNotFound      = errors.New("committee member not found")
	ErrMemberExists        = errors.New("reviewer already on the committee")
	ErrDuplicateCommittee  = errors.New("application already has a live committee")
	ErrCommitteeNotLive    = errors.New("committee is not modifiable")
	ErrResendLimitExceeded = errors.New("resend limit exceeded")
	ErrValidation          = errors.New("validation failed")
)

// validationErr wraps ErrValidation with a human readable reason
func validationErr(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
