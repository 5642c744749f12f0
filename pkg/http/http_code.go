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

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	ValidationFailed              = failed(5002, "Validation failed")
	InternalError                 = failed(5000, "Internal error, please contact the administrator")

	// Unauthorized 401
	Unauthorized           = failed(4401, "Unauthorized")
	AuthorizationEmpty     = failed(4404, "Authorization is empty")
	InvalidToken           = failed(4405, "Invalid token")
	TokenFormatIncorrect   = failed(4408, "Token format is incorrect")
	InvalidReminderSecret  = failed(4409, "Invalid reminder trigger secret")
	AuthenticationFailed   = failed(4402, "Authentication failed")
	AuthorizationIncorrect = failed(4403, "The auth format in the request header is incorrect")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")

	// Feedback token gate, 46xx
	FeedbackTokenNotFound    = failed(4601, "This link is invalid")
	FeedbackTokenExpired     = failed(4602, "This link has expired")
	FeedbackTokenAlreadyUsed = failed(4603, "This link was already used")

	// Committee domain, 47xx
	CommitteeNotFound       = failed(4701, "Committee does not exist")
	DuplicateCommittee      = failed(4702, "Application already has an active committee")
	CommitteeNotModifiable  = failed(4703, "Committee can no longer be modified")
	MemberAlreadyExists     = failed(4704, "Reviewer is already a committee member")
	MemberNotFound          = failed(4705, "Committee member does not exist")
	TemplateNotFound        = failed(4706, "Committee template does not exist")
	ApplicationNotFound     = failed(4707, "Application does not exist")
	MissingRequiredNotes    = failed(4708, "Technical notes are required")
	InvalidOverallScore     = failed(4709, "Overall score must be an integer between 1 and 10")
	InvalidRecommendation   = failed(4710, "Invalid recommendation value")
	ResendLimitExceeded     = failed(4711, "Resend limit for this reviewer reached, try again tomorrow")
	NotificationRuleMissing = failed(4712, "Notification rule does not exist")
)

var (
	Success = success(200, "Request Success")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
