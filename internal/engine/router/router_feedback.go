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
 * @file: router_feedback.go
 * @description: public feedback form endpoints. No staff session here; the
 *               token in the path is the only credential.
 */

package router

import (
	"github.com/go-verdict/verdict/internal/engine/consts"
	"github.com/go-verdict/verdict/internal/engine/model"
	httpx "github.com/go-verdict/verdict/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) feedbackRouter(r fiber.Router) {
	feedbackGroup := r.Group("/feedback")
	{
		feedbackGroup.Get("/:token", rt.verifyFeedbackToken)
		feedbackGroup.Post("/:token", rt.submitFeedback)
	}
}

// verifyFeedbackToken GET /feedback/:token - gate the form, return the
// candidate context for rendering. Read-only, the token stays usable.
func (rt *Router) verifyFeedbackToken(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "token is required", c.Path())
	}

	fc, err := rt.Services.Feedback.VerifyToken(c.UserContext(), token)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, fc)
	return nil
}

// submitFeedback POST /feedback/:token - one-shot feedback submission
func (rt *Router) submitFeedback(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "token is required", c.Path())
	}

	var submitReq *model.SubmitFeedbackReq
	if err := c.BodyParser(&submitReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if submitReq == nil {
		submitReq = &model.SubmitFeedbackReq{}
	}
	// the path token is authoritative, a token in the body is ignored
	submitReq.Token = token

	feedback, err := rt.Services.Feedback.SubmitFeedback(c.UserContext(), submitReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, feedback)
	return nil
}
