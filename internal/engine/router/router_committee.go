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
 * @file: router_committee.go
 * @description: committee lifecycle endpoints. Assignment and roster changes
 *               go through the feedback orchestrator so tokens and
 *               notifications stay in step with the roster.
 */

package router

import (
	"github.com/go-verdict/verdict/internal/engine/consts"
	"github.com/go-verdict/verdict/internal/engine/model"
	httpx "github.com/go-verdict/verdict/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) committeeRouter(r fiber.Router, auth, manage, cancel fiber.Handler) {
	committeeGroup := r.Group("/committee", auth)
	{
		// static segments before the :committeeId wildcard
		committeeGroup.Post("/assign/template", manage, rt.assignFromTemplate)
		committeeGroup.Post("/assign/custom", manage, rt.assignCustom)
		committeeGroup.Get("/application/:appId", rt.getCommitteeByApplication)
		committeeGroup.Get("/application/:appId/history", rt.listCommitteesByApplication)

		committeeGroup.Get("/:committeeId", rt.getCommittee)
		committeeGroup.Get("/:committeeId/audit", rt.listCommitteeAudit)

		committeeGroup.Post("/:committeeId/members", manage, rt.addCommitteeMember)
		committeeGroup.Delete("/:committeeId/members/:memberId", manage, rt.removeCommitteeMember)
		committeeGroup.Post("/:committeeId/members/:memberId/resend", manage, rt.resendFeedbackLink)
		committeeGroup.Post("/:committeeId/reminders", manage, rt.sendCommitteeReminders)

		committeeGroup.Post("/:committeeId/cancel", cancel, rt.cancelCommittee)
	}
}

// assignFromTemplate POST /committee/assign/template - instantiate a committee
// from a template and start feedback collection
func (rt *Router) assignFromTemplate(c *fiber.Ctx) error {
	var assignReq *model.AssignFromTemplateReq
	if err := c.BodyParser(&assignReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	instance, err := rt.Services.Feedback.AssignFromTemplate(c.UserContext(), actor(c), assignReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, instance)
	return nil
}

// assignCustom POST /committee/assign/custom - instantiate an ad hoc committee
func (rt *Router) assignCustom(c *fiber.Ctx) error {
	var assignReq *model.AssignCustomReq
	if err := c.BodyParser(&assignReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	instance, err := rt.Services.Feedback.AssignCustom(c.UserContext(), actor(c), assignReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, instance)
	return nil
}

// getCommittee GET /committee/:committeeId - committee with roster and aggregate
func (rt *Router) getCommittee(c *fiber.Ctx) error {
	committeeId := c.Params("committeeId")
	if committeeId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "committee id is required", c.Path())
	}

	instance, err := rt.Services.Committee.Get(c.UserContext(), committeeId)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, instance)
	return nil
}

// getCommitteeByApplication GET /committee/application/:appId - the latest
// committee of an application
func (rt *Router) getCommitteeByApplication(c *fiber.Ctx) error {
	appId := c.Params("appId")
	if appId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "application id is required", c.Path())
	}

	instance, err := rt.Services.Committee.GetByApplication(c.UserContext(), appId)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, instance)
	return nil
}

// listCommitteesByApplication GET /committee/application/:appId/history - all
// committees ever assigned for an application
func (rt *Router) listCommitteesByApplication(c *fiber.Ctx) error {
	appId := c.Params("appId")
	if appId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "application id is required", c.Path())
	}

	instances, err := rt.Services.Committee.ListByApplication(c.UserContext(), appId)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, instances)
	return nil
}

// listCommitteeAudit GET /committee/:committeeId/audit - audit trail
func (rt *Router) listCommitteeAudit(c *fiber.Ctx) error {
	committeeId := c.Params("committeeId")
	if committeeId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "committee id is required", c.Path())
	}

	notes, err := rt.Services.Committee.ListAuditNotes(c.UserContext(), committeeId)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, notes)
	return nil
}

// addCommitteeMember POST /committee/:committeeId/members - add a reviewer and
// send their feedback link
func (rt *Router) addCommitteeMember(c *fiber.Ctx) error {
	committeeId := c.Params("committeeId")
	if committeeId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "committee id is required", c.Path())
	}

	var memberReq *model.MemberReq
	if err := c.BodyParser(&memberReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	member, err := rt.Services.Feedback.AddMember(c.UserContext(), actor(c), committeeId, memberReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, member)
	return nil
}

// removeCommitteeMember DELETE /committee/:committeeId/members/:memberId -
// drop a reviewer and kill their outstanding token
func (rt *Router) removeCommitteeMember(c *fiber.Ctx) error {
	committeeId := c.Params("committeeId")
	memberId := c.Params("memberId")
	if committeeId == "" || memberId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "committee id and member id are required", c.Path())
	}

	if err := rt.Services.Feedback.RemoveMember(c.UserContext(), actor(c), committeeId, memberId); err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.OPERATION, "remove committee member")
	return nil
}

// resendFeedbackLink POST /committee/:committeeId/members/:memberId/resend -
// reissue a reviewer's feedback link. ?force=true bypasses the daily cap.
func (rt *Router) resendFeedbackLink(c *fiber.Ctx) error {
	committeeId := c.Params("committeeId")
	memberId := c.Params("memberId")
	if committeeId == "" || memberId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "committee id and member id are required", c.Path())
	}

	force := c.QueryBool("force", false)
	if err := rt.Services.Feedback.ResendToken(c.UserContext(), actor(c), committeeId, memberId, force); err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.OPERATION, "resend feedback link")
	return nil
}

// sendCommitteeReminders POST /committee/:committeeId/reminders - manually
// nudge every pending reviewer of one committee
func (rt *Router) sendCommitteeReminders(c *fiber.Ctx) error {
	committeeId := c.Params("committeeId")
	if committeeId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "committee id is required", c.Path())
	}

	sent, err := rt.Services.Feedback.SendReminders(c.UserContext(), committeeId)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, fiber.Map{"sent": sent})
	return nil
}

// cancelCommittee POST /committee/:committeeId/cancel - terminate a committee
func (rt *Router) cancelCommittee(c *fiber.Ctx) error {
	committeeId := c.Params("committeeId")
	if committeeId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "committee id is required", c.Path())
	}

	var cancelReq model.CancelCommitteeReq
	if err := c.BodyParser(&cancelReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	instance, err := rt.Services.Feedback.CancelCommittee(c.UserContext(), actor(c), committeeId, cancelReq.Reason)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, instance)
	return nil
}
