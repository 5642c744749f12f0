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

package router

import (
	"github.com/go-verdict/verdict/internal/engine/consts"
	"github.com/go-verdict/verdict/internal/engine/model"
	httpx "github.com/go-verdict/verdict/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) notificationRouter(r fiber.Router, auth, manage fiber.Handler) {
	notifyGroup := r.Group("/notification", auth)
	{
		notifyGroup.Get("/rules", rt.listNotificationRules)
		notifyGroup.Get("/logs", rt.listNotificationLogs)

		notifyGroup.Post("/rules", manage, rt.upsertNotificationRule)
		notifyGroup.Delete("/rules/:ruleId", manage, rt.deleteNotificationRule)
	}
}

// upsertNotificationRule POST /notification/rules - create or replace the
// routing rule of an alert type
func (rt *Router) upsertNotificationRule(c *fiber.Ctx) error {
	var ruleReq *model.NotificationRuleReq
	if err := c.BodyParser(&ruleReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	rule, err := rt.Services.Notification.UpsertRule(c.UserContext(), ruleReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, rule)
	return nil
}

// listNotificationRules GET /notification/rules - list routing rules
func (rt *Router) listNotificationRules(c *fiber.Ctx) error {
	rules, err := rt.Services.Notification.ListRules(c.UserContext())
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, rules)
	return nil
}

// deleteNotificationRule DELETE /notification/rules/:ruleId - remove a rule
func (rt *Router) deleteNotificationRule(c *fiber.Ctx) error {
	ruleId := c.Params("ruleId")
	if ruleId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "rule id is required", c.Path())
	}

	if err := rt.Services.Notification.DeleteRule(c.UserContext(), ruleId); err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.OPERATION, "delete notification rule")
	return nil
}

// listNotificationLogs GET /notification/logs - recent delivery records
func (rt *Router) listNotificationLogs(c *fiber.Ctx) error {
	alertType := c.Query("alertType")
	limit := c.QueryInt("limit", 0)

	logs, err := rt.Services.Notification.ListLogs(c.UserContext(), alertType, limit)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, logs)
	return nil
}
