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

func (rt *Router) applicationRouter(r fiber.Router, auth, manage fiber.Handler) {
	appGroup := r.Group("/application", auth)
	{
		appGroup.Get("", rt.listApplications)
		appGroup.Get("/:appId", rt.getApplication)

		appGroup.Post("", manage, rt.addApplication)
		appGroup.Put("/:appId/status", manage, rt.updateApplicationStatus)
	}
}

// addApplication POST /application - register a candidate application
func (rt *Router) addApplication(c *fiber.Ctx) error {
	var addReq *model.AddApplicationReq
	if err := c.BodyParser(&addReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	app, err := rt.Services.Application.AddApplication(c.UserContext(), addReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, app)
	return nil
}

// listApplications GET /application - list applications
func (rt *Router) listApplications(c *fiber.Ctx) error {
	apps, err := rt.Services.Application.ListApplications(c.UserContext())
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, apps)
	return nil
}

// getApplication GET /application/:appId - get one application
func (rt *Router) getApplication(c *fiber.Ctx) error {
	appId := c.Params("appId")
	if appId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "application id is required", c.Path())
	}

	app, err := rt.Services.Application.GetApplication(c.UserContext(), appId)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, app)
	return nil
}

// updateApplicationStatus PUT /application/:appId/status - move the
// application through the hiring pipeline
func (rt *Router) updateApplicationStatus(c *fiber.Ctx) error {
	appId := c.Params("appId")
	if appId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "application id is required", c.Path())
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := rt.Services.Application.UpdateStatus(c.UserContext(), appId, body.Status); err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.OPERATION, "update application status")
	return nil
}
