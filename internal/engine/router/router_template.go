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

func (rt *Router) templateRouter(r fiber.Router, auth, manage fiber.Handler) {
	tplGroup := r.Group("/template", auth)
	{
		tplGroup.Get("", rt.listTemplates)
		tplGroup.Get("/:templateId", rt.getTemplate)

		tplGroup.Post("", manage, rt.createTemplate)
		tplGroup.Put("/:templateId", manage, rt.updateTemplate)
		tplGroup.Delete("/:templateId", manage, rt.deactivateTemplate)
	}
}

// createTemplate POST /template - create a committee template
func (rt *Router) createTemplate(c *fiber.Ctx) error {
	var tplReq *model.TemplateReq
	if err := c.BodyParser(&tplReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	tpl, err := rt.Services.Template.CreateTemplate(c.UserContext(), actor(c), tplReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, tpl)
	return nil
}

// listTemplates GET /template - list templates, optionally by department
func (rt *Router) listTemplates(c *fiber.Ctx) error {
	department := c.Query("department")
	onlyActive := c.QueryBool("onlyActive", true)

	tpls, err := rt.Services.Template.ListTemplates(c.UserContext(), department, onlyActive)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, tpls)
	return nil
}

// getTemplate GET /template/:templateId - get one template
func (rt *Router) getTemplate(c *fiber.Ctx) error {
	templateId := c.Params("templateId")
	if templateId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "template id is required", c.Path())
	}

	tpl, err := rt.Services.Template.GetTemplate(c.UserContext(), templateId)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, tpl)
	return nil
}

// updateTemplate PUT /template/:templateId - replace a template definition.
// Live committees keep the policy copied at assignment time.
func (rt *Router) updateTemplate(c *fiber.Ctx) error {
	templateId := c.Params("templateId")
	if templateId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "template id is required", c.Path())
	}

	var tplReq *model.TemplateReq
	if err := c.BodyParser(&tplReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	tpl, err := rt.Services.Template.UpdateTemplate(c.UserContext(), templateId, tplReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, tpl)
	return nil
}

// deactivateTemplate DELETE /template/:templateId - retire a template
func (rt *Router) deactivateTemplate(c *fiber.Ctx) error {
	templateId := c.Params("templateId")
	if templateId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "template id is required", c.Path())
	}

	if err := rt.Services.Template.DeactivateTemplate(c.UserContext(), templateId); err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.OPERATION, "deactivate template")
	return nil
}
