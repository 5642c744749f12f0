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

func (rt *Router) userRouter(r fiber.Router, auth, manage fiber.Handler) {
	userGroup := r.Group("/user", auth)
	{
		userGroup.Get("", rt.listUsers)
		userGroup.Get("/:userId", rt.getUser)

		userGroup.Post("", manage, rt.addUser)
		userGroup.Put("/:userId", manage, rt.updateUser)
		userGroup.Delete("/:userId", manage, rt.deactivateUser)
	}
}

// addUser POST /user - register a staff user
func (rt *Router) addUser(c *fiber.Ctx) error {
	var addUserReq *model.AddUserReq
	if err := c.BodyParser(&addUserReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	user, err := rt.Services.User.AddUser(c.UserContext(), addUserReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, user)
	return nil
}

// listUsers GET /user - list staff users
func (rt *Router) listUsers(c *fiber.Ctx) error {
	users, err := rt.Services.User.ListUsers(c.UserContext())
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, users)
	return nil
}

// getUser GET /user/:userId - get one staff user
func (rt *Router) getUser(c *fiber.Ctx) error {
	userId := c.Params("userId")
	if userId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "user id is required", c.Path())
	}

	user, err := rt.Services.User.GetUser(c.UserContext(), userId)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, user)
	return nil
}

// updateUser PUT /user/:userId - partial staff user update
func (rt *Router) updateUser(c *fiber.Ctx) error {
	userId := c.Params("userId")
	if userId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "user id is required", c.Path())
	}

	var updateReq *model.UpdateUserReq
	if err := c.BodyParser(&updateReq); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	user, err := rt.Services.User.UpdateUser(c.UserContext(), userId, updateReq)
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, user)
	return nil
}

// deactivateUser DELETE /user/:userId - deactivate a staff user
func (rt *Router) deactivateUser(c *fiber.Ctx) error {
	userId := c.Params("userId")
	if userId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "user id is required", c.Path())
	}

	if err := rt.Services.User.DeactivateUser(c.UserContext(), userId); err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.OPERATION, "deactivate user")
	return nil
}
