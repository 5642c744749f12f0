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
 * @file: router.go
 * @description: setup router
 *               internal api router used by staff tooling, external router
 *               holds the public token-gated feedback form endpoints
 */

package router

import (
	"github.com/go-verdict/verdict/internal/engine/config"
	"github.com/go-verdict/verdict/internal/engine/consts"
	"github.com/go-verdict/verdict/internal/engine/service"
	httpx "github.com/go-verdict/verdict/pkg/http"
	"github.com/go-verdict/verdict/pkg/http/interceptor"
	"github.com/go-verdict/verdict/pkg/log"
	"github.com/go-verdict/verdict/pkg/version"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Http     *httpx.Http
	Reminder *config.ReminderConfig
	Services *service.Services
}

func NewRouter(httpConf *httpx.Http, reminderConf *config.ReminderConfig, services *service.Services) *Router {
	return &Router{
		Http:     httpConf,
		Reminder: reminderConf,
		Services: services,
	}
}

func (rt *Router) Router() *fiber.App {

	app := fiber.New(rt.Http.FiberConfig())

	// cors interceptor
	app.Use(interceptor.CorsInterceptor())

	// panic recover
	app.Use(interceptor.ExceptionInterceptor())

	if rt.Http.AccessLog {
		app.Use(httpx.AccessLogFormat(log.GetLogger().Desugar()))
	}

	// unified response interceptor
	app.Use(interceptor.UnifiedResponseInterceptor())

	if rt.Http.PProf {
		rt.debugRouter(app.Group("/debug/pprof"))
	}

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	// engine router, internal api router
	engine := app.Group(rt.Http.InternalContextPath)
	{
		rt.routerGroup(engine)
	}

	// external router, reviewer-facing and scheduler-facing endpoints
	external := app.Group(rt.Http.ExternalContextPath)
	{
		rt.feedbackRouter(external)
		rt.reminderRouter(external)
	}

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {

	auth := interceptor.AuthorizationInterceptor(rt.Http.Auth.SecretKey)
	manage := interceptor.RequireRoles(consts.CommitteeManageRoles...)
	cancel := interceptor.RequireRoles(consts.CommitteeCancelRoles...)

	rt.userRouter(r, auth, manage)
	rt.applicationRouter(r, auth, manage)
	rt.templateRouter(r, auth, manage)
	rt.committeeRouter(r, auth, manage, cancel)
	rt.notificationRouter(r, auth, manage)
}

// actor returns the staff user id behind the request
func actor(c *fiber.Ctx) string {
	if claims := interceptor.Claims(c); claims != nil {
		return claims.UserId
	}
	return ""
}

// repErr maps service sentinel errors onto the response codes of the domain
func repErr(c *fiber.Ctx, err error) error {
	var resp *httpx.Response
	switch {
	case errors.Is(err, service.ErrTokenNotFound):
		resp = httpx.FeedbackTokenNotFound
	case errors.Is(err, service.ErrTokenExpired):
		resp = httpx.FeedbackTokenExpired
	case errors.Is(err, service.ErrTokenAlreadyUsed):
		resp = httpx.FeedbackTokenAlreadyUsed
	case errors.Is(err, service.ErrCommitteeNotFound):
		resp = httpx.CommitteeNotFound
	case errors.Is(err, service.ErrDuplicateCommittee):
		resp = httpx.DuplicateCommittee
	case errors.Is(err, service.ErrCommitteeNotLive):
		resp = httpx.CommitteeNotModifiable
	case errors.Is(err, service.ErrMemberExists):
		resp = httpx.MemberAlreadyExists
	case errors.Is(err, service.ErrMemberNotFound):
		resp = httpx.MemberNotFound
	case errors.Is(err, service.ErrTemplateNotFound):
		resp = httpx.TemplateNotFound
	case errors.Is(err, service.ErrApplicationNotFound):
		resp = httpx.ApplicationNotFound
	case errors.Is(err, service.ErrResendLimitExceeded):
		resp = httpx.ResendLimitExceeded
	case errors.Is(err, service.ErrValidation):
		// validation errors carry a caller-actionable message
		return httpx.WithRepErrMsg(c, httpx.ValidationFailed.Code, err.Error(), c.Path())
	default:
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, httpx.Failed.Msg, c.Path())
	}
	return httpx.WithRepErrMsg(c, resp.Code, resp.Msg, c.Path())
}
