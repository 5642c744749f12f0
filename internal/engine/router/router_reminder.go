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
	"github.com/go-verdict/verdict/pkg/http/interceptor"
	"github.com/gofiber/fiber/v2"
)

// reminderRouter registers the scheduler-facing sweep trigger. The external
// scheduler authenticates with a shared secret header, not a staff session.
func (rt *Router) reminderRouter(r fiber.Router) {
	secret := interceptor.SharedSecretInterceptor(rt.Reminder.Secret)
	r.Post("/reminders/sweep", secret, rt.sweepReminders)
}

// sweepReminders POST /reminders/sweep - run one reminder sweep. Safe to
// trigger repeatedly, overlapping runs are skipped.
func (rt *Router) sweepReminders(c *fiber.Ctx) error {
	result, err := rt.Services.Reminder.Sweep(c.UserContext())
	if err != nil {
		return repErr(c, err)
	}

	c.Locals(consts.DETAIL, result)
	return nil
}
