package interceptor

import (
	"crypto/subtle"

	httpx "github.com/go-verdict/verdict/pkg/http"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: shared_secret_interceptor.go
 * @description: shared secret interceptor for scheduler-triggered endpoints
 */

// SecretHeader 外部调度器携带的共享密钥请求头
const SecretHeader = "X-Verdict-Secret"

// SharedSecretInterceptor 共享密钥拦截器
// The reminder trigger is invoked by an external scheduler, not a user
// session, so it authenticates with a constant-time compared shared secret.
func SharedSecretInterceptor(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return httpx.WithRepErrMsg(c, httpx.InvalidReminderSecret.Code, httpx.InvalidReminderSecret.Msg, c.Path())
		}

		given := c.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			return httpx.WithRepErrMsg(c, httpx.InvalidReminderSecret.Code, httpx.InvalidReminderSecret.Msg, c.Path())
		}
		return c.Next()
	}
}
