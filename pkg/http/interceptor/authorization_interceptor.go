package interceptor

import (
	"errors"
	"strings"

	httpx "github.com/go-verdict/verdict/pkg/http"
	"github.com/go-verdict/verdict/pkg/http/auth/jwt"
	"github.com/go-verdict/verdict/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
)

/**
 * @file: authorization_interceptor.go
 * @description: authorization interceptor
 */

// ClaimsKey 存放解析后的 claims
const ClaimsKey = "claims"

// AuthorizationInterceptor 鉴权拦截器
// Staff identity comes from the Bearer token; the committee module never
// issues or refreshes these tokens itself.
func AuthorizationInterceptor(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get("Authorization")
		if aToken == "" {
			return httpx.WithRepErrMsg(c, httpx.AuthorizationEmpty.Code, httpx.AuthorizationEmpty.Msg, c.Path())
		}

		// 按空格分割
		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return httpx.WithRepErrMsg(c, httpx.TokenFormatIncorrect.Code, httpx.TokenFormatIncorrect.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, "Token is expired", c.Path())
			}
			log.Errorf("parse token failed: %v", err)
			return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// RequireRoles 角色限制拦截器，需在 AuthorizationInterceptor 之后使用
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(ClaimsKey).(*jwt.AuthClaims)
		if !ok || claims == nil {
			return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
		}
		if !allowed[claims.Role] {
			return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
		}
		return c.Next()
	}
}

// Claims 从请求上下文取出已解析的 claims
func Claims(c *fiber.Ctx) *jwt.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*jwt.AuthClaims)
	return claims
}
