package interceptor

import (
	"runtime/debug"

	httpx "github.com/go-verdict/verdict/pkg/http"
	"github.com/go-verdict/verdict/pkg/log"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: exception_interceptor.go
 * @description: panic recover interceptor
 */

// ExceptionInterceptor 异常拦截器
func ExceptionInterceptor() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("panic: %v\n%s", r, debug.Stack())
				err = httpx.WithRepErr(c, httpx.InternalError.Code, errorToString(r), c.Path())
			}
		}()
		return c.Next()
	}
}

func errorToString(err interface{}) string {
	switch v := err.(type) {
	case httpx.ResponseErr:
		// 符合预期的错误，可以直接返回给客户端
		if errMsg, ok := v.ErrMsg.(string); ok {
			return errMsg
		}
		return httpx.InternalError.Msg
	case error:
		// 一律返回服务器错误，避免返回堆栈错误给客户端
		return httpx.InternalError.Msg
	default:
		if errMsg, ok := v.(string); ok {
			return errMsg
		}
		return httpx.InternalError.Msg
	}
}
