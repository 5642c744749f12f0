package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

/**
 * @file: http.go
 * @description: http server config and lifecycle
 */

type Http struct {
	Host                string
	Port                int
	InternalContextPath string
	ExternalContextPath string
	PProf               bool
	ExposeMetrics       bool
	AccessLog           bool
	ReadTimeout         int
	WriteTimeout        int
	IdleTimeout         int
	ShutdownTimeout     int
	TLS                 TLS
	Auth                Auth
}

type TLS struct {
	CertFile string
	KeyFile  string
}

type Auth struct {
	SecretKey      string
	AccessExpire   time.Duration
	RefreshExpire  time.Duration
	RedisKeyPrefix string
}

// Addr returns the listen address.
func (h Http) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// FiberConfig builds the fiber server config from Http settings.
func (h Http) FiberConfig() fiber.Config {
	return fiber.Config{
		ReadTimeout:           time.Duration(h.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(h.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(h.IdleTimeout) * time.Second,
		DisableStartupMessage: true,
	}
}
