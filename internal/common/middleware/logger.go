package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.uber.org/zap"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger access-лог запросов через zap (logger "access", уровень info)
func Logger(l *zap.Logger) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${status} - ${latency} ${method} ${path} | Content-Type: ${reqHeader:Content-Type} | ${bytesSent}B\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
		Stream:     zap.NewStdLog(l.Named("access")).Writer(),
	})
}
