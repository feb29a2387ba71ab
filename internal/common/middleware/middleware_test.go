package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(Logger(zap.New(core)))
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	entries := logs.FilterLoggerName("access").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "GET /ping")
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"all origins by default", nil, "https://any.example", "*"},
		{"listed origin", []string{"https://a.example"}, "https://a.example", "https://a.example"},
		{"unlisted origin", []string{"https://a.example"}, "https://b.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(CORS(tt.origins))
			app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(200) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}
