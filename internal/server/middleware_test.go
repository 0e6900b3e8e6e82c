package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mealplan-backend/internal/logger"
	"mealplan-backend/internal/tenant"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggerLinePerRequest(t *testing.T) {
	prev := logger.L
	var buf bytes.Buffer
	logger.Setup("production", &buf)
	t.Cleanup(func() {
		logger.L = prev
		slog.SetDefault(prev)
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(requestid.New())
	app.Use(RequestLogger())
	app.Post("/api/orders", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	app.Get("/api/orders/mine", func(c *fiber.Ctx) error { return tenant.ErrUnauthenticated })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"orderDate":"2026-03-02"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	type line struct {
		Msg       string `json:"msg"`
		Method    string `json:"method"`
		Path      string `json:"path"`
		Status    int    `json:"status"`
		RequestID string `json:"request_id"`
	}
	var lines []line
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		if l.Msg == "request" {
			lines = append(lines, l)
		}
	}
	require.Len(t, lines, 6)
	for i, l := range lines {
		assert.NotEmpty(t, l.RequestID)
		if i%2 == 0 {
			assert.Equal(t, line{Msg: "request", Method: "POST", Path: "/api/orders", Status: 201, RequestID: l.RequestID}, l)
		} else {
			assert.Equal(t, line{Msg: "request", Method: "GET", Path: "/api/orders/mine", Status: 401, RequestID: l.RequestID}, l)
		}
	}
}
