package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/goph-vault/internal/errs"
	"github.com/and161185/goph-vault/internal/observability"
)

func chainApp(t *testing.T, h fiber.Handler) *fiber.App {
	t.Helper()
	log := zaptest.NewLogger(t)
	app := fiber.New(fiber.Config{DisableStartupMessage: true, ErrorHandler: ErrorHandler(log)})
	app.Use(RequestID(), Logging(log, observability.NewMetrics()), Recover(log))
	app.Get("/x", h)
	return app
}

func errBody(t *testing.T, body io.Reader) string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.NewDecoder(body).Decode(&m))
	return m["error"]
}

func TestRecover_CatchesPanic(t *testing.T) {
	t.Parallel()
	app := chainApp(t, func(c *fiber.Ctx) error { panic("oh no") })

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "internal server error", errBody(t, resp.Body))
}

func TestRecover_MapsSentinels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{errs.ErrUnauthorized, 401, "unauthorized"},
		{fmt.Errorf("wrapped: %w", errs.ErrUnauthorized), 401, "unauthorized"},
		{fmt.Errorf("%w: title is required", errs.ErrValidation), 400, "validation: title is required"},
		{fmt.Errorf("%w: length must be between 1 and 1024", errs.ErrInvalidPolicy), 400, "invalid password policy: length must be between 1 and 1024"},
		{errs.ErrNotFound, 404, "not found"},
		{fmt.Errorf("record 3: %w", errs.ErrIntegrity), 500, "internal server error"},
		{errors.New("pg: connection refused"), 500, "internal server error"},
		{fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), 413, "too big"},
	}
	for _, tc := range cases {
		err := tc.err
		app := chainApp(t, func(c *fiber.Ctx) error { return err })
		resp, rerr := app.Test(httptest.NewRequest("GET", "/x", nil), -1)
		require.NoError(t, rerr)
		require.Equal(t, tc.code, resp.StatusCode, tc.err.Error())
		require.Equal(t, tc.msg, errBody(t, resp.Body))
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	app := chainApp(t, func(c *fiber.Ctx) error { return c.SendString(requestID(c)) })

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil), -1)
	require.NoError(t, err)
	got := resp.Header.Get(HeaderRequestID)
	_, perr := uuid.FromString(got)
	require.NoError(t, perr)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, got, string(body))

	want := uuid.Must(uuid.NewV4()).String()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(HeaderRequestID, want)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, want, resp.Header.Get(HeaderRequestID))

	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.NotEqual(t, "<script>", resp.Header.Get(HeaderRequestID))
}

func TestTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(Timeout(time.Minute))
	app.Get("/x", func(c *fiber.Ctx) error {
		dl, ok := c.UserContext().Deadline()
		if !ok || time.Until(dl) > time.Minute {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	off := fiber.New(fiber.Config{DisableStartupMessage: true})
	off.Use(Timeout(0))
	off.Get("/x", func(c *fiber.Ctx) error {
		if _, ok := c.UserContext().Deadline(); ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err = off.Test(httptest.NewRequest("GET", "/x", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLogging_RecordsMetrics(t *testing.T) {
	t.Parallel()
	log := zaptest.NewLogger(t)
	m := observability.NewMetrics()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(Logging(log, m), Recover(log))
	app.Get("/x", func(c *fiber.Ctx) error { return errs.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil), -1)
	require.NoError(t, err)
	require.Equal(t, 404, resp.StatusCode)

	mfs, err := m.Registry.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() != "vault_http_requests_total" {
			continue
		}
		for _, mm := range mf.GetMetric() {
			for _, l := range mm.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == "404" {
					found = true
				}
			}
		}
	}
	require.True(t, found)
}
