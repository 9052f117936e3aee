package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"smarttrack/config"
	deliverycontext "smarttrack/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware_Process(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when missing", incoming: "", keep: false},
		{name: "client id kept", incoming: "req-42.a_b:c", keep: true},
		{name: "header injection rejected", incoming: "abc\r\nSet-Cookie: x", keep: false},
		{name: "oversized rejected", incoming: strings.Repeat("a", maxRequestIDLength+1), keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewRequestIDMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)))

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header[deliverycontext.HeaderXRequestID] = []string{tt.incoming}
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var ctxID string
			err := m.Process(func(c echo.Context) error {
				ctxID = deliverycontext.GetRequestIDFromContext(c.Request().Context())
				deliverycontext.GetLoggerOrDefault(c.Request().Context(), nil).Info("inside")

				return nil
			})(c)
			require.NoError(t, err)

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			assert.Equal(t, got, ctxID)
			assert.Equal(t, got, deliverycontext.GetRequestID(c))
			assert.Contains(t, buf.String(), `"request_id":"`+got+`"`)
			if tt.keep {
				assert.Equal(t, tt.incoming, got)
			} else {
				_, parseErr := uuid.Parse(got)
				assert.NoError(t, parseErr)
			}
		})
	}
}

func TestLoggerMiddleware_RedactsSecretsAndTagsAccount(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Env.Debug = true
	m := NewLoggerMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)), cfg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/url?redirect_uri=https%3A%2F%2Fapp.example&state=s3cr3t&code=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	accountID := uuid.New()

	err := m.Handle(func(c echo.Context) error {
		deliverycontext.SetAccountID(c, accountID)

		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, `"status":204`)
	assert.Contains(t, logged, accountID.String())
	assert.NotContains(t, logged, "s3cr3t")
	assert.NotContains(t, logged, "code=abc")
	assert.Contains(t, logged, "redirect_uri="+url.QueryEscape("https://app.example"))
}

func TestLoggerMiddleware_SilentWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggerMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)), &config.Config{})

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())

	require.NoError(t, m.Handle(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c))
	assert.Empty(t, buf.String())
}
