package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"smarttrack/internal/delivery/api/response"
	domainerrors "smarttrack/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleError(t *testing.T, err error) (int, response.ErrorInfo) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil), rec)

	NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).HandleHTTPError(err, c)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)

	return rec.Code, *body.Error
}

func TestErrorMiddleware_MapsAppErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{err: errors.Wrap(domainerrors.ErrAccountAlreadyExists, "register"), status: http.StatusConflict, code: "ACCOUNT_ALREADY_EXISTS"},
		{err: errors.Wrap(domainerrors.ErrInvalidCredentials, "login"), status: http.StatusUnauthorized, code: "INVALID_CREDENTIALS"},
		{err: domainerrors.ErrAccountDeactivated, status: http.StatusForbidden, code: "ACCOUNT_DEACTIVATED"},
		{err: domainerrors.ErrFederatedAuthFailed, status: http.StatusBadRequest, code: "FEDERATED_AUTH_FAILED"},
		{err: domainerrors.NewDatabaseExecuteError(errors.New("conn reset"), "insert"), status: http.StatusInternalServerError, code: "DATABASE_EXECUTE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, info := handleError(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, info.Code)
		})
	}
}

func TestErrorMiddleware_DetailsOnlyForClientErrors(t *testing.T) {
	_, info := handleError(t, domainerrors.ErrValidationFailed.WithDetails("email: is required"))
	assert.Equal(t, "email: is required", info.Details)

	_, info = handleError(t, domainerrors.NewDatabaseExecuteError(errors.New("secret dsn"), "insert into accounts"))
	assert.Nil(t, info.Details)
}

func TestErrorMiddleware_EchoAndUnknownErrors(t *testing.T) {
	status, info := handleError(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", info.Message)

	status, info = handleError(t, errors.New("kaboom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", info.Code)
	assert.NotContains(t, info.Message, "kaboom")
}
