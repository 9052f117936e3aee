package middleware

import (
	"log/slog"
	"strings"

	"smarttrack/internal/delivery/api/response"
	deliverycontext "smarttrack/internal/delivery/context"
	"smarttrack/internal/domain/entity"
	domainerrors "smarttrack/internal/domain/errors"
	"smarttrack/internal/domain/service"
	"smarttrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	contextKeyAccount = "account"

	bearerScheme = "Bearer"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	ProfileUC    usecase.ProfileUsecase
}

// AuthMiddleware authenticates requests carrying a bearer access token.
type AuthMiddleware struct {
	tokenSvc  service.TokenService
	profileUC usecase.ProfileUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc:  params.TokenService,
		profileUC: params.ProfileUC,
	}
}

// Authenticate verifies the access token and loads the active account it belongs to.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return unauthorized(c)
		}

		accountID, err := m.tokenSvc.VerifyAccessToken(tokenString)
		if err != nil {
			return unauthorized(c)
		}

		account, err := m.profileUC.GetCurrentAccount(c.Request().Context(), accountID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrInvalidToken) {
				return unauthorized(c)
			}

			return response.HandleAppError(c, err)
		}

		deliverycontext.SetAccountID(c, account.ID)
		c.Set(contextKeyAccount, account)

		req := c.Request()
		reqLogger := deliverycontext.GetLogger(req.Context())
		if reqLogger != nil {
			ctx := deliverycontext.WithLogger(req.Context(), reqLogger.With(slog.String("account_id", account.ID.String())))
			c.SetRequest(req.WithContext(ctx))
		}

		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, bearerScheme)

	return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), domainerrors.ErrInvalidToken.Message())
}

// GetAccountID returns the id of the authenticated account.
func GetAccountID(c echo.Context) (uuid.UUID, bool) {
	return deliverycontext.GetAccountID(c)
}

// GetAccount returns the authenticated account loaded by Authenticate.
func GetAccount(c echo.Context) (*entity.Account, bool) {
	account, ok := c.Get(contextKeyAccount).(*entity.Account)

	return account, ok
}
