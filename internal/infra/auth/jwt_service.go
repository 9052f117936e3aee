package auth

import (
	"time"

	"smarttrack/config"
	domainerrors "smarttrack/internal/domain/errors"
	"smarttrack/internal/domain/service"
	"smarttrack/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	accessSecret []byte
	accessTTL    time.Duration
	now          func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	ttl := config.DefaultAccessTTL
	if cfg.Token != nil && cfg.Token.AccessTTL > 0 {
		ttl = cfg.Token.AccessTTL
	}

	return newJWTService(cfg.SecretKey.Access, ttl, time.Now)
}

func newJWTService(secret string, ttl time.Duration, now func() time.Time) (*jwtService, error) {
	if secret == "" {
		return nil, errors.New("jwt access secret must be provided")
	}

	return &jwtService{
		accessSecret: []byte(secret),
		accessTTL:    ttl,
		now:          now,
	}, nil
}

// IssueAccessToken creates a signed access token for the given account.
func (s *jwtService) IssueAccessToken(accountID uuid.UUID) (string, error) {
	issuedAt := s.now()
	claims := service.AccessClaims{
		Type: service.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return signed, nil
}

// VerifyAccessToken validates signature, algorithm, expiry and token type, and returns the subject.
func (s *jwtService) VerifyAccessToken(tokenString string) (uuid.UUID, error) {
	claims := &service.AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.accessSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, domainerrors.ErrInvalidToken.WrapMessage(err.Error())
	}

	if claims.Type != service.TokenTypeAccess {
		return uuid.Nil, domainerrors.ErrInvalidToken.WrapMessage("unexpected token type")
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domainerrors.ErrInvalidToken.WrapMessage("invalid subject")
	}

	return accountID, nil
}

// AccessTTL returns the configured lifetime of access tokens.
func (s *jwtService) AccessTTL() time.Duration {
	return s.accessTTL
}
