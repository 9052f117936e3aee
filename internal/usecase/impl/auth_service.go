// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "smarttrack/internal/delivery/context"
	"smarttrack/internal/domain/constants"
	"smarttrack/internal/domain/entity"
	domainerrors "smarttrack/internal/domain/errors"
	"smarttrack/internal/domain/repository"
	"smarttrack/internal/domain/service"
	"smarttrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager       repository.TransactionManager
	hasher          service.PasswordHasher
	tokenService    service.TokenService
	store           *RefreshTokenStore
	resolver        *IdentityResolver
	oauthProvider   service.FederatedIdentityProvider
	idTokenVerifier service.IDTokenVerifier
	publisher       service.AccountEventPublisher
	logger          *slog.Logger
	now             func() time.Time
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	Hasher          service.PasswordHasher
	TokenService    service.TokenService
	Store           *RefreshTokenStore
	Resolver        *IdentityResolver
	OAuthProvider   service.FederatedIdentityProvider
	IDTokenVerifier service.IDTokenVerifier
	Publisher       service.AccountEventPublisher
	Logger          *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:       params.TxManager,
		hasher:          params.Hasher,
		tokenService:    params.TokenService,
		store:           params.Store,
		resolver:        params.Resolver,
		oauthProvider:   params.OAuthProvider,
		idTokenVerifier: params.IDTokenVerifier,
		publisher:       params.Publisher,
		logger:          params.Logger,
		now:             time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a password account and opens its first session in one transaction.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	// Hash outside the transaction (bcrypt is CPU-bound).
	passwordHash, err := srv.hasher.Hash(input.Password)
	if errors.Is(err, domainerrors.ErrValidationFailed) {
		return nil, errors.WithStack(err)
	}
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	var registered *entity.Account
	var pair *usecase.TokenPairOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		_, findErr := accountRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrAccountAlreadyExists
		}
		if !errors.Is(findErr, repository.ErrAccountNotFound) {
			return errors.Wrap(findErr, "failed to find account by email")
		}

		now := srv.now()
		account := &entity.Account{
			Email:        input.Email,
			FullName:     input.FullName,
			PasswordHash: passwordHash,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := accountRepo.Create(ctx, account); err != nil {
			return errors.Wrap(err, "failed to create account during registration")
		}

		var issueErr error
		pair, issueErr = srv.issueTokenPair(ctx, repoFactory.RefreshTokenRepo(), account.ID)
		if issueErr != nil {
			return issueErr
		}
		registered = account

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", registered.ID))
	srv.publish(ctx, service.AccountEventRegistered, registered, entity.ProviderTypeEmail)

	return pair, nil
}

// Login authenticates with email and password.
// Unknown email, federation-only account and wrong password fail identically.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	account, err := srv.loadAccountByEmail(ctx, input.Email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "login failed")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !account.HasPassword() || !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	// Activity state is only revealed to callers that proved the password.
	if !account.Active {
		srv.log(ctx).Warn("Login rejected for deactivated account", slog.Any("accountID", account.ID))

		return nil, errors.Wrap(domainerrors.ErrAccountDeactivated, "login failed")
	}

	var pair *usecase.TokenPairOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		now := srv.now()
		account.MarkLoggedIn(now)
		account.UpdatedAt = now
		if err := repoFactory.AccountRepo().Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update last login")
		}

		var issueErr error
		pair, issueErr = srv.issueTokenPair(ctx, repoFactory.RefreshTokenRepo(), account.ID)

		return issueErr
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute login transaction", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute login transaction")
	}

	srv.log(ctx).Debug("Account logged in successfully", slog.Any("accountID", account.ID))
	srv.publish(ctx, service.AccountEventLoggedIn, account, entity.ProviderTypeEmail)

	return pair, nil
}

func (srv *authService) loadAccountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var account *entity.Account

	// Read from primary in a short transaction to avoid stale reads on replicas.
	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findErr error
		account, findErr = repoFactory.AccountRepo().FindByEmail(ctx, email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrAccountNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(findErr, "failed to find account by email")
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return account, nil
}

// Refresh issues a new access token for the owner of a valid refresh token.
// The refresh token itself stays unchanged.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.AccessTokenOutput, error) {
	srv.log(ctx).Debug("Attempting to refresh access token")

	var accountID uuid.UUID

	// Read from primary in a short transaction so a just-revoked token is never
	// accepted from a lagging replica.
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		token, err := srv.store.Validate(ctx, repoFactory.RefreshTokenRepo(), input.RefreshToken)
		if err != nil {
			return err
		}
		accountID = token.AccountID

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Refresh failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh token transaction")
	}

	accessToken, err := srv.tokenService.IssueAccessToken(accountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	return &usecase.AccessTokenOutput{
		AccessToken: accessToken,
		TokenType:   constants.TokenTypeBearer,
		ExpiresIn:   int64(srv.tokenService.AccessTTL().Seconds()),
	}, nil
}

// Logout revokes the session behind the refresh token. Unknown tokens succeed silently.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return srv.store.Revoke(ctx, repoFactory.RefreshTokenRepo(), input.RefreshToken)
	}); err != nil {
		srv.log(ctx).Error("Failed to revoke refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to execute logout transaction")
	}

	return nil
}

// LogoutAll revokes every session of the account.
func (srv *authService) LogoutAll(ctx context.Context, accountID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to log out from all devices", slog.Any("accountID", accountID))

	var revoked int64
	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		revoked, err = srv.store.RevokeAll(ctx, repoFactory.RefreshTokenRepo(), accountID)

		return err
	}); err != nil {
		srv.log(ctx).Error("Failed to revoke all refresh tokens", slog.Any("accountID", accountID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute logout all transaction")
	}

	srv.log(ctx).Info("Successfully logged out from all devices", slog.Any("accountID", accountID), slog.Int64("revoked", revoked))
	srv.publish(ctx, service.AccountEventSessionsRevoked, &entity.Account{ID: accountID}, "")

	return nil
}

// GoogleAuthURL builds the Google consent screen URL for the given redirect URI.
func (srv *authService) GoogleAuthURL(_ context.Context, input *usecase.GoogleAuthURLInput) (*usecase.GoogleAuthURLOutput, error) {
	url, err := srv.oauthProvider.AuthCodeURL(input.RedirectURI, input.State)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build google auth url")
	}

	return &usecase.GoogleAuthURLOutput{URL: url}, nil
}

// GoogleCallback exchanges an authorization code and signs the resolved account in.
func (srv *authService) GoogleCallback(ctx context.Context, input *usecase.GoogleCallbackInput) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Info("Handling Google callback")

	profile, err := srv.oauthProvider.Exchange(ctx, input.Code, input.RedirectURI)
	if err != nil {
		srv.log(ctx).Warn("Google code exchange failed", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrFederatedAuthFailed, "google code exchange failed")
	}

	return srv.completeFederatedLogin(ctx, profile)
}

// GoogleIDTokenLogin verifies a Google Sign-In ID token and signs the resolved account in.
func (srv *authService) GoogleIDTokenLogin(ctx context.Context, input *usecase.GoogleIDTokenInput) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Info("Handling Google ID token login")

	profile, err := srv.idTokenVerifier.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		srv.log(ctx).Warn("Google ID token verification failed", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrFederatedAuthFailed, "google id token verification failed")
	}

	return srv.completeFederatedLogin(ctx, profile)
}

func (srv *authService) completeFederatedLogin(ctx context.Context, profile *service.FederatedProfile) (*usecase.TokenPairOutput, error) {
	var account *entity.Account
	var outcome ResolveOutcome
	var pair *usecase.TokenPairOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		account, outcome, err = srv.resolver.Resolve(ctx, repoFactory.AccountRepo(), profile)
		if err != nil {
			return err
		}

		if !account.Active {
			return domainerrors.ErrAccountDeactivated
		}

		pair, err = srv.issueTokenPair(ctx, repoFactory.RefreshTokenRepo(), account.ID)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Federated login failed", slog.String("provider", string(profile.Provider)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute federated login transaction")
	}

	srv.log(ctx).Debug("Federated login completed", slog.Any("accountID", account.ID), slog.String("outcome", string(outcome)))

	switch outcome {
	case ResolveOutcomeCreated:
		srv.publish(ctx, service.AccountEventFederatedCreated, account, profile.Provider)
	case ResolveOutcomeMerged:
		srv.publish(ctx, service.AccountEventFederatedLinked, account, profile.Provider)
	default:
		srv.publish(ctx, service.AccountEventLoggedIn, account, profile.Provider)
	}

	return pair, nil
}

// issueTokenPair stores a new refresh token through the transaction-bound repository and signs an access token.
func (srv *authService) issueTokenPair(
	ctx context.Context,
	refreshRepo repository.RefreshTokenRepository,
	accountID uuid.UUID,
) (*usecase.TokenPairOutput, error) {
	refreshToken, err := srv.store.Issue(ctx, refreshRepo, accountID)
	if err != nil {
		return nil, err
	}

	accessToken, err := srv.tokenService.IssueAccessToken(accountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    int64(srv.tokenService.AccessTTL().Seconds()),
	}, nil
}
