package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"

	"smarttrack/config"
	"smarttrack/internal/domain/entity"
	domainerrors "smarttrack/internal/domain/errors"
	"smarttrack/internal/domain/service"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	promptParam       = "prompt"
	promptSelect      = "select_account"
)

var defaultScopes = []string{"openid", "email", "profile"}

// userInfo mirrors the OpenID Connect userinfo response.
type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// OAuthProvider performs the Google authorization-code flow.
type OAuthProvider struct {
	base             oauth2.Config
	userInfoURL      string
	allowedRedirects []string
	httpClient       *http.Client
	validate         *validator.Validate
}

// NewOAuthProvider creates the Google identity provider from configuration.
func NewOAuthProvider(cfg *config.Config) service.FederatedIdentityProvider {
	return newOAuthProvider(cfg.GoogleOAuth, nil)
}

func newOAuthProvider(cfg *config.GoogleOAuthConfig, httpClient *http.Client) *OAuthProvider {
	if cfg == nil {
		cfg = &config.GoogleOAuthConfig{}
	}

	endpoint := googleoauth.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = googleUserInfoURL
	}

	return &OAuthProvider{
		base: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		userInfoURL:      userInfoURL,
		allowedRedirects: cfg.AllowedRedirectURIs,
		httpClient:       httpClient,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
	}
}

// AuthCodeURL builds the consent screen URL for the given redirect URI.
func (p *OAuthProvider) AuthCodeURL(redirectURI, state string) (string, error) {
	if err := p.checkRedirectURI(redirectURI); err != nil {
		return "", err
	}

	conf := p.configFor(redirectURI)

	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam(promptParam, promptSelect)), nil
}

// Exchange trades an authorization code for the user's Google profile.
func (p *OAuthProvider) Exchange(ctx context.Context, code, redirectURI string) (*service.FederatedProfile, error) {
	if err := p.checkRedirectURI(redirectURI); err != nil {
		return nil, err
	}

	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	conf := p.configFor(redirectURI)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange authorization code")
	}

	info, err := p.fetchUserInfo(ctx, conf.Client(ctx, token))
	if err != nil {
		return nil, err
	}

	if info.EmailVerified != nil && !*info.EmailVerified {
		return nil, errors.New("google account email is not verified")
	}

	profile := &service.FederatedProfile{
		Provider:  entity.ProviderTypeGoogle,
		SubjectID: info.Sub,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}
	if err := p.validate.Struct(profile); err != nil {
		return nil, errors.Wrap(err, "invalid google profile")
	}

	return profile, nil
}

func (p *OAuthProvider) fetchUserInfo(ctx context.Context, client *http.Client) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user info request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return nil, errors.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "failed to decode user info response")
	}

	return &info, nil
}

func (p *OAuthProvider) configFor(redirectURI string) *oauth2.Config {
	conf := p.base
	conf.RedirectURL = redirectURI

	return &conf
}

func (p *OAuthProvider) checkRedirectURI(redirectURI string) error {
	if redirectURI == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("redirect_uri is required")
	}
	if len(p.allowedRedirects) > 0 && !slices.Contains(p.allowedRedirects, redirectURI) {
		return domainerrors.ErrValidationFailed.WrapMessage("redirect_uri is not allowed")
	}

	return nil
}
