package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"smarttrack/config"
	"smarttrack/internal/domain/entity"
	domainerrors "smarttrack/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoogle struct {
	server   *httptest.Server
	userInfo map[string]any
	gotCode  string
	gotRedir string
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()

	fg := &fakeGoogle{
		userInfo: map[string]any{
			"sub":            "google-sub-1",
			"email":          "carol@example.com",
			"email_verified": true,
			"name":           "Carol",
			"picture":        "https://example.com/carol.png",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		fg.gotCode = r.PostForm.Get("code")
		fg.gotRedir = r.PostForm.Get("redirect_uri")

		if fg.gotCode != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"google-at","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer google-at" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fg.userInfo)
	})

	fg.server = httptest.NewServer(mux)
	t.Cleanup(fg.server.Close)

	return fg
}

func (fg *fakeGoogle) config() *config.GoogleOAuthConfig {
	return &config.GoogleOAuthConfig{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		AuthURL:      fg.server.URL + "/auth",
		TokenURL:     fg.server.URL + "/token",
		UserInfoURL:  fg.server.URL + "/userinfo",
	}
}

func TestOAuthProvider_AuthCodeURL(t *testing.T) {
	provider := newOAuthProvider(&config.GoogleOAuthConfig{ClientID: "test-client-id"}, nil)

	raw, err := provider.AuthCodeURL("http://localhost:3000/auth/callback", "xyz")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", parsed.Host)

	query := parsed.Query()
	assert.Equal(t, "test-client-id", query.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/auth/callback", query.Get("redirect_uri"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "openid email profile", query.Get("scope"))
	assert.Equal(t, "offline", query.Get("access_type"))
	assert.Equal(t, "select_account", query.Get("prompt"))
	assert.Equal(t, "xyz", query.Get("state"))
}

func TestOAuthProvider_AllowedRedirectURIs(t *testing.T) {
	provider := newOAuthProvider(&config.GoogleOAuthConfig{
		ClientID:            "test-client-id",
		AllowedRedirectURIs: []string{"https://app.example.com/callback"},
	}, nil)

	_, err := provider.AuthCodeURL("https://app.example.com/callback", "")
	require.NoError(t, err)

	_, err = provider.AuthCodeURL("https://evil.example.com/callback", "")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = provider.Exchange(context.Background(), "good-code", "https://evil.example.com/callback")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOAuthProvider_Exchange(t *testing.T) {
	fg := newFakeGoogle(t)
	provider := newOAuthProvider(fg.config(), fg.server.Client())

	profile, err := provider.Exchange(context.Background(), "good-code", "http://localhost:3000/cb")
	require.NoError(t, err)

	assert.Equal(t, "good-code", fg.gotCode)
	assert.Equal(t, "http://localhost:3000/cb", fg.gotRedir)
	assert.Equal(t, entity.ProviderTypeGoogle, profile.Provider)
	assert.Equal(t, "google-sub-1", profile.SubjectID)
	assert.Equal(t, "carol@example.com", profile.Email)
	assert.Equal(t, "Carol", profile.Name)
	assert.Equal(t, "https://example.com/carol.png", profile.AvatarURL)
}

func TestOAuthProvider_ExchangeOptionalFields(t *testing.T) {
	fg := newFakeGoogle(t)
	fg.userInfo = map[string]any{"sub": "google-sub-2", "email": "dave@example.com"}
	provider := newOAuthProvider(fg.config(), fg.server.Client())

	profile, err := provider.Exchange(context.Background(), "good-code", "http://localhost:3000/cb")
	require.NoError(t, err)
	assert.Empty(t, profile.Name)
	assert.Empty(t, profile.AvatarURL)
}

func TestOAuthProvider_ExchangeFailures(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		userInfo map[string]any
	}{
		{name: "rejected code", code: "bad-code"},
		{name: "missing subject", code: "good-code", userInfo: map[string]any{"email": "x@example.com"}},
		{name: "invalid email", code: "good-code", userInfo: map[string]any{"sub": "s", "email": "not-an-email"}},
		{name: "unverified email", code: "good-code", userInfo: map[string]any{"sub": "s", "email": "x@example.com", "email_verified": false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fg := newFakeGoogle(t)
			if tt.userInfo != nil {
				fg.userInfo = tt.userInfo
			}
			provider := newOAuthProvider(fg.config(), fg.server.Client())

			profile, err := provider.Exchange(context.Background(), tt.code, "http://localhost:3000/cb")
			assert.Error(t, err)
			assert.Nil(t, profile)
		})
	}
}
