package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
env:
  serviceName: smarttrack-test
  log:
    level: info
http:
  port: 8080
secretKey:
  access: yaml-secret
token:
  accessTTL: 5m
googleOAuth:
  clientId: client-from-yaml
  scopes:
    - openid
`

func writeTestConfig(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	t.Chdir(dir)
}

func TestLoadWithEnv_YAMLAndEnvOverride(t *testing.T) {
	writeTestConfig(t, testConfigYAML)
	t.Setenv("SECRETKEY_ACCESS", "env-secret")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "smarttrack-test", cfg.Env.ServiceName)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "env-secret", cfg.SecretKey.Access)
	assert.Equal(t, 5*time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, "client-from-yaml", cfg.GoogleOAuth.ClientID)
	assert.Equal(t, []string{"openid"}, cfg.GoogleOAuth.Scopes)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config")
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SecretKey.Access = "secret"

	require.NoError(t, cfg.applyDefaults())
	assert.Equal(t, 15*time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Token.RefreshTTL)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.NotNil(t, cfg.Auth)
	assert.NotNil(t, cfg.GoogleOAuth)
}

func TestApplyDefaults_RequiresAccessSecret(t *testing.T) {
	cfg := &Config{}

	assert.Error(t, cfg.applyDefaults())
}
