package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jakechorley/gradingcommander/internal/config"
)

func withTokenInfo(t *testing.T, scope string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"scope": "` + scope + `"}`))
	}))
	t.Cleanup(server.Close)

	original := tokenInfoURL
	tokenInfoURL = server.URL
	t.Cleanup(func() { tokenInfoURL = original })
}

func TestTokenStore_SaveLoadDelete(t *testing.T) {
	store := TokenStore{Dir: filepath.Join(t.TempDir(), "tokens")}
	token := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", TokenType: "Bearer"}

	require.NoError(t, store.Save("test", token))

	info, err := os.Stat(store.path("test"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerms), info.Mode().Perm())

	loaded, err := store.Load("test")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "abc", loaded.AccessToken)
	assert.Equal(t, "def", loaded.RefreshToken)

	require.NoError(t, store.Delete("test"))
	loaded, err = store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestTokenStore_DeleteMissingIsNotAnError(t *testing.T) {
	store := TokenStore{Dir: t.TempDir()}
	assert.NoError(t, store.Delete("prod"))
}

func TestValidateTokenScopes(t *testing.T) {
	withTokenInfo(t, "openid "+ScopeSheets)
	assert.NoError(t, validateTokenScopes(context.Background(), &oauth2.Token{AccessToken: "abc"}))
}

func TestValidateTokenScopes_MissingScope(t *testing.T) {
	withTokenInfo(t, "openid")
	err := validateTokenScopes(context.Background(), &oauth2.Token{AccessToken: "abc"})
	assert.ErrorContains(t, err, "missing scope")
}

func TestGetTokenWithFlow_UsesValidStoredToken(t *testing.T) {
	withTokenInfo(t, ScopeSheets)
	t.Cleanup(func() {
		tokenCacheMu.Lock()
		tokenCache = nil
		tokenCacheMu.Unlock()
	})

	store := TokenStore{Dir: t.TempDir()}
	stored := &oauth2.Token{AccessToken: "stored", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save("test", stored))

	token, err := GetTokenWithFlow(context.Background(), &oauth2.Config{}, store, "test", zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, "stored", token.AccessToken)
}

func TestStoredToken_DeletesTokenWithoutScope(t *testing.T) {
	withTokenInfo(t, "openid")
	store := TokenStore{Dir: t.TempDir()}
	require.NoError(t, store.Save("test", &oauth2.Token{AccessToken: "stored", Expiry: time.Now().Add(time.Hour)}))

	token := storedToken(context.Background(), &oauth2.Config{}, store, "test", zap.NewNop())

	assert.Nil(t, token)
	_, err := os.Stat(store.path("test"))
	assert.True(t, os.IsNotExist(err))
}

func TestGetOAuthConfig_RedirectsToLocalServer(t *testing.T) {
	oauthCfg := &config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "client",
			ProjectID:               "project",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}

	cfg, err := GetOAuthConfig(oauthCfg)

	require.NoError(t, err)
	assert.Equal(t, "client", cfg.ClientID)
	assert.Equal(t, []string{ScopeSheets}, cfg.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", cfg.RedirectURL)
}
