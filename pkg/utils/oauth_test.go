package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/internal/config"
)

func TestGetOAuthConfig(t *testing.T) {
	cfg, err := GetOAuthConfig(&config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "client-id",
			ProjectID:               "project",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, []string{ScopeGmailSend}, cfg.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", cfg.RedirectURL)
}

func TestTokenFile_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	token, err := LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, token)

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, SaveTokenToFile("test", &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}))

	token, err = LoadTokenFromFile("test")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, expiry.Equal(token.Expiry))

	other, err := LoadTokenFromFile("prod")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, DeleteTokenFile("test"))
	require.NoError(t, DeleteTokenFile("test"))

	token, err = LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, token)
}
