package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// OAuthClientConfig is the Google "installed app" client used to send
// notification email through Gmail
type OAuthClientConfig struct {
	Installed OAuthInstalled `json:"installed" validate:"required"`
}

type OAuthInstalled struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url" validate:"required,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// LoadOAuthClient loads the client for the email sink. notifications.email.oauthClientFile
// wins; otherwise oauthClient[.<env>].json is looked up like the config file.
func LoadOAuthClient(email EmailConfig, env string) (*OAuthClientConfig, error) {
	path := email.OAuthClientFile
	if path == "" {
		found, err := findFile(envFileName("oauthClient", env, "json"))
		if err != nil {
			return nil, fmt.Errorf("email notifications are enabled but no oauth client is configured: %w", err)
		}
		path = found
	}
	return readOAuthClient(path)
}

func readOAuthClient(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file %s: %w", path, err)
	}

	if err := ValidateOAuthClient(&oauthCfg); err != nil {
		return nil, err
	}
	return &oauthCfg, nil
}

// ValidateOAuthClient checks the client has everything the token flow needs
func ValidateOAuthClient(cfg *OAuthClientConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("oauth client validation failed: %w", err)
	}
	return nil
}
