package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/internal/config"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/utils"
)

// Client wraps the Gmail API client
type Client struct {
	service      *gmail.Service
	userID       string
	sender       string
	interval     time.Duration
	lastSendTime time.Time
	sendMutex    sync.Mutex
}

// NewClient creates a Gmail client for userID using an existing OAuth token.
// sender, if set, becomes the From header.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, token *oauth2.Token, userID, sender string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	return NewClientWithOptions(ctx, userID, sender, option.WithHTTPClient(httpClient))
}

// NewClientWithOptions creates a Gmail client from raw API options
func NewClientWithOptions(ctx context.Context, userID, sender string, opts ...option.ClientOption) (*Client, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	if userID == "" {
		userID = "me"
	}

	return &Client{
		service:  service,
		userID:   userID,
		sender:   sender,
		interval: EMAIL_INTERVAL,
	}, nil
}
