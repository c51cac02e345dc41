package service

import (
	"context"
	"fmt"
	"time"

	"sleepdiary/config"
	"sleepdiary/internal/domain/entity"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// VerifiedProfile is a provider-verified identity handed to provisioning.
// Role is optional; provisioning defaults it to PATIENT.
type VerifiedProfile struct {
	Subject string
	Name    string
	Email   string
	Picture string
	Role    entity.Role
}

// GoogleOAuth runs the authorization-code flow against Google and turns the
// resulting access token into a verified profile.
type GoogleOAuth interface {
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*VerifiedProfile, error)
}

type googleUserinfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type googleOAuth struct {
	oauthConfig *oauth2.Config
	httpClient  *resty.Client
	log         *logrus.Logger
}

func NewGoogleOAuth(cfg config.OAuthConfig, log *logrus.Logger) GoogleOAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")

	return &googleOAuth{
		oauthConfig: oauthConfig,
		httpClient:  client,
		log:         log,
	}
}

func (g *googleOAuth) AuthCodeURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state)
}

func (g *googleOAuth) FetchProfile(ctx context.Context, code string) (*VerifiedProfile, error) {
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		g.log.Warnf("Failed to exchange OAuth code: %+v", err)
		return nil, err
	}

	var info googleUserinfo
	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&info).
		Get(googleUserinfoURL)
	if err != nil {
		g.log.Warnf("Failed to fetch Google userinfo: %+v", err)
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode())
	}

	return &VerifiedProfile{
		Subject: info.Sub,
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}
