package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/repository"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/maheshrc27/linkedin-scheduler/pkg/utils"
	"golang.org/x/oauth2"
)

var linkedInScopes = []string{"openid", "profile", "email", "w_member_social"}

type AuthService interface {
	AuthURL(state string) string
	LinkedInCallback(ctx context.Context, code string) (string, error)
}

type authService struct {
	cfg    config.Config
	tk     repository.LinkedInTokenRepository
	client *http.Client
}

func NewAuthService(cfg config.Config, tk repository.LinkedInTokenRepository, client *http.Client) AuthService {
	return &authService{
		cfg:    cfg,
		tk:     tk,
		client: client,
	}
}

func (s *authService) oauth2Config() *oauth2.Config {
	base := strings.TrimRight(s.cfg.LinkedIn.OAuthURL, "/")
	return &oauth2.Config{
		ClientID:     s.cfg.LinkedIn.ClientID,
		ClientSecret: s.cfg.LinkedIn.ClientSecret,
		RedirectURL:  s.cfg.LinkedIn.RedirectURI,
		Scopes:       linkedInScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + "/authorization",
			TokenURL:  base + "/accessToken",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (s *authService) AuthURL(state string) string {
	return s.oauth2Config().AuthCodeURL(state)
}

// LinkedInCallback exchanges code for a member token, stores it encrypted
// under the member id and returns that id. Reconnecting replaces the
// previous token and clears any invalidation.
func (s *authService) LinkedInCallback(ctx context.Context, code string) (string, error) {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return "", err
	}

	oauth2Config := s.oauth2Config()
	if oauth2Config.ClientID == "" || oauth2Config.ClientSecret == "" || oauth2Config.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return "", err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("exchanging authorization code: %w", err)
	}

	userInfo, err := s.userInfo(ctx, token.AccessToken)
	if err != nil {
		return "", err
	}

	encrypted, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("encrypting access token: %w", err)
	}

	if err := s.tk.Upsert(ctx, userInfo.Sub, encrypted); err != nil {
		return "", fmt.Errorf("saving access token: %w", err)
	}

	slog.Info("linkedin account connected", "author", userInfo.Sub)
	return userInfo.Sub, nil
}

func (s *authService) userInfo(ctx context.Context, accessToken string) (*transfer.LinkedInUserInfo, error) {
	req, err := newLinkedInRequest(ctx, http.MethodGet, s.cfg.LinkedIn.APIURL+"/v2/userinfo", accessToken, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching linkedin user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading linkedin user info: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkedin user info: status %d: %s", resp.StatusCode, errorMessage(body))
	}

	var info transfer.LinkedInUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decoding linkedin user info: %w", err)
	}
	if info.Sub == "" {
		return nil, errors.New("linkedin user info carried no member id")
	}
	return &info, nil
}
