package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T, userInfoStatus int) (AuthService, *mockTokenRepo) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v2/accessToken":
			r.ParseForm()
			if r.PostForm.Get("code") != "good-code" || r.PostForm.Get("client_secret") != "secret" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"member-token","expires_in":5184000,"token_type":"Bearer"}`))
		case "/v2/userinfo":
			if r.Header.Get("Authorization") != "Bearer member-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(userInfoStatus)
			w.Write([]byte(`{"sub":"abc","name":"Ada","email":"ada@example.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := config.Config{
		SecretKey: testSecret,
		LinkedIn: config.LinkedIn{
			ClientID:     "client",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:3000/auth/linkedin/callback",
			APIURL:       srv.URL,
			OAuthURL:     srv.URL + "/oauth/v2",
		},
	}
	tokens := new(mockTokenRepo)
	return NewAuthService(cfg, tokens, srv.Client()), tokens
}

func TestAuthURL(t *testing.T) {
	svc, _ := newAuthFixture(t, http.StatusOK)

	u, err := url.Parse(svc.AuthURL("state-123"))

	require.NoError(t, err)
	assert.Equal(t, "/oauth/v2/authorization", u.Path)
	q := u.Query()
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid profile email w_member_social", q.Get("scope"))
}

func TestLinkedInCallback_StoresEncryptedToken(t *testing.T) {
	svc, tokens := newAuthFixture(t, http.StatusOK)

	var stored string
	tokens.On("Upsert", mock.Anything, "abc", mock.Anything).
		Run(func(args mock.Arguments) { stored = args.String(2) }).
		Return(nil)

	urn, err := svc.LinkedInCallback(context.Background(), "good-code")

	require.NoError(t, err)
	assert.Equal(t, "abc", urn)
	assert.NotEqual(t, "member-token", stored)
	plain, err := utils.Decrypt(stored, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "member-token", plain)
}

func TestLinkedInCallback_BadCode(t *testing.T) {
	svc, tokens := newAuthFixture(t, http.StatusOK)

	_, err := svc.LinkedInCallback(context.Background(), "bad-code")

	assert.Error(t, err)
	tokens.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestLinkedInCallback_EmptyCode(t *testing.T) {
	svc, _ := newAuthFixture(t, http.StatusOK)

	_, err := svc.LinkedInCallback(context.Background(), "")

	assert.Error(t, err)
}

func TestLinkedInCallback_UserInfoRejected(t *testing.T) {
	svc, tokens := newAuthFixture(t, http.StatusForbidden)

	_, err := svc.LinkedInCallback(context.Background(), "good-code")

	assert.Error(t, err)
	tokens.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}
