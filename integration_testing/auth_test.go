package integration_testing

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/2beens/sportanalytics/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *IntegrationTestSuite) login(ctx context.Context, username, password string) *http.Response {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	s.Require().NoError(err)

	req := s.newRequestWithBody(ctx, http.MethodPost, "/a/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *IntegrationTestSuite) loginToken(ctx context.Context) string {
	resp := s.login(ctx, testUsername, testPassword)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var loginResp loginResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&loginResp))
	s.Require().NotEmpty(loginResp.Token)
	return loginResp.Token
}

func (s *IntegrationTestSuite) TestLoginLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.loginToken(ctx)

	sessions, err := s.env.RedisClient.SMembers(ctx, "sportanalytics-sessions").Result()
	require.NoError(t, err)
	assert.Contains(t, sessions, token)

	logout := func() *http.Response {
		req := s.newRequest(ctx, http.MethodGet, "/a/logout")
		req.Header.Set(auth.TokenHeader, token)
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := logout()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// the session is gone now
	resp = logout()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
}

func (s *IntegrationTestSuite) TestLogin_WrongCredentials() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]loginRequest{
		"bad password": {Username: testUsername, Password: "bad-password"},
		"bad username": {Username: "bad-username", Password: testPassword},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := s.login(ctx, tc.Username, tc.Password)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			respBytes, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
		})
	}
}

func (s *IntegrationTestSuite) TestLogin_RateLimiting() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10 attempts per minute allowed
	for i := 1; i <= 13; i++ {
		resp := s.login(ctx, "brute", "force")
		if i <= 10 {
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "iteration: %d", i)
		} else {
			assert.Equal(t, http.StatusTooEarly, resp.StatusCode, "iteration: %d", i)
		}
		require.NoError(t, resp.Body.Close())
	}
}
