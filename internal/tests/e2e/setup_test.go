package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/you/healthrecords/internal/app"
	testconfig "github.com/you/healthrecords/internal/tests/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer is a running API over a fresh in-memory database
type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T, enforce bool) *testServer {
	t.Helper()

	cfg := testconfig.NewTestConfig(t, enforce)
	c, err := app.NewContainer(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	srv := httptest.NewServer(c.Router())
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv}
}

// do sends body as JSON and decodes the response into out when out is non-nil
func (s *testServer) do(method, path, token string, body, out interface{}) int {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(s.t, err)
		if len(raw) > 0 {
			require.NoError(s.t, json.Unmarshal(raw, out), "body: %s", raw)
		}
	}
	return resp.StatusCode
}

type loginResponse struct {
	ID          uint   `json:"id"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
	SessionID   string `json:"sessionId"`
}

func (s *testServer) login(email, password string) loginResponse {
	s.t.Helper()
	var out loginResponse
	status := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password}, &out)
	require.Equal(s.t, http.StatusOK, status)
	return out
}

type userResponse struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func (s *testServer) register(fullName, email, role, phone string) userResponse {
	s.t.Helper()
	return s.registerWith("", fullName, email, role, phone)
}

// registerWith creates a user on behalf of the caller holding token
func (s *testServer) registerWith(token, fullName, email, role, phone string) userResponse {
	s.t.Helper()
	var out userResponse
	status := s.do(http.MethodPost, "/api/users", token, map[string]string{
		"fullName":    fullName,
		"email":       email,
		"password":    "pw-" + role,
		"role":        role,
		"phoneNumber": phone,
	}, &out)
	require.Equal(s.t, http.StatusCreated, status)
	return out
}

type errorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func path(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
