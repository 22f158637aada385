package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/healthrecords/domain"
	"github.com/you/healthrecords/internal/mocks"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := map[string]*domain.TokenClaims{
		"good":        {UserID: 2, Role: domain.RolePatient, SessionID: "s-1"},
		"stale":       {UserID: 2, Role: domain.RolePatient, SessionID: "s-gone"},
		"stolen":      {UserID: 5, Role: domain.RoleAdmin, SessionID: "s-1"},
		"sessionless": {UserID: 3, Role: domain.RoleDoctor},
	}

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedMsg    string
		expectedUser   string
		expectedRole   string
	}{
		{name: "no header", expectedStatus: http.StatusUnauthorized, expectedMsg: "Authorization header required"},
		{name: "wrong scheme", header: "Basic abc", expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid authorization header format"},
		{name: "expired token", header: "Bearer expired", expectedStatus: http.StatusUnauthorized, expectedMsg: "Token expired"},
		{name: "garbage token", header: "Bearer ???", expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid token"},
		{name: "session logged out", header: "Bearer stale", expectedStatus: http.StatusUnauthorized, expectedMsg: "Session invalid or expired"},
		{name: "session of another user", header: "Bearer stolen", expectedStatus: http.StatusUnauthorized, expectedMsg: "Session user mismatch"},
		{name: "valid", header: "Bearer good", expectedStatus: http.StatusOK, expectedUser: "2", expectedRole: "PATIENT"},
		{name: "valid without session", header: "Bearer sessionless", expectedStatus: http.StatusOK, expectedUser: "3", expectedRole: "DOCTOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := mocks.NewMockTokenService()
			tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
				switch token {
				case "expired":
					return nil, domain.ErrTokenExpired
				case "???":
					return nil, domain.ErrTokenMalformed
				}
				if claims, ok := tokens[token]; ok {
					return claims, nil
				}
				return nil, domain.ErrTokenInvalid
			}
			sessions := mocks.NewMockSessionRepository()
			sessions.FindByIDFunc = func(ctx context.Context, id string) (*domain.Session, error) {
				if id == "s-1" {
					return &domain.Session{ID: id, UserID: 2, Role: domain.RolePatient, ExpiresAt: time.Now().Add(time.Minute)}, nil
				}
				return nil, domain.ErrSessionNotFound
			}

			var gotUser, gotRole string
			r := gin.New()
			r.GET("/p", NewAuthMW(tokenSvc, sessions).WithJWT(), func(c *gin.Context) {
				gotUser = c.GetString("user_id")
				gotRole = c.GetString("user_role")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMsg != "" {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedMsg, body["message"])
				assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
				return
			}
			assert.Equal(t, tt.expectedUser, gotUser)
			assert.Equal(t, tt.expectedRole, gotRole)
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
		if token == "admin" {
			return &domain.TokenClaims{UserID: 1, Role: domain.RoleAdmin}, nil
		}
		return nil, domain.ErrTokenInvalid
	}

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedRole   string
	}{
		{name: "anonymous passes", expectedStatus: http.StatusOK},
		{name: "valid token sets claims", header: "Bearer admin", expectedStatus: http.StatusOK, expectedRole: "ADMIN"},
		{name: "invalid token rejected", header: "Bearer forged", expectedStatus: http.StatusUnauthorized},
		{name: "bad scheme rejected", header: "Token admin", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRole string
			r := gin.New()
			r.POST("/p", NewAuthMW(tokenSvc, mocks.NewMockSessionRepository()).OptionalJWT(), func(c *gin.Context) {
				gotRole = c.GetString("user_role")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedRole, gotRole)
		})
	}
}
