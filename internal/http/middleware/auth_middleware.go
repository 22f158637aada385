package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/healthrecords/domain"
	"github.com/you/healthrecords/internal/http/handlers"
)

const msgNoAuthHeader = "Authorization header required"

// AuthMiddleware validates the bearer token and its session, then exposes
// user_id (string), user_role and session_id on the gin context
func AuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		if msg := authenticate(c, tokenSvc, sessionRepo); msg != "" {
			handlers.WriteError(c, http.StatusUnauthorized, msg)
			return
		}
		c.Next()
	})
}

// OptionalAuthMiddleware lets requests without an Authorization header
// through anonymously. A header that is present must still be valid.
func OptionalAuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		if msg := authenticate(c, tokenSvc, sessionRepo); msg != "" && msg != msgNoAuthHeader {
			handlers.WriteError(c, http.StatusUnauthorized, msg)
			return
		}
		c.Next()
	})
}

// authenticate sets the claims on c, or returns the client-facing reason
func authenticate(c *gin.Context, tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return msgNoAuthHeader
	}

	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "Invalid authorization header format"
	}

	claims, err := tokenSvc.ValidateAccessToken(tokenParts[1])
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			return "Token expired"
		case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenMalformed):
			return "Invalid token"
		default:
			return "Token validation failed"
		}
	}

	// a token outlives its session after logout
	if claims.SessionID != "" {
		session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
		if err != nil || session == nil {
			return "Session invalid or expired"
		}
		if session.UserID != claims.UserID {
			return "Session user mismatch"
		}
	}

	c.Set("user_id", strconv.FormatUint(uint64(claims.UserID), 10))
	c.Set("user_role", string(claims.Role))
	if claims.SessionID != "" {
		c.Set("session_id", claims.SessionID)
	}
	return ""
}
