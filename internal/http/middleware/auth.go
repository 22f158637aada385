package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/healthrecords/domain"
)

// AuthMW builds the bearer token middlewares. Tokens carry a session id that
// must still exist in the session store.
type AuthMW struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
}

func NewAuthMW(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
	}
}

// WithJWT rejects requests without a valid token and live session
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.sessionRepo)
}

// OptionalJWT is WithJWT for routes that also serve anonymous callers
func (mw *AuthMW) OptionalJWT() gin.HandlerFunc {
	return OptionalAuthMiddleware(mw.tokenSvc, mw.sessionRepo)
}
