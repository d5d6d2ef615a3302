package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-identity-directory/internal/application"
	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/pkg/helpers"
	"github.com/oksasatya/go-identity-directory/pkg/response"
)

const CtxPrincipalKey = "principal"

// TokenVerifier resolves a session token to the caller it was issued to.
type TokenVerifier interface {
	VerifyToken(token string) (application.Principal, error)
}

// tokenFrom returns the presented token and whether it came from the
// Authorization header.
func tokenFrom(c *gin.Context) (tok string, fromHeader bool) {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok), true
		}
		return "", true
	}
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil {
		return tok, false
	}
	return "", false
}

// Identify resolves the caller from the bearer header or the access_token
// cookie. Requests without a token proceed as ANONYMOUS. A bad bearer token
// is rejected; a bad cookie is ignored so a stale session can still reach
// login and logout.
func Identify(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, fromHeader := tokenFrom(c)
		if tok == "" {
			if fromHeader {
				response.Fail(c, apperror.ErrTokenInvalid)
				return
			}
			c.Set(CtxPrincipalKey, application.Anonymous())
			c.Next()
			return
		}
		p, err := v.VerifyToken(tok)
		if err != nil {
			if fromHeader {
				response.Fail(c, err)
				return
			}
			p = application.Anonymous()
		}
		c.Set(CtxPrincipalKey, p)
		c.Next()
	}
}

// RequireAuth rejects anonymous callers. It must run after Identify.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Principal(c).UserID == "" {
			response.Fail(c, apperror.ErrTokenInvalid)
			return
		}
		c.Next()
	}
}

// Principal returns the caller set by Identify, or ANONYMOUS.
func Principal(c *gin.Context) application.Principal {
	if v, ok := c.Get(CtxPrincipalKey); ok {
		if p, ok := v.(application.Principal); ok {
			return p
		}
	}
	return application.Anonymous()
}
