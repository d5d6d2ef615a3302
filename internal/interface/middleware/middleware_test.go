package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-directory/internal/application"
	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

type stubVerifier map[string]application.Principal

func (s stubVerifier) VerifyToken(tok string) (application.Principal, error) {
	if tok == "expired" {
		return application.Principal{}, apperror.ErrTokenExpired
	}
	p, ok := s[tok]
	if !ok {
		return application.Principal{}, apperror.ErrTokenInvalid
	}
	return p, nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), Identify(stubVerifier{
		"good": {UserID: "u1", Role: entity.RoleManager},
	}))
	r.GET("/whoami", func(c *gin.Context) {
		p := Principal(c)
		c.String(http.StatusOK, string(p.Role)+":"+p.UserID)
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r http.Handler, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentify(t *testing.T) {
	r := newEngine()

	w := do(r, "/whoami", nil)
	require.Equal(t, "ANONYMOUS:", w.Body.String())
	require.NotEmpty(t, w.Header().Get(HeaderRequestID))

	w = do(r, "/whoami", func(req *http.Request) { req.Header.Set("Authorization", "Bearer good") })
	require.Equal(t, "MANAGER:u1", w.Body.String())

	w = do(r, "/whoami", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "good"})
	})
	require.Equal(t, "MANAGER:u1", w.Body.String())

	w = do(r, "/whoami", func(req *http.Request) { req.Header.Set("Authorization", "Bearer forged") })
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), string(apperror.CodeTokenInvalid))

	w = do(r, "/whoami", func(req *http.Request) { req.Header.Set("Authorization", "Basic abc") })
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/whoami", func(req *http.Request) { req.Header.Set("Authorization", "Bearer expired") })
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), string(apperror.CodeTokenExpired))
}

func TestIdentifyIgnoresStaleCookie(t *testing.T) {
	r := newEngine()

	w := do(r, "/whoami", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "expired"})
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ANONYMOUS:", w.Body.String())

	// still anonymous, so protected routes stay closed
	w = do(r, "/private", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "forged"})
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// an explicit header wins over the cookie and is still enforced
	w = do(r, "/whoami", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "good"})
		req.Header.Set("Authorization", "Bearer forged")
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth(t *testing.T) {
	r := newEngine()
	require.Equal(t, http.StatusUnauthorized, do(r, "/private", nil).Code)
	w := do(r, "/private", func(req *http.Request) { req.Header.Set("Authorization", "Bearer good") })
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestIDKeepsValidIncomingID(t *testing.T) {
	r := newEngine()
	id := "6f1c7a4e-4b5d-4f43-9d7e-2a4c1b0e9f11"
	w := do(r, "/whoami", func(req *http.Request) { req.Header.Set(HeaderRequestID, id) })
	require.Equal(t, id, w.Header().Get(HeaderRequestID))

	w = do(r, "/whoami", func(req *http.Request) { req.Header.Set(HeaderRequestID, "not-a-uuid") })
	require.NotEqual(t, "not-a-uuid", w.Header().Get(HeaderRequestID))
}

func TestAccessLog(t *testing.T) {
	logger, hook := test.NewNullLogger()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	do(r, "/boom?token=secret", func(req *http.Request) { req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1") })
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.ErrorLevel, entry.Level)
	require.Equal(t, "203.0.113.9", entry.Data["ip"])
	require.Equal(t, "/boom", entry.Data["path"])
}
