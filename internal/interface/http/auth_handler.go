package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-directory/internal/application"
	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/validation"
	"github.com/oksasatya/go-identity-directory/pkg/helpers"
	"github.com/oksasatya/go-identity-directory/pkg/response"
	bindval "github.com/oksasatya/go-identity-directory/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type verifyConfirmRequest struct {
	Token string `json:"token" binding:"required,max=128"`
}

// bindSubmission decodes a JSON object body into a raw submission.
func bindSubmission(c *gin.Context) (validation.Submission, bool) {
	var sub map[string]any
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.Fail(c, apperror.Validation(bindval.ToFieldErrors(err)))
		return nil, false
	}
	if sub == nil {
		sub = map[string]any{}
	}
	return sub, true
}

func (h *AuthHandler) Login(c *gin.Context) {
	sub, ok := bindSubmission(c)
	if !ok {
		return
	}
	in, err := validation.ValidateLogin(sub)
	if err != nil {
		response.Fail(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.Cookies.SetAccess(c, res.Token.Token, res.Token.ExpiresAt)
	response.Success(c, http.StatusOK, tokenResponse{
		AccessToken: res.Token.Token,
		TokenType:   "bearer",
		ExpiresAt:   res.Token.ExpiresAt,
	}, "login successful", nil)
}

// Logout clears the cookie. Tokens are stateless, so a copied bearer token
// stays valid until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req verifyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation(bindval.ToFieldErrors(err)))
		return
	}
	if err := h.Svc.ConfirmEmail(c.Request.Context(), req.Token); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"verified": true}, "email verified", nil)
}
