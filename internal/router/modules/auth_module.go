package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-identity-directory/internal/interface/http"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/login", m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)
	rg.POST("/auth/verify/confirm", m.Handler.VerifyConfirm)
}
