package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-identity-directory/internal/interface/http"
	"github.com/oksasatya/go-identity-directory/internal/interface/middleware"
)

// UserModule wires user and profile routes.
// Anonymous: POST /users (self registration).
// Authenticated: everything else; per-operation rules are enforced by the service.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Handler.Create)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth())
	{
		auth.GET("/users", m.Handler.Search)
		auth.GET("/users/:id", m.Handler.Get)
		auth.PATCH("/users/:id", m.Handler.Update)
		auth.DELETE("/users/:id", m.Handler.Delete)
		auth.PUT("/users/:id/professional", m.Handler.SetProfessional)
		auth.POST("/users/:id/unlock", m.Handler.Unlock)

		auth.GET("/profile", m.Handler.GetProfile)
		auth.PATCH("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
	}
}
