package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters: auth_logins_total, auth_failures_total, auth_lockouts_total
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}
