package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// ErrorBody is the machine-readable part of a failed response.
type ErrorBody struct {
	Code   apperror.Code         `json:"code"`
	Fields []apperror.FieldError `json:"fields,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

func Error(ctx *gin.Context, status int, message string, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	})
}

// Fail writes err using its domain code. Errors outside the taxonomy are
// reported as INTERNAL without their detail; the cause is attached to the
// gin context for the access log.
func Fail(ctx *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		_ = ctx.Error(err)
		Error(ctx, http.StatusInternalServerError, "internal server error", ErrorBody{Code: apperror.CodeInternal})
		return
	}
	if appErr.Cause != nil {
		_ = ctx.Error(appErr.Cause)
	}
	Error(ctx, appErr.Code.HTTPStatus(), appErr.Message, ErrorBody{Code: appErr.Code, Fields: appErr.Fields})
}
