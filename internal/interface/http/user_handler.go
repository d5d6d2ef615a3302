package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-directory/internal/application"
	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/interface/middleware"
	"github.com/oksasatya/go-identity-directory/pkg/response"
	bindval "github.com/oksasatya/go-identity-directory/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type professionalRequest struct {
	IsProfessional *bool `json:"is_professional" binding:"required"`
}

type searchRequest struct {
	Q    string `form:"q" binding:"max=100"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

func (h *UserHandler) Create(c *gin.Context) {
	sub, ok := bindSubmission(c)
	if !ok {
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), middleware.Principal(c), sub)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "user created", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	sub, ok := bindSubmission(c)
	if !ok {
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), middleware.Principal(c), c.Param("id"), sub)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.Principal(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "user deleted", nil)
}

func (h *UserHandler) SetProfessional(c *gin.Context) {
	var req professionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation(bindval.ToFieldErrors(err)))
		return
	}
	u, err := h.Svc.SetProfessionalStatus(c.Request.Context(), middleware.Principal(c), c.Param("id"), *req.IsProfessional)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "professional status updated", nil)
}

func (h *UserHandler) Unlock(c *gin.Context) {
	u, err := h.Svc.Unlock(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "account unlocked", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, apperror.Validation(bindval.ToFieldErrors(err)))
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), middleware.Principal(c), req.Q, req.Size)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	p := middleware.Principal(c)
	u, err := h.Svc.Get(c.Request.Context(), p, p.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	sub, ok := bindSubmission(c)
	if !ok {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.Principal(c), sub)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile updated", nil)
}

// UploadAvatar accepts a multipart "file" field.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, apperror.Validation([]apperror.FieldError{
			*apperror.Field("file", apperror.CodeRequired, "file is required"),
		}))
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Fail(c, apperror.Validation([]apperror.FieldError{
			*apperror.Field("file", apperror.CodeInvalidImageType, "image must not exceed 5MB"),
		}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.Principal(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		if h.Logger != nil && apperror.CodeOf(err) == apperror.CodeInternal {
			h.Logger.WithError(err).Error("avatar upload failed")
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "avatar uploaded", nil)
}
