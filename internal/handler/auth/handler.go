package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/scheduling-api/internal/handler"
	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/service/auth"
)

type Handler struct {
	base    *handler.Handler
	service *auth.Service
}

func NewHandler(base *handler.Handler, service *auth.Service) *Handler {
	return &Handler{base: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/auth")
	{
		group.POST("/login", h.Login)
		group.POST("/logout", h.Logout)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := h.base.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("login failed"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if raw == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("missing token"))
		return
	}

	if err := h.service.Logout(c.Request.Context(), raw); err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
