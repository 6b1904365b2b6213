package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler holds shared handler dependencies.
type Handler struct {
	validate *validator.Validate
}

func NewHandler() *Handler {
	return &Handler{validate: validator.New()}
}

// BindJSON decodes and validates a request body against its validate tags.
func (h *Handler) BindJSON(c *gin.Context, out interface{}) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return err
	}
	return h.validate.Struct(out)
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now(),
	})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}
