package invoice

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/handler"
	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/service/invoice"
)

type Handler struct {
	base    *handler.Handler
	service *invoice.Service
}

func NewHandler(base *handler.Handler, service *invoice.Service) *Handler {
	return &Handler{base: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/invoices")
	{
		invoices.GET("", h.ListInvoices)
		invoices.POST("", h.CreateInvoice)
		invoices.PUT("/:id/paid", h.MarkPaid)
	}
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := h.base.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, invoice.ErrAppointmentNotCompleted) {
			c.JSON(http.StatusConflict, handler.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

type markPaidRequest struct {
	Paid bool `json:"paid"`
}

func (h *Handler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid invoice ID"))
		return
	}

	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.MarkPaid(c.Request.Context(), id, req.Paid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) ListInvoices(c *gin.Context) {
	filters := &model.InvoiceFilters{
		Status: model.InvoiceStatus(c.Query("status")),
	}
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		filters.PatientID = id
	}

	invoices, err := h.service.ListInvoices(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(invoices))
}
