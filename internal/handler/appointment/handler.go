package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/handler"
	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/schedule"
	"github.com/clinicdesk/scheduling-api/internal/service/appointment"
)

type Handler struct {
	base    *handler.Handler
	service *appointment.Service
}

func NewHandler(base *handler.Handler, service *appointment.Service) *Handler {
	return &Handler{base: base, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.POST("", h.SaveAppointment)
		appointments.PUT("/:id/cancel", h.CancelAppointment)
		appointments.PUT("/:id/restore", h.RestoreAppointment)
	}

	sched := r.Group("/schedule")
	{
		sched.GET("/slots", h.ListSlots)
		sched.GET("/occupancy", h.GetDayOccupancy)
	}
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

type saveRequest struct {
	Appointment model.SaveAppointmentRequest `json:"appointment" validate:"required"`
	// Confirm acknowledges the overwrite of the pending appointments the
	// selection overlaps. Without it a pending conflict returns 409.
	Confirm bool `json:"confirm"`
}

func (h *Handler) SaveAppointment(c *gin.Context) {
	var req saveRequest
	if err := h.base.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.Save(c.Request.Context(), &req.Appointment, req.Confirm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to save appointment"))
		return
	}

	if result.ValidationError != "" {
		c.JSON(http.StatusUnprocessableEntity, handler.NewErrorResponse(result.ValidationError))
		return
	}

	if result.RequiresConfirmation {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "confirmation_required",
			"message": "selection overlaps existing pending appointments",
			"data": gin.H{
				"conflicting_pending_ids": result.ConflictingPendingIDs,
			},
		})
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result.Appointments))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appointments, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		case errors.Is(err, schedule.ErrAppointmentCompleted), errors.Is(err, schedule.ErrAlreadyCanceled):
			c.JSON(http.StatusConflict, handler.NewErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to cancel appointment"))
		}
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) RestoreAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	result, err := h.service.Restore(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		case errors.Is(err, schedule.ErrNotCanceled):
			c.JSON(http.StatusConflict, handler.NewErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to restore appointment"))
		}
		return
	}

	if result.Outcome == schedule.RestoreRejected {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "restore_rejected",
			"message": "the time slot is already occupied",
			"data": gin.H{
				"blocking_appointment": result.Blocking,
			},
		})
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result.Appointments))
}

func (h *Handler) ListSlots(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"slots":               h.service.Grid().Slots(),
		"granularity_minutes": int(h.service.Grid().Granularity().Minutes()),
	}))
}

func (h *Handler) GetDayOccupancy(c *gin.Context) {
	day, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date format, expected YYYY-MM-DD"))
		return
	}

	var excludeID *uuid.UUID
	if raw := c.Query("exclude_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid exclude_id"))
			return
		}
		excludeID = &id
	}

	occupancy, err := h.service.DayOccupancy(c.Request.Context(), day, excludeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(occupancy))
}
