package appointment

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polyclinicapp/booking-api/internal/middleware"
	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/service/booking"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
	"github.com/polyclinicapp/booking-api/pkg/httputil"
)

type Handler struct {
	service *booking.Service
	authMW  *middleware.AuthMiddleware
}

func NewHandler(service *booking.Service, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service: service,
		authMW:  authMW,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments", h.authMW.Authenticate())
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/:id", h.GetAppointment)
	}
	r.GET("/users/:id/appointments", h.authMW.Authenticate(), h.ListUserAppointments)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID"))
		return
	}
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid schedule ID"))
		return
	}

	appointment, err := h.service.CreateAppointment(c.Request.Context(), userID, scheduleID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID"))
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) ListUserAppointments(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID"))
		return
	}

	appointments, err := h.service.ListUserAppointments(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}
