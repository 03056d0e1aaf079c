package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/service/doctor"
	"github.com/polyclinicapp/booking-api/internal/service/schedule"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
	"github.com/polyclinicapp/booking-api/pkg/httputil"
)

type Handler struct {
	doctorSvc   *doctor.Service
	scheduleSvc *schedule.Service
}

func NewHandler(doctorSvc *doctor.Service, scheduleSvc *schedule.Service) *Handler {
	return &Handler{
		doctorSvc:   doctorSvc,
		scheduleSvc: scheduleSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id/slots", h.ListAvailableSlots)
		doctors.GET("/:id/slots/status", h.SlotStatus)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctorSvc.ListDoctors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) ListAvailableSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID"))
		return
	}

	slots, err := h.scheduleSvc.AvailableSlots(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, slots)
}

// SlotStatus answers is-slot-booked for a (doctor, time) pair. The check is
// fail-safe: on storage trouble the slot reads as booked.
func (h *Handler) SlotStatus(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID"))
		return
	}

	timeOfDay := c.Query("time")
	if timeOfDay == "" {
		httputil.RespondWithError(c, apperrors.Validation("time query parameter is required"))
		return
	}

	booked := h.scheduleSvc.IsBooked(c.Request.Context(), doctorID, timeOfDay)

	httputil.RespondWithSuccess(c, model.SlotStatus{
		DoctorID:  doctorID,
		TimeOfDay: timeOfDay,
		Booked:    booked,
	})
}
