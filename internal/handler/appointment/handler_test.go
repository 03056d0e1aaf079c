package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyclinicapp/booking-api/internal/middleware"
	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/service/booking"
	"github.com/polyclinicapp/booking-api/internal/service/event"
	authpkg "github.com/polyclinicapp/booking-api/pkg/auth"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	bySlot map[uuid.UUID]*model.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment, _ *model.OutboxEvent) error {
	if _, ok := f.bySlot[apt.ScheduleID]; ok {
		return apperrors.AlreadyBooked()
	}
	f.bySlot[apt.ScheduleID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	for _, apt := range f.bySlot {
		if apt.ID == id {
			return apt, nil
		}
	}
	return nil, apperrors.NotFound("appointment")
}

func (f *fakeAppointmentRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.bySlot {
		if apt.UserID == userID {
			out = append(out, apt)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(context.Context, *model.User) error { return nil }

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return u, nil
}

func (f *fakeUserRepo) GetByPhone(context.Context, string) (*model.User, error) {
	return nil, apperrors.NotFound("user")
}

func (f *fakeUserRepo) Count(context.Context) (int64, error) { return 0, nil }

type fakeScheduleRepo struct {
	slots map[uuid.UUID]*model.ScheduleSlot
}

func (f *fakeScheduleRepo) ListAvailable(context.Context, uuid.UUID) ([]*model.AvailableSlot, error) {
	return nil, nil
}

func (f *fakeScheduleRepo) Get(_ context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, apperrors.NotFound("schedule slot")
	}
	return s, nil
}

func (f *fakeScheduleRepo) IsBooked(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

type fakeOutboxRepo struct{}

func (fakeOutboxRepo) Create(context.Context, *model.OutboxEvent) error { return nil }

func (fakeOutboxRepo) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (fakeOutboxRepo) MarkProcessed(context.Context, uuid.UUID) error { return nil }

func (fakeOutboxRepo) MarkFailed(context.Context, uuid.UUID, string) error { return nil }

func (fakeOutboxRepo) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fixture struct {
	router *gin.Engine
	token  string
	userID uuid.UUID
	slotID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	slotID := uuid.New()

	userRepo := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		userID: {ID: userID, FullName: "Тестовый Пользователь", Phone: "+79990001122"},
	}}
	scheduleRepo := &fakeScheduleRepo{slots: map[uuid.UUID]*model.ScheduleSlot{
		slotID: {ID: slotID, DoctorID: uuid.New(), TimeOfDay: "08:00"},
	}}

	svc := booking.NewService(
		&fakeAppointmentRepo{bySlot: make(map[uuid.UUID]*model.Appointment)},
		userRepo,
		scheduleRepo,
		event.NewService(fakeOutboxRepo{}),
		nil,
	)

	jwtSvc := authpkg.NewJWTService("test-secret", time.Hour)
	token, err := jwtSvc.GenerateAccessToken(userID, "+79990001122")
	require.NoError(t, err)

	router := gin.New()
	NewHandler(svc, middleware.NewAuthMiddleware(jwtSvc)).RegisterRoutes(router.Group("/api/v1"))

	return &fixture{
		router: router,
		token:  token,
		userID: userID,
		slotID: slotID,
	}
}

func (f *fixture) book(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(gin.H{
		"user_id":     f.userID.String(),
		"schedule_id": f.slotID.String(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	f := newFixture(t)

	w := f.book(t, f.token)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, f.userID, resp.Data.UserID)
	assert.Equal(t, f.slotID, resp.Data.ScheduleID)
}

func TestCreateAppointmentEndpointConflict(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusCreated, f.book(t, f.token).Code)
	assert.Equal(t, http.StatusConflict, f.book(t, f.token).Code)
}

func TestCreateAppointmentRequiresToken(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.book(t, "").Code)
}

func TestCreateAppointmentRejectsBadToken(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.book(t, "not-a-token").Code)
}

func TestListUserAppointmentsRequiresToken(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+f.userID.String()+"/appointments", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUserAppointments(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.book(t, f.token).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+f.userID.String()+"/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []*model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, f.slotID, resp.Data[0].ScheduleID)
}
