package auth

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

	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/service/event"
	"github.com/polyclinicapp/booking-api/internal/service/user"
	authpkg "github.com/polyclinicapp/booking-api/pkg/auth"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
)

type fakeUserRepo struct {
	byPhone map[string]*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if _, ok := f.byPhone[u.Phone]; ok {
		return apperrors.DuplicatePhone(u.Phone)
	}
	u.ID = uuid.New()
	f.byPhone[u.Phone] = u
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byPhone {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (f *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	u, ok := f.byPhone[phone]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return u, nil
}

func (f *fakeUserRepo) Count(context.Context) (int64, error) {
	return int64(len(f.byPhone)), nil
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

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := user.NewService(
		&fakeUserRepo{byPhone: make(map[string]*model.User)},
		authpkg.NewJWTService("test-secret", time.Hour),
		event.NewService(fakeOutboxRepo{}),
		nil,
	)

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerBody() gin.H {
	return gin.H{
		"full_name":  "Тестовый Пользователь",
		"phone":      "89990001122",
		"gender":     "Мужской",
		"birth_date": "1980-01-01",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool       `json:"success"`
		Data    model.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "+79990001122", resp.Data.Phone)
}

func TestRegisterEndpointMissingFields(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{"phone": "89990001122"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterEndpointDuplicatePhone(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)

	body := registerBody()
	body["phone"] = "+79990001122"
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{"phone": "+79990001122"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)
}

func TestLoginEndpointUnknownPhone(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{"phone": "+79990009999"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
