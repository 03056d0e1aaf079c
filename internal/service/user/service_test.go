package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/service/event"
	"github.com/polyclinicapp/booking-api/pkg/auth"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
)

type fakeUserRepo struct {
	byPhone     map[string]*model.User
	createCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byPhone: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.createCalls++
	if _, ok := f.byPhone[user.Phone]; ok {
		return apperrors.DuplicatePhone(user.Phone)
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	f.byPhone[user.Phone] = user
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

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.byPhone)), nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, evt *model.OutboxEvent) error {
	evt.ID = uuid.New()
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) MarkProcessed(context.Context, uuid.UUID) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(context.Context, uuid.UUID, string) error { return nil }

func (f *fakeOutboxRepo) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func newTestService(repo *fakeUserRepo, outbox *fakeOutboxRepo) *Service {
	svc := NewService(repo, auth.NewJWTService("test-secret", time.Hour), event.NewService(outbox), nil)
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func validRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		FullName:  "Тестовый Пользователь",
		Phone:     "89990001122",
		Gender:    "Мужской",
		BirthDate: "1980-01-01",
	}
}

func TestRegisterCanonicalizesPhone(t *testing.T) {
	repo := newFakeUserRepo()
	outbox := &fakeOutboxRepo{}
	svc := newTestService(repo, outbox)

	u, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "+79990001122", u.Phone)
	assert.NotEqual(t, uuid.Nil, u.ID)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventUserRegistered, outbox.events[0].EventType)
}

func TestRegisterValidatesBeforeStorage(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeOutboxRepo{})

	tests := []struct {
		name   string
		mutate func(*model.RegisterRequest)
	}{
		{"bad phone", func(r *model.RegisterRequest) { r.Phone = "12345" }},
		{"single word name", func(r *model.RegisterRequest) { r.FullName = "Иванов" }},
		{"bad gender", func(r *model.RegisterRequest) { r.Gender = "unknown" }},
		{"too young", func(r *model.RegisterRequest) { r.BirthDate = "2020-01-01" }},
		{"too old", func(r *model.RegisterRequest) { r.BirthDate = "1900-01-01" }},
		{"malformed date", func(r *model.RegisterRequest) { r.BirthDate = "01.01.1980" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Register(context.Background(), req)
			assert.True(t, errors.Is(err, apperrors.Validation("")), "want validation error, got %v", err)
		})
	}

	// None of the rejected requests reached the repository.
	assert.Zero(t, repo.createCalls)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeOutboxRepo{})

	first, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	// Same canonical phone typed with the other prefix.
	req := validRequest()
	req.Phone = "+79990001122"
	req.FullName = "Другой Человек"

	_, err = svc.Register(context.Background(), req)
	assert.True(t, errors.Is(err, apperrors.DuplicatePhone("")), "want duplicate phone, got %v", err)

	// The first registration is unaffected.
	got, err := svc.repo.GetByPhone(context.Background(), "+79990001122")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Тестовый Пользователь", got.FullName)
}

func TestLoginByPhone(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeOutboxRepo{})

	registered, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	// Login accepts the 8-prefixed variant of the stored +7 phone.
	tokens, err := svc.Login(context.Background(), "89990001122")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, registered.ID, tokens.User.ID)
}

func TestLoginUnknownPhone(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeOutboxRepo{})

	_, err := svc.Login(context.Background(), "+79990009999")
	assert.True(t, errors.Is(err, apperrors.NotFound("user")), "want not found, got %v", err)
}

func TestLoginRejectsMalformedPhone(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeOutboxRepo{})

	_, err := svc.Login(context.Background(), "not-a-phone")
	assert.True(t, errors.Is(err, apperrors.Validation("")), "want validation error, got %v", err)
}
