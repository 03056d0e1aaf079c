package user

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/repository"
	"github.com/polyclinicapp/booking-api/internal/service/event"
	"github.com/polyclinicapp/booking-api/pkg/auth"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
	"github.com/polyclinicapp/booking-api/pkg/metrics"
	"github.com/polyclinicapp/booking-api/pkg/validate"
)

// Service is the identity store: registration and phone-based login. All
// input validation happens here, before any storage access.
type Service struct {
	repo     repository.UserRepository
	jwtSvc   auth.JWTService
	eventSvc *event.Service
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(repo repository.UserRepository, jwtSvc auth.JWTService, eventSvc *event.Service, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		jwtSvc:   jwtSvc,
		eventSvc: eventSvc,
		metrics:  m,
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := validate.FullName(req.FullName); err != nil {
		return nil, err
	}

	phone, err := validate.Phone(req.Phone)
	if err != nil {
		return nil, err
	}

	if err := validate.Gender(req.Gender); err != nil {
		return nil, err
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, apperrors.Validation("birth date must be in YYYY-MM-DD format")
	}
	if err := validate.BirthDate(birthDate, s.now()); err != nil {
		return nil, err
	}

	user := &model.User{
		FullName:  req.FullName,
		Phone:     phone,
		Gender:    model.Gender(req.Gender),
		BirthDate: birthDate,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RegistrationsTotal.Inc()
	}

	if err := s.eventSvc.Emit(ctx, model.EventUserRegistered, user); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to emit registration event")
	}

	return user, nil
}

// Login resolves a phone number to a user and issues an access token.
func (s *Service) Login(ctx context.Context, rawPhone string) (*model.TokenResponse, error) {
	phone, err := validate.Phone(rawPhone)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		User:        user,
	}, nil
}
