package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/repository"
)

const (
	directoryCacheKey = "doctors"
	directoryCacheTTL = 30 * time.Second
)

// Service is the read-mostly doctor directory. The listing is cached briefly;
// slot availability is never cached anywhere in this codebase.
type Service struct {
	repo  repository.DoctorRepository
	cache *gocache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(directoryCacheTTL, 2*directoryCacheTTL),
	}
}

// ListDoctors returns all doctors in insertion order.
func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	if cached, ok := s.cache.Get(directoryCacheKey); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	s.cache.SetDefault(directoryCacheKey, doctors)
	return doctors, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}
