package service

import (
	"context"

	"neowatch/internal/models"
	"neowatch/internal/repository"
)

// AsteroidService serves read access to stored records.
type AsteroidService interface {
	List(ctx context.Context) ([]models.Asteroid, error)
	// Get returns repository.ErrNotFound (wrapped) for unknown ids.
	Get(ctx context.Context, id uint) (*models.Asteroid, error)
	Count(ctx context.Context) (int64, error)
}

type asteroidService struct {
	repo repository.AsteroidRepository
}

func NewAsteroidService(repo repository.AsteroidRepository) AsteroidService {
	return &asteroidService{repo: repo}
}

func (s *asteroidService) List(ctx context.Context) ([]models.Asteroid, error) {
	asteroids, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if asteroids == nil {
		asteroids = []models.Asteroid{}
	}
	return asteroids, nil
}

func (s *asteroidService) Get(ctx context.Context, id uint) (*models.Asteroid, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *asteroidService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
