package repository

import (
	"context"
	"errors"
	"fmt"

	"neowatch/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

type AsteroidRepository interface {
	Create(ctx context.Context, asteroid *models.Asteroid) error
	GetByID(ctx context.Context, id uint) (*models.Asteroid, error)
	// ListAll returns the whole collection in ascending id order.
	ListAll(ctx context.Context) ([]models.Asteroid, error)
	Count(ctx context.Context) (int64, error)
}

type asteroidRepository struct {
	db *gorm.DB
}

func NewAsteroidRepository(db *gorm.DB) AsteroidRepository {
	return &asteroidRepository{db: db}
}

func (r *asteroidRepository) Create(ctx context.Context, asteroid *models.Asteroid) error {
	return r.db.WithContext(ctx).Create(asteroid).Error
}

func (r *asteroidRepository) GetByID(ctx context.Context, id uint) (*models.Asteroid, error) {
	var asteroid models.Asteroid
	err := r.db.WithContext(ctx).First(&asteroid, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("asteroid %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &asteroid, nil
}

func (r *asteroidRepository) ListAll(ctx context.Context) ([]models.Asteroid, error) {
	asteroids := make([]models.Asteroid, 0)
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&asteroids).
		Error
	return asteroids, err
}

func (r *asteroidRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Asteroid{}).
		Count(&count).
		Error
	return count, err
}
