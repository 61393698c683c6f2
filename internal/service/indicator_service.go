package service

import (
	"context"
	"fmt"
	"math"

	"neowatch/internal/models"
	"neowatch/internal/repository"

	"github.com/shopspring/decimal"
)

type IndicatorService interface {
	GetIndicators(ctx context.Context) (*Indicators, error)
}

// Indicators is the statistics bundle served by /indicadores/. Statistical
// fields are nil when the collection is empty.
type Indicators struct {
	TotalAsteroids                      int              `json:"total_asteroids"`
	UniqueAsteroidsByName               int              `json:"unique_asteroids_by_name"`
	UniquePotentiallyHazardousAsteroids int              `json:"unique_potentially_hazardous_asteroids"`
	AvgVelocityKmPerSecond              *float64         `json:"avg_velocity_km_per_second"`
	FastestAsteroid                     *AsteroidExtreme `json:"fastest_asteroid"`
	SlowestAsteroid                     *AsteroidExtreme `json:"slowest_asteroid"`
	AvgDiameterMeters                   *float64         `json:"avg_diameter_meters"`
	LargestAsteroid                     *AsteroidExtreme `json:"largest_asteroid"`
	SmallestAsteroid                    *AsteroidExtreme `json:"smallest_asteroid"`
	// AsteroidsByDate keys are YYYY-MM-DD; encoding/json emits them sorted.
	AsteroidsByDate    map[string]int `json:"asteroids_by_date"`
	AvgAsteroidsPerDay *float64       `json:"avg_asteroids_per_day"`
}

// AsteroidExtreme names the record holding a maximum or minimum.
type AsteroidExtreme struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type indicatorService struct {
	repo repository.AsteroidRepository
}

func NewIndicatorService(repo repository.AsteroidRepository) IndicatorService {
	return &indicatorService{repo: repo}
}

func (s *indicatorService) GetIndicators(ctx context.Context) (*Indicators, error) {
	asteroids, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load asteroids: %w", err)
	}
	return ComputeIndicators(asteroids), nil
}

// ComputeIndicators builds the bundle over asteroids. Ties on extremes go to
// the earliest record in the given order.
func ComputeIndicators(asteroids []models.Asteroid) *Indicators {
	ind := &Indicators{AsteroidsByDate: make(map[string]int)}
	if len(asteroids) == 0 {
		return ind
	}

	names := make(map[string]struct{})
	hazardousNames := make(map[string]struct{})

	var sumVelocity, sumMin, sumMax float64
	first := asteroids[0]
	fastest := extremeOf(first, first.RelativeVelocityKmPerSecond)
	slowest := fastest
	largest := extremeOf(first, first.EstimatedDiameterMaxMeters)
	smallest := extremeOf(first, first.EstimatedDiameterMinMeters)

	for _, a := range asteroids {
		names[a.Name] = struct{}{}
		if a.IsPotentiallyHazardousAsteroid {
			hazardousNames[a.Name] = struct{}{}
		}

		sumVelocity += a.RelativeVelocityKmPerSecond
		sumMin += a.EstimatedDiameterMinMeters
		sumMax += a.EstimatedDiameterMaxMeters

		if a.RelativeVelocityKmPerSecond > fastest.Value {
			fastest = extremeOf(a, a.RelativeVelocityKmPerSecond)
		}
		if a.RelativeVelocityKmPerSecond < slowest.Value {
			slowest = extremeOf(a, a.RelativeVelocityKmPerSecond)
		}
		if a.EstimatedDiameterMaxMeters > largest.Value {
			largest = extremeOf(a, a.EstimatedDiameterMaxMeters)
		}
		if a.EstimatedDiameterMinMeters < smallest.Value {
			smallest = extremeOf(a, a.EstimatedDiameterMinMeters)
		}

		ind.AsteroidsByDate[a.ImportedDateString()]++
	}

	n := float64(len(asteroids))
	avgMin := sumMin / n
	avgMax := sumMax / n

	ind.TotalAsteroids = len(asteroids)
	ind.UniqueAsteroidsByName = len(names)
	ind.UniquePotentiallyHazardousAsteroids = len(hazardousNames)
	ind.AvgVelocityKmPerSecond = roundPtr(sumVelocity / n)
	ind.FastestAsteroid = &fastest
	ind.SlowestAsteroid = &slowest
	ind.AvgDiameterMeters = roundPtr((avgMin + avgMax) / 2)
	ind.LargestAsteroid = &largest
	ind.SmallestAsteroid = &smallest
	ind.AvgAsteroidsPerDay = roundPtr(n / float64(len(ind.AsteroidsByDate)))

	return ind
}

func extremeOf(a models.Asteroid, value float64) AsteroidExtreme {
	return AsteroidExtreme{ID: a.ID, Name: a.Name, Value: value}
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundPtr(v float64) *float64 {
	r := Round2(v)
	return &r
}
