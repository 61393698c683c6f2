package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format of calendar dates (feed keys, imported_date).
const DateLayout = "2006-01-02"

// Asteroid is one validated near-Earth object as stored by an import run.
// Rows are insert-only. The same object may appear once per import.
type Asteroid struct {
	ID                             uint           `gorm:"primaryKey" json:"id"`
	Name                           string         `gorm:"type:varchar(255);not null;index" json:"name"`
	EstimatedDiameterMinMeters     float64        `gorm:"not null" json:"estimated_diameter_min_meters"`
	EstimatedDiameterMaxMeters     float64        `gorm:"not null" json:"estimated_diameter_max_meters"`
	RelativeVelocityKmPerSecond    float64        `gorm:"not null" json:"relative_velocity_km_per_second"`
	AbsoluteMagnitudeH             float64        `gorm:"not null" json:"absolute_magnitude_h"`
	IsPotentiallyHazardousAsteroid bool           `gorm:"not null" json:"is_potentially_hazardous_asteroid"`
	IsSentryObject                 bool           `gorm:"not null" json:"is_sentry_object"`
	ImportedDate                   datatypes.Date `gorm:"not null;index" json:"imported_date"`
	Raw                            datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt                      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// ImportedDateString returns imported_date as YYYY-MM-DD.
func (a Asteroid) ImportedDateString() string {
	return time.Time(a.ImportedDate).Format(DateLayout)
}

// AverageDiameter is the midpoint of the estimated diameter range.
func (a Asteroid) AverageDiameter() float64 {
	return (a.EstimatedDiameterMinMeters + a.EstimatedDiameterMaxMeters) / 2
}

// MarshalJSON renders imported_date as a plain calendar date.
func (a Asteroid) MarshalJSON() ([]byte, error) {
	type alias Asteroid
	return json.Marshal(struct {
		alias
		ImportedDate string `json:"imported_date"`
	}{
		alias:        alias(a),
		ImportedDate: a.ImportedDateString(),
	})
}
