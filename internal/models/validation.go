package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// UnknownAsteroidName labels rejected entries that carry no name.
const UnknownAsteroidName = "Unknown Asteroid"

// AsteroidCandidate holds the fields extracted from one feed entry before
// validation. A nil pointer means the feed did not provide the value.
type AsteroidCandidate struct {
	Name                           string    `json:"name" validate:"required"`
	EstimatedDiameterMinMeters     *float64  `json:"estimated_diameter_min_meters" validate:"required"`
	EstimatedDiameterMaxMeters     *float64  `json:"estimated_diameter_max_meters" validate:"required"`
	RelativeVelocityKmPerSecond    *float64  `json:"relative_velocity_km_per_second" validate:"required"`
	AbsoluteMagnitudeH             *float64  `json:"absolute_magnitude_h" validate:"required"`
	IsPotentiallyHazardousAsteroid *bool     `json:"is_potentially_hazardous_asteroid" validate:"required"`
	IsSentryObject                 *bool     `json:"is_sentry_object" validate:"required"`
	ImportedDate                   time.Time `json:"imported_date" validate:"required"`

	// InvalidFields lists fields that were present but could not be parsed.
	InvalidFields []string `json:"-" validate:"-"`
	// Raw is the source payload, stored alongside the record.
	Raw []byte `json:"-" validate:"-"`
}

// ValidationError describes why a candidate was not accepted.
type ValidationError struct {
	Name    string
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return "invalid asteroid record"
	}
	return strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DisplayName is the candidate name, or a placeholder when it has none.
func (c *AsteroidCandidate) DisplayName() string {
	if c.Name == "" {
		return UnknownAsteroidName
	}
	return c.Name
}

func (c *AsteroidCandidate) isInvalid(field string) bool {
	for _, f := range c.InvalidFields {
		if f == field {
			return true
		}
	}
	return false
}

// Validate checks that every required field is present and builds the
// storable record. Diameter ordering and sign are not checked.
func (c *AsteroidCandidate) Validate() (*Asteroid, error) {
	verr := &ValidationError{Name: c.DisplayName(), Invalid: c.InvalidFields}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("validate asteroid %q: %w", c.DisplayName(), err)
		}
		for _, fe := range fieldErrs {
			if !c.isInvalid(fe.Field()) {
				verr.Missing = append(verr.Missing, fe.Field())
			}
		}
	}

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return nil, verr
	}

	y, m, d := c.ImportedDate.Date()

	return &Asteroid{
		Name:                           c.Name,
		EstimatedDiameterMinMeters:     *c.EstimatedDiameterMinMeters,
		EstimatedDiameterMaxMeters:     *c.EstimatedDiameterMaxMeters,
		RelativeVelocityKmPerSecond:    *c.RelativeVelocityKmPerSecond,
		AbsoluteMagnitudeH:             *c.AbsoluteMagnitudeH,
		IsPotentiallyHazardousAsteroid: *c.IsPotentiallyHazardousAsteroid,
		IsSentryObject:                 *c.IsSentryObject,
		ImportedDate:                   datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)),
		Raw:                            datatypes.JSON(c.Raw),
	}, nil
}
