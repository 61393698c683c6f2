package clients

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FeedResponse is the envelope of the NeoWs /feed endpoint. Entries stay
// undecoded so one malformed object cannot fail the whole day.
type FeedResponse struct {
	ElementCount     int                       `json:"element_count"`
	NearEarthObjects map[string][]RawFeedEntry `json:"near_earth_objects"`
}

// RawFeedEntry is one near_earth_objects element as received.
type RawFeedEntry json.RawMessage

func (e RawFeedEntry) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	return e, nil
}

func (e *RawFeedEntry) UnmarshalJSON(data []byte) error {
	*e = append((*e)[0:0], data...)
	return nil
}

// Decode parses the entry into its typed form.
func (e RawFeedEntry) Decode() (*NEOObject, error) {
	var obj NEOObject
	if err := json.Unmarshal(e, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// NEOObject mirrors the subset of a NeoWs object the importer reads. Every
// field is optional on the wire.
type NEOObject struct {
	ID                             *string            `json:"id"`
	Name                           *string            `json:"name"`
	AbsoluteMagnitudeH             *float64           `json:"absolute_magnitude_h"`
	EstimatedDiameter              *EstimatedDiameter `json:"estimated_diameter"`
	IsPotentiallyHazardousAsteroid *bool              `json:"is_potentially_hazardous_asteroid"`
	IsSentryObject                 *bool              `json:"is_sentry_object"`
	CloseApproachData              []CloseApproach    `json:"close_approach_data"`
}

type EstimatedDiameter struct {
	Meters *DiameterRange `json:"meters"`
}

type DiameterRange struct {
	EstimatedDiameterMin *float64 `json:"estimated_diameter_min"`
	EstimatedDiameterMax *float64 `json:"estimated_diameter_max"`
}

type CloseApproach struct {
	CloseApproachDate *string           `json:"close_approach_date"`
	RelativeVelocity  *RelativeVelocity `json:"relative_velocity"`
}

// RelativeVelocity values are numeric strings in the feed, though bare
// numbers are accepted too.
type RelativeVelocity struct {
	KilometersPerSecond *NumericString `json:"kilometers_per_second"`
}

// NumericString holds a JSON string or number as its literal text.
type NumericString string

func (n *NumericString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("kilometers_per_second: expected string or number, got %s", data)
	}
	*n = NumericString(num)
	return nil
}

// Meters returns the metric diameter range, or nil when absent.
func (o *NEOObject) Meters() *DiameterRange {
	if o.EstimatedDiameter == nil {
		return nil
	}
	return o.EstimatedDiameter.Meters
}

// FirstVelocity returns the km/s string of the first close approach.
func (o *NEOObject) FirstVelocity() (string, bool) {
	if len(o.CloseApproachData) == 0 {
		return "", false
	}
	rv := o.CloseApproachData[0].RelativeVelocity
	if rv == nil || rv.KilometersPerSecond == nil || *rv.KilometersPerSecond == "" {
		return "", false
	}
	return string(*rv.KilometersPerSecond), true
}

func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	return strings.ReplaceAll(s, key, "***")
}
