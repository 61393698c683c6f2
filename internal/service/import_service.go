package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/models"
	"neowatch/internal/repository"
	"neowatch/pkg/logger"
	"neowatch/pkg/metrics"
)

// ErrInvalidDateFormat is returned for import dates that are not YYYY-MM-DD.
var ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")

const (
	reasonMalformedEntry = "malformed feed entry"
	reasonStoreFailed    = "failed to store record"
)

type ImportService interface {
	// Import fetches the feed for date and stores every valid entry.
	// Only a feed failure is returned as an error; rejected entries are
	// reported in the result.
	Import(ctx context.Context, date time.Time) (*ImportResult, error)
}

type ImportResult struct {
	Date          string        `json:"date"`
	AcceptedCount int           `json:"accepted_count"`
	Errors        []ImportError `json:"errors"`
}

type ImportError struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *ImportResult) reject(name, reason string) {
	r.Errors = append(r.Errors, ImportError{Name: name, Reason: reason})
}

type ImportConfig struct {
	// FeedCacheTTL enables the redis feed cache when positive.
	FeedCacheTTL time.Duration
}

type importService struct {
	repo     repository.AsteroidRepository
	cache    repository.CacheRepository
	client   clients.NEOClient
	metrics  *metrics.Metrics
	log      logger.Logger
	cacheTTL time.Duration
}

// NewImportService wires the pipeline. cache may be nil.
func NewImportService(
	repo repository.AsteroidRepository,
	cache repository.CacheRepository,
	client clients.NEOClient,
	m *metrics.Metrics,
	log logger.Logger,
	config ImportConfig,
) ImportService {
	return &importService{
		repo:     repo,
		cache:    cache,
		client:   client,
		metrics:  m,
		log:      log,
		cacheTTL: config.FeedCacheTTL,
	}
}

func (s *importService) Import(ctx context.Context, date time.Time) (*ImportResult, error) {
	day := date.Format(models.DateLayout)
	log := s.log.With("import_date", day)

	entries, err := s.fetchEntries(ctx, date)
	if err != nil {
		s.metrics.ImportsTotal.WithLabelValues("feed_error").Inc()
		log.Error("Feed fetch failed", "error", err)
		return nil, err
	}

	// The batch runs to completion even if the caller goes away.
	storeCtx := context.WithoutCancel(ctx)

	result := &ImportResult{Date: day, Errors: make([]ImportError, 0)}

	for _, entry := range entries {
		asteroid, err := BuildAsteroid(entry, date)
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				result.reject(verr.Name, verr.Error())
			} else {
				result.reject(entryName(entry), reasonMalformedEntry)
			}
			continue
		}

		if err := s.repo.Create(storeCtx, asteroid); err != nil {
			log.Error("Failed to store asteroid", "name", asteroid.Name, "error", err)
			result.reject(asteroid.Name, reasonStoreFailed)
			continue
		}

		result.AcceptedCount++
	}

	s.metrics.RecordsAccepted.Add(float64(result.AcceptedCount))
	s.metrics.RecordsRejected.Add(float64(len(result.Errors)))
	if result.HasErrors() {
		s.metrics.ImportsTotal.WithLabelValues("partial").Inc()
	} else {
		s.metrics.ImportsTotal.WithLabelValues("created").Inc()
	}

	log.Info("Import finished",
		"entries", len(entries),
		"accepted", result.AcceptedCount,
		"rejected", len(result.Errors))

	return result, nil
}

func (s *importService) fetchEntries(ctx context.Context, date time.Time) ([]clients.RawFeedEntry, error) {
	cacheKey := fmt.Sprintf("neo:feed:%s", date.Format(models.DateLayout))
	useCache := s.cache != nil && s.cacheTTL > 0

	if useCache {
		var cached []clients.RawFeedEntry
		found, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			s.log.Warn("Feed cache read failed", "key", cacheKey, "error", err)
		} else if found {
			s.log.Debug("Feed cache hit", "key", cacheKey, "entries", len(cached))
			return cached, nil
		}
	}

	start := time.Now()
	entries, err := s.client.FetchEntriesForDate(ctx, date)
	s.metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := s.cache.SetJSON(ctx, cacheKey, entries, s.cacheTTL); err != nil {
			s.log.Warn("Feed cache write failed", "key", cacheKey, "error", err)
		}
	}

	return entries, nil
}

// BuildAsteroid maps one feed entry to a validated record imported on date.
func BuildAsteroid(entry clients.RawFeedEntry, date time.Time) (*models.Asteroid, error) {
	obj, err := entry.Decode()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", reasonMalformedEntry, err)
	}

	candidate := ExtractCandidate(obj, date)
	candidate.Raw = entry

	return candidate.Validate()
}

// ExtractCandidate copies the feed fields into a candidate. Velocity comes
// from the first close approach only.
func ExtractCandidate(obj *clients.NEOObject, date time.Time) *models.AsteroidCandidate {
	candidate := &models.AsteroidCandidate{
		AbsoluteMagnitudeH:             obj.AbsoluteMagnitudeH,
		IsPotentiallyHazardousAsteroid: obj.IsPotentiallyHazardousAsteroid,
		IsSentryObject:                 obj.IsSentryObject,
		ImportedDate:                   date,
	}

	if obj.Name != nil {
		candidate.Name = *obj.Name
	}

	if meters := obj.Meters(); meters != nil {
		candidate.EstimatedDiameterMinMeters = meters.EstimatedDiameterMin
		candidate.EstimatedDiameterMaxMeters = meters.EstimatedDiameterMax
	}

	if raw, ok := obj.FirstVelocity(); ok {
		velocity, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(velocity) || math.IsInf(velocity, 0) {
			candidate.InvalidFields = append(candidate.InvalidFields, "relative_velocity_km_per_second")
		} else {
			candidate.RelativeVelocityKmPerSecond = &velocity
		}
	}

	return candidate
}

// entryName reads the name of an entry that failed typed decoding.
func entryName(entry clients.RawFeedEntry) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return models.UnknownAsteroidName
	}

	var name string
	if err := json.Unmarshal(fields["name"], &name); err != nil || name == "" {
		return models.UnknownAsteroidName
	}
	return name
}

// ParseImportDate parses a YYYY-MM-DD date. An empty value means the
// calendar date of now.
func ParseImportDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return Today(now), nil
	}
	return ParseDate(value)
}

// ParseDate parses an exact YYYY-MM-DD date. Surrounding whitespace is an
// error.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
	}
	return date, nil
}

// Today is the calendar date of now at UTC midnight.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
