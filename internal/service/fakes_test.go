package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/models"
	"neowatch/internal/repository"
)

type memAsteroidRepo struct {
	mu        sync.Mutex
	nextID    uint
	rows      []models.Asteroid
	failNames map[string]bool
	listErr   error
}

func newMemAsteroidRepo() *memAsteroidRepo {
	return &memAsteroidRepo{failNames: map[string]bool{}}
}

func (r *memAsteroidRepo) Create(ctx context.Context, a *models.Asteroid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNames[a.Name] {
		return errors.New("insert failed")
	}
	r.nextID++
	a.ID = r.nextID
	r.rows = append(r.rows, *a)
	return nil
}

func (r *memAsteroidRepo) GetByID(ctx context.Context, id uint) (*models.Asteroid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, fmt.Errorf("asteroid %d: %w", id, repository.ErrNotFound)
}

func (r *memAsteroidRepo) ListAll(ctx context.Context) ([]models.Asteroid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Asteroid, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *memAsteroidRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type stubNEOClient struct {
	entries []clients.RawFeedEntry
	err     error
	calls   int
	dates   []time.Time
}

func (c *stubNEOClient) FetchEntriesForDate(ctx context.Context, date time.Time) ([]clients.RawFeedEntry, error) {
	c.calls++
	c.dates = append(c.dates, date)
	if c.err != nil {
		return nil, c.err
	}
	return c.entries, nil
}

type memCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.ttls[key] = expiration
	return nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }

type memUserRepo struct {
	nextID uint
	users  map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, repository.ErrNotFound)
	}
	found := *u
	return &found, nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}
