package handlers

import (
	"context"
	"fmt"
	"time"

	"neowatch/internal/models"
	"neowatch/internal/repository"
	"neowatch/internal/service"
)

type fakeAsteroidService struct {
	rows    []models.Asteroid
	listErr error
	getErr  error
}

func (s *fakeAsteroidService) List(ctx context.Context) ([]models.Asteroid, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rows, nil
}

func (s *fakeAsteroidService) Get(ctx context.Context, id uint) (*models.Asteroid, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, a := range s.rows {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, fmt.Errorf("asteroid %d: %w", id, repository.ErrNotFound)
}

func (s *fakeAsteroidService) Count(ctx context.Context) (int64, error) {
	return int64(len(s.rows)), nil
}

type fakeImportService struct {
	result *service.ImportResult
	err    error
	calls  int
	dates  []time.Time
}

func (s *fakeImportService) Import(ctx context.Context, date time.Time) (*service.ImportResult, error) {
	s.calls++
	s.dates = append(s.dates, date)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type fakeIndicatorService struct {
	indicators *service.Indicators
	err        error
}

func (s *fakeIndicatorService) GetIndicators(ctx context.Context) (*service.Indicators, error) {
	return s.indicators, s.err
}

type fakeExportService struct {
	err error
}

func (s *fakeExportService) Export(ctx context.Context, format string) (*service.ExportFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if format != "csv" {
		return nil, fmt.Errorf("%w: %s", service.ErrUnsupportedFormat, format)
	}
	return &service.ExportFile{
		Name:        "asteroids_20250722_000000.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("id,name\n1,Apophis\n"),
	}, nil
}

type fakeAuthService struct {
	users map[string]string
}

func (s *fakeAuthService) Register(ctx context.Context, input service.RegisterInput) (*models.User, error) {
	if _, ok := s.users[input.Username]; ok {
		return nil, service.ErrUsernameTaken
	}
	s.users[input.Username] = input.Password
	return &models.User{ID: uint(len(s.users)), Username: input.Username, Email: input.Email, FirstName: input.FirstName}, nil
}

func (s *fakeAuthService) Login(ctx context.Context, username, password string) (*service.TokenPair, error) {
	if pw, ok := s.users[username]; !ok || pw != password {
		return nil, service.ErrInvalidCredentials
	}
	return &service.TokenPair{Access: "access-" + username, Refresh: "refresh-" + username}, nil
}

func (s *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken != "refresh-alice" {
		return "", service.ErrInvalidToken
	}
	return "access-alice", nil
}

func (s *fakeAuthService) ParseAccessToken(token string) (*service.Claims, error) {
	if token != "access-alice" {
		return nil, service.ErrInvalidToken
	}
	return &service.Claims{UserID: 1, Username: "alice", TokenType: service.TokenTypeAccess}, nil
}
