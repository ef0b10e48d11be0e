package alerts

import (
	"context"
	"errors"
	"strings"
	"time"

	"farm-health-dashboard/internal/ports/backend"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	AnimalID        string
	AlertType       string
	Severity        string
	Description     string
	ConfidenceScore float64
	Notes           string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (HealthAlert, error) {
	animalID := strings.TrimSpace(in.AnimalID)
	alertType := strings.TrimSpace(in.AlertType)
	severity := strings.TrimSpace(in.Severity)

	if animalID == "" || alertType == "" || severity == "" {
		return HealthAlert{}, ErrInvalidInput
	}
	if !ValidSeverity(severity) {
		return HealthAlert{}, ErrInvalidInput
	}
	if in.ConfidenceScore < 0 || in.ConfidenceScore > 100 {
		return HealthAlert{}, ErrInvalidInput
	}

	return s.repo.Create(ctx, HealthAlert{
		AnimalID:        animalID,
		AlertType:       alertType,
		Severity:        Severity(severity),
		Description:     strings.TrimSpace(in.Description),
		Resolved:        false,
		ConfidenceScore: in.ConfidenceScore,
		Notes:           strings.TrimSpace(in.Notes),
	})
}

func (s *Service) List(ctx context.Context, f Filter) ([]AlertWithAnimal, error) {
	if f == "" {
		f = FilterAll
	}
	return s.repo.List(ctx, f)
}

// Resolve transiciona active -> resolved estampando resolved_at una sola vez.
// Idempotente: resolver una alerta ya resuelta devuelve la misma fila sin
// re-estampar ni fallar, incluso con dos resolves concurrentes (el update
// condicional del repo pierde la carrera y acá se relee el estado terminal).
func (s *Service) Resolve(ctx context.Context, id string) (HealthAlert, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return HealthAlert{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return HealthAlert{}, err
	}
	if current.Resolved {
		return current, nil
	}

	updated, err := s.repo.MarkResolved(ctx, id, s.now())
	if errors.Is(err, backend.ErrNotFound) {
		// Carrera: otro resolve llegó primero. Releer; si quedó resuelta,
		// ese es el estado terminal y el caller ve éxito.
		again, gerr := s.repo.GetByID(ctx, id)
		if gerr == nil && again.Resolved {
			return again, nil
		}
		return HealthAlert{}, err
	}
	if err != nil {
		return HealthAlert{}, err
	}
	return updated, nil
}
