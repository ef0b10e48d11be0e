package animals

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name         string
	Type         string
	AgeMonths    int
	WeightKg     float64
	HealthStatus string
	PenLocation  string
	LastChecked  *time.Time
}

// Create valida el shape antes de tocar el backend: un input inválido
// nunca genera una llamada remota.
func (s *Service) Create(ctx context.Context, in CreateInput) (Animal, error) {
	name := strings.TrimSpace(in.Name)
	typ := strings.TrimSpace(in.Type)
	pen := strings.TrimSpace(in.PenLocation)

	if name == "" || typ == "" || pen == "" {
		return Animal{}, ErrInvalidInput
	}
	if in.AgeMonths < 0 || in.WeightKg < 0 {
		return Animal{}, ErrInvalidInput
	}

	status := strings.TrimSpace(in.HealthStatus)
	if status == "" {
		status = string(StatusHealthy)
	}
	if !ValidStatus(status) {
		return Animal{}, ErrInvalidInput
	}

	return s.repo.Create(ctx, Animal{
		Name:         name,
		Type:         typ,
		AgeMonths:    in.AgeMonths,
		WeightKg:     in.WeightKg,
		HealthStatus: HealthStatus(status),
		PenLocation:  pen,
		LastChecked:  in.LastChecked,
	})
}

func (s *Service) List(ctx context.Context) ([]Animal, error) {
	return s.repo.List(ctx)
}

// Update aplica un patch parcial validando solo los campos presentes.
func (s *Service) Update(ctx context.Context, id string, u Update) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}

	// Se valida y persiste el valor ya recortado: un " sick " con espacios
	// caería fuera de los buckets fijos de las agregaciones.
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return Animal{}, ErrInvalidInput
		}
		u.Name = &name
	}
	if u.Type != nil {
		typ := strings.TrimSpace(*u.Type)
		if typ == "" {
			return Animal{}, ErrInvalidInput
		}
		u.Type = &typ
	}
	if u.PenLocation != nil {
		pen := strings.TrimSpace(*u.PenLocation)
		if pen == "" {
			return Animal{}, ErrInvalidInput
		}
		u.PenLocation = &pen
	}
	if u.AgeMonths != nil && *u.AgeMonths < 0 {
		return Animal{}, ErrInvalidInput
	}
	if u.WeightKg != nil && *u.WeightKg < 0 {
		return Animal{}, ErrInvalidInput
	}
	if u.HealthStatus != nil {
		status := strings.TrimSpace(*u.HealthStatus)
		if !ValidStatus(status) {
			return Animal{}, ErrInvalidInput
		}
		u.HealthStatus = &status
	}

	if u.Name == nil && u.Type == nil && u.PenLocation == nil &&
		u.AgeMonths == nil && u.WeightKg == nil && u.HealthStatus == nil &&
		u.LastChecked == nil {
		return Animal{}, ErrInvalidInput
	}

	return s.repo.UpdateByID(ctx, id, u)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByID(ctx, id)
}
