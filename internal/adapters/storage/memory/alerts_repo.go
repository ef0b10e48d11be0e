package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"farm-health-dashboard/internal/domain/alerts"
	"farm-health-dashboard/internal/ports/backend"

	"github.com/google/uuid"
)

type AlertsRepo struct {
	mu      sync.RWMutex
	byID    map[string]alerts.HealthAlert
	animals *AnimalsRepo
	now     func() time.Time
}

// NewAlertsRepo recibe el repo de animales para resolver el join
// name/type en memoria, igual que lo haría el backend.
func NewAlertsRepo(animalsRepo *AnimalsRepo) *AlertsRepo {
	return &AlertsRepo{
		byID:    make(map[string]alerts.HealthAlert),
		animals: animalsRepo,
		now:     time.Now,
	}
}

func (r *AlertsRepo) Create(ctx context.Context, a alerts.HealthAlert) (alerts.HealthAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = uuid.NewString()
	a.Resolved = false
	a.ResolvedAt = nil
	a.CreatedAt = r.now()

	r.byID[a.ID] = a
	return a, nil
}

func (r *AlertsRepo) List(ctx context.Context, f alerts.Filter) ([]alerts.AlertWithAnimal, error) {
	r.mu.RLock()
	items := make([]alerts.HealthAlert, 0, len(r.byID))
	for _, a := range r.byID {
		switch f {
		case alerts.FilterActive:
			if a.Resolved {
				continue
			}
		case alerts.FilterResolved:
			if !a.Resolved {
				continue
			}
		}
		items = append(items, a)
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	out := make([]alerts.AlertWithAnimal, 0, len(items))
	for _, a := range items {
		item := alerts.AlertWithAnimal{HealthAlert: a}
		if r.animals != nil {
			if name, typ, ok := r.animals.ref(a.AnimalID); ok {
				item.Animal = &alerts.AnimalRef{Name: name, Type: typ}
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *AlertsRepo) GetByID(ctx context.Context, id string) (alerts.HealthAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return alerts.HealthAlert{}, backend.ErrNotFound
	}
	return a, nil
}

func (r *AlertsRepo) MarkResolved(ctx context.Context, id string, at time.Time) (alerts.HealthAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.Resolved {
		// Misma semántica que el update condicional del backend:
		// sin fila activa que tocar, no hay update.
		return alerts.HealthAlert{}, backend.ErrNotFound
	}

	a.Resolved = true
	a.ResolvedAt = &at
	r.byID[id] = a
	return a, nil
}
