// Package memory implementa los repositorios sobre mapas con RWMutex.
// Sirve para modo dev sin backend y para la suite end-to-end.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"farm-health-dashboard/internal/domain/animals"
	"farm-health-dashboard/internal/ports/backend"

	"github.com/google/uuid"
)

type AnimalsRepo struct {
	mu   sync.RWMutex
	byID map[string]animals.Animal
	now  func() time.Time
}

func NewAnimalsRepo() *AnimalsRepo {
	return &AnimalsRepo{
		byID: make(map[string]animals.Animal),
		now:  time.Now,
	}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Paridad con el backend real: id y created_at los pone el storage.
	a.ID = uuid.NewString()
	a.CreatedAt = r.now()

	r.byID[a.ID] = a
	return a, nil
}

func (r *AnimalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}

	// Más nuevos primero, como ordena el backend.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *AnimalsRepo) UpdateByID(ctx context.Context, id string, u animals.Update) (animals.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, backend.ErrNotFound
	}

	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Type != nil {
		a.Type = *u.Type
	}
	if u.AgeMonths != nil {
		a.AgeMonths = *u.AgeMonths
	}
	if u.WeightKg != nil {
		a.WeightKg = *u.WeightKg
	}
	if u.HealthStatus != nil {
		a.HealthStatus = animals.HealthStatus(*u.HealthStatus)
	}
	if u.PenLocation != nil {
		a.PenLocation = *u.PenLocation
	}
	if u.LastChecked != nil {
		a.LastChecked = u.LastChecked
	}

	r.byID[id] = a
	return a, nil
}

func (r *AnimalsRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return backend.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// ref devuelve name/type para el join de alerts/analyses.
func (r *AnimalsRepo) ref(id string) (name, typ string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return "", "", false
	}
	return a.Name, a.Type, true
}
