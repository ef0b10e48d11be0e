package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"farm-health-dashboard/internal/domain/animals"
	"farm-health-dashboard/internal/ports/backend"
)

type AnimalsRepo struct {
	client *Client
}

func NewAnimalsRepo(client *Client) *AnimalsRepo {
	return &AnimalsRepo{client: client}
}

// animalRow es la fila cruda de la tabla animals. Se decodifica una sola
// vez acá, en el borde; el resto del sistema solo ve el tipo del dominio.
type animalRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	AgeMonths    int       `json:"age_months"`
	WeightKg     float64   `json:"weight_kg"`
	HealthStatus string    `json:"health_status"`
	PenLocation  string    `json:"pen_location"`
	LastChecked  *string   `json:"last_checked"`
	CreatedAt    time.Time `json:"created_at"`
}

// animalInsert es el payload de insert: sin id ni created_at, los pone el backend.
type animalInsert struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	AgeMonths    int     `json:"age_months"`
	WeightKg     float64 `json:"weight_kg"`
	HealthStatus string  `json:"health_status"`
	PenLocation  string  `json:"pen_location"`
	LastChecked  *string `json:"last_checked,omitempty"`
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	var rows []animalRow
	err := r.client.write(ctx, http.MethodPost, "animals", nil, animalInsert{
		Name:         a.Name,
		Type:         a.Type,
		AgeMonths:    a.AgeMonths,
		WeightKg:     a.WeightKg,
		HealthStatus: string(a.HealthStatus),
		PenLocation:  a.PenLocation,
		LastChecked:  formatDate(a.LastChecked),
	}, &rows)
	if err != nil {
		return animals.Animal{}, err
	}
	if len(rows) == 0 {
		return animals.Animal{}, backend.ErrUnavailable
	}
	return toAnimal(rows[0]), nil
}

func (r *AnimalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	var rows []animalRow
	if err := r.client.get(ctx, "animals", q, &rows); err != nil {
		return nil, err
	}

	out := make([]animals.Animal, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAnimal(row))
	}
	return out, nil
}

func (r *AnimalsRepo) UpdateByID(ctx context.Context, id string, u animals.Update) (animals.Animal, error) {
	patch := map[string]any{}
	if u.Name != nil {
		patch["name"] = *u.Name
	}
	if u.Type != nil {
		patch["type"] = *u.Type
	}
	if u.AgeMonths != nil {
		patch["age_months"] = *u.AgeMonths
	}
	if u.WeightKg != nil {
		patch["weight_kg"] = *u.WeightKg
	}
	if u.HealthStatus != nil {
		patch["health_status"] = *u.HealthStatus
	}
	if u.PenLocation != nil {
		patch["pen_location"] = *u.PenLocation
	}
	if u.LastChecked != nil {
		patch["last_checked"] = u.LastChecked.Format("2006-01-02")
	}

	var rows []animalRow
	err := r.client.write(ctx, http.MethodPatch, "animals", eqFilter(nil, "id", id), patch, &rows)
	if err != nil {
		return animals.Animal{}, err
	}
	// Representación vacía: el filtro no matcheó ninguna fila.
	if len(rows) == 0 {
		return animals.Animal{}, backend.ErrNotFound
	}
	return toAnimal(rows[0]), nil
}

func (r *AnimalsRepo) DeleteByID(ctx context.Context, id string) error {
	var rows []animalRow
	err := r.client.write(ctx, http.MethodDelete, "animals", eqFilter(nil, "id", id), nil, &rows)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return backend.ErrNotFound
	}
	return nil
}

func toAnimal(row animalRow) animals.Animal {
	return animals.Animal{
		ID:           row.ID,
		Name:         row.Name,
		Type:         row.Type,
		AgeMonths:    row.AgeMonths,
		WeightKg:     row.WeightKg,
		HealthStatus: animals.HealthStatus(row.HealthStatus),
		PenLocation:  row.PenLocation,
		LastChecked:  parseDate(row.LastChecked),
		CreatedAt:    row.CreatedAt,
	}
}
