package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"farm-health-dashboard/internal/domain/alerts"
	"farm-health-dashboard/internal/ports/backend"
)

type AlertsRepo struct {
	client *Client
}

func NewAlertsRepo(client *Client) *AlertsRepo {
	return &AlertsRepo{client: client}
}

type alertRow struct {
	ID              string    `json:"id"`
	AnimalID        string    `json:"animal_id"`
	AlertType       string    `json:"alert_type"`
	Severity        string    `json:"severity"`
	Description     string    `json:"description"`
	Resolved        bool      `json:"resolved"`
	ResolvedAt      *string   `json:"resolved_at"`
	ConfidenceScore float64   `json:"confidence_score"`
	Notes           string    `json:"notes"`
	DetectedAt      *string   `json:"detected_at"`
	CreatedAt       time.Time `json:"created_at"`

	// Proyección embebida del join: select=*,animals(name,type)
	Animals *struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"animals"`
}

type alertInsert struct {
	AnimalID        string  `json:"animal_id"`
	AlertType       string  `json:"alert_type"`
	Severity        string  `json:"severity"`
	Description     string  `json:"description"`
	Resolved        bool    `json:"resolved"`
	ConfidenceScore float64 `json:"confidence_score"`
	Notes           string  `json:"notes,omitempty"`
}

func (r *AlertsRepo) Create(ctx context.Context, a alerts.HealthAlert) (alerts.HealthAlert, error) {
	var rows []alertRow
	err := r.client.write(ctx, http.MethodPost, "health_alerts", nil, alertInsert{
		AnimalID:        a.AnimalID,
		AlertType:       a.AlertType,
		Severity:        string(a.Severity),
		Description:     a.Description,
		Resolved:        false,
		ConfidenceScore: a.ConfidenceScore,
		Notes:           a.Notes,
	}, &rows)
	if err != nil {
		return alerts.HealthAlert{}, err
	}
	if len(rows) == 0 {
		return alerts.HealthAlert{}, backend.ErrUnavailable
	}
	return toAlert(rows[0]), nil
}

func (r *AlertsRepo) List(ctx context.Context, f alerts.Filter) ([]alerts.AlertWithAnimal, error) {
	q := url.Values{}
	q.Set("select", "*,animals(name,type)")
	q.Set("order", "created_at.desc")

	switch f {
	case alerts.FilterActive:
		q.Set("resolved", "eq.false")
	case alerts.FilterResolved:
		q.Set("resolved", "eq.true")
	}

	var rows []alertRow
	if err := r.client.get(ctx, "health_alerts", q, &rows); err != nil {
		return nil, err
	}

	out := make([]alerts.AlertWithAnimal, 0, len(rows))
	for _, row := range rows {
		item := alerts.AlertWithAnimal{HealthAlert: toAlert(row)}
		if row.Animals != nil {
			item.Animal = &alerts.AnimalRef{Name: row.Animals.Name, Type: row.Animals.Type}
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *AlertsRepo) GetByID(ctx context.Context, id string) (alerts.HealthAlert, error) {
	q := eqFilter(nil, "id", id)
	q.Set("select", "*")

	var rows []alertRow
	if err := r.client.get(ctx, "health_alerts", q, &rows); err != nil {
		return alerts.HealthAlert{}, err
	}
	if len(rows) == 0 {
		return alerts.HealthAlert{}, backend.ErrNotFound
	}
	return toAlert(rows[0]), nil
}

// MarkResolved es un update condicional: id=eq.X AND resolved=eq.false.
// Si otro resolve ganó la carrera la representación vuelve vacía y eso
// es ErrNotFound; el service decide si el estado terminal ya sirve.
func (r *AlertsRepo) MarkResolved(ctx context.Context, id string, at time.Time) (alerts.HealthAlert, error) {
	q := eqFilter(nil, "id", id)
	q.Set("resolved", "eq.false")

	var rows []alertRow
	err := r.client.write(ctx, http.MethodPatch, "health_alerts", q, map[string]any{
		"resolved":    true,
		"resolved_at": at.UTC().Format(time.RFC3339),
	}, &rows)
	if err != nil {
		return alerts.HealthAlert{}, err
	}
	if len(rows) == 0 {
		return alerts.HealthAlert{}, backend.ErrNotFound
	}
	return toAlert(rows[0]), nil
}

func toAlert(row alertRow) alerts.HealthAlert {
	return alerts.HealthAlert{
		ID:              row.ID,
		AnimalID:        row.AnimalID,
		AlertType:       row.AlertType,
		Severity:        alerts.Severity(row.Severity),
		Description:     row.Description,
		Resolved:        row.Resolved,
		ResolvedAt:      parseDate(row.ResolvedAt),
		ConfidenceScore: row.ConfidenceScore,
		Notes:           row.Notes,
		DetectedAt:      parseDate(row.DetectedAt),
		CreatedAt:       row.CreatedAt,
	}
}
