package postgres

import (
	"context"
	"database/sql"
	"time"

	"farm-health-dashboard/internal/domain/alerts"
	"farm-health-dashboard/internal/ports/backend"
)

type AlertsRepo struct {
	db *sql.DB
}

func NewAlertsRepo(db *sql.DB) *AlertsRepo {
	return &AlertsRepo{db: db}
}

const alertColumns = `
	id, animal_id, alert_type, severity, description,
	resolved, resolved_at, confidence_score, notes,
	detected_at, created_at
`

func (r *AlertsRepo) Create(ctx context.Context, a alerts.HealthAlert) (alerts.HealthAlert, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO health_alerts (
			animal_id, alert_type, severity, description,
			resolved, confidence_score, notes
		) VALUES ($1,$2,$3,$4,false,$5,$6)
		RETURNING `+alertColumns,
		a.AnimalID,
		a.AlertType,
		string(a.Severity),
		a.Description,
		a.ConfidenceScore,
		a.Notes,
	)
	return scanAlert(row)
}

func (r *AlertsRepo) List(ctx context.Context, f alerts.Filter) ([]alerts.AlertWithAnimal, error) {
	where := ""
	switch f {
	case alerts.FilterActive:
		where = "WHERE h.resolved = false"
	case alerts.FilterResolved:
		where = "WHERE h.resolved = true"
	}

	// LEFT JOIN: las filas huérfanas (animal borrado sin cascade) se listan igual.
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			h.id, h.animal_id, h.alert_type, h.severity, h.description,
			h.resolved, h.resolved_at, h.confidence_score, h.notes,
			h.detected_at, h.created_at,
			a.name, a.type
		FROM health_alerts h
		LEFT JOIN animals a ON a.id = h.animal_id
		`+where+`
		ORDER BY h.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]alerts.AlertWithAnimal, 0)
	for rows.Next() {
		var a alerts.HealthAlert
		var resolvedAt, detectedAt sql.NullTime
		var name, typ sql.NullString

		if err := rows.Scan(
			&a.ID,
			&a.AnimalID,
			&a.AlertType,
			&a.Severity,
			&a.Description,
			&a.Resolved,
			&resolvedAt,
			&a.ConfidenceScore,
			&a.Notes,
			&detectedAt,
			&a.CreatedAt,
			&name,
			&typ,
		); err != nil {
			return nil, err
		}

		a.ResolvedAt = fromNullTime(resolvedAt)
		a.DetectedAt = fromNullTime(detectedAt)

		item := alerts.AlertWithAnimal{HealthAlert: a}
		if name.Valid {
			item.Animal = &alerts.AnimalRef{Name: name.String, Type: typ.String}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *AlertsRepo) GetByID(ctx context.Context, id string) (alerts.HealthAlert, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+alertColumns+`
		FROM health_alerts
		WHERE id = $1
	`, id)

	a, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return alerts.HealthAlert{}, backend.ErrNotFound
	}
	return a, err
}

// MarkResolved con guarda de estado: solo resuelve filas todavía activas.
func (r *AlertsRepo) MarkResolved(ctx context.Context, id string, at time.Time) (alerts.HealthAlert, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE health_alerts
		SET resolved = true, resolved_at = $2
		WHERE id = $1 AND resolved = false
		RETURNING `+alertColumns,
		id,
		at.UTC(),
	)

	a, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return alerts.HealthAlert{}, backend.ErrNotFound
	}
	return a, err
}

func scanAlert(row rowScanner) (alerts.HealthAlert, error) {
	var a alerts.HealthAlert
	var resolvedAt, detectedAt sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.AnimalID,
		&a.AlertType,
		&a.Severity,
		&a.Description,
		&a.Resolved,
		&resolvedAt,
		&a.ConfidenceScore,
		&a.Notes,
		&detectedAt,
		&a.CreatedAt,
	); err != nil {
		return alerts.HealthAlert{}, err
	}
	a.ResolvedAt = fromNullTime(resolvedAt)
	a.DetectedAt = fromNullTime(detectedAt)
	return a, nil
}
