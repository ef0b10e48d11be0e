package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"farm-health-dashboard/internal/domain/animals"
	"farm-health-dashboard/internal/ports/backend"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, name, type,
	age_months, weight_kg, health_status, pen_location,
	last_checked, created_at
`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO animals (
			name, type,
			age_months, weight_kg, health_status, pen_location,
			last_checked
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+animalColumns,
		a.Name,
		a.Type,
		a.AgeMonths,
		a.WeightKg,
		string(a.HealthStatus),
		a.PenLocation,
		toNullTime(a.LastChecked),
	)
	return scanAnimal(row)
}

func (r *AnimalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateByID arma el SET solo con los campos presentes del patch.
func (r *AnimalsRepo) UpdateByID(ctx context.Context, id string, u animals.Update) (animals.Animal, error) {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	args = append(args, id)

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Type != nil {
		add("type", *u.Type)
	}
	if u.AgeMonths != nil {
		add("age_months", *u.AgeMonths)
	}
	if u.WeightKg != nil {
		add("weight_kg", *u.WeightKg)
	}
	if u.HealthStatus != nil {
		add("health_status", *u.HealthStatus)
	}
	if u.PenLocation != nil {
		add("pen_location", *u.PenLocation)
	}
	if u.LastChecked != nil {
		add("last_checked", *u.LastChecked)
	}

	if len(sets) == 0 {
		return animals.Animal{}, backend.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE animals
		SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING `+animalColumns,
		args...,
	)

	a, err := scanAnimal(row)
	if err == sql.ErrNoRows {
		return animals.Animal{}, backend.ErrNotFound
	}
	return a, err
}

func (r *AnimalsRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return backend.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var lc sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Type,
		&a.AgeMonths,
		&a.WeightKg,
		&a.HealthStatus,
		&a.PenLocation,
		&lc,
		&a.CreatedAt,
	); err != nil {
		return animals.Animal{}, err
	}
	a.LastChecked = fromNullTime(lc)
	return a, nil
}
