package animals

import (
	"context"
	"time"
)

// Update es un patch parcial: nil = no tocar ese campo.
type Update struct {
	Name         *string
	Type         *string
	AgeMonths    *int
	WeightKg     *float64
	HealthStatus *string
	PenLocation  *string
	LastChecked  *time.Time
}

type Repository interface {
	// Create inserta y devuelve la fila como quedó en el backend
	// (id y created_at los pone el backend).
	Create(ctx context.Context, a Animal) (Animal, error)

	// List devuelve todos los animales, más nuevos primero.
	List(ctx context.Context) ([]Animal, error)

	// UpdateByID aplica un patch parcial. backend.ErrNotFound si el id no existe.
	UpdateByID(ctx context.Context, id string, u Update) (Animal, error)

	// DeleteByID borra una fila. No cascadea: alerts/analyses quedan
	// colgando del id borrado salvo que el schema del backend lo resuelva.
	DeleteByID(ctx context.Context, id string) error
}
