package alerts

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Filter restringe el listado por estado de resolución.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterActive   Filter = "active"
	FilterResolved Filter = "resolved"
)

var ErrUnknownFilter = errors.New("unknown filter")

// ParseFilter acepta el vocabulario del query param; vacío = all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "resolved":
		return FilterResolved, nil
	default:
		return "", ErrUnknownFilter
	}
}

type Repository interface {
	// Create inserta con resolved=false y devuelve la fila del backend.
	Create(ctx context.Context, a HealthAlert) (HealthAlert, error)

	// List devuelve alertas (filtradas) joineadas con name/type del animal,
	// más nuevas primero.
	List(ctx context.Context, f Filter) ([]AlertWithAnimal, error)

	GetByID(ctx context.Context, id string) (HealthAlert, error)

	// MarkResolved resuelve SOLO si la alerta sigue activa (update condicional):
	// dos resolves concurrentes no pueden estampar resolved_at dos veces.
	// backend.ErrNotFound si no hay fila activa con ese id.
	MarkResolved(ctx context.Context, id string, at time.Time) (HealthAlert, error)
}
