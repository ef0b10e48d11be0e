package backend

import "errors"

// Errores normalizados que los adapters de storage devuelven hacia arriba.
// Los handlers los mapean al envelope uniforme; nunca se propagan como panic.
var (
	// ErrUnauthorized: el backend rechazó el token upstream (vencido/invalidado).
	// Quien lo reciba debe desalojar la sesión local asociada.
	ErrUnauthorized = errors.New("backend unauthorized")

	// ErrNotFound: el id referenciado no existe en el backend.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable: fallo de red o timeout hablando con el backend.
	ErrUnavailable = errors.New("backend unavailable")
)
