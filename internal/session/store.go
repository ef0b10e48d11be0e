package session

import (
	"context"

	"farm-health-dashboard/internal/ports/auth"
)

// CookieName es la cookie que lleva el token de sesión firmado.
const CookieName = "farm_session"

// Session liga un id opaco a un Principal y al token upstream del backend.
// No existe Session sin Principal: Create exige ambos.
type Session struct {
	ID            string
	Principal     auth.Principal
	UpstreamToken string
}

// Store es el mapeo proceso-side (o compartido, via Redis) de sesiones vivas.
// Sin expiry local: el TTL efectivo es la vida del token upstream, y un
// "unauthorized" del backend desaloja la entrada.
type Store interface {
	// Create liga atómicamente un id nuevo al principal + token.
	Create(ctx context.Context, p auth.Principal, upstreamToken string) (Session, error)

	// Get devuelve la sesión y si existe. Ausente no es error:
	// el caller lo trata como "no autenticado", nunca como 5xx.
	Get(ctx context.Context, id string) (Session, bool, error)

	// Destroy es idempotente: destruir una sesión ausente es no-op.
	Destroy(ctx context.Context, id string) error
}

type ctxKey string

const sessionKey ctxKey = "session"

// NewContext adjunta la sesión resuelta al contexto del request.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext recupera la sesión que el gate adjuntó.
func FromContext(ctx context.Context) (Session, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}
