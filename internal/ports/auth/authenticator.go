package auth

import (
	"context"
	"errors"
)

// ErrRejected: el backend rechazó las credenciales (signup o login fallido).
var ErrRejected = errors.New("credentials rejected")

// Authenticator delega signup/login/logout en el servicio de auth externo.
// La capa local nunca ve contraseñas más allá de este puerto.
type Authenticator interface {
	SignUp(ctx context.Context, creds Credentials) (Grant, error)
	SignIn(ctx context.Context, creds Credentials) (Grant, error)

	// SignOut invalida el token upstream. Best-effort: un token ya vencido
	// no es un error para el caller.
	SignOut(ctx context.Context, accessToken string) error
}
