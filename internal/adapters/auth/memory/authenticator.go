// Package memory es un Authenticator fake para modo dev y tests:
// cuentas en un mapa, tokens aleatorios, cero red.
package memory

import (
	"context"
	"strings"
	"sync"

	"farm-health-dashboard/internal/ports/auth"

	"github.com/google/uuid"
)

type account struct {
	id       string
	password string
}

type Authenticator struct {
	mu       sync.Mutex
	byEmail  map[string]account
	signOuts int
}

func NewAuthenticator() *Authenticator {
	return &Authenticator{
		byEmail: make(map[string]account),
	}
}

func (a *Authenticator) SignUp(ctx context.Context, creds auth.Credentials) (auth.Grant, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return auth.Grant{}, auth.ErrRejected
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.byEmail[email]; exists {
		return auth.Grant{}, auth.ErrRejected
	}

	acc := account{id: uuid.NewString(), password: creds.Password}
	a.byEmail[email] = acc

	return auth.Grant{
		Principal:   auth.Principal{ID: acc.id, Email: email},
		AccessToken: uuid.NewString(),
	}, nil
}

func (a *Authenticator) SignIn(ctx context.Context, creds auth.Credentials) (auth.Grant, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	a.mu.Lock()
	defer a.mu.Unlock()

	acc, ok := a.byEmail[email]
	if !ok || acc.password != creds.Password {
		return auth.Grant{}, auth.ErrRejected
	}

	return auth.Grant{
		Principal:   auth.Principal{ID: acc.id, Email: email},
		AccessToken: uuid.NewString(),
	}, nil
}

func (a *Authenticator) SignOut(ctx context.Context, accessToken string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signOuts++
	return nil
}
