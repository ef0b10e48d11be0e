package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"farm-health-dashboard/internal/ports/auth"
)

type fakeTransport struct {
	status int
	body   string

	lastReq *http.Request
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func newTestClient(t *testing.T, tr *fakeTransport) *Client {
	t.Helper()
	c, err := NewClientWithTransport(Config{
		BaseURL: "https://example.supabase.co",
		AnonKey: "anon-key",
	}, tr)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestSignUp_ParsesGrant(t *testing.T) {
	tr := &fakeTransport{status: http.StatusOK, body: `{
		"access_token": "upstream-token",
		"user": {"id": "u1", "email": "a@x.com"}
	}`}
	c := newTestClient(t, tr)

	grant, err := c.SignUp(context.Background(), auth.Credentials{Email: "a@x.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if grant.Principal.ID != "u1" || grant.Principal.Email != "a@x.com" {
		t.Fatalf("principal = %+v", grant.Principal)
	}
	if grant.AccessToken != "upstream-token" {
		t.Fatalf("access token = %q", grant.AccessToken)
	}

	if tr.lastReq.URL.Path != "/auth/v1/signup" {
		t.Fatalf("path = %q", tr.lastReq.URL.Path)
	}
	if got := tr.lastReq.Header.Get("apikey"); got != "anon-key" {
		t.Fatalf("apikey = %q", got)
	}
}

func TestSignIn_PasswordGrantPath(t *testing.T) {
	tr := &fakeTransport{status: http.StatusOK, body: `{
		"access_token": "t", "user": {"id": "u1", "email": "a@x.com"}
	}`}
	c := newTestClient(t, tr)

	if _, err := c.SignIn(context.Background(), auth.Credentials{Email: "a@x.com", Password: "p"}); err != nil {
		t.Fatalf("signin: %v", err)
	}

	if tr.lastReq.URL.Path != "/auth/v1/token" {
		t.Fatalf("path = %q", tr.lastReq.URL.Path)
	}
	if got := tr.lastReq.URL.Query().Get("grant_type"); got != "password" {
		t.Fatalf("grant_type = %q", got)
	}
}

func TestSignIn_RejectionCarriesMessage(t *testing.T) {
	tr := &fakeTransport{status: http.StatusBadRequest, body: `{"msg": "Invalid login credentials"}`}
	c := newTestClient(t, tr)

	_, err := c.SignIn(context.Background(), auth.Credentials{Email: "a@x.com", Password: "wrong"})
	if !errors.Is(err, auth.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid login credentials") {
		t.Fatalf("message lost: %v", err)
	}
}

func TestSignUp_EmptyGrantIsRejection(t *testing.T) {
	// Proyectos con confirmación de email devuelven user sin access_token.
	tr := &fakeTransport{status: http.StatusOK, body: `{"user": {"id": "u1", "email": "a@x.com"}}`}
	c := newTestClient(t, tr)

	if _, err := c.SignUp(context.Background(), auth.Credentials{Email: "a@x.com", Password: "p"}); !errors.Is(err, auth.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestSignOut_ToleratesExpiredToken(t *testing.T) {
	tr := &fakeTransport{status: http.StatusUnauthorized, body: `{}`}
	c := newTestClient(t, tr)

	if err := c.SignOut(context.Background(), "stale-token"); err != nil {
		t.Fatalf("signout with expired token: %v", err)
	}
	if got := tr.lastReq.Header.Get("Authorization"); got != "Bearer stale-token" {
		t.Fatalf("Authorization = %q", got)
	}

	// Sin token no hay nada que revocar
	tr.lastReq = nil
	if err := c.SignOut(context.Background(), ""); err != nil {
		t.Fatalf("signout without token: %v", err)
	}
	if tr.lastReq != nil {
		t.Fatal("signout without token must not call the backend")
	}
}
