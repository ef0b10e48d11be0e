package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"farm-health-dashboard/internal/domain/alerts"
	"farm-health-dashboard/internal/ports/auth"
	"farm-health-dashboard/internal/ports/backend"
	"farm-health-dashboard/internal/session"
)

// fakeTransport devuelve una respuesta enlatada y guarda el último request.
type fakeTransport struct {
	status int
	body   string
	err    error

	lastReq *http.Request
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
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

func TestAlertsList_QueryAndJoin(t *testing.T) {
	tr := &fakeTransport{status: http.StatusOK, body: `[
		{"id":"al-1","animal_id":"an-1","alert_type":"limping","severity":"high",
		 "resolved":false,"confidence_score":90,
		 "created_at":"2026-03-01T10:00:00Z",
		 "animals":{"name":"Bella","type":"cow"}}
	]`}
	repo := NewAlertsRepo(newTestClient(t, tr))

	items, err := repo.List(context.Background(), alerts.FilterActive)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 row, got %d", len(items))
	}
	if items[0].Animal == nil || items[0].Animal.Name != "Bella" || items[0].Animal.Type != "cow" {
		t.Fatalf("joined animal = %+v", items[0].Animal)
	}

	q := tr.lastReq.URL.Query()
	if q.Get("select") != "*,animals(name,type)" {
		t.Fatalf("select = %q", q.Get("select"))
	}
	if q.Get("order") != "created_at.desc" {
		t.Fatalf("order = %q", q.Get("order"))
	}
	if q.Get("resolved") != "eq.false" {
		t.Fatalf("resolved = %q", q.Get("resolved"))
	}
	if tr.lastReq.URL.Path != "/rest/v1/health_alerts" {
		t.Fatalf("path = %q", tr.lastReq.URL.Path)
	}
}

func TestMarkResolved_ConditionalUpdate(t *testing.T) {
	// Representación vacía: otro resolve ganó, o el id no existe.
	tr := &fakeTransport{status: http.StatusOK, body: `[]`}
	repo := NewAlertsRepo(newTestClient(t, tr))

	_, err := repo.MarkResolved(context.Background(), "al-1", mustTime(t, "2026-03-01T10:00:00Z"))
	if !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty representation, got %v", err)
	}

	q := tr.lastReq.URL.Query()
	if q.Get("id") != "eq.al-1" || q.Get("resolved") != "eq.false" {
		t.Fatalf("conditional query = %v", q)
	}
	if tr.lastReq.Method != http.MethodPatch {
		t.Fatalf("method = %q", tr.lastReq.Method)
	}
	if got := tr.lastReq.Header.Get("Prefer"); got != "return=representation" {
		t.Fatalf("Prefer = %q", got)
	}
}

func TestHeaders_UseSessionToken(t *testing.T) {
	tr := &fakeTransport{status: http.StatusOK, body: `[]`}
	repo := NewAlertsRepo(newTestClient(t, tr))

	// Sin sesión: anon key como bearer
	_, _ = repo.List(context.Background(), alerts.FilterAll)
	if got := tr.lastReq.Header.Get("Authorization"); got != "Bearer anon-key" {
		t.Fatalf("anon Authorization = %q", got)
	}
	if got := tr.lastReq.Header.Get("apikey"); got != "anon-key" {
		t.Fatalf("apikey = %q", got)
	}

	// Con sesión: el token upstream del usuario
	ctx := session.NewContext(context.Background(), session.Session{
		ID:            "s1",
		Principal:     auth.Principal{ID: "u1"},
		UpstreamToken: "user-token",
	})
	_, _ = repo.List(ctx, alerts.FilterAll)
	if got := tr.lastReq.Header.Get("Authorization"); got != "Bearer user-token" {
		t.Fatalf("session Authorization = %q", got)
	}
}

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		tr   *fakeTransport
		want error
	}{
		{"401 unauthorized", &fakeTransport{status: http.StatusUnauthorized, body: `{}`}, backend.ErrUnauthorized},
		{"403 forbidden", &fakeTransport{status: http.StatusForbidden, body: `{}`}, backend.ErrUnauthorized},
		{"404 not found", &fakeTransport{status: http.StatusNotFound, body: `{}`}, backend.ErrNotFound},
		{"500 unavailable", &fakeTransport{status: http.StatusInternalServerError, body: `{}`}, backend.ErrUnavailable},
		{"network down", &fakeTransport{err: errors.New("connection refused")}, backend.ErrUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewAlertsRepo(newTestClient(t, tc.tr))
			_, err := repo.List(context.Background(), alerts.FilterAll)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return parsed
}
