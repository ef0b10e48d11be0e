package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"farm-health-dashboard/internal/ports/backend"
)

// -------------------------
// Test repo con update condicional, como los adapters reales
// -------------------------

type testRepo struct {
	byID  map[string]HealthAlert
	calls int
	next  int

	// hook para simular la carrera entre GetByID y MarkResolved
	beforeMark func()
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]HealthAlert{}}
}

func (r *testRepo) Create(ctx context.Context, a HealthAlert) (HealthAlert, error) {
	r.calls++
	r.next++
	a.ID = "alert-" + string(rune('0'+r.next))
	a.CreatedAt = time.Now()
	r.byID[a.ID] = a
	return a, nil
}

func (r *testRepo) List(ctx context.Context, f Filter) ([]AlertWithAnimal, error) {
	r.calls++
	out := []AlertWithAnimal{}
	for _, a := range r.byID {
		switch f {
		case FilterActive:
			if a.Resolved {
				continue
			}
		case FilterResolved:
			if !a.Resolved {
				continue
			}
		}
		out = append(out, AlertWithAnimal{HealthAlert: a})
	}
	return out, nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (HealthAlert, error) {
	r.calls++
	a, ok := r.byID[id]
	if !ok {
		return HealthAlert{}, backend.ErrNotFound
	}
	return a, nil
}

func (r *testRepo) MarkResolved(ctx context.Context, id string, at time.Time) (HealthAlert, error) {
	r.calls++
	if r.beforeMark != nil {
		r.beforeMark()
	}
	a, ok := r.byID[id]
	if !ok || a.Resolved {
		// Mismo contrato que el PATCH condicional: sin fila elegible, not found.
		return HealthAlert{}, backend.ErrNotFound
	}
	a.Resolved = true
	a.ResolvedAt = &at
	r.byID[id] = a
	return a, nil
}

func TestCreate_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing animal", CreateInput{AlertType: "limping", Severity: "high"}},
		{"missing type", CreateInput{AnimalID: "a1", Severity: "high"}},
		{"missing severity", CreateInput{AnimalID: "a1", AlertType: "limping"}},
		{"unknown severity", CreateInput{AnimalID: "a1", AlertType: "limping", Severity: "urgent"}},
		{"confidence over 100", CreateInput{AnimalID: "a1", AlertType: "limping", Severity: "high", ConfidenceScore: 101}},
		{"confidence negative", CreateInput{AnimalID: "a1", AlertType: "limping", Severity: "high", ConfidenceScore: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newTestRepo()
			svc := NewService(repo)

			_, err := svc.Create(context.Background(), tc.in)
			if err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if repo.calls != 0 {
				t.Fatalf("expected 0 repo calls, got %d", repo.calls)
			}
		})
	}
}

func TestCreate_StartsUnresolved(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a, err := svc.Create(context.Background(), CreateInput{
		AnimalID:        "a1",
		AlertType:       "limping",
		Severity:        "high",
		ConfidenceScore: 87.5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Resolved {
		t.Fatal("new alert must start unresolved")
	}
	if a.ResolvedAt != nil {
		t.Fatal("new alert must not carry resolved_at")
	}
}

func TestResolve_StampsOnce(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	created, err := svc.Create(context.Background(), CreateInput{
		AnimalID: "a1", AlertType: "limping", Severity: "high",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resolved, err := svc.Resolve(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resolved.Resolved || resolved.ResolvedAt == nil || !resolved.ResolvedAt.Equal(fixed) {
		t.Fatalf("expected resolved at %v, got %+v", fixed, resolved)
	}

	// Segundo resolve: misma fila, mismo timestamp, sin error.
	svc.now = func() time.Time { return fixed.Add(time.Hour) }
	again, err := svc.Resolve(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if !again.ResolvedAt.Equal(fixed) {
		t.Fatalf("resolved_at re-stamped: %v", again.ResolvedAt)
	}
}

func TestResolve_NotFound(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Resolve(context.Background(), "nope"); !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_ConcurrentRace(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateInput{
		AnimalID: "a1", AlertType: "fever", Severity: "critical",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Otro resolve gana la carrera entre la lectura y el update condicional.
	raceAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.beforeMark = func() {
		repo.beforeMark = nil
		a := repo.byID[created.ID]
		a.Resolved = true
		a.ResolvedAt = &raceAt
		repo.byID[created.ID] = a
	}

	got, err := svc.Resolve(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("resolve after race: %v", err)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(raceAt) {
		t.Fatalf("expected winner's timestamp %v, got %+v", raceAt, got.ResolvedAt)
	}
}

func TestParseFilter(t *testing.T) {
	for in, want := range map[string]Filter{
		"":         FilterAll,
		"all":      FilterAll,
		"active":   FilterActive,
		"resolved": FilterResolved,
	} {
		got, err := ParseFilter(in)
		if err != nil {
			t.Fatalf("ParseFilter(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFilter(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseFilter("open"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}
