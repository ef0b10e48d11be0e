package animals

import (
	"context"
	"testing"
	"time"

	"farm-health-dashboard/internal/ports/backend"
)

// -------------------------
// Test repo (in-memory, cuenta llamadas)
// -------------------------

type testRepo struct {
	byID  map[string]Animal
	calls int
	next  int

	lastUpdate Update
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Animal{}}
}

func (r *testRepo) Create(ctx context.Context, a Animal) (Animal, error) {
	r.calls++
	r.next++
	a.ID = "animal-" + string(rune('0'+r.next))
	a.CreatedAt = time.Now()
	r.byID[a.ID] = a
	return a, nil
}

func (r *testRepo) List(ctx context.Context) ([]Animal, error) {
	r.calls++
	out := make([]Animal, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *testRepo) UpdateByID(ctx context.Context, id string, u Update) (Animal, error) {
	r.calls++
	r.lastUpdate = u
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, backend.ErrNotFound
	}
	if u.Name != nil {
		a.Name = *u.Name
	}
	r.byID[id] = a
	return a, nil
}

func (r *testRepo) DeleteByID(ctx context.Context, id string) error {
	r.calls++
	if _, ok := r.byID[id]; !ok {
		return backend.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestCreate_RequiredFields(t *testing.T) {
	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing name", CreateInput{Type: "cow", PenLocation: "A-1"}},
		{"missing type", CreateInput{Name: "Bella", PenLocation: "A-1"}},
		{"missing location", CreateInput{Name: "Bella", Type: "cow"}},
		{"negative age", CreateInput{Name: "Bella", Type: "cow", PenLocation: "A-1", AgeMonths: -1}},
		{"negative weight", CreateInput{Name: "Bella", Type: "cow", PenLocation: "A-1", WeightKg: -0.5}},
		{"unknown status", CreateInput{Name: "Bella", Type: "cow", PenLocation: "A-1", HealthStatus: "zombie"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newTestRepo()
			svc := NewService(repo)

			_, err := svc.Create(context.Background(), tc.in)
			if err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			// La validación corta antes del backend: cero llamadas al repo.
			if repo.calls != 0 {
				t.Fatalf("expected 0 repo calls, got %d", repo.calls)
			}
		})
	}
}

func TestCreate_DefaultsToHealthy(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a, err := svc.Create(context.Background(), CreateInput{
		Name:        "  Bella ",
		Type:        "cow",
		PenLocation: "A-1",
		AgeMonths:   24,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.HealthStatus != StatusHealthy {
		t.Fatalf("expected default status healthy, got %s", a.HealthStatus)
	}
	if a.Name != "Bella" {
		t.Fatalf("expected trimmed name, got %q", a.Name)
	}
}

func TestUpdate_RejectsEmptyPatch(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Update(context.Background(), "animal-1", Update{}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty patch, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected 0 repo calls, got %d", repo.calls)
	}
}

func TestUpdate_PartialPatch(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateInput{
		Name: "Bella", Type: "cow", PenLocation: "A-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Bella II"
	updated, err := svc.Update(context.Background(), created.ID, Update{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Bella II" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
}

func TestUpdate_TrimsBeforePersisting(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateInput{
		Name: "Bella", Type: "cow", PenLocation: "A-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// El repo debe recibir los valores ya recortados: " sick " persistido
	// con espacios caería fuera de los buckets fijos de las agregaciones.
	name := "  Bella II "
	status := " sick "
	pen := " B-2 "
	if _, err := svc.Update(context.Background(), created.ID, Update{
		Name:         &name,
		HealthStatus: &status,
		PenLocation:  &pen,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	u := repo.lastUpdate
	if u.Name == nil || *u.Name != "Bella II" {
		t.Fatalf("name forwarded as %v", u.Name)
	}
	if u.HealthStatus == nil || *u.HealthStatus != "sick" {
		t.Fatalf("health_status forwarded as %v", u.HealthStatus)
	}
	if u.PenLocation == nil || *u.PenLocation != "B-2" {
		t.Fatalf("pen_location forwarded as %v", u.PenLocation)
	}
}
