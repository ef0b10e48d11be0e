package memory

import (
	"context"
	"sort"
	"sync"

	"farm-health-dashboard/internal/domain/analyses"
)

// AnalysesRepo es de solo lectura para el API; Seed existe porque las
// filas las produciría el pipeline externo de video.
type AnalysesRepo struct {
	mu      sync.RWMutex
	byID    map[string]analyses.VideoAnalysis
	animals *AnimalsRepo
}

func NewAnalysesRepo(animalsRepo *AnimalsRepo) *AnalysesRepo {
	return &AnalysesRepo{
		byID:    make(map[string]analyses.VideoAnalysis),
		animals: animalsRepo,
	}
}

// Seed inserta análisis ya procesados (dev/tests).
func (r *AnalysesRepo) Seed(items ...analyses.VideoAnalysis) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range items {
		r.byID[v.ID] = v
	}
}

func (r *AnalysesRepo) List(ctx context.Context) ([]analyses.AnalysisWithAnimal, error) {
	r.mu.RLock()
	items := make([]analyses.VideoAnalysis, 0, len(r.byID))
	for _, v := range r.byID {
		items = append(items, v)
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	out := make([]analyses.AnalysisWithAnimal, 0, len(items))
	for _, v := range items {
		item := analyses.AnalysisWithAnimal{VideoAnalysis: v}
		if r.animals != nil {
			if name, typ, ok := r.animals.ref(v.AnimalID); ok {
				item.Animal = &analyses.AnimalRef{Name: name, Type: typ}
			}
		}
		out = append(out, item)
	}
	return out, nil
}
