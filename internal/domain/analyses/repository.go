package analyses

import "context"

type Repository interface {
	// List devuelve todos los análisis joineados con name/type del animal,
	// más nuevos primero.
	List(ctx context.Context) ([]AnalysisWithAnimal, error)
}
