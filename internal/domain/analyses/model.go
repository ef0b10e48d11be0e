package analyses

import "time"

// AnalysisStatus refleja el estado del pipeline externo de video.
type AnalysisStatus string

const (
	StatusPending    AnalysisStatus = "pending"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// Behavior es una conducta detectada con su confianza (0-100).
type Behavior struct {
	Behavior   string  `json:"behavior"`
	Confidence float64 `json:"confidence"`
}

// VideoAnalysis es de solo lectura para esta capa: las filas las produce
// el pipeline de análisis, acá solo se listan.
type VideoAnalysis struct {
	ID       string
	AnimalID string

	AnalysisStatus  AnalysisStatus
	DurationSeconds float64
	AnomaliesFound  int

	BehaviorsDetected []Behavior
	VideoURL          string

	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// AnimalRef es la proyección del join análisis -> animal.
type AnimalRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type AnalysisWithAnimal struct {
	VideoAnalysis
	Animal *AnimalRef
}
