package alerts

import "time"

// Severity define la gravedad de una alerta.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// KnownSeverities en orden estable; los charts necesitan los cuatro
// buckets aunque estén en cero.
func KnownSeverities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// HealthAlert es una alerta de salud sobre un animal.
// El estado observable es el booleano Resolved + ResolvedAt; la variante
// string "active/resolved" de una de las pantallas originales se traduce
// a este par en el borde (ver Filter).
type HealthAlert struct {
	ID       string
	AnimalID string

	AlertType   string
	Severity    Severity
	Description string

	Resolved   bool
	ResolvedAt *time.Time

	ConfidenceScore float64
	Notes           string

	DetectedAt *time.Time
	CreatedAt  time.Time
}

// AnimalRef es la proyección del join alerta -> animal (name, type).
type AnimalRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AlertWithAnimal es la fila que lista el dashboard: la alerta más los
// datos mínimos del animal. Animal puede ser nil si la fila quedó huérfana
// (el delete de animales no cascadea).
type AlertWithAnimal struct {
	HealthAlert
	Animal *AnimalRef
}
