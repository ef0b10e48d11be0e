package animals

import "time"

// HealthStatus define los estados de salud soportados.
type HealthStatus string

const (
	StatusHealthy    HealthStatus = "healthy"
	StatusMonitoring HealthStatus = "monitoring"
	StatusSick       HealthStatus = "sick"
	StatusCritical   HealthStatus = "critical"
)

// KnownStatuses en orden estable; los charts dependen de que los cuatro
// buckets existan aunque estén en cero.
func KnownStatuses() []HealthStatus {
	return []HealthStatus{StatusHealthy, StatusMonitoring, StatusSick, StatusCritical}
}

func ValidStatus(s string) bool {
	switch HealthStatus(s) {
	case StatusHealthy, StatusMonitoring, StatusSick, StatusCritical:
		return true
	}
	return false
}

// AnimalType define los tipos que maneja la granja.
type AnimalType string

const (
	TypeCow     AnimalType = "cow"
	TypePig     AnimalType = "pig"
	TypeChicken AnimalType = "chicken"
)

func KnownTypes() []AnimalType {
	return []AnimalType{TypeCow, TypePig, TypeChicken}
}

// Animal es el registro de un animal tal como lo guarda el backend.
// La edad es en MESES: el campo lo dice explícito para que nadie
// vuelva a mezclar meses y años entre pantallas.
type Animal struct {
	ID string

	Name         string
	Type         string // cow, pig, chicken
	AgeMonths    int
	WeightKg     float64
	HealthStatus HealthStatus
	PenLocation  string

	LastChecked *time.Time
	CreatedAt   time.Time
}
