// Package stats deriva las métricas del dashboard a partir de colecciones
// ya traídas del backend. Funciones puras y deterministas: nada acá hace
// side effects ni queries, así se testean sin backend.
package stats

import (
	"farm-health-dashboard/internal/domain/alerts"
	"farm-health-dashboard/internal/domain/analyses"
	"farm-health-dashboard/internal/domain/animals"
)

// Summary es la vista resumida del dashboard.
// AverageAgeMonths viaja como "averageAge" (contrato observable del API);
// la unidad queda explícita en el nombre del campo Go.
type Summary struct {
	TotalAnimals     int     `json:"totalAnimals"`
	HealthyAnimals   int     `json:"healthyAnimals"`
	ActiveAlerts     int     `json:"activeAlerts"`
	AverageAgeMonths float64 `json:"averageAge"`
}

// Summarize arma el resumen a partir de los animales y la cantidad de
// alertas activas ya contada.
func Summarize(list []animals.Animal, activeAlerts int) Summary {
	healthy := 0
	for _, a := range list {
		if a.HealthStatus == animals.StatusHealthy {
			healthy++
		}
	}

	return Summary{
		TotalAnimals:     len(list),
		HealthyAnimals:   healthy,
		ActiveAlerts:     activeAlerts,
		AverageAgeMonths: AverageAgeMonths(list),
	}
}

// HealthRate devuelve la fracción de animales sanos (0..1).
// Colección vacía => 0, nunca división por cero.
func HealthRate(list []animals.Animal) float64 {
	if len(list) == 0 {
		return 0
	}
	healthy := 0
	for _, a := range list {
		if a.HealthStatus == animals.StatusHealthy {
			healthy++
		}
	}
	return float64(healthy) / float64(len(list))
}

// AverageAgeMonths promedia la edad en meses; vacío => 0.
func AverageAgeMonths(list []animals.Animal) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, a := range list {
		sum += a.AgeMonths
	}
	return float64(sum) / float64(len(list))
}

// CountByHealthStatus agrupa por estado de salud. Siempre incluye los
// cuatro buckets conocidos (aunque en cero) más cualquier valor observado
// fuera del enum: la suma de buckets es igual al total de animales.
func CountByHealthStatus(list []animals.Animal) map[string]int {
	out := make(map[string]int, 4)
	for _, s := range animals.KnownStatuses() {
		out[string(s)] = 0
	}
	for _, a := range list {
		out[string(a.HealthStatus)]++
	}
	return out
}

// CountByType agrupa por tipo de animal, con buckets fijos cow/pig/chicken.
func CountByType(list []animals.Animal) map[string]int {
	out := make(map[string]int, 3)
	for _, t := range animals.KnownTypes() {
		out[string(t)] = 0
	}
	for _, a := range list {
		out[a.Type]++
	}
	return out
}

// CountBySeverity agrupa alertas por gravedad, con los cuatro buckets fijos.
func CountBySeverity(list []alerts.AlertWithAnimal) map[string]int {
	out := make(map[string]int, 4)
	for _, s := range alerts.KnownSeverities() {
		out[string(s)] = 0
	}
	for _, a := range list {
		out[string(a.Severity)]++
	}
	return out
}

// CountResolved separa alertas resueltas de activas.
func CountResolved(list []alerts.AlertWithAnimal) (active, resolved int) {
	for _, a := range list {
		if a.Resolved {
			resolved++
		} else {
			active++
		}
	}
	return active, resolved
}

// Analytics es la vista extendida (pantalla de analítica).
type Analytics struct {
	HealthRatePercent float64 `json:"healthRate"`

	TotalAnimals   int `json:"totalAnimals"`
	TotalAlerts    int `json:"totalAlerts"`
	ActiveAlerts   int `json:"activeAlerts"`
	ResolvedAlerts int `json:"resolvedAlerts"`

	TotalVideos     int `json:"totalVideos"`
	CompletedVideos int `json:"videosAnalyzed"`
	TotalAnomalies  int `json:"totalAnomalies"`

	HealthStatusCounts map[string]int `json:"healthStatusCounts"`
	SeverityCounts     map[string]int `json:"severityCounts"`
	TypeCounts         map[string]int `json:"typeCounts"`
}

// Analyze cruza las tres colecciones en una sola pasada de agregados.
func Analyze(as []animals.Animal, al []alerts.AlertWithAnimal, vs []analyses.AnalysisWithAnimal) Analytics {
	active, resolved := CountResolved(al)

	completed := 0
	anomalies := 0
	for _, v := range vs {
		if v.AnalysisStatus == analyses.StatusCompleted {
			completed++
		}
		anomalies += v.AnomaliesFound
	}

	return Analytics{
		HealthRatePercent:  HealthRate(as) * 100,
		TotalAnimals:       len(as),
		TotalAlerts:        len(al),
		ActiveAlerts:       active,
		ResolvedAlerts:     resolved,
		TotalVideos:        len(vs),
		CompletedVideos:    completed,
		TotalAnomalies:     anomalies,
		HealthStatusCounts: CountByHealthStatus(as),
		SeverityCounts:     CountBySeverity(al),
		TypeCounts:         CountByType(as),
	}
}
