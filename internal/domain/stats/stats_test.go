package stats

import (
	"testing"

	"farm-health-dashboard/internal/domain/alerts"
	"farm-health-dashboard/internal/domain/analyses"
	"farm-health-dashboard/internal/domain/animals"
)

func animal(typ string, status animals.HealthStatus, ageMonths int) animals.Animal {
	return animals.Animal{
		Name:         "x",
		Type:         typ,
		HealthStatus: status,
		AgeMonths:    ageMonths,
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil, 0)
	want := Summary{}
	if got != want {
		t.Fatalf("empty summary = %+v, want zero values", got)
	}
}

func TestSummarize_Scenario(t *testing.T) {
	// Dos animales, uno sano de 12 meses y uno enfermo de 6: promedio 9.0.
	herd := []animals.Animal{
		animal("cow", animals.StatusHealthy, 12),
		animal("pig", animals.StatusSick, 6),
	}

	got := Summarize(herd, 0)
	want := Summary{
		TotalAnimals:     2,
		HealthyAnimals:   1,
		ActiveAlerts:     0,
		AverageAgeMonths: 9.0,
	}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestHealthRate(t *testing.T) {
	if r := HealthRate(nil); r != 0 {
		t.Fatalf("empty health rate = %v, want 0", r)
	}

	herd := []animals.Animal{
		animal("cow", animals.StatusHealthy, 1),
		animal("cow", animals.StatusHealthy, 1),
		animal("cow", animals.StatusSick, 1),
		animal("cow", animals.StatusMonitoring, 1),
	}
	if r := HealthRate(herd); r != 0.5 {
		t.Fatalf("health rate = %v, want 0.5", r)
	}
}

func TestAverageAgeMonths_Empty(t *testing.T) {
	if avg := AverageAgeMonths(nil); avg != 0 {
		t.Fatalf("empty average = %v, want 0", avg)
	}
}

func TestCountByHealthStatus_FixedBuckets(t *testing.T) {
	herd := []animals.Animal{
		animal("cow", animals.StatusHealthy, 1),
		animal("cow", animals.StatusHealthy, 1),
		animal("pig", animals.StatusMonitoring, 1),
	}

	got := CountByHealthStatus(herd)

	// Los buckets conocidos están siempre presentes, aunque en cero.
	for _, s := range animals.KnownStatuses() {
		if _, ok := got[string(s)]; !ok {
			t.Fatalf("missing bucket %q", s)
		}
	}
	if got[string(animals.StatusSick)] != 0 {
		t.Fatalf("sick bucket = %d, want 0", got[string(animals.StatusSick)])
	}

	// Invariante: la suma de buckets es el total.
	sum := 0
	for _, n := range got {
		sum += n
	}
	if sum != len(herd) {
		t.Fatalf("bucket sum = %d, want %d", sum, len(herd))
	}
}

func TestCountBySeverity_FixedBuckets(t *testing.T) {
	list := []alerts.AlertWithAnimal{
		{HealthAlert: alerts.HealthAlert{Severity: alerts.SeverityHigh}},
		{HealthAlert: alerts.HealthAlert{Severity: alerts.SeverityHigh}},
		{HealthAlert: alerts.HealthAlert{Severity: alerts.SeverityLow}},
	}

	got := CountBySeverity(list)
	if len(got) != 4 {
		t.Fatalf("expected 4 severity buckets, got %d", len(got))
	}
	if got["high"] != 2 || got["low"] != 1 || got["medium"] != 0 || got["critical"] != 0 {
		t.Fatalf("severity counts = %v", got)
	}
}

func TestAnalyze(t *testing.T) {
	herd := []animals.Animal{
		animal("cow", animals.StatusHealthy, 10),
		animal("chicken", animals.StatusSick, 2),
	}
	list := []alerts.AlertWithAnimal{
		{HealthAlert: alerts.HealthAlert{Severity: alerts.SeverityHigh}},
		{HealthAlert: alerts.HealthAlert{Severity: alerts.SeverityLow, Resolved: true}},
	}
	vids := []analyses.AnalysisWithAnimal{
		{VideoAnalysis: analyses.VideoAnalysis{AnalysisStatus: analyses.StatusCompleted, AnomaliesFound: 3}},
		{VideoAnalysis: analyses.VideoAnalysis{AnalysisStatus: analyses.StatusProcessing}},
	}

	got := Analyze(herd, list, vids)

	if got.HealthRatePercent != 50 {
		t.Fatalf("health rate percent = %v, want 50", got.HealthRatePercent)
	}
	if got.TotalAlerts != 2 || got.ActiveAlerts != 1 || got.ResolvedAlerts != 1 {
		t.Fatalf("alert counts = %+v", got)
	}
	if got.TotalVideos != 2 || got.CompletedVideos != 1 || got.TotalAnomalies != 3 {
		t.Fatalf("video counts = %+v", got)
	}
	if got.TypeCounts["pig"] != 0 || got.TypeCounts["cow"] != 1 || got.TypeCounts["chicken"] != 1 {
		t.Fatalf("type counts = %v", got.TypeCounts)
	}
}
