package supabase

import (
	"context"
	"net/url"
	"time"

	"farm-health-dashboard/internal/domain/analyses"
)

type AnalysesRepo struct {
	client *Client
}

func NewAnalysesRepo(client *Client) *AnalysesRepo {
	return &AnalysesRepo{client: client}
}

type analysisRow struct {
	ID              string  `json:"id"`
	AnimalID        string  `json:"animal_id"`
	AnalysisStatus  string  `json:"analysis_status"`
	DurationSeconds float64 `json:"duration_seconds"`
	AnomaliesFound  int     `json:"anomalies_found"`

	BehaviorsDetected []analyses.Behavior `json:"behaviors_detected"`

	VideoURL    string    `json:"video_url"`
	ProcessedAt *string   `json:"processed_at"`
	CreatedAt   time.Time `json:"created_at"`

	Animals *struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"animals"`
}

func (r *AnalysesRepo) List(ctx context.Context) ([]analyses.AnalysisWithAnimal, error) {
	q := url.Values{}
	q.Set("select", "*,animals(name,type)")
	q.Set("order", "created_at.desc")

	var rows []analysisRow
	if err := r.client.get(ctx, "video_analyses", q, &rows); err != nil {
		return nil, err
	}

	out := make([]analyses.AnalysisWithAnimal, 0, len(rows))
	for _, row := range rows {
		item := analyses.AnalysisWithAnimal{
			VideoAnalysis: analyses.VideoAnalysis{
				ID:                row.ID,
				AnimalID:          row.AnimalID,
				AnalysisStatus:    analyses.AnalysisStatus(row.AnalysisStatus),
				DurationSeconds:   row.DurationSeconds,
				AnomaliesFound:    row.AnomaliesFound,
				BehaviorsDetected: row.BehaviorsDetected,
				VideoURL:          row.VideoURL,
				ProcessedAt:       parseDate(row.ProcessedAt),
				CreatedAt:         row.CreatedAt,
			},
		}
		if row.Animals != nil {
			item.Animal = &analyses.AnimalRef{Name: row.Animals.Name, Type: row.Animals.Type}
		}
		out = append(out, item)
	}
	return out, nil
}
