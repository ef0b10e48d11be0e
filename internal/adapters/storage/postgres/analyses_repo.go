package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"farm-health-dashboard/internal/domain/analyses"
)

type AnalysesRepo struct {
	db *sql.DB
}

func NewAnalysesRepo(db *sql.DB) *AnalysesRepo {
	return &AnalysesRepo{db: db}
}

func (r *AnalysesRepo) List(ctx context.Context) ([]analyses.AnalysisWithAnimal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			v.id, v.animal_id, v.analysis_status,
			v.duration_seconds, v.anomalies_found, v.behaviors_detected,
			v.video_url, v.processed_at, v.created_at,
			a.name, a.type
		FROM video_analyses v
		LEFT JOIN animals a ON a.id = v.animal_id
		ORDER BY v.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analyses.AnalysisWithAnimal, 0)
	for rows.Next() {
		var v analyses.VideoAnalysis
		var behaviors []byte
		var videoURL sql.NullString
		var processedAt sql.NullTime
		var name, typ sql.NullString

		if err := rows.Scan(
			&v.ID,
			&v.AnimalID,
			&v.AnalysisStatus,
			&v.DurationSeconds,
			&v.AnomaliesFound,
			&behaviors,
			&videoURL,
			&processedAt,
			&v.CreatedAt,
			&name,
			&typ,
		); err != nil {
			return nil, err
		}

		// behaviors_detected es jsonb; nulo o malformado => lista vacía,
		// la fila la produce un pipeline externo y acá solo se muestra.
		if len(behaviors) > 0 {
			_ = json.Unmarshal(behaviors, &v.BehaviorsDetected)
		}
		v.VideoURL = videoURL.String
		v.ProcessedAt = fromNullTime(processedAt)

		item := analyses.AnalysisWithAnimal{VideoAnalysis: v}
		if name.Valid {
			item.Animal = &analyses.AnimalRef{Name: name.String, Type: typ.String}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
