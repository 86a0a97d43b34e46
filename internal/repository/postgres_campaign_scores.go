package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"kol360-data/internal/domain"
)

// PostgresCampaignScoresRepository 活动评分Repository实现
type PostgresCampaignScoresRepository struct {
	db *sql.DB
}

// NewPostgresCampaignScoresRepository 创建活动评分Repository
func NewPostgresCampaignScoresRepository(db *sql.DB) *PostgresCampaignScoresRepository {
	return &PostgresCampaignScoresRepository{db: db}
}

// 确保实现了接口
var _ CampaignScoresRepository = (*PostgresCampaignScoresRepository)(nil)

// UpsertCampaignScore 全量覆盖写入一行 (campaign, hcp) 评分
// 重算语义：类型 count/score、survey_score、total_nominations、calculated_at 全部覆盖；
// composite_score 与 published_at 由各自的写入方法维护，这里不触碰
func (r *PostgresCampaignScoresRepository) UpsertCampaignScore(ctx context.Context, score *domain.HcpCampaignScore) error {
	if score.CampaignID == "" || score.HcpID == "" {
		return fmt.Errorf("campaign_id and hcp_id are required")
	}

	insertCols := []string{"campaign_id", "hcp_id"}
	args := []any{score.CampaignID, score.HcpID}
	for _, t := range domain.AllNominationTypes {
		pair := nominationTypeColumns[t]
		insertCols = append(insertCols, pair.Count, pair.Score)
		args = append(args, score.Types[t].Count, score.Types[t].Score)
	}
	insertCols = append(insertCols, "survey_score", "total_nominations", "calculated_at")
	args = append(args, score.SurveyScore, score.TotalNominations, score.CalculatedAt)

	placeholders := make([]string, len(insertCols))
	for i := range insertCols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	// 前两个占位符是 uuid 主键
	placeholders[0] += "::uuid"
	placeholders[1] += "::uuid"

	updates := make([]string, 0, len(insertCols)-2)
	for _, col := range insertCols[2:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	query := fmt.Sprintf(`
		INSERT INTO hcp_campaign_scores (%s)
		VALUES (%s)
		ON CONFLICT (campaign_id, hcp_id)
		DO UPDATE SET %s
	`, strings.Join(insertCols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert campaign score: %w", err)
	}
	return nil
}

// ListByCampaign 读取活动全部评分行
func (r *PostgresCampaignScoresRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.HcpCampaignScore, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required")
	}

	cols := []string{"campaign_id::text", "hcp_id::text"}
	for _, t := range domain.AllNominationTypes {
		pair := nominationTypeColumns[t]
		cols = append(cols, fmt.Sprintf("COALESCE(%s, 0)", pair.Count), pair.Score)
	}
	cols = append(cols, "survey_score", "COALESCE(total_nominations, 0)", "composite_score", "calculated_at", "published_at")

	query := fmt.Sprintf(`
		SELECT %s FROM hcp_campaign_scores
		WHERE campaign_id = $1::uuid
		ORDER BY hcp_id
	`, strings.Join(cols, ", "))

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign scores: %w", err)
	}
	defer rows.Close()

	var scores []*domain.HcpCampaignScore
	for rows.Next() {
		var s domain.HcpCampaignScore
		var typeScores [domain.NominationTypeCount]sql.NullFloat64
		var surveyScore, compositeScore sql.NullFloat64
		var publishedAt sql.NullTime

		dest := []any{&s.CampaignID, &s.HcpID}
		for _, t := range domain.AllNominationTypes {
			dest = append(dest, &s.Types[t].Count, &typeScores[t])
		}
		dest = append(dest, &surveyScore, &s.TotalNominations, &compositeScore, &s.CalculatedAt, &publishedAt)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan campaign score: %w", err)
		}

		for _, t := range domain.AllNominationTypes {
			if typeScores[t].Valid {
				v := typeScores[t].Float64
				s.Types[t].Score = &v
			}
		}
		if surveyScore.Valid {
			s.SurveyScore = &surveyScore.Float64
		}
		if compositeScore.Valid {
			s.CompositeScore = &compositeScore.Float64
		}
		if publishedAt.Valid {
			s.PublishedAt = &publishedAt.Time
		}
		scores = append(scores, &s)
	}
	return scores, rows.Err()
}

// UpdateCompositeScore 回写复合分
func (r *PostgresCampaignScoresRepository) UpdateCompositeScore(ctx context.Context, campaignID, hcpID string, score float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE hcp_campaign_scores
		SET composite_score = $3
		WHERE campaign_id = $1::uuid AND hcp_id = $2::uuid
	`, campaignID, hcpID, score)
	if err != nil {
		return fmt.Errorf("failed to update composite score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("campaign score (%s, %s): %w", campaignID, hcpID, domain.ErrNotFound)
	}
	return nil
}

// ListDiseaseAreaSurveyScores 专家在疾病领域内全部活动的问卷分
// 含已发布的历史活动与本次活动（发布引擎在盖章前调用，所以本次活动单列）
func (r *PostgresCampaignScoresRepository) ListDiseaseAreaSurveyScores(ctx context.Context, hcpID, diseaseAreaID, includeCampaignID string) ([]float64, error) {
	query := `
		SELECT s.survey_score
		FROM hcp_campaign_scores s
		JOIN campaigns c ON c.campaign_id = s.campaign_id
		WHERE s.hcp_id = $1::uuid
		  AND c.disease_area_id = $2::uuid
		  AND s.survey_score IS NOT NULL
		  AND (s.published_at IS NOT NULL OR s.campaign_id = $3::uuid)
		ORDER BY c.campaign_id
	`
	rows, err := r.db.QueryContext(ctx, query, hcpID, diseaseAreaID, includeCampaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list disease area survey scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan survey score: %w", err)
		}
		scores = append(scores, v)
	}
	return scores, rows.Err()
}

// MarkPublished 盖发布时间戳（只设置一次，已盖章的行不覆盖）
func (r *PostgresCampaignScoresRepository) MarkPublished(ctx context.Context, campaignID, hcpID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE hcp_campaign_scores
		SET published_at = $3
		WHERE campaign_id = $1::uuid AND hcp_id = $2::uuid AND published_at IS NULL
	`, campaignID, hcpID, at)
	if err != nil {
		return fmt.Errorf("failed to mark campaign score published: %w", err)
	}
	return nil
}
