package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"kol360-data/internal/domain"
)

// PostgresDiseaseAreaScoresRepository 疾病领域累计评分Repository实现（SCD Type 2）
type PostgresDiseaseAreaScoresRepository struct {
	db *sql.DB
}

// NewPostgresDiseaseAreaScoresRepository 创建疾病领域评分Repository
func NewPostgresDiseaseAreaScoresRepository(db *sql.DB) *PostgresDiseaseAreaScoresRepository {
	return &PostgresDiseaseAreaScoresRepository{db: db}
}

// 确保实现了接口
var _ DiseaseAreaScoresRepository = (*PostgresDiseaseAreaScoresRepository)(nil)

func diseaseAreaSelectColumns() string {
	cols := []string{"score_id::text", "hcp_id::text", "disease_area_id::text"}
	for _, d := range domain.AllObjectiveDimensions {
		cols = append(cols, objectiveDimensionColumns[d])
	}
	cols = append(cols,
		"survey_score",
		"composite_score",
		"COALESCE(total_nomination_count, 0)",
		"COALESCE(campaign_count, 0)",
		"is_current",
		"effective_from",
		"effective_to",
	)
	return strings.Join(cols, ", ")
}

func scanDiseaseAreaScore(row interface{ Scan(...any) error }) (*domain.HcpDiseaseAreaScore, error) {
	var s domain.HcpDiseaseAreaScore
	var dims [domain.ObjectiveDimensionCount]sql.NullFloat64
	var surveyScore, compositeScore sql.NullFloat64
	var effectiveTo sql.NullTime

	dest := []any{&s.ScoreID, &s.HcpID, &s.DiseaseAreaID}
	for _, d := range domain.AllObjectiveDimensions {
		dest = append(dest, &dims[d])
	}
	dest = append(dest,
		&surveyScore,
		&compositeScore,
		&s.TotalNominationCount,
		&s.CampaignCount,
		&s.IsCurrent,
		&s.EffectiveFrom,
		&effectiveTo,
	)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for _, d := range domain.AllObjectiveDimensions {
		if dims[d].Valid {
			v := dims[d].Float64
			s.Dimensions[d] = &v
		}
	}
	if surveyScore.Valid {
		s.SurveyScore = &surveyScore.Float64
	}
	if compositeScore.Valid {
		s.CompositeScore = &compositeScore.Float64
	}
	if effectiveTo.Valid {
		s.EffectiveTo = &effectiveTo.Time
	}
	return &s, nil
}

// GetCurrent 读取 (hcp, disease_area) 的当前行
func (r *PostgresDiseaseAreaScoresRepository) GetCurrent(ctx context.Context, hcpID, diseaseAreaID string) (*domain.HcpDiseaseAreaScore, error) {
	if hcpID == "" || diseaseAreaID == "" {
		return nil, fmt.Errorf("hcp_id and disease_area_id are required")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM hcp_disease_area_scores
		WHERE hcp_id = $1::uuid AND disease_area_id = $2::uuid AND is_current = TRUE
	`, diseaseAreaSelectColumns())

	score, err := scanDiseaseAreaScore(r.db.QueryRowContext(ctx, query, hcpID, diseaseAreaID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("current disease area score (%s, %s): %w", hcpID, diseaseAreaID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get current disease area score: %w", err)
	}
	return score, nil
}

func insertDiseaseAreaScoreSQL() (string, func(*domain.HcpDiseaseAreaScore) []any) {
	cols := []string{"score_id", "hcp_id", "disease_area_id"}
	for _, d := range domain.AllObjectiveDimensions {
		cols = append(cols, objectiveDimensionColumns[d])
	}
	cols = append(cols,
		"survey_score",
		"composite_score",
		"total_nomination_count",
		"campaign_count",
		"is_current",
		"effective_from",
		"effective_to",
	)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	placeholders[0] += "::uuid"
	placeholders[1] += "::uuid"
	placeholders[2] += "::uuid"

	query := fmt.Sprintf(`
		INSERT INTO hcp_disease_area_scores (%s)
		VALUES (%s)
		RETURNING score_id::text
	`, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	buildArgs := func(s *domain.HcpDiseaseAreaScore) []any {
		args := []any{s.ScoreID, s.HcpID, s.DiseaseAreaID}
		for _, d := range domain.AllObjectiveDimensions {
			args = append(args, s.Dimensions[d])
		}
		args = append(args,
			s.SurveyScore,
			s.CompositeScore,
			s.TotalNominationCount,
			s.CampaignCount,
			s.IsCurrent,
			s.EffectiveFrom,
			s.EffectiveTo,
		)
		return args
	}
	return query, buildArgs
}

// InsertCurrent 插入首个当前行
func (r *PostgresDiseaseAreaScoresRepository) InsertCurrent(ctx context.Context, score *domain.HcpDiseaseAreaScore) (string, error) {
	if score.HcpID == "" || score.DiseaseAreaID == "" {
		return "", fmt.Errorf("hcp_id and disease_area_id are required")
	}

	query, buildArgs := insertDiseaseAreaScoreSQL()
	var id string
	if err := r.db.QueryRowContext(ctx, query, buildArgs(score)...).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to insert disease area score: %w", err)
	}
	return id, nil
}

// RotateCurrent 版本翻转：单事务内关闭旧行并插入新行
// 旧行关闭语句带 is_current = TRUE 守卫；并发翻转时守卫失败，整体回滚
func (r *PostgresDiseaseAreaScoresRepository) RotateCurrent(ctx context.Context, oldScoreID string, next *domain.HcpDiseaseAreaScore) (string, error) {
	if oldScoreID == "" {
		return "", fmt.Errorf("old score_id is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE hcp_disease_area_scores
		SET is_current = FALSE, effective_to = $2
		WHERE score_id = $1::uuid AND is_current = TRUE
	`, oldScoreID, next.EffectiveFrom)
	if err != nil {
		return "", fmt.Errorf("failed to close current disease area score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to check close result: %w", err)
	}
	if affected != 1 {
		// 旧行已被并发翻转关闭：放弃本次写入，保持单 current 不变式
		return "", fmt.Errorf("disease area score %s is no longer current: %w", oldScoreID, domain.ErrConflict)
	}

	query, buildArgs := insertDiseaseAreaScoreSQL()
	var id string
	if err := tx.QueryRowContext(ctx, query, buildArgs(next)...).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to insert rotated disease area score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit disease area score rotation: %w", err)
	}
	return id, nil
}

// UpdateObjectiveDimensions 就地更新当前行的客观维度评分（厂家数据刷新）
func (r *PostgresDiseaseAreaScoresRepository) UpdateObjectiveDimensions(ctx context.Context, scoreID string, dims [domain.ObjectiveDimensionCount]*float64) error {
	if scoreID == "" {
		return fmt.Errorf("score_id is required")
	}

	sets := make([]string, 0, domain.ObjectiveDimensionCount)
	args := []any{scoreID}
	argIdx := 2
	for _, d := range domain.AllObjectiveDimensions {
		sets = append(sets, fmt.Sprintf("%s = $%d", objectiveDimensionColumns[d], argIdx))
		args = append(args, dims[d])
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE hcp_disease_area_scores
		SET %s
		WHERE score_id = $1::uuid AND is_current = TRUE
	`, strings.Join(sets, ", "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update objective dimensions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("current disease area score %s: %w", scoreID, domain.ErrNotFound)
	}
	return nil
}

// ListCurrentByDiseaseArea 疾病领域当前排行（composite_score 降序，NULL 排最后）
func (r *PostgresDiseaseAreaScoresRepository) ListCurrentByDiseaseArea(ctx context.Context, diseaseAreaID string, limit int) ([]*domain.HcpDiseaseAreaScore, error) {
	if diseaseAreaID == "" {
		return nil, fmt.Errorf("disease_area_id is required")
	}
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT %s FROM hcp_disease_area_scores
		WHERE disease_area_id = $1::uuid AND is_current = TRUE
		ORDER BY composite_score DESC NULLS LAST, hcp_id
		LIMIT $2
	`, diseaseAreaSelectColumns())

	rows, err := r.db.QueryContext(ctx, query, diseaseAreaID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list current disease area scores: %w", err)
	}
	defer rows.Close()

	var scores []*domain.HcpDiseaseAreaScore
	for rows.Next() {
		s, err := scanDiseaseAreaScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan disease area score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
