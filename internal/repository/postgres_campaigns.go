package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"kol360-data/internal/domain"
)

// PostgresCampaignsRepository 调研活动Repository实现
type PostgresCampaignsRepository struct {
	db *sql.DB
}

// NewPostgresCampaignsRepository 创建活动Repository
func NewPostgresCampaignsRepository(db *sql.DB) *PostgresCampaignsRepository {
	return &PostgresCampaignsRepository{db: db}
}

// 确保实现了接口
var _ CampaignsRepository = (*PostgresCampaignsRepository)(nil)

// GetCampaign 根据campaign_id获取活动
func (r *PostgresCampaignsRepository) GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required")
	}

	query := `
		SELECT
			campaign_id::text,
			client_id::text,
			disease_area_id::text,
			campaign_name,
			COALESCE(status, 'draft') as status,
			activated_at,
			closed_at,
			published_at
		FROM campaigns
		WHERE campaign_id = $1::uuid
	`

	var c domain.Campaign
	var activatedAt, closedAt, publishedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, campaignID).Scan(
		&c.CampaignID,
		&c.ClientID,
		&c.DiseaseAreaID,
		&c.CampaignName,
		&c.Status,
		&activatedAt,
		&closedAt,
		&publishedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("campaign %s: %w", campaignID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	if activatedAt.Valid {
		c.ActivatedAt = &activatedAt.Time
	}
	if closedAt.Valid {
		c.ClosedAt = &closedAt.Time
	}
	if publishedAt.Valid {
		c.PublishedAt = &publishedAt.Time
	}
	return &c, nil
}

func (r *PostgresCampaignsRepository) setStatus(ctx context.Context, campaignID, set string, args ...any) error {
	query := fmt.Sprintf(`UPDATE campaigns SET %s WHERE campaign_id = $1::uuid`, set)
	res, err := r.db.ExecContext(ctx, query, append([]any{campaignID}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update campaign status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("campaign %s: %w", campaignID, domain.ErrNotFound)
	}
	return nil
}

// SetActivated draft → active
func (r *PostgresCampaignsRepository) SetActivated(ctx context.Context, campaignID string, at time.Time) error {
	return r.setStatus(ctx, campaignID, "status = 'active', activated_at = $2", at)
}

// SetClosed active → closed
func (r *PostgresCampaignsRepository) SetClosed(ctx context.Context, campaignID string, at time.Time) error {
	return r.setStatus(ctx, campaignID, "status = 'closed', closed_at = $2", at)
}

// SetReopened closed → active，清除关闭时间
func (r *PostgresCampaignsRepository) SetReopened(ctx context.Context, campaignID string) error {
	return r.setStatus(ctx, campaignID, "status = 'active', closed_at = NULL")
}

// SetPublished closed → published（终态）
func (r *PostgresCampaignsRepository) SetPublished(ctx context.Context, campaignID string, at time.Time) error {
	return r.setStatus(ctx, campaignID, "status = 'published', published_at = $2", at)
}

// CountAssignedHcps 活动指派的专家数
func (r *PostgresCampaignsRepository) CountAssignedHcps(ctx context.Context, campaignID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaign_hcps WHERE campaign_id = $1::uuid`, campaignID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assigned hcps: %w", err)
	}
	return count, nil
}

// CountQuestions 活动的题目数
func (r *PostgresCampaignsRepository) CountQuestions(ctx context.Context, campaignID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaign_questions WHERE campaign_id = $1::uuid`, campaignID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// ListQuestionNominationTypes 活动题目实际使用的提名类型（去重）
func (r *PostgresCampaignsRepository) ListQuestionNominationTypes(ctx context.Context, campaignID string) ([]domain.NominationType, error) {
	query := `
		SELECT DISTINCT nomination_type
		FROM campaign_questions
		WHERE campaign_id = $1::uuid AND nomination_type IS NOT NULL
		ORDER BY nomination_type
	`
	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list question nomination types: %w", err)
	}
	defer rows.Close()

	var types []domain.NominationType
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan nomination type: %w", err)
		}
		t, err := domain.ParseNominationType(code)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// GetCompositeConfig 读取活动的复合分权重配置
func (r *PostgresCampaignsRepository) GetCompositeConfig(ctx context.Context, campaignID string) (*domain.CompositeScoreConfig, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required")
	}

	cols := make([]string, 0, domain.ObjectiveDimensionCount+1)
	for _, d := range domain.AllObjectiveDimensions {
		cols = append(cols, fmt.Sprintf("COALESCE(%s, 0)", objectiveWeightColumns[d]))
	}
	cols = append(cols, "COALESCE(w_survey, 0)")

	query := fmt.Sprintf(`SELECT %s FROM composite_score_configs WHERE campaign_id = $1::uuid`,
		strings.Join(cols, ", "))

	cfg := &domain.CompositeScoreConfig{CampaignID: campaignID}
	dest := make([]any, 0, domain.ObjectiveDimensionCount+1)
	for _, d := range domain.AllObjectiveDimensions {
		dest = append(dest, &cfg.DimensionWeights[d])
	}
	dest = append(dest, &cfg.SurveyWeight)

	if err := r.db.QueryRowContext(ctx, query, campaignID).Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("composite score config for campaign %s: %w", campaignID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get composite score config: %w", err)
	}
	return cfg, nil
}
