package repository

import (
	"context"
	"time"

	"kol360-data/internal/domain"
)

// CampaignScoresRepository 活动评分Repository接口
type CampaignScoresRepository interface {
	// UpsertCampaignScore 全量覆盖写入一行 (campaign, hcp) 评分
	// ON CONFLICT DO UPDATE：重算幂等，composite/published_at 不在此处回写
	UpsertCampaignScore(ctx context.Context, score *domain.HcpCampaignScore) error

	// ListByCampaign 读取活动全部评分行（按 hcp_id 升序）
	ListByCampaign(ctx context.Context, campaignID string) ([]*domain.HcpCampaignScore, error)

	// UpdateCompositeScore 回写复合分
	UpdateCompositeScore(ctx context.Context, campaignID, hcpID string, score float64) error

	// ListDiseaseAreaSurveyScores 专家在某疾病领域内全部活动的问卷分
	// 含已发布的历史活动与 includeCampaignID 指定的本次活动；无分值的行不返回
	ListDiseaseAreaSurveyScores(ctx context.Context, hcpID, diseaseAreaID, includeCampaignID string) ([]float64, error)

	// MarkPublished 盖发布时间戳（发布引擎处理完该 hcp 后调用，只设置一次）
	MarkPublished(ctx context.Context, campaignID, hcpID string, at time.Time) error
}
