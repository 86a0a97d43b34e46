package repository

import (
	"context"
	"time"

	"kol360-data/internal/domain"
)

// CampaignsRepository 调研活动Repository接口
// 状态转换的业务守卫在 service 层；这里只做状态写入与关联计数
type CampaignsRepository interface {
	// GetCampaign 根据campaign_id获取活动
	// 不存在时返回 domain.ErrNotFound
	GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error)

	// ========== 状态写入 ==========
	// SetActivated draft → active，记录 activated_at
	SetActivated(ctx context.Context, campaignID string, at time.Time) error

	// SetClosed active → closed，记录 closed_at
	SetClosed(ctx context.Context, campaignID string, at time.Time) error

	// SetReopened closed → active，清除 closed_at
	SetReopened(ctx context.Context, campaignID string) error

	// SetPublished closed → published（终态），记录 published_at
	SetPublished(ctx context.Context, campaignID string, at time.Time) error

	// ========== 关联查询 ==========
	// CountAssignedHcps 活动指派的专家数（激活前置条件）
	CountAssignedHcps(ctx context.Context, campaignID string) (int, error)

	// CountQuestions 活动的题目数（激活前置条件）
	CountQuestions(ctx context.Context, campaignID string) (int, error)

	// ListQuestionNominationTypes 活动题目实际使用的提名类型（去重，不含 NULL）
	// 为空时 Survey 计算器走 legacy 单维度模式
	ListQuestionNominationTypes(ctx context.Context, campaignID string) ([]domain.NominationType, error)

	// GetCompositeConfig 读取活动的复合分权重配置
	// 不存在时返回 domain.ErrNotFound
	GetCompositeConfig(ctx context.Context, campaignID string) (*domain.CompositeScoreConfig, error)
}
