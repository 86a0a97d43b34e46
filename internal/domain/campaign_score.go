package domain

import "time"

// TypeStat 单个提名类型的 count/score 对
// Score 为 nil 表示该类型无提名（缺失 ≠ 0 分，综合分计算时不计入分母）
type TypeStat struct {
	Count int
	Score *float64
}

// HcpCampaignScore 专家单次活动评分（对应 hcp_campaign_scores 表）
// 每 (campaign, hcp) 一行，由 Survey/Composite 计算器全量重算覆盖
type HcpCampaignScore struct {
	CampaignID string `db:"campaign_id"` // PK part, FK campaigns
	HcpID      string `db:"hcp_id"`      // PK part, FK hcps

	// 按类型的 count/score 对（定长数组，下标为 NominationType）
	Types [NominationTypeCount]TypeStat `db:"-"`

	// 问卷综合分：有效类型分的算术平均；legacy 模式下为单维度分
	SurveyScore *float64 `db:"survey_score"`

	// 提名总数（跨类型求和）
	TotalNominations int `db:"total_nominations"`

	// 复合分（Composite 计算器写回；在 Survey 之后计算）
	CompositeScore *float64 `db:"composite_score"`

	// 重算时间（幂等全量重算，每次覆盖）
	CalculatedAt time.Time `db:"calculated_at"`

	// 发布时间（Publication Engine 设置，且只设置一次）
	PublishedAt *time.Time `db:"published_at"`
}
