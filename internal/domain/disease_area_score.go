package domain

import "time"

// HcpDiseaseAreaScore 专家疾病领域累计评分（对应 hcp_disease_area_scores 表）
// 跨活动聚合，SCD Type 2 历史化：
//   - 每 (hcp, disease_area) 至多一行 is_current = true
//   - 历史行有效期区间首尾相接、互不重叠（旧行 effective_to = 新行 effective_from）
type HcpDiseaseAreaScore struct {
	// 主键
	ScoreID string `db:"score_id"` // UUID, PRIMARY KEY

	// 维度键
	HcpID         string `db:"hcp_id"`          // FK hcps
	DiseaseAreaID string `db:"disease_area_id"` // FK disease_areas

	// 8 个客观维度评分（外部厂家提供，版本翻转时原样继承）
	Dimensions [ObjectiveDimensionCount]*float64 `db:"-"`

	// 问卷聚合分：该疾病领域内所有活动问卷分的均值
	SurveyScore *float64 `db:"survey_score"`

	// 复合分（用发布时活动的权重配置重算）
	CompositeScore *float64 `db:"composite_score"`

	// 累计量
	TotalNominationCount int `db:"total_nomination_count"`
	CampaignCount        int `db:"campaign_count"`

	// SCD Type 2 字段
	IsCurrent     bool       `db:"is_current"`
	EffectiveFrom time.Time  `db:"effective_from"`
	EffectiveTo   *time.Time `db:"effective_to"` // 当前行为 nil
}
