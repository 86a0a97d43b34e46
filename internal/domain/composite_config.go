package domain

// CompositeScoreConfig 复合分权重配置（对应 composite_score_configs 表）
// 每个活动一行：8 个客观维度权重 + 问卷权重，0-100 百分比。
// 不强制合计为 100——允许刻意过权/欠权。
type CompositeScoreConfig struct {
	CampaignID string `db:"campaign_id"` // PRIMARY KEY, FK campaigns

	// 客观维度权重（定长数组，下标为 ObjectiveDimension）
	DimensionWeights [ObjectiveDimensionCount]float64 `db:"-"`

	// 问卷权重
	SurveyWeight float64 `db:"w_survey"`
}

// CompositeScore 按权重公式计算复合分：
// Σ(dimScore_i × w_i / 100) + surveyScore × wSurvey / 100
// dims 中 nil 维度与 nil surveyScore 按 0 计
func (c *CompositeScoreConfig) CompositeScore(dims [ObjectiveDimensionCount]*float64, surveyScore *float64) float64 {
	var total float64
	for _, d := range AllObjectiveDimensions {
		if dims[d] != nil {
			total += *dims[d] * c.DimensionWeights[d] / 100
		}
	}
	if surveyScore != nil {
		total += *surveyScore * c.SurveyWeight / 100
	}
	return total
}
