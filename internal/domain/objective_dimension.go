package domain

import "fmt"

// ObjectiveDimension 客观影响力维度（固定 8 类，评分由外部指标厂家提供）
type ObjectiveDimension int

const (
	Publications ObjectiveDimension = iota
	ClinicalTrials
	TradePublications
	OrgLeadership
	OrgAwareness
	Conferences
	SocialMedia
	MediaMentions

	objectiveDimensionCount
)

// ObjectiveDimensionCount 客观维度总数（用于定长数组下标）
const ObjectiveDimensionCount = int(objectiveDimensionCount)

var objectiveDimensionCodes = [ObjectiveDimensionCount]string{
	Publications:      "publications",
	ClinicalTrials:    "clinical_trials",
	TradePublications: "trade_publications",
	OrgLeadership:     "org_leadership",
	OrgAwareness:      "org_awareness",
	Conferences:       "conferences",
	SocialMedia:       "social_media",
	MediaMentions:     "media_mentions",
}

// AllObjectiveDimensions 固定顺序的维度列表（遍历用）
var AllObjectiveDimensions = [ObjectiveDimensionCount]ObjectiveDimension{
	Publications,
	ClinicalTrials,
	TradePublications,
	OrgLeadership,
	OrgAwareness,
	Conferences,
	SocialMedia,
	MediaMentions,
}

// Valid 是否是已定义的客观维度
func (d ObjectiveDimension) Valid() bool {
	return d >= 0 && d < objectiveDimensionCount
}

// Code 维度编码（DB 列名前缀 / 厂家 API 字段名）
func (d ObjectiveDimension) Code() string {
	if !d.Valid() {
		return ""
	}
	return objectiveDimensionCodes[d]
}

// ParseObjectiveDimension 从编码解析客观维度
func ParseObjectiveDimension(code string) (ObjectiveDimension, error) {
	for _, d := range AllObjectiveDimensions {
		if objectiveDimensionCodes[d] == code {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown objective dimension %q", code)
}
