package domain

import "time"

// NominationStatus 提名解析状态
type NominationStatus string

const (
	NominationUnmatched    NominationStatus = "unmatched"     // 未匹配（初始态）
	NominationMatched      NominationStatus = "matched"       // 已匹配到注册专家
	NominationNewHcp       NominationStatus = "new_hcp"       // 匹配时新建了专家
	NominationReviewNeeded NominationStatus = "review_needed" // 低置信度，待人工复核
	NominationExcluded     NominationStatus = "excluded"      // 已排除（不参与计分）
)

// 匹配方式
const (
	MatchMethodAuto   = "auto"   // bulkAutoMatch 自动确认
	MatchMethodManual = "manual" // 管理员手工匹配
)

// Nomination 提名领域模型（对应 nominations 表）
// 一条问卷回答中的一个被提名姓名
type Nomination struct {
	// 主键
	NominationID string `db:"nomination_id"` // UUID, PRIMARY KEY

	// 归属
	CampaignID string `db:"campaign_id"` // FK campaigns
	QuestionID string `db:"question_id"` // FK campaign_questions
	ResponseID string `db:"response_id"` // 问卷回答标识

	// 原始输入
	RawName string `db:"raw_name"` // VARCHAR(255), NOT NULL

	// 提名类型（继承自题目；老题目无类型标签时为空）
	NominationType *NominationType `db:"nomination_type"`

	// 解析状态
	Status NominationStatus `db:"status"` // DEFAULT 'unmatched'

	// 匹配结果与来源（status 为 matched/new_hcp 时 MatchedHcpID 非空）
	MatchedHcpID    *string    `db:"matched_hcp_id"`
	MatchMethod     *string    `db:"match_method"`     // auto / manual
	MatchConfidence *int       `db:"match_confidence"` // 0-100
	MatchedBy       *string    `db:"matched_by"`
	MatchedAt       *time.Time `db:"matched_at"`

	// 排除原因（status = excluded 时非空）
	ExcludeReason *string `db:"exclude_reason"`
}

// Resolved 是否已解析到专家（参与计分）
func (n *Nomination) Resolved() bool {
	return n.Status == NominationMatched || n.Status == NominationNewHcp
}

// Matchable 当前状态是否允许（重新）匹配
func (n *Nomination) Matchable() bool {
	return n.Status == NominationUnmatched || n.Status == NominationReviewNeeded
}
