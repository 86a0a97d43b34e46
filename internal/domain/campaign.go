package domain

import "time"

// CampaignStatus 调研活动状态
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignClosed    CampaignStatus = "closed"
	CampaignPublished CampaignStatus = "published" // 终态
)

// Campaign 调研活动领域模型（对应 campaigns 表）
type Campaign struct {
	// 主键
	CampaignID string `db:"campaign_id"` // UUID, PRIMARY KEY

	// 归属
	ClientID      string `db:"client_id"`       // FK clients
	DiseaseAreaID string `db:"disease_area_id"` // FK disease_areas（发布时评分聚合的路由键）

	// 基本信息
	CampaignName string `db:"campaign_name"` // VARCHAR(255), NOT NULL

	// 状态机：draft → active → closed → published；closed 可 reopen 回 active
	Status CampaignStatus `db:"status"` // DEFAULT 'draft'

	// 生命周期时间戳
	ActivatedAt *time.Time `db:"activated_at"`
	ClosedAt    *time.Time `db:"closed_at"`
	PublishedAt *time.Time `db:"published_at"`
}
