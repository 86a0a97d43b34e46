package repository

import (
	"context"

	"kol360-data/internal/domain"
)

// NominationsRepository 提名Repository接口
type NominationsRepository interface {
	// GetNomination 根据nomination_id获取提名
	// 不存在时返回 domain.ErrNotFound
	GetNomination(ctx context.Context, nominationID string) (*domain.Nomination, error)

	// ListByCampaignAndStatus 按活动+状态查询提名（bulkAutoMatch 遍历 unmatched 用）
	ListByCampaignAndStatus(ctx context.Context, campaignID string, status domain.NominationStatus) ([]*domain.Nomination, error)

	// UpdateResolution 写回解析结果（状态 + 匹配出处字段）
	UpdateResolution(ctx context.Context, nom *domain.Nomination) error

	// CountResolvedByHcpAndType 统计活动内已解析提名，按 (hcp, type) 分组计数
	// 只统计 matched/new_hcp 两种状态；type 为 NULL 的行对应无类型标签的老题目
	CountResolvedByHcpAndType(ctx context.Context, campaignID string) ([]HcpNominationCount, error)
}

// HcpNominationCount (hcp, type) 分组计数结果
type HcpNominationCount struct {
	HcpID string
	Type  *domain.NominationType // nil = 无类型标签
	Count int
}
