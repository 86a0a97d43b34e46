package repository

import (
	"context"

	"kol360-data/internal/domain"
)

// DiseaseAreaScoresRepository 疾病领域累计评分Repository接口（SCD Type 2）
type DiseaseAreaScoresRepository interface {
	// GetCurrent 读取 (hcp, disease_area) 的当前行（is_current = true）
	// 不存在时返回 domain.ErrNotFound
	GetCurrent(ctx context.Context, hcpID, diseaseAreaID string) (*domain.HcpDiseaseAreaScore, error)

	// InsertCurrent 插入首个当前行（该 (hcp, disease_area) 此前无记录）
	InsertCurrent(ctx context.Context, score *domain.HcpDiseaseAreaScore) (string, error)

	// RotateCurrent 版本翻转：单事务内关闭旧行并插入新行
	// 关闭语句带 is_current = TRUE 守卫并检查影响行数，守卫失败整体回滚，
	// 保证任何时刻每 (hcp, disease_area) 至多一行 current
	RotateCurrent(ctx context.Context, oldScoreID string, next *domain.HcpDiseaseAreaScore) (string, error)

	// UpdateObjectiveDimensions 就地更新当前行的客观维度评分（厂家数据刷新）
	UpdateObjectiveDimensions(ctx context.Context, scoreID string, dims [domain.ObjectiveDimensionCount]*float64) error

	// ListCurrentByDiseaseArea 疾病领域当前排行（按 composite_score 降序）
	ListCurrentByDiseaseArea(ctx context.Context, diseaseAreaID string, limit int) ([]*domain.HcpDiseaseAreaScore, error)
}
