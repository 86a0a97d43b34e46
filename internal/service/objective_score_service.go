package service

import (
	"context"

	"kol360-data/internal/domain"
	"kol360-data/internal/repository"

	"go.uber.org/zap"
)

// MetricsFetcher 客观维度评分数据源抽象（生产实现为 MetricsClient）
type MetricsFetcher interface {
	FetchHcpDimensions(ctx context.Context, npi string) ([domain.ObjectiveDimensionCount]*float64, error)
}

// ObjectiveScoreService 客观维度评分刷新服务
// 从指标厂家拉取最新维度评分，就地更新当前聚合行。
// 刷新不产生新版本：版本翻转只由发布引擎触发，刷新后的值在下次发布时被继承
type ObjectiveScoreService struct {
	fetcher MetricsFetcher
	hcpRepo repository.HcpsRepository
	daRepo  repository.DiseaseAreaScoresRepository
	logger  *zap.Logger
}

// NewObjectiveScoreService 创建客观评分刷新服务
func NewObjectiveScoreService(
	fetcher MetricsFetcher,
	hcpRepo repository.HcpsRepository,
	daRepo repository.DiseaseAreaScoresRepository,
	logger *zap.Logger,
) *ObjectiveScoreService {
	return &ObjectiveScoreService{
		fetcher: fetcher,
		hcpRepo: hcpRepo,
		daRepo:  daRepo,
		logger:  logger,
	}
}

// RefreshHcpObjectiveScores 刷新单个专家在某疾病领域的客观维度评分
// 专家或当前聚合行不存在时返回 domain.ErrNotFound
func (s *ObjectiveScoreService) RefreshHcpObjectiveScores(ctx context.Context, hcpID, diseaseAreaID string) error {
	hcp, err := s.hcpRepo.GetHcp(ctx, hcpID)
	if err != nil {
		return err
	}

	current, err := s.daRepo.GetCurrent(ctx, hcpID, diseaseAreaID)
	if err != nil {
		return err
	}

	dims, err := s.fetcher.FetchHcpDimensions(ctx, hcp.NPI)
	if err != nil {
		return err
	}

	if err := s.daRepo.UpdateObjectiveDimensions(ctx, current.ScoreID, dims); err != nil {
		return err
	}

	s.logger.Info("Refreshed hcp objective scores",
		zap.String("hcp_id", hcpID),
		zap.String("disease_area_id", diseaseAreaID),
	)
	return nil
}
