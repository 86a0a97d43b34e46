package service

import (
	"context"
	"errors"

	"kol360-data/internal/domain"
	"kol360-data/internal/repository"

	"go.uber.org/zap"
)

// CompositeScoreService 复合分计算器
// 复合分 = Σ(客观维度分 × 权重/100) + 问卷分 × 问卷权重/100
// 必须在 Survey 计算之后运行；无评分行时 no-op
type CompositeScoreService struct {
	campaignRepo repository.CampaignsRepository
	scoreRepo    repository.CampaignScoresRepository
	daRepo       repository.DiseaseAreaScoresRepository
	logger       *zap.Logger
}

// NewCompositeScoreService 创建复合分计算器
func NewCompositeScoreService(
	campaignRepo repository.CampaignsRepository,
	scoreRepo repository.CampaignScoresRepository,
	daRepo repository.DiseaseAreaScoresRepository,
	logger *zap.Logger,
) *CompositeScoreService {
	return &CompositeScoreService{
		campaignRepo: campaignRepo,
		scoreRepo:    scoreRepo,
		daRepo:       daRepo,
		logger:       logger,
	}
}

// CalculateCompositeScores 计算活动内每个专家的复合分
// 活动或权重配置缺失返回 domain.ErrNotFound；
// 专家无当前疾病领域客观分时 8 个维度按 0 计
func (s *CompositeScoreService) CalculateCompositeScores(ctx context.Context, campaignID string) (*ScoreRunResult, error) {
	campaign, err := s.campaignRepo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.campaignRepo.GetCompositeConfig(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	scores, err := s.scoreRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		// Survey 尚未计算：no-op，调用方负责先算问卷分
		return &ScoreRunResult{}, nil
	}

	result := &ScoreRunResult{Processed: len(scores)}
	for _, score := range scores {
		var dims [domain.ObjectiveDimensionCount]*float64
		current, err := s.daRepo.GetCurrent(ctx, score.HcpID, campaign.DiseaseAreaID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if current != nil {
			dims = current.Dimensions
		}

		composite := cfg.CompositeScore(dims, score.SurveyScore)
		if err := s.scoreRepo.UpdateCompositeScore(ctx, campaignID, score.HcpID, composite); err != nil {
			return nil, err
		}
		result.Updated++
	}

	s.logger.Info("Composite scores calculated",
		zap.String("campaign_id", campaignID),
		zap.Int("hcps", result.Updated),
	)
	return result, nil
}
