package service

import (
	"context"
	"errors"
	"time"

	"kol360-data/internal/domain"
	"kol360-data/internal/repository"
	"kol360-data/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublishService 评分发布/历史化引擎
// 活动关闭发布时，把活动评分折叠进 (hcp, disease_area) 跨活动聚合（SCD Type 2）。
// 调用方（CampaignService）保证 Survey → Composite 已先行计算完毕
type PublishService struct {
	campaignRepo repository.CampaignsRepository
	scoreRepo    repository.CampaignScoresRepository
	daRepo       repository.DiseaseAreaScoresRepository
	events       *store.StreamPublisher // 可选，nil 时不发事件
	logger       *zap.Logger
}

// NewPublishService 创建发布引擎
func NewPublishService(
	campaignRepo repository.CampaignsRepository,
	scoreRepo repository.CampaignScoresRepository,
	daRepo repository.DiseaseAreaScoresRepository,
	events *store.StreamPublisher,
	logger *zap.Logger,
) *PublishService {
	return &PublishService{
		campaignRepo: campaignRepo,
		scoreRepo:    scoreRepo,
		daRepo:       daRepo,
		events:       events,
		logger:       logger,
	}
}

// PublishResult 发布结果
type PublishResult struct {
	Processed int `json:"processed"`
}

// scoresPublishedEvent 发布完成事件负载
type scoresPublishedEvent struct {
	CampaignID    string    `json:"campaign_id"`
	DiseaseAreaID string    `json:"disease_area_id"`
	HcpCount      int       `json:"hcp_count"`
	PublishedBy   string    `json:"published_by"`
	PublishedAt   time.Time `json:"published_at"`
}

// PublishScores 发布活动评分到疾病领域聚合
//
// 对每行活动评分：
//  1. 已有当前聚合行：在单事务内关闭旧行、插入新行（RotateCurrent）。
//     新行问卷分 = 该疾病领域内所有活动（历史已发布 + 本次）问卷分均值；
//     客观维度原样继承旧行；复合分按权重公式用新问卷分重算；
//     累计量在旧行基础上加本次贡献
//  2. 无聚合行：插入首个当前行，客观维度为空，
//     复合分 = 问卷分 × 问卷权重 / 100
//  3. 给活动评分行盖 published_at 章
//
// 整批共用一个时间戳：旧行 effective_to 与新行 effective_from 严格相等
func (s *PublishService) PublishScores(ctx context.Context, campaignID, publishedBy string) (*PublishResult, error) {
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

	now := time.Now().UTC()
	result := &PublishResult{}
	for _, score := range scores {
		if err := s.publishOne(ctx, campaign, cfg, score, now); err != nil {
			return nil, err
		}
		result.Processed++
	}

	if s.events != nil {
		event := scoresPublishedEvent{
			CampaignID:    campaignID,
			DiseaseAreaID: campaign.DiseaseAreaID,
			HcpCount:      result.Processed,
			PublishedBy:   publishedBy,
			PublishedAt:   now,
		}
		if _, err := s.events.PublishJSON(ctx, store.ScoresPublishedStream, event); err != nil {
			// 事件只是通知，发布本身已落库，不因此失败
			s.logger.Warn("Failed to publish scores event", zap.Error(err))
		}
	}

	s.logger.Info("Campaign scores published",
		zap.String("campaign_id", campaignID),
		zap.String("disease_area_id", campaign.DiseaseAreaID),
		zap.Int("hcps", result.Processed),
	)
	return result, nil
}

func (s *PublishService) publishOne(
	ctx context.Context,
	campaign *domain.Campaign,
	cfg *domain.CompositeScoreConfig,
	score *domain.HcpCampaignScore,
	now time.Time,
) error {
	current, err := s.daRepo.GetCurrent(ctx, score.HcpID, campaign.DiseaseAreaID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if current != nil {
		surveyScores, err := s.scoreRepo.ListDiseaseAreaSurveyScores(ctx, score.HcpID, campaign.DiseaseAreaID, campaign.CampaignID)
		if err != nil {
			return err
		}
		var aggregated *float64
		if len(surveyScores) > 0 {
			var sum float64
			for _, v := range surveyScores {
				sum += v
			}
			mean := sum / float64(len(surveyScores))
			aggregated = &mean
		}

		composite := cfg.CompositeScore(current.Dimensions, aggregated)
		next := &domain.HcpDiseaseAreaScore{
			ScoreID:              uuid.NewString(),
			HcpID:                score.HcpID,
			DiseaseAreaID:        campaign.DiseaseAreaID,
			Dimensions:           current.Dimensions,
			SurveyScore:          aggregated,
			CompositeScore:       &composite,
			TotalNominationCount: current.TotalNominationCount + score.TotalNominations,
			CampaignCount:        current.CampaignCount + 1,
			IsCurrent:            true,
			EffectiveFrom:        now,
		}
		if _, err := s.daRepo.RotateCurrent(ctx, current.ScoreID, next); err != nil {
			return err
		}
	} else {
		var dims [domain.ObjectiveDimensionCount]*float64
		composite := cfg.CompositeScore(dims, score.SurveyScore)
		first := &domain.HcpDiseaseAreaScore{
			ScoreID:              uuid.NewString(),
			HcpID:                score.HcpID,
			DiseaseAreaID:        campaign.DiseaseAreaID,
			SurveyScore:          score.SurveyScore,
			CompositeScore:       &composite,
			TotalNominationCount: score.TotalNominations,
			CampaignCount:        1,
			IsCurrent:            true,
			EffectiveFrom:        now,
		}
		if _, err := s.daRepo.InsertCurrent(ctx, first); err != nil {
			return err
		}
	}

	return s.scoreRepo.MarkPublished(ctx, campaign.CampaignID, score.HcpID, now)
}
