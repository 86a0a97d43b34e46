package service

import (
	"context"
	"fmt"
	"time"

	"kol360-data/internal/domain"
	"kol360-data/internal/repository"

	"go.uber.org/zap"
)

// CampaignService 活动生命周期守卫
// draft → active → closed → published（终态）；closed 可 reopen 回 active。
// publish 按序执行 Survey → Composite → Publication，再落终态
type CampaignService struct {
	campaignRepo repository.CampaignsRepository
	surveyCalc   *SurveyScoreService
	compositeCalc *CompositeScoreService
	publisher    *PublishService
	logger       *zap.Logger
}

// NewCampaignService 创建活动生命周期服务
func NewCampaignService(
	campaignRepo repository.CampaignsRepository,
	surveyCalc *SurveyScoreService,
	compositeCalc *CompositeScoreService,
	publisher *PublishService,
	logger *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo:  campaignRepo,
		surveyCalc:    surveyCalc,
		compositeCalc: compositeCalc,
		publisher:     publisher,
		logger:        logger,
	}
}

func (s *CampaignService) getWithStatus(ctx context.Context, campaignID string, want domain.CampaignStatus, action string) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != want {
		return nil, fmt.Errorf("can only %s from %s (campaign %s is %s): %w",
			action, want, campaignID, campaign.Status, domain.ErrInvalidState)
	}
	return campaign, nil
}

// Activate draft → active
// 前置条件：至少 1 个指派专家、至少 1 道题目
func (s *CampaignService) Activate(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	campaign, err := s.getWithStatus(ctx, campaignID, domain.CampaignDraft, "activate")
	if err != nil {
		return nil, err
	}

	hcps, err := s.campaignRepo.CountAssignedHcps(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if hcps == 0 {
		return nil, fmt.Errorf("campaign %s has no assigned hcps: %w", campaignID, domain.ErrInvalidState)
	}

	questions, err := s.campaignRepo.CountQuestions(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if questions == 0 {
		return nil, fmt.Errorf("campaign %s has no survey questions: %w", campaignID, domain.ErrInvalidState)
	}

	now := time.Now().UTC()
	if err := s.campaignRepo.SetActivated(ctx, campaignID, now); err != nil {
		return nil, err
	}
	campaign.Status = domain.CampaignActive
	campaign.ActivatedAt = &now
	return campaign, nil
}

// Close active → closed
func (s *CampaignService) Close(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	campaign, err := s.getWithStatus(ctx, campaignID, domain.CampaignActive, "close")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.campaignRepo.SetClosed(ctx, campaignID, now); err != nil {
		return nil, err
	}
	campaign.Status = domain.CampaignClosed
	campaign.ClosedAt = &now
	return campaign, nil
}

// Reopen closed → active，清除关闭时间
func (s *CampaignService) Reopen(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	campaign, err := s.getWithStatus(ctx, campaignID, domain.CampaignClosed, "reopen")
	if err != nil {
		return nil, err
	}

	if err := s.campaignRepo.SetReopened(ctx, campaignID); err != nil {
		return nil, err
	}
	campaign.Status = domain.CampaignActive
	campaign.ClosedAt = nil
	return campaign, nil
}

// Publish closed → published（终态）
// 状态守卫使 CLOSED→PUBLISHED 只能成功一次，天然串行化同一活动的发布
func (s *CampaignService) Publish(ctx context.Context, campaignID, publishedBy string) (*PublishResult, error) {
	if _, err := s.getWithStatus(ctx, campaignID, domain.CampaignClosed, "publish"); err != nil {
		return nil, err
	}

	if _, err := s.surveyCalc.CalculateSurveyScores(ctx, campaignID); err != nil {
		return nil, fmt.Errorf("survey calculation failed: %w", err)
	}
	if _, err := s.compositeCalc.CalculateCompositeScores(ctx, campaignID); err != nil {
		return nil, fmt.Errorf("composite calculation failed: %w", err)
	}

	result, err := s.publisher.PublishScores(ctx, campaignID, publishedBy)
	if err != nil {
		return nil, fmt.Errorf("score publication failed: %w", err)
	}

	now := time.Now().UTC()
	if err := s.campaignRepo.SetPublished(ctx, campaignID, now); err != nil {
		return nil, err
	}

	s.logger.Info("Campaign published",
		zap.String("campaign_id", campaignID),
		zap.String("published_by", publishedBy),
		zap.Int("hcps", result.Processed),
	)
	return result, nil
}
