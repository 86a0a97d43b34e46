package service

import (
	"context"
	"time"

	"kol360-data/internal/domain"
	"kol360-data/internal/repository"

	"go.uber.org/zap"
)

// SurveyScoreService 问卷评分计算器
// 全量重算：同样输入重复执行产出完全相同的评分行（天然幂等）
type SurveyScoreService struct {
	campaignRepo repository.CampaignsRepository
	nomRepo      repository.NominationsRepository
	scoreRepo    repository.CampaignScoresRepository
	logger       *zap.Logger
}

// NewSurveyScoreService 创建问卷评分计算器
func NewSurveyScoreService(
	campaignRepo repository.CampaignsRepository,
	nomRepo repository.NominationsRepository,
	scoreRepo repository.CampaignScoresRepository,
	logger *zap.Logger,
) *SurveyScoreService {
	return &SurveyScoreService{
		campaignRepo: campaignRepo,
		nomRepo:      nomRepo,
		scoreRepo:    scoreRepo,
		logger:       logger,
	}
}

// ScoreRunResult 评分计算结果
type ScoreRunResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
}

// CalculateSurveyScores 计算活动内每个专家的问卷评分
//
// 类型模式（活动题目带提名类型标签）：
//   - 按 (hcp, type) 计数，每类型内以最大计数为基准归一化到 100
//   - typeScore = count / maxCountOfType × 100；无提名的类型缺失（不是 0）
//   - 综合分 = 有效类型分的算术平均
//
// legacy 模式（题目全部无类型标签）：
//   - 按 hcp 计数，以活动内最大计数为基准：score = count / maxCount × 100
//
// 两种归一化基准刻意不统一：历史活动可能混用两种题目制式
func (s *SurveyScoreService) CalculateSurveyScores(ctx context.Context, campaignID string) (*ScoreRunResult, error) {
	if _, err := s.campaignRepo.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}

	types, err := s.campaignRepo.ListQuestionNominationTypes(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	counts, err := s.nomRepo.CountResolvedByHcpAndType(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	var scores []*domain.HcpCampaignScore
	if len(types) == 0 {
		scores = s.calculateLegacy(campaignID, counts)
	} else {
		scores = s.calculateTyped(campaignID, counts)
	}

	now := time.Now().UTC()
	result := &ScoreRunResult{Processed: len(scores)}
	for _, score := range scores {
		score.CalculatedAt = now
		if err := s.scoreRepo.UpsertCampaignScore(ctx, score); err != nil {
			return nil, err
		}
		result.Updated++
	}

	s.logger.Info("Survey scores calculated",
		zap.String("campaign_id", campaignID),
		zap.Int("hcps", result.Processed),
		zap.Bool("legacy_mode", len(types) == 0),
	)
	return result, nil
}

// calculateTyped 类型模式：每类型内按最大计数归一化
func (s *SurveyScoreService) calculateTyped(campaignID string, counts []repository.HcpNominationCount) []*domain.HcpCampaignScore {
	// 每类型的最大计数
	var maxByType [domain.NominationTypeCount]int
	for _, c := range counts {
		if c.Type == nil {
			continue
		}
		if c.Count > maxByType[*c.Type] {
			maxByType[*c.Type] = c.Count
		}
	}

	byHcp := map[string]*domain.HcpCampaignScore{}
	order := []string{}
	for _, c := range counts {
		score, ok := byHcp[c.HcpID]
		if !ok {
			score = &domain.HcpCampaignScore{CampaignID: campaignID, HcpID: c.HcpID}
			byHcp[c.HcpID] = score
			order = append(order, c.HcpID)
		}
		// 无类型标签的提名计入总数，但不产生类型分
		score.TotalNominations += c.Count
		if c.Type == nil {
			continue
		}
		score.Types[*c.Type].Count = c.Count
	}

	for _, hcpID := range order {
		score := byHcp[hcpID]
		var sum float64
		var present int
		for _, t := range domain.AllNominationTypes {
			count := score.Types[t].Count
			if count == 0 || maxByType[t] == 0 {
				continue
			}
			v := float64(count) / float64(maxByType[t]) * 100
			score.Types[t].Score = &v
			sum += v
			present++
		}
		if present > 0 {
			consolidated := sum / float64(present)
			score.SurveyScore = &consolidated
		}
	}

	scores := make([]*domain.HcpCampaignScore, 0, len(order))
	for _, hcpID := range order {
		scores = append(scores, byHcp[hcpID])
	}
	return scores
}

// calculateLegacy legacy 模式：按活动内最大计数归一化的单维度分
func (s *SurveyScoreService) calculateLegacy(campaignID string, counts []repository.HcpNominationCount) []*domain.HcpCampaignScore {
	totals := map[string]int{}
	order := []string{}
	for _, c := range counts {
		if _, ok := totals[c.HcpID]; !ok {
			order = append(order, c.HcpID)
		}
		totals[c.HcpID] += c.Count
	}

	maxCount := 0
	for _, n := range totals {
		if n > maxCount {
			maxCount = n
		}
	}

	scores := make([]*domain.HcpCampaignScore, 0, len(order))
	for _, hcpID := range order {
		score := &domain.HcpCampaignScore{
			CampaignID:       campaignID,
			HcpID:            hcpID,
			TotalNominations: totals[hcpID],
		}
		if maxCount > 0 {
			v := float64(totals[hcpID]) / float64(maxCount) * 100
			score.SurveyScore = &v
		}
		scores = append(scores, score)
	}
	return scores
}
