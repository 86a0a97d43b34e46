package httpapi

import (
	"net/http"

	"kol360-data/internal/service"

	"go.uber.org/zap"
)

// CampaignHandler 活动生命周期与评分计算 HTTP 处理器
type CampaignHandler struct {
	campaigns *service.CampaignService
	survey    *service.SurveyScoreService
	composite *service.CompositeScoreService
	match     *service.MatchService
	logger    *zap.Logger
}

// NewCampaignHandler 创建活动处理器
func NewCampaignHandler(
	campaigns *service.CampaignService,
	survey *service.SurveyScoreService,
	composite *service.CompositeScoreService,
	match *service.MatchService,
	logger *zap.Logger,
) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
		survey:    survey,
		composite: composite,
		match:     match,
		logger:    logger,
	}
}

// Activate POST /admin/api/v1/campaigns/{id}/activate
func (h *CampaignHandler) Activate(w http.ResponseWriter, r *http.Request, campaignID string) {
	campaign, err := h.campaigns.Activate(r.Context(), campaignID)
	if err != nil {
		h.logger.Warn("Failed to activate campaign", zap.String("campaign_id", campaignID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, campaign)
}

// Close POST /admin/api/v1/campaigns/{id}/close
func (h *CampaignHandler) Close(w http.ResponseWriter, r *http.Request, campaignID string) {
	campaign, err := h.campaigns.Close(r.Context(), campaignID)
	if err != nil {
		h.logger.Warn("Failed to close campaign", zap.String("campaign_id", campaignID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, campaign)
}

// Reopen POST /admin/api/v1/campaigns/{id}/reopen
func (h *CampaignHandler) Reopen(w http.ResponseWriter, r *http.Request, campaignID string) {
	campaign, err := h.campaigns.Reopen(r.Context(), campaignID)
	if err != nil {
		h.logger.Warn("Failed to reopen campaign", zap.String("campaign_id", campaignID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, campaign)
}

// Publish POST /admin/api/v1/campaigns/{id}/publish
// 串行执行调研分计算、综合分计算和疾病领域发布
func (h *CampaignHandler) Publish(w http.ResponseWriter, r *http.Request, campaignID string) {
	result, err := h.campaigns.Publish(r.Context(), campaignID, actorFrom(r))
	if err != nil {
		h.logger.Error("Failed to publish campaign", zap.String("campaign_id", campaignID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, result)
}

// CalculateSurveyScores POST /admin/api/v1/campaigns/{id}/scores/survey
// 单独触发调研分重算（发布前预览用），可重复执行
func (h *CampaignHandler) CalculateSurveyScores(w http.ResponseWriter, r *http.Request, campaignID string) {
	result, err := h.survey.CalculateSurveyScores(r.Context(), campaignID)
	if err != nil {
		h.logger.Error("Failed to calculate survey scores", zap.String("campaign_id", campaignID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, result)
}

// CalculateCompositeScores POST /admin/api/v1/campaigns/{id}/scores/composite
func (h *CampaignHandler) CalculateCompositeScores(w http.ResponseWriter, r *http.Request, campaignID string) {
	result, err := h.composite.CalculateCompositeScores(r.Context(), campaignID)
	if err != nil {
		h.logger.Error("Failed to calculate composite scores", zap.String("campaign_id", campaignID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, result)
}

// BulkAutoMatch POST /admin/api/v1/campaigns/{id}/nominations/auto-match
func (h *CampaignHandler) BulkAutoMatch(w http.ResponseWriter, r *http.Request, campaignID string) {
	result, err := h.match.BulkAutoMatch(r.Context(), campaignID, actorFrom(r))
	if err != nil {
		h.logger.Error("Bulk auto match failed", zap.String("campaign_id", campaignID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, result)
}
