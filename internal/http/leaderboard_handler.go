package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"kol360-data/internal/domain"
	"kol360-data/internal/repository"
	"kol360-data/internal/store"

	"go.uber.org/zap"
)

const (
	// leaderboardCacheTTL 排行缓存时长；发布频率远低于读取频率，允许短暂陈旧
	leaderboardCacheTTL = 60 * time.Second

	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 200
)

// LeaderboardHandler 疾病领域排行 HTTP 处理器（Redis 缓存加速）
type LeaderboardHandler struct {
	daRepo repository.DiseaseAreaScoresRepository
	cache  store.KV
	logger *zap.Logger
}

// NewLeaderboardHandler 创建排行处理器
func NewLeaderboardHandler(daRepo repository.DiseaseAreaScoresRepository, cache store.KV, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		daRepo: daRepo,
		cache:  cache,
		logger: logger,
	}
}

// GetLeaderboard GET /data/api/v1/disease-areas/{id}/leaderboard?limit=
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request, diseaseAreaID string) {
	limit := defaultLeaderboardLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= maxLeaderboardLimit {
		limit = v
	}

	cacheKey := "leaderboard:" + diseaseAreaID + ":" + strconv.Itoa(limit)
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		}
	}

	items, err := h.daRepo.ListCurrentByDiseaseArea(r.Context(), diseaseAreaID, limit)
	if err != nil {
		h.logger.Error("Failed to load leaderboard", zap.String("disease_area_id", diseaseAreaID), zap.Error(err))
		writeError(w, err)
		return
	}

	body, err := json.Marshal(Ok[[]*domain.HcpDiseaseAreaScore](items))
	if err != nil {
		writeError(w, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Set(r.Context(), cacheKey, string(body), leaderboardCacheTTL); err != nil {
			// 缓存写失败不影响响应
			h.logger.Warn("Failed to cache leaderboard", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
