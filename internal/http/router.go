package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterCampaignRoutes 活动生命周期与评分计算路由
func (r *Router) RegisterCampaignRoutes(h *CampaignHandler) {
	// /admin/api/v1/campaigns/{id}/{action}
	r.Handle("/admin/api/v1/campaigns/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/admin/api/v1/campaigns/")
		parts := strings.Split(rest, "/")
		if len(parts) < 2 || parts[0] == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		campaignID := parts[0]
		action := strings.Join(parts[1:], "/")

		switch action {
		case "activate":
			h.Activate(w, req, campaignID)
		case "close":
			h.Close(w, req, campaignID)
		case "reopen":
			h.Reopen(w, req, campaignID)
		case "publish":
			h.Publish(w, req, campaignID)
		case "scores/survey":
			h.CalculateSurveyScores(w, req, campaignID)
		case "scores/composite":
			h.CalculateCompositeScores(w, req, campaignID)
		case "nominations/auto-match":
			h.BulkAutoMatch(w, req, campaignID)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterNominationRoutes 提名解析路由
func (r *Router) RegisterNominationRoutes(h *NominationHandler) {
	// /admin/api/v1/nominations/{id}/{action}
	r.Handle("/admin/api/v1/nominations/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/admin/api/v1/nominations/")
		parts := strings.Split(rest, "/")
		if len(parts) != 2 || parts[0] == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		nominationID, action := parts[0], parts[1]

		switch {
		case action == "suggestions" && req.Method == http.MethodGet:
			h.GetSuggestions(w, req, nominationID)
		case action == "match" && req.Method == http.MethodPost:
			h.Match(w, req, nominationID)
		case action == "hcp" && req.Method == http.MethodPost:
			h.CreateHcpAndMatch(w, req, nominationID)
		case action == "exclude" && req.Method == http.MethodPost:
			h.Exclude(w, req, nominationID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterHcpRoutes 专家注册库路由（含 Excel 导入导出与客观分刷新）
func (r *Router) RegisterHcpRoutes(h *HcpHandler) {
	r.Handle("/admin/api/v1/hcps", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.List(w, req)
	})
	r.Handle("/admin/api/v1/hcps/import", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Import(w, req)
	})
	r.Handle("/admin/api/v1/hcps/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Export(w, req)
	})
	// /admin/api/v1/hcps/{id}/objective-scores/refresh
	r.Handle("/admin/api/v1/hcps/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/admin/api/v1/hcps/")
		parts := strings.Split(rest, "/")
		if len(parts) == 3 && parts[1] == "objective-scores" && parts[2] == "refresh" && req.Method == http.MethodPost {
			h.RefreshObjectiveScores(w, req, parts[0])
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
}

// RegisterLeaderboardRoutes 疾病领域排行路由
func (r *Router) RegisterLeaderboardRoutes(h *LeaderboardHandler) {
	// /data/api/v1/disease-areas/{id}/leaderboard
	r.Handle("/data/api/v1/disease-areas/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/data/api/v1/disease-areas/")
		parts := strings.Split(rest, "/")
		if len(parts) != 2 || parts[1] != "leaderboard" || parts[0] == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.GetLeaderboard(w, req, parts[0])
	})
}
