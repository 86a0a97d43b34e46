package httpapi

import (
	"encoding/json"
	"net/http"

	"kol360-data/internal/service"

	"go.uber.org/zap"
)

// NominationHandler 提名解析 HTTP 处理器
type NominationHandler struct {
	match  *service.MatchService
	logger *zap.Logger
}

// NewNominationHandler 创建提名处理器
func NewNominationHandler(match *service.MatchService, logger *zap.Logger) *NominationHandler {
	return &NominationHandler{match: match, logger: logger}
}

// GetSuggestions GET /admin/api/v1/nominations/{id}/suggestions
func (h *NominationHandler) GetSuggestions(w http.ResponseWriter, r *http.Request, nominationID string) {
	suggestions, err := h.match.GetSuggestionsForNomination(r.Context(), nominationID)
	if err != nil {
		h.logger.Warn("Failed to get match suggestions", zap.String("nomination_id", nominationID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, suggestions)
}

// matchRequest 手工匹配请求体
type matchRequest struct {
	HcpID           string `json:"hcp_id"`
	AddAlias        bool   `json:"add_alias"`
	MatchConfidence *int   `json:"match_confidence,omitempty"`
}

// Match POST /admin/api/v1/nominations/{id}/match
func (h *NominationHandler) Match(w http.ResponseWriter, r *http.Request, nominationID string) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if req.HcpID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("hcp_id is required"))
		return
	}

	nom, err := h.match.MatchToHcp(r.Context(), nominationID, req.HcpID, req.AddAlias, actorFrom(r), "", req.MatchConfidence)
	if err != nil {
		h.logger.Warn("Failed to match nomination",
			zap.String("nomination_id", nominationID),
			zap.String("hcp_id", req.HcpID),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeOk(w, nom)
}

// CreateHcpAndMatch POST /admin/api/v1/nominations/{id}/hcp
func (h *NominationHandler) CreateHcpAndMatch(w http.ResponseWriter, r *http.Request, nominationID string) {
	var input service.NewHcpInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if input.NPI == "" || input.LastName == "" {
		writeJSON(w, http.StatusBadRequest, Fail("npi and last_name are required"))
		return
	}

	hcp, err := h.match.CreateHcpAndMatch(r.Context(), nominationID, input, actorFrom(r))
	if err != nil {
		h.logger.Warn("Failed to create hcp from nomination",
			zap.String("nomination_id", nominationID),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeOk(w, hcp)
}

// excludeRequest 排除请求体
type excludeRequest struct {
	Reason string `json:"reason"`
}

// Exclude POST /admin/api/v1/nominations/{id}/exclude
func (h *NominationHandler) Exclude(w http.ResponseWriter, r *http.Request, nominationID string) {
	var req excludeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, Fail("reason is required"))
		return
	}

	nom, err := h.match.ExcludeNomination(r.Context(), nominationID, req.Reason, actorFrom(r))
	if err != nil {
		h.logger.Warn("Failed to exclude nomination", zap.String("nomination_id", nominationID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, nom)
}
