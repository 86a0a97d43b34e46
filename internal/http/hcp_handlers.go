package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kol360-data/internal/domain"
	"kol360-data/internal/repository"
	"kol360-data/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HcpHandler 专家注册库 HTTP 处理器（列表、Excel 导入导出、客观分刷新）
type HcpHandler struct {
	hcpRepo   repository.HcpsRepository
	objective *service.ObjectiveScoreService
	logger    *zap.Logger
}

// NewHcpHandler 创建专家处理器
func NewHcpHandler(hcpRepo repository.HcpsRepository, objective *service.ObjectiveScoreService, logger *zap.Logger) *HcpHandler {
	return &HcpHandler{
		hcpRepo:   hcpRepo,
		objective: objective,
		logger:    logger,
	}
}

// hcpListResponse 专家列表响应（分页）
type hcpListResponse struct {
	Items []*domain.Hcp `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

func parsePagination(r *http.Request) (page, size int) {
	page, size = 1, 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v > 0 && v <= 200 {
		size = v
	}
	return page, size
}

// List GET /admin/api/v1/hcps?client_id=&specialty=&search=&page=&size=
func (h *HcpHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.HcpFilters{
		ClientID:  q.Get("client_id"),
		Specialty: q.Get("specialty"),
		Search:    q.Get("search"),
	}
	page, size := parsePagination(r)

	items, total, err := h.hcpRepo.ListHcps(r.Context(), filter, page, size)
	if err != nil {
		h.logger.Error("Failed to list hcps", zap.Error(err))
		writeError(w, err)
		return
	}
	writeOk(w, hcpListResponse{Items: items, Total: total, Page: page, Size: size})
}

// importResult 导入结果统计
type importResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Import POST /admin/api/v1/hcps/import（multipart，字段 file + client_id）
// NPI 已存在的行跳过计入 Skipped；单行失败收集进 Errors，不中断整批
func (h *HcpHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB max
		writeJSON(w, http.StatusBadRequest, Fail("failed to parse form"))
		return
	}
	clientID := r.FormValue("client_id")
	if clientID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("client_id is required"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("file not found in request"))
		return
	}
	defer file.Close()

	rows, err := ParseHcpImport(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}

	actor := actorFrom(r)
	now := time.Now().UTC()
	result := importResult{}
	for i, row := range rows {
		hcp := &domain.Hcp{
			HcpID:     uuid.NewString(),
			ClientID:  clientID,
			NPI:       row.NPI,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Specialty: row.Specialty,
			Status:    "active",
			CreatedAt: now,
			CreatedBy: actor,
		}
		if _, err := h.hcpRepo.CreateHcp(r.Context(), hcp); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				result.Skipped++
			} else {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d (npi %s): %v", i+2, row.NPI, err))
			}
			continue
		}
		for _, aliasName := range row.Aliases {
			alias := &domain.HcpAlias{
				AliasID:   uuid.NewString(),
				HcpID:     hcp.HcpID,
				Alias:     aliasName,
				CreatedAt: now,
				CreatedBy: actor,
			}
			if _, err := h.hcpRepo.AddAlias(r.Context(), alias); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d alias %q: %v", i+2, aliasName, err))
			}
		}
		result.Created++
	}

	h.logger.Info("Hcp import finished",
		zap.String("client_id", clientID),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	writeOk(w, result)
}

// Export GET /admin/api/v1/hcps/export?client_id=&specialty=&search=
func (h *HcpHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.HcpFilters{
		ClientID:  q.Get("client_id"),
		Specialty: q.Get("specialty"),
		Search:    q.Get("search"),
	}

	// 导出不分页，一次拉满
	items, _, err := h.hcpRepo.ListHcps(r.Context(), filter, 1, 10000)
	if err != nil {
		h.logger.Error("Failed to list hcps for export", zap.Error(err))
		writeError(w, err)
		return
	}

	excelData, err := GenerateHcpExport(items)
	if err != nil {
		h.logger.Error("Failed to generate hcp export", zap.Error(err))
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=hcp-registry-export.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(excelData)
}

// RefreshObjectiveScores POST /admin/api/v1/hcps/{id}/objective-scores/refresh?disease_area_id=
func (h *HcpHandler) RefreshObjectiveScores(w http.ResponseWriter, r *http.Request, hcpID string) {
	diseaseAreaID := strings.TrimSpace(r.URL.Query().Get("disease_area_id"))
	if diseaseAreaID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("disease_area_id is required"))
		return
	}

	if err := h.objective.RefreshHcpObjectiveScores(r.Context(), hcpID, diseaseAreaID); err != nil {
		h.logger.Warn("Failed to refresh objective scores",
			zap.String("hcp_id", hcpID),
			zap.String("disease_area_id", diseaseAreaID),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeOk(w, map[string]string{"hcp_id": hcpID, "disease_area_id": diseaseAreaID})
}
