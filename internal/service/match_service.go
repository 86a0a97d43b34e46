package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"kol360-data/internal/domain"
	"kol360-data/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// autoMatchThreshold bulkAutoMatch 自动确认的最低建议分
	autoMatchThreshold = 95

	// reviewConfidenceThreshold 手工匹配置信度低于此值时进入人工复核
	reviewConfidenceThreshold = 70

	// maxSuggestions 建议列表最大长度
	maxSuggestions = 10
)

// MatchService 提名身份匹配服务
// 负责候选检索打分、提名状态流转、专家新建与批量自动匹配
type MatchService struct {
	hcpRepo repository.HcpsRepository
	nomRepo repository.NominationsRepository
	logger  *zap.Logger
}

// NewMatchService 创建匹配服务
func NewMatchService(hcpRepo repository.HcpsRepository, nomRepo repository.NominationsRepository, logger *zap.Logger) *MatchService {
	return &MatchService{
		hcpRepo: hcpRepo,
		nomRepo: nomRepo,
		logger:  logger,
	}
}

// Suggestion 匹配建议（候选专家 + 规则分）
type Suggestion struct {
	Hcp   *domain.Hcp `json:"hcp"`
	Score int         `json:"score"`
}

// normalizeName 规范化姓名：小写、去掉非字母字符（保留空白做分词）
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// 非字母按分隔处理，"O'Brien-Smith" → "o brien smith"
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// scoreCandidate 对单个候选打分，规则从高到低取首个命中（不叠加）
func scoreCandidate(rawName, normRaw string, tokens []string, hcp *domain.Hcp) int {
	normFull := normalizeName(hcp.FullName())
	trimmedRaw := strings.TrimSpace(rawName)

	// 100：规范化全名完全相等
	if normFull != "" && normFull == normRaw {
		return 100
	}

	// 95：某别名与原始姓名完全相等（大小写不敏感）
	for _, a := range hcp.Aliases {
		if strings.EqualFold(strings.TrimSpace(a.Alias), trimmedRaw) {
			return 95
		}
	}

	// 85：全名与原始姓名互为包含
	if normFull != "" && (strings.Contains(normFull, normRaw) || strings.Contains(normRaw, normFull)) {
		return 85
	}

	// 75：姓氏等于原始姓名的最后一个 token
	if len(tokens) > 0 && normalizeName(hcp.LastName) == tokens[len(tokens)-1] {
		return 75
	}

	// 70：某别名与原始姓名有包含关系（任一方向）
	lowerRaw := strings.ToLower(trimmedRaw)
	for _, a := range hcp.Aliases {
		lowerAlias := strings.ToLower(strings.TrimSpace(a.Alias))
		if lowerAlias == "" {
			continue
		}
		if strings.Contains(lowerAlias, lowerRaw) || strings.Contains(lowerRaw, lowerAlias) {
			return 70
		}
	}

	// 兜底：按 first/last name 包含的 token 数计分，封顶 60
	normFirst := normalizeName(hcp.FirstName)
	normLast := normalizeName(hcp.LastName)
	contained := 0
	for _, tok := range tokens {
		if strings.Contains(normFirst, tok) || strings.Contains(normLast, tok) {
			contained++
		}
	}
	score := 25 * contained
	if score > 60 {
		score = 60
	}
	return score
}

// GetSuggestions 对原始提名姓名产出排序后的匹配建议（最多 10 条）
// 同分按检索顺序（hcp_id 升序）保持稳定
func (s *MatchService) GetSuggestions(ctx context.Context, rawName string) ([]Suggestion, error) {
	normRaw := normalizeName(rawName)
	tokens := strings.Fields(normRaw)
	if len(tokens) == 0 {
		return nil, nil
	}

	candidates, err := s.hcpRepo.SearchCandidates(ctx, tokens, strings.TrimSpace(rawName))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve candidates: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, hcp := range candidates {
		score := scoreCandidate(rawName, normRaw, tokens, hcp)
		if score <= 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{Hcp: hcp, Score: score})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions, nil
}

// GetSuggestionsForNomination 按提名ID产出建议
func (s *MatchService) GetSuggestionsForNomination(ctx context.Context, nominationID string) ([]Suggestion, error) {
	nom, err := s.nomRepo.GetNomination(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	return s.GetSuggestions(ctx, nom.RawName)
}

// MatchToHcp 将提名匹配到指定专家
// addAlias 为 true 且原始姓名不在别名集中时追加别名（提升后续召回）；
// confidence 低于阈值时进入 review_needed 而不是 matched
func (s *MatchService) MatchToHcp(ctx context.Context, nominationID, hcpID string, addAlias bool, actor, matchMethod string, confidence *int) (*domain.Nomination, error) {
	nom, err := s.nomRepo.GetNomination(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	if !nom.Matchable() {
		return nil, fmt.Errorf("nomination %s is %s: %w", nominationID, nom.Status, domain.ErrInvalidState)
	}

	hcp, err := s.hcpRepo.GetHcp(ctx, hcpID)
	if err != nil {
		return nil, err
	}

	if addAlias && !aliasExists(hcp, nom.RawName) {
		alias := &domain.HcpAlias{
			AliasID:   uuid.NewString(),
			HcpID:     hcp.HcpID,
			Alias:     strings.TrimSpace(nom.RawName),
			CreatedAt: time.Now().UTC(),
			CreatedBy: actor,
		}
		if _, err := s.hcpRepo.AddAlias(ctx, alias); err != nil {
			return nil, err
		}
		s.logger.Info("Added hcp alias from nomination",
			zap.String("hcp_id", hcp.HcpID),
			zap.String("alias", alias.Alias),
		)
	}

	status := domain.NominationMatched
	if confidence != nil && *confidence < reviewConfidenceThreshold {
		status = domain.NominationReviewNeeded
	}
	if matchMethod == "" {
		matchMethod = domain.MatchMethodManual
	}

	now := time.Now().UTC()
	nom.Status = status
	nom.MatchedHcpID = &hcp.HcpID
	nom.MatchMethod = &matchMethod
	nom.MatchConfidence = confidence
	nom.MatchedBy = &actor
	nom.MatchedAt = &now

	if err := s.nomRepo.UpdateResolution(ctx, nom); err != nil {
		return nil, err
	}
	return nom, nil
}

// NewHcpInput 新建专家输入
type NewHcpInput struct {
	ClientID  string `json:"client_id"`
	NPI       string `json:"npi"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Specialty string `json:"specialty"`
}

// CreateHcpAndMatch 新建专家并匹配提名
// NPI 已存在时返回 domain.ErrConflict；原始姓名与规范全名不同时存为别名
func (s *MatchService) CreateHcpAndMatch(ctx context.Context, nominationID string, input NewHcpInput, actor string) (*domain.Hcp, error) {
	nom, err := s.nomRepo.GetNomination(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	if !nom.Matchable() {
		return nil, fmt.Errorf("nomination %s is %s: %w", nominationID, nom.Status, domain.ErrInvalidState)
	}

	if _, err := s.hcpRepo.GetHcpByNPI(ctx, input.NPI); err == nil {
		return nil, fmt.Errorf("npi %s already exists: %w", input.NPI, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	hcp := &domain.Hcp{
		HcpID:     uuid.NewString(),
		ClientID:  input.ClientID,
		NPI:       input.NPI,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Specialty: input.Specialty,
		Status:    "active",
		CreatedAt: now,
		CreatedBy: actor,
	}
	if _, err := s.hcpRepo.CreateHcp(ctx, hcp); err != nil {
		return nil, err
	}

	rawName := strings.TrimSpace(nom.RawName)
	if !strings.EqualFold(rawName, hcp.FullName()) {
		alias := &domain.HcpAlias{
			AliasID:   uuid.NewString(),
			HcpID:     hcp.HcpID,
			Alias:     rawName,
			CreatedAt: now,
			CreatedBy: actor,
		}
		if _, err := s.hcpRepo.AddAlias(ctx, alias); err != nil {
			return nil, err
		}
		hcp.Aliases = append(hcp.Aliases, *alias)
	}

	method := domain.MatchMethodManual
	nom.Status = domain.NominationNewHcp
	nom.MatchedHcpID = &hcp.HcpID
	nom.MatchMethod = &method
	nom.MatchConfidence = nil
	nom.MatchedBy = &actor
	nom.MatchedAt = &now

	if err := s.nomRepo.UpdateResolution(ctx, nom); err != nil {
		return nil, err
	}

	s.logger.Info("Created hcp from nomination",
		zap.String("hcp_id", hcp.HcpID),
		zap.String("npi", hcp.NPI),
		zap.String("nomination_id", nominationID),
	)
	return hcp, nil
}

// ExcludeNomination 将提名标记为排除（不参与计分）
func (s *MatchService) ExcludeNomination(ctx context.Context, nominationID, reason, actor string) (*domain.Nomination, error) {
	nom, err := s.nomRepo.GetNomination(ctx, nominationID)
	if err != nil {
		return nil, err
	}
	if nom.Status == domain.NominationExcluded {
		return nil, fmt.Errorf("nomination %s already excluded: %w", nominationID, domain.ErrInvalidState)
	}
	if reason == "" {
		return nil, fmt.Errorf("exclude reason is required")
	}

	now := time.Now().UTC()
	nom.Status = domain.NominationExcluded
	nom.ExcludeReason = &reason
	nom.MatchedHcpID = nil
	nom.MatchMethod = nil
	nom.MatchConfidence = nil
	nom.MatchedBy = &actor
	nom.MatchedAt = &now

	if err := s.nomRepo.UpdateResolution(ctx, nom); err != nil {
		return nil, err
	}
	return nom, nil
}

// BulkAutoMatchResult 批量自动匹配结果
type BulkAutoMatchResult struct {
	Matched int      `json:"matched"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}

// BulkAutoMatch 批量自动匹配活动内全部 unmatched 提名
// 仅最高建议分 ≥ 95 时自动确认（并学习别名）；低分留给人工处理。
// 单条失败收集进 Errors，不中断整批
func (s *MatchService) BulkAutoMatch(ctx context.Context, campaignID, actor string) (*BulkAutoMatchResult, error) {
	noms, err := s.nomRepo.ListByCampaignAndStatus(ctx, campaignID, domain.NominationUnmatched)
	if err != nil {
		return nil, err
	}

	result := &BulkAutoMatchResult{Total: len(noms)}
	for _, nom := range noms {
		suggestions, err := s.GetSuggestions(ctx, nom.RawName)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("nomination %s: %v", nom.NominationID, err))
			continue
		}
		if len(suggestions) == 0 || suggestions[0].Score < autoMatchThreshold {
			continue
		}

		best := suggestions[0]
		confidence := best.Score
		if _, err := s.MatchToHcp(ctx, nom.NominationID, best.Hcp.HcpID, true, actor, domain.MatchMethodAuto, &confidence); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("nomination %s: %v", nom.NominationID, err))
			continue
		}
		result.Matched++
	}

	s.logger.Info("Bulk auto match finished",
		zap.String("campaign_id", campaignID),
		zap.Int("total", result.Total),
		zap.Int("matched", result.Matched),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// aliasExists 别名集中是否已有该姓名（大小写不敏感）
func aliasExists(hcp *domain.Hcp, name string) bool {
	trimmed := strings.TrimSpace(name)
	for _, a := range hcp.Aliases {
		if strings.EqualFold(strings.TrimSpace(a.Alias), trimmed) {
			return true
		}
	}
	return false
}
