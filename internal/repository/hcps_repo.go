package repository

import (
	"context"

	"kol360-data/internal/domain"
)

// HcpsRepository 专家注册库Repository接口
// 使用强类型领域模型；Repository层只负责数据访问，匹配规则在 service 层
type HcpsRepository interface {
	// ========== 查询 ==========
	// GetHcp 根据hcp_id获取专家（含别名）
	GetHcp(ctx context.Context, hcpID string) (*domain.Hcp, error)

	// GetHcpByNPI 根据NPI获取专家（NPI有唯一索引）
	// 不存在时返回 domain.ErrNotFound
	GetHcpByNPI(ctx context.Context, npi string) (*domain.Hcp, error)

	// SearchCandidates 按原始提名姓名检索候选专家（含别名，别名预加载）
	// 召回条件：first_name/last_name 包含任一 token，或某别名是 rawName 的子串
	// 结果按 hcp_id 升序，保证多次运行的确定性
	SearchCandidates(ctx context.Context, tokens []string, rawName string) ([]*domain.Hcp, error)

	// ListHcps 查询专家列表（分页 + 搜索，管理页/导出用）
	ListHcps(ctx context.Context, filter HcpFilters, page, size int) ([]*domain.Hcp, int, error)

	// ========== 写入 ==========
	// CreateHcp 创建专家；NPI 冲突时返回 domain.ErrConflict
	CreateHcp(ctx context.Context, hcp *domain.Hcp) (string, error)

	// AddAlias 为专家追加别名
	AddAlias(ctx context.Context, alias *domain.HcpAlias) (string, error)
}

// HcpFilters 专家查询过滤器
type HcpFilters struct {
	ClientID  string // 可选，按客户过滤
	Specialty string // 可选，按专科过滤
	Search    string // 可选，按姓名/NPI模糊匹配
}
