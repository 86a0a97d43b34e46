package domain

import (
	"strings"
	"time"
)

// Hcp 医疗专家领域模型（对应 hcps 表）
// NPI 全库唯一，创建后不可修改
type Hcp struct {
	// 主键
	HcpID string `db:"hcp_id"` // UUID, PRIMARY KEY

	// 归属
	ClientID string `db:"client_id"` // UUID, 客户（租户）

	// 基本信息
	NPI       string `db:"npi"`        // VARCHAR(20), UNIQUE, NOT NULL
	FirstName string `db:"first_name"` // VARCHAR(100), NOT NULL
	LastName  string `db:"last_name"`  // VARCHAR(100), NOT NULL
	Specialty string `db:"specialty"`  // VARCHAR(255), nullable

	// 状态
	Status string `db:"status"` // VARCHAR(50), DEFAULT 'active'

	// 审计
	CreatedAt time.Time `db:"created_at"`
	CreatedBy string    `db:"created_by"` // nullable（Excel 导入 / create-and-match 时记录操作者）

	// 别名（多对一，查询时预加载）
	Aliases []HcpAlias `db:"-"`
}

// FullName 规范全名（first + last）
func (h *Hcp) FullName() string {
	return strings.TrimSpace(h.FirstName + " " + h.LastName)
}

// HcpAlias 专家别名（对应 hcp_aliases 表）
// 问卷中出现过的拼写/昵称，匹配器据此提升召回
type HcpAlias struct {
	AliasID   string    `db:"alias_id"` // UUID, PRIMARY KEY
	HcpID     string    `db:"hcp_id"`   // FK hcps
	Alias     string    `db:"alias"`    // VARCHAR(255), NOT NULL
	CreatedAt time.Time `db:"created_at"`
	CreatedBy string    `db:"created_by"` // nullable
}
