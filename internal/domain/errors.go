package domain

import "errors"

// 核心错误分类：Repository/Service 层统一用 %w 包装这三类哨兵错误，
// HTTP 层据此映射状态码
var (
	// ErrNotFound 目标实体不存在（nomination/campaign/config 等）
	ErrNotFound = errors.New("not found")

	// ErrConflict 唯一性冲突（如 NPI 已存在）
	ErrConflict = errors.New("conflict")

	// ErrInvalidState 状态机不允许的操作（如对已匹配的提名再次匹配）
	ErrInvalidState = errors.New("invalid state")
)
