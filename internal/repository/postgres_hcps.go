package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"kol360-data/internal/domain"

	"github.com/lib/pq"
)

// PostgresHcpsRepository 专家注册库Repository实现
type PostgresHcpsRepository struct {
	db *sql.DB
}

// NewPostgresHcpsRepository 创建专家Repository
func NewPostgresHcpsRepository(db *sql.DB) *PostgresHcpsRepository {
	return &PostgresHcpsRepository{db: db}
}

// 确保实现了接口
var _ HcpsRepository = (*PostgresHcpsRepository)(nil)

const hcpSelectColumns = `
	hcp_id::text,
	client_id::text,
	npi,
	first_name,
	last_name,
	COALESCE(specialty, '') as specialty,
	COALESCE(status, 'active') as status,
	created_at,
	COALESCE(created_by, '') as created_by
`

func scanHcp(row interface{ Scan(...any) error }) (*domain.Hcp, error) {
	var h domain.Hcp
	err := row.Scan(
		&h.HcpID,
		&h.ClientID,
		&h.NPI,
		&h.FirstName,
		&h.LastName,
		&h.Specialty,
		&h.Status,
		&h.CreatedAt,
		&h.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetHcp 根据hcp_id获取专家（含别名）
func (r *PostgresHcpsRepository) GetHcp(ctx context.Context, hcpID string) (*domain.Hcp, error) {
	if hcpID == "" {
		return nil, fmt.Errorf("hcp_id is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM hcps WHERE hcp_id = $1::uuid`, hcpSelectColumns)
	hcp, err := scanHcp(r.db.QueryRowContext(ctx, query, hcpID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("hcp %s: %w", hcpID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get hcp: %w", err)
	}

	if err := r.loadAliases(ctx, []*domain.Hcp{hcp}); err != nil {
		return nil, err
	}
	return hcp, nil
}

// GetHcpByNPI 根据NPI获取专家
func (r *PostgresHcpsRepository) GetHcpByNPI(ctx context.Context, npi string) (*domain.Hcp, error) {
	if npi == "" {
		return nil, fmt.Errorf("npi is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM hcps WHERE npi = $1`, hcpSelectColumns)
	hcp, err := scanHcp(r.db.QueryRowContext(ctx, query, npi))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("hcp npi %s: %w", npi, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get hcp by npi: %w", err)
	}

	if err := r.loadAliases(ctx, []*domain.Hcp{hcp}); err != nil {
		return nil, err
	}
	return hcp, nil
}

// SearchCandidates 按原始提名姓名检索候选专家
// 召回：first/last name 包含任一 token，或某别名是 rawName 的子串（大小写不敏感）
// ORDER BY hcp_id 保证同分建议在多次运行间次序稳定
func (r *PostgresHcpsRepository) SearchCandidates(ctx context.Context, tokens []string, rawName string) ([]*domain.Hcp, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	where := []string{}
	args := []any{}
	argIdx := 1

	for _, token := range tokens {
		where = append(where, fmt.Sprintf("h.first_name ILIKE $%d OR h.last_name ILIKE $%d", argIdx, argIdx))
		args = append(args, "%"+token+"%")
		argIdx++
	}

	// 别名是 rawName 的子串（方向：rawName 包含 alias）
	where = append(where, fmt.Sprintf(
		`EXISTS (SELECT 1 FROM hcp_aliases a WHERE a.hcp_id = h.hcp_id AND $%d ILIKE '%%' || a.alias || '%%')`, argIdx))
	args = append(args, rawName)

	query := fmt.Sprintf(`
		SELECT %s
		FROM hcps h
		WHERE h.status = 'active' AND (%s)
		ORDER BY h.hcp_id
		LIMIT 200
	`, hcpSelectColumns, strings.Join(where, " OR "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search hcp candidates: %w", err)
	}
	defer rows.Close()

	var hcps []*domain.Hcp
	for rows.Next() {
		h, err := scanHcp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hcp candidate: %w", err)
		}
		hcps = append(hcps, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hcp candidates: %w", err)
	}

	if err := r.loadAliases(ctx, hcps); err != nil {
		return nil, err
	}
	return hcps, nil
}

// ListHcps 查询专家列表（分页 + 搜索）
func (r *PostgresHcpsRepository) ListHcps(ctx context.Context, filter HcpFilters, page, size int) ([]*domain.Hcp, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	where := []string{"status <> 'deleted'"}
	args := []any{}
	argIdx := 1

	if filter.ClientID != "" {
		where = append(where, fmt.Sprintf("client_id = $%d::uuid", argIdx))
		args = append(args, filter.ClientID)
		argIdx++
	}
	if filter.Specialty != "" {
		where = append(where, fmt.Sprintf("specialty = $%d", argIdx))
		args = append(args, filter.Specialty)
		argIdx++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR npi ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(where, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM hcps %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count hcps: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM hcps %s
		ORDER BY last_name, first_name
		LIMIT $%d OFFSET $%d
	`, hcpSelectColumns, whereClause, argIdx, argIdx+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list hcps: %w", err)
	}
	defer rows.Close()

	var hcps []*domain.Hcp
	for rows.Next() {
		h, err := scanHcp(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan hcp: %w", err)
		}
		hcps = append(hcps, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate hcps: %w", err)
	}

	if err := r.loadAliases(ctx, hcps); err != nil {
		return nil, 0, err
	}
	return hcps, total, nil
}

// CreateHcp 创建专家；NPI 冲突返回 domain.ErrConflict
func (r *PostgresHcpsRepository) CreateHcp(ctx context.Context, hcp *domain.Hcp) (string, error) {
	if hcp.NPI == "" {
		return "", fmt.Errorf("npi is required")
	}
	if hcp.FirstName == "" || hcp.LastName == "" {
		return "", fmt.Errorf("first_name and last_name are required")
	}
	if hcp.CreatedAt.IsZero() {
		hcp.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO hcps (hcp_id, client_id, npi, first_name, last_name, specialty, status, created_at, created_by)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, NULLIF($6, ''), COALESCE(NULLIF($7, ''), 'active'), $8, NULLIF($9, ''))
		RETURNING hcp_id::text
	`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		hcp.HcpID,
		hcp.ClientID,
		hcp.NPI,
		hcp.FirstName,
		hcp.LastName,
		hcp.Specialty,
		hcp.Status,
		hcp.CreatedAt,
		hcp.CreatedBy,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return "", fmt.Errorf("npi %s already exists: %w", hcp.NPI, domain.ErrConflict)
		}
		return "", fmt.Errorf("failed to create hcp: %w", err)
	}
	return id, nil
}

// AddAlias 为专家追加别名
func (r *PostgresHcpsRepository) AddAlias(ctx context.Context, alias *domain.HcpAlias) (string, error) {
	if alias.HcpID == "" || alias.Alias == "" {
		return "", fmt.Errorf("hcp_id and alias are required")
	}
	if alias.CreatedAt.IsZero() {
		alias.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO hcp_aliases (alias_id, hcp_id, alias, created_at, created_by)
		VALUES ($1::uuid, $2::uuid, $3, $4, NULLIF($5, ''))
		RETURNING alias_id::text
	`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		alias.AliasID,
		alias.HcpID,
		alias.Alias,
		alias.CreatedAt,
		alias.CreatedBy,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to add alias: %w", err)
	}
	return id, nil
}

// loadAliases 批量预加载别名（避免 N+1 查询）
func (r *PostgresHcpsRepository) loadAliases(ctx context.Context, hcps []*domain.Hcp) error {
	if len(hcps) == 0 {
		return nil
	}

	ids := make([]string, 0, len(hcps))
	byID := make(map[string]*domain.Hcp, len(hcps))
	for _, h := range hcps {
		ids = append(ids, h.HcpID)
		byID[h.HcpID] = h
	}

	query := `
		SELECT alias_id::text, hcp_id::text, alias, created_at, COALESCE(created_by, '') as created_by
		FROM hcp_aliases
		WHERE hcp_id = ANY($1::uuid[])
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.HcpAlias
		if err := rows.Scan(&a.AliasID, &a.HcpID, &a.Alias, &a.CreatedAt, &a.CreatedBy); err != nil {
			return fmt.Errorf("failed to scan alias: %w", err)
		}
		if h, ok := byID[a.HcpID]; ok {
			h.Aliases = append(h.Aliases, a)
		}
	}
	return rows.Err()
}
