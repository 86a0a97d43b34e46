package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kol360-data/internal/domain"
)

// PostgresNominationsRepository 提名Repository实现
type PostgresNominationsRepository struct {
	db *sql.DB
}

// NewPostgresNominationsRepository 创建提名Repository
func NewPostgresNominationsRepository(db *sql.DB) *PostgresNominationsRepository {
	return &PostgresNominationsRepository{db: db}
}

// 确保实现了接口
var _ NominationsRepository = (*PostgresNominationsRepository)(nil)

const nominationSelectColumns = `
	nomination_id::text,
	campaign_id::text,
	question_id::text,
	response_id::text,
	raw_name,
	nomination_type,
	status,
	matched_hcp_id::text,
	match_method,
	match_confidence,
	matched_by,
	matched_at,
	exclude_reason
`

func scanNomination(row interface{ Scan(...any) error }) (*domain.Nomination, error) {
	var n domain.Nomination
	var typeCode sql.NullString
	var matchedHcpID, matchMethod, matchedBy, excludeReason sql.NullString
	var matchConfidence sql.NullInt64
	var matchedAt sql.NullTime

	err := row.Scan(
		&n.NominationID,
		&n.CampaignID,
		&n.QuestionID,
		&n.ResponseID,
		&n.RawName,
		&typeCode,
		&n.Status,
		&matchedHcpID,
		&matchMethod,
		&matchConfidence,
		&matchedBy,
		&matchedAt,
		&excludeReason,
	)
	if err != nil {
		return nil, err
	}

	if typeCode.Valid {
		t, err := domain.ParseNominationType(typeCode.String)
		if err != nil {
			return nil, err
		}
		n.NominationType = &t
	}
	if matchedHcpID.Valid {
		n.MatchedHcpID = &matchedHcpID.String
	}
	if matchMethod.Valid {
		n.MatchMethod = &matchMethod.String
	}
	if matchConfidence.Valid {
		c := int(matchConfidence.Int64)
		n.MatchConfidence = &c
	}
	if matchedBy.Valid {
		n.MatchedBy = &matchedBy.String
	}
	if matchedAt.Valid {
		n.MatchedAt = &matchedAt.Time
	}
	if excludeReason.Valid {
		n.ExcludeReason = &excludeReason.String
	}
	return &n, nil
}

// GetNomination 根据nomination_id获取提名
func (r *PostgresNominationsRepository) GetNomination(ctx context.Context, nominationID string) (*domain.Nomination, error) {
	if nominationID == "" {
		return nil, fmt.Errorf("nomination_id is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM nominations WHERE nomination_id = $1::uuid`, nominationSelectColumns)
	nom, err := scanNomination(r.db.QueryRowContext(ctx, query, nominationID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("nomination %s: %w", nominationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get nomination: %w", err)
	}
	return nom, nil
}

// ListByCampaignAndStatus 按活动+状态查询提名
func (r *PostgresNominationsRepository) ListByCampaignAndStatus(ctx context.Context, campaignID string, status domain.NominationStatus) ([]*domain.Nomination, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM nominations
		WHERE campaign_id = $1::uuid AND status = $2
		ORDER BY nomination_id
	`, nominationSelectColumns)

	rows, err := r.db.QueryContext(ctx, query, campaignID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list nominations: %w", err)
	}
	defer rows.Close()

	var noms []*domain.Nomination
	for rows.Next() {
		n, err := scanNomination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nomination: %w", err)
		}
		noms = append(noms, n)
	}
	return noms, rows.Err()
}

// UpdateResolution 写回解析结果（状态 + 匹配出处字段）
func (r *PostgresNominationsRepository) UpdateResolution(ctx context.Context, nom *domain.Nomination) error {
	if nom.NominationID == "" {
		return fmt.Errorf("nomination_id is required")
	}

	var typeCode *string
	if nom.NominationType != nil {
		c := nom.NominationType.Code()
		typeCode = &c
	}

	query := `
		UPDATE nominations
		SET status = $2,
		    matched_hcp_id = $3::uuid,
		    match_method = $4,
		    match_confidence = $5,
		    matched_by = $6,
		    matched_at = $7,
		    exclude_reason = $8,
		    nomination_type = COALESCE($9, nomination_type)
		WHERE nomination_id = $1::uuid
	`

	res, err := r.db.ExecContext(ctx, query,
		nom.NominationID,
		string(nom.Status),
		nom.MatchedHcpID,
		nom.MatchMethod,
		nom.MatchConfidence,
		nom.MatchedBy,
		nom.MatchedAt,
		nom.ExcludeReason,
		typeCode,
	)
	if err != nil {
		return fmt.Errorf("failed to update nomination resolution: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("nomination %s: %w", nom.NominationID, domain.ErrNotFound)
	}
	return nil
}

// CountResolvedByHcpAndType 统计活动内已解析提名，按 (hcp, type) 分组计数
func (r *PostgresNominationsRepository) CountResolvedByHcpAndType(ctx context.Context, campaignID string) ([]HcpNominationCount, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required")
	}

	query := `
		SELECT matched_hcp_id::text, nomination_type, COUNT(*) as cnt
		FROM nominations
		WHERE campaign_id = $1::uuid
		  AND status IN ('matched', 'new_hcp')
		  AND matched_hcp_id IS NOT NULL
		GROUP BY matched_hcp_id, nomination_type
		ORDER BY matched_hcp_id, nomination_type
	`

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to count nominations: %w", err)
	}
	defer rows.Close()

	var counts []HcpNominationCount
	for rows.Next() {
		var c HcpNominationCount
		var typeCode sql.NullString
		if err := rows.Scan(&c.HcpID, &typeCode, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan nomination count: %w", err)
		}
		if typeCode.Valid {
			t, err := domain.ParseNominationType(typeCode.String)
			if err != nil {
				return nil, err
			}
			c.Type = &t
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
