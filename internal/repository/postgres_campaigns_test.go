package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"kol360-data/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCampaignsMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresCampaignsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresCampaignsRepository(db)
}

func TestGetCampaign(t *testing.T) {
	db, mock, repo := setupCampaignsMockDB(t)
	defer db.Close()

	activatedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM campaigns`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{
			"campaign_id", "client_id", "disease_area_id", "campaign_name",
			"status", "activated_at", "closed_at", "published_at",
		}).AddRow("c1", "cl1", "da1", "Q1 Oncology KOL Survey", "active", activatedAt, nil, nil))

	campaign, err := repo.GetCampaign(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignActive, campaign.Status)
	assert.Equal(t, "da1", campaign.DiseaseAreaID)
	require.NotNil(t, campaign.ActivatedAt)
	assert.Nil(t, campaign.ClosedAt)
}

func TestSetPublished_NotFound(t *testing.T) {
	db, mock, repo := setupCampaignsMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE campaigns`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetPublished(context.Background(), "missing", time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListQuestionNominationTypes(t *testing.T) {
	db, mock, repo := setupCampaignsMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT DISTINCT nomination_type`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"nomination_type"}).
			AddRow("advice_leader").
			AddRow("discussion_leader"))

	types, err := repo.ListQuestionNominationTypes(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []domain.NominationType{domain.AdviceLeader, domain.DiscussionLeader}, types)
}

func TestListQuestionNominationTypes_LegacyCampaign(t *testing.T) {
	db, mock, repo := setupCampaignsMockDB(t)
	defer db.Close()

	// 题目全部无类型标签 → 空列表，计分走 legacy 模式
	mock.ExpectQuery(`SELECT DISTINCT nomination_type`).
		WithArgs("c-legacy").
		WillReturnRows(sqlmock.NewRows([]string{"nomination_type"}))

	types, err := repo.ListQuestionNominationTypes(context.Background(), "c-legacy")
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestGetCompositeConfig(t *testing.T) {
	db, mock, repo := setupCampaignsMockDB(t)
	defer db.Close()

	cols := make([]string, 0, domain.ObjectiveDimensionCount+1)
	for _, d := range domain.AllObjectiveDimensions {
		cols = append(cols, objectiveWeightColumns[d])
	}
	cols = append(cols, "w_survey")

	mock.ExpectQuery(`FROM composite_score_configs`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(10.0, 15.0, 10.0, 10.0, 10.0, 10.0, 5.0, 5.0, 25.0))

	cfg, err := repo.GetCompositeConfig(context.Background(), "c1")
	require.NoError(t, err)
	assert.InDelta(t, 10, cfg.DimensionWeights[domain.Publications], 1e-9)
	assert.InDelta(t, 15, cfg.DimensionWeights[domain.ClinicalTrials], 1e-9)
	assert.InDelta(t, 25, cfg.SurveyWeight, 1e-9)
}

func TestGetCompositeConfig_NotFound(t *testing.T) {
	db, mock, repo := setupCampaignsMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM composite_score_configs`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCompositeConfig(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
