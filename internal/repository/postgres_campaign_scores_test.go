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

func setupScoresMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresCampaignScoresRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresCampaignScoresRepository(db)
}

func TestUpsertCampaignScore(t *testing.T) {
	db, mock, repo := setupScoresMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO hcp_campaign_scores`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v := 100.0
	score := &domain.HcpCampaignScore{
		CampaignID:       "c1",
		HcpID:            "h1",
		TotalNominations: 4,
		SurveyScore:      &v,
		CalculatedAt:     time.Now().UTC(),
	}
	score.Types[domain.DiscussionLeader] = domain.TypeStat{Count: 4, Score: &v}

	err := repo.UpsertCampaignScore(context.Background(), score)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCampaign(t *testing.T) {
	db, mock, repo := setupScoresMockDB(t)
	defer db.Close()

	cols := []string{"campaign_id", "hcp_id"}
	for _, tp := range domain.AllNominationTypes {
		pair := nominationTypeColumns[tp]
		cols = append(cols, pair.Count, pair.Score)
	}
	cols = append(cols, "survey_score", "total_nominations", "composite_score", "calculated_at", "published_at")

	calculatedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// h1：discussion_leader 4 次满分，无复合分、未发布
	mock.ExpectQuery(`FROM hcp_campaign_scores`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"c1", "h1",
			4, 100.0, // discussion_leader
			0, nil, // referral_leader
			0, nil, // advice_leader
			0, nil, // national_leader
			0, nil, // rising_star
			0, nil, // social_leader
			100.0, 4, nil, calculatedAt, nil,
		))

	scores, err := repo.ListByCampaign(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, scores, 1)

	s := scores[0]
	assert.Equal(t, "h1", s.HcpID)
	assert.Equal(t, 4, s.Types[domain.DiscussionLeader].Count)
	require.NotNil(t, s.Types[domain.DiscussionLeader].Score)
	assert.InDelta(t, 100, *s.Types[domain.DiscussionLeader].Score, 1e-9)
	// 无提名的类型分缺失而不是 0
	assert.Nil(t, s.Types[domain.ReferralLeader].Score)
	require.NotNil(t, s.SurveyScore)
	assert.Nil(t, s.CompositeScore)
	assert.Nil(t, s.PublishedAt)
}

func TestUpdateCompositeScore_NotFound(t *testing.T) {
	db, mock, repo := setupScoresMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE hcp_campaign_scores`).
		WithArgs("c1", "h-missing", 50.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCompositeScore(context.Background(), "c1", "h-missing", 50.0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDiseaseAreaSurveyScores(t *testing.T) {
	db, mock, repo := setupScoresMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`JOIN campaigns`).
		WithArgs("h1", "da1", "c2").
		WillReturnRows(sqlmock.NewRows([]string{"survey_score"}).
			AddRow(60.0).
			AddRow(80.0))

	scores, err := repo.ListDiseaseAreaSurveyScores(context.Background(), "h1", "da1", "c2")
	require.NoError(t, err)
	assert.Equal(t, []float64{60, 80}, scores)
}

func TestMarkPublished(t *testing.T) {
	db, mock, repo := setupScoresMockDB(t)
	defer db.Close()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(`SET published_at`).
		WithArgs("c1", "h1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkPublished(context.Background(), "c1", "h1", at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
