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

func setupDiseaseAreaMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresDiseaseAreaScoresRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresDiseaseAreaScoresRepository(db)
}

func diseaseAreaRowColumns() []string {
	cols := []string{"score_id", "hcp_id", "disease_area_id"}
	for _, d := range domain.AllObjectiveDimensions {
		cols = append(cols, objectiveDimensionColumns[d])
	}
	return append(cols,
		"survey_score", "composite_score",
		"total_nomination_count", "campaign_count",
		"is_current", "effective_from", "effective_to",
	)
}

func TestGetCurrent(t *testing.T) {
	db, mock, repo := setupDiseaseAreaMockDB(t)
	defer db.Close()

	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM hcp_disease_area_scores`).
		WithArgs("h1", "da1").
		WillReturnRows(sqlmock.NewRows(diseaseAreaRowColumns()).AddRow(
			"s1", "h1", "da1",
			90.0, nil, nil, nil, nil, 75.0, nil, nil,
			80.0, 66.25, 12, 2, true, from, nil,
		))

	score, err := repo.GetCurrent(context.Background(), "h1", "da1")
	require.NoError(t, err)
	assert.Equal(t, "s1", score.ScoreID)
	assert.True(t, score.IsCurrent)
	require.NotNil(t, score.Dimensions[domain.Publications])
	assert.InDelta(t, 90, *score.Dimensions[domain.Publications], 1e-9)
	assert.Nil(t, score.Dimensions[domain.ClinicalTrials])
	require.NotNil(t, score.Dimensions[domain.Conferences])
	assert.InDelta(t, 75, *score.Dimensions[domain.Conferences], 1e-9)
	assert.Equal(t, 12, score.TotalNominationCount)
	assert.Nil(t, score.EffectiveTo)
}

func TestGetCurrent_NotFound(t *testing.T) {
	db, mock, repo := setupDiseaseAreaMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM hcp_disease_area_scores`).
		WithArgs("h1", "da1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCurrent(context.Background(), "h1", "da1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRotateCurrent_Success(t *testing.T) {
	db, mock, repo := setupDiseaseAreaMockDB(t)
	defer db.Close()

	from := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	next := &domain.HcpDiseaseAreaScore{
		ScoreID:       "s2",
		HcpID:         "h1",
		DiseaseAreaID: "da1",
		IsCurrent:     true,
		EffectiveFrom: from,
	}

	mock.ExpectBegin()
	// 关闭旧行：effective_to = 新行 effective_from，窗口严格衔接
	mock.ExpectExec(`SET is_current = FALSE`).
		WithArgs("s1", from).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO hcp_disease_area_scores`).
		WillReturnRows(sqlmock.NewRows([]string{"score_id"}).AddRow("s2"))
	mock.ExpectCommit()

	id, err := repo.RotateCurrent(context.Background(), "s1", next)
	require.NoError(t, err)
	assert.Equal(t, "s2", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotateCurrent_ConcurrentCloseConflict(t *testing.T) {
	db, mock, repo := setupDiseaseAreaMockDB(t)
	defer db.Close()

	next := &domain.HcpDiseaseAreaScore{
		ScoreID:       "s2",
		HcpID:         "h1",
		DiseaseAreaID: "da1",
		IsCurrent:     true,
		EffectiveFrom: time.Now().UTC(),
	}

	mock.ExpectBegin()
	// 旧行已被并发翻转关闭（is_current 守卫不命中）→ 整体回滚
	mock.ExpectExec(`SET is_current = FALSE`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.RotateCurrent(context.Background(), "s1", next)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateObjectiveDimensions_NotCurrent(t *testing.T) {
	db, mock, repo := setupDiseaseAreaMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE hcp_disease_area_scores`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	var dims [domain.ObjectiveDimensionCount]*float64
	err := repo.UpdateObjectiveDimensions(context.Background(), "s-old", dims)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListCurrentByDiseaseArea(t *testing.T) {
	db, mock, repo := setupDiseaseAreaMockDB(t)
	defer db.Close()

	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`ORDER BY composite_score DESC NULLS LAST`).
		WithArgs("da1", 50).
		WillReturnRows(sqlmock.NewRows(diseaseAreaRowColumns()).
			AddRow("s1", "h1", "da1", nil, nil, nil, nil, nil, nil, nil, nil, 90.0, 88.5, 20, 3, true, from, nil).
			AddRow("s2", "h2", "da1", nil, nil, nil, nil, nil, nil, nil, nil, 70.0, 61.0, 8, 1, true, from, nil))

	scores, err := repo.ListCurrentByDiseaseArea(context.Background(), "da1", 50)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "h1", scores[0].HcpID)
	assert.Equal(t, "h2", scores[1].HcpID)
}
