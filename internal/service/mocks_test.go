package service

import (
	"context"
	"time"

	"kol360-data/internal/domain"
	"kol360-data/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockHcpsRepository 是 HcpsRepository 的 mock 实现
type MockHcpsRepository struct {
	mock.Mock
}

func (m *MockHcpsRepository) GetHcp(ctx context.Context, hcpID string) (*domain.Hcp, error) {
	args := m.Called(ctx, hcpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hcp), args.Error(1)
}

func (m *MockHcpsRepository) GetHcpByNPI(ctx context.Context, npi string) (*domain.Hcp, error) {
	args := m.Called(ctx, npi)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hcp), args.Error(1)
}

func (m *MockHcpsRepository) SearchCandidates(ctx context.Context, tokens []string, rawName string) ([]*domain.Hcp, error) {
	args := m.Called(ctx, tokens, rawName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Hcp), args.Error(1)
}

func (m *MockHcpsRepository) ListHcps(ctx context.Context, filter repository.HcpFilters, page, size int) ([]*domain.Hcp, int, error) {
	args := m.Called(ctx, filter, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Hcp), args.Int(1), args.Error(2)
}

func (m *MockHcpsRepository) CreateHcp(ctx context.Context, hcp *domain.Hcp) (string, error) {
	args := m.Called(ctx, hcp)
	return args.String(0), args.Error(1)
}

func (m *MockHcpsRepository) AddAlias(ctx context.Context, alias *domain.HcpAlias) (string, error) {
	args := m.Called(ctx, alias)
	return args.String(0), args.Error(1)
}

// MockNominationsRepository 是 NominationsRepository 的 mock 实现
type MockNominationsRepository struct {
	mock.Mock
}

func (m *MockNominationsRepository) GetNomination(ctx context.Context, nominationID string) (*domain.Nomination, error) {
	args := m.Called(ctx, nominationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Nomination), args.Error(1)
}

func (m *MockNominationsRepository) ListByCampaignAndStatus(ctx context.Context, campaignID string, status domain.NominationStatus) ([]*domain.Nomination, error) {
	args := m.Called(ctx, campaignID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Nomination), args.Error(1)
}

func (m *MockNominationsRepository) UpdateResolution(ctx context.Context, nom *domain.Nomination) error {
	args := m.Called(ctx, nom)
	return args.Error(0)
}

func (m *MockNominationsRepository) CountResolvedByHcpAndType(ctx context.Context, campaignID string) ([]repository.HcpNominationCount, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.HcpNominationCount), args.Error(1)
}

// MockCampaignsRepository 是 CampaignsRepository 的 mock 实现
type MockCampaignsRepository struct {
	mock.Mock
}

func (m *MockCampaignsRepository) GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *MockCampaignsRepository) SetActivated(ctx context.Context, campaignID string, at time.Time) error {
	args := m.Called(ctx, campaignID, at)
	return args.Error(0)
}

func (m *MockCampaignsRepository) SetClosed(ctx context.Context, campaignID string, at time.Time) error {
	args := m.Called(ctx, campaignID, at)
	return args.Error(0)
}

func (m *MockCampaignsRepository) SetReopened(ctx context.Context, campaignID string) error {
	args := m.Called(ctx, campaignID)
	return args.Error(0)
}

func (m *MockCampaignsRepository) SetPublished(ctx context.Context, campaignID string, at time.Time) error {
	args := m.Called(ctx, campaignID, at)
	return args.Error(0)
}

func (m *MockCampaignsRepository) CountAssignedHcps(ctx context.Context, campaignID string) (int, error) {
	args := m.Called(ctx, campaignID)
	return args.Int(0), args.Error(1)
}

func (m *MockCampaignsRepository) CountQuestions(ctx context.Context, campaignID string) (int, error) {
	args := m.Called(ctx, campaignID)
	return args.Int(0), args.Error(1)
}

func (m *MockCampaignsRepository) ListQuestionNominationTypes(ctx context.Context, campaignID string) ([]domain.NominationType, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NominationType), args.Error(1)
}

func (m *MockCampaignsRepository) GetCompositeConfig(ctx context.Context, campaignID string) (*domain.CompositeScoreConfig, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompositeScoreConfig), args.Error(1)
}

// MockCampaignScoresRepository 是 CampaignScoresRepository 的 mock 实现
type MockCampaignScoresRepository struct {
	mock.Mock
}

func (m *MockCampaignScoresRepository) UpsertCampaignScore(ctx context.Context, score *domain.HcpCampaignScore) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

func (m *MockCampaignScoresRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.HcpCampaignScore, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HcpCampaignScore), args.Error(1)
}

func (m *MockCampaignScoresRepository) UpdateCompositeScore(ctx context.Context, campaignID, hcpID string, score float64) error {
	args := m.Called(ctx, campaignID, hcpID, score)
	return args.Error(0)
}

func (m *MockCampaignScoresRepository) ListDiseaseAreaSurveyScores(ctx context.Context, hcpID, diseaseAreaID, includeCampaignID string) ([]float64, error) {
	args := m.Called(ctx, hcpID, diseaseAreaID, includeCampaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockCampaignScoresRepository) MarkPublished(ctx context.Context, campaignID, hcpID string, at time.Time) error {
	args := m.Called(ctx, campaignID, hcpID, at)
	return args.Error(0)
}

// MockDiseaseAreaScoresRepository 是 DiseaseAreaScoresRepository 的 mock 实现
type MockDiseaseAreaScoresRepository struct {
	mock.Mock
}

func (m *MockDiseaseAreaScoresRepository) GetCurrent(ctx context.Context, hcpID, diseaseAreaID string) (*domain.HcpDiseaseAreaScore, error) {
	args := m.Called(ctx, hcpID, diseaseAreaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HcpDiseaseAreaScore), args.Error(1)
}

func (m *MockDiseaseAreaScoresRepository) InsertCurrent(ctx context.Context, score *domain.HcpDiseaseAreaScore) (string, error) {
	args := m.Called(ctx, score)
	return args.String(0), args.Error(1)
}

func (m *MockDiseaseAreaScoresRepository) RotateCurrent(ctx context.Context, oldScoreID string, next *domain.HcpDiseaseAreaScore) (string, error) {
	args := m.Called(ctx, oldScoreID, next)
	return args.String(0), args.Error(1)
}

func (m *MockDiseaseAreaScoresRepository) UpdateObjectiveDimensions(ctx context.Context, scoreID string, dims [domain.ObjectiveDimensionCount]*float64) error {
	args := m.Called(ctx, scoreID, dims)
	return args.Error(0)
}

func (m *MockDiseaseAreaScoresRepository) ListCurrentByDiseaseArea(ctx context.Context, diseaseAreaID string, limit int) ([]*domain.HcpDiseaseAreaScore, error) {
	args := m.Called(ctx, diseaseAreaID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HcpDiseaseAreaScore), args.Error(1)
}
