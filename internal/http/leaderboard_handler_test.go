package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kol360-data/internal/domain"
	"kol360-data/internal/store"

	"go.uber.org/zap"
)

type fakeKV struct {
	data map[string]string
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

// fakeDiseaseAreaRepo 只实现排行读取，其余方法测试不会触达
type fakeDiseaseAreaRepo struct {
	listCalls int
	scores    []*domain.HcpDiseaseAreaScore
}

func (f *fakeDiseaseAreaRepo) GetCurrent(ctx context.Context, hcpID, diseaseAreaID string) (*domain.HcpDiseaseAreaScore, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeDiseaseAreaRepo) InsertCurrent(ctx context.Context, score *domain.HcpDiseaseAreaScore) (string, error) {
	return "", nil
}

func (f *fakeDiseaseAreaRepo) RotateCurrent(ctx context.Context, oldScoreID string, next *domain.HcpDiseaseAreaScore) (string, error) {
	return "", nil
}

func (f *fakeDiseaseAreaRepo) UpdateObjectiveDimensions(ctx context.Context, scoreID string, dims [domain.ObjectiveDimensionCount]*float64) error {
	return nil
}

func (f *fakeDiseaseAreaRepo) ListCurrentByDiseaseArea(ctx context.Context, diseaseAreaID string, limit int) ([]*domain.HcpDiseaseAreaScore, error) {
	f.listCalls++
	return f.scores, nil
}

func TestGetLeaderboard_CachesResponse(t *testing.T) {
	composite := 88.5
	repo := &fakeDiseaseAreaRepo{scores: []*domain.HcpDiseaseAreaScore{
		{ScoreID: "s1", HcpID: "h1", DiseaseAreaID: "da1", CompositeScore: &composite, IsCurrent: true},
	}}
	kv := &fakeKV{data: map[string]string{}}
	h := NewLeaderboardHandler(repo, kv, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/data/api/v1/disease-areas/da1/leaderboard", nil)
	w := httptest.NewRecorder()
	h.GetLeaderboard(w, req, "da1")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"code":2000`) {
		t.Fatalf("expected wrapper code=2000, got: %s", body)
	}
	if !strings.Contains(body, "h1") {
		t.Fatalf("expected hcp in response, got: %s", body)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected 1 repo call, got %d", repo.listCalls)
	}

	// 第二次命中缓存，不再触达数据库
	w2 := httptest.NewRecorder()
	h.GetLeaderboard(w2, httptest.NewRequest(http.MethodGet, "/data/api/v1/disease-areas/da1/leaderboard", nil), "da1")
	if repo.listCalls != 1 {
		t.Fatalf("expected cached response, repo calls = %d", repo.listCalls)
	}
	if w2.Body.String() != body {
		t.Fatalf("cached body mismatch")
	}
}

func TestGetLeaderboard_LimitIsolatesCacheKeys(t *testing.T) {
	repo := &fakeDiseaseAreaRepo{}
	kv := &fakeKV{data: map[string]string{}}
	h := NewLeaderboardHandler(repo, kv, zap.NewNop())

	h.GetLeaderboard(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x?limit=10", nil), "da1")
	h.GetLeaderboard(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x?limit=20", nil), "da1")

	if repo.listCalls != 2 {
		t.Fatalf("different limits must not share cache, repo calls = %d", repo.listCalls)
	}
}
