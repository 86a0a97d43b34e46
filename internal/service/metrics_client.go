package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kol360-data/internal/config"
	"kol360-data/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// MetricsResponse 指标厂家 API 响应
type MetricsResponse struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// MetricsClient 客观指标厂家 API 客户端
// publications/clinical trials 等 8 个客观维度评分的外部数据源
type MetricsClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewMetricsClient 创建指标厂家客户端
func NewMetricsClient(cfg config.MetricsProviderConfig, logger *zap.Logger) *MetricsClient {
	client := resty.New().
		SetBaseURL(cfg.HttpAddress).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-Api-Key", cfg.APIKey)

	return &MetricsClient{
		httpClient: client,
		logger:     logger,
	}
}

// FetchHcpDimensions 按 NPI 拉取专家的客观维度评分
// 厂家未覆盖的维度返回 nil（区别于 0 分）
func (c *MetricsClient) FetchHcpDimensions(ctx context.Context, npi string) ([domain.ObjectiveDimensionCount]*float64, error) {
	var dims [domain.ObjectiveDimensionCount]*float64

	var response MetricsResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("npi", npi).
		SetResult(&response).
		Get("/v1/hcp-metrics")
	if err != nil {
		return dims, fmt.Errorf("metrics provider call failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return dims, fmt.Errorf("metrics provider returned status %d", resp.StatusCode())
	}
	if response.Status != 0 {
		return dims, fmt.Errorf("metrics provider error: %s", response.Msg)
	}

	// 响应 data 是 维度编码 → 分值 的映射
	var raw map[string]float64
	if err := json.Unmarshal(response.Data, &raw); err != nil {
		return dims, fmt.Errorf("failed to decode metrics payload: %w", err)
	}
	for _, d := range domain.AllObjectiveDimensions {
		if v, ok := raw[d.Code()]; ok {
			score := v
			dims[d] = &score
		}
	}

	c.logger.Debug("Fetched hcp objective dimensions",
		zap.String("npi", npi),
		zap.Int("dimensions", len(raw)),
	)
	return dims, nil
}
