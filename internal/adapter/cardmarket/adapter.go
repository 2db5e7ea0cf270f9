package cardmarket

import (
	"ManaLedger/internal/config"
	"ManaLedger/internal/utils/httpclient"
	"context"
	"fmt"
	"net/http"

	"ManaLedger/internal/interfaces"
	"ManaLedger/internal/model"

	"github.com/sirupsen/logrus"
)

type Adapter struct {
	cfg            *config.ProviderConfig
	httpClient     *http.Client
	logger         *logrus.Logger
	progressStepMB int
}

func NewCardMarketAdapter(cfg *config.ProviderConfig, progressStepMB int, logger *logrus.Logger) interfaces.PriceProvider {
	return &Adapter{
		cfg:            cfg,
		httpClient:     httpclient.NewHTTPClient(cfg, logger),
		logger:         logger,
		progressStepMB: progressStepMB,
	}
}

// GetName ========== 实现PriceProvider接口 ==========
func (c *Adapter) GetName() string {
	return "CardMarket"
}

// FetchPrices 下载价格指南（固定URL）并解析priceGuides数组
func (c *Adapter) FetchPrices(ctx context.Context) ([]model.RawPriceRecord, error) {
	buf, err := httpclient.DownloadBytes(ctx, c.httpClient, c.cfg.PriceGuideURL, "CardMarket价格指南", c.progressStepMB, c.logger)
	if err != nil {
		return nil, err
	}

	var resp model.PriceGuideResponse
	if err := httpclient.DecodeJSON(buf, &resp); err != nil {
		return nil, fmt.Errorf("解析价格指南失败: %w", err)
	}
	c.logger.Infof("  解析完成，共%d条价格记录", len(resp.PriceGuides))
	return resp.PriceGuides, nil
}
