package scryfall

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

// bulkDataType 全量卡牌数据集类型：每个"卡名+画作"组合一条记录（非每个印刷版本一条）
const bulkDataType = "unique_artwork"

// excludedSetTypes 非对局卡系列类型，进入规范化之前整体剔除
var excludedSetTypes = map[string]struct{}{
	"memorabilia": {},
	"token":       {},
}

type Adapter struct {
	cfg            *config.ProviderConfig
	httpClient     *http.Client
	logger         *logrus.Logger
	progressStepMB int
}

func NewScryfallAdapter(cfg *config.ProviderConfig, progressStepMB int, logger *logrus.Logger) interfaces.CardProvider {
	return &Adapter{
		cfg:            cfg,
		httpClient:     httpclient.NewHTTPClient(cfg, logger),
		logger:         logger,
		progressStepMB: progressStepMB,
	}
}

// GetName ========== 实现CardProvider接口 ==========
func (s *Adapter) GetName() string {
	return "Scryfall"
}

// FetchBulkMetadata 查询批量数据清单，定位unique_artwork数据集的当前下载地址。
// 下载地址由平台按发布轮换，调用方不允许硬编码。
func (s *Adapter) FetchBulkMetadata(ctx context.Context) (*model.BulkDataItem, error) {
	bulkURL := fmt.Sprintf("%s%s", s.cfg.BaseURL, s.cfg.BulkPath)

	buf, err := httpclient.DownloadBytes(ctx, s.httpClient, bulkURL, "Scryfall批量数据清单", 0, s.logger)
	if err != nil {
		return nil, fmt.Errorf("获取批量数据清单失败: %w", err)
	}

	var resp model.BulkDataResponse
	if err := httpclient.DecodeJSON(buf, &resp); err != nil {
		return nil, fmt.Errorf("解析批量数据清单失败: %w", err)
	}

	for i := range resp.Data {
		if resp.Data[i].Type == bulkDataType {
			item := resp.Data[i]
			s.logger.Infof("  数据集: %s（%.2f MB，更新于%s）",
				item.Name, float64(item.Size)/1024/1024, item.UpdatedAt)
			return &item, nil
		}
	}
	return nil, fmt.Errorf("批量数据清单中未找到%s数据集", bulkDataType)
}

// FetchCards 下载全量卡牌数据并过滤非对局卡（memorabilia/token按原始set_type剔除）
func (s *Adapter) FetchCards(ctx context.Context) ([]model.RawCardRecord, error) {
	// 1. 解析当前下载地址
	bulk, err := s.FetchBulkMetadata(ctx)
	if err != nil {
		return nil, err
	}

	// 2. 下载完整字节缓冲区（可能为gzip，DecodeJSON按魔数处理）
	buf, err := httpclient.DownloadBytes(ctx, s.httpClient, bulk.DownloadURI, "Scryfall全量卡牌数据", s.progressStepMB, s.logger)
	if err != nil {
		return nil, err
	}

	var cards []model.RawCardRecord
	if err := httpclient.DecodeJSON(buf, &cards); err != nil {
		return nil, fmt.Errorf("解析卡牌数据失败: %w", err)
	}
	s.logger.Infof("  解析完成，共%d张卡牌", len(cards))

	// 3. 剔除非对局卡（进入规范化之前）
	filtered := make([]model.RawCardRecord, 0, len(cards))
	for i := range cards {
		if _, excluded := excludedSetTypes[cards[i].SetType]; excluded {
			continue
		}
		filtered = append(filtered, cards[i])
	}
	if dropped := len(cards) - len(filtered); dropped > 0 {
		s.logger.Infof("  已剔除%d张非对局卡（memorabilia/token）", dropped)
	}
	return filtered, nil
}
