package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ManaLedger/internal/config"
	"ManaLedger/internal/interfaces"
	"ManaLedger/internal/model"
	"ManaLedger/internal/normalize"

	"github.com/sirupsen/logrus"
)

// ImportResult 单次表加载结果
type ImportResult struct {
	Imported int `json:"imported"` // 成功写入的行数
	Errors   int `json:"errors"`   // 重试耗尽后仍失败的批次数
}

// SyncResult 整次同步的汇总结果
type SyncResult struct {
	ImportResult ImportResult `json:"importResult"`
	Duration     float64      `json:"duration"` // 总耗时（秒，保留两位小数）
	TotalErrors  int          `json:"totalErrors"`
}

// ImportService 数据同步编排服务：清表→解析下载地址→下载→规范化→合并→分批入库，
// 单协程顺序执行（存储侧并发语句余量有限，串行写入避免叠加争用）。
type ImportService struct {
	cardProvider  interfaces.CardProvider
	priceProvider interfaces.PriceProvider
	store         interfaces.CardStore
	status        *RunStatusStore
	logger        *logrus.Logger
	cfg           config.ImportConfig
}

// NewImportService 创建 ImportService
func NewImportService(
	cardProvider interfaces.CardProvider,
	priceProvider interfaces.PriceProvider,
	store interfaces.CardStore,
	status *RunStatusStore,
	cfg config.ImportConfig,
	logger *logrus.Logger,
) *ImportService {
	return &ImportService{
		cardProvider:  cardProvider,
		priceProvider: priceProvider,
		store:         store,
		status:        status,
		logger:        logger,
		cfg:           cfg,
	}
}

// isTimeoutError 判断是否为超时类（可重试）错误，其余存储错误一律不重试
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}

// ImportInBatches 分批入库：固定批大小顺序upsert，超时类错误退避重试（最多MaxRetries次尝试），
// 其他错误立即记为该批失败。单批失败绝不中止整次加载，每一批都会被处理；
// 批与批之间固定停顿，压住存储侧峰值负载。
func (s *ImportService) ImportInBatches(ctx context.Context, label string, rows []*model.CardData) ImportResult {
	total := len(rows)
	batches := interfaces.ChunkSlice(rows, s.cfg.BatchSize)
	result := ImportResult{}

	s.logger.Infof("开始向%s导入%d行（共%d批，每批%d行）", label, total, len(batches), s.cfg.BatchSize)

	for i, batch := range batches {
		batchNo := i + 1
		success := false

		for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
			err := s.store.UpsertBatch(ctx, batch)
			if err == nil {
				success = true
				break
			}
			if isTimeoutError(err) && attempt < s.cfg.MaxRetries {
				s.logger.Warnf("  第%d批超时，重试 %d/%d", batchNo, attempt, s.cfg.MaxRetries)
				time.Sleep(time.Duration(s.cfg.BackoffBaseMs*attempt) * time.Millisecond)
				continue
			}
			s.logger.WithError(err).Errorf("  第%d批写入失败", batchNo)
			break
		}

		if success {
			result.Imported += len(batch)
			progress := float64(result.Imported) / float64(total) * 100
			s.logger.Infof("  进度: %d/%d (%.1f%%) | 失败批次: %d", result.Imported, total, progress, result.Errors)
		} else {
			result.Errors++
		}

		if i < len(batches)-1 {
			time.Sleep(time.Duration(s.cfg.BatchDelayMs) * time.Millisecond)
		}
	}

	s.logger.Infof("导入完成: %d行成功, %d批失败", result.Imported, result.Errors)
	return result
}

// Sync 端到端同步一次。clearFirst=false 时跳过清表（增量upsert模式）。
// 任一阶段失败即整次致命失败，保留原始错误向上传播，不做部分恢复（需调用方重新触发）；
// 批级失败只进计数器，不会让整次同步失败。
func (s *ImportService) Sync(ctx context.Context, runID string, clearFirst bool) (*SyncResult, error) {
	start := time.Now()
	s.logger.Info("========== ManaLedger 数据同步开始 ==========")

	result, err := s.run(ctx, runID, clearFirst, start)
	if err != nil {
		s.logger.WithError(err).Errorf("同步致命失败（已运行%.2fs）", time.Since(start).Seconds())
		return nil, err
	}

	s.logger.Info("========== 同步完成 ==========")
	s.logger.Infof("  导入: %d行", result.ImportResult.Imported)
	s.logger.Infof("  耗时: %.2fs", result.Duration)
	s.logger.Infof("  错误: %d批", result.TotalErrors)
	if result.TotalErrors > 0 {
		s.logger.Warn("  部分批次失败，请检查上方日志")
	}
	return result, nil
}

func (s *ImportService) run(ctx context.Context, runID string, clearFirst bool, start time.Time) (*SyncResult, error) {
	// 1. 清空存量数据（可选，跳过即为增量upsert模式）
	if clearFirst {
		s.status.SetPhase(runID, PhaseClearing)
		s.logger.Info("清空存量数据...")
		if err := s.store.ClearAllData(ctx); err != nil {
			return nil, fmt.Errorf("清空数据表失败: %w", err)
		}
	}

	// 2. 拉取全量卡牌数据
	s.status.SetPhase(runID, PhaseFetchingCards)
	s.logger.Infof("拉取%s卡牌数据...", s.cardProvider.GetName())
	cards, err := s.cardProvider.FetchCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s拉取卡牌失败: %w", s.cardProvider.GetName(), err)
	}

	// 3. 拉取价格指南
	s.status.SetPhase(runID, PhaseFetchingPrices)
	s.logger.Infof("拉取%s价格数据...", s.priceProvider.GetName())
	prices, err := s.priceProvider.FetchPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s拉取价格失败: %w", s.priceProvider.GetName(), err)
	}

	// 4. 规范化并按交叉引用ID左连接价格
	s.status.SetPhase(runID, PhaseMerging)
	merged := normalize.MergeWithPrices(cards, prices)
	rows, err := buildCardRows(merged)
	if err != nil {
		return nil, err
	}

	// 5. 分批入库
	s.status.SetPhase(runID, PhaseLoading)
	importResult := s.ImportInBatches(ctx, "card_data", rows)

	// 6. 汇总
	duration := math.Round(time.Since(start).Seconds()*100) / 100
	return &SyncResult{
		ImportResult: importResult,
		Duration:     duration,
		TotalErrors:  importResult.Errors,
	}, nil
}

// buildCardRows 合并结果→存储行：文档整体进jsonb，外加少量可索引标量列
func buildCardRows(cards []*model.CanonicalCard) ([]*model.CardData, error) {
	now := time.Now()
	rows := make([]*model.CardData, 0, len(cards))
	for _, card := range cards {
		doc, err := json.Marshal(card)
		if err != nil {
			return nil, fmt.Errorf("序列化卡牌%s失败: %w", card.ID, err)
		}
		rows = append(rows, &model.CardData{
			ID:           card.ID,
			Name:         card.Name,
			CardmarketID: card.CardmarketID,
			Data:         doc,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return rows, nil
}
