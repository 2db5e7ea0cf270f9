package interfaces

import (
	"context"

	"ManaLedger/internal/model"
)

// CardProvider 卡牌目录数据源必须实现的核心接口
type CardProvider interface {
	GetName() string                                                    // 数据源名称
	FetchBulkMetadata(ctx context.Context) (*model.BulkDataItem, error) // 解析当前批量数据下载地址
	FetchCards(ctx context.Context) ([]model.RawCardRecord, error)      // 下载并解析全量卡牌数据
}

// PriceProvider 价格指南数据源必须实现的核心接口
type PriceProvider interface {
	GetName() string                                                 // 数据源名称
	FetchPrices(ctx context.Context) ([]model.RawPriceRecord, error) // 下载并解析价格指南
}

// CardStore 批量加载层依赖的最小存储接口（隔离gorm，便于测试替身）
type CardStore interface {
	UpsertBatch(ctx context.Context, rows []*model.CardData) error // 按主键冲突合并写入一批行
	ClearAllData(ctx context.Context) error                        // 清空卡牌数据（存储过程优先，逐行删除兜底）
}
