package repository

import (
	"context"
	"fmt"

	"ManaLedger/internal/interfaces"
	"ManaLedger/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CardRepository 卡牌数据表的读写仓储（同时承担批量加载层的存储接口）
type CardRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewCardRepository 创建 CardRepository 实例
func NewCardRepository(db *gorm.DB, logger *logrus.Logger) *CardRepository {
	return &CardRepository{db: db, logger: logger}
}

// 编译期确认实现了批量加载层的存储接口
var _ interfaces.CardStore = (*CardRepository)(nil)

// UpsertBatch 按主键冲突合并写入一批行（重跑幂等）
func (r *CardRepository) UpsertBatch(ctx context.Context, rows []*model.CardData) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(rows).Error
}

// ClearAllData 清空卡牌数据：优先调用存储过程整表TRUNCATE，
// 存储过程不可用时降级为逐表DELETE兜底。失败对整次同步是致命错误。
func (r *CardRepository) ClearAllData(ctx context.Context) error {
	// 1. 快路径：存储过程原子清空
	if err := r.db.WithContext(ctx).Exec("SELECT clear_all_data()").Error; err == nil {
		r.logger.Info("  已通过存储过程清空数据表")
		return nil
	} else {
		r.logger.WithError(err).Warn("  存储过程不可用，降级为DELETE清空")
	}

	// 2. 兜底：逐行删除
	if err := r.db.WithContext(ctx).Where("id IS NOT NULL").Delete(&model.CardData{}).Error; err != nil {
		return fmt.Errorf("清空卡牌数据失败: %w", err)
	}
	r.logger.Info("  已通过DELETE清空数据表")
	return nil
}

// GetByID 按Scryfall ID取规范卡牌文档，不存在返回nil
func (r *CardRepository) GetByID(ctx context.Context, scryfallID string) (*model.CanonicalCard, error) {
	var row model.CardData
	if err := r.db.WithContext(ctx).Where("id = ?", scryfallID).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return decodeCard(&row)
}

// SearchByName 按名称模糊搜索（分页），返回文档列表与总数
func (r *CardRepository) SearchByName(ctx context.Context, query string, page, pageSize int) ([]*model.CanonicalCard, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	db := r.db.WithContext(ctx).Model(&model.CardData{}).
		Where("name ILIKE ?", "%"+query+"%")

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.CardData
	if err := db.
		Order("name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	cards, err := decodeCards(rows)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// GetPrintingsByName 取同名卡牌的全部印刷版本
func (r *CardRepository) GetPrintingsByName(ctx context.Context, name string) ([]*model.CanonicalCard, error) {
	var rows []model.CardData
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return decodeCards(rows)
}

// decodeCard jsonb文档→规范卡牌（按faces还原单面/多面变体）
func decodeCard(row *model.CardData) (*model.CanonicalCard, error) {
	var card model.CanonicalCard
	if err := card.UnmarshalJSON(row.Data); err != nil {
		return nil, fmt.Errorf("解析卡牌%s文档失败: %w", row.ID, err)
	}
	return &card, nil
}

func decodeCards(rows []model.CardData) ([]*model.CanonicalCard, error) {
	cards := make([]*model.CanonicalCard, 0, len(rows))
	for i := range rows {
		card, err := decodeCard(&rows[i])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
