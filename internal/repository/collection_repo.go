package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"ManaLedger/internal/model"

	"gorm.io/gorm"
)

// CollectionRepository 用户收藏仓储
type CollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository 创建 CollectionRepository 实例
func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// CreateCollectionItemInput 新增收藏条目入参
type CreateCollectionItemInput struct {
	ScryfallID  string   `json:"scryfallId" binding:"required"`
	Amount      int      `json:"amount" binding:"required,min=1"`
	IsFoil      bool     `json:"isFoil"`
	PricePaid   *float64 `json:"pricePaid"`
	FromBooster *bool    `json:"fromBooster"`
}

// UpdateCollectionItemInput 修改收藏条目入参（nil字段不更新）
type UpdateCollectionItemInput struct {
	Amount      *int     `json:"amount"`
	IsFoil      *bool    `json:"isFoil"`
	PricePaid   *float64 `json:"pricePaid"`
	FromBooster *bool    `json:"fromBooster"`
}

// CollectionStats 收藏统计
type CollectionStats struct {
	TotalItems  int64 `json:"totalItems"`  // 条目数
	TotalCards  int64 `json:"totalCards"`  // 卡牌总张数（amount求和）
	UniqueCards int64 `json:"uniqueCards"` // 不同卡牌数
}

// AddItem 新增收藏条目：标量列+jsonb文档双写，入库后把自增ID回填进文档
func (r *CollectionRepository) AddItem(ctx context.Context, userID string, input CreateCollectionItemInput) (*model.CollectionItemData, error) {
	data := model.CollectionItemData{
		UserID:      userID,
		ScryfallID:  input.ScryfallID,
		Amount:      input.Amount,
		IsFoil:      input.IsFoil,
		PricePaid:   input.PricePaid,
		FromBooster: input.FromBooster,
	}
	doc, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("序列化收藏条目失败: %w", err)
	}

	row := model.CollectionItem{
		UserID:     userID,
		ScryfallID: input.ScryfallID,
		Data:       doc,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("保存收藏条目失败: %w", err)
	}

	// 自增ID入库后才可知，回填进文档保持两者一致
	data.ID = row.ID
	doc, err = json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("序列化收藏条目失败: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&model.CollectionItem{}).
		Where("id = ?", row.ID).
		Update("data", doc).Error; err != nil {
		return nil, fmt.Errorf("回填收藏条目ID失败: %w", err)
	}
	return &data, nil
}

// UpdateItem 修改收藏条目（仅限本人条目）
func (r *CollectionRepository) UpdateItem(ctx context.Context, userID string, itemID uint64, input UpdateCollectionItemInput) (*model.CollectionItemData, error) {
	var row model.CollectionItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	var data model.CollectionItemData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("解析收藏条目%d文档失败: %w", itemID, err)
	}

	if input.Amount != nil {
		data.Amount = *input.Amount
	}
	if input.IsFoil != nil {
		data.IsFoil = *input.IsFoil
	}
	if input.PricePaid != nil {
		data.PricePaid = input.PricePaid
	}
	if input.FromBooster != nil {
		data.FromBooster = input.FromBooster
	}

	doc, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("序列化收藏条目失败: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&model.CollectionItem{}).
		Where("id = ?", itemID).
		Update("data", doc).Error; err != nil {
		return nil, fmt.Errorf("更新收藏条目失败: %w", err)
	}
	return &data, nil
}

// DeleteItem 删除收藏条目（仅限本人条目），返回是否删到
func (r *CollectionRepository) DeleteItem(ctx context.Context, userID string, itemID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&model.CollectionItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByUser 按用户分页查收藏条目
func (r *CollectionRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.CollectionItemData, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	db := r.db.WithContext(ctx).Model(&model.CollectionItem{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.CollectionItem
	if err := db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]model.CollectionItemData, 0, len(rows))
	for i := range rows {
		var data model.CollectionItemData
		if err := json.Unmarshal(rows[i].Data, &data); err != nil {
			return nil, 0, fmt.Errorf("解析收藏条目%d文档失败: %w", rows[i].ID, err)
		}
		items = append(items, data)
	}
	return items, total, nil
}

// GetStats 收藏统计：条目数、卡牌总张数（jsonb里的amount求和）、不同卡牌数
func (r *CollectionRepository) GetStats(ctx context.Context, userID string) (*CollectionStats, error) {
	var stats CollectionStats
	db := r.db.WithContext(ctx).Model(&model.CollectionItem{}).Where("user_id = ?", userID)

	if err := db.Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := db.Select("COALESCE(SUM((data->>'amount')::int), 0)").Scan(&stats.TotalCards).Error; err != nil {
		return nil, err
	}
	if err := db.Distinct("scryfall_id").Count(&stats.UniqueCards).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
