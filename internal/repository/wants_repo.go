package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"ManaLedger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WantsListRepository 用户想要列表仓储
type WantsListRepository struct {
	db *gorm.DB
}

// NewWantsListRepository 创建 WantsListRepository 实例
func NewWantsListRepository(db *gorm.DB) *WantsListRepository {
	return &WantsListRepository{db: db}
}

// WantsListView 对外返回的列表视图（items已从jsonb解出）
type WantsListView struct {
	ID        string                `json:"id"`
	UserID    string                `json:"userId"`
	Name      string                `json:"name"`
	Items     []model.WantsListItem `json:"items"`
	CreatedAt string                `json:"createdAt"`
	UpdatedAt string                `json:"updatedAt"`
}

// rowToView 表行→视图
func rowToView(row *model.WantsList) (*WantsListView, error) {
	items := []model.WantsListItem{}
	if len(row.Items) > 0 {
		if err := json.Unmarshal(row.Items, &items); err != nil {
			return nil, fmt.Errorf("解析想要列表%s条目失败: %w", row.ID, err)
		}
	}
	return &WantsListView{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Items:     items,
		CreatedAt: row.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: row.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// Create 新建想要列表
func (r *WantsListRepository) Create(ctx context.Context, userID, name string, items []model.WantsListItem) (*WantsListView, error) {
	if items == nil {
		items = []model.WantsListItem{}
	}
	doc, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("序列化想要条目失败: %w", err)
	}

	row := model.WantsList{
		ID:     uuid.NewString(), // 生成全局唯一ID
		UserID: userID,
		Name:   name,
		Items:  doc,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("保存想要列表失败: %w", err)
	}
	return rowToView(&row)
}

// GetByID 按ID取想要列表（仅限本人），不存在返回nil
func (r *WantsListRepository) GetByID(ctx context.Context, userID, listID string) (*WantsListView, error) {
	var row model.WantsList
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", listID, userID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return rowToView(&row)
}

// ListByUser 取用户的全部想要列表
func (r *WantsListRepository) ListByUser(ctx context.Context, userID string) ([]*WantsListView, error) {
	var rows []model.WantsList
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]*WantsListView, 0, len(rows))
	for i := range rows {
		v, err := rowToView(&rows[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Update 更新名称与/或条目（nil的不更新）
func (r *WantsListRepository) Update(ctx context.Context, userID, listID string, name *string, items []model.WantsListItem) (*WantsListView, error) {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if items != nil {
		doc, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("序列化想要条目失败: %w", err)
		}
		updates["items"] = doc
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.WantsList{}).
			Where("id = ? AND user_id = ?", listID, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("更新想要列表失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, nil
		}
	}
	return r.GetByID(ctx, userID, listID)
}

// Delete 删除想要列表（仅限本人），返回是否删到
func (r *WantsListRepository) Delete(ctx context.Context, userID, listID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", listID, userID).
		Delete(&model.WantsList{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddItem 向列表追加一个条目（同卡同规格已存在则数量累加）
func (r *WantsListRepository) AddItem(ctx context.Context, userID, listID string, item model.WantsListItem) (*WantsListView, error) {
	current, err := r.GetByID(ctx, userID, listID)
	if err != nil || current == nil {
		return nil, err
	}

	merged := false
	for i := range current.Items {
		if current.Items[i].ScryfallID == item.ScryfallID &&
			current.Items[i].Foil == item.Foil &&
			current.Items[i].SpecificPrinting == item.SpecificPrinting {
			current.Items[i].Amount += item.Amount
			merged = true
			break
		}
	}
	if !merged {
		current.Items = append(current.Items, item)
	}
	return r.Update(ctx, userID, listID, nil, current.Items)
}

// RemoveItem 从列表移除指定卡牌的条目
func (r *WantsListRepository) RemoveItem(ctx context.Context, userID, listID, scryfallID string) (*WantsListView, error) {
	current, err := r.GetByID(ctx, userID, listID)
	if err != nil || current == nil {
		return nil, err
	}

	kept := make([]model.WantsListItem, 0, len(current.Items))
	for i := range current.Items {
		if current.Items[i].ScryfallID != scryfallID {
			kept = append(kept, current.Items[i])
		}
	}
	return r.Update(ctx, userID, listID, nil, kept)
}
