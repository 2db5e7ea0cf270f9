package model

import (
	"time"

	"gorm.io/datatypes"
)

// CardData 卡牌数据表：完整规范文档存 jsonb，少量可索引标量列单独存储
type CardData struct {
	ID           string         `gorm:"column:id;primaryKey;type:varchar(64);comment:Scryfall全局唯一ID"`
	Name         string         `gorm:"column:name;type:varchar(256);index;not null;comment:卡牌名称"`
	CardmarketID *int64         `gorm:"column:cardmarket_id;type:bigint;index;comment:CardMarket交叉引用ID"`
	Data         datatypes.JSON `gorm:"column:data;type:jsonb;not null;comment:规范卡牌文档（含价格）"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// CollectionItem 用户收藏条目：标量列用于查询，完整文档存 jsonb
type CollectionItem struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID     string         `gorm:"column:user_id;type:varchar(64);index;not null;comment:用户ID"`
	ScryfallID string         `gorm:"column:scryfall_id;type:varchar(64);index;not null;comment:关联卡牌ID"`
	Data       datatypes.JSON `gorm:"column:data;type:jsonb;not null;comment:收藏条目文档"`
	CreatedAt  time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// WantsList 用户想要列表：条目数组整体存 jsonb
type WantsList struct {
	ID        string         `gorm:"column:id;primaryKey;type:varchar(64);comment:全局唯一ID"`
	UserID    string         `gorm:"column:user_id;type:varchar(64);index;not null;comment:用户ID"`
	Name      string         `gorm:"column:name;type:varchar(256);not null;comment:列表名称"`
	Items     datatypes.JSON `gorm:"column:items;type:jsonb;not null;comment:想要条目数组"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// SyncLock 同步互斥锁表（单行，id固定为1，条件更新实现跨实例互斥）
type SyncLock struct {
	ID        int16      `gorm:"column:id;primaryKey;comment:固定为1"`
	Running   bool       `gorm:"column:running;type:boolean;default:false;comment:是否有同步在进行"`
	RunID     *string    `gorm:"column:run_id;type:varchar(64);comment:当前运行的同步ID"`
	StartedAt *time.Time `gorm:"column:started_at;type:timestamp;comment:当前同步开始时间"`
}

// CollectionItemData 收藏条目文档（camelCase，存入 CollectionItem.Data）
type CollectionItemData struct {
	ID          uint64   `json:"id"`
	UserID      string   `json:"userId"`
	ScryfallID  string   `json:"scryfallId"`
	Amount      int      `json:"amount"`
	IsFoil      bool     `json:"isFoil"`
	PricePaid   *float64 `json:"pricePaid,omitempty"`
	FromBooster *bool    `json:"fromBooster,omitempty"`
}

// WantsListItem 想要列表单个条目（camelCase，数组整体存入 WantsList.Items）
type WantsListItem struct {
	ScryfallID       string `json:"scryfallId"`
	Amount           int    `json:"amount"`
	SpecificPrinting bool   `json:"specificPrinting"`
	Foil             bool   `json:"foil"`
}

func (CardData) TableName() string       { return "card_data" }
func (CollectionItem) TableName() string { return "collection_items" }
func (WantsList) TableName() string      { return "wants_lists" }
func (SyncLock) TableName() string       { return "sync_locks" }
