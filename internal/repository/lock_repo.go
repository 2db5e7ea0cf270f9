package repository

import (
	"context"
	"fmt"
	"time"

	"ManaLedger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockRowID 锁表固定单行的主键
const lockRowID int16 = 1

// SyncLockRepository 同步互斥锁仓储：单行条件更新实现跨实例的咨询锁
//（进程内标志在多实例部署下不可靠，必须落库）
type SyncLockRepository struct {
	db *gorm.DB
}

// NewSyncLockRepository 创建 SyncLockRepository 实例
func NewSyncLockRepository(db *gorm.DB) *SyncLockRepository {
	return &SyncLockRepository{db: db}
}

// Acquire 尝试获取同步锁：仅当running=false时置为true，返回是否抢到。
// 锁行不存在则先插入（冲突忽略，保证并发下单行）。
func (r *SyncLockRepository) Acquire(ctx context.Context, runID string) (bool, error) {
	// 1. 确保锁行存在
	seed := model.SyncLock{ID: lockRowID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error; err != nil {
		return false, fmt.Errorf("初始化同步锁失败: %w", err)
	}

	// 2. 条件更新抢锁：RowsAffected=0 即有别的同步在跑
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.SyncLock{}).
		Where("id = ? AND running = ?", lockRowID, false).
		Updates(map[string]interface{}{
			"running":    true,
			"run_id":     runID,
			"started_at": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("获取同步锁失败: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Release 释放同步锁（按runID校验，避免误释放别人的锁）
func (r *SyncLockRepository) Release(ctx context.Context, runID string) error {
	res := r.db.WithContext(ctx).Model(&model.SyncLock{}).
		Where("id = ? AND run_id = ?", lockRowID, runID).
		Updates(map[string]interface{}{
			"running": false,
			"run_id":  nil,
		})
	if res.Error != nil {
		return fmt.Errorf("释放同步锁失败: %w", res.Error)
	}
	return nil
}
