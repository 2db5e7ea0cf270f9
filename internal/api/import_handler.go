package api

import (
	"context"
	"net/http"

	"ManaLedger/internal/repository"
	"ManaLedger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ImportHandler 数据同步触发与状态查询接口
type ImportHandler struct {
	importService *service.ImportService
	status        *service.RunStatusStore
	lockRepo      *repository.SyncLockRepository
	logger        *logrus.Logger
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importService *service.ImportService, status *service.RunStatusStore, lockRepo *repository.SyncLockRepository, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		status:        status,
		lockRepo:      lockRepo,
		logger:        logger,
	}
}

// syncRequest 触发同步的请求体（clearFirst缺省为true，全量替换模式）
type syncRequest struct {
	ClearFirst *bool `json:"clearFirst"`
}

// TriggerSync 触发一次全量数据同步（后台执行，立即返回）
// POST /api/import/sync
func (h *ImportHandler) TriggerSync(c *gin.Context) {
	var req syncRequest
	_ = c.ShouldBindJSON(&req) // 空body合法，全部取默认值

	clearFirst := true
	if req.ClearFirst != nil {
		clearFirst = *req.ClearFirst
	}

	// 1. 进程内快速挡板：最近一次运行未到终态直接409
	if h.status.IsRunning() {
		latest, _ := h.status.Latest()
		c.JSON(http.StatusConflict, gin.H{
			"message": "已有同步在进行中",
			"status":  "running",
			"phase":   latest.Phase,
		})
		return
	}

	// 2. 跨实例咨询锁：锁表条件更新抢占
	runID := uuid.NewString()
	acquired, err := h.lockRepo.Acquire(c.Request.Context(), runID)
	if err != nil {
		h.logger.WithError(err).Error("获取同步锁失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !acquired {
		c.JSON(http.StatusConflict, gin.H{
			"message": "其他实例的同步在进行中",
			"status":  "running",
		})
		return
	}

	h.status.Begin(runID, clearFirst)

	// 3. 立即响应，同步在后台协程执行
	c.JSON(http.StatusOK, gin.H{
		"message":    "数据同步已启动",
		"status":     "running",
		"runId":      runID,
		"clearFirst": clearFirst,
	})

	go func() {
		// 请求上下文随响应结束失效，后台运行用独立上下文
		ctx := context.Background()
		defer func() {
			if err := h.lockRepo.Release(ctx, runID); err != nil {
				h.logger.WithError(err).Error("释放同步锁失败")
			}
		}()

		result, err := h.importService.Sync(ctx, runID, clearFirst)
		if err != nil {
			h.status.Fail(runID, err.Error())
			h.logger.Errorf("[API] 同步运行%s失败: %v", runID, err)
			return
		}
		h.status.Complete(runID, result)
		h.logger.Infof("[API] 同步运行%s完成", runID)
	}()
}

// GetStatus 查询最近一次同步状态
// GET /api/import/status
func (h *ImportHandler) GetStatus(c *gin.Context) {
	latest, ok := h.status.Latest()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"phase": service.PhaseIdle})
		return
	}
	c.JSON(http.StatusOK, latest)
}

// GetRunStatus 按runId查询某次同步状态
// GET /api/import/status/:run_id
func (h *ImportHandler) GetRunStatus(c *gin.Context) {
	runID := c.Param("run_id")
	run, ok := h.status.Get(runID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "未找到该次同步运行"})
		return
	}
	c.JSON(http.StatusOK, run)
}
