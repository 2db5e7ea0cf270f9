package api

import (
	"net/http"
	"strconv"

	"ManaLedger/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// userIDHeader 外部认证中间件校验token后写入的用户ID头
const userIDHeader = "X-User-ID"

// requireUserID 取认证用户ID，缺失直接401（token校验在外部认证层完成）
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetHeader(userIDHeader)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少用户身份"})
		return "", false
	}
	return userID, true
}

// CollectionHandler 用户收藏接口
type CollectionHandler struct {
	repo   *repository.CollectionRepository
	logger *logrus.Logger
}

// NewCollectionHandler 创建 CollectionHandler
func NewCollectionHandler(db *gorm.DB, logger *logrus.Logger) *CollectionHandler {
	return &CollectionHandler{
		repo:   repository.NewCollectionRepository(db),
		logger: logger,
	}
}

// ListItems 收藏列表
// GET /api/collection?page=1&page_size=20
func (h *CollectionHandler) ListItems(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.repo.ListByUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListItems failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "page": page, "page_size": pageSize})
}

// AddItem 新增收藏条目
// POST /api/collection
func (h *CollectionHandler) AddItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input repository.CreateCollectionItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.repo.AddItem(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.WithError(err).Error("AddItem failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem 修改收藏条目
// PUT /api/collection/:id
func (h *CollectionHandler) UpdateItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法的条目ID"})
		return
	}

	var input repository.UpdateCollectionItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.repo.UpdateItem(c.Request.Context(), userID, itemID, input)
	if err != nil {
		h.logger.WithError(err).Error("UpdateItem failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "收藏条目不存在"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem 删除收藏条目
// DELETE /api/collection/:id
func (h *CollectionHandler) DeleteItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法的条目ID"})
		return
	}

	deleted, err := h.repo.DeleteItem(c.Request.Context(), userID, itemID)
	if err != nil {
		h.logger.WithError(err).Error("DeleteItem failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "收藏条目不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

// GetStats 收藏统计
// GET /api/collection/stats
func (h *CollectionHandler) GetStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.repo.GetStats(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("GetStats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
