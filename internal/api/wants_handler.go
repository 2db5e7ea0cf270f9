package api

import (
	"net/http"

	"ManaLedger/internal/model"
	"ManaLedger/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WantsHandler 想要列表接口
type WantsHandler struct {
	repo   *repository.WantsListRepository
	logger *logrus.Logger
}

// NewWantsHandler 创建 WantsHandler
func NewWantsHandler(db *gorm.DB, logger *logrus.Logger) *WantsHandler {
	return &WantsHandler{
		repo:   repository.NewWantsListRepository(db),
		logger: logger,
	}
}

// createWantsListRequest 新建想要列表请求体
type createWantsListRequest struct {
	Name  string                `json:"name" binding:"required"`
	Items []model.WantsListItem `json:"items"`
}

// updateWantsListRequest 更新想要列表请求体（nil字段不更新）
type updateWantsListRequest struct {
	Name  *string               `json:"name"`
	Items []model.WantsListItem `json:"items"`
}

// ListWantsLists 用户的全部想要列表
// GET /api/wants
func (h *WantsHandler) ListWantsLists(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	lists, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("ListWantsLists failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": lists, "total": len(lists)})
}

// CreateWantsList 新建想要列表
// POST /api/wants
func (h *WantsHandler) CreateWantsList(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createWantsListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.repo.Create(c.Request.Context(), userID, req.Name, req.Items)
	if err != nil {
		h.logger.WithError(err).Error("CreateWantsList failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetWantsList 想要列表详情
// GET /api/wants/:list_id
func (h *WantsHandler) GetWantsList(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	list, err := h.repo.GetByID(c.Request.Context(), userID, c.Param("list_id"))
	if err != nil {
		h.logger.WithError(err).Error("GetWantsList failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "想要列表不存在"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateWantsList 更新想要列表
// PUT /api/wants/:list_id
func (h *WantsHandler) UpdateWantsList(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateWantsListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.repo.Update(c.Request.Context(), userID, c.Param("list_id"), req.Name, req.Items)
	if err != nil {
		h.logger.WithError(err).Error("UpdateWantsList failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "想要列表不存在"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteWantsList 删除想要列表
// DELETE /api/wants/:list_id
func (h *WantsHandler) DeleteWantsList(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), userID, c.Param("list_id"))
	if err != nil {
		h.logger.WithError(err).Error("DeleteWantsList failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "想要列表不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}

// AddWantsListItem 列表追加条目
// POST /api/wants/:list_id/items
func (h *WantsHandler) AddWantsListItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var item model.WantsListItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.Amount <= 0 {
		item.Amount = 1
	}

	list, err := h.repo.AddItem(c.Request.Context(), userID, c.Param("list_id"), item)
	if err != nil {
		h.logger.WithError(err).Error("AddWantsListItem failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "想要列表不存在"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// RemoveWantsListItem 列表移除条目
// DELETE /api/wants/:list_id/items/:scryfall_id
func (h *WantsHandler) RemoveWantsListItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	list, err := h.repo.RemoveItem(c.Request.Context(), userID, c.Param("list_id"), c.Param("scryfall_id"))
	if err != nil {
		h.logger.WithError(err).Error("RemoveWantsListItem failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "想要列表不存在"})
		return
	}
	c.JSON(http.StatusOK, list)
}
