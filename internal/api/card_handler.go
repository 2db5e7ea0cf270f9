package api

import (
	"net/http"
	"strconv"

	"ManaLedger/internal/repository"
	"ManaLedger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CardHandler 提供给前端的卡牌查询接口
type CardHandler struct {
	cardService *service.CardService
	logger      *logrus.Logger
}

// NewCardHandler 创建 CardHandler
func NewCardHandler(db *gorm.DB, logger *logrus.Logger) *CardHandler {
	repo := repository.NewCardRepository(db, logger)
	return &CardHandler{
		cardService: service.NewCardService(repo, logger),
		logger:      logger,
	}
}

// SearchCards 卡牌搜索接口
// GET /api/cards?search=bolt&page=1&page_size=20
func (h *CardHandler) SearchCards(c *gin.Context) {
	query := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.cardService.SearchCards(c.Request.Context(), query, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("SearchCards failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCard 卡牌详情接口
// GET /api/cards/:id
func (h *CardHandler) GetCard(c *gin.Context) {
	scryfallID := c.Param("id")

	card, err := h.cardService.GetCard(c.Request.Context(), scryfallID)
	if err != nil {
		h.logger.WithError(err).Error("GetCard failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "卡牌不存在"})
		return
	}
	c.JSON(http.StatusOK, card)
}

// GetPrintings 同名卡牌全部印刷版本
// GET /api/cards/:id/printings
func (h *CardHandler) GetPrintings(c *gin.Context) {
	scryfallID := c.Param("id")

	printings, err := h.cardService.GetPrintings(c.Request.Context(), scryfallID)
	if err != nil {
		h.logger.WithError(err).Error("GetPrintings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if printings == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "卡牌不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": printings, "total": len(printings)})
}

// GetCheapestPrinting 同名卡牌中最便宜的印刷版本
// GET /api/cards/:id/cheapest?foil=true
func (h *CardHandler) GetCheapestPrinting(c *gin.Context) {
	scryfallID := c.Param("id")
	foil := c.DefaultQuery("foil", "false") == "true"

	card, err := h.cardService.GetCheapestPrinting(c.Request.Context(), scryfallID, foil)
	if err != nil {
		h.logger.WithError(err).Error("GetCheapestPrinting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "卡牌不存在"})
		return
	}
	c.JSON(http.StatusOK, card)
}
