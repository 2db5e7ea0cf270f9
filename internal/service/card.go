package service

import (
	"context"
	"math"

	"ManaLedger/internal/model"
	"ManaLedger/internal/repository"

	"github.com/sirupsen/logrus"
)

// CardService 面向前端的卡牌查询服务
type CardService struct {
	repo   *repository.CardRepository
	logger *logrus.Logger
}

// NewCardService 创建 CardService
func NewCardService(repo *repository.CardRepository, logger *logrus.Logger) *CardService {
	return &CardService{repo: repo, logger: logger}
}

// CardListResult 搜索返回
type CardListResult struct {
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Total    int64                  `json:"total"`
	Items    []*model.CanonicalCard `json:"items"`
}

// GetCard 按Scryfall ID取单张卡牌，不存在返回nil
func (s *CardService) GetCard(ctx context.Context, scryfallID string) (*model.CanonicalCard, error) {
	return s.repo.GetByID(ctx, scryfallID)
}

// SearchCards 按名称模糊搜索（分页）
func (s *CardService) SearchCards(ctx context.Context, query string, page, pageSize int) (*CardListResult, error) {
	cards, total, err := s.repo.SearchByName(ctx, query, page, pageSize)
	if err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &CardListResult{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    cards,
	}, nil
}

// GetPrintings 给定某个印刷版本的ID，取同名卡牌的全部印刷版本
func (s *CardService) GetPrintings(ctx context.Context, scryfallID string) ([]*model.CanonicalCard, error) {
	base, err := s.repo.GetByID(ctx, scryfallID)
	if err != nil || base == nil {
		return nil, err
	}
	return s.repo.GetPrintingsByName(ctx, base.Name)
}

// GetCheapestPrinting 同名印刷版本中取最便宜的一个；foil=true时优先比较闪卡价格
func (s *CardService) GetCheapestPrinting(ctx context.Context, scryfallID string, foil bool) (*model.CanonicalCard, error) {
	printings, err := s.GetPrintings(ctx, scryfallID)
	if err != nil {
		return nil, err
	}
	return pickCheapest(printings, foil), nil
}

// priceFor 取印刷版本的比较价：普通版low→avg兜底，闪卡avgFoil→low→avg兜底。
// 无价格默认+Inf，未定价的版本被排到最后（沿用的产品策略默认值，不是加载核心的不变量）。
func priceFor(card *model.CanonicalCard, foil bool) float64 {
	if card.Price == nil {
		return math.Inf(1)
	}

	var candidates []*float64
	if foil {
		candidates = []*float64{card.Price.AvgFoil, card.Price.Low, card.Price.Avg}
	} else {
		candidates = []*float64{card.Price.Low, card.Price.Avg}
	}
	for _, p := range candidates {
		if p != nil {
			return *p
		}
	}
	return math.Inf(1)
}

// pickCheapest 比较价最低者胜，相等保留先遇到的
func pickCheapest(cards []*model.CanonicalCard, foil bool) *model.CanonicalCard {
	if len(cards) == 0 {
		return nil
	}
	best := cards[0]
	bestPrice := priceFor(best, foil)
	for _, c := range cards[1:] {
		if p := priceFor(c, foil); p < bestPrice {
			best = c
			bestPrice = p
		}
	}
	return best
}
