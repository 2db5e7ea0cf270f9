package normalize

import (
	"strconv"

	"ManaLedger/internal/model"
)

// MergeWithPrices 规范化全部卡牌并左连接价格：按字符串化的交叉引用ID查价格表，
// 无交叉引用ID或无匹配的卡price为nil。保卡不保价：每张卡必定出现在结果里，
// 无人认领的价格记录静默丢弃。同一idProduct出现多条时后者覆盖前者（源站约定不应出现）。
func MergeWithPrices(cards []model.RawCardRecord, prices []model.RawPriceRecord) []*model.CanonicalCard {
	// 1. 建价格查找表
	priceMap := make(map[string]*model.RawPriceRecord, len(prices))
	for i := range prices {
		priceMap[prices[i].IDProduct.String()] = &prices[i]
	}

	// 2. 逐卡规范化并挂价格
	merged := make([]*model.CanonicalCard, 0, len(cards))
	for i := range cards {
		card := NormalizeCard(&cards[i])
		if card.CardmarketID != nil {
			if raw, ok := priceMap[strconv.FormatInt(*card.CardmarketID, 10)]; ok {
				card.Price = NormalizePrice(raw)
			}
		}
		merged = append(merged, card)
	}
	return merged
}
