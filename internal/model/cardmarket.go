package model

import "encoding/json"

// RawPriceRecord CardMarket 价格指南原始记录（厂商用连字符命名foil系列字段）
type RawPriceRecord struct {
	IDProduct  json.Number `json:"idProduct"`  // 交叉引用ID（部分数据源给字符串，部分给数字）
	IDCategory int64       `json:"idCategory"` // 商品类别ID
	Avg        *float64    `json:"avg"`        // 普通版均价
	Low        *float64    `json:"low"`        // 普通版最低价
	Trend      *float64    `json:"trend"`      // 普通版趋势价
	Avg1       *float64    `json:"avg1"`       // 1日均价
	Avg7       *float64    `json:"avg7"`       // 7日均价
	Avg30      *float64    `json:"avg30"`      // 30日均价
	AvgFoil    *float64    `json:"avg-foil"`   // 闪卡均价
	LowFoil    *float64    `json:"low-foil"`   // 闪卡最低价
	TrendFoil  *float64    `json:"trend-foil"` // 闪卡趋势价
	Avg1Foil   *float64    `json:"avg1-foil"`
	Avg7Foil   *float64    `json:"avg7-foil"`
	Avg30Foil  *float64    `json:"avg30-foil"`
}

// PriceGuideResponse 价格指南接口返回
type PriceGuideResponse struct {
	PriceGuides []RawPriceRecord `json:"priceGuides"`
}

// CardPrice 归一化后的价格对象（camelCase，合并进 CanonicalCard）
type CardPrice struct {
	Avg        *float64 `json:"avg"`
	Low        *float64 `json:"low"`
	Avg1       *float64 `json:"avg1"`
	Avg7       *float64 `json:"avg7"`
	Avg30      *float64 `json:"avg30"`
	Trend      *float64 `json:"trend"`
	AvgFoil    *float64 `json:"avgFoil"`
	LowFoil    *float64 `json:"lowFoil"`
	Avg1Foil   *float64 `json:"avg1Foil"`
	Avg7Foil   *float64 `json:"avg7Foil"`
	Avg30Foil  *float64 `json:"avg30Foil"`
	TrendFoil  *float64 `json:"trendFoil"`
	IDProduct  string   `json:"idProduct"`
	IDCategory int64    `json:"idCategory"`
}
