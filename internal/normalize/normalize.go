package normalize

import (
	"ManaLedger/internal/model"
)

// emptyIfNil 数组字段缺省为空切片，下游消费方无需判空
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// normalizeFaceImages 卡面图片地址snake_case→camelCase（字段白名单映射）
func normalizeFaceImages(uris map[string]string) *model.FaceImageURIs {
	if uris == nil {
		return nil
	}
	return &model.FaceImageURIs{
		Small:      uris["small"],
		Normal:     uris["normal"],
		Large:      uris["large"],
		PNG:        uris["png"],
		ArtCrop:    uris["art_crop"],
		BorderCrop: uris["border_crop"],
	}
}

// normalizeFaces 逐面映射多面卡属性
func normalizeFaces(raw []model.RawCardFace) []model.CardFace {
	faces := make([]model.CardFace, 0, len(raw))
	for i := range raw {
		faces = append(faces, model.CardFace{
			Name:       raw[i].Name,
			ManaCost:   raw[i].ManaCost,
			TypeLine:   raw[i].TypeLine,
			OracleText: raw[i].OracleText,
			Power:      raw[i].Power,
			Toughness:  raw[i].Toughness,
			Colors:     raw[i].Colors,
			ImageURIs:  normalizeFaceImages(raw[i].ImageURIs),
		})
	}
	return faces
}

// NormalizeCard 原始卡牌记录→规范文档（纯函数，一进一出）。
// card_faces 存在即多面卡（Faces变体），否则单面卡（内联属性+指挥官赛制合法性布尔）。
func NormalizeCard(raw *model.RawCardRecord) *model.CanonicalCard {
	card := &model.CanonicalCard{
		ID:            raw.ID,
		CardmarketID:  raw.CardmarketID,
		Name:          raw.Name,
		Lang:          raw.Lang,
		ReleasedAt:    raw.ReleasedAt,
		ScryfallURI:   raw.ScryfallURI,
		Layout:        raw.Layout,
		ColorIdentity: emptyIfNil(raw.ColorIdentity),
		Keywords:      emptyIfNil(raw.Keywords),
		Set: model.CardSet{
			ID:   raw.SetID,
			Code: raw.Set,
			Name: raw.SetName,
			Type: raw.SetType,
		},
		Rarity: raw.Rarity,
	}

	// 多面卡：只填Faces变体，单面字段不出现在文档里
	if raw.CardFaces != nil {
		card.Multi = &model.MultiFaceAttrs{
			TypeLine:     raw.TypeLine,
			ProducedMana: emptyIfNil(raw.ProducedMana),
			Faces:        normalizeFaces(raw.CardFaces),
		}
		return card
	}

	// 单面卡：内联属性 + 从legalities映射推导指挥官赛制合法性
	card.Single = &model.SingleFaceAttrs{
		ImageURIs:          raw.ImageURIs,
		ManaCost:           raw.ManaCost,
		TypeLine:           raw.TypeLine,
		OracleText:         raw.OracleText,
		Power:              raw.Power,
		Toughness:          raw.Toughness,
		Colors:             emptyIfNil(raw.Colors),
		IsLegalInCommander: raw.Legalities["commander"] == "legal",
		Games:              emptyIfNil(raw.Games),
		Finishes:           emptyIfNil(raw.Finishes),
		CollectorNumber:    raw.CollectorNumber,
		FlavorText:         raw.FlavorText,
		Artist:             raw.Artist,
		EdhrecRank:         raw.EdhrecRank,
		EdhrecURI:          raw.RelatedURIs["edhrec"],
	}
	return card
}

// NormalizePrice 价格记录连字符字段→camelCase（字段白名单映射，非透传）
func NormalizePrice(raw *model.RawPriceRecord) *model.CardPrice {
	return &model.CardPrice{
		Avg:        raw.Avg,
		Low:        raw.Low,
		Avg1:       raw.Avg1,
		Avg7:       raw.Avg7,
		Avg30:      raw.Avg30,
		Trend:      raw.Trend,
		AvgFoil:    raw.AvgFoil,
		LowFoil:    raw.LowFoil,
		Avg1Foil:   raw.Avg1Foil,
		Avg7Foil:   raw.Avg7Foil,
		Avg30Foil:  raw.Avg30Foil,
		TrendFoil:  raw.TrendFoil,
		IDProduct:  raw.IDProduct.String(),
		IDCategory: raw.IDCategory,
	}
}
