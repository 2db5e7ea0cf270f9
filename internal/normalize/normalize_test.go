package normalize

import (
	"encoding/json"
	"testing"

	"ManaLedger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func singleFaceRaw() *model.RawCardRecord {
	return &model.RawCardRecord{
		ID:           "a1b2",
		CardmarketID: int64Ptr(123),
		Name:         "Lightning Bolt",
		Lang:         "en",
		ReleasedAt:   "2010-07-16",
		ScryfallURI:  "https://scryfall.com/card/m11/146",
		Layout:       "normal",
		SetID:        "set-1",
		Set:          "m11",
		SetName:      "Magic 2011",
		SetType:      "core",
		Rarity:       "common",
		ManaCost:     "{R}",
		TypeLine:     "Instant",
		OracleText:   "Lightning Bolt deals 3 damage to any target.",
		Colors:       []string{"R"},
		Legalities:   map[string]string{"commander": "legal", "modern": "legal"},
		RelatedURIs:  map[string]string{"edhrec": "https://edhrec.com/cards/lightning-bolt"},
	}
}

func multiFaceRaw() *model.RawCardRecord {
	return &model.RawCardRecord{
		ID:       "c3d4",
		Name:     "Delver of Secrets // Insectile Aberration",
		Lang:     "en",
		Layout:   "transform",
		SetID:    "set-2",
		Set:      "isd",
		SetName:  "Innistrad",
		SetType:  "expansion",
		Rarity:   "common",
		TypeLine: "Creature — Human Wizard // Creature — Human Insect",
		CardFaces: []model.RawCardFace{
			{
				Name:      "Delver of Secrets",
				ManaCost:  "{U}",
				TypeLine:  "Creature — Human Wizard",
				Power:     "1",
				Toughness: "1",
				Colors:    []string{"U"},
				ImageURIs: map[string]string{"small": "s.jpg", "art_crop": "ac.jpg"},
			},
			{
				Name:      "Insectile Aberration",
				TypeLine:  "Creature — Human Insect",
				Power:     "3",
				Toughness: "2",
			},
		},
	}
}

func TestNormalizeSingleFace(t *testing.T) {
	card := NormalizeCard(singleFaceRaw())

	require.NotNil(t, card.Single)
	assert.Nil(t, card.Multi)

	assert.Equal(t, "a1b2", card.ID)
	require.NotNil(t, card.CardmarketID)
	assert.Equal(t, int64(123), *card.CardmarketID)
	assert.Equal(t, model.CardSet{ID: "set-1", Code: "m11", Name: "Magic 2011", Type: "core"}, card.Set)

	assert.Equal(t, "{R}", card.Single.ManaCost)
	assert.Equal(t, "Instant", card.Single.TypeLine)
	assert.True(t, card.Single.IsLegalInCommander)
	assert.Equal(t, "https://edhrec.com/cards/lightning-bolt", card.Single.EdhrecURI)

	// 数组字段缺省为空切片而非nil
	assert.NotNil(t, card.ColorIdentity)
	assert.NotNil(t, card.Keywords)
	assert.NotNil(t, card.Single.Games)
	assert.NotNil(t, card.Single.Finishes)
	assert.Empty(t, card.Keywords)
}

func TestNormalizeCommanderNotLegal(t *testing.T) {
	raw := singleFaceRaw()
	raw.Legalities = map[string]string{"commander": "banned"}
	assert.False(t, NormalizeCard(raw).Single.IsLegalInCommander)

	raw.Legalities = nil
	assert.False(t, NormalizeCard(raw).Single.IsLegalInCommander)
}

func TestNormalizeMultiFace(t *testing.T) {
	card := NormalizeCard(multiFaceRaw())

	require.NotNil(t, card.Multi)
	assert.Nil(t, card.Single)

	require.Len(t, card.Multi.Faces, 2)
	assert.Equal(t, "Delver of Secrets", card.Multi.Faces[0].Name)
	assert.Equal(t, "{U}", card.Multi.Faces[0].ManaCost)
	assert.Equal(t, "1", card.Multi.Faces[0].Power)
	require.NotNil(t, card.Multi.Faces[0].ImageURIs)
	assert.Equal(t, "ac.jpg", card.Multi.Faces[0].ImageURIs.ArtCrop)
	assert.Nil(t, card.Multi.Faces[1].ImageURIs)

	assert.NotNil(t, card.Multi.ProducedMana)
	assert.Empty(t, card.Multi.ProducedMana)
}

// 文档形状：多面卡有faces无单面字段，单面卡反之
func TestCanonicalCardDocumentShape(t *testing.T) {
	single, err := json.Marshal(NormalizeCard(singleFaceRaw()))
	require.NoError(t, err)
	var singleDoc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(single, &singleDoc))
	assert.Contains(t, singleDoc, "manaCost")
	assert.Contains(t, singleDoc, "isLegalInCommander")
	assert.NotContains(t, singleDoc, "faces")

	multi, err := json.Marshal(NormalizeCard(multiFaceRaw()))
	require.NoError(t, err)
	var multiDoc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(multi, &multiDoc))
	assert.Contains(t, multiDoc, "faces")
	assert.NotContains(t, multiDoc, "manaCost")
	assert.NotContains(t, multiDoc, "isLegalInCommander")
}

// 文档往返：序列化再反序列化还原同一变体
func TestCanonicalCardRoundTrip(t *testing.T) {
	for _, raw := range []*model.RawCardRecord{singleFaceRaw(), multiFaceRaw()} {
		card := NormalizeCard(raw)
		doc, err := json.Marshal(card)
		require.NoError(t, err)

		var restored model.CanonicalCard
		require.NoError(t, json.Unmarshal(doc, &restored))

		assert.Equal(t, card.ID, restored.ID)
		assert.Equal(t, card.Single == nil, restored.Single == nil)
		assert.Equal(t, card.Multi == nil, restored.Multi == nil)
		if card.Multi != nil {
			assert.Equal(t, card.Multi.Faces, restored.Multi.Faces)
		} else {
			assert.Equal(t, card.Single.ManaCost, restored.Single.ManaCost)
		}
	}
}

// 变体不变量：两个都有或都没有是非法状态
func TestCanonicalCardVariantInvariant(t *testing.T) {
	bad := model.CanonicalCard{ID: "x"}
	_, err := json.Marshal(bad)
	assert.Error(t, err)

	bad.Single = &model.SingleFaceAttrs{}
	bad.Multi = &model.MultiFaceAttrs{}
	_, err = json.Marshal(bad)
	assert.Error(t, err)
}

func TestNormalizePriceKeyRemap(t *testing.T) {
	// 连字符命名从原始JSON进，camelCase出
	rawJSON := []byte(`{
		"idProduct": 123,
		"idCategory": 1,
		"avg": 5.0,
		"low": 2.5,
		"trend": 4.8,
		"avg-foil": 12.0,
		"low-foil": 9.0,
		"trend-foil": 11.5,
		"avg1": 5.1,
		"avg7": 5.2,
		"avg30": 5.3,
		"avg1-foil": 12.1,
		"avg7-foil": 12.2,
		"avg30-foil": 12.3
	}`)
	var raw model.RawPriceRecord
	require.NoError(t, json.Unmarshal(rawJSON, &raw))

	price := NormalizePrice(&raw)
	assert.Equal(t, "123", price.IDProduct)
	require.NotNil(t, price.Avg)
	assert.Equal(t, 5.0, *price.Avg)
	require.NotNil(t, price.AvgFoil)
	assert.Equal(t, 12.0, *price.AvgFoil)
	require.NotNil(t, price.Avg30Foil)
	assert.Equal(t, 12.3, *price.Avg30Foil)

	// 归一化后的文档用camelCase键
	doc, err := json.Marshal(price)
	require.NoError(t, err)
	var docMap map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc, &docMap))
	assert.Contains(t, docMap, "avgFoil")
	assert.NotContains(t, docMap, "avg-foil")
}
