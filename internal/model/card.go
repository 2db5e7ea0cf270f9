package model

import (
	"encoding/json"
	"fmt"
)

// CardSet 卡牌所属系列描述（嵌套在规范卡牌文档内）
type CardSet struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// FaceImageURIs 单个卡面的图片地址集合
type FaceImageURIs struct {
	Small      string `json:"small,omitempty"`
	Normal     string `json:"normal,omitempty"`
	Large      string `json:"large,omitempty"`
	PNG        string `json:"png,omitempty"`
	ArtCrop    string `json:"artCrop,omitempty"`
	BorderCrop string `json:"borderCrop,omitempty"`
}

// CardFace 规范化后的单个卡面
type CardFace struct {
	Name       string         `json:"name"`
	ManaCost   string         `json:"manaCost"`
	TypeLine   string         `json:"typeLine"`
	OracleText string         `json:"oracleText"`
	Power      string         `json:"power,omitempty"`
	Toughness  string         `json:"toughness,omitempty"`
	Colors     []string       `json:"colors,omitempty"`
	ImageURIs  *FaceImageURIs `json:"imageUris,omitempty"`
}

// SingleFaceAttrs 单面卡专属属性（数组字段规范化后保证非nil）
type SingleFaceAttrs struct {
	ImageURIs          map[string]string `json:"imageUris,omitempty"`
	ManaCost           string            `json:"manaCost"`
	TypeLine           string            `json:"typeLine"`
	OracleText         string            `json:"oracleText"`
	Power              string            `json:"power,omitempty"`
	Toughness          string            `json:"toughness,omitempty"`
	Colors             []string          `json:"colors"`
	IsLegalInCommander bool              `json:"isLegalInCommander"`
	Games              []string          `json:"games"`
	Finishes           []string          `json:"finishes"`
	CollectorNumber    string            `json:"collectorNumber"`
	FlavorText         string            `json:"flavorText,omitempty"`
	Artist             string            `json:"artist,omitempty"`
	EdhrecRank         *int              `json:"edhrecRank,omitempty"`
	EdhrecURI          string            `json:"edhrecUri,omitempty"`
}

// MultiFaceAttrs 多面卡专属属性
type MultiFaceAttrs struct {
	TypeLine     string     `json:"typeLine"`
	ProducedMana []string   `json:"producedMana"`
	Faces        []CardFace `json:"faces"`
}

// CanonicalCard 系统内部的规范卡牌文档。
// Single 与 Multi 为互斥的变体标签：单面卡只有 Single、多面卡只有 Multi 持有值，
// 序列化时拍平成与存量文档一致的形状，反序列化时按 faces 是否存在还原变体。
type CanonicalCard struct {
	ID            string
	CardmarketID  *int64
	Name          string
	Lang          string
	ReleasedAt    string
	ScryfallURI   string
	Layout        string
	ColorIdentity []string
	Keywords      []string
	Set           CardSet
	Rarity        string
	Single        *SingleFaceAttrs // 单面卡属性（与Multi互斥）
	Multi         *MultiFaceAttrs  // 多面卡属性（与Single互斥）
	Price         *CardPrice       // 合并价格后填充，无匹配为nil
}

// cardBase 文档公共字段（序列化用）
type cardBase struct {
	ID            string     `json:"id"`
	CardmarketID  *int64     `json:"cardmarketId"`
	Name          string     `json:"name"`
	Lang          string     `json:"lang"`
	ReleasedAt    string     `json:"releasedAt"`
	ScryfallURI   string     `json:"scryfallUri"`
	Layout        string     `json:"layout"`
	ColorIdentity []string   `json:"colorIdentity"`
	Keywords      []string   `json:"keywords"`
	Set           CardSet    `json:"set"`
	Rarity        string     `json:"rarity"`
	Price         *CardPrice `json:"price"`
}

// cardDocument 拍平后的完整文档形状（反序列化用，faces 指针用于判别变体）
type cardDocument struct {
	cardBase
	ImageURIs          map[string]string `json:"imageUris"`
	ManaCost           string            `json:"manaCost"`
	TypeLine           string            `json:"typeLine"`
	OracleText         string            `json:"oracleText"`
	Power              string            `json:"power"`
	Toughness          string            `json:"toughness"`
	Colors             []string          `json:"colors"`
	IsLegalInCommander bool              `json:"isLegalInCommander"`
	Games              []string          `json:"games"`
	Finishes           []string          `json:"finishes"`
	CollectorNumber    string            `json:"collectorNumber"`
	FlavorText         string            `json:"flavorText"`
	Artist             string            `json:"artist"`
	EdhrecRank         *int              `json:"edhrecRank"`
	EdhrecURI          string            `json:"edhrecUri"`
	ProducedMana       []string          `json:"producedMana"`
	Faces              *[]CardFace       `json:"faces"`
}

// base 提取公共字段
func (c *CanonicalCard) base() cardBase {
	return cardBase{
		ID:            c.ID,
		CardmarketID:  c.CardmarketID,
		Name:          c.Name,
		Lang:          c.Lang,
		ReleasedAt:    c.ReleasedAt,
		ScryfallURI:   c.ScryfallURI,
		Layout:        c.Layout,
		ColorIdentity: c.ColorIdentity,
		Keywords:      c.Keywords,
		Set:           c.Set,
		Rarity:        c.Rarity,
		Price:         c.Price,
	}
}

// MarshalJSON 将变体拍平为存量文档形状（公共字段+变体字段在同一层级）
func (c CanonicalCard) MarshalJSON() ([]byte, error) {
	// 变体不变量：Single/Multi 必须恰好存在一个
	if (c.Single == nil) == (c.Multi == nil) {
		return nil, fmt.Errorf("卡牌%s变体非法: 单面/多面属性必须恰好存在一个", c.ID)
	}

	out := map[string]json.RawMessage{}
	merge := func(v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fields := map[string]json.RawMessage{}
		if err := json.Unmarshal(b, &fields); err != nil {
			return err
		}
		for k, raw := range fields {
			out[k] = raw
		}
		return nil
	}

	if err := merge(c.base()); err != nil {
		return nil, err
	}
	if c.Single != nil {
		if err := merge(c.Single); err != nil {
			return nil, err
		}
	} else {
		if err := merge(c.Multi); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON 从拍平文档还原变体：faces 字段存在即多面卡，否则单面卡
func (c *CanonicalCard) UnmarshalJSON(data []byte) error {
	var doc cardDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	c.ID = doc.ID
	c.CardmarketID = doc.CardmarketID
	c.Name = doc.Name
	c.Lang = doc.Lang
	c.ReleasedAt = doc.ReleasedAt
	c.ScryfallURI = doc.ScryfallURI
	c.Layout = doc.Layout
	c.ColorIdentity = doc.ColorIdentity
	c.Keywords = doc.Keywords
	c.Set = doc.Set
	c.Rarity = doc.Rarity
	c.Price = doc.Price

	if doc.Faces != nil {
		c.Single = nil
		c.Multi = &MultiFaceAttrs{
			TypeLine:     doc.TypeLine,
			ProducedMana: doc.ProducedMana,
			Faces:        *doc.Faces,
		}
		return nil
	}

	c.Multi = nil
	c.Single = &SingleFaceAttrs{
		ImageURIs:          doc.ImageURIs,
		ManaCost:           doc.ManaCost,
		TypeLine:           doc.TypeLine,
		OracleText:         doc.OracleText,
		Power:              doc.Power,
		Toughness:          doc.Toughness,
		Colors:             doc.Colors,
		IsLegalInCommander: doc.IsLegalInCommander,
		Games:              doc.Games,
		Finishes:           doc.Finishes,
		CollectorNumber:    doc.CollectorNumber,
		FlavorText:         doc.FlavorText,
		Artist:             doc.Artist,
		EdhrecRank:         doc.EdhrecRank,
		EdhrecURI:          doc.EdhrecURI,
	}
	return nil
}
