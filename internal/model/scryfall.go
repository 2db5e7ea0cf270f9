package model

// BulkDataItem Scryfall 批量数据清单中的一条记录（下载地址每次发布都会轮换）
type BulkDataItem struct {
	Type        string `json:"type"`         // 数据集类型（unique_artwork/default_cards等）
	Name        string `json:"name"`         // 数据集名称
	Size        int64  `json:"size"`         // 文件大小（字节）
	UpdatedAt   string `json:"updated_at"`   // 最后更新时间
	DownloadURI string `json:"download_uri"` // 实际下载地址（由平台生成，不可硬编码）
}

// BulkDataResponse 批量数据清单接口返回
type BulkDataResponse struct {
	Data []BulkDataItem `json:"data"`
}

// RawCardFace 原始卡面数据（双面/多面卡的单个面）
type RawCardFace struct {
	Name       string            `json:"name"`
	ManaCost   string            `json:"mana_cost"`
	TypeLine   string            `json:"type_line"`
	OracleText string            `json:"oracle_text"`
	Power      string            `json:"power"`
	Toughness  string            `json:"toughness"`
	Colors     []string          `json:"colors"`
	ImageURIs  map[string]string `json:"image_uris"`
}

// RawCardRecord Scryfall 原始卡牌记录（snake_case，仅声明需要读取的白名单字段，其余字段解析时丢弃）
type RawCardRecord struct {
	ID              string            `json:"id"`            // Scryfall 全局唯一ID
	CardmarketID    *int64            `json:"cardmarket_id"` // CardMarket 交叉引用ID（可空）
	Name            string            `json:"name"`
	Lang            string            `json:"lang"`
	ReleasedAt      string            `json:"released_at"`
	ScryfallURI     string            `json:"scryfall_uri"`
	Layout          string            `json:"layout"`
	ColorIdentity   []string          `json:"color_identity"`
	Keywords        []string          `json:"keywords"`
	SetID           string            `json:"set_id"`
	Set             string            `json:"set"`
	SetName         string            `json:"set_name"`
	SetType         string            `json:"set_type"` // 用于过滤 memorabilia/token 等非对局卡
	Rarity          string            `json:"rarity"`
	ImageURIs       map[string]string `json:"image_uris"`
	ManaCost        string            `json:"mana_cost"`
	TypeLine        string            `json:"type_line"`
	OracleText      string            `json:"oracle_text"`
	Power           string            `json:"power"`
	Toughness       string            `json:"toughness"`
	Colors          []string          `json:"colors"`
	Legalities      map[string]string `json:"legalities"`
	Games           []string          `json:"games"`
	Finishes        []string          `json:"finishes"`
	CollectorNumber string            `json:"collector_number"`
	FlavorText      string            `json:"flavor_text"`
	Artist          string            `json:"artist"`
	EdhrecRank      *int              `json:"edhrec_rank"`
	RelatedURIs     map[string]string `json:"related_uris"`
	ProducedMana    []string          `json:"produced_mana"`
	CardFaces       []RawCardFace     `json:"card_faces"` // 存在即为多面卡
}
