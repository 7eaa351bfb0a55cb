package domain

// CoinMetadata describes a coin known to the client.
// Immutable once loaded; identity is the symbol.
type CoinMetadata struct {
	Symbol   string `yaml:"symbol" json:"symbol"`
	Type     string `yaml:"type" json:"type"`         // Fully qualified chain type tag, e.g. "0x2::sui::SUI"
	Decimals int32  `yaml:"decimals" json:"decimals"` // Human decimal places
}

// Scalar returns the multiplier between one human unit and chain base units (10^Decimals).
func (c CoinMetadata) Scalar() uint64 {
	s := uint64(1)
	for i := int32(0); i < c.Decimals; i++ {
		s *= 10
	}
	return s
}

// PoolMetadata describes a trading pool.
// Immutable once loaded; a registry refresh replaces the whole entry.
// TickSize, LotSize and MinSize are in chain base units.
type PoolMetadata struct {
	Pair      string `yaml:"pair" json:"pair"` // e.g. "SUI_USDC"
	PoolID    string `yaml:"pool_id" json:"pool_id"`
	BaseCoin  string `yaml:"base_coin" json:"base_coin"`
	QuoteCoin string `yaml:"quote_coin" json:"quote_coin"`
	TickSize  uint64 `yaml:"tick_size" json:"tick_size"`
	LotSize   uint64 `yaml:"lot_size" json:"lot_size"`
	MinSize   uint64 `yaml:"min_size" json:"min_size"`
}
