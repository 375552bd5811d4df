package model

// SymbolBTC is the investment symbol the GPU farm mines; selling mined
// coins settles at this symbol's current price
const SymbolBTC = "BTC"

// Candle is one OHLC price-history bucket for an investment
type Candle struct {
	Bucket int64 // unix seconds of the bucket start
	Open   float64
	High   float64
	Low    float64
	Close  float64
}

// Investment is one tradable symbol in a player's portfolio. History is
// bounded: the market service evicts the oldest candles past its retention
// limit so the persisted document stays small.
type Investment struct {
	Symbol        string
	Name          string
	BasePrice     float64 // anchor the price walk reverts toward
	CurrentPrice  float64
	ChangePercent float64 // change of CurrentPrice vs the previous market tick
	Owned         float64 // units held
	History       []Candle
}

// DefaultInvestments returns the tradable symbols a new player starts with
func DefaultInvestments() []Investment {
	return []Investment{
		{Symbol: SymbolBTC, Name: "Bitcoin", BasePrice: 42000, CurrentPrice: 42000},
		{Symbol: "ETH", Name: "Ethereum", BasePrice: 2800, CurrentPrice: 2800},
		{Symbol: "MEME", Name: "MemeCoin", BasePrice: 3.5, CurrentPrice: 3.5},
	}
}
