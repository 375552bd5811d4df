package testutil

import (
	"time"

	"github.com/clickonomy/clickonomy-go/internal/model"
)

// FixtureTime is the creation timestamp all fixtures share. It matches the
// epoch the mock clock starts at.
var FixtureTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// NewTestPlayer returns a player in the fresh-account shape: starting
// balance, full unowned catalog, default investments.
func NewTestPlayer(id model.PlayerID) *model.Player {
	return &model.Player{
		ID:          id,
		Username:    string(id),
		Balance:     100,
		MaxMoney:    100,
		TapPower:    1,
		Businesses:  model.DefaultBusinesses(),
		Investments: model.DefaultInvestments(),
		CreatedAt:   FixtureTime,
		UpdatedAt:   FixtureTime,
	}
}

// NewMidgamePlayer returns a player with every optional field populated:
// owned businesses, a running mining farm, investment holdings with price
// history, a redeemed code. Use it where a round trip must preserve the
// whole document.
func NewMidgamePlayer(id model.PlayerID) *model.Player {
	p := NewTestPlayer(id)
	p.Balance = 48210.75
	p.MaxMoney = 61000
	p.TapPower = 4
	p.Playtime = 86400

	p.Businesses[0].Owned = true
	p.Businesses[0].Level = 12
	p.Businesses[1].Owned = true
	p.Businesses[1].Level = 3

	p.MiningFarm = model.MiningFarm{
		GPUCount:   6,
		GPULevel:   2,
		BTCBalance: 0.0315,
		EnergyDebt: 12.6,
	}

	p.Investments[0].Owned = 0.5
	p.Investments[0].CurrentPrice = 43120
	p.Investments[0].ChangePercent = 2.67
	p.Investments[0].History = []model.Candle{
		{Bucket: FixtureTime.Unix(), Open: 42000, High: 43200, Low: 41900, Close: 43120},
	}

	p.RedeemedCodes = []string{"LAUNCH50"}

	return p
}
