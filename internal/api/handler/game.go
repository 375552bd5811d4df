package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clickonomy/clickonomy-go/internal/api/middleware"
	"github.com/clickonomy/clickonomy-go/internal/api/request"
	"github.com/clickonomy/clickonomy-go/internal/api/response"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/scheduler"
	"github.com/clickonomy/clickonomy-go/internal/services/economy"
	"github.com/clickonomy/clickonomy-go/internal/services/promo"
	"github.com/clickonomy/clickonomy-go/internal/services/settings"
)

// GameHandler handles the simulation state and manual action endpoints
type GameHandler struct {
	manager         *scheduler.Manager
	settingsService *settings.Service
	promoService    *promo.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	manager *scheduler.Manager,
	settingsService *settings.Service,
	promoService *promo.Service,
) *GameHandler {
	return &GameHandler{
		manager:         manager,
		settingsService: settingsService,
		promoService:    promoService,
	}
}

// GetState handles GET /api/v1/state
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	rt, err := ensureRuntime(r.Context(), h.manager, h.settingsService, player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stateFromSnapshot(rt.Snapshot()))
}

// Tap handles POST /api/v1/actions/tap
func (h *GameHandler) Tap(w http.ResponseWriter, r *http.Request) {
	var req request.TapRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 0 {
		WriteError(w, NewInvalidRequestError("count must be positive"))
		return
	}

	h.apply(w, r, func(p *model.Player, cfg *model.GlobalConfig) error {
		p.Balance += economy.TapGain(p, cfg, req.Count)
		return nil
	})
}

// BuyBusiness handles POST /api/v1/actions/businesses/{id}/buy
func (h *GameHandler) BuyBusiness(w http.ResponseWriter, r *http.Request) {
	id := model.BusinessID(mux.Vars(r)["id"])

	h.apply(w, r, func(p *model.Player, _ *model.GlobalConfig) error {
		b := p.GetBusiness(id)
		if b == nil {
			return model.ErrBusinessNotFound
		}
		if b.Owned {
			return model.ErrBusinessOwned
		}
		if p.Balance < b.Cost {
			return model.ErrInsufficientFunds
		}
		p.Balance -= b.Cost
		b.Owned = true
		b.Level = 1
		return nil
	})
}

// UpgradeBusiness handles POST /api/v1/actions/businesses/{id}/upgrade
func (h *GameHandler) UpgradeBusiness(w http.ResponseWriter, r *http.Request) {
	id := model.BusinessID(mux.Vars(r)["id"])

	h.apply(w, r, func(p *model.Player, _ *model.GlobalConfig) error {
		b := p.GetBusiness(id)
		if b == nil {
			return model.ErrBusinessNotFound
		}
		if !b.Owned {
			return model.ErrBusinessNotOwned
		}
		cost := b.UpgradeCost()
		if p.Balance < cost {
			return model.ErrInsufficientFunds
		}
		p.Balance -= cost
		b.Level++
		return nil
	})
}

// BuyGPUs handles POST /api/v1/actions/mining/gpus. Each GPU is priced off
// the farm size at purchase time, so a multi-buy pays the escalating curve.
func (h *GameHandler) BuyGPUs(w http.ResponseWriter, r *http.Request) {
	var req request.BuyGPURequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 0 {
		WriteError(w, NewInvalidRequestError("count must be positive"))
		return
	}

	h.apply(w, r, func(p *model.Player, _ *model.GlobalConfig) error {
		for i := 0; i < req.Count; i++ {
			cost := p.MiningFarm.NextGPUCost()
			if p.Balance < cost {
				return model.ErrInsufficientFunds
			}
			p.Balance -= cost
			p.MiningFarm.GPUCount++
		}
		return nil
	})
}

// UpgradeMining handles POST /api/v1/actions/mining/upgrade
func (h *GameHandler) UpgradeMining(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(p *model.Player, _ *model.GlobalConfig) error {
		farm := &p.MiningFarm
		if farm.GPUCount <= 0 {
			return model.ErrNoGPUs
		}
		cost := farm.UpgradeCost()
		if p.Balance < cost {
			return model.ErrInsufficientFunds
		}
		p.Balance -= cost
		if farm.GPULevel < 1 {
			farm.GPULevel = 1
		}
		farm.GPULevel++
		return nil
	})
}

// SellBTC handles POST /api/v1/actions/mining/sell. An omitted amount sells
// the whole mined balance at the BTC market price.
func (h *GameHandler) SellBTC(w http.ResponseWriter, r *http.Request) {
	var req request.SellBTCRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Amount < 0 {
		WriteError(w, NewInvalidRequestError("amount must be positive"))
		return
	}

	h.apply(w, r, func(p *model.Player, _ *model.GlobalConfig) error {
		amount := req.Amount
		if amount == 0 {
			amount = p.MiningFarm.BTCBalance
		}
		if amount <= 0 || amount > p.MiningFarm.BTCBalance {
			return model.ErrInsufficientHoldings
		}
		btc := p.GetInvestment(model.SymbolBTC)
		if btc == nil {
			return model.ErrInvestmentNotFound
		}
		p.MiningFarm.BTCBalance -= amount
		p.Balance += economy.ClampDelta(amount * btc.CurrentPrice)
		return nil
	})
}

// BuyInvestment handles POST /api/v1/actions/investments/{symbol}/buy. The
// amount is currency spent; units bought follow from the current price.
func (h *GameHandler) BuyInvestment(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req request.InvestBuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Amount <= 0 {
		WriteError(w, NewInvalidRequestError("amount must be positive"))
		return
	}

	h.apply(w, r, func(p *model.Player, _ *model.GlobalConfig) error {
		inv := p.GetInvestment(symbol)
		if inv == nil {
			return model.ErrInvestmentNotFound
		}
		if p.Balance < req.Amount {
			return model.ErrInsufficientFunds
		}
		p.Balance -= req.Amount
		inv.Owned += req.Amount / inv.CurrentPrice
		return nil
	})
}

// SellInvestment handles POST /api/v1/actions/investments/{symbol}/sell
func (h *GameHandler) SellInvestment(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req request.InvestSellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Units <= 0 {
		WriteError(w, NewInvalidRequestError("units must be positive"))
		return
	}

	h.apply(w, r, func(p *model.Player, _ *model.GlobalConfig) error {
		inv := p.GetInvestment(symbol)
		if inv == nil {
			return model.ErrInvestmentNotFound
		}
		if inv.Owned < req.Units {
			return model.ErrInsufficientHoldings
		}
		inv.Owned -= req.Units
		p.Balance += economy.ClampDelta(req.Units * inv.CurrentPrice)
		return nil
	})
}

// Redeem handles POST /api/v1/actions/promo. Validation happens up front;
// the credit itself goes through the runtime so it obeys the same
// single-writer rule as every other mutation.
func (h *GameHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Code == "" {
		WriteError(w, NewInvalidRequestError("code is required"))
		return
	}

	promoCode, err := h.promoService.Validate(r.Context(), player, req.Code)
	if err != nil {
		WriteError(w, err)
		return
	}

	rt, err := ensureRuntime(r.Context(), h.manager, h.settingsService, player)
	if err != nil {
		WriteError(w, err)
		return
	}

	err = rt.Apply(r.Context(), func(p *model.Player, _ *model.GlobalConfig) error {
		if p.HasRedeemed(promoCode.Code) {
			return model.ErrPromoAlreadyRedeemed
		}
		p.Balance += promoCode.Reward
		p.RedeemedCodes = append(p.RedeemedCodes, promoCode.Code)
		return nil
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.promoService.MarkRedeemed(r.Context(), promoCode.Code); err != nil {
		WriteError(w, err)
		return
	}

	snap := rt.Snapshot()
	response.JSON(w, http.StatusOK, response.RedeemResult{
		Code:   promoCode.Code,
		Reward: promoCode.Reward,
		Player: response.PlayerFromModel(&snap.Player),
	})
}

// apply runs an action through the player's runtime and responds with the
// updated player
func (h *GameHandler) apply(w http.ResponseWriter, r *http.Request, action func(*model.Player, *model.GlobalConfig) error) {
	player := middleware.MustGetPlayer(r.Context())

	rt, err := ensureRuntime(r.Context(), h.manager, h.settingsService, player)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := rt.Apply(r.Context(), action); err != nil {
		WriteError(w, err)
		return
	}

	snap := rt.Snapshot()
	response.JSON(w, http.StatusOK, response.ActionResult{
		Player: response.PlayerFromModel(&snap.Player),
	})
}

// ensureRuntime resolves the player's live runtime, starting one when none is
// running. This makes sessions transparent to server restarts: the first
// authenticated request brings the tick loop back.
func ensureRuntime(
	ctx context.Context,
	manager *scheduler.Manager,
	settingsService *settings.Service,
	player *model.Player,
) (*scheduler.Runtime, error) {
	if rt, ok := manager.Get(player.ID); ok && !rt.Stopped() {
		return rt, nil
	}

	playerSettings, err := settingsService.Get(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	return manager.StartSession(ctx, player, *playerSettings)
}

// stateFromSnapshot converts a runtime snapshot to the wire shape
func stateFromSnapshot(snap scheduler.Snapshot) response.State {
	return response.State{
		Player:   response.PlayerFromModel(&snap.Player),
		Config:   response.ConfigFromModel(&snap.Config),
		Settings: response.SettingsFromModel(snap.Settings),
		Tick:     snap.Tick,
		Frozen:   snap.Frozen,
	}
}

// decodeOptional decodes a request body, tolerating an empty one so actions
// with all-default fields can be posted bare
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}
