package sse

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/clickonomy/clickonomy-go/internal/api/response"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/scheduler"
	"github.com/clickonomy/clickonomy-go/internal/services/audio"
)

// Event names pushed on the stream
const (
	EventSnapshot = "snapshot"
	EventBanned   = "banned"
	EventConfig   = "config"
	EventAudio    = "audio"
)

type snapshotPayload struct {
	Player response.Player `json:"player"`
	Tick   int64           `json:"tick"`
}

type bannedPayload struct {
	Reason      string `json:"reason"`
	BannedUntil int64  `json:"banned_until"`
}

type audioPayload struct {
	URL     string  `json:"url"`
	Volume  float64 `json:"volume"`
	Playing bool    `json:"playing"`
}

// Gateway fans scheduler events out to each player's SSE hub. It also keeps
// the last audio directive per player so a stream that connects mid-session
// can be brought up to date.
type Gateway struct {
	hubs   *HubManager
	logger *slog.Logger

	mu    sync.Mutex
	audio map[model.PlayerID]*audioPayload
}

var _ scheduler.Events = (*Gateway)(nil)

// NewGateway creates a new Gateway over the given hub manager
func NewGateway(hubs *HubManager, logger *slog.Logger) *Gateway {
	return &Gateway{
		hubs:   hubs,
		logger: logger.With(slog.String("component", "sse_gateway")),
		audio:  make(map[model.PlayerID]*audioPayload),
	}
}

// Hubs returns the underlying hub manager
func (g *Gateway) Hubs() *HubManager {
	return g.hubs
}

// PublishSnapshot pushes a numbered player snapshot to the player's clients
func (g *Gateway) PublishSnapshot(id model.PlayerID, player *model.Player, tick int64) {
	g.send(id, EventSnapshot, snapshotPayload{
		Player: response.PlayerFromModel(player),
		Tick:   tick,
	})
}

// PublishBanned pushes a ban notice to the player's clients
func (g *Gateway) PublishBanned(id model.PlayerID, reason string, until int64) {
	g.send(id, EventBanned, bannedPayload{
		Reason:      reason,
		BannedUntil: until,
	})
}

// PublishConfig pushes the global config to the player's clients
func (g *Gateway) PublishConfig(id model.PlayerID, cfg *model.GlobalConfig) {
	g.send(id, EventConfig, response.ConfigFromModel(cfg))
}

// AudioController returns the playback controller for the player's clients.
// Directives both broadcast an audio event and update the remembered state.
func (g *Gateway) AudioController(id model.PlayerID) audio.Controller {
	return &playerAudio{gateway: g, playerID: id}
}

// SnapshotMessage formats a snapshot event for a freshly connected stream
func (g *Gateway) SnapshotMessage(player *model.Player, tick int64) []byte {
	return g.format(EventSnapshot, snapshotPayload{
		Player: response.PlayerFromModel(player),
		Tick:   tick,
	})
}

// ConfigMessage formats a config event for a freshly connected stream
func (g *Gateway) ConfigMessage(cfg *model.GlobalConfig) []byte {
	return g.format(EventConfig, response.ConfigFromModel(cfg))
}

// BannedMessage formats a ban notice for a freshly connected stream
func (g *Gateway) BannedMessage(reason string, until int64) []byte {
	return g.format(EventBanned, bannedPayload{
		Reason:      reason,
		BannedUntil: until,
	})
}

// AudioReplay formats the player's last audio directive, or nil when no
// directive has been issued yet
func (g *Gateway) AudioReplay(id model.PlayerID) []byte {
	g.mu.Lock()
	state, ok := g.audio[id]
	if !ok {
		g.mu.Unlock()
		return nil
	}
	payload := *state
	g.mu.Unlock()
	return g.format(EventAudio, payload)
}

// DropPlayer discards the player's hub and remembered audio state; called on
// logout so state doesn't accumulate for departed players
func (g *Gateway) DropPlayer(id model.PlayerID) {
	g.mu.Lock()
	delete(g.audio, id)
	g.mu.Unlock()
	g.hubs.RemoveHub(id)
}

// updateAudio mutates the remembered audio state and broadcasts the result
func (g *Gateway) updateAudio(id model.PlayerID, mutate func(*audioPayload)) {
	g.mu.Lock()
	state, ok := g.audio[id]
	if !ok {
		state = &audioPayload{}
		g.audio[id] = state
	}
	mutate(state)
	payload := *state
	g.mu.Unlock()

	g.send(id, EventAudio, payload)
}

// send broadcasts an event to the player's hub if one exists
func (g *Gateway) send(id model.PlayerID, eventName string, payload any) {
	hub := g.hubs.GetHub(id)
	if hub == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		g.logger.Error("event marshal failed",
			slog.String("event", eventName),
			slog.String("error", err.Error()),
		)
		return
	}
	hub.BroadcastEvent(eventName, string(data))
}

// format renders an event as a wire-ready SSE message
func (g *Gateway) format(eventName string, payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		g.logger.Error("event marshal failed",
			slog.String("event", eventName),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return formatSSEMessage(eventName, string(data))
}

// playerAudio adapts the gateway into the reconciler's controller interface
// for one player
type playerAudio struct {
	gateway  *Gateway
	playerID model.PlayerID
}

func (a *playerAudio) SetSource(url string) error {
	a.gateway.updateAudio(a.playerID, func(st *audioPayload) { st.URL = url })
	return nil
}

func (a *playerAudio) SetVolume(volume float64) {
	a.gateway.updateAudio(a.playerID, func(st *audioPayload) { st.Volume = volume })
}

func (a *playerAudio) SetShouldPlay(play bool) {
	a.gateway.updateAudio(a.playerID, func(st *audioPayload) { st.Playing = play })
}

var _ audio.Controller = (*playerAudio)(nil)
