package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/clickonomy/clickonomy-go/internal/dependencies/mocks"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/storage/memory"
	"github.com/clickonomy/clickonomy-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID:       "player-1",
		Username: "alice",
	}))
}

// Ban tests

func (s *ServiceSuite) TestBanPlayerPermanent() {
	err := s.service.BanPlayer(s.ctx, "player-1", model.BanPermanent, "cheating")
	s.Require().NoError(err)

	player, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.BanPermanent, player.BannedUntil)
	s.Equal("cheating", player.BanReason)
}

func (s *ServiceSuite) TestBanPlayerUntilFuture() {
	until := s.clock.Now().Add(time.Hour).UnixMilli()

	err := s.service.BanPlayer(s.ctx, "player-1", until, "spam")
	s.Require().NoError(err)

	player, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal(until, player.BannedUntil)
}

func (s *ServiceSuite) TestBanPlayerRejectsPastExpiry() {
	until := s.clock.Now().Add(-time.Hour).UnixMilli()

	err := s.service.BanPlayer(s.ctx, "player-1", until, "spam")
	s.ErrorIs(err, ErrInvalidBanExpiry)
}

func (s *ServiceSuite) TestBanPlayerRejectsZeroExpiry() {
	err := s.service.BanPlayer(s.ctx, "player-1", 0, "spam")
	s.ErrorIs(err, ErrInvalidBanExpiry)
}

func (s *ServiceSuite) TestBanPlayerNotFound() {
	err := s.service.BanPlayer(s.ctx, "ghost", model.BanPermanent, "spam")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestUnbanPlayer() {
	s.Require().NoError(s.service.BanPlayer(s.ctx, "player-1", model.BanPermanent, "cheating"))

	err := s.service.UnbanPlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	player, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Zero(player.BannedUntil)
	s.Empty(player.BanReason)
}

// Economy config tests

func (s *ServiceSuite) TestUpdateEconomyBumpsVersion() {
	multiplier := 2.0
	cfg, err := s.service.UpdateEconomy(s.ctx, EconomyUpdate{GlobalMultiplier: &multiplier})
	s.Require().NoError(err)
	s.Equal(2.0, cfg.GlobalMultiplier)
	s.Equal(model.DefaultGlobalConfig().Version+1, cfg.Version)

	stored, err := s.storage.GetConfig(s.ctx)
	s.Require().NoError(err)
	s.Equal(2.0, stored.GlobalMultiplier)
}

func (s *ServiceSuite) TestUpdateEconomyLeavesUnsetFields() {
	tax := 0.3
	cfg, err := s.service.UpdateEconomy(s.ctx, EconomyUpdate{TaxRate: &tax})
	s.Require().NoError(err)

	defaults := model.DefaultGlobalConfig()
	s.Equal(0.3, cfg.TaxRate)
	s.Equal(defaults.GlobalMultiplier, cfg.GlobalMultiplier)
	s.Equal(defaults.EnergyCostPerGPU, cfg.EnergyCostPerGPU)
}

// Broadcast tests

func (s *ServiceSuite) TestSetBroadcastBuiltinTrack() {
	cfg, err := s.service.SetBroadcast(s.ctx, "night-drive", true)
	s.Require().NoError(err)
	s.Equal("night-drive", cfg.ActiveTrack)
	s.True(cfg.IsMusicEnabled)
}

func (s *ServiceSuite) TestSetBroadcastUnknownTrack() {
	_, err := s.service.SetBroadcast(s.ctx, "no-such-track", true)
	s.ErrorIs(err, model.ErrTrackNotFound)
}

func (s *ServiceSuite) TestSetBroadcastCustomTrack() {
	track, err := s.service.AddTrack(s.ctx, "Synthwave", "https://cdn.example.com/synthwave.mp3")
	s.Require().NoError(err)

	cfg, err := s.service.SetBroadcast(s.ctx, track.ID, true)
	s.Require().NoError(err)
	s.Equal(track.ID, cfg.ActiveTrack)
}

// Track management tests

func (s *ServiceSuite) TestAddTrackAssignsID() {
	track, err := s.service.AddTrack(s.ctx, "Synthwave", "https://cdn.example.com/synthwave.mp3")
	s.Require().NoError(err)
	s.NotEmpty(track.ID)

	cfg, err := s.storage.GetConfig(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(cfg.CustomTracks, 1)
	s.Equal(track.ID, cfg.CustomTracks[0].ID)
}

func (s *ServiceSuite) TestSetTrackHidden() {
	track, _ := s.service.AddTrack(s.ctx, "Synthwave", "https://cdn.example.com/synthwave.mp3")

	err := s.service.SetTrackHidden(s.ctx, track.ID, true)
	s.Require().NoError(err)

	cfg, _ := s.storage.GetConfig(s.ctx)
	s.True(cfg.CustomTracks[0].Hidden)
}

func (s *ServiceSuite) TestSetTrackHiddenUnknownTrack() {
	err := s.service.SetTrackHidden(s.ctx, "no-such-track", true)
	s.ErrorIs(err, model.ErrTrackNotFound)
}

// IP ban tests

func (s *ServiceSuite) TestBanIP() {
	err := s.service.BanIP(s.ctx, "203.0.113.9")
	s.Require().NoError(err)

	banned, err := s.storage.IsIPBanned(s.ctx, "203.0.113.9")
	s.Require().NoError(err)
	s.True(banned)
}

func (s *ServiceSuite) TestBanIPRejectsMalformed() {
	for _, ip := range []string{"", "not-an-ip", "300.300.300.300"} {
		err := s.service.BanIP(s.ctx, ip)
		s.ErrorIs(err, ErrInvalidIP, "ip %q", ip)
	}
}
