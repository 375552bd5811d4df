package promo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/storage/memory"
	"github.com/clickonomy/clickonomy-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
	player  *model.Player
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
	s.player = &model.Player{ID: "player-1", Username: "alice"}
}

func (s *ServiceSuite) seed(code string, maxUses, uses int) {
	s.Require().NoError(s.storage.SavePromoCode(s.ctx, &model.PromoCode{
		Code:    code,
		Reward:  500,
		MaxUses: maxUses,
		Uses:    uses,
	}))
}

// Validate tests

func (s *ServiceSuite) TestValidateUnknownCode() {
	_, err := s.service.Validate(s.ctx, s.player, "NOPE")
	s.ErrorIs(err, model.ErrPromoNotFound)
}

func (s *ServiceSuite) TestValidateSucceeds() {
	s.seed("WELCOME", 10, 0)

	promo, err := s.service.Validate(s.ctx, s.player, "WELCOME")
	s.Require().NoError(err)
	s.Equal(500.0, promo.Reward)
}

func (s *ServiceSuite) TestValidateIsCaseInsensitive() {
	s.seed("WELCOME", 10, 0)

	promo, err := s.service.Validate(s.ctx, s.player, "  welcome ")
	s.Require().NoError(err)
	s.Equal("WELCOME", promo.Code)
}

func (s *ServiceSuite) TestValidateExhaustedCode() {
	s.seed("WELCOME", 2, 2)

	_, err := s.service.Validate(s.ctx, s.player, "WELCOME")
	s.ErrorIs(err, model.ErrPromoExhausted)
}

func (s *ServiceSuite) TestValidateUnlimitedCodeNeverExhausts() {
	s.seed("FOREVER", 0, 10000)

	_, err := s.service.Validate(s.ctx, s.player, "FOREVER")
	s.NoError(err)
}

func (s *ServiceSuite) TestValidateAlreadyRedeemed() {
	s.seed("WELCOME", 10, 1)
	s.player.RedeemedCodes = []string{"WELCOME"}

	_, err := s.service.Validate(s.ctx, s.player, "WELCOME")
	s.ErrorIs(err, model.ErrPromoAlreadyRedeemed)
}

// MarkRedeemed tests

func (s *ServiceSuite) TestMarkRedeemedCountsUse() {
	s.seed("WELCOME", 10, 3)

	err := s.service.MarkRedeemed(s.ctx, "welcome")
	s.Require().NoError(err)

	stored, err := s.storage.GetPromoCode(s.ctx, "WELCOME")
	s.Require().NoError(err)
	s.Equal(4, stored.Uses)
}

func (s *ServiceSuite) TestMarkRedeemedUnknownCode() {
	err := s.service.MarkRedeemed(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrPromoNotFound)
}

// Create tests

func (s *ServiceSuite) TestCreateNormalizesCode() {
	promo, err := s.service.Create(s.ctx, " launch24 ", 250, 5)
	s.Require().NoError(err)
	s.Equal("LAUNCH24", promo.Code)

	stored, err := s.storage.GetPromoCode(s.ctx, "LAUNCH24")
	s.Require().NoError(err)
	s.Equal(250.0, stored.Reward)
}

func (s *ServiceSuite) TestCreateDuplicate() {
	s.seed("WELCOME", 10, 0)

	_, err := s.service.Create(s.ctx, "welcome", 100, 1)
	s.ErrorIs(err, model.ErrPromoExists)
}

func (s *ServiceSuite) TestList() {
	s.seed("ALPHA", 1, 0)
	s.seed("BETA", 1, 0)

	promos, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Len(promos, 2)
}
