package service

import (
	"context"

	"namereg/internal/events"
	dErrors "namereg/pkg/domain-errors"
)

func (s *RegistrarSuite) TestRenew_BanksRemainingTime() {
	s.fund("acct-alice")
	reg := s.mustRegister("acct-alice", "alice")

	// Renew halfway through the period: the new expiry extends from the
	// previous expiry, not from now.
	halfway := s.now.Add(DefaultConfig().RegistrationPeriod / 2)
	res, err := s.service.Renew(s.ctxAt("acct-alice", halfway), "alice")
	s.Require().NoError(err)
	s.Equal(reg.ExpiryAt.Add(DefaultConfig().RegistrationPeriod), res.NewExpiryAt)
	s.Equal(uint64(5_000_000), res.FeePaid)

	s.Run("accrues the renewal fee", func() {
		total, err := s.service.TotalFeesCollected(context.Background())
		s.Require().NoError(err)
		s.Equal(uint64(15_000_000), total)
	})

	s.Run("emits a renewal event", func() {
		ev := s.lastEvent(events.KindNameRenewed)
		s.Equal("alice", ev.Label)
		s.Equal("5000000", ev.Fields["fee_paid"])
		s.NotEmpty(ev.Fields["new_expiry_at"])
	})
}

func (s *RegistrarSuite) TestRenew_GiftRenewalWhileActive() {
	s.fund("acct-alice")
	reg := s.mustRegister("acct-alice", "alice")

	// Anyone may renew an active name; the caller pays.
	s.fund("acct-bob")
	res, err := s.service.Renew(s.ctxFor("acct-bob"), "alice")
	s.Require().NoError(err)
	s.Equal(reg.ExpiryAt.Add(DefaultConfig().RegistrationPeriod), res.NewExpiryAt)
	s.Equal(testFunding-5_000_000, s.ledger.BalanceOf("acct-bob"))

	owner, err := s.service.OwnerOf(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal("acct-alice", owner)
}

func (s *RegistrarSuite) TestRenew_GraceWindow() {
	s.fund("acct-alice")
	reg := s.mustRegister("acct-alice", "alice")
	during := s.inGrace()

	s.Run("only the owner may renew in grace", func() {
		s.fund("acct-bob")
		_, err := s.service.Renew(s.ctxAt("acct-bob", during), "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInGracePeriod))
	})

	s.Run("owner renewal extends from the lapsed expiry", func() {
		res, err := s.service.Renew(s.ctxAt("acct-alice", during), "alice")
		s.Require().NoError(err)
		s.Equal(reg.ExpiryAt.Add(DefaultConfig().RegistrationPeriod), res.NewExpiryAt)
	})
}

func (s *RegistrarSuite) TestRenew_Rejections() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	s.Run("fully expired name cannot be renewed", func() {
		_, err := s.service.Renew(s.ctxAt("acct-alice", s.afterGrace()), "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameExpired))
	})

	s.Run("unknown name", func() {
		_, err := s.service.Renew(s.ctxFor("acct-alice"), "ghost")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameNotFound))
	})

	s.Run("missing caller", func() {
		_, err := s.service.Renew(context.Background(), "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unfunded payer", func() {
		_, err := s.service.Renew(s.ctxFor("acct-poor"), "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodePaymentFailed))
	})
}
