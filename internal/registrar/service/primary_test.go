package service

import (
	"context"

	dErrors "namereg/pkg/domain-errors"
)

func (s *RegistrarSuite) TestSetPrimaryName() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")
	s.mustRegister("acct-alice", "wonderland")

	s.Run("owner repoints the primary", func() {
		s.Require().NoError(s.service.SetPrimaryName(s.ctxFor("acct-alice"), "wonderland"))

		label, ok, err := s.service.PrimaryLabel(context.Background(), "acct-alice")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal("wonderland", label)
	})

	s.Run("non-owner is rejected", func() {
		err := s.service.SetPrimaryName(s.ctxFor("acct-bob"), "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotNameOwner))
	})

	s.Run("expired name is rejected", func() {
		err := s.service.SetPrimaryName(s.ctxAt("acct-alice", s.inGrace()), "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameExpired))
	})

	s.Run("unknown name", func() {
		err := s.service.SetPrimaryName(s.ctxFor("acct-alice"), "ghost")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameNotFound))
	})
}

func (s *RegistrarSuite) TestClearPrimaryName() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	s.Require().NoError(s.service.ClearPrimaryName(s.ctxFor("acct-alice")))

	_, ok, err := s.service.PrimaryLabel(context.Background(), "acct-alice")
	s.Require().NoError(err)
	s.False(ok)

	// Clearing is unconditional: a second clear, or a clear with nothing
	// set, succeeds too.
	s.Require().NoError(s.service.ClearPrimaryName(s.ctxFor("acct-alice")))
	s.Require().NoError(s.service.ClearPrimaryName(s.ctxFor("acct-nobody")))
}

func (s *RegistrarSuite) TestDisplayName() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	s.Run("renders the primary full name", func() {
		display, err := s.service.DisplayName(context.Background(), "acct-alice")
		s.Require().NoError(err)
		s.Equal("alice.ledger", display)
	})

	s.Run("falls back to the account identifier", func() {
		display, err := s.service.DisplayName(context.Background(), "acct-unknown")
		s.Require().NoError(err)
		s.Equal("acct-unknown", display)
	})

	s.Run("clearing the primary reverts to the fallback", func() {
		s.Require().NoError(s.service.ClearPrimaryName(s.ctxFor("acct-alice")))
		display, err := s.service.DisplayName(context.Background(), "acct-alice")
		s.Require().NoError(err)
		s.Equal("acct-alice", display)
	})
}
