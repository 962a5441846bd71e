package service

import (
	"context"

	"go.uber.org/mock/gomock"

	"namereg/internal/registrar/service/mocks"
	dErrors "namereg/pkg/domain-errors"
)

func (s *RegistrarSuite) TestIsAvailable() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	s.Run("never registered", func() {
		available, err := s.service.IsAvailable(s.ctxFor("acct-bob"), "bob")
		s.Require().NoError(err)
		s.True(available)
	})

	s.Run("active name is unavailable", func() {
		available, err := s.service.IsAvailable(s.ctxFor("acct-bob"), "alice")
		s.Require().NoError(err)
		s.False(available)
	})

	s.Run("grace keeps the name unavailable", func() {
		available, err := s.service.IsAvailable(s.ctxAt("acct-bob", s.inGrace()), "alice")
		s.Require().NoError(err)
		s.False(available)
	})

	s.Run("fully expired frees the name", func() {
		available, err := s.service.IsAvailable(s.ctxAt("acct-bob", s.afterGrace()), "alice")
		s.Require().NoError(err)
		s.True(available)
	})

	s.Run("malformed label is rejected", func() {
		_, err := s.service.IsAvailable(s.ctxFor("acct-bob"), "a.b.c")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidLabel))
	})
}

func (s *RegistrarSuite) TestInGracePeriod() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	grace, err := s.service.InGracePeriod(s.ctxFor("acct-alice"), "alice")
	s.Require().NoError(err)
	s.False(grace)

	grace, err = s.service.InGracePeriod(s.ctxAt("acct-alice", s.inGrace()), "alice")
	s.Require().NoError(err)
	s.True(grace)

	grace, err = s.service.InGracePeriod(s.ctxAt("acct-alice", s.afterGrace()), "alice")
	s.Require().NoError(err)
	s.False(grace)
}

func (s *RegistrarSuite) TestQuotes() {
	ctx := context.Background()

	s.Run("standard registration quote", func() {
		fee, premium, err := s.service.QuoteRegistrationFee(ctx, "alice")
		s.Require().NoError(err)
		s.False(premium)
		s.Equal(uint64(10_000_000), fee)
	})

	s.Run("premium registration quote", func() {
		fee, premium, err := s.service.QuoteRegistrationFee(ctx, "ab")
		s.Require().NoError(err)
		s.True(premium)
		s.Equal(uint64(50_000_000), fee)
	})

	s.Run("renewal quote is flat", func() {
		fee, err := s.service.QuoteRenewalFee(ctx)
		s.Require().NoError(err)
		s.Equal(uint64(5_000_000), fee)
	})

	s.Run("quotes need no registration", func() {
		available, err := s.service.IsAvailable(s.ctxFor("acct-x"), "alice")
		s.Require().NoError(err)
		s.True(available)
	})
}

func (s *RegistrarSuite) TestTotalFeesCollectedScenario() {
	// One standard and one premium registration: 10M + 50M.
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")
	s.mustRegister("acct-alice", "abcd")

	total, err := s.service.TotalFeesCollected(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(60_000_000), total)

	names, err := s.service.TotalNames(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(2), names)
}

func (s *RegistrarSuite) TestLabelByID() {
	s.fund("acct-alice")
	reg := s.mustRegister("acct-alice", "alice")

	label, err := s.service.LabelByID(context.Background(), reg.NameID)
	s.Require().NoError(err)
	s.Equal("alice", label)

	_, err = s.service.LabelByID(context.Background(), 999)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNameNotFound))
}

func (s *RegistrarSuite) TestExpiryOf() {
	s.fund("acct-alice")
	reg := s.mustRegister("acct-alice", "alice")

	expiry, err := s.service.ExpiryOf(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal(reg.ExpiryAt, expiry)
}

func (s *RegistrarSuite) TestDisplayName_CacheFlow() {
	ctrl := gomock.NewController(s.T())
	cache := mocks.NewMockDisplayCache(ctrl)
	svc := New(s.store, s.ledger, DefaultConfig(),
		WithEventSink(s.sink),
		WithDisplayCache(cache),
	)

	s.fund("acct-alice")

	s.Run("miss computes and fills the cache", func() {
		cache.EXPECT().GetDisplayName(gomock.Any(), "acct-alice").Return("", nil)
		cache.EXPECT().SetDisplayName(gomock.Any(), "acct-alice", "acct-alice").Return(nil)

		display, err := svc.DisplayName(context.Background(), "acct-alice")
		s.Require().NoError(err)
		s.Equal("acct-alice", display)
	})

	s.Run("hit skips the computation", func() {
		cache.EXPECT().GetDisplayName(gomock.Any(), "acct-alice").Return("alice.ledger", nil)

		display, err := svc.DisplayName(context.Background(), "acct-alice")
		s.Require().NoError(err)
		s.Equal("alice.ledger", display)
	})

	s.Run("mutations invalidate the entry", func() {
		cache.EXPECT().Invalidate(gomock.Any(), "acct-alice").Return(nil).AnyTimes()

		_, err := svc.Register(s.ctxFor("acct-alice"), "alice")
		s.Require().NoError(err)
	})
}
