package service

import (
	"context"

	"go.uber.org/mock/gomock"

	"namereg/internal/events"
	"namereg/internal/registrar/service/mocks"
	dErrors "namereg/pkg/domain-errors"
)

func (s *RegistrarSuite) TestSetResolver() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	s.Run("owner binds a capability reference", func() {
		s.Require().NoError(s.service.SetResolver(s.ctxFor("acct-alice"), "alice", "cap-1"))

		rec, err := s.service.GetName(context.Background(), "alice")
		s.Require().NoError(err)
		s.Equal("cap-1", rec.Resolver)

		ev := s.lastEvent(events.KindResolverSet)
		s.Equal("cap-1", ev.Fields["resolver"])
	})

	s.Run("empty reference is rejected", func() {
		err := s.service.SetResolver(s.ctxFor("acct-alice"), "alice", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("non-owner is rejected", func() {
		err := s.service.SetResolver(s.ctxFor("acct-bob"), "alice", "cap-2")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
	})

	s.Run("grace blocks binding", func() {
		err := s.service.SetResolver(s.ctxAt("acct-alice", s.inGrace()), "alice", "cap-2")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameExpired))
	})
}

func (s *RegistrarSuite) TestClearResolver() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")
	s.Require().NoError(s.service.SetResolver(s.ctxFor("acct-alice"), "alice", "cap-1"))

	s.Run("non-owner is rejected", func() {
		err := s.service.ClearResolver(s.ctxFor("acct-bob"), "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
	})

	s.Run("owner may clear even on an expired record", func() {
		// Clearing has no lifecycle guard, unlike SetResolver.
		s.Require().NoError(s.service.ClearResolver(s.ctxAt("acct-alice", s.afterGrace()), "alice"))

		rec, err := s.service.GetName(context.Background(), "alice")
		s.Require().NoError(err)
		s.Empty(rec.Resolver)
	})
}

func (s *RegistrarSuite) TestResolve() {
	ctrl := gomock.NewController(s.T())
	capability := mocks.NewMockResolverCapability(ctrl)
	svc := New(s.store, s.ledger, DefaultConfig(),
		WithEventSink(s.sink),
		WithResolverCapability(capability),
	)

	s.fund("acct-alice")
	_, err := svc.Register(s.ctxFor("acct-alice"), "alice")
	s.Require().NoError(err)
	s.Require().NoError(svc.SetResolver(s.ctxFor("acct-alice"), "alice", "cap-1"))

	s.Run("dispatches to the bound capability", func() {
		capability.EXPECT().
			Resolve(gomock.Any(), "cap-1", "alice", "acct-alice").
			Return([]byte(`{"addr":"0xabc"}`), nil)

		payload, err := svc.Resolve(context.Background(), "alice", "cap-1")
		s.Require().NoError(err)
		s.JSONEq(`{"addr":"0xabc"}`, string(payload))
	})

	s.Run("nil payload means the capability had nothing", func() {
		capability.EXPECT().
			Resolve(gomock.Any(), "cap-1", "alice", "acct-alice").
			Return(nil, nil)

		payload, err := svc.Resolve(context.Background(), "alice", "cap-1")
		s.Require().NoError(err)
		s.Nil(payload)
	})

	s.Run("mismatched reference is rejected", func() {
		_, err := svc.Resolve(context.Background(), "alice", "cap-other")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeResolverInvalid))
	})

	s.Run("dispatch failure is surfaced as a resolver error", func() {
		capability.EXPECT().
			Resolve(gomock.Any(), "cap-1", "alice", "acct-alice").
			Return(nil, dErrors.New(dErrors.CodeInternal, "capability crashed"))

		_, err := svc.Resolve(context.Background(), "alice", "cap-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeResolverInvalid))
	})

	s.Run("no binding rejects any reference", func() {
		s.Require().NoError(svc.ClearResolver(s.ctxFor("acct-alice"), "alice"))
		_, err := svc.Resolve(context.Background(), "alice", "cap-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeResolverInvalid))
	})
}

func (s *RegistrarSuite) TestResolve_NoCapabilityConfigured() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")
	s.Require().NoError(s.service.SetResolver(s.ctxFor("acct-alice"), "alice", "cap-1"))

	_, err := s.service.Resolve(context.Background(), "alice", "cap-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeResolverInvalid))
}
