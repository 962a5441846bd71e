package service

import (
	"context"

	"namereg/internal/events"
	dErrors "namereg/pkg/domain-errors"
)

func (s *RegistrarSuite) TestTransfer_Basic() {
	s.fund("acct-alice")
	reg := s.mustRegister("acct-alice", "alice")

	s.Require().NoError(s.service.Transfer(s.ctxFor("acct-alice"), "alice", "acct-bob"))

	s.Run("ownership moves", func() {
		owner, err := s.service.OwnerOf(context.Background(), "alice")
		s.Require().NoError(err)
		s.Equal("acct-bob", owner)
	})

	s.Run("the id moves between owner-index entries", func() {
		oldIDs, err := s.service.OwnedNameIDs(context.Background(), "acct-alice")
		s.Require().NoError(err)
		s.Empty(oldIDs)

		newIDs, err := s.service.OwnedNameIDs(context.Background(), "acct-bob")
		s.Require().NoError(err)
		s.Equal([]uint64{reg.NameID}, newIDs)
	})

	s.Run("primary name hands over", func() {
		_, ok, err := s.service.PrimaryLabel(context.Background(), "acct-alice")
		s.Require().NoError(err)
		s.False(ok)

		label, ok, err := s.service.PrimaryLabel(context.Background(), "acct-bob")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal("alice", label)
	})

	s.Run("emits a transfer event", func() {
		ev := s.lastEvent(events.KindNameTransferred)
		s.Equal("alice", ev.Label)
		s.Equal("acct-bob", ev.Fields["new_owner"])
	})
}

func (s *RegistrarSuite) TestTransfer_RecipientKeepsExistingPrimary() {
	s.fund("acct-alice")
	s.fund("acct-bob")
	s.mustRegister("acct-alice", "alice")
	s.mustRegister("acct-bob", "bob")

	s.Require().NoError(s.service.Transfer(s.ctxFor("acct-alice"), "alice", "acct-bob"))

	label, ok, err := s.service.PrimaryLabel(context.Background(), "acct-bob")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("bob", label)
}

func (s *RegistrarSuite) TestTransfer_NonPrimaryNameLeavesPrimaryAlone() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")
	s.mustRegister("acct-alice", "wonderland")

	s.Require().NoError(s.service.Transfer(s.ctxFor("acct-alice"), "wonderland", "acct-bob"))

	label, ok, err := s.service.PrimaryLabel(context.Background(), "acct-alice")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("alice", label)
}

func (s *RegistrarSuite) TestTransfer_Rejections() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	s.Run("unknown name", func() {
		err := s.service.Transfer(s.ctxFor("acct-alice"), "ghost", "acct-bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameNotFound))
	})

	s.Run("non-owner cannot transfer", func() {
		err := s.service.Transfer(s.ctxFor("acct-bob"), "alice", "acct-carol")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
	})

	s.Run("transfer to self", func() {
		err := s.service.Transfer(s.ctxFor("acct-alice"), "alice", "acct-alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTransferToSelf))
	})

	s.Run("empty recipient", func() {
		err := s.service.Transfer(s.ctxFor("acct-alice"), "alice", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("grace is a renewal-only lock", func() {
		err := s.service.Transfer(s.ctxAt("acct-alice", s.inGrace()), "alice", "acct-bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameExpired))
	})

	s.Run("missing caller", func() {
		err := s.service.Transfer(context.Background(), "alice", "acct-bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
