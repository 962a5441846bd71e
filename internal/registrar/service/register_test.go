package service

import (
	"context"

	"go.uber.org/mock/gomock"

	"namereg/internal/events"
	"namereg/internal/registrar/service/mocks"
	dErrors "namereg/pkg/domain-errors"
)

func (s *RegistrarSuite) TestRegister_Basic() {
	s.fund("acct-alice")
	res, err := s.service.Register(s.ctxFor("acct-alice"), "alice")
	s.Require().NoError(err)

	s.Run("issues id one and renders the full name", func() {
		s.Equal(uint64(1), res.NameID)
		s.Equal("alice.ledger", res.FullName)
		s.Equal(s.now.Add(DefaultConfig().RegistrationPeriod), res.ExpiryAt)
		s.Equal(uint64(10_000_000), res.FeePaid)
	})

	s.Run("distributes the fee at the configured split", func() {
		s.Equal(uint64(2_000_000), s.ledger.BalanceOf(testTreasury))
		s.Equal(uint64(8_000_000), s.ledger.BalanceOf(testFeeRecipient))
		s.Equal(testFunding-10_000_000, s.ledger.BalanceOf("acct-alice"))
	})

	s.Run("accrues the running total", func() {
		total, err := s.service.TotalFeesCollected(s.ctxFor("acct-alice"))
		s.Require().NoError(err)
		s.Equal(uint64(10_000_000), total)
	})

	s.Run("first name becomes the primary name", func() {
		label, ok, err := s.service.PrimaryLabel(context.Background(), "acct-alice")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal("alice", label)
	})

	s.Run("emits a registration event", func() {
		ev := s.lastEvent(events.KindNameRegistered)
		s.Equal("alice", ev.Label)
		s.Equal("acct-alice", ev.Account)
		s.Equal("1", ev.Fields["name_id"])
		s.Equal("10000000", ev.Fields["fee_paid"])
	})
}

func (s *RegistrarSuite) TestRegister_PremiumPricing() {
	s.fund("acct-alice")

	s.Run("short label pays the multiplied fee", func() {
		res, err := s.service.Register(s.ctxFor("acct-alice"), "abcd")
		s.Require().NoError(err)
		s.Equal(uint64(50_000_000), res.FeePaid)
	})

	s.Run("admin override downgrades a short label", func() {
		s.Require().NoError(s.store.SetPremiumOverride(context.Background(), "xyz", false))
		res, err := s.service.Register(s.ctxFor("acct-alice"), "xyz")
		s.Require().NoError(err)
		s.Equal(uint64(10_000_000), res.FeePaid)
	})

	s.Run("admin override upgrades a long label", func() {
		s.Require().NoError(s.store.SetPremiumOverride(context.Background(), "longname", true))
		res, err := s.service.Register(s.ctxFor("acct-alice"), "longname")
		s.Require().NoError(err)
		s.Equal(uint64(50_000_000), res.FeePaid)
	})
}

func (s *RegistrarSuite) TestRegister_Rejections() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	s.Run("missing caller", func() {
		_, err := s.service.Register(context.Background(), "bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("empty label", func() {
		_, err := s.service.Register(s.ctxFor("acct-alice"), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeEmptyLabel))
	})

	s.Run("malformed label", func() {
		_, err := s.service.Register(s.ctxFor("acct-alice"), "a.b.c")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidLabel))
	})

	s.Run("taken while active", func() {
		s.fund("acct-bob")
		_, err := s.service.Register(s.ctxFor("acct-bob"), "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameTaken))
	})

	s.Run("taken while in grace", func() {
		s.fund("acct-bob")
		_, err := s.service.Register(s.ctxAt("acct-bob", s.inGrace()), "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameTaken))
	})
}

func (s *RegistrarSuite) TestRegister_PaymentFailureLeavesNoTrace() {
	// No funding: the fee transfer fails and nothing may have mutated.
	_, err := s.service.Register(s.ctxFor("acct-poor"), "alice")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodePaymentFailed))

	available, err := s.service.IsAvailable(s.ctxFor("acct-poor"), "alice")
	s.Require().NoError(err)
	s.True(available)

	total, err := s.service.TotalNames(context.Background())
	s.Require().NoError(err)
	s.Zero(total)

	s.Empty(s.sink.Events())
}

func (s *RegistrarSuite) TestRegister_PartialPaymentAborts() {
	// First transfer succeeds, second fails: the operation must abort before
	// any registry mutation and send the protocol share back to the payer.
	ctrl := gomock.NewController(s.T())
	transfer := mocks.NewMockValueTransfer(ctrl)
	svc := New(s.store, transfer, DefaultConfig(), WithEventSink(s.sink))

	gomock.InOrder(
		transfer.EXPECT().Transfer(gomock.Any(), "acct-alice", testTreasury, uint64(2_000_000)).Return(nil),
		transfer.EXPECT().Transfer(gomock.Any(), "acct-alice", testFeeRecipient, uint64(8_000_000)).
			Return(dErrors.New(dErrors.CodeInternal, "ledger unavailable")),
		transfer.EXPECT().Transfer(gomock.Any(), testTreasury, "acct-alice", uint64(2_000_000)).Return(nil),
	)

	_, err := svc.Register(s.ctxFor("acct-alice"), "alice")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodePaymentFailed))

	total, err := s.service.TotalNames(context.Background())
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *RegistrarSuite) TestRegister_PartialPaymentLeavesPayerWhole() {
	// The caller can cover the 2M protocol share but not the 8M recipient
	// share: the second leg fails against the real ledger and the first leg
	// comes back, leaving the balance untouched.
	s.ledger.Credit("acct-poor", 5_000_000)

	_, err := s.service.Register(s.ctxFor("acct-poor"), "alice")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodePaymentFailed))

	s.Equal(uint64(5_000_000), s.ledger.BalanceOf("acct-poor"))
	s.Zero(s.ledger.BalanceOf(testTreasury))

	available, err := s.service.IsAvailable(s.ctxFor("acct-poor"), "alice")
	s.Require().NoError(err)
	s.True(available)
}

func (s *RegistrarSuite) TestRegister_LostRaceRefundsFee() {
	// A rival completes the same registration while the first caller is
	// still inside the fee transfer. The commit must refuse the stale
	// mutation, the loser gets the full fee back, and the rival's record
	// and indexes stay untouched.
	ctrl := gomock.NewController(s.T())
	transfer := mocks.NewMockValueTransfer(ctrl)
	svc := New(s.store, transfer, DefaultConfig(), WithEventSink(s.sink))

	rival := New(s.store, s.ledger, DefaultConfig(), WithEventSink(s.sink))
	s.fund("acct-rival")

	gomock.InOrder(
		transfer.EXPECT().Transfer(gomock.Any(), "acct-slow", testTreasury, uint64(2_000_000)).
			DoAndReturn(func(ctx context.Context, from, to string, amount uint64) error {
				_, err := rival.Register(s.ctxFor("acct-rival"), "alice")
				s.Require().NoError(err)
				return nil
			}),
		transfer.EXPECT().Transfer(gomock.Any(), "acct-slow", testFeeRecipient, uint64(8_000_000)).Return(nil),
		transfer.EXPECT().Transfer(gomock.Any(), testTreasury, "acct-slow", uint64(2_000_000)).Return(nil),
		transfer.EXPECT().Transfer(gomock.Any(), testFeeRecipient, "acct-slow", uint64(8_000_000)).Return(nil),
	)

	_, err := svc.Register(s.ctxFor("acct-slow"), "alice")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNameTaken))

	rec, err := s.store.FindByLabel(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal("acct-rival", rec.Owner)
	s.Equal(uint64(1), rec.NameID)

	owned, err := s.store.OwnedIDs(context.Background(), "acct-slow")
	s.Require().NoError(err)
	s.Empty(owned)

	total, err := s.service.TotalNames(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(1), total)
}

func (s *RegistrarSuite) TestRegister_Subdomains() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	s.Run("parent must exist", func() {
		_, err := s.service.Register(s.ctxFor("acct-alice"), "blog.ghost")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameNotFound))
	})

	s.Run("parent must belong to the caller", func() {
		s.fund("acct-bob")
		_, err := s.service.Register(s.ctxFor("acct-bob"), "blog.alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
	})

	s.Run("success renders child.parent.suffix", func() {
		res, err := s.service.Register(s.ctxFor("acct-alice"), "blog.alice")
		s.Require().NoError(err)
		s.Equal("blog.alice.ledger", res.FullName)
		s.Equal(uint64(2), res.NameID)
	})

	s.Run("expired parent is rejected", func() {
		_, err := s.service.Register(s.ctxAt("acct-alice", s.inGrace()), "shop.alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNameExpired))
	})
}

func (s *RegistrarSuite) TestRegister_TakeoverAfterFullExpiry() {
	s.fund("acct-old")
	first := s.mustRegister("acct-old", "alice")

	later := s.afterGrace()
	s.fund("acct-new")
	res, err := s.service.Register(s.ctxAt("acct-new", later), "alice")
	s.Require().NoError(err)

	s.Run("fresh strictly larger id", func() {
		s.Greater(res.NameID, first.NameID)
	})

	s.Run("stale owner is fully detached", func() {
		ids, err := s.service.OwnedNameIDs(context.Background(), "acct-old")
		s.Require().NoError(err)
		s.Empty(ids)

		_, ok, err := s.service.PrimaryLabel(context.Background(), "acct-old")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("new owner gains the label as primary", func() {
		label, ok, err := s.service.PrimaryLabel(context.Background(), "acct-new")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal("alice", label)
	})

	s.Run("old id stays resolvable through the reverse index", func() {
		label, err := s.service.LabelByID(context.Background(), first.NameID)
		s.Require().NoError(err)
		s.Equal("alice", label)
	})
}

func (s *RegistrarSuite) TestRegister_ReclaimOwnExpiredNameRestoresPrimary() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")

	res, err := s.service.Register(s.ctxAt("acct-alice", s.afterGrace()), "alice")
	s.Require().NoError(err)
	s.Equal(uint64(2), res.NameID)

	label, ok, err := s.service.PrimaryLabel(context.Background(), "acct-alice")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("alice", label)
}

func (s *RegistrarSuite) TestRegister_SecondNameDoesNotReplacePrimary() {
	s.fund("acct-alice")
	s.mustRegister("acct-alice", "alice")
	s.mustRegister("acct-alice", "wonderland")

	label, ok, err := s.service.PrimaryLabel(context.Background(), "acct-alice")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("alice", label)
}

func (s *RegistrarSuite) TestRegisterMultiple() {
	s.Run("empty batch is rejected", func() {
		_, err := s.service.RegisterMultiple(s.ctxFor("acct-alice"), nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("oversized batch is rejected", func() {
		labels := make([]string, DefaultConfig().BatchLimit+1)
		for i := range labels {
			labels[i] = "label"
		}
		_, err := s.service.RegisterMultiple(s.ctxFor("acct-alice"), labels)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("failing slot never masks the others", func() {
		s.fund("acct-bob")
		s.mustRegister("acct-bob", "taken")

		s.fund("acct-alice")
		items, err := s.service.RegisterMultiple(s.ctxFor("acct-alice"), []string{"first", "taken", "second"})
		s.Require().NoError(err)
		s.Require().Len(items, 3)

		s.NotNil(items[0].Result)
		s.Empty(items[0].Error)

		s.Nil(items[1].Result)
		s.Equal(dErrors.CodeNameTaken, items[1].Error)

		s.NotNil(items[2].Result)
		s.Greater(items[2].Result.NameID, items[0].Result.NameID)
	})
}

func (s *RegistrarSuite) TestRegister_MonotonicIDs() {
	s.fund("acct-a")
	var prev uint64
	for _, label := range []string{"one", "two", "three", "four"} {
		res, err := s.service.Register(s.ctxFor("acct-a"), label)
		s.Require().NoError(err)
		s.Greater(res.NameID, prev)
		prev = res.NameID
	}
}
