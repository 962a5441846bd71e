package service

import (
	"context"

	"go.uber.org/mock/gomock"

	"namereg/internal/registrar/models"
	"namereg/internal/registrar/service/mocks"
)

func (s *RegistrarSuite) TestFeeDistribution_ZeroProtocolPercent() {
	_, err := s.store.UpdateFeeConfig(context.Background(), func(c *models.FeeConfig) error {
		c.ProtocolFeePercent = 0
		return nil
	})
	s.Require().NoError(err)

	ctrl := gomock.NewController(s.T())
	transfer := mocks.NewMockValueTransfer(ctrl)
	svc := New(s.store, transfer, DefaultConfig(), WithEventSink(s.sink))

	// A zero share is skipped entirely: one transfer, full amount.
	transfer.EXPECT().Transfer(gomock.Any(), "acct-alice", testFeeRecipient, uint64(10_000_000)).Return(nil)

	_, err = svc.Register(s.ctxFor("acct-alice"), "alice")
	s.Require().NoError(err)
}

func (s *RegistrarSuite) TestFeeDistribution_FullProtocolPercent() {
	_, err := s.store.UpdateFeeConfig(context.Background(), func(c *models.FeeConfig) error {
		c.ProtocolFeePercent = 100
		return nil
	})
	s.Require().NoError(err)

	ctrl := gomock.NewController(s.T())
	transfer := mocks.NewMockValueTransfer(ctrl)
	svc := New(s.store, transfer, DefaultConfig(), WithEventSink(s.sink))

	transfer.EXPECT().Transfer(gomock.Any(), "acct-alice", testTreasury, uint64(10_000_000)).Return(nil)

	_, err = svc.Register(s.ctxFor("acct-alice"), "alice")
	s.Require().NoError(err)
}
