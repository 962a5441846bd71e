package service

import (
	"context"
	"strconv"

	"namereg/internal/registrar/models"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/requestcontext"
)

// collectFee executes the fee distribution for one paid operation: the floored
// protocol percentage goes to the protocol treasury, the remainder to the fee
// recipient. Zero shares are skipped. Any transfer failure aborts the whole
// operation before the registry mutates, and a leg that already moved is sent
// back, so no payment is ever kept without a matching record change.
//
// TotalFeesCollected accrual happens inside the store mutation that depends
// on this payment, keeping the running total atomic with the record change.
func (s *Service) collectFee(ctx context.Context, payer string, total uint64, cfg models.FeeConfig) error {
	if total == 0 {
		return dErrors.New(dErrors.CodeZeroFee, "fee resolves to zero")
	}
	protocolShare, recipientShare := cfg.Split(total)

	if protocolShare > 0 {
		if err := s.transfer.Transfer(ctx, payer, cfg.ProtocolTreasury, protocolShare); err != nil {
			return dErrors.Wrap(err, dErrors.CodePaymentFailed, "protocol share transfer failed")
		}
	}
	if recipientShare > 0 {
		if err := s.transfer.Transfer(ctx, payer, cfg.FeeRecipient, recipientShare); err != nil {
			// The protocol share already moved; compensate before aborting
			// so the payer is left whole.
			s.refund(ctx, cfg.ProtocolTreasury, payer, protocolShare)
			return dErrors.Wrap(err, dErrors.CodePaymentFailed, "recipient share transfer failed")
		}
	}
	return nil
}

// refundFee returns a fully collected fee to the payer, share by share. Used
// when the registry commit is refused after payment succeeded.
func (s *Service) refundFee(ctx context.Context, payer string, total uint64, cfg models.FeeConfig) {
	protocolShare, recipientShare := cfg.Split(total)
	s.refund(ctx, cfg.ProtocolTreasury, payer, protocolShare)
	s.refund(ctx, cfg.FeeRecipient, payer, recipientShare)
}

func (s *Service) refund(ctx context.Context, from, to string, amount uint64) {
	if amount == 0 {
		return
	}
	if err := s.transfer.Transfer(ctx, from, to, amount); err != nil {
		s.logger.ErrorContext(ctx, "fee refund failed",
			"request_id", requestcontext.RequestID(ctx),
			"from", from,
			"to", to,
			"amount", amount,
			"error", err.Error(),
		)
	}
}

func feeFields(feePaid uint64) map[string]string {
	return map[string]string{"fee_paid": strconv.FormatUint(feePaid, 10)}
}
