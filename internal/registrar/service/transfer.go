package service

import (
	"context"
	"time"

	"namereg/internal/events"
	"namereg/internal/registrar/store"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/requestcontext"
)

// Transfer moves ownership of an active name to another account. The name id
// moves between the two owner-index entries, the old owner loses the label as
// primary name if it pointed here, and the recipient gains it as primary if
// they had none.
//
// A name in its grace window cannot be transferred, by the owner or anyone
// else: grace is a renewal-only lock.
func (s *Service) Transfer(ctx context.Context, rawLabel, newOwner string) error {
	start := time.Now()
	if err := s.doTransfer(ctx, rawLabel, newOwner); err != nil {
		s.recordFailure("transfer", err)
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementTransfer()
		s.metrics.ObserveTransfer(start)
	}
	return nil
}

func (s *Service) doTransfer(ctx context.Context, rawLabel, newOwner string) error {
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if newOwner == "" {
		return dErrors.New(dErrors.CodeValidation, "new owner account is required")
	}
	now := requestcontext.Now(ctx)

	rec, err := s.lookup(ctx, rawLabel)
	if err != nil {
		return err
	}
	if rec.Owner != caller {
		return dErrors.Newf(dErrors.CodeNotOwner, "name %q is not owned by caller", rawLabel)
	}
	if newOwner == caller {
		return dErrors.New(dErrors.CodeTransferToSelf, "cannot transfer a name to its current owner")
	}
	if !rec.IsActive(now, s.cfg.GracePeriod) {
		return dErrors.Newf(dErrors.CodeNameExpired, "name %q is expired", rawLabel)
	}

	wasPrimary, err := s.primaryIs(ctx, caller, rec.Label)
	if err != nil {
		return err
	}
	recipientHasPrimary, err := s.hasPrimary(ctx, newOwner)
	if err != nil {
		return err
	}

	m := store.TransferMutation{
		Label:            rec.Label,
		NewOwner:         newOwner,
		ClearOldPrimary:  wasPrimary,
		AssignNewPrimary: !recipientHasPrimary,
	}
	if err := s.store.ApplyTransfer(ctx, m); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "transfer commit failed")
	}

	rec.Owner = newOwner
	s.mirrorName(ctx, *rec)
	if m.ClearOldPrimary {
		s.mirrorPrimary(ctx, caller, "")
	}
	if m.AssignNewPrimary {
		s.mirrorPrimary(ctx, newOwner, rec.Label)
	}
	s.invalidateDisplay(ctx, caller)
	s.invalidateDisplay(ctx, newOwner)

	s.emit(ctx, events.KindNameTransferred, rec.Label, caller, map[string]string{
		"new_owner": newOwner,
	})
	return nil
}
