package service

import (
	"context"

	"namereg/internal/events"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/requestcontext"
)

// SetPrimaryName points the caller's primary name at a label they own. The
// name must be active.
func (s *Service) SetPrimaryName(ctx context.Context, rawLabel string) error {
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}
	now := requestcontext.Now(ctx)

	rec, err := s.lookup(ctx, rawLabel)
	if err != nil {
		s.recordFailure("set_primary", err)
		return err
	}
	if rec.Owner != caller {
		err = dErrors.Newf(dErrors.CodeNotNameOwner, "name %q is not owned by caller", rawLabel)
		s.recordFailure("set_primary", err)
		return err
	}
	if !rec.IsActive(now, s.cfg.GracePeriod) {
		err = dErrors.Newf(dErrors.CodeNameExpired, "name %q is expired", rawLabel)
		s.recordFailure("set_primary", err)
		return err
	}

	if err := s.store.SetPrimary(ctx, caller, rec.Label); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "primary-name commit failed")
	}
	s.mirrorPrimary(ctx, caller, rec.Label)
	s.invalidateDisplay(ctx, caller)

	s.emit(ctx, events.KindPrimarySet, rec.Label, caller, nil)
	return nil
}

// ClearPrimaryName removes the caller's primary-name entry if present.
// Clearing is unconditional: it needs no owned name and no lifecycle check.
func (s *Service) ClearPrimaryName(ctx context.Context) error {
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if err := s.store.ClearPrimary(ctx, caller); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "primary-name commit failed")
	}
	s.mirrorPrimary(ctx, caller, "")
	s.invalidateDisplay(ctx, caller)

	s.emit(ctx, events.KindPrimaryCleared, "", caller, nil)
	return nil
}
