package service

import (
	"context"

	"namereg/internal/events"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/requestcontext"
)

// SetResolver binds a resolver capability reference to an active name owned
// by the caller.
func (s *Service) SetResolver(ctx context.Context, rawLabel, resolverRef string) error {
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if resolverRef == "" {
		return dErrors.New(dErrors.CodeValidation, "resolver reference is required")
	}
	now := requestcontext.Now(ctx)

	rec, err := s.lookup(ctx, rawLabel)
	if err != nil {
		s.recordFailure("set_resolver", err)
		return err
	}
	if rec.Owner != caller {
		err = dErrors.Newf(dErrors.CodeNotOwner, "name %q is not owned by caller", rawLabel)
		s.recordFailure("set_resolver", err)
		return err
	}
	if !rec.IsActive(now, s.cfg.GracePeriod) {
		err = dErrors.Newf(dErrors.CodeNameExpired, "name %q is expired", rawLabel)
		s.recordFailure("set_resolver", err)
		return err
	}

	if err := s.store.SetResolver(ctx, rec.Label, resolverRef); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "resolver commit failed")
	}
	rec.Resolver = resolverRef
	s.mirrorName(ctx, *rec)

	s.emit(ctx, events.KindResolverSet, rec.Label, caller, map[string]string{
		"resolver": resolverRef,
	})
	return nil
}

// ClearResolver removes the caller's resolver binding. Unlike SetResolver it
// carries no lifecycle guard: the reference behavior lets an owner clear a
// resolver on an expired record, and that asymmetry is retained.
func (s *Service) ClearResolver(ctx context.Context, rawLabel string) error {
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}
	rec, err := s.lookup(ctx, rawLabel)
	if err != nil {
		s.recordFailure("clear_resolver", err)
		return err
	}
	if rec.Owner != caller {
		err = dErrors.Newf(dErrors.CodeNotOwner, "name %q is not owned by caller", rawLabel)
		s.recordFailure("clear_resolver", err)
		return err
	}

	if err := s.store.ClearResolver(ctx, rec.Label); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "resolver commit failed")
	}
	rec.Resolver = ""
	s.mirrorName(ctx, *rec)

	s.emit(ctx, events.KindResolverCleared, rec.Label, caller, nil)
	return nil
}

// Resolve dispatches a lookup to the capability bound to the name. The
// caller supplies the capability reference it believes is bound; a mismatch
// with the stored binding rejects the dispatch.
//
// The result is the capability's raw payload; nil means the capability had
// nothing for this name.
func (s *Service) Resolve(ctx context.Context, rawLabel, resolverRef string) ([]byte, error) {
	rec, err := s.lookup(ctx, rawLabel)
	if err != nil {
		return nil, err
	}
	if rec.Resolver == "" || rec.Resolver != resolverRef {
		return nil, dErrors.Newf(dErrors.CodeResolverInvalid, "resolver reference does not match the binding for %q", rawLabel)
	}
	if s.resolver == nil {
		return nil, dErrors.New(dErrors.CodeResolverInvalid, "no resolver capability is configured")
	}
	payload, err := s.resolver.Resolve(ctx, rec.Resolver, rec.Label, rec.Owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeResolverInvalid, "resolver dispatch failed")
	}
	return payload, nil
}
