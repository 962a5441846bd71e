package service

import (
	"context"
	"time"

	"namereg/internal/events"
	"namereg/internal/registrar/models"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/requestcontext"
)

// RenewalResult is the success payload of Renew.
type RenewalResult struct {
	NewExpiryAt time.Time `json:"new_expiry_at"`
	FeePaid     uint64    `json:"fee_paid"`
}

// Renew extends a name by one registration period from its previous expiry,
// never from now, so renewing early never loses banked time.
//
// Any account may renew any active name (gift renewal). During the grace
// window only the original owner may renew; past the grace window the stale
// record rejects renewal outright.
func (s *Service) Renew(ctx context.Context, rawLabel string) (*RenewalResult, error) {
	start := time.Now()
	res, err := s.renew(ctx, rawLabel)
	if err != nil {
		s.recordFailure("renew", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementRenewal(res.FeePaid)
		s.metrics.ObserveRenew(start)
	}
	return res, nil
}

func (s *Service) renew(ctx context.Context, rawLabel string) (*RenewalResult, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	rec, err := s.lookup(ctx, rawLabel)
	if err != nil {
		return nil, err
	}

	switch rec.Lifecycle(now, s.cfg.GracePeriod) {
	case models.LifecycleFullyExpired:
		return nil, dErrors.Newf(dErrors.CodeNameExpired, "name %q is fully expired", rawLabel)
	case models.LifecycleGrace:
		if rec.Owner != caller {
			return nil, dErrors.Newf(dErrors.CodeInGracePeriod, "name %q is in its grace period; only the owner may renew", rawLabel)
		}
	}

	feeCfg, err := s.store.FeeConfig(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fee config lookup failed")
	}
	fee, err := feeCfg.RenewalFee()
	if err != nil {
		return nil, err
	}
	if err := s.collectFee(ctx, caller, fee, feeCfg); err != nil {
		return nil, err
	}

	newExpiry := rec.ExpiryAt.Add(s.cfg.RegistrationPeriod)
	if err := s.store.ApplyRenewal(ctx, rec.Label, newExpiry, now, fee); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "renewal commit failed")
	}

	rec.ExpiryAt = newExpiry
	rec.LastRenewedAt = now
	s.mirrorName(ctx, *rec)

	fields := feeFields(fee)
	fields["new_expiry_at"] = newExpiry.UTC().Format(time.RFC3339)
	s.emit(ctx, events.KindNameRenewed, rec.Label, caller, fields)

	return &RenewalResult{NewExpiryAt: newExpiry, FeePaid: fee}, nil
}
