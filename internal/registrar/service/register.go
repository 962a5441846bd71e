package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"namereg/internal/events"
	"namereg/internal/registrar/models"
	"namereg/internal/registrar/store"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/platform/sentinel"
	"namereg/pkg/requestcontext"
)

// RegistrationResult is the success payload of Register.
type RegistrationResult struct {
	NameID   uint64    `json:"name_id"`
	FullName string    `json:"full_name"`
	ExpiryAt time.Time `json:"expiry_at"`
	FeePaid  uint64    `json:"fee_paid"`
}

// BatchItem captures one slot of a RegisterMultiple call. On failure the slot
// holds the raw error code and processing continues to the next label; the
// caller must inspect each element.
type BatchItem struct {
	Label  string              `json:"label"`
	Result *RegistrationResult `json:"result,omitempty"`
	Error  dErrors.Code        `json:"error,omitempty"`
}

// Register allocates a label to the calling account for one registration
// period against the registration fee.
//
// A one-level subdomain request (child.parent) additionally requires the
// parent to exist, be owned by the caller, and be active. A fully expired
// record under the same key is taken over: the stale owner is detached from
// the owner index and loses the label as primary name if it pointed here; the
// new record gets a fresh, strictly larger name id.
func (s *Service) Register(ctx context.Context, rawLabel string) (*RegistrationResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "registrar.Register")
	defer span.End()
	span.SetAttributes(attribute.String("label", rawLabel))

	res, err := s.register(ctx, rawLabel)
	if err != nil {
		s.recordFailure("register", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementRegistration(res.FeePaid)
		s.metrics.ObserveRegister(start)
	}
	return res, nil
}

func (s *Service) register(ctx context.Context, rawLabel string) (*RegistrationResult, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	parsed, err := models.ParseLabel(rawLabel)
	if err != nil {
		return nil, err
	}
	if parsed.IsSubdomain() {
		if err := s.authorizeSubdomain(ctx, parsed, caller, now); err != nil {
			return nil, err
		}
	}

	m := store.RegistrationMutation{}

	existing, err := s.store.FindByLabel(ctx, parsed.Key)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "name lookup failed")
	}
	if err == nil {
		if !existing.IsFullyExpired(now, s.cfg.GracePeriod) {
			return nil, dErrors.Newf(dErrors.CodeNameTaken, "name %q is already registered", parsed.Key)
		}
		// Takeover of a fully expired record: detach the stale owner.
		m.ReplacedOwner = existing.Owner
		m.ReplacedNameID = existing.NameID
		m.ReplacedExpiryAt = existing.ExpiryAt
		wasPrimary, perr := s.primaryIs(ctx, existing.Owner, parsed.Key)
		if perr != nil {
			return nil, perr
		}
		m.ClearReplacedPrimary = wasPrimary
	}

	premium, err := s.isPremium(ctx, parsed.Key)
	if err != nil {
		return nil, err
	}
	feeCfg, err := s.store.FeeConfig(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fee config lookup failed")
	}
	fee, err := feeCfg.RegistrationFee(premium)
	if err != nil {
		return nil, err
	}

	hadPrimary, err := s.hasPrimary(ctx, caller)
	if err != nil {
		return nil, err
	}
	// Re-registering one's own fully expired name clears the stale primary
	// first, so the fresh record becomes primary again.
	m.AssignPrimary = !hadPrimary || (m.ClearReplacedPrimary && m.ReplacedOwner == caller)

	// Payment is the last step before the commit: a transfer failure aborts
	// with no registry change, and if the commit is then refused the fee is
	// refunded, so money only moves alongside a record change.
	if err := s.collectFee(ctx, caller, fee, feeCfg); err != nil {
		return nil, err
	}

	m.Record = models.NameRecord{
		Label:         parsed.Key,
		FullName:      parsed.FullName(s.cfg.Suffix),
		Owner:         caller,
		ExpiryAt:      now.Add(s.cfg.RegistrationPeriod),
		IsPremium:     premium,
		CreatedAt:     now,
		LastRenewedAt: now,
	}
	m.FeePaid = fee

	nameID, err := s.store.ApplyRegistration(ctx, m)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// A rival claimed the label between the availability read and
			// the commit; the fee goes back in full.
			s.refundFee(ctx, caller, fee, feeCfg)
			return nil, dErrors.Newf(dErrors.CodeNameTaken, "name %q is already registered", parsed.Key)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "registration commit failed")
	}
	m.Record.NameID = nameID

	s.mirrorName(ctx, m.Record)
	if m.AssignPrimary {
		s.mirrorPrimary(ctx, caller, parsed.Key)
	}
	if m.ClearReplacedPrimary {
		s.mirrorPrimary(ctx, m.ReplacedOwner, "")
	}
	s.invalidateDisplay(ctx, caller)
	s.invalidateDisplay(ctx, m.ReplacedOwner)

	s.emit(ctx, events.KindNameRegistered, parsed.Key, caller, map[string]string{
		"name_id":   strconv.FormatUint(nameID, 10),
		"full_name": m.Record.FullName,
		"premium":   strconv.FormatBool(premium),
		"fee_paid":  strconv.FormatUint(fee, 10),
	})

	return &RegistrationResult{
		NameID:   nameID,
		FullName: m.Record.FullName,
		ExpiryAt: m.Record.ExpiryAt,
		FeePaid:  fee,
	}, nil
}

// authorizeSubdomain checks the parent of a subdomain request: it must exist,
// belong to the caller, and be active.
func (s *Service) authorizeSubdomain(ctx context.Context, parsed models.ParsedLabel, caller string, now time.Time) error {
	parent, err := s.lookup(ctx, parsed.Parent)
	if err != nil {
		return err
	}
	if parent.Owner != caller {
		return dErrors.Newf(dErrors.CodeNotOwner, "parent name %q is not owned by caller", parsed.Parent)
	}
	if !parent.IsActive(now, s.cfg.GracePeriod) {
		return dErrors.Newf(dErrors.CodeNameExpired, "parent name %q is expired", parsed.Parent)
	}
	return nil
}

// RegisterMultiple applies Register independently to each label in order.
// Sub-operations are sequential with no isolation between elements: each
// one's side effects are visible to the next, and a failing slot never masks
// the outcomes of the others.
func (s *Service) RegisterMultiple(ctx context.Context, labels []string) ([]BatchItem, error) {
	if len(labels) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one label is required")
	}
	if len(labels) > s.cfg.BatchLimit {
		return nil, dErrors.Newf(dErrors.CodeValidation, "batch exceeds %d labels", s.cfg.BatchLimit)
	}

	items := make([]BatchItem, 0, len(labels))
	for _, label := range labels {
		res, err := s.Register(ctx, label)
		if err != nil {
			items = append(items, BatchItem{Label: label, Error: dErrors.CodeOf(err)})
			continue
		}
		items = append(items, BatchItem{Label: label, Result: res})
	}
	return items, nil
}
