package service

import (
	"context"
	"errors"
	"time"

	"namereg/internal/registrar/models"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/platform/sentinel"
	"namereg/pkg/requestcontext"
)

// Read-only query surface. No query mutates state; the display-name query is
// the only one that touches the cache, and only to fill it.

// GetName returns the record under the exact label key.
func (s *Service) GetName(ctx context.Context, label string) (*models.NameRecord, error) {
	return s.lookup(ctx, label)
}

// OwnerOf returns the current owner of a label.
func (s *Service) OwnerOf(ctx context.Context, label string) (string, error) {
	rec, err := s.lookup(ctx, label)
	if err != nil {
		return "", err
	}
	return rec.Owner, nil
}

// ExpiryOf returns a label's current expiry instant.
func (s *Service) ExpiryOf(ctx context.Context, label string) (time.Time, error) {
	rec, err := s.lookup(ctx, label)
	if err != nil {
		return time.Time{}, err
	}
	return rec.ExpiryAt, nil
}

// IsPremiumLabel classifies a label string: admin override if present, else
// the length rule. The label does not need to be registered.
func (s *Service) IsPremiumLabel(ctx context.Context, rawLabel string) (bool, error) {
	parsed, err := models.ParseLabel(rawLabel)
	if err != nil {
		return false, err
	}
	return s.isPremium(ctx, parsed.Key)
}

// QuoteRegistrationFee prices a hypothetical registration of the label.
func (s *Service) QuoteRegistrationFee(ctx context.Context, rawLabel string) (fee uint64, premium bool, err error) {
	premium, err = s.IsPremiumLabel(ctx, rawLabel)
	if err != nil {
		return 0, false, err
	}
	cfg, err := s.store.FeeConfig(ctx)
	if err != nil {
		return 0, false, dErrors.Wrap(err, dErrors.CodeInternal, "fee config lookup failed")
	}
	fee, err = cfg.RegistrationFee(premium)
	if err != nil {
		return 0, false, err
	}
	return fee, premium, nil
}

// QuoteRenewalFee prices a renewal.
func (s *Service) QuoteRenewalFee(ctx context.Context) (uint64, error) {
	cfg, err := s.store.FeeConfig(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "fee config lookup failed")
	}
	return cfg.RenewalFee()
}

// FeeConfigSnapshot returns the current fee configuration.
func (s *Service) FeeConfigSnapshot(ctx context.Context) (models.FeeConfig, error) {
	cfg, err := s.store.FeeConfig(ctx)
	if err != nil {
		return models.FeeConfig{}, dErrors.Wrap(err, dErrors.CodeInternal, "fee config lookup failed")
	}
	return cfg, nil
}

// OwnedNameIDs returns the account's owned-name-id list. The list is bounded;
// past its capacity the index stops recording and the list is incomplete.
func (s *Service) OwnedNameIDs(ctx context.Context, account string) ([]uint64, error) {
	ids, err := s.store.OwnedIDs(ctx, account)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "owner index lookup failed")
	}
	return ids, nil
}

// LabelByID resolves a name id through the reverse index. After a full-expiry
// re-registration the old id still resolves to the label even though the
// label now has a different id; historically stale by design.
func (s *Service) LabelByID(ctx context.Context, nameID uint64) (string, error) {
	label, err := s.store.LabelByID(ctx, nameID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Newf(dErrors.CodeNameNotFound, "name id %d was never issued", nameID)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "reverse lookup failed")
	}
	return label, nil
}

// InGracePeriod reports whether a label is currently in its grace window.
func (s *Service) InGracePeriod(ctx context.Context, label string) (bool, error) {
	rec, err := s.lookup(ctx, label)
	if err != nil {
		return false, err
	}
	now := requestcontext.Now(ctx)
	return rec.Lifecycle(now, s.cfg.GracePeriod) == models.LifecycleGrace, nil
}

// IsAvailable reports whether a label can be freshly registered: never
// registered, or fully expired.
func (s *Service) IsAvailable(ctx context.Context, rawLabel string) (bool, error) {
	parsed, err := models.ParseLabel(rawLabel)
	if err != nil {
		return false, err
	}
	rec, err := s.store.FindByLabel(ctx, parsed.Key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return true, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "name lookup failed")
	}
	now := requestcontext.Now(ctx)
	return rec.IsFullyExpired(now, s.cfg.GracePeriod), nil
}

// TotalNames returns the count of name ids ever issued.
func (s *Service) TotalNames(ctx context.Context) (uint64, error) {
	total, err := s.store.TotalNames(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "counter lookup failed")
	}
	return total, nil
}

// TotalFeesCollected returns the running fee total.
func (s *Service) TotalFeesCollected(ctx context.Context) (uint64, error) {
	cfg, err := s.store.FeeConfig(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "fee config lookup failed")
	}
	return cfg.TotalFeesCollected, nil
}

// PrimaryLabel returns the account's primary label, if any.
func (s *Service) PrimaryLabel(ctx context.Context, account string) (string, bool, error) {
	label, err := s.store.PrimaryLabel(ctx, account)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", false, nil
		}
		return "", false, dErrors.Wrap(err, dErrors.CodeInternal, "primary-name lookup failed")
	}
	return label, true, nil
}

// PrimaryFullName returns the account's primary name rendered with the
// suffix, if any.
func (s *Service) PrimaryFullName(ctx context.Context, account string) (string, bool, error) {
	label, ok, err := s.PrimaryLabel(ctx, account)
	if err != nil || !ok {
		return "", ok, err
	}
	rec, err := s.lookup(ctx, label)
	if err != nil {
		return "", false, err
	}
	return rec.FullName, true, nil
}

// DisplayName returns the account's primary full name, falling back to the
// raw account identifier when no primary is set. Served from the display
// cache when one is configured.
func (s *Service) DisplayName(ctx context.Context, account string) (string, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetDisplayName(ctx, account); err == nil && cached != "" {
			return cached, nil
		}
	}

	display := account
	if fullName, ok, err := s.PrimaryFullName(ctx, account); err == nil && ok {
		display = fullName
	} else if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.SetDisplayName(ctx, account, display); err != nil {
			s.logger.WarnContext(ctx, "display cache write failed",
				"account", account,
				"error", err.Error(),
			)
		}
	}
	return display, nil
}
