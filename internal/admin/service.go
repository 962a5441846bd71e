// Package admin owns the mutable registrar parameters: fees, multiplier,
// recipients, protocol share, and per-label premium overrides.
//
// Every mutator gates on the admin-identity predicate. The core only ever
// asks "is this caller the designated admin"; how the transport established
// the caller (JWT, token header) stays outside.
package admin

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"namereg/internal/events"
	"namereg/internal/registrar/models"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/requestcontext"
)

// ConfigStore is the slice of registrar state the admin surface mutates.
type ConfigStore interface {
	FeeConfig(ctx context.Context) (models.FeeConfig, error)
	UpdateFeeConfig(ctx context.Context, fn func(*models.FeeConfig) error) (models.FeeConfig, error)
	SetPremiumOverride(ctx context.Context, label string, premium bool) error
}

// IdentityChecker is the admin-identity predicate. The reference deployment
// fixes the identity at deploy time; it is not rotatable.
type IdentityChecker interface {
	IsAdmin(caller string) bool
}

// FixedIdentity is the deploy-time admin identity.
type FixedIdentity string

func (f FixedIdentity) IsAdmin(caller string) bool { return caller != "" && caller == string(f) }

// EventSink receives config-changed events.
type EventSink interface {
	Emit(ctx context.Context, ev events.Event) error
}

// Service applies admin mutations to the fee configuration.
type Service struct {
	store    ConfigStore
	identity IdentityChecker
	sink     EventSink
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithEventSink(sink EventSink) Option {
	return func(s *Service) { s.sink = sink }
}

// New constructs the admin service.
func New(store ConfigStore, identity IdentityChecker, opts ...Option) *Service {
	s := &Service{store: store, identity: identity, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = events.NewInMemorySink()
	}
	return s
}

func (s *Service) requireAdmin(ctx context.Context) error {
	caller := requestcontext.CallerID(ctx)
	if !s.identity.IsAdmin(caller) {
		return dErrors.New(dErrors.CodeNotAdmin, "caller is not the registrar admin")
	}
	return nil
}

// apply runs one guarded fee-config mutation and emits the resulting full
// snapshot as a config-changed event.
func (s *Service) apply(ctx context.Context, setting string, fn func(*models.FeeConfig) error) (models.FeeConfig, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return models.FeeConfig{}, err
	}
	cfg, err := s.store.UpdateFeeConfig(ctx, fn)
	if err != nil {
		return models.FeeConfig{}, err
	}
	s.emitSnapshot(ctx, setting, cfg)
	return cfg, nil
}

func (s *Service) emitSnapshot(ctx context.Context, setting string, cfg models.FeeConfig) {
	ev := events.Event{
		ID:        uuid.NewString(),
		Kind:      events.KindConfigChanged,
		Timestamp: requestcontext.Now(ctx),
		Account:   requestcontext.CallerID(ctx),
		Fields: map[string]string{
			"setting":              setting,
			"base_fee":             strconv.FormatUint(cfg.BaseFee, 10),
			"renew_fee":            strconv.FormatUint(cfg.RenewFee, 10),
			"premium_multiplier":   strconv.FormatUint(cfg.PremiumMultiplier, 10),
			"fee_recipient":        cfg.FeeRecipient,
			"protocol_treasury":    cfg.ProtocolTreasury,
			"protocol_fee_percent": strconv.FormatUint(cfg.ProtocolFeePercent, 10),
		},
	}
	if err := s.sink.Emit(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "event emission failed",
			"request_id", requestcontext.RequestID(ctx),
			"kind", string(events.KindConfigChanged),
			"error", err.Error(),
		)
	}
}

// SetBaseFee updates the registration base fee. Zero is rejected.
func (s *Service) SetBaseFee(ctx context.Context, fee uint64) (models.FeeConfig, error) {
	return s.apply(ctx, "base_fee", func(c *models.FeeConfig) error {
		if fee == 0 {
			return dErrors.New(dErrors.CodeZeroFee, "base fee must be positive")
		}
		c.BaseFee = fee
		return nil
	})
}

// SetRenewFee updates the flat renewal fee. Zero is rejected.
func (s *Service) SetRenewFee(ctx context.Context, fee uint64) (models.FeeConfig, error) {
	return s.apply(ctx, "renew_fee", func(c *models.FeeConfig) error {
		if fee == 0 {
			return dErrors.New(dErrors.CodeZeroFee, "renewal fee must be positive")
		}
		c.RenewFee = fee
		return nil
	})
}

// SetPremiumMultiplier updates the premium multiplier. Zero is rejected.
func (s *Service) SetPremiumMultiplier(ctx context.Context, multiplier uint64) (models.FeeConfig, error) {
	return s.apply(ctx, "premium_multiplier", func(c *models.FeeConfig) error {
		if multiplier == 0 {
			return dErrors.New(dErrors.CodeZeroFee, "premium multiplier must be positive")
		}
		c.PremiumMultiplier = multiplier
		return nil
	})
}

// SetFeeRecipient updates the recipient of the non-protocol fee share.
func (s *Service) SetFeeRecipient(ctx context.Context, account string) (models.FeeConfig, error) {
	return s.apply(ctx, "fee_recipient", func(c *models.FeeConfig) error {
		if account == "" {
			return dErrors.New(dErrors.CodeValidation, "fee recipient account is required")
		}
		c.FeeRecipient = account
		return nil
	})
}

// SetProtocolTreasury updates the protocol share recipient.
func (s *Service) SetProtocolTreasury(ctx context.Context, account string) (models.FeeConfig, error) {
	return s.apply(ctx, "protocol_treasury", func(c *models.FeeConfig) error {
		if account == "" {
			return dErrors.New(dErrors.CodeValidation, "protocol treasury account is required")
		}
		c.ProtocolTreasury = account
		return nil
	})
}

// SetProtocolFeePercent updates the protocol percentage. Values above 100
// are rejected; zero is allowed and routes everything to the fee recipient.
func (s *Service) SetProtocolFeePercent(ctx context.Context, percent uint64) (models.FeeConfig, error) {
	return s.apply(ctx, "protocol_fee_percent", func(c *models.FeeConfig) error {
		if percent > 100 {
			return dErrors.New(dErrors.CodePercentTooHigh, "protocol fee percent must be at most 100")
		}
		c.ProtocolFeePercent = percent
		return nil
	})
}

// SetPremiumLabel records a premium override for a label, taking precedence
// over the automatic length rule in both directions.
func (s *Service) SetPremiumLabel(ctx context.Context, label string, premium bool) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if label == "" {
		return dErrors.New(dErrors.CodeEmptyLabel, "label is required")
	}
	if err := s.store.SetPremiumOverride(ctx, label, premium); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "premium override commit failed")
	}
	cfg, err := s.store.FeeConfig(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "fee config lookup failed")
	}
	s.emitSnapshot(ctx, "premium_label:"+label+"="+strconv.FormatBool(premium), cfg)
	return nil
}
