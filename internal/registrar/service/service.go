package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"namereg/internal/events"
	regmetrics "namereg/internal/registrar/metrics"
	"namereg/internal/registrar/models"
	"namereg/internal/registrar/store"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/platform/sentinel"
	"namereg/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Store is the authoritative registrar state. Each Apply* mutation commits as
// one atomic unit so the name map, owner index, reverse index and primary map
// never drift apart.
type Store interface {
	FindByLabel(ctx context.Context, label string) (*models.NameRecord, error)
	LabelByID(ctx context.Context, nameID uint64) (string, error)
	OwnedIDs(ctx context.Context, owner string) ([]uint64, error)
	PrimaryLabel(ctx context.Context, account string) (string, error)
	PremiumOverride(ctx context.Context, label string) (premium, ok bool, err error)
	FeeConfig(ctx context.Context) (models.FeeConfig, error)
	TotalNames(ctx context.Context) (uint64, error)

	ApplyRegistration(ctx context.Context, m store.RegistrationMutation) (uint64, error)
	ApplyRenewal(ctx context.Context, label string, newExpiry, renewedAt time.Time, feePaid uint64) error
	ApplyTransfer(ctx context.Context, m store.TransferMutation) error
	SetResolver(ctx context.Context, label, resolver string) error
	ClearResolver(ctx context.Context, label string) error
	SetPrimary(ctx context.Context, account, label string) error
	ClearPrimary(ctx context.Context, account string) error
}

// ValueTransfer moves value between ledger accounts. It is the one external
// dependency that can fail mid-operation; a failure must prevent any registry
// mutation for that operation.
type ValueTransfer interface {
	Transfer(ctx context.Context, from, to string, amount uint64) error
}

// ResolverCapability dispatches a resolve call to whatever capability a name
// owner has bound. Narrow on purpose: one method, explicit arguments, so
// tests can fake it without a plugin system.
type ResolverCapability interface {
	Resolve(ctx context.Context, resolver, label, owner string) ([]byte, error)
}

// EventSink receives the registrar event stream. Best-effort narration.
type EventSink interface {
	Emit(ctx context.Context, ev events.Event) error
}

// Mirror is an optional durable write-through of committed state. The memory
// store stays authoritative; mirror failures are logged, never surfaced.
type Mirror interface {
	UpsertName(ctx context.Context, rec models.NameRecord) error
	SavePrimary(ctx context.Context, account, label string) error
	DeletePrimary(ctx context.Context, account string) error
}

// DisplayCache is an optional read cache for display-name lookups.
type DisplayCache interface {
	GetDisplayName(ctx context.Context, account string) (string, error)
	SetDisplayName(ctx context.Context, account, displayName string) error
	Invalidate(ctx context.Context, account string) error
}

// Config fixes the registrar's deploy-time shape.
type Config struct {
	// Suffix is the single top-level suffix all names render under.
	Suffix string
	// RegistrationPeriod is added to now at creation and to the previous
	// expiry on each renewal.
	RegistrationPeriod time.Duration
	// GracePeriod is the renewal-only, owner-only lock window after expiry.
	GracePeriod time.Duration
	// BatchLimit bounds RegisterMultiple.
	BatchLimit int
}

// DefaultConfig returns the reference deployment shape.
func DefaultConfig() Config {
	return Config{
		Suffix:             "ledger",
		RegistrationPeriod: 365 * 24 * time.Hour,
		GracePeriod:        30 * 24 * time.Hour,
		BatchLimit:         10,
	}
}

// Service orchestrates the registrar record lifecycle and fee engine.
type Service struct {
	store    Store
	transfer ValueTransfer
	resolver ResolverCapability
	sink     EventSink
	mirror   Mirror
	cache    DisplayCache
	logger   *slog.Logger
	metrics  *regmetrics.Metrics
	tracer   trace.Tracer
	cfg      Config
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *regmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithEventSink(sink EventSink) Option {
	return func(s *Service) { s.sink = sink }
}

func WithResolverCapability(rc ResolverCapability) Option {
	return func(s *Service) { s.resolver = rc }
}

func WithMirror(m Mirror) Option {
	return func(s *Service) { s.mirror = m }
}

func WithDisplayCache(c DisplayCache) Option {
	return func(s *Service) { s.cache = c }
}

// New constructs a Service. The store and the value-transfer collaborator are
// mandatory; everything else defaults to inert implementations.
func New(st Store, transfer ValueTransfer, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:    st,
		transfer: transfer,
		cfg:      cfg,
		logger:   slog.Default(),
		tracer:   otel.Tracer("namereg/registrar"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = events.NewInMemorySink()
	}
	return s
}

// caller extracts the calling account; operations require one.
func (s *Service) caller(ctx context.Context) (string, error) {
	caller := requestcontext.CallerID(ctx)
	if caller == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "caller account is required")
	}
	return caller, nil
}

// emit narrates a state change. Sink failures never abort the operation.
func (s *Service) emit(ctx context.Context, kind events.Kind, label, account string, fields map[string]string) {
	ev := events.Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Timestamp: requestcontext.Now(ctx),
		Label:     label,
		Account:   account,
		Fields:    fields,
	}
	if err := s.sink.Emit(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "event emission failed",
			"request_id", requestcontext.RequestID(ctx),
			"kind", string(kind),
			"error", err.Error(),
		)
	}
}

// mirrorName write-throughs a committed record. Best effort.
func (s *Service) mirrorName(ctx context.Context, rec models.NameRecord) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.UpsertName(ctx, rec); err != nil {
		s.logger.WarnContext(ctx, "durable mirror write failed",
			"label", rec.Label,
			"error", err.Error(),
		)
	}
}

// mirrorPrimary write-throughs a primary-name change. Best effort.
func (s *Service) mirrorPrimary(ctx context.Context, account, label string) {
	if s.mirror == nil {
		return
	}
	var err error
	if label == "" {
		err = s.mirror.DeletePrimary(ctx, account)
	} else {
		err = s.mirror.SavePrimary(ctx, account, label)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "durable mirror write failed",
			"account", account,
			"error", err.Error(),
		)
	}
}

// invalidateDisplay drops a stale display-name cache entry. Best effort.
func (s *Service) invalidateDisplay(ctx context.Context, account string) {
	if s.cache == nil || account == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, account); err != nil {
		s.logger.WarnContext(ctx, "display cache invalidation failed",
			"account", account,
			"error", err.Error(),
		)
	}
}

func (s *Service) recordFailure(operation string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementFailure(operation, string(dErrors.CodeOf(err)))
}

// lookup translates the store's not-found sentinel into the domain code.
func (s *Service) lookup(ctx context.Context, label string) (*models.NameRecord, error) {
	rec, err := s.store.FindByLabel(ctx, label)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNameNotFound, "name %q is not registered", label)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "name lookup failed")
	}
	return rec, nil
}

// hasPrimary reports whether the account currently has a primary name.
func (s *Service) hasPrimary(ctx context.Context, account string) (bool, error) {
	_, err := s.store.PrimaryLabel(ctx, account)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "primary-name lookup failed")
	}
	return true, nil
}

// primaryIs reports whether the account's primary name is exactly label.
func (s *Service) primaryIs(ctx context.Context, account, label string) (bool, error) {
	current, err := s.store.PrimaryLabel(ctx, account)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "primary-name lookup failed")
	}
	return current == label, nil
}

// isPremium applies the admin override if present, else the length rule.
func (s *Service) isPremium(ctx context.Context, labelKey string) (bool, error) {
	premium, ok, err := s.store.PremiumOverride(ctx, labelKey)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "premium override lookup failed")
	}
	if ok {
		return premium, nil
	}
	return models.IsPremiumByLength(labelKey), nil
}
