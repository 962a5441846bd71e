package store

import (
	"context"
	"sync"
	"time"

	"namereg/internal/registrar/models"
	"namereg/pkg/platform/sentinel"
)

// DefaultOwnerIndexCapacity bounds the per-account owned-name-id set.
const DefaultOwnerIndexCapacity = 100

// RegistrationMutation carries one registration's full state change. The
// service decides every flag from its own reads; the store guarantees that all
// of it lands in one critical section, so the name map, the owner index, the
// reverse index and the primary map can never be observed out of sync.
//
// The replaced fields double as the commit's optimistic token: the service's
// availability read happens outside the critical section, so the commit
// re-checks the label under the lock and refuses with sentinel.ErrConflict
// when the slot no longer matches what the service saw.
type RegistrationMutation struct {
	Record models.NameRecord // NameID assigned by the store

	// Full-expiry takeover: detach the stale record's owner first. NameID
	// and ExpiryAt must match the record currently under the label, or the
	// commit is refused.
	ReplacedOwner        string
	ReplacedNameID       uint64
	ReplacedExpiryAt     time.Time
	ClearReplacedPrimary bool

	// Caller had no primary name yet; this label becomes it.
	AssignPrimary bool

	FeePaid uint64
}

// TransferMutation carries one ownership transfer.
type TransferMutation struct {
	Label            string
	NewOwner         string
	ClearOldPrimary  bool
	AssignNewPrimary bool
}

// InMemory is the authoritative registrar store. The host model is one
// operation at a time; the mutex exists so the HTTP layer above can still be
// served concurrently without torn reads.
type InMemory struct {
	mu        sync.RWMutex
	names     map[string]models.NameRecord
	reverse   map[uint64]string
	owned     map[string][]uint64
	primary   map[string]string
	overrides map[string]bool
	feeConfig models.FeeConfig
	nextID    uint64
	ownerCap  int
}

// NewInMemory creates the store with the deploy-time fee configuration.
func NewInMemory(feeConfig models.FeeConfig) *InMemory {
	return &InMemory{
		names:     make(map[string]models.NameRecord),
		reverse:   make(map[uint64]string),
		owned:     make(map[string][]uint64),
		primary:   make(map[string]string),
		overrides: make(map[string]bool),
		feeConfig: feeConfig,
		nextID:    1,
		ownerCap:  DefaultOwnerIndexCapacity,
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// FindByLabel returns a copy of the record under the exact label key.
// Returns sentinel.ErrNotFound if the label was never registered.
func (s *InMemory) FindByLabel(_ context.Context, label string) (*models.NameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.names[label]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

// LabelByID resolves a name id to the label it was issued for. Entries are
// never deleted: after a full-expiry re-registration the old id still maps to
// the label, which may now belong to someone else. Historically stale by
// design, not an error.
func (s *InMemory) LabelByID(_ context.Context, nameID uint64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	label, ok := s.reverse[nameID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return label, nil
}

// OwnedIDs returns the account's owned-name-id list, oldest first.
func (s *InMemory) OwnedIDs(_ context.Context, owner string) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.owned[owner]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out, nil
}

// PrimaryLabel returns the account's primary label, or sentinel.ErrNotFound.
func (s *InMemory) PrimaryLabel(_ context.Context, account string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	label, ok := s.primary[account]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return label, nil
}

// PremiumOverride returns the admin override for a label, if one is set.
func (s *InMemory) PremiumOverride(_ context.Context, label string) (premium, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	premium, ok = s.overrides[label]
	return premium, ok, nil
}

// FeeConfig returns a snapshot of the current fee configuration.
func (s *InMemory) FeeConfig(_ context.Context) (models.FeeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeConfig, nil
}

// TotalNames returns the count of name ids ever issued.
func (s *InMemory) TotalNames(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID - 1, nil
}

// ---------------------------------------------------------------------------
// Mutations — each one is a single critical section
// ---------------------------------------------------------------------------

// ApplyRegistration commits a registration and returns the allocated name id.
// Ids are strictly increasing and never reused, even when the same label is
// re-registered after full expiry.
//
// Returns sentinel.ErrConflict when the label is occupied by a record the
// mutation did not expect: a rival registration or takeover landed between
// the service's availability read and this commit.
func (s *InMemory) ApplyRegistration(_ context.Context, m RegistrationMutation) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.names[m.Record.Label]; ok {
		if m.ReplacedNameID == 0 ||
			existing.NameID != m.ReplacedNameID ||
			!existing.ExpiryAt.Equal(m.ReplacedExpiryAt) {
			return 0, sentinel.ErrConflict
		}
	}

	if m.ReplacedOwner != "" {
		s.removeOwnedLocked(m.ReplacedOwner, m.ReplacedNameID)
		if m.ClearReplacedPrimary {
			delete(s.primary, m.ReplacedOwner)
		}
	}

	rec := m.Record
	rec.NameID = s.nextID
	s.nextID++

	s.names[rec.Label] = rec
	s.reverse[rec.NameID] = rec.Label
	s.appendOwnedLocked(rec.Owner, rec.NameID)
	if m.AssignPrimary {
		s.primary[rec.Owner] = rec.Label
	}
	s.feeConfig.TotalFeesCollected += m.FeePaid
	return rec.NameID, nil
}

// ApplyRenewal commits a renewal's expiry extension and fee accrual.
func (s *InMemory) ApplyRenewal(_ context.Context, label string, newExpiry, renewedAt time.Time, feePaid uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.names[label]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.ExpiryAt = newExpiry
	rec.LastRenewedAt = renewedAt
	s.names[label] = rec
	s.feeConfig.TotalFeesCollected += feePaid
	return nil
}

// ApplyTransfer commits an ownership move, including both owner-index sides
// and the primary-name handoff, in one critical section.
func (s *InMemory) ApplyTransfer(_ context.Context, m TransferMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.names[m.Label]
	if !ok {
		return sentinel.ErrNotFound
	}
	oldOwner := rec.Owner
	rec.Owner = m.NewOwner
	s.names[m.Label] = rec

	s.removeOwnedLocked(oldOwner, rec.NameID)
	s.appendOwnedLocked(m.NewOwner, rec.NameID)

	if m.ClearOldPrimary {
		delete(s.primary, oldOwner)
	}
	if m.AssignNewPrimary {
		s.primary[m.NewOwner] = m.Label
	}
	return nil
}

// SetResolver binds a resolver capability reference to the record.
func (s *InMemory) SetResolver(_ context.Context, label, resolver string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.names[label]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.Resolver = resolver
	s.names[label] = rec
	return nil
}

// ClearResolver removes the record's resolver binding.
func (s *InMemory) ClearResolver(_ context.Context, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.names[label]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.Resolver = ""
	s.names[label] = rec
	return nil
}

// SetPrimary points the account's primary name at the label.
func (s *InMemory) SetPrimary(_ context.Context, account, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary[account] = label
	return nil
}

// ClearPrimary removes the account's primary-name entry if present.
func (s *InMemory) ClearPrimary(_ context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.primary, account)
	return nil
}

// SetPremiumOverride records an admin premium override for a label.
func (s *InMemory) SetPremiumOverride(_ context.Context, label string, premium bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[label] = premium
	return nil
}

// UpdateFeeConfig applies an admin mutation under the lock and returns the
// resulting snapshot. The callback must not touch TotalFeesCollected; only
// fee distribution accrues it.
func (s *InMemory) UpdateFeeConfig(_ context.Context, fn func(*models.FeeConfig) error) (models.FeeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.feeConfig
	if err := fn(&next); err != nil {
		return models.FeeConfig{}, err
	}
	next.TotalFeesCollected = s.feeConfig.TotalFeesCollected
	s.feeConfig = next
	return next, nil
}

// ---------------------------------------------------------------------------
// Owner index maintenance
// ---------------------------------------------------------------------------

// appendOwnedLocked inserts an id into an account's owned list. Insertion
// past the capacity bound is a silent no-op: the registration still succeeds
// and only the index is incomplete. Reference behavior, pinned by tests.
func (s *InMemory) appendOwnedLocked(owner string, nameID uint64) {
	ids := s.owned[owner]
	if len(ids) >= s.ownerCap {
		return
	}
	s.owned[owner] = append(ids, nameID)
}

func (s *InMemory) removeOwnedLocked(owner string, nameID uint64) {
	ids := s.owned[owner]
	for i, id := range ids {
		if id == nameID {
			s.owned[owner] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}
