package models

import "time"

// NameRecord is the aggregate root for one registered label.
//
// Invariants:
//   - Label is the unique active key while now <= ExpiryAt + grace
//   - NameID is strictly increasing and never reused, even when the same
//     label is re-registered after full expiry
//   - FullName is deterministically derived from the label and the suffix
//   - ExpiryAt = CreatedAt + registration period at creation, and each
//     renewal extends it from the previous ExpiryAt, not from now, so
//     renewing early never loses banked time
//
// A fully expired record is not deleted in place; it is overwritten by the
// next successful registration of the same label, which allocates a fresh
// NameID. Reverse-index entries for the old NameID go historically stale and
// are retained by design.
type NameRecord struct {
	NameID        uint64    `json:"name_id"`
	Label         string    `json:"label"`
	FullName      string    `json:"full_name"`
	Owner         string    `json:"owner"`
	Resolver      string    `json:"resolver,omitempty"`
	ExpiryAt      time.Time `json:"expiry_at"`
	IsPremium     bool      `json:"is_premium"`
	CreatedAt     time.Time `json:"created_at"`
	LastRenewedAt time.Time `json:"last_renewed_at"`
}

// LifecycleState partitions a record's rights window.
type LifecycleState string

const (
	// LifecycleActive: full rights. Owner may transfer and mutate resolver
	// and primary name; anyone may renew (gift renewal).
	LifecycleActive LifecycleState = "active"
	// LifecycleGrace: renewal-only, owner-only lock window. The name is not
	// yet available to others and no other mutation is permitted.
	LifecycleGrace LifecycleState = "grace"
	// LifecycleFullyExpired: past the grace window; the label is available
	// for anyone to register fresh.
	LifecycleFullyExpired LifecycleState = "fully_expired"
)

// Lifecycle evaluates the record's state at the given instant. Pure function
// of (now, ExpiryAt, grace); every mutating operation gates on it.
func (r *NameRecord) Lifecycle(now time.Time, grace time.Duration) LifecycleState {
	if !now.After(r.ExpiryAt) {
		return LifecycleActive
	}
	if !now.After(r.ExpiryAt.Add(grace)) {
		return LifecycleGrace
	}
	return LifecycleFullyExpired
}

// IsActive reports whether the record grants full rights at now.
func (r *NameRecord) IsActive(now time.Time, grace time.Duration) bool {
	return r.Lifecycle(now, grace) == LifecycleActive
}

// IsFullyExpired reports whether the label is available for fresh registration.
func (r *NameRecord) IsFullyExpired(now time.Time, grace time.Duration) bool {
	return r.Lifecycle(now, grace) == LifecycleFullyExpired
}

// ApplyRenewal extends the record from its previous expiry by one period.
func (r *NameRecord) ApplyRenewal(period time.Duration, now time.Time) {
	r.ExpiryAt = r.ExpiryAt.Add(period)
	r.LastRenewedAt = now
}
