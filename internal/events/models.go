// Package events carries the registrar's structured event stream.
//
// Every state-changing operation emits exactly one event for external
// indexers. Emission is best-effort narration: a sink failure is logged and
// never aborts the operation that produced it.
package events

import "time"

// Kind identifies what happened.
type Kind string

const (
	KindNameRegistered  Kind = "name_registered"
	KindNameRenewed     Kind = "name_renewed"
	KindNameTransferred Kind = "name_transferred"
	KindResolverSet     Kind = "resolver_set"
	KindResolverCleared Kind = "resolver_cleared"
	KindPrimarySet      Kind = "primary_set"
	KindPrimaryCleared  Kind = "primary_cleared"
	KindConfigChanged   Kind = "config_changed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"kind"`
	Timestamp time.Time         `json:"timestamp"`
	Label     string            `json:"label,omitempty"`
	Account   string            `json:"account,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}
