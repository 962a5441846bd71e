package models

import (
	"strings"
	"unicode/utf8"

	dErrors "namereg/pkg/domain-errors"
)

const (
	// MaxLabelLength bounds each label part in code points. The rendered full
	// name (label plus suffix) may reach twice that before the suffix.
	MaxLabelLength = 32

	// MaxFullNameLength bounds the rendered full name.
	MaxFullNameLength = 64

	// PremiumLengthThreshold: labels at or under this many code points price
	// at the premium multiplier unless an admin override says otherwise.
	PremiumLengthThreshold = 4
)

// ParsedLabel is the validated shape of a requested label. A request with
// exactly one dot is a one-level subdomain; Parent and Child are the parts
// around the first dot. Key is always the exact string the name store indexes
// by, dot included for subdomains.
//
// Character-set restrictions (lowercase ascii, digits, hyphen) are a
// presentation-layer concern enforced before submission; the core only
// enforces emptiness, length and dot shape.
type ParsedLabel struct {
	Key    string
	Parent string
	Child  string
}

// IsSubdomain reports whether the request is a one-level subdomain.
func (p ParsedLabel) IsSubdomain() bool { return p.Parent != "" }

// FullName renders the externally visible name under the given suffix:
// label.suffix, or child.parent.suffix for a subdomain.
func (p ParsedLabel) FullName(suffix string) string {
	if p.IsSubdomain() {
		return p.Child + "." + p.Parent + "." + suffix
	}
	return p.Key + "." + suffix
}

// ParseLabel validates a raw label request.
//
// Rules: non-empty; each part at most MaxLabelLength code points; at most one
// dot, with both sides non-empty. More than one dot, or a leading/trailing
// dot, is a malformed request.
func ParseLabel(raw string) (ParsedLabel, error) {
	if raw == "" {
		return ParsedLabel{}, dErrors.New(dErrors.CodeEmptyLabel, "label is required")
	}

	switch strings.Count(raw, ".") {
	case 0:
		if err := validatePart(raw); err != nil {
			return ParsedLabel{}, err
		}
		return ParsedLabel{Key: raw}, nil
	case 1:
		child, parent, _ := strings.Cut(raw, ".")
		if child == "" || parent == "" {
			return ParsedLabel{}, dErrors.New(dErrors.CodeInvalidLabel, "label has a leading or trailing dot")
		}
		if err := validatePart(child); err != nil {
			return ParsedLabel{}, err
		}
		if err := validatePart(parent); err != nil {
			return ParsedLabel{}, err
		}
		return ParsedLabel{Key: raw, Parent: parent, Child: child}, nil
	default:
		return ParsedLabel{}, dErrors.New(dErrors.CodeInvalidLabel, "label may contain at most one dot")
	}
}

func validatePart(part string) error {
	if part == "" {
		return dErrors.New(dErrors.CodeEmptyLabel, "label part is empty")
	}
	if utf8.RuneCountInString(part) > MaxLabelLength {
		return dErrors.Newf(dErrors.CodeLabelTooLong, "label part exceeds %d code points", MaxLabelLength)
	}
	return nil
}

// IsPremiumByLength is the automatic premium rule: short labels are premium.
// A subdomain is measured by its whole requested string, dot and parent
// included, so it is almost never premium in practice; the rule is the same
// general length test, not a special case.
func IsPremiumByLength(labelKey string) bool {
	return utf8.RuneCountInString(labelKey) <= PremiumLengthThreshold
}
