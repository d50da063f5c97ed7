package tenancy

import "strings"

// ReservedSet holds subdomain labels reserved for platform infrastructure,
// never assignable to a tenant. Immutable after construction.
type ReservedSet struct {
	labels map[string]struct{}
}

// NewReservedSet builds a ReservedSet from the configured labels.
// Membership tests are case-insensitive.
func NewReservedSet(labels []string) *ReservedSet {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[strings.ToLower(l)] = struct{}{}
	}
	return &ReservedSet{labels: set}
}

// Contains reports whether label is reserved. The empty label (root domain)
// is never reserved.
func (s *ReservedSet) Contains(label string) bool {
	if label == "" {
		return false
	}
	_, ok := s.labels[strings.ToLower(label)]
	return ok
}
