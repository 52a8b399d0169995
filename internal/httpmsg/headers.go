package httpmsg

import "strings"

// Headers is a case-insensitive header map with last-value-wins
// semantics on duplicate keys, per spec.md §3 (original casing is
// discarded — keys are stored lower-cased).
type Headers struct {
	values map[string]string
	// order preserves insertion order for deterministic serialization.
	order []string
}

// NewHeaders returns an empty Headers.
func NewHeaders() Headers {
	return Headers{values: make(map[string]string)}
}

// Set stores value under the lower-cased key, overwriting any previous
// value and not duplicating the key in iteration order.
func (h *Headers) Set(key, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
	}
	lk := strings.ToLower(key)
	if _, exists := h.values[lk]; !exists {
		h.order = append(h.order, lk)
	}
	h.values[lk] = value
}

// Get returns the value stored for key (case-insensitive) and whether it
// was present.
func (h Headers) Get(key string) (string, bool) {
	v, ok := h.values[strings.ToLower(key)]
	return v, ok
}

// GetDefault returns the stored value or def if absent.
func (h Headers) GetDefault(key, def string) string {
	if v, ok := h.Get(key); ok {
		return v
	}
	return def
}

// Has reports whether key is present.
func (h Headers) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// ContainsFold reports whether the header named key exists and its value
// contains needle, case-insensitively — used for Transfer-Encoding/
// Connection token checks.
func (h Headers) ContainsFold(key, needle string) bool {
	v, ok := h.Get(key)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(v), strings.ToLower(needle))
}

// EqualFold reports whether the header named key exists and equals want,
// case-insensitively.
func (h Headers) EqualFold(key, want string) bool {
	v, ok := h.Get(key)
	if !ok {
		return false
	}
	return strings.EqualFold(v, want)
}

// Keys returns header names in insertion order, lower-cased.
func (h Headers) Keys() []string {
	return append([]string(nil), h.order...)
}
