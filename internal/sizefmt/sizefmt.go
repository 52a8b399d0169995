// Package sizefmt parses the "client_max_body_size" style size strings used
// throughout kang's configuration: a decimal integer suffixed with K, M or G
// (case-insensitive), interpreted as x1000, x1_000_000, x1_000_000_000.
package sizefmt

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxBodySize is used whenever a size string is absent or fails to
// parse.
const DefaultMaxBodySize uint64 = 10_000_000

// Parse converts a size string like "10M" or "512k" into a byte count.
func Parse(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("sizefmt: empty size string")
	}

	suffix := s[len(s)-1]
	var multiplier uint64
	switch suffix {
	case 'k', 'K':
		multiplier = 1_000
	case 'm', 'M':
		multiplier = 1_000_000
	case 'g', 'G':
		multiplier = 1_000_000_000
	default:
		return 0, fmt.Errorf("sizefmt: %q has no K/M/G suffix", s)
	}

	numPart := s[:len(s)-1]
	n, err := strconv.ParseUint(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sizefmt: invalid numeric part in %q: %w", s, err)
	}

	return n * multiplier, nil
}

// ParseOrDefault parses s, falling back to DefaultMaxBodySize when s is
// empty or malformed — the behavior every caller in this codebase wants,
// matching the original's UploadHandler::new which never surfaces a parse
// error to its caller.
func ParseOrDefault(s string) uint64 {
	if s == "" {
		return DefaultMaxBodySize
	}
	n, err := Parse(s)
	if err != nil {
		return DefaultMaxBodySize
	}
	return n
}
