package httpmsg

import (
	"strings"
	"time"
)

// Cookie models a Set-Cookie directive (spec.md §3).
type Cookie struct {
	Name     string
	Value    string
	Expires  *time.Time
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
}

// String renders the cookie as a Set-Cookie header value.
func (c Cookie) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	if c.Expires != nil {
		b.WriteString("; expires=")
		b.WriteString(c.Expires.UTC().Format(time.RFC1123Z))
	}
	if c.Path != "" {
		b.WriteString("; path=")
		b.WriteString(c.Path)
	}
	if c.Domain != "" {
		b.WriteString("; domain=")
		b.WriteString(c.Domain)
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	return b.String()
}

// ParseCookieHeader parses a request's Cookie header into name->value
// pairs. Supports multiple "name=value; name=value" pairs per spec.md §9
// (Cookie parser scope) — only equality comparison on name is required, so
// the last occurrence of a repeated name wins.
func ParseCookieHeader(header string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			continue
		}
		name := strings.TrimSpace(part[:eq])
		value := strings.TrimSpace(part[eq+1:])
		out[name] = value
	}
	return out
}
