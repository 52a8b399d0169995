package httpmsg

import (
	"fmt"
	"strconv"
	"strings"
)

// Response is an in-memory HTTP response assembled by the router and
// serialized to wire bytes by Bytes().
type Response struct {
	Status  StatusCode
	Headers Headers
	Body    []byte
}

// NewResponse builds a Response with the default headers every kang
// response carries (spec.md §3): Server: Kang, Connection: close.
func NewResponse(status StatusCode) *Response {
	r := &Response{Status: status, Headers: NewHeaders()}
	r.Headers.Set("Server", "Kang")
	r.Headers.Set("Connection", "close")
	return r
}

// SetBody stores body and sets Content-Length to its length.
func (r *Response) SetBody(body []byte) {
	r.Body = body
	r.Headers.Set("Content-Length", strconv.Itoa(len(body)))
}

// SetBodyString is a convenience wrapper over SetBody.
func (r *Response) SetBodyString(s string) {
	r.SetBody([]byte(s))
}

// Bytes serializes the response to the wire format: status line, headers,
// blank line, body.
func (r *Response) Bytes() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", r.Status, r.Status.Text())
	for _, k := range r.Headers.Keys() {
		v, _ := r.Headers.Get(k)
		fmt.Fprintf(&b, "%s: %s\r\n", canonicalHeaderName(k), v)
	}
	b.WriteString("\r\n")

	out := make([]byte, 0, b.Len()+len(r.Body))
	out = append(out, []byte(b.String())...)
	out = append(out, r.Body...)
	return out
}

// canonicalHeaderName emits every header name title-cased per hyphen
// segment ("content-type" -> "Content-Type"); there is no table of
// special spellings. Headers is case-insensitive internally (spec.md §3 discards
// original casing), so this is purely cosmetic for wire compatibility.
func canonicalHeaderName(lower string) string {
	segs := strings.Split(lower, "-")
	for i, s := range segs {
		if s == "" {
			continue
		}
		segs[i] = strings.ToUpper(s[:1]) + s[1:]
	}
	return strings.Join(segs, "-")
}
