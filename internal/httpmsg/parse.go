package httpmsg

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrInvalidRequest marks a malformed request (bad request line, non-UTF-8
// headers) — callers should turn this into a 400 response (spec.md §4.2,
// §7).
var ErrInvalidRequest = fmt.Errorf("httpmsg: invalid request")

var crlfcrlf = []byte("\r\n\r\n")

// TryParse attempts to parse one HTTP request out of buf, the bytes
// accumulated so far from one connection. It returns:
//
//   - (req, true, nil) when a complete request was parsed;
//   - (nil, false, nil) when more bytes are needed (header terminator not
//     yet seen, or a declared Content-Length body not yet fully buffered);
//   - (nil, false, ErrInvalidRequest) when the bytes seen so far can never
//     form a valid request (malformed request line, non-UTF-8 headers).
//
// TryParse is safe to call repeatedly as more bytes arrive (spec.md §4.2:
// "the parser MUST be called incrementally").
func TryParse(buf []byte) (*Request, bool, error) {
	headerEnd := bytes.Index(buf, crlfcrlf)
	if headerEnd == -1 {
		return nil, false, nil
	}

	headerBytes := buf[:headerEnd]
	if !utf8.Valid(headerBytes) {
		return nil, false, ErrInvalidRequest
	}

	lines := strings.Split(string(headerBytes), "\r\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, false, ErrInvalidRequest
	}

	requestLine := strings.Fields(lines[0])
	if len(requestLine) != 3 {
		return nil, false, ErrInvalidRequest
	}
	methodTok, targetTok, versionTok := requestLine[0], requestLine[1], requestLine[2]

	path, query, err := splitTarget(targetTok)
	if err != nil {
		return nil, false, ErrInvalidRequest
	}

	headers := NewHeaders()
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return nil, false, ErrInvalidRequest
		}
		name := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		headers.Set(name, value)
	}

	req := &Request{
		Method:  ParseMethod(methodTok),
		Path:    path,
		Query:   query,
		Version: versionTok,
		Headers: headers,
	}
	req.Chunked = headers.ContainsFold("Transfer-Encoding", "chunked")
	req.KeepAlive = computeKeepAlive(headers, versionTok)

	bodyStart := headerEnd + len(crlfcrlf)
	available := buf[bodyStart:]

	if contentLength, present := req.ContentLength(); present {
		if len(available) < contentLength {
			return nil, false, nil
		}
		req.Body = append([]byte(nil), available[:contentLength]...)
		return req, true, nil
	}

	// No Content-Length: whatever is present is treated as the full body
	// (spec.md §4.2 step 8 — no body expected on GET/DELETE anyway).
	req.Body = append([]byte(nil), available...)
	return req, true, nil
}

// computeKeepAlive implements spec.md §4.2 step 7.
func computeKeepAlive(h Headers, version string) bool {
	if v, ok := h.Get("Connection"); ok {
		return strings.EqualFold(strings.TrimSpace(v), "keep-alive")
	}
	return strings.Contains(version, "1.1")
}

// splitTarget percent-decodes the request target and splits it into path
// and query, percent-decoding both sides of each query pair. Duplicate
// query keys overwrite (last-write-wins), per spec.md §3/§4.2.
func splitTarget(target string) (string, map[string]string, error) {
	rawPath := target
	rawQuery := ""
	if idx := strings.IndexByte(target, '?'); idx >= 0 {
		rawPath = target[:idx]
		rawQuery = target[idx+1:]
	}

	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", nil, err
	}

	query := make(map[string]string)
	if rawQuery != "" {
		for _, pair := range strings.Split(rawQuery, "&") {
			if pair == "" {
				continue
			}
			var key, value string
			if eq := strings.IndexByte(pair, '='); eq >= 0 {
				key, value = pair[:eq], pair[eq+1:]
			} else {
				key = pair
			}
			dk, err := url.QueryUnescape(key)
			if err != nil {
				return "", nil, err
			}
			dv, err := url.QueryUnescape(value)
			if err != nil {
				return "", nil, err
			}
			query[dk] = dv
		}
	}

	return path, query, nil
}

// ParseStatusLine parses a serialized response's status line back into a
// (code, reason) pair — used by round-trip tests (spec.md §8).
func ParseStatusLine(resp []byte) (int, string, error) {
	nl := bytes.IndexByte(resp, '\n')
	if nl < 0 {
		return 0, "", ErrInvalidRequest
	}
	line := strings.TrimRight(string(resp[:nl]), "\r\n")
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return 0, "", ErrInvalidRequest
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", ErrInvalidRequest
	}
	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
	}
	return code, reason, nil
}
