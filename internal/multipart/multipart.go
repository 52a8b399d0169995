// Package multipart decodes multipart/form-data bodies into fields and
// uploaded files, byte-for-byte and binary-safe (spec.md §4.3). It is a
// from-scratch decoder — not net/http's mime/multipart — because the body
// is already fully buffered in memory (no streaming contract to honor) and
// spec.md pins an exact boundary-scanning algorithm this package mirrors
// directly, grounded on the original's http/upload.rs::MultipartFormData::parse.
package multipart

import (
	"bytes"
	"fmt"
	"strings"
)

// File is a decoded uploaded file part.
type File struct {
	Name        string
	Filename    string
	ContentType string
	Content     []byte
}

// FormData is the decoded result of a multipart/form-data body: ordered
// files plus a name->value field map.
type FormData struct {
	Fields map[string]string
	Files  []File
}

// ErrInvalidMultipart marks a malformed or empty body, or a Content-Type
// missing its boundary parameter (spec.md §4.3).
var ErrInvalidMultipart = fmt.Errorf("multipart: invalid body")

// BoundaryFromContentType extracts the boundary parameter from a
// Content-Type header value like `multipart/form-data; boundary=abc123`,
// stripping surrounding quotes.
func BoundaryFromContentType(contentType string) (string, bool) {
	parts := strings.Split(contentType, ";")
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if !strings.HasPrefix(strings.ToLower(p), "boundary=") {
			continue
		}
		v := p[len("boundary="):]
		v = strings.Trim(v, `"`)
		if v == "" {
			return "", false
		}
		return v, true
	}
	return "", false
}

// IsMultipartFormData reports whether contentType names the
// multipart/form-data media type (ignoring parameters and case).
func IsMultipartFormData(contentType string) bool {
	mediaType := contentType
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		mediaType = contentType[:idx]
	}
	return strings.EqualFold(strings.TrimSpace(mediaType), "multipart/form-data")
}

// Parse decodes body using the boundary declared in contentType.
func Parse(body []byte, contentType string) (*FormData, error) {
	if len(body) == 0 {
		return nil, ErrInvalidMultipart
	}

	boundary, ok := BoundaryFromContentType(contentType)
	if !ok {
		return nil, ErrInvalidMultipart
	}

	fullBoundary := []byte("--" + boundary)

	var positions []int
	pos := 0
	for {
		idx := bytes.Index(body[pos:], fullBoundary)
		if idx < 0 {
			break
		}
		positions = append(positions, pos+idx)
		pos = pos + idx + len(fullBoundary)
	}
	if len(positions) == 0 {
		return nil, ErrInvalidMultipart
	}

	data := &FormData{Fields: make(map[string]string)}

	for i := 0; i < len(positions)-1; i++ {
		start := positions[i] + len(fullBoundary)
		end := positions[i+1]

		// A boundary immediately followed by "--" is the terminator; stop
		// scanning entirely (spec.md §4.3 step 2).
		if start+2 <= len(body) && string(body[start:start+2]) == "--" {
			break
		}

		// Skip the single CRLF after the opening boundary.
		if start+2 > len(body) || string(body[start:start+2]) != "\r\n" {
			continue
		}
		start += 2

		headerEnd := bytes.Index(body[start:end], []byte("\r\n\r\n"))
		if headerEnd < 0 {
			continue
		}
		headerEnd += start

		headerText := string(body[start:headerEnd])
		contentStart := headerEnd + 4

		contentEnd := end
		if end >= 2 && string(body[end-2:end]) == "\r\n" {
			contentEnd = end - 2
		}
		if contentStart > contentEnd {
			continue
		}
		content := body[contentStart:contentEnd]

		name, hasName := extractQuotedParam(headerText, "Content-Disposition", "name")
		if !hasName {
			continue
		}
		filename, hasFilename := extractQuotedParam(headerText, "Content-Disposition", "filename")
		partContentType := extractHeaderValue(headerText, "Content-Type")
		if partContentType == "" {
			partContentType = "application/octet-stream"
		}

		if hasFilename {
			data.Files = append(data.Files, File{
				Name:        name,
				Filename:    filename,
				ContentType: partContentType,
				Content:     append([]byte(nil), content...),
			})
		} else {
			data.Fields[name] = string(content)
		}
	}

	return data, nil
}

// extractQuotedParam scans headerText's lines for one whose name matches
// headerName (case-insensitive) and that contains `param="value"`,
// returning value. Scanning line-by-line (rather than assuming a fixed
// parameter order) tolerates "filename" appearing before or after "name",
// per SPEC_FULL.md's supplemented Content-Disposition tolerance.
func extractQuotedParam(headerText, headerName, param string) (string, bool) {
	needle := strings.ToLower(param) + "="
	for _, line := range strings.Split(headerText, "\r\n") {
		if !strings.Contains(strings.ToLower(line), strings.ToLower(headerName)+":") {
			continue
		}
		// Split into `;`-delimited tokens so "name=" never matches inside
		// "filename=" — a plain substring search would resolve `name` to
		// whatever follows "file" when filename appears first.
		for _, tok := range strings.Split(line, ";") {
			tok = strings.TrimSpace(tok)
			if !strings.HasPrefix(strings.ToLower(tok), needle) {
				continue
			}
			rest := tok[len(needle):]
			if !strings.HasPrefix(rest, `"`) {
				break
			}
			rest = rest[1:]
			end := strings.IndexByte(rest, '"')
			if end < 0 {
				break
			}
			return rest[:end], true
		}
	}
	return "", false
}

// extractHeaderValue returns the trimmed value of the first header line
// named headerName, or "" if absent.
func extractHeaderValue(headerText, headerName string) string {
	for _, line := range strings.Split(headerText, "\r\n") {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(line[:colon]), headerName) {
			return strings.TrimSpace(line[colon+1:])
		}
	}
	return ""
}
