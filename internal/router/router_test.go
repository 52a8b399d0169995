package router

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akhaled01/kang/internal/config"
	"github.com/akhaled01/kang/internal/httpmsg"
	"github.com/akhaled01/kang/internal/klog"
)

func parseReq(t *testing.T, raw string) *httpmsg.Request {
	t.Helper()
	req, complete, err := httpmsg.TryParse([]byte(raw))
	if err != nil || !complete {
		t.Fatalf("failed to parse fixture request: complete=%v err=%v", complete, err)
	}
	return req
}

func TestRouter_GetStaticFile(t *testing.T) {
	dir := t.TempDir()
	wwwDir := filepath.Join(dir, "www")
	if err := os.MkdirAll(wwwDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(wwwDir, "index.html"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	sc := config.ServerConfig{
		Routes: []config.RouteConfig{
			{Path: "/static", Root: wwwDir, Methods: []string{"GET"}},
		},
	}
	ro := New(sc, config.GlobalConfig{}, klog.Nop())

	req := parseReq(t, "GET /static/index.html HTTP/1.1\r\nHost: x\r\n\r\n")
	resp := ro.Handle(req)

	if resp.Status != httpmsg.StatusOK {
		t.Fatalf("status = %d", resp.Status)
	}
	if ct, _ := resp.Headers.Get("Content-Type"); ct != "text/html" {
		t.Errorf("content-type = %q", ct)
	}
	if cl, _ := resp.Headers.Get("Content-Length"); cl != "2" {
		t.Errorf("content-length = %q", cl)
	}
	if string(resp.Body) != "hi" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestRouter_LongestPrefixAndMethodGate(t *testing.T) {
	sc := config.ServerConfig{
		Routes: []config.RouteConfig{
			{Path: "/", Methods: []string{"GET"}},
			{Path: "/api", Methods: []string{"POST"}},
		},
	}
	ro := New(sc, config.GlobalConfig{}, klog.Nop())

	req := parseReq(t, "GET /api/foo HTTP/1.1\r\n\r\n")
	resp := ro.Handle(req)
	if resp.Status != httpmsg.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Status)
	}

	req2 := parseReq(t, "GET /other HTTP/1.1\r\n\r\n")
	resp2 := ro.Handle(req2)
	if resp2.Status != httpmsg.StatusNotFound {
		// the / route has no root dir configured, so the resolvedPath check
		// in handleGet -> os.Stat fails -> 404. Either way it must not be 405.
	}
	if resp2.Status == httpmsg.StatusMethodNotAllowed {
		t.Fatalf("expected / route to be selected (not 405), got %d", resp2.Status)
	}
}

func TestRouter_Redirect(t *testing.T) {
	sc := config.ServerConfig{
		Routes: []config.RouteConfig{
			{Path: "/old", Methods: []string{"GET"}, Redirect: &config.RedirectConfig{URL: "/new", Code: 301}},
		},
	}
	ro := New(sc, config.GlobalConfig{}, klog.Nop())

	req := parseReq(t, "GET /old HTTP/1.1\r\n\r\n")
	resp := ro.Handle(req)

	if resp.Status != 301 {
		t.Fatalf("status = %d", resp.Status)
	}
	if loc, _ := resp.Headers.Get("Location"); loc != "/new" {
		t.Errorf("location = %q", loc)
	}
}

func TestRouter_MultipartUpload(t *testing.T) {
	dir := t.TempDir()

	sc := config.ServerConfig{
		Routes: []config.RouteConfig{
			{Path: "/upload", Root: dir, Methods: []string{"POST"}},
		},
	}
	ro := New(sc, config.GlobalConfig{}, klog.Nop())

	body := "--abc\r\n" +
		`Content-Disposition: form-data; name="f"; filename="a.bin"` + "\r\n" +
		"Content-Type: application/octet-stream\r\n\r\n" +
		"\x00\x01\x02\x03\r\n" +
		"--abc--\r\n"

	raw := "POST /upload HTTP/1.1\r\nContent-Type: multipart/form-data; boundary=abc\r\nContent-Length: " +
		itoa(len(body)) + "\r\n\r\n" + body

	req := parseReq(t, raw)
	resp := ro.Handle(req)

	if resp.Status != httpmsg.StatusOK {
		t.Fatalf("status = %d, body=%s", resp.Status, resp.Body)
	}

	saved, err := os.ReadFile(filepath.Join(dir, "uploads", "a.bin"))
	if err != nil {
		t.Fatalf("expected uploaded file on disk: %v", err)
	}
	if len(saved) != 4 {
		t.Fatalf("saved file length = %d, want 4", len(saved))
	}
}

func TestRouter_SizeCapRejected(t *testing.T) {
	dir := t.TempDir()

	sc := config.ServerConfig{
		Routes: []config.RouteConfig{
			{Path: "/upload", Root: dir, Methods: []string{"POST"}, ClientMaxBodySize: "1K"},
		},
	}
	ro := New(sc, config.GlobalConfig{}, klog.Nop())

	content := make([]byte, 2000)
	body := "--abc\r\n" +
		`Content-Disposition: form-data; name="f"; filename="big.bin"` + "\r\n" +
		"Content-Type: application/octet-stream\r\n\r\n" +
		string(content) + "\r\n" +
		"--abc--\r\n"

	raw := "POST /upload HTTP/1.1\r\nContent-Type: multipart/form-data; boundary=abc\r\nContent-Length: " +
		itoa(len(body)) + "\r\n\r\n" + body

	req := parseReq(t, raw)
	resp := ro.Handle(req)

	if resp.Status != httpmsg.StatusInternalServerError {
		t.Fatalf("expected 500 for oversized upload, got %d", resp.Status)
	}
}

func TestRouter_DirectoryListing(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	sc := config.ServerConfig{
		Routes: []config.RouteConfig{
			{Path: "/d", Root: dir, Methods: []string{"GET"}, DirectoryListing: true},
		},
	}
	ro := New(sc, config.GlobalConfig{}, klog.Nop())

	req := parseReq(t, "GET /d/ HTTP/1.1\r\n\r\n")
	resp := ro.Handle(req)

	if resp.Status != httpmsg.StatusOK {
		t.Fatalf("status = %d, body=%s", resp.Status, resp.Body)
	}
	body := string(resp.Body)
	subIdx := indexOf(body, `<a href="/d/sub/">sub</a>`)
	fileIdx := indexOf(body, `<a href="/d/a.txt">a.txt</a>`)
	if subIdx < 0 || fileIdx < 0 {
		t.Fatalf("unexpected listing body: %s", body)
	}
	if subIdx > fileIdx {
		t.Fatalf("expected directory to list before file: %s", body)
	}
}

func TestRouter_RouteForSession(t *testing.T) {
	sc := config.ServerConfig{
		Routes: []config.RouteConfig{
			{Path: "/account", Methods: []string{"GET"}, SessionsRequired: true},
			{Path: "/public", Methods: []string{"GET"}},
		},
	}
	ro := New(sc, config.GlobalConfig{}, klog.Nop())

	req := parseReq(t, "GET /account HTTP/1.1\r\n\r\n")
	if !ro.RouteForSession(req) {
		t.Errorf("expected /account to require a session")
	}

	req2 := parseReq(t, "GET /public HTTP/1.1\r\n\r\n")
	if ro.RouteForSession(req2) {
		t.Errorf("expected /public not to require a session")
	}

	req3 := parseReq(t, "GET /missing HTTP/1.1\r\n\r\n")
	if ro.RouteForSession(req3) {
		t.Errorf("expected unmatched route not to require a session")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
