package session

import (
	"testing"
	"time"

	"github.com/akhaled01/kang/internal/httpmsg"
)

func newRequestWithCookie(cookie string) *httpmsg.Request {
	h := httpmsg.NewHeaders()
	if cookie != "" {
		h.Set("Cookie", cookie)
	}
	return &httpmsg.Request{Headers: h}
}

func TestGetOrCreate_NewSessionWithoutCookie(t *testing.T) {
	s := New(60, "/", false, true)
	sess := s.GetOrCreate(newRequestWithCookie(""))
	if sess.ID == "" {
		t.Fatalf("expected non-empty session id")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", s.Len())
	}
}

func TestGetOrCreate_SameCookieReturnsSameSession(t *testing.T) {
	s := New(60, "/", false, true)
	first := s.GetOrCreate(newRequestWithCookie(""))

	req2 := newRequestWithCookie("session_id=" + first.ID)
	second := s.GetOrCreate(req2)

	if second.ID != first.ID {
		t.Fatalf("expected same session id, got %s vs %s", first.ID, second.ID)
	}
	if !second.LastAccessed.After(first.CreatedAt) && second.LastAccessed.Before(first.CreatedAt) {
		t.Fatalf("last accessed should not be before created_at")
	}
}

func TestGetOrCreate_UnknownCookieCreatesNew(t *testing.T) {
	s := New(60, "/", false, true)
	sess := s.GetOrCreate(newRequestWithCookie("session_id=does-not-exist"))
	if sess.ID == "does-not-exist" {
		t.Fatalf("should not reuse an unknown session id")
	}
}

func TestSweepExpired(t *testing.T) {
	s := New(1, "/", false, true)
	sess := s.GetOrCreate(newRequestWithCookie(""))
	sess.LastAccessed = time.Now().Add(-2 * time.Minute)

	s.SweepExpired()

	if s.Len() != 0 {
		t.Fatalf("expected expired session to be swept, len=%d", s.Len())
	}
}

func TestAttachCookie(t *testing.T) {
	s := New(60, "/custom", true, true)
	resp := httpmsg.NewResponse(httpmsg.StatusOK)
	s.AttachCookie(resp, "abc123")

	v, ok := resp.Headers.Get("Set-Cookie")
	if !ok {
		t.Fatalf("expected Set-Cookie header")
	}
	if !contains(v, "session_id=abc123") || !contains(v, "path=/custom") || !contains(v, "Secure") || !contains(v, "HttpOnly") {
		t.Errorf("unexpected cookie string: %q", v)
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}
