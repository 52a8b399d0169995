package cgiexec

import "testing"

func TestParseOutput_WithHeaders(t *testing.T) {
	out := []byte("Content-Type: application/json\r\nX-Custom: yes\r\n\r\n{\"ok\":true}")
	res := parseOutput(out)
	if res.Headers["Content-Type"] != "application/json" {
		t.Errorf("content-type = %q", res.Headers["Content-Type"])
	}
	if res.Headers["X-Custom"] != "yes" {
		t.Errorf("x-custom = %q", res.Headers["X-Custom"])
	}
	if string(res.Body) != `{"ok":true}` {
		t.Errorf("body = %q", res.Body)
	}
}

func TestParseOutput_NoHeaders(t *testing.T) {
	out := []byte("<html>hi</html>")
	res := parseOutput(out)
	if res.Headers["Content-Type"] != "text/html" {
		t.Errorf("content-type = %q", res.Headers["Content-Type"])
	}
	if string(res.Body) != "<html>hi</html>" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestBuildEnv_RequiredVars(t *testing.T) {
	env := buildEnv(Request{Method: "GET", ScriptPath: "/a.php", Interpreter: "php-cgi"})
	want := map[string]bool{
		"GATEWAY_INTERFACE=CGI/1.1":  false,
		"SERVER_PROTOCOL=HTTP/1.1":   false,
		"SERVER_SOFTWARE=Kang/1.0":   false,
		"SCRIPT_FILENAME=/a.php":     false,
		"REDIRECT_STATUS=200":        false,
		"REQUEST_METHOD=GET":         false,
	}
	for _, e := range env {
		if _, ok := want[e]; ok {
			want[e] = true
		}
	}
	for k, found := range want {
		if !found {
			t.Errorf("missing required env var %q", k)
		}
	}
}
