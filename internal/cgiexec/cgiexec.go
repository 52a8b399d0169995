// Package cgiexec launches a CGI/1.1 interpreter subprocess and parses its
// stdout into response headers + body (spec.md §4.5). Grounded on the
// original's cgi/php.rs::PhpExecContext, generalized from a PHP-only
// handler to any interpreter/extension pair per spec.md's CGI mapping.
package cgiexec

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Request is the subset of request data a CGI invocation needs.
type Request struct {
	Method      string
	ScriptPath  string
	Interpreter string
	Extra       map[string]string // additional CGI variables the caller wants set
}

// Result is the parsed CGI response: headers plus body.
type Result struct {
	Headers map[string]string
	Body    []byte
}

// ErrExec wraps any spawn/wait failure — callers should turn this into a
// 500 response (spec.md §4.5, §7).
var ErrExec = fmt.Errorf("cgiexec: subprocess failed")

// Run spawns req.Interpreter with req.ScriptPath as its single argument,
// using a fully-cleared CGI/1.1 environment, captures stdout, and parses
// it into a Result. Run blocks for the full duration of the subprocess —
// the owning event loop is blocked for that long too. This is an accepted
// limitation carried over unchanged from spec.md §5/§9 ("the current
// design blocks the loop during wait"); a production fix would offload
// execution to a worker goroutine and re-post readiness when stdout
// closes, which this module deliberately does not do.
func Run(req Request) (*Result, error) {
	cmd := exec.Command(req.Interpreter, req.ScriptPath)
	cmd.Env = buildEnv(req)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v (stderr: %s)", ErrExec, req.ScriptPath, err, stderr.String())
	}

	return parseOutput(stdout.Bytes()), nil
}

// buildEnv produces the required CGI/1.1 environment variables (spec.md
// §4.5) with no variables inherited from the server process.
func buildEnv(req Request) []string {
	env := []string{
		"GATEWAY_INTERFACE=CGI/1.1",
		"SERVER_PROTOCOL=HTTP/1.1",
		"SERVER_SOFTWARE=Kang/1.0",
		"SCRIPT_FILENAME=" + req.ScriptPath,
		"REDIRECT_STATUS=200",
		"REQUEST_METHOD=" + req.Method,
	}
	for k, v := range req.Extra {
		env = append(env, k+"="+v)
	}
	return env
}

// parseOutput splits CGI stdout into headers + body on the first CRLFCRLF,
// defaulting to Content-Type: text/html with the whole output as body when
// no header terminator is present (spec.md §4.5).
func parseOutput(out []byte) *Result {
	idx := bytes.Index(out, []byte("\r\n\r\n"))
	if idx < 0 {
		return &Result{
			Headers: map[string]string{"Content-Type": "text/html"},
			Body:    out,
		}
	}

	headerText := string(out[:idx])
	body := out[idx+4:]

	headers := make(map[string]string)
	for _, line := range strings.Split(headerText, "\r\n") {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		name := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		headers[name] = value
	}

	return &Result{Headers: headers, Body: body}
}
