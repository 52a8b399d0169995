package vhost

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akhaled01/kang/internal/config"
	"github.com/akhaled01/kang/internal/klog"
)

// TestHost_ServesStaticFile exercises the full C9 loop end-to-end over a
// real loopback TCP connection: bind, accept, parse, route, write,
// close (spec.md §8 scenario 1).
func TestHost_ServesStaticFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	sc := config.ServerConfig{
		ServerName: []string{"test"},
		Routes: []config.RouteConfig{
			{Path: "/", Root: dir, Methods: []string{"GET"}},
		},
	}

	h, err := New(sc, config.GlobalConfig{}, klog.Nop(), []net.Listener{ln})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	go func() {
		_ = h.Run()
	}()

	addr := ln.Addr().String()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("GET /hello.txt HTTP/1.1\r\nHost: x\r\n\r\n")); err != nil {
		t.Fatalf("write request: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(conn)
	statusLine, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	if statusLine != "HTTP/1.1 200 OK\r\n" {
		t.Fatalf("status line = %q", statusLine)
	}
}
