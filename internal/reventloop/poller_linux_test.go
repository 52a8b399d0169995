//go:build linux

package reventloop

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestEpollPoller_ReadReadiness(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	fds, err := unixPipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	if err := p.AddRead(fds[0]); err != nil {
		t.Fatalf("AddRead: %v", err)
	}

	if _, err := unix.Write(fds[1], []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	events, err := p.Wait(1000)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Fd != fds[0] || !events[0].Readable {
		t.Fatalf("unexpected event: %+v", events[0])
	}

	if err := p.Remove(fds[0]); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func unixPipe() ([2]int, error) {
	var fds [2]int
	err := unix.Pipe(fds[:])
	return fds, err
}
