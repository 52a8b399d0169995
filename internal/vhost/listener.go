package vhost

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// listenerFD extracts the raw, already-non-blocking file descriptor
// backing ln via its SyscallConn, the idiomatic Go substitute for the
// original's TcpListener::as_raw_fd (spec.md §4.1's `open`/`id`). The
// net.Listener is kept alive by the caller so the fd is never closed
// out from under the poller.
func listenerFD(ln net.Listener) (int, error) {
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not a *net.TCPListener: %T", ln)
	}

	sc, err := tcpLn.SyscallConn()
	if err != nil {
		return 0, fmt.Errorf("obtaining syscall conn: %w", err)
	}

	var fd int
	var ctrlErr error
	err = sc.Control(func(raw uintptr) {
		dup, dupErr := unix.Dup(int(raw))
		if dupErr != nil {
			ctrlErr = dupErr
			return
		}
		if setErr := unix.SetNonblock(dup, true); setErr != nil {
			unix.Close(dup)
			ctrlErr = setErr
			return
		}
		fd = dup
	})
	if err != nil {
		return 0, fmt.Errorf("control: %w", err)
	}
	if ctrlErr != nil {
		return 0, fmt.Errorf("duplicating listener fd: %w", ctrlErr)
	}
	return fd, nil
}

// acceptAll drains every pending connection on the listening fd lnFD,
// registering each with the host's global readiness instance (spec.md
// §4.1's `accept_into`: "drain pending accepts... on WouldBlock, returns
// success").
func (h *Host) acceptAll(lnFD int) {
	for {
		connFD, _, err := unix.Accept4(lnFD, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			h.log.Errorf("vhost %s: accept: %v", h.name, err)
			return
		}

		if err := h.poller.AddRead(connFD); err != nil {
			h.log.Errorf("vhost %s: registering accepted fd %d: %v", h.name, connFD, err)
			unix.Close(connFD)
			continue
		}
		h.conns[connFD] = &connState{fd: connFD}
	}
}
