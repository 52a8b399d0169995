package vhost

import (
	"golang.org/x/sys/unix"

	"github.com/akhaled01/kang/internal/httpmsg"
)

// serviceConn implements spec.md §4.8 step 5-6: read until WouldBlock,
// try to parse a complete request on every read, and on completion
// dispatch, write the response, then close — each connection serves at
// most one request (spec.md §1 Non-goals: no pipelining).
func (h *Host) serviceConn(fd int) {
	state, ok := h.conns[fd]
	if !ok {
		return
	}

	if !h.drainInto(fd, state) {
		return
	}

	req, complete, err := httpmsg.TryParse(state.buf)
	if err != nil {
		h.writeAndClose(fd, errorResponseBytes())
		return
	}
	if !complete {
		// Keep the connection open; the next readiness event re-enters
		// serviceConn with more bytes appended to state.buf.
		return
	}

	resp := h.dispatch(req)
	h.writeAndClose(fd, resp.Bytes())
}

// drainInto reads fd until EAGAIN/EWOULDBLOCK, appending every chunk to
// state.buf (spec.md §4.8 step 5: "reads until WouldBlock, accumulating
// into the per-connection buffer"). Returns false if the connection was
// closed — by the peer (read returns 0) or by an unrecoverable error —
// in which case the caller must not touch fd again.
func (h *Host) drainInto(fd int, state *connState) bool {
	buf := make([]byte, readBufSize)
	for {
		n, err := unix.Read(fd, buf)
		if n > 0 {
			state.buf = append(state.buf, buf[:n]...)
		}
		if n == 0 && err == nil {
			h.closeConn(fd)
			return false
		}
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return true
			}
			h.closeConn(fd)
			return false
		}
	}
}

// writeAndClose performs a synchronous best-effort write of the
// complete byte sequence (spec.md §4.1's `send` contract), then closes
// the connection regardless of write outcome — the server always
// answers Connection: close (spec.md §4.8's state machine terminus).
func (h *Host) writeAndClose(fd int, data []byte) {
	for len(data) > 0 {
		n, err := unix.Write(fd, data)
		if err != nil {
			// Matches the original's stream.write_all on a non-blocking
			// socket: a would-block here is treated as a failed
			// best-effort send, not retried.
			break
		}
		data = data[n:]
	}
	h.closeConn(fd)
}

func (h *Host) closeConn(fd int) {
	h.poller.Remove(fd)
	unix.Close(fd)
	delete(h.conns, fd)
}

// errorResponseBytes renders a bare 400 Bad Request for protocol errors
// surfaced directly by the parser (spec.md §7: "malformed request line,
// non-UTF-8 headers... → 400 Bad Request").
func errorResponseBytes() []byte {
	resp := httpmsg.NewResponse(httpmsg.StatusBadRequest)
	resp.Headers.Set("Content-Type", "text/html")
	resp.SetBodyString("400 Bad Request")
	return resp.Bytes()
}
