// Package vhost implements the per-virtual-host server event loop
// (spec.md §4.8, component C9): one goroutine aggregates all of a
// virtual host's listening sockets behind a single readiness instance
// and drives the Accepted→Reading→Dispatched→Written→Closed connection
// state machine to completion for each accepted connection. Grounded on
// the original's server/server.rs::Server::listen_and_serve.
package vhost

import (
	"fmt"
	"net"

	"github.com/akhaled01/kang/internal/config"
	"github.com/akhaled01/kang/internal/httpmsg"
	"github.com/akhaled01/kang/internal/klog"
	"github.com/akhaled01/kang/internal/reventloop"
	"github.com/akhaled01/kang/internal/router"
	"github.com/akhaled01/kang/internal/session"
)

// readBufSize is the per-read chunk size drained from a connection fd
// on each readiness event, mirroring the original's `[0u8; 4096]`
// temp_buf in server/listener/epoll.rs::handle_connection.
const readBufSize = 4096

// Host is one virtual host's runtime: its bound listeners, router,
// optional session store, and the global readiness instance its event
// loop blocks on (spec.md §3's runtime Server).
type Host struct {
	name       string
	log        *klog.Logger
	router     *router.Router
	sessions   *session.Store
	poller     reventloop.Poller
	listenFDs  map[int]net.Listener // keeps each listener's fd valid
	listenPort map[int]uint16
	conns      map[int]*connState
}

// connState is the per-connection buffer tracked across suspension
// points (spec.md §3's Connection; §4.8's Reading state).
type connState struct {
	fd  int
	buf []byte
}

// New builds a Host from a virtual host's resolved configuration and
// its already-bound listeners (port-fallback happens in
// internal/supervisor before this is called).
func New(sc config.ServerConfig, global config.GlobalConfig, log *klog.Logger, listeners []net.Listener) (*Host, error) {
	poller, err := reventloop.New()
	if err != nil {
		return nil, fmt.Errorf("vhost %v: creating readiness backend: %w", sc.ServerName, err)
	}

	h := &Host{
		name:       fmt.Sprintf("%v", sc.ServerName),
		log:        log,
		router:     router.New(sc, global, log),
		poller:     poller,
		listenFDs:  make(map[int]net.Listener, len(listeners)),
		listenPort: make(map[int]uint16, len(listeners)),
		conns:      make(map[int]*connState),
	}

	sessionsCfg := sc.Sessions
	if !sessionsCfg.Enabled {
		sessionsCfg = global.Sessions
	}
	if sessionsCfg.Enabled {
		sessionsCfg = sessionsCfg.WithDefaults()
		h.sessions = session.New(sessionsCfg.TimeoutMinutes, sessionsCfg.CookiePath, sessionsCfg.CookieSecure, sessionsCfg.CookieHTTPOnly)
	}

	for _, ln := range listeners {
		fd, err := listenerFD(ln)
		if err != nil {
			poller.Close()
			return nil, fmt.Errorf("vhost %v: %w", sc.ServerName, err)
		}
		if err := poller.AddRead(fd); err != nil {
			poller.Close()
			return nil, fmt.Errorf("vhost %v: registering listener fd %d: %w", sc.ServerName, fd, err)
		}
		h.listenFDs[fd] = ln
		if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
			h.listenPort[fd] = uint16(tcpAddr.Port)
		}
	}

	return h, nil
}

// Run blocks forever, servicing readiness events until Wait returns an
// unrecoverable error (spec.md §4.8's per-server loop never returns in
// the success case, per §6's CLI contract).
func (h *Host) Run() error {
	h.log.Infof("serving %s on %d listener(s)", h.name, len(h.listenFDs))

	for {
		events, err := h.poller.Wait(-1)
		if err != nil {
			return fmt.Errorf("vhost %s: readiness wait: %w", h.name, err)
		}

		for _, ev := range events {
			if !ev.Readable {
				continue
			}
			if _, isListener := h.listenFDs[ev.Fd]; isListener {
				h.acceptAll(ev.Fd)
				continue
			}
			h.serviceConn(ev.Fd)
		}
	}
}

func (h *Host) dispatch(req *httpmsg.Request) *httpmsg.Response {
	if h.sessions != nil && h.router.RouteForSession(req) {
		sess := h.sessions.GetOrCreate(req)
		resp := h.router.Handle(req)
		h.sessions.AttachCookie(resp, sess.ID)
		return resp
	}
	return h.router.Handle(req)
}
