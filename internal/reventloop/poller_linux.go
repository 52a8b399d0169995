//go:build linux

package reventloop

import "golang.org/x/sys/unix"

// epollPoller is the Linux Poller backend, grounded on the original's
// server/listener/epoll.rs (EpollListener) and the global instance
// created in server/server.rs::listen_and_serve.
type epollPoller struct {
	fd int
}

// New creates the platform readiness backend for the current OS.
func New() (Poller, error) {
	fd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &epollPoller{fd: fd}, nil
}

func (p *epollPoller) AddRead(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (p *epollPoller) Remove(fd int) error {
	err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT {
		return nil
	}
	return err
}

func (p *epollPoller) Wait(timeoutMs int) ([]Event, error) {
	raw := make([]unix.EpollEvent, MaxEvents)

	n, err := unix.EpollWait(p.fd, raw, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, Event{
			Fd:       int(raw[i].Fd),
			Readable: raw[i].Events&unix.EPOLLIN != 0,
			Writable: raw[i].Events&unix.EPOLLOUT != 0,
		})
	}
	return events, nil
}

func (p *epollPoller) Close() error {
	return unix.Close(p.fd)
}
