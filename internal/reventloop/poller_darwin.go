//go:build darwin

package reventloop

import "golang.org/x/sys/unix"

// kqueuePoller is the Darwin/BSD Poller backend, grounded on the
// original's server/listener/kqueue.rs (KqueueListener) and the global
// instance created in server/server.rs::listen_and_serve.
type kqueuePoller struct {
	fd int
}

// New creates the platform readiness backend for the current OS.
func New() (Poller, error) {
	fd, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &kqueuePoller{fd: fd}, nil
}

func (p *kqueuePoller) AddRead(fd int) error {
	var ev unix.Kevent_t
	unix.SetKevent(&ev, fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_ENABLE)
	_, err := unix.Kevent(p.fd, []unix.Kevent_t{ev}, nil, nil)
	return err
}

func (p *kqueuePoller) Remove(fd int) error {
	var ev unix.Kevent_t
	unix.SetKevent(&ev, fd, unix.EVFILT_READ, unix.EV_DELETE)
	// ENOENT just means it was never (or no longer) registered.
	unix.Kevent(p.fd, []unix.Kevent_t{ev}, nil, nil)
	return nil
}

func (p *kqueuePoller) Wait(timeoutMs int) ([]Event, error) {
	raw := make([]unix.Kevent_t, MaxEvents)

	var ts *unix.Timespec
	if timeoutMs >= 0 {
		ts = &unix.Timespec{
			Sec:  int64(timeoutMs / 1000),
			Nsec: int64(timeoutMs%1000) * 1_000_000,
		}
	}

	n, err := unix.Kevent(p.fd, nil, raw, ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, Event{
			Fd:       int(raw[i].Ident),
			Readable: raw[i].Filter == unix.EVFILT_READ,
		})
	}
	return events, nil
}

func (p *kqueuePoller) Close() error {
	return unix.Close(p.fd)
}
