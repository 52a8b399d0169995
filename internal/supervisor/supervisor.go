// Package supervisor implements the boot sequence (spec.md §4.9,
// component C10): load configuration, validate it, bind every virtual
// host's listeners with port-fallback, then spawn and join one event
// loop per virtual host. Grounded on the original's config/boot.rs and
// main.rs, and on the teacher's cmd/caddy-ls/main.go → internal/server
// Run-style entry point.
package supervisor

import (
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/akhaled01/kang/internal/config"
	"github.com/akhaled01/kang/internal/klog"
	"github.com/akhaled01/kang/internal/vhost"
)

// maxPortFallback is the number of successive ports tried after a
// collision before a configured port is given up on (spec.md §4.9).
const maxPortFallback = 100

// Boot loads the configuration at path, validates it, binds every
// virtual host, and blocks running each host's event loop until every
// loop has returned, then reports the first error (spec.md §6: "loop
// presently never returns" in the success case).
func Boot(path string, log *klog.Logger) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("supervisor: %w", err)
	}

	servers, err := config.Validate(cfg, log)
	if err != nil {
		return fmt.Errorf("supervisor: %w", err)
	}

	var group errgroup.Group
	booted := 0

	for _, sc := range servers {
		sc := sc

		listeners, err := bindWithFallback(sc, log)
		if err != nil || len(listeners) == 0 {
			log.Warnf("virtual host %v: no listeners bound, skipping (%v)", sc.ServerName, err)
			continue
		}

		host, err := vhost.New(sc, cfg.Global, log, listeners)
		if err != nil {
			log.Warnf("virtual host %v: %v", sc.ServerName, err)
			continue
		}

		booted++
		group.Go(func() error {
			return host.Run()
		})
	}

	if booted == 0 {
		return fmt.Errorf("supervisor: no virtual host booted successfully")
	}

	return group.Wait()
}

// bindWithFallback binds every port configured for sc, substituting up
// to maxPortFallback successive ports on a collision and logging the
// substitution (spec.md §4.9). Ports that exhaust their fallback budget
// are skipped, not fatal — a Server with zero bound listeners is the
// caller's concern.
func bindWithFallback(sc config.ServerConfig, log *klog.Logger) ([]net.Listener, error) {
	listeners := make([]net.Listener, 0, len(sc.Ports))

	for _, port := range sc.Ports {
		ln, bound, err := bindPort(sc.Host, port)
		if err != nil {
			log.Warnf("virtual host %v: could not bind port %d or any of %d fallback ports", sc.ServerName, port, maxPortFallback)
			continue
		}
		if bound != port {
			log.Infof("virtual host %v: port %d in use, bound %d instead", sc.ServerName, port, bound)
		}
		listeners = append(listeners, ln)
	}

	return listeners, nil
}

// bindPort binds host:port directly, then host:port+1, host:port+2, ... up
// to maxPortFallback additional attempts. The first successful bind is the
// listener that is returned; no separate loopback probe is made.
func bindPort(host string, port uint16) (net.Listener, uint16, error) {
	for offset := 0; offset <= maxPortFallback; offset++ {
		candidate := int(port) + offset
		if candidate > 65535 {
			break
		}

		addr := fmt.Sprintf("%s:%d", host, candidate)
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			actual := ln.Addr().(*net.TCPAddr).Port
			return ln, uint16(actual), nil
		}
	}
	return nil, 0, fmt.Errorf("exhausted %d fallback ports starting at %d", maxPortFallback, port)
}
