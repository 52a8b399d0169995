package config

import (
	"fmt"
	"strings"

	"github.com/akhaled01/kang/internal/klog"
	"github.com/akhaled01/kang/internal/sizefmt"
)

// validMethods lists the HTTP verbs kang recognizes on a route.
var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true, "HEAD": true,
	"OPTIONS": true, "PATCH": true, "TRACE": true, "CONNECT": true,
}

// ErrNoValidServers is returned when validation leaves zero usable virtual
// hosts.
var ErrNoValidServers = fmt.Errorf("config: no valid servers in configuration")

// Validate checks cfg for hard errors and soft errors (which are logged and
// otherwise ignored), following the original implementation's split in
// config/validator.rs: empty host or zero ports drops that server; a port
// used by two servers aborts validation with an error; everything else is
// a warning. If no server survives, ErrNoValidServers is returned.
//
// Validate mutates nothing; it returns the subset of cfg.Servers that pass
// the hard checks, in original order.
func Validate(cfg *Config, log *klog.Logger) ([]ServerConfig, error) {
	usedPorts := make(map[uint16]string)
	var ok []ServerConfig

	if cfg.Global.ClientMaxBodySize != "" {
		if _, err := sizefmt.Parse(cfg.Global.ClientMaxBodySize); err != nil {
			log.Warnf("invalid global client_max_body_size %q: %v", cfg.Global.ClientMaxBodySize, err)
		}
	}

	for _, srv := range cfg.Servers {
		if srv.Host == "" {
			log.Errorf("server has empty host, dropping it")
			continue
		}
		if len(srv.Ports) == 0 {
			log.Errorf("server %s has no ports, dropping it", srv.Host)
			continue
		}

		for _, port := range srv.Ports {
			if owner, exists := usedPorts[port]; exists {
				return nil, fmt.Errorf("config: duplicate port %d used by both %s and %s", port, owner, srv.Host)
			}
			usedPorts[port] = srv.Host
		}

		for _, name := range srv.ServerName {
			if name == "" {
				log.Warnf("empty server_name entry in server %s", srv.Host)
			}
		}

		if srv.ClientMaxBodySize != "" {
			if _, err := sizefmt.Parse(srv.ClientMaxBodySize); err != nil {
				log.Warnf("invalid client_max_body_size %q in server %s: %v", srv.ClientMaxBodySize, srv.Host, err)
			}
		}

		seenRoutes := make(map[string]bool)
		for _, route := range srv.Routes {
			if route.Path == "" || !strings.HasPrefix(route.Path, "/") {
				log.Warnf("invalid route path %q in server %s", route.Path, srv.Host)
				continue
			}
			if seenRoutes[route.Path] {
				log.Warnf("duplicate route %q in server %s", route.Path, srv.Host)
				continue
			}
			seenRoutes[route.Path] = true

			if len(route.Methods) == 0 {
				log.Warnf("no methods specified for route %q in server %s", route.Path, srv.Host)
			}
			for _, m := range route.Methods {
				if !validMethods[strings.ToUpper(m)] {
					log.Warnf("invalid HTTP method %q in route %q", m, route.Path)
				}
			}

			if route.Redirect != nil && (route.Redirect.Code < 300 || route.Redirect.Code > 308) {
				log.Warnf("invalid redirect code %d for route %q", route.Redirect.Code, route.Path)
			}

			if route.ClientMaxBodySize != "" {
				if _, err := sizefmt.Parse(route.ClientMaxBodySize); err != nil {
					log.Warnf("invalid client_max_body_size %q in route %q: %v", route.ClientMaxBodySize, route.Path, err)
				}
			}
		}

		ok = append(ok, srv)
	}

	if len(ok) == 0 {
		return nil, ErrNoValidServers
	}
	return ok, nil
}
