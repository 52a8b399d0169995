// Package router implements virtual-host route matching, method gating,
// error-page rendering and dispatch to the static/upload/CGI branches
// (spec.md §4.6, component C7). Grounded on the original's
// server/router/mux.rs (Mux::validate_request) and
// server/router/route.rs (Route::handle).
package router

import (
	"github.com/akhaled01/kang/internal/config"
)

// compiledRoute is a RouteConfig resolved against the global config: its
// CGI extension map merged with the global default.
type compiledRoute struct {
	path              string
	root              string
	index             string
	methods           map[string]bool
	directoryListing  bool
	redirect          *config.RedirectConfig
	cgi               map[string]string
	clientMaxBodySize string
	sessionsRequired  bool
}

func compileRoute(rc config.RouteConfig, globalCGI map[string]string) compiledRoute {
	methods := make(map[string]bool, len(rc.Methods))
	for _, m := range rc.Methods {
		methods[m] = true
	}

	cgi := make(map[string]string, len(globalCGI)+len(rc.CGI))
	for ext, interp := range globalCGI {
		cgi[ext] = interp
	}
	for ext, interp := range rc.CGI {
		cgi[ext] = interp
	}

	return compiledRoute{
		path:              rc.Path,
		root:              rc.Root,
		index:             rc.Index,
		methods:           methods,
		directoryListing:  rc.DirectoryListing,
		redirect:          rc.Redirect,
		cgi:               cgi,
		clientMaxBodySize: rc.ClientMaxBodySize,
		sessionsRequired:  rc.SessionsRequired,
	}
}

func (r compiledRoute) allowsMethod(method string) bool {
	return r.methods[method]
}
