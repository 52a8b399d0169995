package router

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akhaled01/kang/internal/config"
	"github.com/akhaled01/kang/internal/httpmsg"
	"github.com/akhaled01/kang/internal/klog"
)

// Router dispatches requests for one virtual host to the matched route's
// handler, rendering error pages for any status >= 400 (spec.md §4.6).
type Router struct {
	routes         []compiledRoute
	errorPages     map[string]string
	responseFormat string
	log            *klog.Logger
}

// New builds a Router from a virtual host's configuration and the global
// config it was declared under.
func New(sc config.ServerConfig, global config.GlobalConfig, log *klog.Logger) *Router {
	routes := make([]compiledRoute, 0, len(sc.Routes))
	for _, rc := range sc.Routes {
		routes = append(routes, compileRoute(rc, global.CGI))
	}

	format := global.ResponseFormat
	if format == "" {
		format = "html"
	}

	return &Router{
		routes:         routes,
		errorPages:     sc.ErrorPages,
		responseFormat: format,
		log:            log,
	}
}

// Handle matches req against the virtual host's routes and dispatches to
// the selected route's handler, converting any resulting status >= 400
// into an error-page response.
func (ro *Router) Handle(req *httpmsg.Request) *httpmsg.Response {
	route, status, ok := ro.match(req)
	if !ok {
		return ro.renderError(status)
	}

	resp, status := ro.dispatch(route, req)
	if resp != nil {
		return resp
	}
	return ro.renderError(status)
}

// RouteForSession reports whether the matched route (if any) requires a
// session, so the event loop can decide whether to touch the session
// store before dispatch (spec.md §4.8 step 6a references "if sessions are
// enabled"; "sessions_required" is a per-route refinement of that).
func (ro *Router) RouteForSession(req *httpmsg.Request) bool {
	route, _, ok := ro.match(req)
	if !ok {
		return false
	}
	return route.sessionsRequired
}

// match implements spec.md §4.6 step 1-2: longest-prefix path match, then
// method gate on the longest route whose path matched. The returned bool
// is false when no route handles the request at all (404) or the path
// matched but the method didn't (405) — the caller distinguishes the two
// via status.
func (ro *Router) match(req *httpmsg.Request) (compiledRoute, httpmsg.StatusCode, bool) {
	requestPath := strings.TrimSuffix(req.Path, "/")

	sorted := make([]compiledRoute, len(ro.routes))
	copy(sorted, ro.routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].path) > len(sorted[j].path)
	})

	for _, route := range sorted {
		routePath := strings.TrimSuffix(route.path, "/")

		matches := false
		switch {
		case routePath == "" && requestPath == "":
			matches = true
		case requestPath == routePath:
			matches = true
		case route.root != "":
			if strings.HasPrefix(requestPath, routePath+"/") || requestPath == routePath {
				matches = true
			}
		default:
			matches = requestPath == routePath || strings.HasPrefix(requestPath, routePath+"/")
		}

		// spec.md §4.6 step 1: a route whose root resolves the request
		// path to an existing regular file always matches, regardless of
		// prefix specificity.
		if !matches && route.root != "" {
			if fileExistsAsRegular(resolveStaticPath(route.root, route.path, req.Path)) {
				matches = true
			}
		}

		if !matches {
			continue
		}

		if !route.allowsMethod(req.Method.String()) {
			return compiledRoute{}, httpmsg.StatusMethodNotAllowed, false
		}
		return route, 0, true
	}

	return compiledRoute{}, httpmsg.StatusNotFound, false
}

// resolveStaticPath joins root with the request path's remainder after the
// route's path prefix, mirroring the original's
// `PathBuf::from(base_path).join(relative_path.trim_start_matches('/'))`.
func resolveStaticPath(root, routePath, requestPath string) string {
	relative := strings.TrimPrefix(requestPath, routePath)
	relative = strings.TrimPrefix(relative, "/")
	return filepath.Join(root, relative)
}

func fileExistsAsRegular(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
