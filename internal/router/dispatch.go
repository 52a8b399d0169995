package router

import (
	"path/filepath"
	"strings"

	"github.com/akhaled01/kang/internal/cgiexec"
	"github.com/akhaled01/kang/internal/httpmsg"
)

// dispatch implements spec.md §4.6 step 3: redirect / CGI / static branch.
func (ro *Router) dispatch(route compiledRoute, req *httpmsg.Request) (*httpmsg.Response, httpmsg.StatusCode) {
	if route.redirect != nil {
		return ro.handleRedirect(route), 0
	}

	resolvedPath := resolveStaticPath(route.root, route.path, req.Path)
	if ext, interp, ok := cgiMatch(route.cgi, resolvedPath); ok {
		return ro.handleCGI(req, resolvedPath, ext, interp)
	}

	return ro.handleStatic(route, req, resolvedPath)
}

func (ro *Router) handleRedirect(route compiledRoute) *httpmsg.Response {
	status := httpmsg.StatusCode(route.redirect.Code)
	resp := httpmsg.NewResponse(status)
	resp.Headers.Set("Location", route.redirect.URL)
	return resp
}

// cgiMatch reports whether resolvedPath's extension is registered in the
// route's (possibly global-merged) CGI map, per spec.md §4.6 step 3:
// "handled when the resolved filesystem path ends with .php (or another
// extension registered in the route's or global cgi mapping)".
func cgiMatch(cgi map[string]string, resolvedPath string) (ext, interpreter string, ok bool) {
	for candidate, interp := range cgi {
		if strings.HasSuffix(resolvedPath, candidate) {
			return candidate, interp, true
		}
	}
	return "", "", false
}

func (ro *Router) handleCGI(req *httpmsg.Request, scriptPath, ext, interpreter string) (*httpmsg.Response, httpmsg.StatusCode) {
	if !fileExistsAsRegular(scriptPath) {
		return nil, httpmsg.StatusNotFound
	}

	result, err := cgiexec.Run(cgiexec.Request{
		Method:      req.Method.String(),
		ScriptPath:  scriptPath,
		Interpreter: interpreter,
	})
	if err != nil {
		ro.log.Errorf("cgi execution failed for %s: %v", scriptPath, err)
		return nil, httpmsg.StatusInternalServerError
	}

	resp := httpmsg.NewResponse(httpmsg.StatusOK)
	for name, value := range result.Headers {
		resp.Headers.Set(name, value)
	}
	resp.SetBody(result.Body)
	return resp, 0
}

// extensionContentType maps a file extension to a MIME type, per spec.md
// §4.6's table.
func extensionContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	case ".ico":
		return "image/x-icon"
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
