package router

import (
	"fmt"
	"os"
	"strconv"

	"github.com/akhaled01/kang/internal/httpmsg"
)

// renderError implements spec.md §4.6 step 4: consult error_pages for the
// status code; fall back to the canonical reason phrase.
func (ro *Router) renderError(status httpmsg.StatusCode) *httpmsg.Response {
	resp := httpmsg.NewResponse(status)
	resp.Headers.Set("Content-Type", "text/html")

	if path, ok := ro.errorPages[strconv.Itoa(int(status))]; ok {
		if content, err := os.ReadFile(path); err == nil {
			resp.SetBody(content)
			return resp
		}
		ro.log.Warnf("failed to read error page %s for status %d", path, status)
	}

	resp.SetBodyString(fmt.Sprintf("%d %s", status, status.Text()))
	return resp
}
