package router

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/akhaled01/kang/internal/httpmsg"
	"github.com/akhaled01/kang/internal/multipart"
	"github.com/akhaled01/kang/internal/upload"
)

// handleStatic implements spec.md §4.6's static/upload/delete branch.
func (ro *Router) handleStatic(route compiledRoute, req *httpmsg.Request, resolvedPath string) (*httpmsg.Response, httpmsg.StatusCode) {
	switch {
	case req.Method.Is("POST"):
		return ro.handleUpload(route, req)
	case req.Method.Is("DELETE"):
		return ro.handleDelete(resolvedPath)
	default:
		return ro.handleGet(route, resolvedPath, req.Path)
	}
}

func (ro *Router) handleUpload(route compiledRoute, req *httpmsg.Request) (*httpmsg.Response, httpmsg.StatusCode) {
	contentType, hasCT := req.Header("Content-Type")
	if !hasCT || !multipart.IsMultipartFormData(contentType) || len(req.Body) == 0 {
		return nil, httpmsg.StatusBadRequest
	}

	data, err := multipart.Parse(req.Body, contentType)
	if err != nil {
		return nil, httpmsg.StatusBadRequest
	}

	maxSize := route.clientMaxBodySize
	handler := upload.New(maxSize, route.root)

	saved, err := handler.Save(data)
	if err != nil {
		ro.log.Errorf("upload failed: %v", err)
		return nil, httpmsg.StatusInternalServerError
	}

	resp := httpmsg.NewResponse(httpmsg.StatusOK)
	resp.Headers.Set("Content-Type", "application/json")
	resp.SetBodyString(buildUploadJSON(saved))
	return resp, 0
}

func buildUploadJSON(files []string) string {
	var names strings.Builder
	names.WriteByte('[')
	for i, f := range files {
		if i > 0 {
			names.WriteByte(',')
		}
		names.WriteByte('"')
		names.WriteString(jsonEscape(f))
		names.WriteByte('"')
	}
	names.WriteByte(']')
	return fmt.Sprintf(`{"success":true,"files":%s,"message":"Successfully uploaded %d files"}`, names.String(), len(files))
}

func jsonEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func (ro *Router) handleDelete(resolvedPath string) (*httpmsg.Response, httpmsg.StatusCode) {
	if !fileExists(resolvedPath) {
		return nil, httpmsg.StatusNotFound
	}
	if err := os.Remove(resolvedPath); err != nil {
		ro.log.Errorf("delete failed for %s: %v", resolvedPath, err)
		return nil, httpmsg.StatusInternalServerError
	}

	resp := httpmsg.NewResponse(httpmsg.StatusOK)
	resp.SetBodyString("File deleted successfully")
	return resp, 0
}

func (ro *Router) handleGet(route compiledRoute, resolvedPath, requestPath string) (*httpmsg.Response, httpmsg.StatusCode) {
	info, err := os.Stat(resolvedPath)
	if err != nil {
		return nil, httpmsg.StatusNotFound
	}

	if info.IsDir() {
		if route.index != "" {
			indexPath := joinPath(resolvedPath, route.index)
			if fileExistsAsRegular(indexPath) {
				return ro.serveFile(indexPath)
			}
		}
		if route.directoryListing {
			return ro.serveDirectoryListing(resolvedPath, requestPath)
		}
		return nil, httpmsg.StatusNotFound
	}

	return ro.serveFile(resolvedPath)
}

func (ro *Router) serveFile(path string) (*httpmsg.Response, httpmsg.StatusCode) {
	content, err := os.ReadFile(path)
	if err != nil {
		ro.log.Errorf("failed to read %s: %v", path, err)
		return nil, httpmsg.StatusInternalServerError
	}

	resp := httpmsg.NewResponse(httpmsg.StatusOK)
	resp.Headers.Set("Content-Type", extensionContentType(path))
	resp.SetBody(content)
	return resp, 0
}

type dirEntry struct {
	name  string
	link  string
	isDir bool
}

func (ro *Router) serveDirectoryListing(dirPath, requestPath string) (*httpmsg.Response, httpmsg.StatusCode) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		ro.log.Errorf("failed to read dir %s: %v", dirPath, err)
		return nil, httpmsg.StatusInternalServerError
	}

	trimmedRequest := strings.TrimSuffix(requestPath, "/")

	listed := make([]dirEntry, 0, len(entries))
	for _, e := range entries {
		link := trimmedRequest + "/" + e.Name()
		if e.IsDir() {
			link += "/"
		}
		listed = append(listed, dirEntry{name: e.Name(), link: link, isDir: e.IsDir()})
	}

	// Directories first, then alphabetical by name (spec.md §4.6).
	sort.SliceStable(listed, func(i, j int) bool {
		if listed[i].isDir != listed[j].isDir {
			return listed[i].isDir
		}
		return listed[i].name < listed[j].name
	})

	resp := httpmsg.NewResponse(httpmsg.StatusOK)
	if ro.responseFormat == "json" {
		resp.Headers.Set("Content-Type", "application/json")
		resp.SetBodyString(listingJSON(requestPath, listed))
	} else {
		resp.Headers.Set("Content-Type", "text/html")
		resp.SetBodyString(listingHTML(listed))
	}
	return resp, 0
}

func listingHTML(entries []dirEntry) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, e := range entries {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, e.link, e.name)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func listingJSON(requestPath string, entries []dirEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"directory":"%s","entries":[`, jsonEscape(requestPath))
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"name":"%s","link":"%s","is_directory":%t}`,
			jsonEscape(e.name), jsonEscape(e.link), e.isDir)
	}
	b.WriteString("]}")
	return b.String()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
