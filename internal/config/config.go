// Package config loads and validates kang's JSON configuration file into the
// ServerConfig/RouteConfig/SessionConfig data model described in spec.md §3.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level configuration document.
type Config struct {
	Global  GlobalConfig   `json:"global"`
	Servers []ServerConfig `json:"servers"`
}

// GlobalConfig holds process-wide defaults applied when a virtual host or
// route does not override them.
type GlobalConfig struct {
	ClientMaxBodySize string            `json:"client_max_body_size"`
	ResponseFormat    string            `json:"response_format"`
	CGI               map[string]string `json:"cgi"`
	Sessions          SessionConfig     `json:"sessions"`
}

// SessionConfig controls the in-memory session store (C8).
type SessionConfig struct {
	Enabled        bool `json:"enabled"`
	TimeoutMinutes int  `json:"timeout_minutes"`
	CookiePath     string `json:"cookie_path"`
	CookieSecure   bool   `json:"cookie_secure"`
	CookieHTTPOnly bool   `json:"cookie_http_only"`
}

// WithDefaults returns a copy of sc with the documented defaults filled in:
// timeout_minutes=60, cookie_path="/".
func (sc SessionConfig) WithDefaults() SessionConfig {
	if sc.TimeoutMinutes == 0 {
		sc.TimeoutMinutes = 60
	}
	if sc.CookiePath == "" {
		sc.CookiePath = "/"
	}
	return sc
}

// RedirectConfig describes a route's redirect target.
type RedirectConfig struct {
	URL  string `json:"url"`
	Code int    `json:"code"`
}

// RouteConfig is one entry in a virtual host's ordered route list.
type RouteConfig struct {
	Path              string            `json:"path"`
	Root              string            `json:"root"`
	Index             string            `json:"index"`
	Methods           []string          `json:"methods"`
	DirectoryListing  bool              `json:"directory_listing"`
	Redirect          *RedirectConfig   `json:"redirect,omitempty"`
	CGI               map[string]string `json:"cgi,omitempty"`
	ClientMaxBodySize string            `json:"client_max_body_size"`
	SessionsRequired  bool              `json:"sessions_required"`
}

// ServerConfig is one virtual host definition.
type ServerConfig struct {
	ServerName        []string          `json:"server_name"`
	Host              string            `json:"host"`
	Ports             []uint16          `json:"ports"`
	IsDefault         bool              `json:"is_default"`
	ClientMaxBodySize string            `json:"client_max_body_size"`
	ErrorPages        map[string]string `json:"error_pages"`
	Routes            []RouteConfig     `json:"routes"`
	Sessions          SessionConfig     `json:"sessions"`
}

// Load reads and JSON-decodes the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}
