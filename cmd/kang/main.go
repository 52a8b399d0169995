// Command kang runs the configuration-driven HTTP/1.1 web server
// described in spec.md. Grounded on the teacher's cmd/caddy-ls/main.go:
// parse flags, delegate to an internal package's Run-style entry point,
// print to stderr and exit non-zero on failure.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/akhaled01/kang/internal/banner"
	"github.com/akhaled01/kang/internal/klog"
	"github.com/akhaled01/kang/internal/supervisor"
)

const defaultConfigPath = "config/kangrc"

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	configPath := defaultConfigPath
	if flag.NArg() > 0 {
		configPath = flag.Arg(0)
	}

	log := klog.New(klog.ParseLevel(logLevel))
	defer log.Sync()

	banner.Print()

	if err := supervisor.Boot(configPath, log); err != nil {
		fmt.Fprintf(os.Stderr, "kang: %v\n", err)
		os.Exit(1)
	}
}
