// Package pprofserver serves the Go profiling endpoints on a loopback-only
// port, kept off the public listener so profiles never leak.
package pprofserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
)

// Launch starts a pprof server on the ipv6 loopback address at the given
// port. It runs until the process exits; a listen failure is logged and the
// main server keeps going without profiling.
func Launch(port string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)

	addr := fmt.Sprintf("[::1]:%s", port)
	go func() {
		logger.Info("starting pprof server", slog.String("addr", addr))
		if err := (&http.Server{Addr: addr, Handler: mux}).ListenAndServe(); err != nil {
			logger.Error("pprof server stopped", slog.String("error", err.Error()))
		}
	}()
}
