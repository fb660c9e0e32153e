package logging

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

// DefaultPprofAddr is used when pprof is enabled without an address.
const DefaultPprofAddr = "localhost:6060"

type pprofServer struct {
	srv  *http.Server
	addr string
}

// startPprof binds addr before returning so a taken port is reported at
// startup. Handlers live on a private mux, never http.DefaultServeMux.
func startPprof(addr string, log *slog.Logger) (*pprofServer, error) {
	if addr == "" {
		addr = DefaultPprofAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	p := &pprofServer{
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		addr: ln.Addr().String(),
	}
	go func() {
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof_server_error", slog.String("error", err.Error()))
		}
	}()
	return p, nil
}

func (p *pprofServer) close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.srv.Shutdown(ctx)
}

// PprofAddr returns the address the pprof server listens on, or "" when it
// is not running.
func PprofAddr() string {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalPprof == nil {
		return ""
	}
	return globalPprof.addr
}
