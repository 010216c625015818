package serve

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/common/health"
)

const shutdownTimeout = 5 * time.Second

// NewObservabilityServer returns a server exposing /health, backed by checker, and /metrics, backed by gatherer.
func NewObservabilityServer(port uint16, service string, checker health.Checker, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	health.SetupHttpMux(mux, checker, service)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// ListenAndServe calls server.ListenAndServe() and shuts the server down once ctx is done.
// Returns nil after a clean shutdown.
func ListenAndServe(ctx *appcontext.Context, server *http.Server) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := appcontext.WithTimeout(appcontext.Detached(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			ctx.Log.WithError(err).Warn("http server did not shut down cleanly")
		}
	}()
	ctx.Log.Infof("Starting http server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithMessagef(err, "http server on %s failed", server.Addr)
	}
	return nil
}
