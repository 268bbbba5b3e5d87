// sentiric-contacts-service/internal/server/http.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-contacts-service/internal/call"
	"github.com/sentiric/sentiric-contacts-service/internal/dialer"
	"github.com/sentiric/sentiric-contacts-service/internal/logger"
	"github.com/sentiric/sentiric-contacts-service/internal/service"
	"github.com/sentiric/sentiric-contacts-service/internal/theme"
)

const traceHeader = "X-Trace-Id"

var buckets = metrics.ExponentialBuckets(1e-3, 5, 6)

// ContactsAPI is what the HTTP layer needs from the contact collection.
type ContactsAPI interface {
	service.ContactReader
	service.ContactWriter
	IsFavorite(id string) bool
	Loading() bool
}

// Deps are the components served over HTTP.
type Deps struct {
	Contacts ContactsAPI
	Groups   *service.GroupManager
	Calls    *call.Registry
	Dialer   *dialer.Dialer
	Theme    *theme.Preferences
}

// NewHTTPHandler builds the mux: /health, /metrics and the huma API under
// /api.
func NewHTTPHandler(deps Deps, serviceName, version string, log zerolog.Logger) http.Handler {
	set := metrics.NewSet()
	buildInfo := fmt.Sprintf("build_info{goversion=%q,service=%q,version=%q} 1\n", runtime.Version(), serviceName, version)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if !deps.Contacts.Loaded() {
			status = "loading"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]string{"status": status}); err != nil {
			log.Warn().Err(err).Msg("Sağlık yanıtı yazılamadı")
		}
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, buildInfo)
		set.WritePrometheus(w)
		metrics.WriteProcessMetrics(w)
	})

	root := humago.New(mux, huma.DefaultConfig("Contacts Service", version))
	api := huma.NewGroup(root, "/api")
	api.UseMiddleware(traceMiddleware(log), meterRequests(set))

	h := &handlers{deps: deps, log: log}
	h.registerContacts(api)
	h.registerGroups(api)
	h.registerCalls(api)
	h.registerTheme(api)
	return mux
}

// NewHTTPServer wraps handler in the service's http.Server.
func NewHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}
}

// traceMiddleware carries X-Trace-Id (generated when absent) into the
// request context and logs the request once served.
func traceMiddleware(log zerolog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		traceID := ctx.Header(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ctx.SetHeader(traceHeader, traceID)

		op, start := ctx.Operation(), time.Now()
		next(huma.WithContext(ctx, logger.WithTraceID(ctx.Context(), traceID)))

		l := logger.ContextLogger(logger.WithTraceID(ctx.Context(), traceID), log)
		e := l.Debug()
		if ctx.Status() >= http.StatusInternalServerError {
			e = l.Warn()
		}
		e.Str("event", logger.EventHTTPRequest).
			Dict("attributes", zerolog.Dict().
				Str("operation", op.OperationID).
				Str("method", op.Method).
				Str("path", op.Path).
				Int("status", ctx.Status()).
				Dur("duration", time.Since(start))).
			Msg("HTTP isteği işlendi")
	}
}

func meterRequests(set *metrics.Set) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op, start := ctx.Operation(), time.Now()
		next(ctx)
		labels := fmt.Sprintf(`{method=%q,path=%q,status="%d"}`, op.Method, op.Path, ctx.Status())
		set.GetOrCreatePrometheusHistogramExt(`http_request_duration_seconds`+labels, buckets).UpdateDuration(start)
		set.GetOrCreateCounter(`http_requests_total` + labels).Inc()
	}
}

type handlers struct {
	deps Deps
	log  zerolog.Logger
}
