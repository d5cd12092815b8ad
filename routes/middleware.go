// routes/middleware.go
package routes

import (
	"net/http"
	"strconv"

	"github.com/LilVoxy/flowmap/metrics"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

// CORSMiddleware разрешает запросы панели с любого источника
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Encoding")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MetricsMiddleware записывает метрики каждого HTTP-запроса
func MetricsMiddleware(registry *metrics.Registry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			registry.HTTPRequestsInFlight.Inc()
			defer registry.HTTPRequestsInFlight.Dec()

			m := httpsnoop.CaptureMetrics(next, w, r)
			registry.RecordHTTPRequest(r.Method, routePath(r), strconv.Itoa(m.Code), m.Duration, m.Written)
		})
	}
}

// routePath возвращает шаблон маршрута, чтобы метки не зависели от параметров запроса
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
