// routes/api_routes.go
package routes

import (
	"context"
	"io"
	"net/http"

	"github.com/LilVoxy/flowmap/ETL/load"
	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/pipeline"
	"github.com/LilVoxy/flowmap/metrics"
	"github.com/LilVoxy/flowmap/websocket"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FlowService операции конвейера, доступные через API
type FlowService interface {
	Options(ctx context.Context) (*pipeline.Options, error)
	Run(ctx context.Context, params pipeline.FilterParams) (*load.RenderPayload, error)
	Export(ctx context.Context, params pipeline.FilterParams, format string, w io.Writer) error
	ContentType(format string) string
	RecentRuns(limit int) []models.RunLog
	RunState() models.RunStateMonitor
}

// SetupRoutes настраивает все маршруты API и WebSocket
func SetupRoutes(router *mux.Router, service FlowService, wsManager *websocket.Manager, registry *metrics.Registry, publicDir string) {
	// Применяем middleware
	router.Use(MetricsMiddleware(registry))
	router.Use(CORSMiddleware)

	// Служебные маршруты
	router.HandleFunc("/health", HealthHandler(service)).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(registry.GetPrometheusRegistry(), promhttp.HandlerOpts{})).Methods("GET")

	// WebSocket соединения
	router.HandleFunc("/ws", wsManager.HandleConnections)
	router.HandleFunc("/api/sessions", wsManager.HandleStatus).Methods("GET", "OPTIONS")

	// API фильтров
	router.HandleFunc("/api/options", GetOptionsHandler(service)).Methods("GET", "OPTIONS")

	// API потоков
	router.HandleFunc("/api/flows", GetFlowsHandler(service)).Methods("GET", "POST", "OPTIONS")
	router.HandleFunc("/api/flows.geojson", ExportHandler(service, load.FormatGeoJSON, "flows.geojson")).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/summary.xlsx", ExportHandler(service, load.FormatXLSX, "summary.xlsx")).Methods("GET", "OPTIONS")

	// Журнал запусков
	router.HandleFunc("/api/runs", GetRunsHandler(service)).Methods("GET", "OPTIONS")

	// Статические файлы
	if publicDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(publicDir)))
	}
}
