// routes/option_handlers.go
package routes

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/pipeline"
)

const defaultRunsLimit = 20

// RunsResponse ответ API журнала запусков
type RunsResponse struct {
	Runs  []models.RunLog        `json:"runs"`
	State models.RunStateMonitor `json:"state"`
}

// HealthResponse ответ проверки состояния
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthHandler сообщает, доступны ли исходные данные
func HealthHandler(service FlowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := service.Options(r.Context()); err != nil {
			writeJSON(w, r, pipeline.StatusCode(err), HealthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
		writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// GetOptionsHandler возвращает доступные значения фильтров и значения по умолчанию
func GetOptionsHandler(service FlowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := service.Options(r.Context())
		if err != nil {
			log.Printf("❌ Ошибка при получении параметров фильтров: %v", err)
			writeError(w, r, pipeline.StatusCode(err), err)
			return
		}
		writeJSON(w, r, http.StatusOK, options)
	}
}

// GetRunsHandler возвращает последние записи журнала запусков
func GetRunsHandler(service FlowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRunsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, r, http.StatusBadRequest, fmt.Errorf("неверный формат limit: %q", raw))
				return
			}
			limit = n
		}

		runs := service.RecentRuns(limit)
		if runs == nil {
			runs = []models.RunLog{}
		}
		writeJSON(w, r, http.StatusOK, RunsResponse{Runs: runs, State: service.RunState()})
	}
}
