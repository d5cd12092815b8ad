// routes/flow_handlers.go
package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/pipeline"
)

// filterParams читает фильтры из строки запроса (GET) или тела JSON (POST)
func filterParams(r *http.Request) (pipeline.FilterParams, error) {
	if r.Method != http.MethodPost {
		return pipeline.ParseQuery(r.URL.Query())
	}

	var params pipeline.FilterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		return params, fmt.Errorf("%w: %v", models.ErrInvalidFilters, err)
	}
	return params, nil
}

// GetFlowsHandler выполняет прогон и возвращает данные для отрисовки карты
func GetFlowsHandler(service FlowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := filterParams(r)
		if err != nil {
			writeError(w, r, pipeline.StatusCode(err), err)
			return
		}

		payload, err := service.Run(r.Context(), params)
		status := pipeline.StatusCode(err)
		if status != http.StatusOK {
			log.Printf("❌ Ошибка при построении карты потоков: %v", err)
			writeError(w, r, status, err)
			return
		}

		writeJSON(w, r, status, payload)
		log.Printf("✅ Отправлена карта потоков %s: %d дуг, %d пузырей", payload.RunID, len(payload.Arcs.Data), len(payload.Bubbles.Data))
	}
}

// ExportHandler выгружает результат прогона в указанном формате
func ExportHandler(service FlowService, format, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pipeline.ParseQuery(r.URL.Query())
		if err != nil {
			writeError(w, r, pipeline.StatusCode(err), err)
			return
		}

		// Пишем в буфер, чтобы при ошибке вернуть корректный статус
		var buf bytes.Buffer
		if err := service.Export(r.Context(), params, format, &buf); err != nil {
			log.Printf("❌ Ошибка выгрузки %s: %v", format, err)
			writeError(w, r, pipeline.StatusCode(err), err)
			return
		}

		w.Header().Set("Content-Type", service.ContentType(format))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.Printf("❌ Ошибка отправки выгрузки %s: %v", format, err)
		}
	}
}
