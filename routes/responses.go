// routes/responses.go
package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/LilVoxy/flowmap/processor"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// acceptsSnappy проверяет, готов ли клиент принять поток Snappy
func acceptsSnappy(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.EqualFold(strings.TrimSpace(enc), processor.SnappyFramedEncoding) {
			return true
		}
	}
	return false
}

// writeJSON отправляет ответ в JSON, сжимая его, если клиент это поддерживает
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Add("Vary", "Accept-Encoding")

	if !acceptsSnappy(r) {
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("❌ Ошибка при кодировании JSON: %v", err)
		}
		return
	}

	w.Header().Set("Content-Encoding", processor.SnappyFramedEncoding)
	w.WriteHeader(status)
	sw := processor.NewFramedWriter(w)
	if err := json.NewEncoder(sw).Encode(v); err != nil {
		log.Printf("❌ Ошибка при кодировании JSON: %v", err)
	}
	if err := sw.Close(); err != nil {
		log.Printf("❌ Ошибка при сжатии ответа: %v", err)
	}
}

// writeError отправляет ошибку в JSON
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, ErrorResponse{Status: "error", Error: err.Error()})
}
