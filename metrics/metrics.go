package metrics

import (
	"time"
)

// RecordHTTPRequest учитывает HTTP-запрос
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration, size int64) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(float64(size))
}

// RecordStage учитывает длительность фазы конвейера
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRun учитывает завершенный прогон
func (r *Registry) RecordRun(status string, displayed int, fallback bool) {
	r.PipelineRunsTotal.WithLabelValues(status).Inc()
	r.DisplayedFlows.Set(float64(displayed))
	if fallback {
		r.PipelineFallbackTotal.Inc()
	}
}

// RecordCache учитывает обращение к кэшу
func (r *Registry) RecordCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// SetSourceRows фиксирует размер загруженных таблиц
func (r *Registry) SetSourceRows(flows, locations, sectors int) {
	r.SourceRows.WithLabelValues("flows").Set(float64(flows))
	r.SourceRows.WithLabelValues("locations").Set(float64(locations))
	r.SourceRows.WithLabelValues("sectors").Set(float64(sectors))
}
