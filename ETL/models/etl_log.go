package models

import (
	"time"
)

// Статусы запуска конвейера
const (
	RunStatusInProgress = "in_progress"
	RunStatusSuccess    = "success"
	RunStatusEmpty      = "empty"
	RunStatusFailed     = "failed"
)

// RunLog представляет запись о запуске конвейера
type RunLog struct {
	ID                   string    `json:"id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "success", "empty", "failed", "in_progress"
	RowsMerged           int       `json:"rows_merged"`
	PairsRanked          int       `json:"pairs_ranked"`
	FlowsDisplayed       int       `json:"flows_displayed"`
	FallbackUsed         bool      `json:"fallback_used"`
	MergeCacheHit        bool      `json:"merge_cache_hit"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// RunLogRepository представляет журнал запусков конвейера
type RunLogRepository interface {
	// CreateLogEntry создает новую запись о запуске
	CreateLogEntry(id string, startTime time.Time) error

	// CompleteLogEntry фиксирует итог запуска
	CompleteLogEntry(entry RunLog) error

	// GetRecentRuns возвращает последние запуски, начиная с самого нового
	GetRecentRuns(limit int) []RunLog
}

// RunStateMonitor сводная информация о запусках
type RunStateMonitor struct {
	LastSuccessfulRun       *RunLog `json:"last_successful_run"`
	LastFailedRun           *RunLog `json:"last_failed_run,omitempty"`
	TotalSuccessfulRuns     int     `json:"total_successful_runs"`
	TotalFailedRuns         int     `json:"total_failed_runs"`
	TotalEmptyRuns          int     `json:"total_empty_runs"`
	AvgExecutionTimeSeconds float64 `json:"avg_execution_time_seconds"`
}
