package models

import (
	"fmt"
	"sync"
	"time"
)

// MemoryRunLogRepository реализация RunLogRepository в памяти (кольцевой буфер)
type MemoryRunLogRepository struct {
	mu       sync.RWMutex
	capacity int
	entries  []RunLog
	index    map[string]int
}

// NewMemoryRunLogRepository создает новый журнал заданной емкости
func NewMemoryRunLogRepository(capacity int) *MemoryRunLogRepository {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryRunLogRepository{
		capacity: capacity,
		entries:  make([]RunLog, 0, capacity),
		index:    make(map[string]int),
	}
}

// CreateLogEntry создает новую запись о запуске
func (r *MemoryRunLogRepository) CreateLogEntry(id string, startTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[id]; exists {
		return fmt.Errorf("запись запуска %s уже существует", id)
	}

	// Вытесняем самую старую запись при заполнении буфера
	if len(r.entries) == r.capacity {
		oldest := r.entries[0]
		delete(r.index, oldest.ID)
		r.entries = r.entries[1:]
		for i, e := range r.entries {
			r.index[e.ID] = i
		}
	}

	r.entries = append(r.entries, RunLog{
		ID:        id,
		StartTime: startTime,
		Status:    RunStatusInProgress,
	})
	r.index[id] = len(r.entries) - 1
	return nil
}

// CompleteLogEntry фиксирует итог запуска
func (r *MemoryRunLogRepository) CompleteLogEntry(entry RunLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, exists := r.index[entry.ID]
	if !exists {
		return fmt.Errorf("запись запуска %s не найдена", entry.ID)
	}

	current := r.entries[pos]
	entry.StartTime = current.StartTime
	if entry.EndTime.IsZero() {
		entry.EndTime = time.Now()
	}
	entry.ExecutionTimeSeconds = entry.EndTime.Sub(entry.StartTime).Seconds()
	r.entries[pos] = entry
	return nil
}

// GetRecentRuns возвращает последние запуски, начиная с самого нового
func (r *MemoryRunLogRepository) GetRecentRuns(limit int) []RunLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	runs := make([]RunLog, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(runs) < limit; i-- {
		runs = append(runs, r.entries[i])
	}
	return runs
}

// GetStateMonitor собирает сводную статистику по журналу
func (r *MemoryRunLogRepository) GetStateMonitor() RunStateMonitor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var monitor RunStateMonitor
	var totalTime float64
	var finished int

	for i := range r.entries {
		e := r.entries[i]
		switch e.Status {
		case RunStatusSuccess:
			monitor.TotalSuccessfulRuns++
			monitor.LastSuccessfulRun = &e
		case RunStatusFailed:
			monitor.TotalFailedRuns++
			monitor.LastFailedRun = &e
		case RunStatusEmpty:
			monitor.TotalEmptyRuns++
		default:
			continue
		}
		totalTime += e.ExecutionTimeSeconds
		finished++
	}

	if finished > 0 {
		monitor.AvgExecutionTimeSeconds = totalTime / float64(finished)
	}
	return monitor
}
