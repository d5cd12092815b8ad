// websocket/status.go
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"
)

// touch создает или обновляет состояние сессии
func (manager *Manager) touch(id, remoteAddr string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	now := time.Now()
	status, exists := manager.statuses[id]
	if !exists {
		status = &SessionStatus{ID: id, RemoteAddr: remoteAddr, ConnectedAt: now}
		manager.statuses[id] = status
	}
	status.LastSeen = now
}

// recordRender фиксирует выполненный для сессии прогон
func (manager *Manager) recordRender(id, runID string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if status, exists := manager.statuses[id]; exists {
		status.LastSeen = time.Now()
		status.LastRunID = runID
		status.Renders++
	}
}

// Sessions возвращает копии состояний сессий, отсортированные по времени подключения
func (manager *Manager) Sessions() []SessionStatus {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	now := time.Now()
	sessions := make([]SessionStatus, 0, len(manager.statuses))
	for _, status := range manager.statuses {
		s := *status
		s.IsActive = now.Sub(s.LastSeen) <= inactivityTimeout
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ConnectedAt.Before(sessions[j].ConnectedAt)
	})
	return sessions
}

// HandleStatus возвращает список подключенных сессий
func (manager *Manager) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"sessions": manager.Sessions(),
	}); err != nil {
		log.Printf("❌ Ошибка при кодировании JSON: %v", err)
	}
}
