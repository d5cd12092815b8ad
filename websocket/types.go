// websocket/types.go
package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/LilVoxy/flowmap/ETL/load"
	"github.com/LilVoxy/flowmap/ETL/pipeline"
	"github.com/LilVoxy/flowmap/metrics"
	"github.com/gorilla/websocket"
)

// Структура сообщения для обмена через WebSocket
type Message struct {
	Type      string                 `json:"type"`
	Filters   *pipeline.FilterParams `json:"filters,omitempty"`
	Compress  bool                   `json:"compress,omitempty"`
	SessionID string                 `json:"sessionId,omitempty"`
	Payload   *load.RenderPayload    `json:"payload,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Code      int                    `json:"code,omitempty"`
}

// frame исходящее сообщение с типом кадра WebSocket
type frame struct {
	kind int
	data []byte
}

// Renderer выполняет прогон конвейера для выбранных фильтров
type Renderer interface {
	Run(ctx context.Context, params pipeline.FilterParams) (*load.RenderPayload, error)
}

// Клиент WebSocket (сессия панели)
type Client struct {
	ID     string
	Socket *websocket.Conn
	Send   chan frame

	// Закрывается менеджером при отключении
	quit chan struct{}
}

// SessionStatus состояние сессии панели
type SessionStatus struct {
	ID          string    `json:"id"`
	RemoteAddr  string    `json:"remote_addr"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`
	LastRunID   string    `json:"last_run_id,omitempty"`
	Renders     int       `json:"renders"`
	IsActive    bool      `json:"is_active"`
}

// Менеджер WebSocket-соединений
type Manager struct {
	Clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client

	renderer Renderer
	metrics  *metrics.Registry
	done     chan struct{}

	mu       sync.RWMutex
	statuses map[string]*SessionStatus
}

// Конфигурация WebSocket-соединения
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Панель может открываться с другого источника
	},
}
