// websocket/constants.go
package websocket

import (
	"time"
)

// Константы для WebSocket-соединения
const (
	// Время ожидания записи сообщения клиенту
	writeWait = 10 * time.Second

	// Время ожидания сообщения от клиента
	pongWait = 60 * time.Second

	// Период отправки пинг-сообщений
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения
	maxMessageSize = 64 * 1024 // 64KB

	// Сессия без запросов дольше этого времени считается неактивной
	inactivityTimeout = 65 * time.Second

	// Ограничение времени одного прогона по запросу сессии
	renderTimeout = 30 * time.Second

	// Размер очереди исходящих сообщений клиента
	sendBufferSize = 16
)

// Типы сообщений
const (
	TypeFilters = "filters"
	TypePing    = "ping"
	TypePong    = "pong"
	TypeSession = "session"
	TypeRender  = "render"
	TypeEmpty   = "empty"
	TypeError   = "error"
)
