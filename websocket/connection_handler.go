// websocket/connection_handler.go
package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
)

// HandleConnections обрабатывает WebSocket-соединения панели
func (manager *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	// Устанавливаем WebSocket-соединение
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Ошибка при установке WebSocket-соединения:", err)
		return
	}

	client := newClient(uuid.NewString(), conn)

	// Регистрируем клиента в менеджере
	if !manager.register(client) {
		log.Printf("⚠️ Менеджер остановлен, соединение с %s отклонено", r.RemoteAddr)
		conn.Close()
		return
	}
	manager.touch(client.ID, r.RemoteAddr)
	log.Printf("✅ Сессия %s подключилась с адреса %s", client.ID, r.RemoteAddr)

	// Сообщаем клиенту идентификатор сессии
	client.SendMessage(Message{Type: TypeSession, SessionID: client.ID}, false)

	// Запускаем горутины для чтения и отправки сообщений
	go client.readPump(manager)
	go client.writePump()
}
