// websocket/read_pump.go
package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// readPump обрабатывает чтение сообщений от клиента
func (c *Client) readPump(manager *Manager) {
	defer func() {
		// Отправляем сигнал отключения
		manager.unregister(c)

		// Безопасно закрываем соединение
		c.Socket.Close()

		log.Printf("Завершение readPump для сессии %s", c.ID)
	}()

	// Устанавливаем параметры подключения
	c.Socket.SetReadLimit(maxMessageSize)
	c.Socket.SetReadDeadline(time.Now().Add(pongWait))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Читаем сообщения
		_, message, err := c.Socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Ошибка: %v", err)
			}
			break
		}
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))

		// Обрабатываем полученное сообщение
		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Println("Ошибка декодирования сообщения:", err)
			c.SendMessage(Message{Type: TypeError, Error: "некорректное сообщение: " + err.Error(), Code: 400}, false)
			continue
		}

		switch msg.Type {
		case TypePing:
			// Отправляем понг-сообщение обратно клиенту
			c.SendMessage(Message{Type: TypePong}, false)

		case TypeFilters:
			manager.handleFilters(c, msg)

		default:
			log.Printf("Неизвестный тип сообщения %q от сессии %s", msg.Type, c.ID)
			c.SendMessage(Message{Type: TypeError, Error: "неизвестный тип сообщения: " + msg.Type, Code: 400}, false)
		}
	}
}
