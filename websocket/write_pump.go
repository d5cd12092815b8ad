// websocket/write_pump.go
package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// writePump отвечает за отправку сообщений клиенту
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()

		// Безопасно закрываем соединение
		c.Socket.Close()

		log.Printf("Завершение writePump для сессии %s", c.ID)
	}()

	for {
		select {
		case msg := <-c.Send:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			// Каждое сообщение отправляется отдельным кадром
			if err := c.Socket.WriteMessage(msg.kind, msg.data); err != nil {
				return
			}

		case <-c.quit:
			// Сессия закрыта менеджером
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			c.Socket.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
