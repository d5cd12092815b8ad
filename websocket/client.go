// websocket/client.go
package websocket

import (
	"log"

	"github.com/LilVoxy/flowmap/processor"
	"github.com/gorilla/websocket"
)

// newClient создает клиента для установленного соединения
func newClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:     id,
		Socket: conn,
		Send:   make(chan frame, sendBufferSize),
		quit:   make(chan struct{}),
	}
}

// SendMessage кодирует сообщение и ставит его в очередь на отправку.
// Сжатые сообщения отправляются бинарными кадрами.
func (c *Client) SendMessage(msg Message, compress bool) bool {
	data, err := processor.ProcessOutboundMessage(msg, compress)
	if err != nil {
		log.Printf("❌ Ошибка кодирования сообщения для сессии %s: %v", c.ID, err)
		return false
	}

	kind := websocket.TextMessage
	if compress {
		kind = websocket.BinaryMessage
	}

	select {
	case c.Send <- frame{kind: kind, data: data}:
		return true
	case <-c.quit:
		return false
	}
}
