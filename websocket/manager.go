// websocket/manager.go
package websocket

import (
	"context"
	"log"

	"github.com/LilVoxy/flowmap/metrics"
)

// Создание нового менеджера WebSocket-соединений
func NewManager(renderer Renderer, registry *metrics.Registry) *Manager {
	if registry == nil {
		registry = metrics.DefaultRegistry()
	}
	return &Manager{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		renderer:   renderer,
		metrics:    registry,
		done:       make(chan struct{}),
		statuses:   make(map[string]*SessionStatus),
	}
}

// Run запускает работу менеджера до отмены контекста
func (manager *Manager) Run(ctx context.Context) {
	defer close(manager.done)

	for {
		select {
		case <-ctx.Done():
			manager.closeAll()
			log.Println("👋 Менеджер WebSocket остановлен")
			return

		case client := <-manager.Register:
			manager.mu.Lock()
			manager.Clients[client.ID] = client
			manager.mu.Unlock()
			manager.metrics.WebsocketSessions.Inc()
			log.Printf("👤 Сессия %s подключилась", client.ID)

		case client := <-manager.Unregister:
			if manager.remove(client) {
				log.Printf("👤 Сессия %s отключилась", client.ID)
			}
		}
	}
}

// ClientCount возвращает число подключенных сессий
func (manager *Manager) ClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.Clients)
}

// register передает клиента менеджеру; false, если менеджер уже остановлен
func (manager *Manager) register(client *Client) bool {
	select {
	case manager.Register <- client:
		return true
	case <-manager.done:
		return false
	}
}

// unregister передает отключение менеджеру, если он еще работает
func (manager *Manager) unregister(client *Client) {
	select {
	case manager.Unregister <- client:
	case <-manager.done:
	}
}

// remove удаляет клиента и сигнализирует его писателю о завершении
func (manager *Manager) remove(client *Client) bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if _, ok := manager.Clients[client.ID]; !ok {
		return false
	}
	delete(manager.Clients, client.ID)
	delete(manager.statuses, client.ID)
	close(client.quit)
	manager.metrics.WebsocketSessions.Dec()
	return true
}

// closeAll отключает все сессии при остановке
func (manager *Manager) closeAll() {
	manager.mu.Lock()
	clients := make([]*Client, 0, len(manager.Clients))
	for _, client := range manager.Clients {
		clients = append(clients, client)
	}
	manager.mu.Unlock()

	for _, client := range clients {
		manager.remove(client)
		client.Socket.Close()
	}
}
