// websocket/render_handler.go
package websocket

import (
	"context"
	"errors"
	"log"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/pipeline"
)

// handleFilters выполняет прогон для фильтров сессии и отправляет результат
func (manager *Manager) handleFilters(c *Client, msg Message) {
	params := pipeline.FilterParams{}
	if msg.Filters != nil {
		params = *msg.Filters
	}

	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	payload, err := manager.renderer.Run(ctx, params)
	switch {
	case err == nil:
		manager.recordRender(c.ID, payload.RunID)
		c.SendMessage(Message{Type: TypeRender, SessionID: c.ID, Payload: payload}, msg.Compress)

	case errors.Is(err, models.ErrEmptyResult):
		// Отрисовка заблокирована, панель показывает подсказку
		manager.recordRender(c.ID, payload.RunID)
		c.SendMessage(Message{Type: TypeEmpty, SessionID: c.ID, Payload: payload}, msg.Compress)

	default:
		log.Printf("❌ Ошибка прогона для сессии %s: %v", c.ID, err)
		c.SendMessage(Message{
			Type:      TypeError,
			SessionID: c.ID,
			Error:     err.Error(),
			Code:      pipeline.StatusCode(err),
		}, false)
	}
}
