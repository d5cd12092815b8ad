package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LilVoxy/flowmap/ETL/load"
	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/pipeline"
	"github.com/LilVoxy/flowmap/metrics"
	"github.com/LilVoxy/flowmap/processor"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer отвечает в зависимости от выбранных стран происхождения
type fakeRenderer struct{}

func (fakeRenderer) Run(_ context.Context, params pipeline.FilterParams) (*load.RenderPayload, error) {
	switch {
	case params.Origins != nil && len(params.Origins) == 0:
		return nil, &models.EmptySelectionError{Filter: pipeline.ParamOrigin}
	case len(params.Origins) == 1 && params.Origins[0] == "XX":
		return &load.RenderPayload{RunID: "run-empty", Status: load.StatusEmpty}, models.ErrEmptyResult
	case len(params.Origins) == 1 && params.Origins[0] == "FAIL":
		return nil, errors.New("сбой")
	default:
		return &load.RenderPayload{RunID: "run-ok", Status: load.StatusOK, TopN: params.TopN}, nil
	}
}

type harness struct {
	manager  *Manager
	registry *metrics.Registry
	server   *httptest.Server
	cancel   context.CancelFunc
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	registry := metrics.NewRegistry()
	manager := NewManager(fakeRenderer{}, registry)

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(manager.HandleConnections))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return &harness{manager: manager, registry: registry, server: server, cancel: cancel}
}

func dial(t *testing.T, h *harness) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Первое сообщение - идентификатор сессии
	msg := readMessage(t, conn)
	require.Equal(t, TypeSession, msg.Type)
	require.NotEmpty(t, msg.SessionID)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, processor.ProcessInboundMessage(data, kind == websocket.BinaryMessage, &msg))
	return msg
}

func TestPingPong(t *testing.T) {
	h := newHarness(t)
	conn := dial(t, h)

	require.NoError(t, conn.WriteJSON(Message{Type: TypePing}))
	assert.Equal(t, TypePong, readMessage(t, conn).Type)
}

func TestFiltersRender(t *testing.T) {
	h := newHarness(t)
	conn := dial(t, h)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"filters","filters":{"origin":["DE"],"top":10}}`)))
	msg := readMessage(t, conn)

	assert.Equal(t, TypeRender, msg.Type)
	require.NotNil(t, msg.Payload)
	assert.Equal(t, "run-ok", msg.Payload.RunID)
	assert.Equal(t, 10, msg.Payload.TopN)
}

func TestFiltersRenderCompressed(t *testing.T) {
	h := newHarness(t)
	conn := dial(t, h)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeFilters, Compress: true}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)

	var msg Message
	require.NoError(t, processor.ProcessInboundMessage(data, true, &msg))
	assert.Equal(t, TypeRender, msg.Type)
}

func TestFiltersEmptyAndErrors(t *testing.T) {
	h := newHarness(t)
	conn := dial(t, h)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"filters","filters":{"origin":["XX"]}}`)))
	msg := readMessage(t, conn)
	assert.Equal(t, TypeEmpty, msg.Type)
	require.NotNil(t, msg.Payload)
	assert.Equal(t, load.StatusEmpty, msg.Payload.Status)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"filters","filters":{"origin":[]}}`)))
	msg = readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, 422, msg.Code)
	assert.Contains(t, msg.Error, pipeline.ParamOrigin)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"filters","filters":{"origin":["FAIL"]}}`)))
	msg = readMessage(t, conn)
	assert.Equal(t, 500, msg.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	msg = readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, 400, msg.Code)
}

func TestSessionsAreTracked(t *testing.T) {
	h := newHarness(t)
	conn := dial(t, h)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeFilters}))
	readMessage(t, conn)

	assert.Equal(t, 1, h.manager.ClientCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.registry.WebsocketSessions))

	sessions := h.manager.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "run-ok", sessions[0].LastRunID)
	assert.Equal(t, 1, sessions[0].Renders)
	assert.True(t, sessions[0].IsActive)

	conn.Close()
	assert.Eventually(t, func() bool { return h.manager.ClientCount() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(h.registry.WebsocketSessions))
	assert.Empty(t, h.manager.Sessions())
}

func TestShutdownClosesSessions(t *testing.T) {
	h := newHarness(t)
	conn := dial(t, h)

	h.cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Eventually(t, func() bool { return h.manager.ClientCount() == 0 }, 5*time.Second, 10*time.Millisecond)
}
