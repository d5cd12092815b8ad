package load

import "github.com/LilVoxy/flowmap/ETL/models"

// Статусы результата отрисовки
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
)

// Параметры отображения карты
const (
	DefaultZoom = 2.0
	ArcTilt     = 15.0
	MapStyle    = "light"

	// Центр карты, если ни у одной строки нет координат
	FallbackCenterLat = 50.0
	FallbackCenterLon = 10.0

	TooltipTemplate = "Origin: {refArea}\nDestination: {counterpartArea}\nValue: {obsValue}\nRow: {rowIi_name}\nCol: {colIi_name}"
)

// Цвета слоев в формате RGBA
var (
	ArcColor        = [4]uint8{0, 128, 200, 200}
	BubbleFillColor = [4]uint8{30, 144, 255, 160}
)

// ViewState начальное положение камеры
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
}

// ArcLayer слой дуг: одна дуга на отображаемую строку
type ArcLayer struct {
	Type     string               `json:"type"`
	Tilt     float64              `json:"tilt"`
	Color    [4]uint8             `json:"color"`
	Pickable bool                 `json:"pickable"`
	Data     []models.DisplayFlow `json:"data"`
}

// BubbleLayer слой пузырей получателей
type BubbleLayer struct {
	Type      string                 `json:"type"`
	FillColor [4]uint8               `json:"fill_color"`
	Pickable  bool                   `json:"pickable"`
	Data      []models.DisplayBubble `json:"data"`
}

// SummaryRow строка сводной таблицы рейтинга
type SummaryRow struct {
	Rank        int     `json:"rank"`
	Origin      string  `json:"refArea"`
	Destination string  `json:"counterpartArea"`
	Value       float64 `json:"obsValue"`
}

// Summary сводка по отображаемым потокам
type Summary struct {
	TotalFlows   int          `json:"total_flows"`
	TotalValue   float64      `json:"total_value"`
	AverageValue float64      `json:"average_value"`
	Ranking      []SummaryRow `json:"ranking"`
}

// RenderPayload полный результат одного прогона для клиента карты
type RenderPayload struct {
	RunID        string      `json:"run_id"`
	Status       string      `json:"status"`
	Message      string      `json:"message,omitempty"`
	ViewState    ViewState   `json:"view_state"`
	MapStyle     string      `json:"map_style"`
	Arcs         ArcLayer    `json:"arcs"`
	Bubbles      BubbleLayer `json:"bubbles"`
	Tooltip      string      `json:"tooltip"`
	Summary      Summary     `json:"summary"`
	FallbackUsed bool        `json:"fallback_used"`
	TopN         int         `json:"top_n"`
}

// RenderInput данные, из которых собирается RenderPayload
type RenderInput struct {
	RunID        string
	Display      []models.DisplayFlow
	Ranking      []models.RankedFlowPair
	Bubbles      []models.DisplayBubble
	FallbackUsed bool
	TopN         int
}
