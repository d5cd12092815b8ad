package load

import (
	"fmt"
	"io"
	"time"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// EmptyResultMessage подсказка пользователю при пустом пересечении фильтров
const EmptyResultMessage = "Нет потоков для выбранных стран и отраслей. Измените фильтры."

// LoadManager собирает результат прогона и управляет выгрузками
type LoadManager struct {
	logger  *utils.ETLLogger
	loaders map[string]Loader
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(logger *utils.ETLLogger) *LoadManager {
	return &LoadManager{
		logger: logger,
		loaders: map[string]Loader{
			FormatGeoJSON: NewGeoJSONLoader(),
			FormatXLSX:    NewSummaryLoader(),
		},
	}
}

// Load собирает RenderPayload из ранжированных и масштабированных данных
func (m *LoadManager) Load(input RenderInput) *RenderPayload {
	startTime := time.Now()
	m.logger.LogPhaseStart("Load")

	payload := &RenderPayload{
		RunID:     input.RunID,
		Status:    StatusOK,
		ViewState: viewState(input.Display),
		MapStyle:  MapStyle,
		Arcs: ArcLayer{
			Type:     "ArcLayer",
			Tilt:     ArcTilt,
			Color:    ArcColor,
			Pickable: true,
			Data:     nonNilFlows(input.Display),
		},
		Bubbles: BubbleLayer{
			Type:      "ScatterplotLayer",
			FillColor: BubbleFillColor,
			Pickable:  true,
			Data:      nonNilBubbles(input.Bubbles),
		},
		Tooltip:      TooltipTemplate,
		Summary:      summarize(input.Display, input.Ranking),
		FallbackUsed: input.FallbackUsed,
		TopN:         input.TopN,
	}

	if len(input.Display) == 0 {
		payload.Status = StatusEmpty
		payload.Message = EmptyResultMessage
	}

	m.logger.LogPhaseComplete("Load", len(input.Display), startTime)
	return payload
}

// Export выгружает результат в указанном формате
func (m *LoadManager) Export(format string, w io.Writer, payload *RenderPayload) error {
	loader, ok := m.loaders[format]
	if !ok {
		return fmt.Errorf("неизвестный формат выгрузки: %s", format)
	}
	if err := loader.Write(w, payload); err != nil {
		m.logger.Error("Ошибка выгрузки %s: %v", format, err)
		return fmt.Errorf("ошибка выгрузки %s: %w", format, err)
	}
	return nil
}

// ContentType возвращает MIME-тип формата
func (m *LoadManager) ContentType(format string) string {
	if loader, ok := m.loaders[format]; ok {
		return loader.ContentType()
	}
	return "application/octet-stream"
}

// viewState центр карты: среднее из средних координат источников и получателей
func viewState(display []models.DisplayFlow) ViewState {
	var originLat, originLon, destLat, destLon mean
	for _, d := range display {
		if d.OriginLat != nil && d.OriginLon != nil {
			originLat.add(*d.OriginLat)
			originLon.add(*d.OriginLon)
		}
		if d.DestLat != nil && d.DestLon != nil {
			destLat.add(*d.DestLat)
			destLon.add(*d.DestLon)
		}
	}

	lat, okLat := meanOf(originLat, destLat)
	lon, okLon := meanOf(originLon, destLon)
	if !okLat || !okLon {
		lat, lon = FallbackCenterLat, FallbackCenterLon
	}
	return ViewState{Latitude: lat, Longitude: lon, Zoom: DefaultZoom}
}

// summarize считает итоги по отображаемым строкам и таблицу рейтинга
func summarize(display []models.DisplayFlow, ranking []models.RankedFlowPair) Summary {
	summary := Summary{
		TotalFlows: len(display),
		Ranking:    make([]SummaryRow, 0, len(ranking)),
	}
	for _, d := range display {
		summary.TotalValue += d.Value
	}
	if summary.TotalFlows > 0 {
		summary.AverageValue = summary.TotalValue / float64(summary.TotalFlows)
	}
	for i, p := range ranking {
		summary.Ranking = append(summary.Ranking, SummaryRow{
			Rank:        i + 1,
			Origin:      p.Origin,
			Destination: p.Destination,
			Value:       p.TotalValue,
		})
	}
	return summary
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

// meanOf среднее из средних, пустые средние пропускаются
func meanOf(values ...mean) (float64, bool) {
	var sum float64
	var n int
	for _, v := range values {
		if v.n == 0 {
			continue
		}
		sum += v.sum / float64(v.n)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func nonNilFlows(flows []models.DisplayFlow) []models.DisplayFlow {
	if flows == nil {
		return []models.DisplayFlow{}
	}
	return flows
}

func nonNilBubbles(bubbles []models.DisplayBubble) []models.DisplayBubble {
	if bubbles == nil {
		return []models.DisplayBubble{}
	}
	return bubbles
}
