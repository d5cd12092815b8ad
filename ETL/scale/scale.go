package scale

import (
	"math"

	"github.com/LilVoxy/flowmap/ETL/models"
	"gonum.org/v1/gonum/floats"
)

// Границы визуальных шкал
const (
	MinArcWidth = 1.0
	MaxArcWidth = 4.0

	MinRadius        = 20000.0
	MaxRadius        = 70000.0
	DegenerateRadius = 25000.0

	// Нижняя граница значения перед логарифмированием
	minLogValue = 1.0
)

// ArcWidth логарифмическая ширина дуги в диапазоне [1, 4], округленная вниз.
// vmin и vmax должны быть уже ограничены снизу единицей.
func ArcWidth(v, vmin, vmax float64) float64 {
	if vmax == vmin {
		return MinArcWidth
	}
	v = math.Max(v, minLogValue)
	width := MinArcWidth + (MaxArcWidth-MinArcWidth)*(math.Log(v)-math.Log(vmin))/(math.Log(vmax)-math.Log(vmin))
	return clamp(math.Floor(width), MinArcWidth, MaxArcWidth)
}

// BubbleRadius радиус пузыря по корню из нормированного значения в диапазоне [20000, 70000]
func BubbleRadius(v, vmin, vmax float64) float64 {
	if vmax == vmin {
		return DegenerateRadius
	}
	ratio := clamp((v-vmin)/(vmax-vmin), 0, 1)
	return MinRadius + (MaxRadius-MinRadius)*math.Sqrt(ratio)
}

// ApplyArcWidths проставляет ширину дуги по сумме пары из рейтинга.
// Границы шкалы берутся только по отображаемому рейтингу.
func ApplyArcWidths(display []models.DisplayFlow, ranking []models.RankedFlowPair) {
	if len(display) == 0 || len(ranking) == 0 {
		return
	}

	totals := make(map[models.PairKey]float64, len(ranking))
	bounded := make([]float64, len(ranking))
	for i, p := range ranking {
		totals[p.PairKey] = p.TotalValue
		bounded[i] = math.Max(p.TotalValue, minLogValue)
	}
	vmin, vmax := floats.Min(bounded), floats.Max(bounded)

	for i := range display {
		total, ok := totals[display[i].Pair()]
		if !ok {
			total = display[i].PairTotal
		}
		display[i].PairTotal = total
		display[i].ArcWidth = ArcWidth(total, vmin, vmax)
	}
}

// Bubbles агрегирует входящий объем по странам-получателям и рассчитывает радиусы.
// Строки без координат получателя в пузыри не попадают.
func Bubbles(display []models.DisplayFlow) []models.DisplayBubble {
	position := make(map[string]int)
	var bubbles []models.DisplayBubble

	for _, d := range display {
		if d.DestLat == nil || d.DestLon == nil {
			continue
		}
		i, ok := position[d.DestinationArea]
		if !ok {
			i = len(bubbles)
			position[d.DestinationArea] = i
			bubbles = append(bubbles, models.DisplayBubble{
				Destination: d.DestinationArea,
				Lat:         *d.DestLat,
				Lon:         *d.DestLon,
			})
		}
		bubbles[i].Value += d.Value
	}

	ApplyBubbleRadii(bubbles)
	return bubbles
}

// ApplyBubbleRadii проставляет радиусы по текущему набору пузырей
func ApplyBubbleRadii(bubbles []models.DisplayBubble) {
	if len(bubbles) == 0 {
		return
	}

	values := make([]float64, len(bubbles))
	for i, b := range bubbles {
		values[i] = b.Value
	}
	vmin, vmax := floats.Min(values), floats.Max(values)

	for i := range bubbles {
		bubbles[i].Radius = BubbleRadius(bubbles[i].Value, vmin, vmax)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
