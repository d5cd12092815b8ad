package scale

import (
	"time"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// ScaleProcessor рассчитывает визуальные веса для отображаемых потоков
type ScaleProcessor struct {
	logger *utils.ETLLogger
}

// NewScaleProcessor создает новый экземпляр ScaleProcessor
func NewScaleProcessor(logger *utils.ETLLogger) *ScaleProcessor {
	return &ScaleProcessor{logger: logger}
}

// Process проставляет ширину дуг и возвращает пузыри получателей
func (p *ScaleProcessor) Process(display []models.DisplayFlow, ranking []models.RankedFlowPair) []models.DisplayBubble {
	startTime := time.Now()
	p.logger.LogPhaseStart("Scale")

	ApplyArcWidths(display, ranking)
	bubbles := Bubbles(display)

	p.logger.LogPhaseComplete("Scale", len(display), startTime)
	return bubbles
}
