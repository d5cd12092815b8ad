package flowrank

import (
	"time"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// FlowRankProcessor выполняет ранжирование с протоколированием
type FlowRankProcessor struct {
	logger *utils.ETLLogger
	config FlowRankConfig
}

// NewFlowRankProcessor создает новый экземпляр FlowRankProcessor
func NewFlowRankProcessor(logger *utils.ETLLogger, config FlowRankConfig) *FlowRankProcessor {
	return &FlowRankProcessor{
		logger: logger,
		config: config,
	}
}

// Process ранжирует потоки. topN переопределяет значение конфигурации, если больше нуля.
func (p *FlowRankProcessor) Process(enriched []models.EnrichedFlow, filter SectorFilter, topN int) FlowRankResult {
	startTime := time.Now()
	p.logger.LogPhaseStart("FlowRank")

	config := p.config
	if topN > 0 {
		config.TopN = topN
	}

	result := CalculateFlowRank(enriched, filter, config, p.logger)

	if result.FallbackUsed {
		p.logger.Info("Использован отраслевой рейтинг: %d пар из %d строк", len(result.Ranking), result.SectorRows)
	}
	p.logger.LogPhaseComplete("FlowRank", len(result.Display), startTime)
	return result
}

// GetConfig возвращает текущую конфигурацию ранжирования
func (p *FlowRankProcessor) GetConfig() FlowRankConfig {
	return p.config
}
