package extractors

import (
	"context"
	"fmt"
	"time"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// Extractor координирует извлечение трех наборов данных
type Extractor struct {
	flowExtractor    *FlowExtractor
	countryExtractor *CountryExtractor
	sectorExtractor  *SectorExtractor
	logger           *utils.ETLLogger
}

// NewExtractor создает новый экземпляр Extractor
func NewExtractor(logger *utils.ETLLogger, allowedCountries []string) *Extractor {
	return &Extractor{
		flowExtractor:    NewFlowExtractor(logger, allowedCountries),
		countryExtractor: NewCountryExtractor(logger),
		sectorExtractor:  NewSectorExtractor(logger),
		logger:           logger,
	}
}

// Extract читает таблицы источника и нормализует их
func (e *Extractor) Extract(ctx context.Context, source Source) (*models.SourceData, error) {
	startTime := time.Now()
	e.logger.LogPhaseStart("Extract")

	identity, err := source.Identity(ctx)
	if err != nil {
		return nil, err
	}

	tables, err := source.ReadTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения исходных таблиц: %w", err)
	}

	data, err := e.ExtractTables(tables)
	if err != nil {
		return nil, err
	}
	data.Identity = identity

	e.logger.LogPhaseComplete("Extract", len(data.Flows), startTime)
	return data, nil
}

// ExtractTables нормализует уже прочитанные таблицы
func (e *Extractor) ExtractTables(tables *Tables) (*models.SourceData, error) {
	flows, stats, err := e.flowExtractor.ExtractFlows(tables.Flows)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения потоков: %w", err)
	}

	locations, err := e.countryExtractor.ExtractLocations(tables.Countries)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения координат: %w", err)
	}

	taxonomy, err := e.sectorExtractor.ExtractTaxonomy(tables.Sectors)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения классификатора отраслей: %w", err)
	}

	e.logger.Info("Загружено: потоков %d (прочитано %d, вне списка %d, некорректных %d), стран %d, отраслей %d",
		len(flows), stats.Read, stats.OutsideList, stats.InvalidValues, len(locations), len(taxonomy))

	return &models.SourceData{
		Flows:            flows,
		Locations:        locations,
		Taxonomy:         taxonomy,
		FlowsRead:        stats.Read,
		FlowsOutsideList: stats.OutsideList,
		FlowsInvalid:     stats.InvalidValues,
		LoadedAt:         time.Now(),
	}, nil
}
