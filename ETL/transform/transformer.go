package transform

import (
	"time"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// Transformer выполняет слияние над одним загруженным набором данных.
// Справочники строятся один раз и переиспользуются для всех запросов.
type Transformer struct {
	data      *models.SourceData
	locations LocationIndex
	sectors   SectorIndex
	maxRows   int
	logger    *utils.ETLLogger
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(data *models.SourceData, maxRows int, logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		data:      data,
		locations: NewLocationIndex(data.Locations),
		sectors:   NewSectorIndex(data.Taxonomy),
		maxRows:   maxRows,
		logger:    logger,
	}
}

// Transform выполняет фазу слияния для выбранных стран
func (t *Transformer) Transform(filter MergeFilter) *models.TransformedData {
	startTime := time.Now()
	t.logger.LogPhaseStart("Transform")

	result := Merge(t.data.Flows, t.locations, t.sectors, filter, t.maxRows)

	if result.RowCapApplied {
		t.logger.Info("Превышен лимит строк: %d из %d, оставлены строки с наибольшим значением",
			t.maxRows, result.RowsMatched)
	}
	t.logger.Debug("Слияние: строк %d, внутренних потоков отброшено %d, координаты источника %d, получателя %d",
		len(result.Flows), result.RowsSelfFlows, result.OriginsMatched, result.DestsMatched)

	t.logger.LogPhaseComplete("Transform", len(result.Flows), startTime)
	return result
}
