package extractors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// Обязательные колонки файла потоков
const (
	ColumnRefArea         = "refArea"
	ColumnCounterpartArea = "counterpartArea"
	ColumnRowIi           = "rowIi"
	ColumnColIi           = "colIi"
	ColumnObsValue        = "obsValue"
)

// FlowExtractor извлекает записи потоков из таблицы-источника
type FlowExtractor struct {
	logger  *utils.ETLLogger
	allowed models.Selection
}

// NewFlowExtractor создает новый экземпляр FlowExtractor
func NewFlowExtractor(logger *utils.ETLLogger, allowedCountries []string) *FlowExtractor {
	allowed := make(models.Selection, len(allowedCountries))
	for _, code := range allowedCountries {
		allowed[normalizeKey(code)] = struct{}{}
	}
	return &FlowExtractor{
		logger:  logger,
		allowed: allowed,
	}
}

// FlowStats статистика извлечения потоков
type FlowStats struct {
	Read          int
	OutsideList   int
	InvalidValues int
}

// ExtractFlows извлекает потоки, оставляя только пары стран из списка допустимых
func (e *FlowExtractor) ExtractFlows(table *models.RawTable) ([]models.FlowRecord, FlowStats, error) {
	var stats FlowStats

	columns := []string{ColumnRefArea, ColumnCounterpartArea, ColumnRowIi, ColumnColIi, ColumnObsValue}
	idx := make(map[string]int, len(columns))
	var missing []string
	for _, name := range columns {
		i := table.ColumnIndex(name)
		if i < 0 {
			missing = append(missing, name)
		}
		idx[name] = i
	}
	if len(missing) > 0 {
		return nil, stats, fmt.Errorf("%w: в %s нет колонок %s", models.ErrInvalidTable, table.Name, strings.Join(missing, ", "))
	}

	flows := make([]models.FlowRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		stats.Read++

		origin, ok1 := cell(row, idx[ColumnRefArea])
		dest, ok2 := cell(row, idx[ColumnCounterpartArea])
		if !ok1 || !ok2 {
			stats.InvalidValues++
			continue
		}
		origin, dest = normalizeKey(origin), normalizeKey(dest)

		// Отсекаем страны вне списка до любого слияния
		if !e.allowed.Has(origin) || !e.allowed.Has(dest) {
			stats.OutsideList++
			continue
		}

		rawValue, _ := cell(row, idx[ColumnObsValue])
		value, err := strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
			stats.InvalidValues++
			continue
		}

		rowSector, _ := cell(row, idx[ColumnRowIi])
		colSector, _ := cell(row, idx[ColumnColIi])
		flows = append(flows, models.FlowRecord{
			OriginArea:      origin,
			DestinationArea: dest,
			RowSector:       normalizeKey(rowSector),
			ColSector:       normalizeKey(colSector),
			Value:           value,
		})
	}

	e.logger.Debug("Извлечено %d потоков из %d строк (вне списка: %d, некорректных: %d)",
		len(flows), stats.Read, stats.OutsideList, stats.InvalidValues)
	return flows, stats, nil
}
