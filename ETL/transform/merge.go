package transform

import (
	"sort"

	"github.com/LilVoxy/flowmap/ETL/models"
)

// MergeFilter выбор стран, применяемый до слияния
type MergeFilter struct {
	Origins      models.Selection
	Destinations models.Selection
}

// Merge отбирает потоки по странам, применяет ограничение строк и выполняет
// левые соединения со справочниками координат и отраслей.
//
// Порядок шагов:
//  1. фильтр по странам и исключение внутренних потоков;
//  2. при превышении maxRows остаются maxRows строк с наибольшими значениями;
//  3. координаты источника и получателя из одного справочника;
//  4. названия отраслей строки и колонки из одного справочника.
//
// Строки без соответствия в справочниках сохраняются с nil-полями.
func Merge(flows []models.FlowRecord, locations LocationIndex, sectors SectorIndex, filter MergeFilter, maxRows int) *models.TransformedData {
	result := &models.TransformedData{}

	selected := make([]int, 0, len(flows))
	for i, f := range flows {
		if !filter.Origins.Has(f.OriginArea) || !filter.Destinations.Has(f.DestinationArea) {
			continue
		}
		if f.SelfFlow() {
			result.RowsSelfFlows++
			continue
		}
		selected = append(selected, i)
	}
	result.RowsMatched = len(selected)

	if maxRows > 0 && len(selected) > maxRows {
		selected = capByValue(flows, selected, maxRows)
		result.RowCapApplied = true
	}

	result.Flows = make([]models.EnrichedFlow, len(selected))
	for i, idx := range selected {
		f := flows[idx]
		row := models.EnrichedFlow{FlowRecord: f}

		row.OriginLat, row.OriginLon = locations.Lookup(f.OriginArea)
		row.DestLat, row.DestLon = locations.Lookup(f.DestinationArea)
		row.RowSectorName = sectors.Lookup(f.RowSector)
		row.ColSectorName = sectors.Lookup(f.ColSector)

		if row.OriginLat != nil {
			result.OriginsMatched++
		}
		if row.DestLat != nil {
			result.DestsMatched++
		}
		result.Flows[i] = row
	}

	return result
}

// capByValue оставляет limit строк с наибольшим значением, сохраняя исходный порядок строк
func capByValue(flows []models.FlowRecord, selected []int, limit int) []int {
	byValue := make([]int, len(selected))
	copy(byValue, selected)
	sort.SliceStable(byValue, func(i, j int) bool {
		return flows[byValue[i]].Value > flows[byValue[j]].Value
	})

	kept := byValue[:limit]
	sort.Ints(kept)
	return kept
}
