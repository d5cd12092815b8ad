package extractors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// Позиции колонок файла стран; заголовки могут быть произвольными
const (
	countryCodeColumn = 1
	countryLatColumn  = 2
	countryLonColumn  = 3
)

// CountryExtractor извлекает координаты стран
type CountryExtractor struct {
	logger *utils.ETLLogger
}

// NewCountryExtractor создает новый экземпляр CountryExtractor
func NewCountryExtractor(logger *utils.ETLLogger) *CountryExtractor {
	return &CountryExtractor{logger: logger}
}

// ExtractLocations извлекает координаты по позициям колонок (2-я - код, 3-я - широта, 4-я - долгота)
func (e *CountryExtractor) ExtractLocations(table *models.RawTable) ([]models.CountryLocation, error) {
	if len(table.Header) <= countryLonColumn {
		return nil, fmt.Errorf("%w: в %s ожидается не менее 4 колонок, получено %d",
			models.ErrInvalidTable, table.Name, len(table.Header))
	}

	seen := make(map[string]bool)
	locations := make([]models.CountryLocation, 0, len(table.Rows))
	var skipped int

	for _, row := range table.Rows {
		code, ok := cell(row, countryCodeColumn)
		rawLat, okLat := cell(row, countryLatColumn)
		rawLon, okLon := cell(row, countryLonColumn)
		if !ok || !okLat || !okLon {
			skipped++
			continue
		}

		code = normalizeKey(code)
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(rawLon), 64)
		if code == "" || errLat != nil || errLon != nil {
			skipped++
			continue
		}

		// Не более одной точки на код: берём первую
		if seen[code] {
			skipped++
			continue
		}
		seen[code] = true

		locations = append(locations, models.CountryLocation{Code: code, Lat: lat, Lon: lon})
	}

	e.logger.Debug("Извлечено %d координат стран, пропущено строк: %d", len(locations), skipped)
	return locations, nil
}
