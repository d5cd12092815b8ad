package extractors

import (
	"fmt"
	"strings"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// SectorExtractor извлекает классификатор отраслей
type SectorExtractor struct {
	logger *utils.ETLLogger
}

// NewSectorExtractor создает новый экземпляр SectorExtractor
func NewSectorExtractor(logger *utils.ETLLogger) *SectorExtractor {
	return &SectorExtractor{logger: logger}
}

// ExtractTaxonomy использует только первые две колонки (код, название), остальные игнорируются
func (e *SectorExtractor) ExtractTaxonomy(table *models.RawTable) ([]models.SectorTaxonomy, error) {
	if len(table.Header) < 2 {
		return nil, fmt.Errorf("%w: в %s ожидается не менее 2 колонок, получено %d",
			models.ErrInvalidTable, table.Name, len(table.Header))
	}

	seen := make(map[string]bool)
	taxonomy := make([]models.SectorTaxonomy, 0, len(table.Rows))

	for _, row := range table.Rows {
		code, ok := cell(row, 0)
		name, okName := cell(row, 1)
		if !ok || !okName {
			continue
		}

		code = normalizeKey(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		taxonomy = append(taxonomy, models.SectorTaxonomy{Code: code, Name: strings.TrimSpace(name)})
	}

	e.logger.Debug("Извлечено %d отраслей классификатора", len(taxonomy))
	return taxonomy, nil
}
