package flowrank

import "github.com/LilVoxy/flowmap/ETL/models"

// DefaultFallbackMinPairs минимальное число различных пар среди кандидатов,
// при котором сохраняется глобальный рейтинг. Ниже порога рейтинг строится
// только по отраслевой выборке.
const DefaultFallbackMinPairs = 5

// FlowRankConfig содержит параметры ранжирования
type FlowRankConfig struct {
	TopN             int // Количество пар в рейтинге
	FallbackMinPairs int // Порог перехода на локальный рейтинг
}

// DefaultConfig возвращает конфигурацию ранжирования по умолчанию
func DefaultConfig() FlowRankConfig {
	return FlowRankConfig{
		TopN:             25,
		FallbackMinPairs: DefaultFallbackMinPairs,
	}
}

// SectorFilter выбор отраслей по названиям. Строки без названия отрасли не проходят фильтр.
type SectorFilter struct {
	RowSectors models.Selection
	ColSectors models.Selection
}

// Match проверяет строку на соответствие фильтру
func (f SectorFilter) Match(row models.EnrichedFlow) bool {
	return f.RowSectors.HasName(row.RowSectorName) && f.ColSectors.HasName(row.ColSectorName)
}

// FlowRankResult содержит результаты ранжирования
type FlowRankResult struct {
	Display        []models.DisplayFlow    // Строки для отображения, по рангу пары
	Ranking        []models.RankedFlowPair // Рейтинг пар по убыванию суммы
	GlobalTop      []models.RankedFlowPair // Глобальный рейтинг до отраслевого фильтра
	FallbackUsed   bool                    // Использован локальный отраслевой рейтинг
	SectorRows     int                     // Строк после отраслевого фильтра
	CandidatePairs int                     // Различных пар среди кандидатов глобального рейтинга
}

// Empty сообщает, что после всех фильтров не осталось строк
func (r FlowRankResult) Empty() bool {
	return len(r.Display) == 0
}
