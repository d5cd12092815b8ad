package flowrank

import (
	"sort"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// AggregatePairs суммирует значения по парам стран. Пары упорядочены по убыванию
// суммы, равные суммы сохраняют порядок первого появления пары.
func AggregatePairs(rows []models.EnrichedFlow) []models.RankedFlowPair {
	position := make(map[models.PairKey]int)
	var pairs []models.RankedFlowPair

	for _, row := range rows {
		key := row.Pair()
		i, ok := position[key]
		if !ok {
			i = len(pairs)
			position[key] = i
			pairs = append(pairs, models.RankedFlowPair{PairKey: key})
		}
		pairs[i].TotalValue += row.Value
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].TotalValue > pairs[j].TotalValue
	})
	return pairs
}

// TopPairs возвращает не более n пар с наибольшей суммой
func TopPairs(rows []models.EnrichedFlow, n int) []models.RankedFlowPair {
	pairs := AggregatePairs(rows)
	if n >= 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

// CalculateFlowRank строит рейтинг пар и строки для отображения.
//
// Отбор пар выполняется по всему набору без отраслевого фильтра, затем к
// отобранным парам применяется отраслевой фильтр, а суммы пересчитываются
// только по прошедшим строкам. Если среди кандидатов меньше
// config.FallbackMinPairs различных пар, рейтинг строится заново по
// отраслевой выборке.
func CalculateFlowRank(enriched []models.EnrichedFlow, filter SectorFilter, config FlowRankConfig, logger *utils.ETLLogger) FlowRankResult {
	var result FlowRankResult

	// 1. Глобальный рейтинг
	result.GlobalTop = TopPairs(enriched, config.TopN)
	globalSet := make(map[models.PairKey]bool, len(result.GlobalTop))
	for _, p := range result.GlobalTop {
		globalSet[p.PairKey] = true
	}

	// 2. Отраслевая выборка и кандидаты
	var sectorRows, candidates []models.EnrichedFlow
	candidatePairs := make(map[models.PairKey]bool)
	for _, row := range enriched {
		if !filter.Match(row) {
			continue
		}
		sectorRows = append(sectorRows, row)
		if globalSet[row.Pair()] {
			candidates = append(candidates, row)
			candidatePairs[row.Pair()] = true
		}
	}
	result.SectorRows = len(sectorRows)
	result.CandidatePairs = len(candidatePairs)

	// 3-4. Локальный рейтинг или пересчет сумм по кандидатам
	source := candidates
	if len(candidates) == 0 || len(candidatePairs) < config.FallbackMinPairs {
		result.FallbackUsed = true
		result.Ranking = TopPairs(sectorRows, config.TopN)
		source = sectorRows
		logger.Debug("Кандидатов глобального рейтинга: %d пар (порог %d), используется отраслевой рейтинг",
			len(candidatePairs), config.FallbackMinPairs)
	} else {
		result.Ranking = AggregatePairs(candidates)
	}

	result.Display = displayFlows(source, result.Ranking)
	return result
}

// displayFlows отбирает строки пар рейтинга: по рангу пары, внутри пары по убыванию значения
func displayFlows(rows []models.EnrichedFlow, ranking []models.RankedFlowPair) []models.DisplayFlow {
	rank := make(map[models.PairKey]int, len(ranking))
	for i, p := range ranking {
		rank[p.PairKey] = i
	}

	display := make([]models.DisplayFlow, 0, len(rows))
	for _, row := range rows {
		i, ok := rank[row.Pair()]
		if !ok {
			continue
		}
		display = append(display, models.DisplayFlow{
			EnrichedFlow: row,
			PairTotal:    ranking[i].TotalValue,
		})
	}

	sort.SliceStable(display, func(i, j int) bool {
		ri, rj := rank[display[i].Pair()], rank[display[j].Pair()]
		if ri != rj {
			return ri < rj
		}
		return display[i].Value > display[j].Value
	})
	return display
}
