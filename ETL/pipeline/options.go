package pipeline

import (
	"sort"
	"strings"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/transform"
)

// Значения фильтров по умолчанию
const (
	DefaultDestination     = "ES"
	DefaultColSectorPrefix = "wholesale trade"
)

// FilterDefaults значения фильтров, подставляемые при их отсутствии в запросе
type FilterDefaults struct {
	Origins      []string `json:"origin"`
	Destinations []string `json:"destination"`
	RowSectors   []string `json:"rowSector"`
	ColSectors   []string `json:"colSector"`
	TopN         int      `json:"top"`
}

// Options доступные значения фильтров для загруженного набора данных
type Options struct {
	Origins      []string       `json:"origins"`
	Destinations []string       `json:"destinations"`
	RowSectors   []string       `json:"row_sectors"`
	ColSectors   []string       `json:"col_sectors"`
	Defaults     FilterDefaults `json:"defaults"`
	MinTopN      int            `json:"min_top_n"`
	MaxTopN      int            `json:"max_top_n"`
}

// BuildOptions собирает отсортированные уникальные значения фильтров и значения по умолчанию
func BuildOptions(data *models.SourceData, sectors transform.SectorIndex, defaultTopN, maxTopN int) *Options {
	origins := make(map[string]bool)
	destinations := make(map[string]bool)
	rowSectors := make(map[string]bool)
	colSectors := make(map[string]bool)

	for _, f := range data.Flows {
		origins[f.OriginArea] = true
		destinations[f.DestinationArea] = true
		if name := sectors.Lookup(f.RowSector); name != nil {
			rowSectors[*name] = true
		}
		if name := sectors.Lookup(f.ColSector); name != nil {
			colSectors[*name] = true
		}
	}

	options := &Options{
		Origins:      sortedKeys(origins),
		Destinations: sortedKeys(destinations),
		RowSectors:   sortedKeys(rowSectors),
		ColSectors:   sortedKeys(colSectors),
		MinTopN:      1,
		MaxTopN:      maxTopN,
	}

	options.Defaults = FilterDefaults{
		Origins:      options.Origins,
		Destinations: defaultDestination(options.Destinations),
		RowSectors:   options.RowSectors,
		ColSectors:   defaultColSector(options.ColSectors),
		TopN:         defaultTopN,
	}
	return options
}

// defaultDestination ES, если есть, иначе первая доступная страна
func defaultDestination(destinations []string) []string {
	for _, d := range destinations {
		if d == DefaultDestination {
			return []string{d}
		}
	}
	if len(destinations) > 0 {
		return []string{destinations[0]}
	}
	return []string{}
}

// defaultColSector отрасль оптовой торговли, если есть, иначе первая отрасль
func defaultColSector(names []string) []string {
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), DefaultColSectorPrefix) {
			return []string{name}
		}
	}
	if len(names) > 0 {
		return []string{names[0]}
	}
	return []string{}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
