package transform

import "github.com/LilVoxy/flowmap/ETL/models"

// coordinates координаты страны; указатели общие для всех строк, ссылающихся на страну
type coordinates struct {
	lat *float64
	lon *float64
}

// LocationIndex справочник координат по коду страны
type LocationIndex map[string]coordinates

// NewLocationIndex строит справочник координат. При повторе кода побеждает первая запись.
func NewLocationIndex(locations []models.CountryLocation) LocationIndex {
	index := make(LocationIndex, len(locations))
	for _, loc := range locations {
		if _, exists := index[loc.Code]; exists {
			continue
		}
		lat, lon := loc.Lat, loc.Lon
		index[loc.Code] = coordinates{lat: &lat, lon: &lon}
	}
	return index
}

// Lookup возвращает координаты страны или nil, nil
func (idx LocationIndex) Lookup(code string) (lat, lon *float64) {
	c, ok := idx[code]
	if !ok {
		return nil, nil
	}
	return c.lat, c.lon
}

// SectorIndex справочник названий отраслей по коду
type SectorIndex map[string]*string

// NewSectorIndex строит справочник отраслей. При повторе кода побеждает первая запись.
func NewSectorIndex(taxonomy []models.SectorTaxonomy) SectorIndex {
	index := make(SectorIndex, len(taxonomy))
	for _, sector := range taxonomy {
		if _, exists := index[sector.Code]; exists {
			continue
		}
		name := sector.Name
		index[sector.Code] = &name
	}
	return index
}

// Lookup возвращает название отрасли или nil
func (idx SectorIndex) Lookup(code string) *string {
	return idx[code]
}
