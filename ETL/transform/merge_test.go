package transform

import (
	"testing"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testLocations = []models.CountryLocation{
		{Code: "DE", Lat: 51.1, Lon: 10.4},
		{Code: "FR", Lat: 46.2, Lon: 2.2},
		{Code: "DE", Lat: 0, Lon: 0},
	}
	testTaxonomy = []models.SectorTaxonomy{
		{Code: "C10", Name: "Food"},
		{Code: "G46", Name: "Wholesale trade"},
	}
	testCodes   = []string{"DE", "FR", "IT", "ES"}
	testSectors = []string{"C10", "G46", "Z99"}
)

func allCountries() MergeFilter {
	return MergeFilter{
		Origins:      models.NewSelection(testCodes...),
		Destinations: models.NewSelection(testCodes...),
	}
}

func TestMergeEnrichesAndKeepsUnmatched(t *testing.T) {
	flows := []models.FlowRecord{
		{OriginArea: "DE", DestinationArea: "FR", RowSector: "C10", ColSector: "G46", Value: 100},
		{OriginArea: "IT", DestinationArea: "DE", RowSector: "Z99", ColSector: "C10", Value: 5},
	}

	result := Merge(flows, NewLocationIndex(testLocations), NewSectorIndex(testTaxonomy), allCountries(), 0)
	require.Len(t, result.Flows, 2)

	first := result.Flows[0]
	require.NotNil(t, first.OriginLat)
	assert.Equal(t, 51.1, *first.OriginLat, "первая запись кода побеждает")
	assert.Equal(t, 10.4, *first.OriginLon)
	assert.Equal(t, 46.2, *first.DestLat)
	assert.Equal(t, "Food", *first.RowSectorName)
	assert.Equal(t, "Wholesale trade", *first.ColSectorName)

	second := result.Flows[1]
	assert.Nil(t, second.OriginLat, "координаты не подставляются по умолчанию")
	assert.Nil(t, second.OriginLon)
	assert.Equal(t, 51.1, *second.DestLat)
	assert.Nil(t, second.RowSectorName)
	assert.Equal(t, "Food", *second.ColSectorName)

	assert.Equal(t, 1, result.OriginsMatched)
	assert.Equal(t, 2, result.DestsMatched)
}

func TestMergeExcludesSelfFlowsAndFilters(t *testing.T) {
	flows := []models.FlowRecord{
		{OriginArea: "DE", DestinationArea: "DE", Value: 500},
		{OriginArea: "DE", DestinationArea: "FR", Value: 1},
		{OriginArea: "FR", DestinationArea: "IT", Value: 2},
		{OriginArea: "IT", DestinationArea: "ES", Value: 3},
	}
	filter := MergeFilter{
		Origins:      models.NewSelection("DE", "FR"),
		Destinations: models.NewSelection("DE", "FR", "IT"),
	}

	result := Merge(flows, NewLocationIndex(nil), NewSectorIndex(nil), filter, 0)

	require.Len(t, result.Flows, 2)
	assert.Equal(t, "FR", result.Flows[0].DestinationArea)
	assert.Equal(t, "IT", result.Flows[1].DestinationArea)
	assert.Equal(t, 1, result.RowsSelfFlows)
	assert.Equal(t, 2, result.RowsMatched)
}

func TestMergeRowCapKeepsLargestInInputOrder(t *testing.T) {
	flows := []models.FlowRecord{
		{OriginArea: "DE", DestinationArea: "FR", Value: 1},
		{OriginArea: "DE", DestinationArea: "IT", Value: 9},
		{OriginArea: "FR", DestinationArea: "IT", Value: 5},
		{OriginArea: "FR", DestinationArea: "DE", Value: 9},
		{OriginArea: "IT", DestinationArea: "DE", Value: 2},
	}

	result := Merge(flows, NewLocationIndex(nil), NewSectorIndex(nil), allCountries(), 3)

	assert.True(t, result.RowCapApplied)
	assert.Equal(t, 5, result.RowsMatched)
	require.Len(t, result.Flows, 3)
	assert.Equal(t, []float64{9, 5, 9}, []float64{result.Flows[0].Value, result.Flows[1].Value, result.Flows[2].Value})
}

func TestMergeEmptySelection(t *testing.T) {
	flows := []models.FlowRecord{{OriginArea: "DE", DestinationArea: "FR", Value: 1}}
	result := Merge(flows, nil, nil, MergeFilter{Origins: models.NewSelection(), Destinations: models.NewSelection("FR")}, 0)
	assert.Empty(t, result.Flows)
}

func TestTransformer(t *testing.T) {
	data := &models.SourceData{
		Flows: []models.FlowRecord{
			{OriginArea: "DE", DestinationArea: "FR", RowSector: "C10", ColSector: "G46", Value: 1},
		},
		Locations: testLocations,
		Taxonomy:  testTaxonomy,
	}
	transformer := NewTransformer(data, 10, utils.NewDiscardLogger())

	result := transformer.Transform(allCountries())
	require.Len(t, result.Flows, 1)
	assert.Equal(t, "Food", *result.Flows[0].RowSectorName)
}

// genFlows генерирует потоки над небольшим набором стран и отраслей
func genFlows() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 1<<20)).Map(func(seeds []int) []models.FlowRecord {
		flows := make([]models.FlowRecord, len(seeds))
		for i, s := range seeds {
			flows[i] = models.FlowRecord{
				OriginArea:      testCodes[s%4],
				DestinationArea: testCodes[(s/4)%4],
				RowSector:       testSectors[(s/16)%3],
				ColSector:       testSectors[(s/48)%3],
				Value:           float64((s / 144) % 1000),
			}
		}
		return flows
	})
}

func TestMergeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	locations := NewLocationIndex(testLocations)
	sectors := NewSectorIndex(testTaxonomy)

	properties.Property("self-flows never survive the merge", prop.ForAll(
		func(flows []models.FlowRecord, limit int) bool {
			for _, row := range Merge(flows, locations, sectors, allCountries(), limit).Flows {
				if row.OriginArea == row.DestinationArea {
					return false
				}
			}
			return true
		},
		genFlows(),
		gen.IntRange(0, 20),
	))

	properties.Property("coordinates are set exactly when the code is known", prop.ForAll(
		func(flows []models.FlowRecord) bool {
			for _, row := range Merge(flows, locations, sectors, allCountries(), 0).Flows {
				lat, _ := locations.Lookup(row.OriginArea)
				if (lat == nil) != (row.OriginLat == nil) {
					return false
				}
				if lat != nil && *lat != *row.OriginLat {
					return false
				}
			}
			return true
		},
		genFlows(),
	))

	properties.Property("row cap bounds the merged size", prop.ForAll(
		func(flows []models.FlowRecord, limit int) bool {
			result := Merge(flows, locations, sectors, allCountries(), limit)
			return len(result.Flows) <= limit && result.RowCapApplied == (result.RowsMatched > limit)
		},
		genFlows(),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
