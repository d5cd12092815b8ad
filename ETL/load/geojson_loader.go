package load

import (
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"
)

// GeoJSONLoader выгружает слои карты как FeatureCollection:
// дуги - LineString, пузыри - Point. Строки без координат пропускаются.
type GeoJSONLoader struct{}

// NewGeoJSONLoader создает новый экземпляр GeoJSONLoader
func NewGeoJSONLoader() *GeoJSONLoader {
	return &GeoJSONLoader{}
}

// ContentType возвращает MIME-тип GeoJSON
func (l *GeoJSONLoader) ContentType() string {
	return "application/geo+json"
}

// Build строит коллекцию объектов по результату прогона
func (l *GeoJSONLoader) Build(payload *RenderPayload) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, d := range payload.Arcs.Data {
		if d.OriginLat == nil || d.OriginLon == nil || d.DestLat == nil || d.DestLon == nil {
			continue
		}
		feature := geojson.NewLineStringFeature([][]float64{
			{*d.OriginLon, *d.OriginLat},
			{*d.DestLon, *d.DestLat},
		})
		feature.SetProperty("layer", "arc")
		feature.SetProperty("refArea", d.OriginArea)
		feature.SetProperty("counterpartArea", d.DestinationArea)
		feature.SetProperty("rowIi", d.RowSector)
		feature.SetProperty("colIi", d.ColSector)
		feature.SetProperty("obsValue", d.Value)
		feature.SetProperty("pair_total", d.PairTotal)
		feature.SetProperty("arc_width", d.ArcWidth)
		if d.RowSectorName != nil {
			feature.SetProperty("rowIi_name", *d.RowSectorName)
		}
		if d.ColSectorName != nil {
			feature.SetProperty("colIi_name", *d.ColSectorName)
		}
		fc.AddFeature(feature)
	}

	for _, b := range payload.Bubbles.Data {
		feature := geojson.NewPointFeature([]float64{b.Lon, b.Lat})
		feature.SetProperty("layer", "bubble")
		feature.SetProperty("counterpartArea", b.Destination)
		feature.SetProperty("obsValue", b.Value)
		feature.SetProperty("radius", b.Radius)
		fc.AddFeature(feature)
	}

	return fc
}

// Write записывает FeatureCollection в поток
func (l *GeoJSONLoader) Write(w io.Writer, payload *RenderPayload) error {
	data, err := l.Build(payload).MarshalJSON()
	if err != nil {
		return fmt.Errorf("ошибка сериализации GeoJSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("ошибка записи GeoJSON: %w", err)
	}
	return nil
}
