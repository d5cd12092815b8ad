package load

import "io"

// Форматы выгрузки
const (
	FormatGeoJSON = "geojson"
	FormatXLSX    = "xlsx"
)

// Loader выгружает результат прогона в конкретном формате
type Loader interface {
	// ContentType возвращает MIME-тип выгрузки
	ContentType() string

	// Write записывает результат в поток
	Write(w io.Writer, payload *RenderPayload) error
}
