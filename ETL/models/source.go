package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RawTable представляет исходную таблицу в том виде, в котором она прочитана из CSV или БД
type RawTable struct {
	Name   string     // Имя источника (имя файла или таблицы)
	Header []string   // Заголовки колонок
	Rows   [][]string // Строки данных
}

// ColumnIndex возвращает позицию колонки по имени заголовка (без учёта пробелов по краям)
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// FlowRecord представляет одну наблюдаемую двустороннюю связь
type FlowRecord struct {
	OriginArea      string  `json:"refArea"`
	DestinationArea string  `json:"counterpartArea"`
	RowSector       string  `json:"rowIi"`
	ColSector       string  `json:"colIi"`
	Value           float64 `json:"obsValue"`
}

// SelfFlow сообщает, совпадают ли страна-источник и страна-получатель
func (f FlowRecord) SelfFlow() bool {
	return f.OriginArea == f.DestinationArea
}

// CountryLocation представляет координаты страны
type CountryLocation struct {
	Code string  `json:"code"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// SectorTaxonomy представляет запись классификатора отраслей (код -> название)
type SectorTaxonomy struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SourceFile описывает загруженный файл-источник
type SourceFile struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// SourceIdentity идентифицирует набор исходных данных и служит ключом кэша загрузки
type SourceIdentity struct {
	Backend string       `json:"backend"`
	Files   []SourceFile `json:"files"`
}

// Key возвращает стабильное строковое представление идентичности
func (id SourceIdentity) Key() string {
	files := make([]SourceFile, len(id.Files))
	copy(files, id.Files)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var b strings.Builder
	b.WriteString(id.Backend)
	for _, f := range files {
		fmt.Fprintf(&b, "|%s:%d:%d", f.Name, f.Size, f.ModTime.UnixNano())
	}
	return b.String()
}

// SourceData содержит три нормализованных набора данных, полученных загрузчиком
type SourceData struct {
	Flows     []FlowRecord
	Locations []CountryLocation
	Taxonomy  []SectorTaxonomy
	Identity  SourceIdentity

	// Статистика загрузки
	FlowsRead        int // Всего прочитано строк потоков
	FlowsOutsideList int // Отброшено из-за стран вне списка допустимых
	FlowsInvalid     int // Отброшено из-за некорректного значения
	LoadedAt         time.Time
}
