package models

// PairKey составной ключ пары (страна-источник, страна-получатель)
type PairKey struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Pair возвращает ключ пары для записи потока
func (f FlowRecord) Pair() PairKey {
	return PairKey{Origin: f.OriginArea, Destination: f.DestinationArea}
}

// EnrichedFlow представляет поток, дополненный координатами и названиями отраслей.
// Поля, для которых не нашлось соответствия, остаются nil.
type EnrichedFlow struct {
	FlowRecord
	OriginLat     *float64 `json:"origin_lat"`
	OriginLon     *float64 `json:"origin_lon"`
	DestLat       *float64 `json:"dest_lat"`
	DestLon       *float64 `json:"dest_lon"`
	RowSectorName *string  `json:"rowIi_name"`
	ColSectorName *string  `json:"colIi_name"`
}

// RankedFlowPair представляет агрегированную пару стран в рейтинге
type RankedFlowPair struct {
	PairKey
	TotalValue float64 `json:"total_value"`
}

// DisplayFlow строка, прошедшая отбор пар и отраслевой фильтр
type DisplayFlow struct {
	EnrichedFlow
	PairTotal float64 `json:"pair_total"` // Агрегат пары, по которому считается ширина дуги
	ArcWidth  float64 `json:"arc_width"`
}

// DisplayBubble агрегированный входящий объём для страны-получателя
type DisplayBubble struct {
	Destination string  `json:"counterpartArea"`
	Lat         float64 `json:"dest_lat"`
	Lon         float64 `json:"dest_lon"`
	Value       float64 `json:"obsValue"`
	Radius      float64 `json:"radius"`
}

// TransformedData результат фазы слияния
type TransformedData struct {
	Flows []EnrichedFlow

	// Метаданные
	RowsMatched    int  // Строк после фильтра стран (до ограничения)
	RowsSelfFlows  int  // Отброшено внутренних потоков
	RowCapApplied  bool // Было ли применено ограничение количества строк
	OriginsMatched int  // Строк с найденными координатами источника
	DestsMatched   int  // Строк с найденными координатами получателя
}

// Selection множество выбранных значений фильтра
type Selection map[string]struct{}

// NewSelection создает множество из списка значений
func NewSelection(values ...string) Selection {
	s := make(Selection, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has проверяет принадлежность значения множеству
func (s Selection) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// HasName проверяет принадлежность названия, nil никогда не входит в множество
func (s Selection) HasName(v *string) bool {
	if v == nil {
		return false
	}
	return s.Has(*v)
}
