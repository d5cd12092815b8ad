package pipeline

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/LilVoxy/flowmap/ETL/flowrank"
	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/transform"
	"github.com/go-playground/validator/v10"
)

// Имена параметров фильтров
const (
	ParamOrigin      = "origin"
	ParamDestination = "destination"
	ParamRowSector   = "rowSector"
	ParamColSector   = "colSector"
	ParamTop         = "top"
)

var validate = validator.New()

// FilterParams выбор пользователя. nil означает значение по умолчанию,
// пустой срез - явно пустой выбор.
type FilterParams struct {
	Origins      []string `json:"origin"`
	Destinations []string `json:"destination"`
	RowSectors   []string `json:"rowSector"`
	ColSectors   []string `json:"colSector"`
	TopN         int      `json:"top,omitempty" validate:"omitempty,min=1,max=50"`
}

// Filters разрешенные параметры одного прогона
type Filters struct {
	Merge   transform.MergeFilter
	Sectors flowrank.SectorFilter
	TopN    int

	mergeKey string
}

// ParseQuery разбирает параметры запроса. Значения можно повторять или перечислять через запятую.
func ParseQuery(values url.Values) (FilterParams, error) {
	params := FilterParams{
		Origins:      listParam(values, ParamOrigin),
		Destinations: listParam(values, ParamDestination),
		RowSectors:   listParam(values, ParamRowSector),
		ColSectors:   listParam(values, ParamColSector),
	}

	if raw := strings.TrimSpace(values.Get(ParamTop)); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("%w: top=%q не является числом", models.ErrInvalidFilters, raw)
		}
		params.TopN = top
	}
	return params, nil
}

// listParam возвращает nil, если параметр не передан, и непустой срез либо пустой срез иначе
func listParam(values url.Values, key string) []string {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	list := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
	}
	return list
}

// Resolve подставляет значения по умолчанию и проверяет выбор
func (p FilterParams) Resolve(options *Options) (*Filters, error) {
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidFilters, err)
	}

	topN := p.TopN
	if topN == 0 {
		topN = options.Defaults.TopN
	}
	if options.MaxTopN > 0 && topN > options.MaxTopN {
		return nil, fmt.Errorf("%w: top=%d больше %d", models.ErrInvalidFilters, topN, options.MaxTopN)
	}

	origins, err := pick(ParamOrigin, p.Origins, options.Defaults.Origins)
	if err != nil {
		return nil, err
	}
	destinations, err := pick(ParamDestination, p.Destinations, options.Defaults.Destinations)
	if err != nil {
		return nil, err
	}
	rowSectors, err := pick(ParamRowSector, p.RowSectors, options.Defaults.RowSectors)
	if err != nil {
		return nil, err
	}
	colSectors, err := pick(ParamColSector, p.ColSectors, options.Defaults.ColSectors)
	if err != nil {
		return nil, err
	}

	return &Filters{
		Merge: transform.MergeFilter{
			Origins:      models.NewSelection(origins...),
			Destinations: models.NewSelection(destinations...),
		},
		Sectors: flowrank.SectorFilter{
			RowSectors: models.NewSelection(rowSectors...),
			ColSectors: models.NewSelection(colSectors...),
		},
		TopN:     topN,
		mergeKey: "o=" + selectionKey(origins) + "|d=" + selectionKey(destinations),
	}, nil
}

func pick(name string, given, defaults []string) ([]string, error) {
	if given == nil {
		given = defaults
	}
	if len(given) == 0 {
		return nil, &models.EmptySelectionError{Filter: name}
	}
	return given, nil
}

// selectionKey каноническое представление выбора для ключа кэша
func selectionKey(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
