package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingSources обязательные файлы-источники отсутствуют после попытки загрузки
	ErrMissingSources = errors.New("отсутствуют обязательные файлы-источники")

	// ErrEmptySelection один из обязательных фильтров пуст
	ErrEmptySelection = errors.New("пустой выбор в фильтре")

	// ErrEmptyResult фильтры не пусты, но их пересечение не дает ни одной строки
	ErrEmptyResult = errors.New("нет потоков для выбранной комбинации фильтров")

	// ErrInvalidTable исходная таблица не соответствует ожидаемой структуре
	ErrInvalidTable = errors.New("некорректная структура таблицы")

	// ErrInvalidFilters параметры фильтров не прошли проверку
	ErrInvalidFilters = errors.New("некорректные параметры фильтров")
)

// MissingSourcesError перечисляет недостающие файлы
type MissingSourcesError struct {
	Missing []string
}

func (e *MissingSourcesError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingSources, strings.Join(e.Missing, ", "))
}

func (e *MissingSourcesError) Unwrap() error {
	return ErrMissingSources
}

// EmptySelectionError указывает, какой фильтр оказался пустым
type EmptySelectionError struct {
	Filter string
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("%v: %s, расширьте выбор", ErrEmptySelection, e.Filter)
}

func (e *EmptySelectionError) Unwrap() error {
	return ErrEmptySelection
}
