package pipeline

import (
	"errors"
	"net/http"

	"github.com/LilVoxy/flowmap/ETL/models"
)

// StatusCode сопоставляет ошибку прогона с HTTP-статусом.
// Пустой результат не является ошибкой запроса.
func StatusCode(err error) int {
	switch {
	case err == nil, errors.Is(err, models.ErrEmptyResult):
		return http.StatusOK
	case errors.Is(err, models.ErrMissingSources):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrEmptySelection), errors.Is(err, models.ErrInvalidFilters):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
