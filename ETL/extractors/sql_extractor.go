package extractors

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLExtractor читает исходные таблицы из базы данных
type SQLExtractor struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewSQLExtractor создает новый экземпляр SQLExtractor
func NewSQLExtractor(db *sql.DB, logger *utils.ETLLogger) *SQLExtractor {
	return &SQLExtractor{
		db:     db,
		logger: logger,
	}
}

// ReadTable читает таблицу целиком. NULL превращается в пустую строку.
func (e *SQLExtractor) ReadTable(ctx context.Context, table string) (*models.RawTable, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: недопустимое имя таблицы %q", models.ErrInvalidTable, table)
	}

	rows, err := e.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к таблице %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения колонок %s: %w", table, err)
	}

	result := &models.RawTable{Name: table, Header: columns}
	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки %s: %w", table, err)
		}
		record := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				record[i] = v.String
			}
		}
		result.Rows = append(result.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам %s: %w", table, err)
	}

	e.logger.Debug("Прочитано %d строк из таблицы %s", len(result.Rows), table)
	return result, nil
}

// CountRows возвращает количество строк таблицы
func (e *SQLExtractor) CountRows(ctx context.Context, table string) (int64, error) {
	if !tableNamePattern.MatchString(table) {
		return 0, fmt.Errorf("%w: недопустимое имя таблицы %q", models.ErrInvalidTable, table)
	}
	var count int64
	if err := e.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета строк %s: %w", table, err)
	}
	return count, nil
}
