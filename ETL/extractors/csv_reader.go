package extractors

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LilVoxy/flowmap/ETL/models"
	"golang.org/x/text/unicode/norm"
)

const utf8BOM = "\ufeff"

// ReadCSVFile читает CSV-файл в исходную таблицу
func ReadCSVFile(path string) (*models.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", path, err)
	}
	defer file.Close()

	return ReadCSV(file, filepath.Base(path))
}

// ReadCSV читает CSV из потока. Первая строка считается заголовком.
func ReadCSV(r io.Reader, name string) (*models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: файл %s пуст", models.ErrInvalidTable, name)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения заголовка %s: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	table := &models.RawTable{Name: name, Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения %s: %w", name, err)
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// normalizeKey приводит ключ соединения к каноническому виду
func normalizeKey(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// cell безопасно возвращает значение колонки строки
func cell(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}
