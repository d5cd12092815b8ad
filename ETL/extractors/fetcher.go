package extractors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// Fetcher загружает файлы-источники с указанными именами в каталог.
// Отсутствие файла в источнике не является ошибкой: его отсутствие проверяется после загрузки.
type Fetcher interface {
	Fetch(ctx context.Context, names []string, dir string) error
}

// FileCache оборачивает Fetcher: файлы, уже лежащие в каталоге кэша, повторно не загружаются
type FileCache struct {
	dir     string
	fetcher Fetcher
	logger  *utils.ETLLogger
}

// NewFileCache создает новый экземпляр FileCache
func NewFileCache(dir string, fetcher Fetcher, logger *utils.ETLLogger) *FileCache {
	return &FileCache{
		dir:     dir,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Dir возвращает каталог кэша
func (c *FileCache) Dir() string {
	return c.dir
}

// Ensure гарантирует наличие всех обязательных файлов в кэше
func (c *FileCache) Ensure(ctx context.Context, names []string) error {
	startTime := time.Now()
	c.logger.LogPhaseStart("Fetch")

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("ошибка создания каталога кэша %s: %w", c.dir, err)
	}

	missing := c.missing(names)
	if len(missing) > 0 && c.fetcher != nil {
		c.logger.Info("Загрузка %d файлов-источников в %s", len(missing), c.dir)
		if err := c.fetcher.Fetch(ctx, missing, c.dir); err != nil {
			return fmt.Errorf("ошибка загрузки файлов-источников: %w", err)
		}
	}

	if still := c.missing(names); len(still) > 0 {
		c.logger.Error("Не найдены обязательные файлы: %v", still)
		return &models.MissingSourcesError{Missing: still}
	}

	c.logger.LogPhaseComplete("Fetch", len(names), startTime)
	return nil
}

// missing возвращает имена файлов, которых нет в каталоге кэша
func (c *FileCache) missing(names []string) []string {
	var missing []string
	for _, name := range names {
		info, err := os.Stat(filepath.Join(c.dir, name))
		if err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	return missing
}

// writeFileAtomic записывает содержимое через временный файл, чтобы в кэше не оставалось обрывков
func writeFileAtomic(dir, name string, r io.Reader) error {
	tmp, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ошибка записи %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ошибка записи %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ошибка сохранения %s: %w", name, err)
	}
	return nil
}

// isNotExist сообщает, что файл отсутствует в источнике
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
