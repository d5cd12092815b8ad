package extractors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFetcher копирует файлы-источники из локального каталога
type LocalFetcher struct {
	SourceDir string
}

// NewLocalFetcher создает новый экземпляр LocalFetcher
func NewLocalFetcher(sourceDir string) *LocalFetcher {
	return &LocalFetcher{SourceDir: sourceDir}
}

// Fetch копирует найденные файлы в каталог назначения
func (f *LocalFetcher) Fetch(ctx context.Context, names []string, dir string) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		src, err := os.Open(filepath.Join(f.SourceDir, name))
		if isNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("ошибка открытия %s: %w", name, err)
		}

		err = writeFileAtomic(dir, name, src)
		src.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
