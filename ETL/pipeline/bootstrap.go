package pipeline

import (
	"context"
	"fmt"

	"github.com/LilVoxy/flowmap/ETL/config"
	"github.com/LilVoxy/flowmap/ETL/extractors"
	"github.com/LilVoxy/flowmap/ETL/utils"
)

// NewFetcher создает загрузчик файлов для выбранного источника
func NewFetcher(ctx context.Context, cfg config.SourceConfig, logger *utils.ETLLogger) (extractors.Fetcher, error) {
	switch cfg.Backend {
	case config.BackendDrive:
		return extractors.NewDriveFetcher(ctx, cfg.DriveFolderID, cfg.DriveAPIKey, logger)
	case config.BackendS3:
		return extractors.NewS3Fetcher(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, logger)
	case config.BackendLocal:
		return extractors.NewLocalFetcher(cfg.LocalDir), nil
	}
	return nil, fmt.Errorf("источник %q не использует загрузку файлов", cfg.Backend)
}

// Bootstrap подготавливает источник данных: для файловых источников скачивает
// недостающие файлы в каталог кэша, для sql открывает подключение.
// Возвращаемая функция закрывает ресурсы источника.
func Bootstrap(ctx context.Context, cfg config.SourceConfig, logger *utils.ETLLogger) (extractors.Source, func(), error) {
	if cfg.Backend == config.BackendSQL {
		db, err := config.ConnectDatabase(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка подключения к базе данных-источнику: %w", err)
		}
		source := extractors.NewSQLSource(extractors.NewSQLExtractor(db, logger), cfg.Database)
		return source, func() { config.CloseDatabase(db) }, nil
	}

	fetcher, err := NewFetcher(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cache := extractors.NewFileCache(cfg.CacheDir, fetcher, logger)
	if err := cache.Ensure(ctx, cfg.RequiredFiles()); err != nil {
		return nil, nil, err
	}

	return extractors.NewDirSource(cfg.Backend, cache.Dir(), cfg), func() {}, nil
}
