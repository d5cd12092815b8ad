package commands

import (
	"context"
	"time"

	"github.com/LilVoxy/flowmap/ETL/config"
	"github.com/LilVoxy/flowmap/ETL/extractors"
	"github.com/LilVoxy/flowmap/ETL/pipeline"
	"github.com/spf13/cobra"
)

var fetchTimeout time.Duration

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Скачивает исходные файлы в каталог кэша",
	Long: `Скачивает недостающие исходные файлы (Google Drive, S3 или локальный каталог)
в каталог кэша. Уже скачанные файлы повторно не загружаются.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Close()

		if cfg.Source.Backend == config.BackendSQL {
			warnColor.Println("Источник sql не использует файлы, загружать нечего")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
		defer cancel()

		fetcher, err := pipeline.NewFetcher(ctx, cfg.Source, logger)
		if err != nil {
			return err
		}
		cache := extractors.NewFileCache(cfg.Source.CacheDir, fetcher, logger)
		if err := cache.Ensure(ctx, cfg.Source.RequiredFiles()); err != nil {
			return describeError(err)
		}

		successColor.Printf("Исходные файлы готовы в %s\n", cache.Dir())
		return nil
	},
}

func init() {
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 10*time.Minute, "Ограничение времени загрузки")
	AddCommand(fetchCmd)
}
