package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/LilVoxy/flowmap/ETL/config"
	"github.com/LilVoxy/flowmap/ETL/load"
	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/pipeline"
	"github.com/LilVoxy/flowmap/ETL/utils"
	"github.com/LilVoxy/flowmap/metrics"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// filterFlags значения флагов фильтров
type filterFlags struct {
	origins      []string
	destinations []string
	rowSectors   []string
	colSectors   []string
	top          int
}

// addFilterFlags регистрирует флаги фильтров команды
func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringSliceVar(&f.origins, pipeline.ParamOrigin, nil, "Страны происхождения")
	cmd.Flags().StringSliceVar(&f.destinations, pipeline.ParamDestination, nil, "Страны назначения")
	cmd.Flags().StringSliceVar(&f.rowSectors, pipeline.ParamRowSector, nil, "Отрасли-поставщики")
	cmd.Flags().StringSliceVar(&f.colSectors, pipeline.ParamColSector, nil, "Отрасли-потребители")
	cmd.Flags().IntVar(&f.top, pipeline.ParamTop, 0, "Число пар стран (0 - значение по умолчанию)")
}

// params переводит флаги в параметры прогона.
// Незаданный флаг означает значение по умолчанию, заданный пустым - пустой выбор.
func (f *filterFlags) params(cmd *cobra.Command) pipeline.FilterParams {
	list := func(name string, values []string) []string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		if values == nil {
			return []string{}
		}
		return values
	}
	return pipeline.FilterParams{
		Origins:      list(pipeline.ParamOrigin, f.origins),
		Destinations: list(pipeline.ParamDestination, f.destinations),
		RowSectors:   list(pipeline.ParamRowSector, f.rowSectors),
		ColSectors:   list(pipeline.ParamColSector, f.colSectors),
		TopN:         f.top,
	}
}

// environment конфигурация, логгер и источник одного запуска утилиты
type environment struct {
	config      config.Config
	logger      *utils.ETLLogger
	runner      *pipeline.Runner
	closeSource func()
}

// Close освобождает ресурсы запуска
func (e *environment) Close() {
	e.closeSource()
	e.logger.Close()
}

// loadConfig загружает конфигурацию и создает логгер
func loadConfig() (config.Config, *utils.ETLLogger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	if verbose {
		cfg.EnableDetailedLogging = true
	}

	logger, err := utils.NewFileETLLogger(cfg.LogFile, cfg.EnableDetailedLogging)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// newEnvironment подготавливает источник и конвейер
func newEnvironment(ctx context.Context) (*environment, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	source, closeSource, err := pipeline.Bootstrap(ctx, cfg.Source, logger)
	if err != nil {
		logger.Close()
		return nil, describeError(err)
	}

	runner, err := pipeline.NewRunner(cfg.Pipeline, source, logger, metrics.NewRegistry())
	if err != nil {
		closeSource()
		logger.Close()
		return nil, err
	}

	return &environment{
		config:      cfg,
		logger:      logger,
		runner:      runner,
		closeSource: closeSource,
	}, nil
}

// describeError добавляет подсказку к ошибке отсутствующих файлов
func describeError(err error) error {
	if errors.Is(err, models.ErrMissingSources) {
		return fmt.Errorf("%w (проверьте источник или выполните flowmap-cli fetch)", err)
	}
	return err
}

// printPayload выводит рейтинг пар стран
func printPayload(payload *load.RenderPayload) {
	if payload.Status == load.StatusEmpty {
		warnColor.Println(payload.Message)
		return
	}

	headerColor.Printf("%-4s %-8s %-8s %16s\n", "#", "Откуда", "Куда", "Объем")
	for _, row := range payload.Summary.Ranking {
		fmt.Printf("%-4d %-8s %-8s %16.2f\n", row.Rank, row.Origin, row.Destination, row.Value)
	}
	fmt.Println()
	fmt.Printf("Потоков на карте: %d, суммарный объем: %.2f, средний: %.2f\n",
		payload.Summary.TotalFlows, payload.Summary.TotalValue, payload.Summary.AverageValue)
	if payload.FallbackUsed {
		warnColor.Println("Мало пар для выбранных отраслей: рейтинг построен только по ним")
	}
}

// createOutput открывает файл выгрузки или стандартный вывод
func createOutput(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось создать файл %s: %w", path, err)
	}
	return file, file.Close, nil
}
