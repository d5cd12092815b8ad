package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/LilVoxy/flowmap/ETL/config"
	"github.com/LilVoxy/flowmap/ETL/extractors"
	"github.com/LilVoxy/flowmap/ETL/flowrank"
	"github.com/LilVoxy/flowmap/ETL/load"
	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/scale"
	"github.com/LilVoxy/flowmap/ETL/transform"
	"github.com/LilVoxy/flowmap/ETL/utils"
	"github.com/LilVoxy/flowmap/metrics"
	"github.com/google/uuid"
)

// loadedSource загруженный набор данных и все, что строится по нему один раз
type loadedSource struct {
	key         string
	data        *models.SourceData
	transformer *transform.Transformer
	options     *Options
}

// Runner выполняет прогон загрузка -> слияние -> ранжирование -> шкалы -> результат.
// Прогоны выполняются последовательно.
type Runner struct {
	config      config.PipelineConfig
	logger      *utils.ETLLogger
	source      extractors.Source
	extractor   *extractors.Extractor
	ranker      *flowrank.FlowRankProcessor
	scaler      *scale.ScaleProcessor
	loadManager *load.LoadManager
	runLog      *models.MemoryRunLogRepository
	metrics     *metrics.Registry

	mu         sync.Mutex
	loaded     *loadedSource
	mergeCache *MergeCache
}

// NewRunner создает новый экземпляр Runner
func NewRunner(cfg config.PipelineConfig, source extractors.Source, logger *utils.ETLLogger, registry *metrics.Registry) (*Runner, error) {
	mergeCache, err := NewMergeCache(cfg.MergeCacheSize)
	if err != nil {
		return nil, err
	}
	if registry == nil {
		registry = metrics.NewRegistry()
	}

	return &Runner{
		config:    cfg,
		logger:    logger,
		source:    source,
		extractor: extractors.NewExtractor(logger, cfg.AllowedCountries),
		ranker: flowrank.NewFlowRankProcessor(logger, flowrank.FlowRankConfig{
			TopN:             cfg.DefaultTopN,
			FallbackMinPairs: cfg.FallbackMinPairs,
		}),
		scaler:      scale.NewScaleProcessor(logger),
		loadManager: load.NewLoadManager(logger),
		runLog:      models.NewMemoryRunLogRepository(cfg.RunLogCapacity),
		metrics:     registry,
		mergeCache:  mergeCache,
	}, nil
}

// Options возвращает доступные значения фильтров
func (r *Runner) Options(ctx context.Context) (*Options, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loaded, err := r.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return loaded.options, nil
}

// Run выполняет полный прогон для выбранных фильтров.
// При пустом пересечении фильтров возвращается результат со статусом empty и ошибка ErrEmptyResult.
func (r *Runner) Run(ctx context.Context, params FilterParams) (*load.RenderPayload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	startTime := time.Now()
	runID := uuid.NewString()
	if err := r.runLog.CreateLogEntry(runID, startTime); err != nil {
		r.logger.Error("Ошибка при создании записи в журнале запусков: %v", err)
	}
	entry := models.RunLog{ID: runID, Status: models.RunStatusInProgress}

	payload, err := r.execute(ctx, params, &entry)
	switch {
	case errors.Is(err, models.ErrEmptyResult):
		entry.Status = models.RunStatusEmpty
	case err != nil:
		entry.Status = models.RunStatusFailed
		entry.ErrorMessage = err.Error()
		r.logger.Error("Прогон %s завершился ошибкой: %v", runID, err)
	default:
		entry.Status = models.RunStatusSuccess
	}

	entry.EndTime = time.Now()
	if logErr := r.runLog.CompleteLogEntry(entry); logErr != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале запусков: %v", logErr)
	}
	r.metrics.RecordRun(entry.Status, entry.FlowsDisplayed, entry.FallbackUsed)

	if payload != nil {
		payload.RunID = runID
		r.logger.LogRunComplete(runID, startTime, len(payload.Summary.Ranking), len(payload.Arcs.Data), len(payload.Bubbles.Data))
	}
	return payload, err
}

// execute выполняет фазы прогона и заполняет счетчики записи журнала
func (r *Runner) execute(ctx context.Context, params FilterParams, entry *models.RunLog) (*load.RenderPayload, error) {
	loaded, err := r.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	filters, err := params.Resolve(loaded.options)
	if err != nil {
		return nil, err
	}

	// Слияние зависит только от источника и выбора стран
	stageStart := time.Now()
	merged, hit := r.mergeCache.Get(loaded.key, filters.mergeKey)
	r.metrics.RecordCache("merge", hit)
	if !hit {
		merged = loaded.transformer.Transform(filters.Merge)
		r.mergeCache.Add(loaded.key, filters.mergeKey, merged)
	} else {
		r.logger.Debug("Результат слияния взят из кэша")
	}
	r.metrics.RecordStage("merge", time.Since(stageStart))
	entry.MergeCacheHit = hit
	entry.RowsMerged = len(merged.Flows)

	stageStart = time.Now()
	ranked := r.ranker.Process(merged.Flows, filters.Sectors, filters.TopN)
	r.metrics.RecordStage("rank", time.Since(stageStart))
	entry.PairsRanked = len(ranked.Ranking)
	entry.FlowsDisplayed = len(ranked.Display)
	entry.FallbackUsed = ranked.FallbackUsed

	stageStart = time.Now()
	bubbles := r.scaler.Process(ranked.Display, ranked.Ranking)
	r.metrics.RecordStage("scale", time.Since(stageStart))

	stageStart = time.Now()
	payload := r.loadManager.Load(load.RenderInput{
		Display:      ranked.Display,
		Ranking:      ranked.Ranking,
		Bubbles:      bubbles,
		FallbackUsed: ranked.FallbackUsed,
		TopN:         filters.TopN,
	})
	r.metrics.RecordStage("load", time.Since(stageStart))

	if ranked.Empty() {
		return payload, models.ErrEmptyResult
	}
	return payload, nil
}

// ensureLoaded загружает источник, если его идентичность изменилась с прошлой загрузки
func (r *Runner) ensureLoaded(ctx context.Context) (*loadedSource, error) {
	identity, err := r.source.Identity(ctx)
	if err != nil {
		return nil, err
	}
	key := identity.Key()

	hit := r.loaded != nil && r.loaded.key == key
	r.metrics.RecordCache("source", hit)
	if hit {
		return r.loaded, nil
	}

	stageStart := time.Now()
	data, err := r.extractor.Extract(ctx, r.source)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки исходных данных: %w", err)
	}
	r.metrics.RecordStage("extract", time.Since(stageStart))
	r.metrics.SetSourceRows(len(data.Flows), len(data.Locations), len(data.Taxonomy))

	transformer := transform.NewTransformer(data, r.config.MaxMergeRows, r.logger)
	r.loaded = &loadedSource{
		key:         key,
		data:        data,
		transformer: transformer,
		options:     BuildOptions(data, transform.NewSectorIndex(data.Taxonomy), r.config.DefaultTopN, r.config.MaxTopN),
	}
	r.mergeCache.Purge()
	return r.loaded, nil
}

// Export выполняет прогон и выгружает результат в указанном формате
func (r *Runner) Export(ctx context.Context, params FilterParams, format string, w io.Writer) error {
	payload, err := r.Run(ctx, params)
	if err != nil && !errors.Is(err, models.ErrEmptyResult) {
		return err
	}
	return r.loadManager.Export(format, w, payload)
}

// ContentType возвращает MIME-тип формата выгрузки
func (r *Runner) ContentType(format string) string {
	return r.loadManager.ContentType(format)
}

// RecentRuns возвращает последние записи журнала запусков
func (r *Runner) RecentRuns(limit int) []models.RunLog {
	return r.runLog.GetRecentRuns(limit)
}

// RunState возвращает сводку по журналу запусков
func (r *Runner) RunState() models.RunStateMonitor {
	return r.runLog.GetStateMonitor()
}
