package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LilVoxy/flowmap/ETL/config"
	"github.com/LilVoxy/flowmap/ETL/extractors"
	"github.com/LilVoxy/flowmap/ETL/load"
	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/utils"
	"github.com/LilVoxy/flowmap/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	flowsCSV = "refArea,counterpartArea,rowIi,colIi,obsValue\n" +
		"DE,ES,C10,G46,100\n" +
		"FR,ES,C10,G46,50\n" +
		"IT,ES,C20,G46,30\n" +
		"DE,FR,C10,G46,80\n" +
		"DE,ES,C20,C10,5\n" +
		"ES,ES,C10,G46,999\n" +
		"US,ES,C10,G46,999\n"

	countriesCSV = "name,code,lat,lon\n" +
		"Germany,DE,51,10\n" +
		"France,FR,46,2\n" +
		"Spain,ES,40,-4\n" +
		"Italy,IT,42,12\n"

	sectorsCSV = "code,name\n" +
		"C10,Manufacture of food products\n" +
		"C20,Manufacture of chemicals\n" +
		"G46,Wholesale trade services\n"
)

func writeSources(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		config.FlowsFileName:     flowsCSV,
		config.CountriesFileName: countriesCSV,
		config.SectorsFileName:   sectorsCSV,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func newTestRunner(t *testing.T) (*Runner, string, *metrics.Registry) {
	t.Helper()
	dir := t.TempDir()
	writeSources(t, dir)

	source := extractors.NewDirSource(config.BackendLocal, dir, config.DefaultSourceConfig)
	registry := metrics.NewRegistry()
	runner, err := NewRunner(config.GetConfig().Pipeline, source, utils.NewDiscardLogger(), registry)
	require.NoError(t, err)
	return runner, dir, registry
}

func TestOptionsDefaults(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	options, err := runner.Options(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"DE", "ES", "FR", "IT"}, options.Origins)
	assert.Equal(t, []string{"ES", "FR"}, options.Destinations)
	assert.Equal(t, []string{"Manufacture of chemicals", "Manufacture of food products"}, options.RowSectors)
	assert.Equal(t, []string{"ES"}, options.Defaults.Destinations)
	assert.Equal(t, []string{"Wholesale trade services"}, options.Defaults.ColSectors)
	assert.Equal(t, options.RowSectors, options.Defaults.RowSectors)
	assert.Equal(t, 25, options.Defaults.TopN)
	assert.Equal(t, 50, options.MaxTopN)
}

func TestDefaultDestinationFallsBackToFirst(t *testing.T) {
	assert.Equal(t, []string{"AT"}, defaultDestination([]string{"AT", "BE"}))
	assert.Equal(t, []string{}, defaultDestination(nil))
	assert.Equal(t, []string{"Accommodation"}, defaultColSector([]string{"Accommodation", "Mining"}))
	assert.Equal(t, []string{"WHOLESALE TRADE, except"}, defaultColSector([]string{"Mining", "WHOLESALE TRADE, except"}))
}

func TestRunWithDefaults(t *testing.T) {
	runner, _, registry := newTestRunner(t)

	payload, err := runner.Run(context.Background(), FilterParams{})
	require.NoError(t, err)

	assert.Equal(t, load.StatusOK, payload.Status)
	assert.NotEmpty(t, payload.RunID)
	// В ES по отрасли оптовой торговли: DE 100, FR 50, IT 30; внутренний поток ES и US отброшены
	require.Len(t, payload.Summary.Ranking, 3)
	assert.Equal(t, "DE", payload.Summary.Ranking[0].Origin)
	assert.Equal(t, 100.0, payload.Summary.Ranking[0].Value)
	assert.True(t, payload.FallbackUsed, "меньше 5 пар")
	assert.Len(t, payload.Bubbles.Data, 1)
	assert.Equal(t, 180.0, payload.Bubbles.Data[0].Value)
	assert.Equal(t, 4.0, payload.Arcs.Data[0].ArcWidth)

	runs := runner.RecentRuns(10)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunStatusSuccess, runs[0].Status)
	assert.Equal(t, payload.RunID, runs[0].ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.PipelineRunsTotal.WithLabelValues(models.RunStatusSuccess)))
}

func TestRunEmptySelection(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	_, err := runner.Run(context.Background(), FilterParams{Origins: []string{}})

	var selErr *models.EmptySelectionError
	require.True(t, errors.As(err, &selErr))
	assert.Equal(t, ParamOrigin, selErr.Filter)
	assert.Equal(t, models.RunStatusFailed, runner.RecentRuns(1)[0].Status)
}

func TestRunEmptyResult(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	payload, err := runner.Run(context.Background(), FilterParams{
		Origins:      []string{"IT"},
		Destinations: []string{"FR"},
	})

	require.ErrorIs(t, err, models.ErrEmptyResult)
	require.NotNil(t, payload)
	assert.Equal(t, load.StatusEmpty, payload.Status)
	assert.Equal(t, models.RunStatusEmpty, runner.RecentRuns(1)[0].Status)
	assert.Equal(t, 1, runner.RunState().TotalEmptyRuns)
}

func TestRunInvalidTop(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	_, err := runner.Run(context.Background(), FilterParams{TopN: 51})
	assert.ErrorIs(t, err, models.ErrInvalidFilters)
}

func TestMergeIsMemoizedAcrossSectorChanges(t *testing.T) {
	runner, _, registry := newTestRunner(t)
	ctx := context.Background()

	_, err := runner.Run(ctx, FilterParams{Destinations: []string{"ES", "FR"}})
	require.NoError(t, err)
	_, err = runner.Run(ctx, FilterParams{Destinations: []string{"FR", "ES"}, ColSectors: []string{"Manufacture of food products"}})
	require.NoError(t, err)

	runs := runner.RecentRuns(2)
	assert.True(t, runs[0].MergeCacheHit)
	assert.False(t, runs[1].MergeCacheHit)
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.CacheRequestsTotal.WithLabelValues("merge", "hit")))
}

func TestSourceReloadsWhenFilesChange(t *testing.T) {
	runner, dir, _ := newTestRunner(t)
	ctx := context.Background()

	options, err := runner.Options(ctx)
	require.NoError(t, err)
	assert.NotContains(t, options.Destinations, "IT")

	path := filepath.Join(dir, config.FlowsFileName)
	require.NoError(t, os.WriteFile(path, []byte(flowsCSV+"DE,IT,C10,G46,7\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	options, err = runner.Options(ctx)
	require.NoError(t, err)
	assert.Contains(t, options.Destinations, "IT")
}

func TestRunIsDeterministic(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	ctx := context.Background()
	params := FilterParams{Destinations: []string{"ES", "FR"}, ColSectors: []string{"Wholesale trade services"}}

	first, err := runner.Run(ctx, params)
	require.NoError(t, err)
	second, err := runner.Run(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, first.Arcs.Data, second.Arcs.Data)
	assert.Equal(t, first.Bubbles.Data, second.Bubbles.Data)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunMissingSources(t *testing.T) {
	runner, dir, _ := newTestRunner(t)
	require.NoError(t, os.Remove(filepath.Join(dir, config.SectorsFileName)))

	_, err := runner.Run(context.Background(), FilterParams{})
	assert.ErrorIs(t, err, models.ErrMissingSources)
}

func TestExport(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	var buf bytes.Buffer
	require.NoError(t, runner.Export(context.Background(), FilterParams{}, load.FormatGeoJSON, &buf))
	assert.True(t, strings.Contains(buf.String(), "FeatureCollection"))
	assert.Equal(t, "application/geo+json", runner.ContentType(load.FormatGeoJSON))
}

func TestBootstrapLocal(t *testing.T) {
	src := t.TempDir()
	writeSources(t, src)

	cfg := config.DefaultSourceConfig
	cfg.Backend = config.BackendLocal
	cfg.LocalDir = src
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")

	source, closeSource, err := Bootstrap(context.Background(), cfg, utils.NewDiscardLogger())
	require.NoError(t, err)
	defer closeSource()

	identity, err := source.Identity(context.Background())
	require.NoError(t, err)
	assert.Len(t, identity.Files, 3)
}

func TestBootstrapMissingFiles(t *testing.T) {
	cfg := config.DefaultSourceConfig
	cfg.Backend = config.BackendLocal
	cfg.LocalDir = t.TempDir()
	cfg.CacheDir = t.TempDir()

	_, _, err := Bootstrap(context.Background(), cfg, utils.NewDiscardLogger())

	var missing *models.MissingSourcesError
	require.True(t, errors.As(err, &missing))
	assert.Len(t, missing.Missing, 3)
}

func TestParseQuery(t *testing.T) {
	values := url.Values{
		"origin":      {"DE,FR", " IT "},
		"destination": {""},
		"top":         {"10"},
	}

	params, err := ParseQuery(values)
	require.NoError(t, err)

	assert.Equal(t, []string{"DE", "FR", "IT"}, params.Origins)
	assert.NotNil(t, params.Destinations)
	assert.Empty(t, params.Destinations)
	assert.Nil(t, params.RowSectors)
	assert.Equal(t, 10, params.TopN)

	_, err = ParseQuery(url.Values{"top": {"many"}})
	assert.ErrorIs(t, err, models.ErrInvalidFilters)
}

func TestResolve(t *testing.T) {
	options := &Options{
		Defaults: FilterDefaults{
			Origins:      []string{"DE", "FR"},
			Destinations: []string{"ES"},
			RowSectors:   []string{"A"},
			ColSectors:   []string{"B"},
			TopN:         25,
		},
		MaxTopN: 50,
	}

	tests := []struct {
		name    string
		params  FilterParams
		wantErr error
		topN    int
	}{
		{name: "defaults", params: FilterParams{}, topN: 25},
		{name: "explicit top", params: FilterParams{TopN: 3}, topN: 3},
		{name: "top above range", params: FilterParams{TopN: 60}, wantErr: models.ErrInvalidFilters},
		{name: "negative top", params: FilterParams{TopN: -1}, wantErr: models.ErrInvalidFilters},
		{name: "empty destination", params: FilterParams{Destinations: []string{}}, wantErr: models.ErrEmptySelection},
		{name: "empty col sector", params: FilterParams{ColSectors: []string{}}, wantErr: models.ErrEmptySelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters, err := tt.params.Resolve(options)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.topN, filters.TopN)
			assert.True(t, filters.Merge.Origins.Has("DE"))
			assert.True(t, filters.Sectors.ColSectors.Has("B"))
		})
	}
}

func TestSelectionKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, selectionKey([]string{"FR", "DE"}), selectionKey([]string{"DE", "FR"}))
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"empty result", models.ErrEmptyResult, http.StatusOK},
		{"missing sources", &models.MissingSourcesError{Missing: []string{"nace.csv"}}, http.StatusServiceUnavailable},
		{"empty selection", &models.EmptySelectionError{Filter: ParamOrigin}, http.StatusUnprocessableEntity},
		{"invalid filters", fmt.Errorf("%w: top", models.ErrInvalidFilters), http.StatusUnprocessableEntity},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}
