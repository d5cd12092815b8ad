package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.HTTPRequestsTotal)
	assert.NotNil(t, r.PipelineStageDuration)
	assert.NotNil(t, r.GetPrometheusRegistry())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/api/flows", "200", 50*time.Millisecond, 1024)
	r.RecordHTTPRequest("GET", "/api/flows", "200", 10*time.Millisecond, 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/api/flows", "200")))
}

func TestRecordRunAndCache(t *testing.T) {
	r := NewRegistry()
	r.RecordRun("success", 12, true)
	r.RecordRun("empty", 0, false)
	r.RecordCache("merge", true)
	r.RecordCache("merge", false)
	r.RecordCache("merge", false)
	r.SetSourceRows(100, 30, 64)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.PipelineRunsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PipelineFallbackTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.DisplayedFlows))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.CacheRequestsTotal.WithLabelValues("merge", "miss")))
	assert.Equal(t, 64.0, testutil.ToFloat64(r.SourceRows.WithLabelValues("sectors")))
}

func TestRecordStage(t *testing.T) {
	r := NewRegistry()
	r.RecordStage("merge", time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(r.PipelineStageDuration))
}
