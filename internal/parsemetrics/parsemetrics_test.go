package parsemetrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountersIncrementAndExposeOverHTTP(t *testing.T) {
	assert := assert.New(t)

	registry := prometheus.NewRegistry()
	m := New(registry, "v1.2.3", "2026-07-30T00:00:00Z")

	m.ParseSuccess("certificate")
	m.ParseFailure("certificate", Kind("InvalidContent"))
	m.EncodeSuccess("certificate")
	stopTimer := m.ParseTimer("csr")
	stopTimer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(strings.Contains(body, `derinspect_parse_successes_total{type="certificate"} 1`))
	assert.True(strings.Contains(body, `derinspect_parse_failures_total{kind="InvalidContent",type="certificate"} 1`))
	assert.True(strings.Contains(body, `derinspect_encode_successes_total{type="certificate"} 1`))
	assert.True(strings.Contains(body, `derinspect_build_info{timestamp="2026-07-30T00:00:00Z",version="v1.2.3"} 1`))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	assert := assert.New(t)

	var m *Metrics
	assert.NotPanics(func() {
		m.ParseSuccess("x")
		m.ParseFailure("x", Kind("y"))
		m.EncodeSuccess("x")
		stop := m.ParseTimer("x")
		stop()
	})
}
