package diffing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
)

func snapshot(customersTotal int, platformTotal float64) *domain.MetricsSnapshot {
	return &domain.MetricsSnapshot{
		GeneratedAt:      time.Date(2025, 8, 11, 9, 0, 0, 0, time.UTC),
		CustomersTotal:   customersTotal,
		PlatformTotal60d: platformTotal,
	}
}

func findEntry(t *testing.T, report *domain.DiffReport, metric string) domain.MetricDiff {
	t.Helper()
	for _, entry := range report.Entries {
		if entry.Metric == metric {
			return entry
		}
	}
	t.Fatalf("métrica %s ausente do relatório", metric)
	return domain.MetricDiff{}
}

func TestBuildReport_PrimeiraExecucao(t *testing.T) {
	report := NewService().BuildReport(nil, snapshot(10, 5000))

	assert.True(t, report.FirstRun)
	require.Len(t, report.Entries, len(domain.ScalarMetricNames))

	entry := findEntry(t, report, "customers_total")
	assert.True(t, entry.NoBaseline)
	assert.Equal(t, 10.0, entry.Current)
	// Sem baseline não há delta nem percentual, nem contra um zero implícito
	assert.Zero(t, entry.Delta)
	assert.Nil(t, entry.PctChange)
}

func TestBuildReport_DeltaEPercentual(t *testing.T) {
	report := NewService().BuildReport(snapshot(10, 5000), snapshot(12, 4000))

	assert.False(t, report.FirstRun)

	customers := findEntry(t, report, "customers_total")
	assert.Equal(t, 10.0, customers.Previous)
	assert.Equal(t, 12.0, customers.Current)
	assert.Equal(t, 2.0, customers.Delta)
	require.NotNil(t, customers.PctChange)
	assert.InDelta(t, 0.2, *customers.PctChange, 1e-9)

	total := findEntry(t, report, "platform_total_60d")
	assert.Equal(t, -1000.0, total.Delta)
	require.NotNil(t, total.PctChange)
	assert.InDelta(t, -0.2, *total.PctChange, 1e-9)
}

func TestBuildReport_PercentualOmitidoComBaselineZero(t *testing.T) {
	report := NewService().BuildReport(snapshot(0, 0), snapshot(5, 1000))

	entry := findEntry(t, report, "customers_total")
	assert.Equal(t, 5.0, entry.Delta)
	// Baseline zero: o percentual fica de fora em vez de virar Inf
	assert.Nil(t, entry.PctChange)
	assert.False(t, entry.NoBaseline)
}

func TestBuildReport_CobreTodasAsMetricasEscalares(t *testing.T) {
	report := NewService().BuildReport(snapshot(1, 1), snapshot(1, 1))

	require.Len(t, report.Entries, len(domain.ScalarMetricNames))
	for i, name := range domain.ScalarMetricNames {
		assert.Equal(t, name, report.Entries[i].Metric)
	}
}
