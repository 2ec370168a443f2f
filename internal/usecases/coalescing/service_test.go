package coalescing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/platform-analytics-api/infrastructure/tabular"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/normalizing"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/rostering"
)

var reference = time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

func buildRoster(t *testing.T, rows [][]string) *rostering.Roster {
	t.Helper()
	roster, diags := rostering.NewService().BuildRoster([]*tabular.Table{
		{Path: "merchants/export.csv", Rows: rows},
	})
	require.Empty(t, diags)
	return roster
}

func timePtr(value time.Time) *time.Time {
	return &value
}

func findObservation(t *testing.T, result *Result, key string) domain.SalesObservation {
	t.Helper()
	for _, obs := range result.Observations {
		if obs.MerchantKey == key {
			return obs
		}
	}
	t.Fatalf("observação de %s não encontrada", key)
	return domain.SalesObservation{}
}

func TestCoalesce_FallbackSomaMTDComMesAnterior(t *testing.T) {
	roster := buildRoster(t, [][]string{
		{"DBA Name", "Legal Business Name", "MTD Volume", "Last Month Volume"},
		{"Acme", "Acme LLC", "$1,200.00", "$800.00"},
	})

	result := NewService().Coalesce(roster, nil, reference)

	require.Len(t, result.Observations, 1)
	obs := result.Observations[0]
	assert.Equal(t, 2000.0, obs.NetSales60d)
	assert.Equal(t, domain.SalesSourceMTDFallback, obs.Source)
	assert.Equal(t, 0, result.WithItemData)
}

func TestCoalesce_RelatorioDeItensSuprimeFallback(t *testing.T) {
	// Com relatório de itens presente, o fallback é ignorado por completo:
	// o valor é 3500, nunca 3500 + 2000
	roster := buildRoster(t, [][]string{
		{"DBA Name", "Legal Business Name", "MTD Volume", "Last Month Volume"},
		{"Acme", "Acme LLC", "$1,200.00", "$800.00"},
	})

	reports := []*normalizing.ItemReport{{
		MerchantKey: "ACME",
		Rows: []normalizing.ItemRow{
			{Name: "Latte", NetSales: 2000},
			{Name: "Espresso", NetSales: 1500},
		},
	}}

	result := NewService().Coalesce(roster, reports, reference)

	obs := findObservation(t, result, "ACME")
	assert.Equal(t, 3500.0, obs.NetSales60d)
	assert.Equal(t, domain.SalesSourceItemReport, obs.Source)
	assert.Equal(t, 1, result.WithItemData)

	// A anotação no roster acompanha a observação
	merchant, _ := roster.Get("ACME")
	require.NotNil(t, merchant.ItemSales60d)
	assert.Equal(t, 3500.0, *merchant.ItemSales60d)
}

func TestCoalesce_JanelaDe60Dias(t *testing.T) {
	roster := buildRoster(t, [][]string{
		{"DBA Name", "Legal Business Name", "MTD Volume", "Last Month Volume"},
		{"Acme", "Acme LLC", "$0.00", "$0.00"},
	})

	reports := []*normalizing.ItemReport{{
		MerchantKey: "ACME",
		Rows: []normalizing.ItemRow{
			{NetSales: 100, SoldAt: timePtr(reference.AddDate(0, 0, -10))},
			{NetSales: 200, SoldAt: timePtr(reference.AddDate(0, 0, -60))}, // borda inclusiva
			{NetSales: 400, SoldAt: timePtr(reference.AddDate(0, 0, -61))}, // fora da janela
			{NetSales: 800, SoldAt: timePtr(reference.AddDate(0, 0, 1))},   // futuro, fora
			{NetSales: 1600}, // sem data conta sempre
		},
	}}

	result := NewService().Coalesce(roster, reports, reference)

	obs := findObservation(t, result, "ACME")
	assert.Equal(t, 1900.0, obs.NetSales60d)
}

func TestCoalesce_RelatorioForaDoRoster(t *testing.T) {
	roster := buildRoster(t, [][]string{
		{"DBA Name", "Legal Business Name", "MTD Volume", "Last Month Volume"},
		{"Acme", "Acme LLC", "$100.00", "$0.00"},
	})

	reports := []*normalizing.ItemReport{{
		MerchantKey: "DESCONHECIDA",
		Rows:        []normalizing.ItemRow{{NetSales: 999}},
	}}

	result := NewService().Coalesce(roster, reports, reference)

	// O estabelecimento desconhecido não entra nas observações nem no total
	require.Len(t, result.Observations, 1)
	assert.Equal(t, "ACME", result.Observations[0].MerchantKey)
	assert.Equal(t, 100.0, result.Observations[0].NetSales60d)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticSchema, result.Diagnostics[0].Kind)
	assert.Contains(t, result.Diagnostics[0].Reason, "DESCONHECIDA")
}

func TestCoalesce_RelatoriosParciaisDoMesmoEstabelecimento(t *testing.T) {
	// Dois arquivos de relatório da mesma chave são agregados juntos
	roster := buildRoster(t, [][]string{
		{"DBA Name", "Legal Business Name", "MTD Volume", "Last Month Volume"},
		{"Acme", "Acme LLC", "$0.00", "$0.00"},
	})

	reports := []*normalizing.ItemReport{
		{MerchantKey: "ACME", Rows: []normalizing.ItemRow{{NetSales: 300}}},
		{MerchantKey: "ACME", Rows: []normalizing.ItemRow{{NetSales: 700}}},
	}

	result := NewService().Coalesce(roster, reports, reference)

	obs := findObservation(t, result, "ACME")
	assert.Equal(t, 1000.0, obs.NetSales60d)
	assert.Equal(t, 1, result.WithItemData)
}
