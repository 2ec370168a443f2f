package exporting

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/platform-analytics-api/infrastructure/tabular"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/rostering"
)

var reference = time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

func registered(daysAgo int) *time.Time {
	value := reference.AddDate(0, 0, -daysAgo)
	return &value
}

func TestCustomerRows_FaixasDeRecencia(t *testing.T) {
	customers := []domain.CustomerRecord{
		{RegisteredAt: registered(10), Active: true},
		{RegisteredAt: registered(30)},
		{RegisteredAt: registered(45)},
		{RegisteredAt: registered(200)},
		{RegisteredAt: registered(400)},
		{},
	}

	rows := NewService().CustomerRows(customers, reference)

	require.Len(t, rows, 6)
	assert.Equal(t, RecencyBucket30d, rows[0].RecencyBucket)
	assert.Equal(t, RecencyBucket30d, rows[1].RecencyBucket)
	assert.Equal(t, RecencyBucket90d, rows[2].RecencyBucket)
	assert.Equal(t, RecencyBucket365d, rows[3].RecencyBucket)
	assert.Equal(t, RecencyBucketOlder, rows[4].RecencyBucket)
	assert.Equal(t, RecencyBucketUnknown, rows[5].RecencyBucket)
	assert.True(t, rows[0].Active)
}

func TestWriteCustomersCSV_SemPII(t *testing.T) {
	customers := []domain.CustomerRecord{{
		ID:             "1",
		Name:           "Ana Souza",
		Email:          "ana@example.com",
		Phone:          "555-0100",
		RegisteredAt:   registered(5),
		Active:         true,
		MarketingOptIn: true,
	}}

	service := NewService()
	var buf bytes.Buffer
	err := service.WriteCustomersCSV(&buf, service.CustomerRows(customers, reference))
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, "active,marketing_opt_in,recency_bucket\ntrue,true,0-30d\n", out)

	// Nenhum identificador pessoal atravessa a exportação
	assert.NotContains(t, out, "ana@example.com")
	assert.NotContains(t, out, "555-0100")
	assert.NotContains(t, out, "Ana")
}

func TestWriteMerchantsCSV(t *testing.T) {
	roster, diags := rostering.NewService().BuildRoster([]*tabular.Table{{
		Path: "merchants/export.csv",
		Rows: [][]string{
			{"DBA Name", "Legal Business Name", "Status", "MTD Volume", "Last Month Volume"},
			{"Acme", "Acme LLC", "Active", "$100.00", "$0.00"},
			{"Beta", "Beta Inc", "Cancelled", "$50.00", "$0.00"},
		},
	}})
	require.Empty(t, diags)

	observations := []domain.SalesObservation{
		{MerchantKey: "ACME", NetSales60d: 3500, Source: domain.SalesSourceItemReport},
		{MerchantKey: "BETA", NetSales60d: 50, Source: domain.SalesSourceMTDFallback},
	}

	service := NewService()
	var buf bytes.Buffer
	err := service.WriteMerchantsCSV(&buf, service.MerchantRows(roster, observations))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "key,status,net_sales_60d,source", lines[0])
	assert.Equal(t, "ACME,Active,3500.00,item_report", lines[1])
	assert.Equal(t, "BETA,Cancelled,50.00,mtd_fallback", lines[2])
}
