package domain

import "time"

// TopMerchant é uma entrada do ranking de estabelecimentos por vendas de 60 dias
type TopMerchant struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	NetSales60d float64 `json:"net_sales_60d"`
	DailyEst    float64 `json:"daily_est"`
	WeeklyEst   float64 `json:"weekly_est"`
	MonthlyEst  float64 `json:"monthly_est"`
}

// MetricsSnapshot é o conjunto completo de métricas de uma execução do pipeline.
// É imutável após a finalização e serve de baseline de comparação para a
// próxima execução.
type MetricsSnapshot struct {
	RunID              string        `json:"run_id"`
	GeneratedAt        time.Time     `json:"generated_at"`
	ReferenceDate      time.Time     `json:"reference_date"`
	CustomersTotal     int           `json:"customers_total"`
	CustomersActive    int           `json:"customers_active"`
	MarketingOptIns    int           `json:"marketing_optin_count"`
	MerchantsTotal     int           `json:"merchants_total"`
	MerchantsActive    int           `json:"merchants_active"`
	PlatformTotal60d   float64       `json:"platform_total_60d"`
	DailyAvg           float64       `json:"daily_avg"`
	WeeklyAvg          float64       `json:"weekly_avg"`
	MonthlyAvg         float64       `json:"monthly_avg"`
	TopMerchants       []TopMerchant `json:"top_merchants"`
	MerchantsWithItems int           `json:"merchants_with_item_data"`
	Partial            bool          `json:"partial"`
}

// ScalarMetrics expõe as métricas escalares na forma consumida pelo relatório
// de diferenças. A ordem das chaves é responsabilidade do consumidor.
func (s MetricsSnapshot) ScalarMetrics() map[string]float64 {
	return map[string]float64{
		"customers_total":          float64(s.CustomersTotal),
		"customers_active":         float64(s.CustomersActive),
		"marketing_optin_count":    float64(s.MarketingOptIns),
		"merchants_total":          float64(s.MerchantsTotal),
		"merchants_active":         float64(s.MerchantsActive),
		"merchants_with_item_data": float64(s.MerchantsWithItems),
		"platform_total_60d":       s.PlatformTotal60d,
		"daily_avg":                s.DailyAvg,
		"weekly_avg":               s.WeeklyAvg,
		"monthly_avg":              s.MonthlyAvg,
	}
}

// ScalarMetricNames lista as métricas escalares em ordem estável de relatório
var ScalarMetricNames = []string{
	"customers_total",
	"customers_active",
	"marketing_optin_count",
	"merchants_total",
	"merchants_active",
	"merchants_with_item_data",
	"platform_total_60d",
	"daily_avg",
	"weekly_avg",
	"monthly_avg",
}
