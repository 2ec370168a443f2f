package domain

// SalesSource identifica a origem autoritativa do volume de vendas de 60 dias
type SalesSource string

const (
	// SalesSourceItemReport indica que o valor veio do relatório de itens vendidos
	SalesSourceItemReport SalesSource = "item_report"
	// SalesSourceMTDFallback indica o fallback MTD + mês anterior do roster
	SalesSourceMTDFallback SalesSource = "mtd_fallback"
)

// SalesObservation é a observação única de vendas que sobrevive à coalescência
// por estabelecimento. As duas fontes nunca são somadas para o mesmo estabelecimento.
type SalesObservation struct {
	MerchantKey string      `json:"merchant_key"`
	NetSales60d float64     `json:"net_sales_60d"`
	Source      SalesSource `json:"source"`
}
