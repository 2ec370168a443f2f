// Package coalescing resolve, por estabelecimento, o valor único e
// autoritativo de vendas líquidas da janela de 60 dias. A seleção entre as
// fontes é exclusiva: o relatório de itens vendidos tem prioridade e o
// fallback MTD + mês anterior só entra na ausência dele. As duas fontes nunca
// são somadas para o mesmo estabelecimento.
package coalescing

import (
	"fmt"
	"time"

	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/normalizing"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/rostering"
)

// Result é o conjunto de observações que sobreviveram à coalescência, uma por
// estabelecimento do roster
type Result struct {
	Observations []domain.SalesObservation
	WithItemData int
	Diagnostics  []domain.Diagnostic
}

// Coalescer seleciona a observação autoritativa de vendas por estabelecimento
type Coalescer interface {
	Coalesce(roster *rostering.Roster, reports []*normalizing.ItemReport, reference time.Time) *Result
}

type service struct{}

func NewService() Coalescer {
	return &service{}
}

func (s *service) Coalesce(roster *rostering.Roster, reports []*normalizing.ItemReport, reference time.Time) *Result {
	result := &Result{}

	itemSums := s.sumItemReports(reports, reference)

	// Relatórios de estabelecimentos fora do roster não geram observação:
	// o total da plataforma soma apenas sobre o roster
	for _, report := range reports {
		if _, ok := roster.Get(report.MerchantKey); !ok {
			result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
				Kind:     domain.DiagnosticSchema,
				Category: "sales",
				Reason:   fmt.Sprintf("estabelecimento %q do relatório de itens ausente do roster", report.MerchantKey),
			})
		}
	}

	for _, key := range roster.Keys() {
		merchant, _ := roster.Get(key)

		observation := domain.SalesObservation{MerchantKey: key}

		if itemSum, ok := itemSums[key]; ok {
			// Fonte prioritária: relatório de itens. O fallback é ignorado por
			// completo para não contar o mesmo volume duas vezes.
			observation.NetSales60d = itemSum
			observation.Source = domain.SalesSourceItemReport

			value := itemSum
			merchant.ItemSales60d = &value
			result.WithItemData++
		} else {
			observation.NetSales60d = merchant.MTDVolume + merchant.LastMonthVolume
			observation.Source = domain.SalesSourceMTDFallback
		}

		result.Observations = append(result.Observations, observation)
	}

	return result
}

// sumItemReports agrega as vendas líquidas por estabelecimento dentro da
// janela de 60 dias encerrada na data de referência. Linhas sem data contam
// sempre: o arquivo do relatório já cobre a janela no sistema de origem.
func (s *service) sumItemReports(reports []*normalizing.ItemReport, reference time.Time) map[string]float64 {
	windowStart := reference.AddDate(0, 0, -domain.SalesWindowDays)

	sums := make(map[string]float64)
	for _, report := range reports {
		if report == nil {
			continue
		}
		for _, row := range report.Rows {
			if row.SoldAt != nil {
				if row.SoldAt.Before(windowStart) || row.SoldAt.After(reference) {
					continue
				}
			}
			sums[report.MerchantKey] += row.NetSales
		}
	}

	return sums
}
