// Package metrics junta o conjunto canônico de clientes, o roster de
// estabelecimentos e as observações coalescidas de vendas no snapshot final
// de métricas da plataforma.
package metrics

import (
	"sort"
	"time"

	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/coalescing"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/rostering"
	"github.com/vfg2006/platform-analytics-api/pkg/utils"
)

// consistencyTolerance é a tolerância relativa da verificação de conservação
// entre a soma por estabelecimento e o total da plataforma
const consistencyTolerance = 1e-6

// Input agrupa as entradas do cálculo. A data de referência e o instante de
// geração vêm de fora: o cálculo nunca lê o relógio do sistema.
type Input struct {
	Customers   []domain.CustomerRecord
	Roster      *rostering.Roster
	Sales       *coalescing.Result
	Reference   time.Time
	GeneratedAt time.Time
	TopCount    int
	RunID       string
	Partial     bool
}

// Computer produz o snapshot de métricas de uma execução do pipeline
type Computer interface {
	Compute(in Input) (*domain.MetricsSnapshot, error)
}

type service struct{}

func NewService() Computer {
	return &service{}
}

func (s *service) Compute(in Input) (*domain.MetricsSnapshot, error) {
	snapshot := &domain.MetricsSnapshot{
		RunID:              in.RunID,
		GeneratedAt:        in.GeneratedAt,
		ReferenceDate:      in.Reference,
		CustomersTotal:     len(in.Customers),
		MerchantsTotal:     in.Roster.Size(),
		MerchantsWithItems: in.Sales.WithItemData,
		Partial:            in.Partial,
	}

	for _, customer := range in.Customers {
		if customer.Active {
			snapshot.CustomersActive++
		}
		if customer.MarketingOptIn {
			snapshot.MarketingOptIns++
		}
	}

	salesByKey := make(map[string]float64, len(in.Sales.Observations))
	var platformTotal float64
	for _, observation := range in.Sales.Observations {
		salesByKey[observation.MerchantKey] = observation.NetSales60d
		platformTotal += observation.NetSales60d

		if observation.NetSales60d > 0 {
			snapshot.MerchantsActive++
		}
	}

	snapshot.PlatformTotal60d = utils.RoundWithTwoDecimalPlace(platformTotal)

	// Verificação de conservação na precisão publicada: a soma das vendas
	// coalescidas recomputada a partir do roster enriquecido, arredondada em
	// centavos, precisa bater com o total persistido no snapshot. Divergência
	// indica defeito de coalescência e é fatal.
	var merchantSum float64
	for _, merchant := range in.Roster.Merchants() {
		if merchant.ItemSales60d != nil {
			merchantSum += *merchant.ItemSales60d
		} else {
			merchantSum += merchant.MTDVolume + merchant.LastMonthVolume
		}
	}
	merchantSum = utils.RoundWithTwoDecimalPlace(merchantSum)
	if utils.RelativeDiff(merchantSum, snapshot.PlatformTotal60d) > consistencyTolerance {
		return nil, &domain.ConsistencyError{
			MerchantSum:   merchantSum,
			PlatformTotal: snapshot.PlatformTotal60d,
		}
	}

	dailyAvg := platformTotal / domain.SalesWindowDays
	snapshot.DailyAvg = utils.RoundWithTwoDecimalPlace(dailyAvg)
	snapshot.WeeklyAvg = utils.RoundWithTwoDecimalPlace(dailyAvg * 7)
	snapshot.MonthlyAvg = utils.RoundWithTwoDecimalPlace(dailyAvg * 30)

	snapshot.TopMerchants = s.topMerchants(in.Roster, salesByKey, in.TopCount)

	return snapshot, nil
}

// topMerchants ordena o roster por vendas coalescidas decrescentes, com
// desempate pela chave ascendente, e trunca na quantidade pedida
func (s *service) topMerchants(roster *rostering.Roster, salesByKey map[string]float64, count int) []domain.TopMerchant {
	if count <= 0 {
		count = 3
	}

	merchants := roster.Merchants()
	sort.SliceStable(merchants, func(i, j int) bool {
		si, sj := salesByKey[merchants[i].Key], salesByKey[merchants[j].Key]
		if si != sj {
			return si > sj
		}
		return merchants[i].Key < merchants[j].Key
	})

	if len(merchants) > count {
		merchants = merchants[:count]
	}

	top := make([]domain.TopMerchant, 0, len(merchants))
	for _, merchant := range merchants {
		sales := salesByKey[merchant.Key]
		daily := sales / domain.SalesWindowDays
		top = append(top, domain.TopMerchant{
			Key:         merchant.Key,
			Name:        merchant.DisplayName(),
			NetSales60d: utils.RoundWithTwoDecimalPlace(sales),
			DailyEst:    utils.RoundWithTwoDecimalPlace(daily),
			WeeklyEst:   utils.RoundWithTwoDecimalPlace(daily * 7),
			MonthlyEst:  utils.RoundWithTwoDecimalPlace(daily * 30),
		})
	}

	return top
}
