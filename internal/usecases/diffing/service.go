// Package diffing compara o snapshot recém-computado com o baseline da
// execução anterior e descreve a deriva de cada métrica escalar.
package diffing

import (
	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/pkg/log"
	"github.com/vfg2006/platform-analytics-api/pkg/utils"
)

// Reporter monta o relatório de diferenças entre duas execuções
type Reporter interface {
	BuildReport(previous, current *domain.MetricsSnapshot) *domain.DiffReport
}

type service struct{}

func NewService() Reporter {
	return &service{}
}

func (s *service) BuildReport(previous, current *domain.MetricsSnapshot) *domain.DiffReport {
	report := &domain.DiffReport{}
	currentMetrics := current.ScalarMetrics()

	if previous == nil {
		// Primeira execução: cada métrica é marcada como sem baseline, e não
		// como delta contra um zero implícito
		report.FirstRun = true
		for _, name := range domain.ScalarMetricNames {
			report.Entries = append(report.Entries, domain.MetricDiff{
				Metric:     name,
				Current:    currentMetrics[name],
				NoBaseline: true,
			})
		}

		log.L.Info("Nenhum baseline de métricas encontrado - primeira execução")
		return report
	}

	previousMetrics := previous.ScalarMetrics()
	for _, name := range domain.ScalarMetricNames {
		entry := domain.MetricDiff{
			Metric:   name,
			Previous: previousMetrics[name],
			Current:  currentMetrics[name],
			Delta:    currentMetrics[name] - previousMetrics[name],
		}

		if entry.Previous != 0 {
			pct := utils.SafeDivide(entry.Delta, entry.Previous)
			entry.PctChange = &pct
		}

		if entry.Delta != 0 {
			log.L.WithFields(log.Fields{
				"metric":   entry.Metric,
				"previous": entry.Previous,
				"current":  entry.Current,
			}).Debugf("Métrica %s variou %+.2f", entry.Metric, entry.Delta)
		}

		report.Entries = append(report.Entries, entry)
	}

	return report
}
