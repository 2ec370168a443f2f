package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/internal/pipeline"
	"github.com/vfg2006/platform-analytics-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MetricsResponse é o snapshot mais recente acompanhado dos diagnósticos da execução
type MetricsResponse struct {
	Snapshot    *domain.MetricsSnapshot `json:"snapshot"`
	Diagnostics []domain.Diagnostic     `json:"diagnostics"`
}

// GetMetrics devolve o snapshot de métricas da última execução do pipeline
func GetMetrics(runner pipeline.Runner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := runner.LastResult()
		if result == nil || result.Snapshot == nil {
			apiErrors.WriteError(w, apiErrors.ErrSnapshotUnavailable, "Nenhum snapshot computado ainda", nil)
			return
		}

		response := MetricsResponse{
			Snapshot:    result.Snapshot,
			Diagnostics: result.Diagnostics,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Error("Erro ao serializar o snapshot de métricas")
		}
	})
}

// GetMetricsDiff devolve o relatório de diferenças da última execução
func GetMetricsDiff(runner pipeline.Runner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := runner.LastResult()
		if result == nil || result.Diff == nil {
			apiErrors.WriteError(w, apiErrors.ErrSnapshotUnavailable, "Nenhum relatório de diferenças disponível ainda", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result.Diff); err != nil {
			logrus.WithError(err).Error("Erro ao serializar o relatório de diferenças")
		}
	})
}
