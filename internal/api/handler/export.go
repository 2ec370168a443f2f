package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/platform-analytics-api/internal/pipeline"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/exporting"
	"github.com/vfg2006/platform-analytics-api/pkg/apiErrors"
)

// ExportCustomers devolve a tabela anonimizada de clientes em CSV.
// Identificadores pessoais diretos nunca saem por aqui.
func ExportCustomers(runner pipeline.Runner, exporter exporting.Exporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := runner.LastResult()
		if result == nil || result.Snapshot == nil {
			apiErrors.WriteError(w, apiErrors.ErrSnapshotUnavailable, "Nenhum snapshot computado ainda", nil)
			return
		}

		rows := exporter.CustomerRows(result.Customers, result.Snapshot.ReferenceDate)

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="customers_export.csv"`)

		if err := exporter.WriteCustomersCSV(w, rows); err != nil {
			logrus.WithError(err).Error("Erro ao escrever a exportação de clientes")
		}
	})
}

// ExportMerchants devolve a tabela de estabelecimentos com as vendas
// coalescidas em CSV
func ExportMerchants(runner pipeline.Runner, exporter exporting.Exporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := runner.LastResult()
		if result == nil || result.Snapshot == nil {
			apiErrors.WriteError(w, apiErrors.ErrSnapshotUnavailable, "Nenhum snapshot computado ainda", nil)
			return
		}

		rows := exporter.MerchantRows(result.Roster, result.Observations)

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="merchants_export.csv"`)

		if err := exporter.WriteMerchantsCSV(w, rows); err != nil {
			logrus.WithError(err).Error("Erro ao escrever a exportação de estabelecimentos")
		}
	})
}
