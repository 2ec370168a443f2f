package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/platform-analytics-api/internal/scheduler"
	"github.com/vfg2006/platform-analytics-api/pkg/apiErrors"
)

// RunPipeline dispara manualmente uma execução do pipeline de métricas.
// A execução acontece em segundo plano; o serviço de sincronização garante
// uma execução por vez.
func RunPipeline(syncService *scheduler.PipelineSyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunPipeline")

		if syncService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização do pipeline não disponível", nil)
			return
		}

		syncService.TriggerManualSync()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "started"}); err != nil {
			logrus.WithError(err).Error("Erro ao responder o disparo manual do pipeline")
		}
	})
}
