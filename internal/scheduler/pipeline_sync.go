// Package scheduler contém o agendamento da atualização periódica das métricas
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/platform-analytics-api/internal/config"
	"github.com/vfg2006/platform-analytics-api/internal/pipeline"
)

// PipelineSyncService agenda execuções periódicas do pipeline de métricas.
// Uma execução por vez: o pipeline assume escritor único sobre o baseline, e a
// serialização é garantida aqui pelo mutex de sincronização.
type PipelineSyncService struct {
	scheduler           *gocron.Scheduler
	runner              pipeline.Runner
	config              config.PipelineSync
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewPipelineSyncService(runner pipeline.Runner, cfg *config.Config) *PipelineSyncService {
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.PipelineSync.CronSchedule,
	}).Info("Configuração do agendador do pipeline de métricas carregada")

	return &PipelineSyncService{
		scheduler: scheduler,
		runner:    runner,
		config:    cfg.PipelineSync,
	}
}

func (s *PipelineSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de atualização do pipeline de métricas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de atualização do pipeline de métricas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunPipeline(); err != nil {
			logrus.WithError(err).Error("Erro na atualização periódica das métricas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar a atualização do pipeline de métricas: %w", err)
	}

	// Executar o cron em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do cron quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron do pipeline de métricas")
		s.scheduler.Stop()
	}()

	return nil
}

// RunPipeline executa o pipeline garantindo uma execução por vez
func (s *PipelineSyncService) RunPipeline() error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		logrus.Warn("Pipeline de métricas já está em execução")
		return nil
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	defer func() {
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
	}()

	_, err := s.runner.Run()
	return err
}

// TriggerManualSync dispara uma execução manual em segundo plano
func (s *PipelineSyncService) TriggerManualSync() {
	go func() {
		if err := s.RunPipeline(); err != nil {
			logrus.WithError(err).Error("Erro na execução manual do pipeline de métricas")
		}
	}()
}
