package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/platform-analytics-api/infrastructure/discovery"
	"github.com/vfg2006/platform-analytics-api/infrastructure/snapshotstore"
	"github.com/vfg2006/platform-analytics-api/internal/api"
	"github.com/vfg2006/platform-analytics-api/internal/config"
	"github.com/vfg2006/platform-analytics-api/internal/pipeline"
	"github.com/vfg2006/platform-analytics-api/internal/scheduler"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/exporting"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	discoverer := discovery.NewFolderDiscoverer(cfg.Data.RootDir)
	store := snapshotstore.NewFileStore(cfg.Data.SnapshotCachePath)

	pipelineService := pipeline.NewService(discoverer, store, pipeline.Options{
		ReferenceDate:     cfg.Pipeline.ReferenceDate,
		TopMerchantsCount: cfg.Pipeline.TopMerchantsCount,
	})

	exporter := exporting.NewService()

	pipelineSyncService := scheduler.NewPipelineSyncService(pipelineService, cfg)

	// Primeira computação das métricas na subida do serviço
	if cfg.PipelineSync.RunOnStartup {
		if err := pipelineSyncService.RunPipeline(); err != nil {
			logrus.WithError(err).Error("Erro na execução inicial do pipeline de métricas")
		} else if err := writeExports(pipelineService.LastResult(), exporter, cfg.Data.ExportDir); err != nil {
			logrus.WithError(err).Error("Erro ao escrever as exportações em disco")
		}
	}

	if err := pipelineSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do pipeline de métricas")
	} else {
		logrus.Info("Agendador do pipeline de métricas iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		pipelineService,
		exporter,
		pipelineSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// writeExports grava as tabelas limpas no diretório de exportação, além de
// servi-las pela API
func writeExports(result *pipeline.Result, exporter exporting.Exporter, dir string) error {
	if result == nil || result.Snapshot == nil {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	customers, err := os.Create(filepath.Join(dir, "customers_export.csv"))
	if err != nil {
		return err
	}
	defer customers.Close()

	rows := exporter.CustomerRows(result.Customers, result.Snapshot.ReferenceDate)
	if err := exporter.WriteCustomersCSV(customers, rows); err != nil {
		return err
	}

	merchants, err := os.Create(filepath.Join(dir, "merchants_export.csv"))
	if err != nil {
		return err
	}
	defer merchants.Close()

	return exporter.WriteMerchantsCSV(merchants, exporter.MerchantRows(result.Roster, result.Observations))
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
