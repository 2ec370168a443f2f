// Package pipeline orquestra a transformação em lote: descoberta de arquivos,
// normalização, deduplicação, coalescência, cálculo do snapshot e relatório de
// diferenças. A execução é sequencial e determinística: os arquivos de cada
// categoria são processados em ordem lexicográfica e a data de referência vem
// de fora, nunca do relógio do sistema.
package pipeline

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/platform-analytics-api/infrastructure/discovery"
	"github.com/vfg2006/platform-analytics-api/infrastructure/snapshotstore"
	"github.com/vfg2006/platform-analytics-api/infrastructure/tabular"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/coalescing"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/deduplicating"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/diffing"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/metrics"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/normalizing"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/rostering"
	"github.com/vfg2006/platform-analytics-api/pkg/log"
	"github.com/vfg2006/platform-analytics-api/pkg/utils"
)

// Result é o produto completo de uma execução: o snapshot, o relatório de
// diferenças, a lista de diagnósticos recuperados e as tabelas limpas para
// exportação
type Result struct {
	Snapshot     *domain.MetricsSnapshot
	Diff         *domain.DiffReport
	Diagnostics  []domain.Diagnostic
	Customers    []domain.CustomerRecord
	Roster       *rostering.Roster
	Observations []domain.SalesObservation
}

// Runner executa o pipeline e guarda o resultado mais recente para consulta
type Runner interface {
	Run() (*Result, error)
	LastResult() *Result
}

// Options parametriza uma execução do pipeline
type Options struct {
	ReferenceDate     time.Time
	TopMerchantsCount int
}

// Service implementa o Runner encadeando os casos de uso do núcleo
type Service struct {
	discoverer discovery.FileDiscoverer
	store      snapshotstore.Store
	dedup      deduplicating.Deduplicator
	roster     rostering.Loader
	coalescer  coalescing.Coalescer
	computer   metrics.Computer
	differ     diffing.Reporter
	options    Options

	// readFile é injetável nos testes; por padrão lê do sistema de arquivos
	readFile func(path string) (*tabular.Table, error)

	mu   sync.RWMutex
	last *Result
}

func NewService(
	discoverer discovery.FileDiscoverer,
	store snapshotstore.Store,
	options Options,
) *Service {
	return &Service{
		discoverer: discoverer,
		store:      store,
		dedup:      deduplicating.NewService(),
		roster:     rostering.NewService(),
		coalescer:  coalescing.NewService(),
		computer:   metrics.NewService(),
		differ:     diffing.NewService(),
		options:    options,
		readFile:   tabular.ReadFile,
	}
}

// Run executa o pipeline completo. Erros de linha e de arquivo são recuperados
// localmente e viram diagnósticos; apenas a falha de consistência do cálculo é
// fatal e, nesse caso, nada é persistido: o baseline anterior fica intacto.
func (s *Service) Run() (*Result, error) {
	runID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar o id da execução")
	}

	logger := log.L.WithField("run_id", runID)
	logger.WithFields(log.Fields{
		"reference_date": s.options.ReferenceDate.Format("2006-01-02"),
	}).Info("Iniciando execução do pipeline de métricas")

	// O baseline é lido no início da execução; a ausência dele sinaliza
	// primeira execução para o relatório de diferenças
	previous, err := s.store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao carregar o baseline de métricas")
	}

	result := &Result{}
	partial := false

	tables := make(map[discovery.Category][]*tabular.Table)
	for _, category := range discovery.Categories {
		files, err := s.discoverer.Discover(category)
		if err != nil {
			return nil, errors.Wrapf(err, "erro na descoberta de arquivos de %s", category)
		}

		logger.WithFields(log.Fields{
			"category": string(category),
			"files":    len(files),
		}).Infof("Categoria %s: %d arquivo(s) descoberto(s)", category, len(files))

		if len(files) == 0 {
			// Categoria vazia não aborta o pipeline, mas o snapshot sai
			// marcado como parcial para o consumidor não tratar zeros como saúde
			partial = true
			result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
				Kind:     domain.DiagnosticDiscoveryGap,
				Category: string(category),
				Reason:   "nenhum arquivo descoberto para a categoria",
			})
			continue
		}

		for _, file := range files {
			table, err := s.readFile(file.Path)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
					Kind:     domain.DiagnosticFile,
					Category: string(category),
					File:     filepath.Base(file.Path),
					Reason:   err.Error(),
				})
				continue
			}
			table.ModTime = file.ModTime
			tables[category] = append(tables[category], table)
		}
	}

	// Clientes: normalização de todas as tabelas na ordem de descoberta,
	// seguida da deduplicação por identidade
	var customerRecords []domain.CustomerRecord
	for _, table := range tables[discovery.CategoryCustomers] {
		records, diags := normalizing.NormalizeCustomers(table)
		customerRecords = append(customerRecords, records...)
		result.Diagnostics = append(result.Diagnostics, diags...)

		logger.WithFields(log.Fields{
			"file": filepath.Base(table.Path),
			"rows": len(records),
		}).Debugf("Arquivo de clientes normalizado: %d linha(s) válida(s)", len(records))
	}

	dedupResult := s.dedup.Deduplicate(customerRecords, s.options.ReferenceDate)
	result.Customers = dedupResult.Customers
	logger.Infof("Clientes: %d registro(s) de origem, %d canônico(s) após deduplicação",
		len(customerRecords), len(result.Customers))

	// Roster de estabelecimentos, sem filtro por status
	roster, rosterDiags := s.roster.BuildRoster(tables[discovery.CategoryMerchants])
	result.Roster = roster
	result.Diagnostics = append(result.Diagnostics, rosterDiags...)
	logger.Infof("Roster montado com %d estabelecimento(s)", roster.Size())

	// Relatórios de itens vendidos
	var reports []*normalizing.ItemReport
	for _, table := range tables[discovery.CategorySales] {
		report, diags := normalizing.NormalizeItemReport(table)
		result.Diagnostics = append(result.Diagnostics, diags...)
		if report != nil {
			reports = append(reports, report)
		}
	}

	coalesced := s.coalescer.Coalesce(roster, reports, s.options.ReferenceDate)
	result.Observations = coalesced.Observations
	result.Diagnostics = append(result.Diagnostics, coalesced.Diagnostics...)
	logger.Infof("Coalescência: %d estabelecimento(s) com relatório de itens, %d no fallback MTD",
		coalesced.WithItemData, roster.Size()-coalesced.WithItemData)

	snapshot, err := s.computer.Compute(metrics.Input{
		Customers:   result.Customers,
		Roster:      roster,
		Sales:       coalesced,
		Reference:   s.options.ReferenceDate,
		GeneratedAt: time.Now().UTC(),
		TopCount:    s.options.TopMerchantsCount,
		RunID:       runID,
		Partial:     partial,
	})
	if err != nil {
		// Falha de consistência é fatal e acontece antes de qualquer
		// persistência: o baseline anterior permanece válido
		logger.WithError(err).Error("Execução abortada pela verificação de consistência")
		return nil, err
	}
	result.Snapshot = snapshot

	result.Diff = s.differ.BuildReport(previous, snapshot)

	// Persistência é o último passo, somente após o snapshot completo
	if err := s.store.Save(snapshot); err != nil {
		return nil, errors.Wrap(err, "erro ao persistir o novo baseline")
	}

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	logger.WithFields(log.Fields{
		"stage": "done",
	}).Infof("Pipeline concluído: %d cliente(s), %d estabelecimento(s), total 60d %.2f, %d diagnóstico(s)",
		snapshot.CustomersTotal, snapshot.MerchantsTotal, snapshot.PlatformTotal60d, len(result.Diagnostics))
	logger.Debug(utils.PrettyJson(snapshot))

	return result, nil
}

// LastResult retorna o resultado da última execução bem-sucedida, ou nil
func (s *Service) LastResult() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
