package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/platform-analytics-api/infrastructure/discovery"
	discoverymocks "github.com/vfg2006/platform-analytics-api/infrastructure/discovery/mocks"
	"github.com/vfg2006/platform-analytics-api/infrastructure/snapshotstore"
	storemocks "github.com/vfg2006/platform-analytics-api/infrastructure/snapshotstore/mocks"
	"github.com/vfg2006/platform-analytics-api/infrastructure/tabular"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/pkg/log"
)

var reference = time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// seedDataTree monta uma árvore de dados completa: dois arquivos de clientes
// com uma identidade repetida entre eles, um roster com três estabelecimentos
// e um relatório de itens para um deles
func seedDataTree(t *testing.T, root string) {
	t.Helper()

	writeFile(t, filepath.Join(root, "customers", "export_a.csv"),
		"id,name,email,phone,registered,optin\n"+
			"1,Ana,a@x.com,,2025-08-01,yes\n"+
			"2,Bruno,b@x.com,111,2025-05-01,no\n")

	writeFile(t, filepath.Join(root, "customers", "export_b.csv"),
		"id,name,email,phone,registered,optin\n"+
			",,a@x.com,999,2025-07-02,no\n"+
			"3,Carla,c@x.com,222,2024-01-10,yes\n")

	writeFile(t, filepath.Join(root, "merchants", "export.csv"),
		"DBA Name,Legal Business Name,Status,MTD Volume,Last Month Volume\n"+
			"Acme,Acme LLC,Active,\"$1,200.00\",$800.00\n"+
			"Beta,Beta Inc,Cancelled,$500.00,$0.00\n"+
			"Gamma,Gamma Corp,Active,$0.00,$0.00\n")

	writeFile(t, filepath.Join(root, "sales", "Acme-Revenue Item Sales-2025.csv"),
		"Relatório gerado em 2025-08-11\n"+
			"Estabelecimento: Acme\n"+
			"Item Name,Net Sales,Sold Date\n"+
			"Latte,\"$2,000.00\",2025-08-01\n"+
			"Espresso,\"$1,500.00\",2025-07-15\n"+
			"Antigo,$999.00,2025-01-01\n")
}

func newTestService(t *testing.T, root string) *Service {
	t.Helper()
	store := snapshotstore.NewFileStore(filepath.Join(root, "metrics_cache.json"))
	return NewService(discovery.NewFolderDiscoverer(root), store, Options{
		ReferenceDate:     reference,
		TopMerchantsCount: 3,
	})
}

func TestRun_FluxoCompleto(t *testing.T) {
	root := t.TempDir()
	seedDataTree(t, root)

	service := newTestService(t, root)
	result, err := service.Run()
	require.NoError(t, err)

	snapshot := result.Snapshot
	require.NotNil(t, snapshot)

	// 4 registros de origem, 3 identidades: o registro sem id de export_b
	// funde com o cliente 1 de export_a pelo e-mail
	assert.Equal(t, 3, snapshot.CustomersTotal)
	assert.Equal(t, 1, snapshot.CustomersActive, "apenas Ana registrou nos últimos 30 dias")
	assert.Equal(t, 2, snapshot.MarketingOptIns)

	assert.Equal(t, 3, snapshot.MerchantsTotal)
	assert.Equal(t, 2, snapshot.MerchantsActive, "Gamma não tem vendas na janela")
	assert.Equal(t, 1, snapshot.MerchantsWithItems)

	// Acme: relatório de itens (2000 + 1500, a venda de janeiro cai fora da
	// janela) suprime o fallback de 2000; Beta: fallback 500
	assert.Equal(t, 4000.0, snapshot.PlatformTotal60d)

	require.NotEmpty(t, snapshot.TopMerchants)
	assert.Equal(t, "ACME", snapshot.TopMerchants[0].Key)
	assert.Equal(t, 3500.0, snapshot.TopMerchants[0].NetSales60d)

	assert.False(t, snapshot.Partial)
	assert.NotEmpty(t, snapshot.RunID)

	require.NotNil(t, result.Diff)
	assert.True(t, result.Diff.FirstRun)

	assert.Same(t, result, service.LastResult())

	// O baseline foi persistido para a próxima execução
	_, err = os.Stat(filepath.Join(root, "metrics_cache.json"))
	assert.NoError(t, err)
}

func TestRun_SegundaExecucaoComparaComBaseline(t *testing.T) {
	root := t.TempDir()
	seedDataTree(t, root)

	service := newTestService(t, root)
	_, err := service.Run()
	require.NoError(t, err)

	result, err := service.Run()
	require.NoError(t, err)

	require.NotNil(t, result.Diff)
	assert.False(t, result.Diff.FirstRun)
	for _, entry := range result.Diff.Entries {
		assert.Zero(t, entry.Delta, "entradas idênticas não geram deriva em %s", entry.Metric)
		assert.False(t, entry.NoBaseline)
	}
}

func TestRun_CategoriaAusenteMarcaSnapshotParcial(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "customers", "export.csv"),
		"id,email,registered\n1,a@x.com,2025-08-01\n")

	service := newTestService(t, root)
	result, err := service.Run()
	require.NoError(t, err)

	assert.True(t, result.Snapshot.Partial)

	gaps := 0
	for _, diag := range result.Diagnostics {
		if diag.Kind == domain.DiagnosticDiscoveryGap {
			gaps++
		}
	}
	assert.Equal(t, 2, gaps, "merchants e sales sem arquivos")

	assert.Equal(t, 1, result.Snapshot.CustomersTotal)
	assert.Zero(t, result.Snapshot.MerchantsTotal)
}

func TestRun_ArquivoIlegivelViraDiagnostico(t *testing.T) {
	root := t.TempDir()
	seedDataTree(t, root)

	service := newTestService(t, root)

	realRead := service.readFile
	service.readFile = func(path string) (*tabular.Table, error) {
		if filepath.Base(path) == "export_b.csv" {
			return nil, errors.New("arquivo truncado")
		}
		return realRead(path)
	}

	result, err := service.Run()
	require.NoError(t, err)

	var fileDiag *domain.Diagnostic
	for i, diag := range result.Diagnostics {
		if diag.Kind == domain.DiagnosticFile {
			fileDiag = &result.Diagnostics[i]
		}
	}
	require.NotNil(t, fileDiag)
	assert.Equal(t, "export_b.csv", fileDiag.File)

	// O arquivo ilegível só remove suas próprias linhas
	assert.Equal(t, 2, result.Snapshot.CustomersTotal)
	assert.False(t, result.Snapshot.Partial, "a categoria ainda tem arquivos")
}

func TestRun_ErroDeDescobertaEhFatal(t *testing.T) {
	ctrl := gomock.NewController(t)

	discoverer := discoverymocks.NewMockFileDiscoverer(ctrl)
	discoverer.EXPECT().
		Discover(discovery.CategoryCustomers).
		Return(nil, errors.New("permissão negada"))

	store := storemocks.NewMockStore(ctrl)
	store.EXPECT().Load().Return(nil, nil)
	// Save nunca é chamado: nada é persistido em execução abortada

	service := NewService(discoverer, store, Options{ReferenceDate: reference})

	result, err := service.Run()
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Nil(t, service.LastResult())
}

func TestRun_ErroAoCarregarBaselineEhFatal(t *testing.T) {
	ctrl := gomock.NewController(t)

	discoverer := discoverymocks.NewMockFileDiscoverer(ctrl)
	store := storemocks.NewMockStore(ctrl)
	store.EXPECT().Load().Return(nil, errors.New("baseline corrompido"))

	service := NewService(discoverer, store, Options{ReferenceDate: reference})

	result, err := service.Run()
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "baseline")
}
