// Package rostering monta o roster canônico de estabelecimentos a partir dos
// arquivos de exportação. O roster nunca exclui estabelecimento por status:
// atividade é determinada adiante pelas vendas observadas, não pela situação
// cadastral da conta.
package rostering

import (
	"sort"

	"github.com/vfg2006/platform-analytics-api/infrastructure/tabular"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/normalizing"
)

// Roster é o conjunto canônico de estabelecimentos, um registro por chave
type Roster struct {
	byKey map[string]*domain.MerchantRecord
}

// Loader monta o roster a partir das tabelas cruas dos arquivos de exportação
type Loader interface {
	BuildRoster(tables []*tabular.Table) (*Roster, []domain.Diagnostic)
}

type service struct{}

func NewService() Loader {
	return &service{}
}

func (s *service) BuildRoster(tables []*tabular.Table) (*Roster, []domain.Diagnostic) {
	roster := &Roster{byKey: make(map[string]*domain.MerchantRecord)}
	var diags []domain.Diagnostic

	for _, table := range tables {
		records, tableDiags := normalizing.NormalizeMerchants(table)
		diags = append(diags, tableDiags...)

		for _, record := range records {
			roster.add(record)
		}
	}

	return roster, diags
}

// add insere ou mescla um registro no roster. Chaves duplicadas entre arquivos
// são resolvidas preferindo os valores do arquivo modificado mais recentemente.
func (r *Roster) add(record domain.MerchantRecord) {
	existing, ok := r.byKey[record.Key]
	if !ok {
		copied := record
		r.byKey[record.Key] = &copied
		return
	}

	newer, older := record, *existing
	if older.SourceModTime.After(newer.SourceModTime) {
		newer, older = older, newer
	}

	if newer.LegalName == "" {
		newer.LegalName = older.LegalName
	}
	if newer.DBAName == "" {
		newer.DBAName = older.DBAName
	}
	if newer.Status == "" {
		newer.Status = older.Status
	}
	if newer.RegistrationDate == nil {
		newer.RegistrationDate = older.RegistrationDate
	}
	if newer.MTDVolume == 0 && newer.LastMonthVolume == 0 {
		newer.MTDVolume = older.MTDVolume
		newer.LastMonthVolume = older.LastMonthVolume
	}

	*existing = newer
}

// Get retorna o registro de uma chave, quando presente
func (r *Roster) Get(key string) (*domain.MerchantRecord, bool) {
	record, ok := r.byKey[key]
	return record, ok
}

// Size retorna o número de estabelecimentos do roster
func (r *Roster) Size() int {
	return len(r.byKey)
}

// Keys retorna as chaves em ordem ascendente, para percursos determinísticos
func (r *Roster) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for key := range r.byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Merchants retorna os registros em ordem ascendente de chave
func (r *Roster) Merchants() []domain.MerchantRecord {
	merchants := make([]domain.MerchantRecord, 0, len(r.byKey))
	for _, key := range r.Keys() {
		merchants = append(merchants, *r.byKey[key])
	}
	return merchants
}
