// Package deduplicating funde os registros de clientes de todos os arquivos
// descobertos em um conjunto canônico: no máximo um registro por identidade.
// A identidade primária é o id fornecido pela origem; na ausência dele valem
// o e-mail e o telefone normalizados.
package deduplicating

import (
	"time"

	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/normalizing"
)

// Result é o conjunto canônico de clientes após a mesclagem
type Result struct {
	// Customers preserva a ordem de primeira aparição na entrada, que por sua
	// vez segue a ordem determinística de descoberta dos arquivos
	Customers []domain.CustomerRecord
	// MergedByKey conta os registros de origem fundidos em cada identidade
	MergedByKey map[string]int
}

// Deduplicator funde registros de clientes em um conjunto canônico
type Deduplicator interface {
	Deduplicate(records []domain.CustomerRecord, reference time.Time) *Result
}

type service struct{}

func NewService() Deduplicator {
	return &service{}
}

type entry struct {
	record   domain.CustomerRecord
	merged   int
	absorbed bool
}

func (s *service) Deduplicate(records []domain.CustomerRecord, reference time.Time) *Result {
	byID := make(map[string]*entry)
	byEmail := make(map[string]*entry)
	byPhone := make(map[string]*entry)
	var ordered []*entry

	index := func(e *entry) {
		if e.record.ID != "" {
			byID[e.record.ID] = e
		}
		if email := normalizing.NormalizeEmail(e.record.Email); email != "" {
			if _, taken := byEmail[email]; !taken {
				byEmail[email] = e
			}
		}
		if phone := normalizing.NormalizePhone(e.record.Phone); phone != "" {
			if _, taken := byPhone[phone]; !taken {
				byPhone[phone] = e
			}
		}
	}

	for _, record := range records {
		hits := lookup(record, byID, byEmail, byPhone)
		if len(hits) == 0 {
			e := &entry{record: record, merged: 1}
			ordered = append(ordered, e)
			index(e)
			continue
		}

		// Um registro pode conectar entradas até então distintas (e-mail de
		// uma, telefone de outra). Elas são unidas antes da mesclagem do
		// registro para que o conjunto canônico não dependa da ordem dos
		// arquivos de entrada.
		target := hits[0]
		for _, other := range hits[1:] {
			target.record = mergeRecords(target.record, other.record)
			target.merged += other.merged
			other.absorbed = true
			repoint(other, target, byID, byEmail, byPhone)
		}

		target.record = mergeRecords(target.record, record)
		target.merged++
		// Reindexar: a mesclagem pode ter promovido a entrada para a chave de
		// id ou preenchido e-mail/telefone antes ausentes, e um arquivo
		// posterior trazendo o mesmo id não pode criar duplicata
		index(target)
	}

	result := &Result{MergedByKey: make(map[string]int, len(ordered))}
	for _, e := range ordered {
		if e.absorbed {
			continue
		}
		record := e.record
		record.Active = record.IsActiveAt(reference)
		result.Customers = append(result.Customers, record)
		result.MergedByKey[identityKey(record)] = e.merged
	}

	return result
}

// lookup resolve as entradas existentes alcançadas por um novo registro, em
// ordem de prioridade: id, e-mail normalizado, telefone normalizado. Mais de
// uma entrada distinta significa que o registro conecta identidades até então
// separadas.
func lookup(record domain.CustomerRecord, byID, byEmail, byPhone map[string]*entry) []*entry {
	var hits []*entry
	add := func(e *entry, ok bool) {
		if !ok {
			return
		}
		for _, h := range hits {
			if h == e {
				return
			}
		}
		hits = append(hits, e)
	}

	if record.ID != "" {
		e, ok := byID[record.ID]
		add(e, ok)
	}
	if email := normalizing.NormalizeEmail(record.Email); email != "" {
		e, ok := byEmail[email]
		add(e, ok)
	}
	if phone := normalizing.NormalizePhone(record.Phone); phone != "" {
		e, ok := byPhone[phone]
		add(e, ok)
	}

	return hits
}

// repoint redireciona para a entrada sobrevivente todas as chaves de índice
// que apontavam para a entrada absorvida
func repoint(from, to *entry, indexes ...map[string]*entry) {
	for _, idx := range indexes {
		for key, e := range idx {
			if e == from {
				idx[key] = to
			}
		}
	}
}

// mergeRecords aplica a política de conflito: vence o registro com
// registered_at mais recente; em empate, o mais completo; persistindo o
// empate, o já existente. Campos vazios do vencedor são preenchidos pelo
// perdedor e o opt-in de marketing é combinado com OU.
func mergeRecords(existing, incoming domain.CustomerRecord) domain.CustomerRecord {
	winner, loser := existing, incoming
	if laterRegistration(incoming, existing) {
		winner, loser = incoming, existing
	}

	if winner.ID == "" {
		winner.ID = loser.ID
	}
	if winner.Email == "" {
		winner.Email = loser.Email
	}
	if winner.Phone == "" {
		winner.Phone = loser.Phone
	}
	if winner.Name == "" {
		winner.Name = loser.Name
	}
	if winner.RegisteredAt == nil {
		winner.RegisteredAt = loser.RegisteredAt
	}
	winner.MarketingOptIn = existing.MarketingOptIn || incoming.MarketingOptIn

	return winner
}

func laterRegistration(incoming, existing domain.CustomerRecord) bool {
	switch {
	case incoming.RegisteredAt == nil:
		return false
	case existing.RegisteredAt == nil:
		return true
	case incoming.RegisteredAt.After(*existing.RegisteredAt):
		return true
	case existing.RegisteredAt.After(*incoming.RegisteredAt):
		return false
	}

	// Timestamps iguais: vence o mais completo; novo empate mantém o existente
	return incoming.FilledFieldCount() > existing.FilledFieldCount()
}

func identityKey(record domain.CustomerRecord) string {
	if record.ID != "" {
		return record.ID
	}
	return normalizing.NormalizeEmail(record.Email) + "|" + normalizing.NormalizePhone(record.Phone)
}
