// Package exporting gera as tabelas limpas para consumo externo. A exportação
// de clientes nunca carrega identificadores pessoais diretos (e-mail, telefone,
// nome completo): apenas campos derivados saem do serviço.
package exporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/rostering"
)

// Faixas de recência de cadastro usadas na exportação anonimizada
const (
	RecencyBucket30d     = "0-30d"
	RecencyBucket90d     = "31-90d"
	RecencyBucket365d    = "91-365d"
	RecencyBucketOlder   = "365d+"
	RecencyBucketUnknown = "unknown"
)

// CustomerRow é uma linha anonimizada da exportação de clientes
type CustomerRow struct {
	Active         bool   `json:"active"`
	MarketingOptIn bool   `json:"marketing_opt_in"`
	RecencyBucket  string `json:"recency_bucket"`
}

// MerchantRow é uma linha da exportação de estabelecimentos com a venda
// coalescida e sua origem
type MerchantRow struct {
	Key         string  `json:"key"`
	Status      string  `json:"status"`
	NetSales60d float64 `json:"net_sales_60d"`
	Source      string  `json:"source"`
}

// Exporter monta e escreve as tabelas de exportação
type Exporter interface {
	CustomerRows(customers []domain.CustomerRecord, reference time.Time) []CustomerRow
	MerchantRows(roster *rostering.Roster, observations []domain.SalesObservation) []MerchantRow
	WriteCustomersCSV(w io.Writer, rows []CustomerRow) error
	WriteMerchantsCSV(w io.Writer, rows []MerchantRow) error
}

type service struct{}

func NewService() Exporter {
	return &service{}
}

func (s *service) CustomerRows(customers []domain.CustomerRecord, reference time.Time) []CustomerRow {
	rows := make([]CustomerRow, 0, len(customers))
	for _, customer := range customers {
		rows = append(rows, CustomerRow{
			Active:         customer.Active,
			MarketingOptIn: customer.MarketingOptIn,
			RecencyBucket:  recencyBucket(customer.RegisteredAt, reference),
		})
	}
	return rows
}

func recencyBucket(registeredAt *time.Time, reference time.Time) string {
	if registeredAt == nil {
		return RecencyBucketUnknown
	}

	days := int(reference.Sub(*registeredAt).Hours() / 24)
	switch {
	case days <= 30:
		return RecencyBucket30d
	case days <= 90:
		return RecencyBucket90d
	case days <= 365:
		return RecencyBucket365d
	default:
		return RecencyBucketOlder
	}
}

func (s *service) MerchantRows(roster *rostering.Roster, observations []domain.SalesObservation) []MerchantRow {
	rows := make([]MerchantRow, 0, len(observations))
	for _, observation := range observations {
		row := MerchantRow{
			Key:         observation.MerchantKey,
			NetSales60d: observation.NetSales60d,
			Source:      string(observation.Source),
		}
		if merchant, ok := roster.Get(observation.MerchantKey); ok {
			row.Status = merchant.Status
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *service) WriteCustomersCSV(w io.Writer, rows []CustomerRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"active", "marketing_opt_in", "recency_bucket"}); err != nil {
		return errors.Wrap(err, "erro ao escrever o cabeçalho da exportação de clientes")
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatBool(row.Active),
			strconv.FormatBool(row.MarketingOptIn),
			row.RecencyBucket,
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "erro ao escrever linha da exportação de clientes")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "erro ao finalizar a exportação de clientes")
}

func (s *service) WriteMerchantsCSV(w io.Writer, rows []MerchantRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"key", "status", "net_sales_60d", "source"}); err != nil {
		return errors.Wrap(err, "erro ao escrever o cabeçalho da exportação de estabelecimentos")
	}

	for _, row := range rows {
		record := []string{
			row.Key,
			row.Status,
			fmt.Sprintf("%.2f", row.NetSales60d),
			row.Source,
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "erro ao escrever linha da exportação de estabelecimentos")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "erro ao finalizar a exportação de estabelecimentos")
}
