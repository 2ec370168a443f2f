package domain

import (
	"strings"
	"time"
)

// SalesWindowDays define a janela de vendas dos estabelecimentos em dias
const SalesWindowDays = 60

// MerchantRecord representa um estabelecimento do roster canônico.
// Nenhum filtro por status é aplicado na montagem do roster: estabelecimentos
// cancelados, recusados e ativos permanecem todos presentes.
type MerchantRecord struct {
	Key              string     `json:"key"`
	LegalName        string     `json:"legal_name"`
	DBAName          string     `json:"dba_name"`
	Status           string     `json:"status"`
	RegistrationDate *time.Time `json:"registration_date"`
	MTDVolume        float64    `json:"mtd_volume"`
	LastMonthVolume  float64    `json:"last_month_volume"`
	ItemSales60d     *float64   `json:"item_sales_60d,omitempty"`
	SourceFile       string     `json:"source_file"`
	SourceModTime    time.Time  `json:"-"`
}

// DisplayName retorna o nome fantasia quando presente, senão a razão social
func (m MerchantRecord) DisplayName() string {
	if m.DBAName != "" {
		return m.DBAName
	}
	return m.LegalName
}

// MerchantKey monta a chave canônica do estabelecimento: nome fantasia em
// maiúsculas sem espaços nas bordas, com fallback para a razão social
func MerchantKey(dbaName, legalName string) string {
	name := strings.TrimSpace(dbaName)
	if name == "" {
		name = strings.TrimSpace(legalName)
	}
	return strings.ToUpper(name)
}
