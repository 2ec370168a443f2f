package domain

import "time"

// CustomerActivityWindowDays define a janela de atividade de clientes em dias
const CustomerActivityWindowDays = 30

// CustomerRecord representa um cliente normalizado a partir dos arquivos de exportação
type CustomerRecord struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Name           string     `json:"name"`
	RegisteredAt   *time.Time `json:"registered_at"`
	MarketingOptIn bool       `json:"marketing_opt_in"`
	Active         bool       `json:"active"`
	SourceFile     string     `json:"source_file"`
}

// FilledFieldCount conta os campos preenchidos do registro, usado como critério
// de desempate na mesclagem de duplicados
func (c CustomerRecord) FilledFieldCount() int {
	count := 0
	for _, v := range []string{c.ID, c.Email, c.Phone, c.Name} {
		if v != "" {
			count++
		}
	}
	if c.RegisteredAt != nil {
		count++
	}
	return count
}

// IsActiveAt indica se o cliente está dentro da janela de atividade de 30 dias
// em relação à data de referência. O limite de exatamente 30 dias é inclusivo.
func (c CustomerRecord) IsActiveAt(reference time.Time) bool {
	if c.RegisteredAt == nil {
		return false
	}
	elapsed := reference.Sub(*c.RegisteredAt)
	return elapsed <= CustomerActivityWindowDays*24*time.Hour
}
