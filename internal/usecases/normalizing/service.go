// Package normalizing converte linhas tabulares cruas, com esquemas variados
// por arquivo de origem, para os registros canônicos do domínio. Linhas com
// campos obrigatórios ausentes ou valores não interpretáveis são descartadas
// individualmente e registradas como diagnóstico; nenhum problema de linha ou
// de arquivo aborta o pipeline.
package normalizing

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/vfg2006/platform-analytics-api/infrastructure/tabular"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
)

// itemReportSuffix separa o nome do estabelecimento do restante do nome do
// arquivo nos relatórios de itens vendidos
const itemReportSuffix = "-Revenue Item Sales"

// maxHeaderProbeRows limita a varredura por cabeçalho nos relatórios de itens
const maxHeaderProbeRows = 200

// NormalizeEmail reduz um e-mail à forma usada como identidade de fallback
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone mantém apenas os dígitos do telefone
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCustomers converte uma tabela crua de clientes em registros
// canônicos. Linhas sem identidade alguma (id, e-mail e telefone vazios) são
// descartadas com diagnóstico de esquema; datas não interpretáveis descartam
// a linha com diagnóstico de parse.
func NormalizeCustomers(t *tabular.Table) ([]domain.CustomerRecord, []domain.Diagnostic) {
	var diags []domain.Diagnostic
	if len(t.Rows) == 0 {
		return nil, diags
	}

	columns := resolveColumns(t.Rows[0], customerColumns)
	fileName := filepath.Base(t.Path)

	if _, ok := columns[FieldEmail]; !ok {
		if _, okID := columns[FieldCustomerID]; !okID {
			diags = append(diags, domain.Diagnostic{
				Kind:     domain.DiagnosticSchema,
				Category: "customers",
				File:     fileName,
				Reason:   "nenhuma coluna de identidade (id ou email) encontrada no cabeçalho",
			})
			return nil, diags
		}
	}

	var records []domain.CustomerRecord
	for i, row := range t.Rows[1:] {
		rowIndex := i + 2 // Linha 1 é o cabeçalho

		record := domain.CustomerRecord{
			ID:         cell(row, columns, FieldCustomerID),
			Email:      cell(row, columns, FieldEmail),
			Phone:      cell(row, columns, FieldPhone),
			Name:       customerName(row, columns),
			SourceFile: fileName,
		}

		if record.ID == "" && record.Email == "" && record.Phone == "" {
			diags = append(diags, domain.Diagnostic{
				Kind:     domain.DiagnosticSchema,
				Category: "customers",
				File:     fileName,
				Row:      rowIndex,
				Reason:   "linha sem identidade: id, email e telefone ausentes",
			})
			continue
		}

		registeredAt, err := ParseTimestamp(cell(row, columns, FieldRegisteredAt))
		if err != nil {
			diags = append(diags, domain.Diagnostic{
				Kind:     domain.DiagnosticParse,
				Category: "customers",
				File:     fileName,
				Row:      rowIndex,
				Reason:   err.Error(),
			})
			continue
		}
		record.RegisteredAt = registeredAt
		record.MarketingOptIn = ParseBool(cell(row, columns, FieldMarketingOptIn))

		records = append(records, record)
	}

	return records, diags
}

func customerName(row []string, columns map[string]int) string {
	if full := cell(row, columns, FieldFullName); full != "" {
		return full
	}

	first := cell(row, columns, FieldFirstName)
	last := cell(row, columns, FieldLastName)
	return strings.TrimSpace(first + " " + last)
}

// NormalizeMerchants converte uma tabela crua de estabelecimentos em registros
// canônicos. Nenhuma linha é excluída pelo campo de status; apenas linhas sem
// nome algum (fantasia e razão social vazios) são descartadas, pois não há
// como gerar a chave do roster.
func NormalizeMerchants(t *tabular.Table) ([]domain.MerchantRecord, []domain.Diagnostic) {
	var diags []domain.Diagnostic
	if len(t.Rows) == 0 {
		return nil, diags
	}

	columns := resolveColumns(t.Rows[0], merchantColumns)
	fileName := filepath.Base(t.Path)

	var records []domain.MerchantRecord
	for i, row := range t.Rows[1:] {
		rowIndex := i + 2

		dba := cell(row, columns, FieldDBAName)
		legal := cell(row, columns, FieldLegalName)
		key := domain.MerchantKey(dba, legal)
		if key == "" {
			diags = append(diags, domain.Diagnostic{
				Kind:     domain.DiagnosticSchema,
				Category: "merchants",
				File:     fileName,
				Row:      rowIndex,
				Reason:   "nome do estabelecimento ausente (nome fantasia e razão social vazios)",
			})
			continue
		}

		record := domain.MerchantRecord{
			Key:           key,
			LegalName:     legal,
			DBAName:       dba,
			Status:        cell(row, columns, FieldStatus),
			SourceFile:    fileName,
			SourceModTime: t.ModTime,
		}

		registration, err := ParseTimestamp(cell(row, columns, FieldRegistrationDate))
		if err == nil {
			record.RegistrationDate = registration
		}
		// Data de registro inválida não derruba a linha: o roster precisa
		// conter todo estabelecimento presente em qualquer arquivo de origem

		record.MTDVolume = parseVolume(row, columns, FieldMTDVolume, "merchants", fileName, rowIndex, &diags)
		record.LastMonthVolume = parseVolume(row, columns, FieldLastMonthVolume, "merchants", fileName, rowIndex, &diags)

		records = append(records, record)
	}

	return records, diags
}

// parseVolume interpreta um volume monetário, tratando célula vazia como zero.
// Valor presente mas inválido vira diagnóstico de parse e zero, mantendo o
// estabelecimento no roster.
func parseVolume(row []string, columns map[string]int, field, category, fileName string, rowIndex int, diags *[]domain.Diagnostic) float64 {
	raw := cell(row, columns, field)
	value, err := ParseCurrency(raw)
	if err == nil {
		return value
	}
	if err == ErrEmptyValue {
		return 0
	}

	*diags = append(*diags, domain.Diagnostic{
		Kind:     domain.DiagnosticParse,
		Category: category,
		File:     fileName,
		Row:      rowIndex,
		Reason:   err.Error(),
	})
	return 0
}

// ItemRow é uma linha interpretada de um relatório de itens vendidos
type ItemRow struct {
	Name     string
	NetSales float64
	SoldAt   *time.Time
}

// ItemReport é o conteúdo interpretado de um relatório de itens vendidos de
// um estabelecimento
type ItemReport struct {
	MerchantKey string
	Rows        []ItemRow
}

// MerchantKeyFromFilename extrai a chave do estabelecimento do nome do
// arquivo de relatório de itens (ex.: "ACME STORE-Revenue Item Sales-2025.csv")
func MerchantKeyFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if idx := strings.Index(strings.ToLower(name), strings.ToLower(itemReportSuffix)); idx >= 0 {
		name = name[:idx]
	}
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeItemReport interpreta um relatório de itens vendidos. O cabeçalho
// real pode vir precedido de um número arbitrário de linhas de metadados; a
// detecção procura a primeira linha cujos campos cobrem o conjunto exigido
// (nome e vendas líquidas). Sem cabeçalho, o arquivo contribui com zero
// observações e o pipeline segue.
func NormalizeItemReport(t *tabular.Table) (*ItemReport, []domain.Diagnostic) {
	var diags []domain.Diagnostic
	fileName := filepath.Base(t.Path)

	headerIdx := -1
	var columns map[string]int
	probe := len(t.Rows)
	if probe > maxHeaderProbeRows {
		probe = maxHeaderProbeRows
	}
	for i := 0; i < probe; i++ {
		candidate := resolveColumns(t.Rows[i], itemReportColumns)
		_, hasName := candidate[FieldItemName]
		_, hasSales := candidate[FieldNetSales]
		if hasName && hasSales {
			headerIdx = i
			columns = candidate
			break
		}
	}

	if headerIdx < 0 {
		diags = append(diags, domain.Diagnostic{
			Kind:     domain.DiagnosticFile,
			Category: "sales",
			File:     fileName,
			Reason:   "cabeçalho com colunas de nome e vendas líquidas não encontrado",
		})
		return nil, diags
	}

	report := &ItemReport{MerchantKey: MerchantKeyFromFilename(t.Path)}

	for i, row := range t.Rows[headerIdx+1:] {
		rowIndex := headerIdx + i + 2

		rawSales := cell(row, columns, FieldNetSales)
		netSales, err := ParseCurrency(rawSales)
		if err == ErrEmptyValue {
			continue
		}
		if err != nil {
			diags = append(diags, domain.Diagnostic{
				Kind:     domain.DiagnosticParse,
				Category: "sales",
				File:     fileName,
				Row:      rowIndex,
				Reason:   err.Error(),
			})
			continue
		}

		item := ItemRow{
			Name:     cell(row, columns, FieldItemName),
			NetSales: netSales,
		}

		soldAt, err := ParseTimestamp(cell(row, columns, FieldItemSoldDate))
		if err != nil {
			diags = append(diags, domain.Diagnostic{
				Kind:     domain.DiagnosticParse,
				Category: "sales",
				File:     fileName,
				Row:      rowIndex,
				Reason:   err.Error(),
			})
			continue
		}
		item.SoldAt = soldAt

		report.Rows = append(report.Rows, item)
	}

	return report, diags
}
