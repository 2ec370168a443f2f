package normalizing

import "strings"

// Campos canônicos por categoria. O casamento de cabeçalhos é feito em duas
// etapas: a tabela explícita de variantes conhecidas e, como as variantes já
// são armazenadas em forma canônica, o fallback tolerante a caixa, espaços e
// pontuação sai de graça pela mesma chave.
const (
	FieldCustomerID     = "id"
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldFullName       = "name"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldRegisteredAt   = "registered_at"
	FieldMarketingOptIn = "marketing_opt_in"

	FieldMerchantID       = "merchant_id"
	FieldLegalName        = "legal_name"
	FieldDBAName          = "dba_name"
	FieldStatus           = "status"
	FieldRegistrationDate = "registration_date"
	FieldMTDVolume        = "mtd_volume"
	FieldLastMonthVolume  = "last_month_volume"

	FieldItemName     = "item_name"
	FieldNetSales     = "net_sales"
	FieldItemSoldDate = "sold_date"
)

var customerColumns = map[string]string{
	"id":               FieldCustomerID,
	"customerid":       FieldCustomerID,
	"custid":           FieldCustomerID,
	"clientid":         FieldCustomerID,
	"firstname":        FieldFirstName,
	"lastname":         FieldLastName,
	"name":             FieldFullName,
	"fullname":         FieldFullName,
	"customername":     FieldFullName,
	"email":            FieldEmail,
	"emailaddress":     FieldEmail,
	"phone":            FieldPhone,
	"phonenumber":      FieldPhone,
	"telephone":        FieldPhone,
	"mobile":           FieldPhone,
	"customersince":    FieldRegisteredAt,
	"registered":       FieldRegisteredAt,
	"registeredat":     FieldRegisteredAt,
	"registrationdate": FieldRegisteredAt,
	"signupdate":       FieldRegisteredAt,
	"membersince":      FieldRegisteredAt,
	"createdat":        FieldRegisteredAt,
	"marketingallowed": FieldMarketingOptIn,
	"marketingoptin":   FieldMarketingOptIn,
	"optin":            FieldMarketingOptIn,
	"newsletter":       FieldMarketingOptIn,
}

var merchantColumns = map[string]string{
	"merchantid":          FieldMerchantID,
	"customerid":          FieldMerchantID, // O sistema de origem chama estabelecimentos de "customers"
	"mid":                 FieldMerchantID,
	"legalbusinessname":   FieldLegalName,
	"legalname":           FieldLegalName,
	"dbaname":             FieldDBAName,
	"dba":                 FieldDBAName,
	"doingbusinessas":     FieldDBAName,
	"accountstatus":       FieldStatus,
	"status":              FieldStatus,
	"merchantstatus":      FieldStatus,
	"registrationdate":    FieldRegistrationDate,
	"mtdvolume":           FieldMTDVolume,
	"monthtodatevolume":   FieldMTDVolume,
	"lastmonthvolume":     FieldLastMonthVolume,
	"previousmonthvolume": FieldLastMonthVolume,
}

var itemReportColumns = map[string]string{
	"name":            FieldItemName,
	"itemname":        FieldItemName,
	"item":            FieldItemName,
	"netsales":        FieldNetSales,
	"netsalesamount":  FieldNetSales,
	"date":            FieldItemSoldDate,
	"solddate":        FieldItemSoldDate,
	"transactiondate": FieldItemSoldDate,
}

// canonicalKey reduz um cabeçalho à sua forma de comparação: minúsculas e
// apenas letras e dígitos
func canonicalKey(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveColumns mapeia cada campo canônico para o índice da coluna no
// cabeçalho dado. Cabeçalhos sem correspondência são ignorados.
func resolveColumns(headers []string, variants map[string]string) map[string]int {
	resolved := make(map[string]int)
	for idx, header := range headers {
		field, ok := variants[canonicalKey(header)]
		if !ok {
			continue
		}
		if _, taken := resolved[field]; taken {
			continue // Primeira coluna vence quando há duplicatas
		}
		resolved[field] = idx
	}
	return resolved
}

func cell(row []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
