package normalizing

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyValue indica célula vazia; o chamador decide entre zero e descarte
var ErrEmptyValue = errors.New("valor vazio")

// ParseCurrency interpreta valores monetários dos arquivos de exportação:
// remove símbolo de moeda e separadores de milhar e trata valores entre
// parênteses como negativos
func ParseCurrency(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrEmptyValue
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || cleaned == "." || cleaned == "-" {
		// Havia conteúdo na célula, mas nada numérico sobrou
		return 0, errors.Errorf("valor monetário inválido %q", raw)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "valor monetário inválido %q", raw)
	}

	if negative {
		value = -value
	}

	return value, nil
}

// ParseBool interpreta as marcações de opt-in de marketing dos arquivos
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "y", "sim", "s":
		return true
	}
	return false
}
