package normalizing

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Abreviações de fuso com offset fixo aceitas nas datas dos arquivos de
// exportação. Tudo é normalizado para UTC.
var timezoneOffsets = map[string]int{
	"UTC": 0,
	"GMT": 0,
	"EDT": -4 * 3600,
	"EST": -5 * 3600,
	"CDT": -5 * 3600,
	"CST": -6 * 3600,
	"MDT": -6 * 3600,
	"MST": -7 * 3600,
	"PDT": -7 * 3600,
	"PST": -8 * 3600,
	"BRT": -3 * 3600,
}

var trailingZoneRe = regexp.MustCompile(` ([A-Z]{2,4})$`)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

// ParseTimestamp interpreta datas dos arquivos de exportação, aceitando
// abreviações de fuso no final (ex.: "2025-06-01 14:00:00 EDT") e devolvendo
// o instante normalizado em UTC. Célula vazia devolve nil sem erro; valor
// presente mas não interpretável devolve erro para que a linha seja
// descartada com diagnóstico.
func ParseTimestamp(raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}

	offset := 0
	if m := trailingZoneRe.FindStringSubmatch(s); m != nil {
		zone := m[1]
		if known, ok := timezoneOffsets[zone]; ok {
			offset = known
			s = strings.TrimSpace(strings.TrimSuffix(s, " "+zone))
		} else if len(zone) == 3 {
			// Abreviação desconhecida de três letras: remover e tratar como UTC,
			// seguindo o comportamento do sistema de origem
			s = strings.TrimSpace(strings.TrimSuffix(s, " "+zone))
		}
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}

		utc := parsed.Add(-time.Duration(offset) * time.Second)
		return &utc, nil
	}

	return nil, errors.Errorf("data inválida %q", raw)
}
