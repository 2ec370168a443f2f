package domain

import "fmt"

// DiagnosticKind classifica os problemas recuperáveis encontrados durante a execução
type DiagnosticKind string

const (
	// DiagnosticSchema indica linha descartada por campo obrigatório ausente
	DiagnosticSchema DiagnosticKind = "schema_error"
	// DiagnosticParse indica linha descartada por valor não interpretável (data ou moeda)
	DiagnosticParse DiagnosticKind = "parse_error"
	// DiagnosticFile indica arquivo inteiro descartado (ilegível ou sem cabeçalho)
	DiagnosticFile DiagnosticKind = "file_error"
	// DiagnosticDiscoveryGap indica categoria inteira sem nenhum arquivo descoberto
	DiagnosticDiscoveryGap DiagnosticKind = "discovery_gap"
)

// Diagnostic registra um problema recuperado localmente durante o pipeline.
// Linhas e arquivos descartados nunca abortam a execução; apenas a falha de
// consistência do agregador é fatal.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Category string         `json:"category"`
	File     string         `json:"file,omitempty"`
	Row      int            `json:"row,omitempty"`
	Reason   string         `json:"reason"`
}

func (d Diagnostic) String() string {
	if d.File != "" {
		return fmt.Sprintf("[%s] %s %s linha %d: %s", d.Kind, d.Category, d.File, d.Row, d.Reason)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Category, d.Reason)
}

// ConsistencyError indica divergência entre a soma das vendas coalescidas por
// estabelecimento e o total da plataforma. É o único erro fatal do pipeline:
// aponta defeito de coalescência, não dado de entrada ruim.
type ConsistencyError struct {
	MerchantSum   float64
	PlatformTotal float64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf(
		"inconsistência nas janelas de vendas: soma por estabelecimento (%.2f) difere do total da plataforma (%.2f)",
		e.MerchantSum, e.PlatformTotal,
	)
}
