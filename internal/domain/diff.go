package domain

// MetricDiff é a comparação de uma métrica escalar entre duas execuções.
// PctChange fica ausente quando o valor anterior é zero; NoBaseline marca a
// métrica sem valor anterior para comparar.
type MetricDiff struct {
	Metric     string   `json:"metric"`
	Previous   float64  `json:"previous"`
	Current    float64  `json:"current"`
	Delta      float64  `json:"delta"`
	PctChange  *float64 `json:"pct_change,omitempty"`
	NoBaseline bool     `json:"no_baseline,omitempty"`
}

// DiffReport compara o snapshot recém-computado com o baseline persistido.
// FirstRun marca a ausência de baseline como estado próprio, e não como
// delta contra um zero implícito.
type DiffReport struct {
	FirstRun bool         `json:"first_run"`
	Entries  []MetricDiff `json:"entries"`
}
