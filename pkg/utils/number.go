package utils

import "math"

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// SafeDivide retorna zero quando o denominador é zero, em vez de Inf/NaN
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// RelativeDiff calcula a diferença relativa entre dois valores, usada na
// verificação de consistência das janelas de vendas
func RelativeDiff(a, b float64) float64 {
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}

	return diff / scale
}
