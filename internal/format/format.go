// Package format renders engine values the way Brazilian sellers read them.
package format

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const ptBRPattern = "#.###,##"

// Round2 rounds v half away from zero to cents. Non-finite values become 0.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Number renders v with two decimals, "." grouping and "," as decimal mark.
func Number(v float64) string {
	v = Round2(v)
	if v == 0 {
		// avoids "-0,00"
		v = 0
	}
	return humanize.FormatFloat(ptBRPattern, v)
}

// Currency renders v as Brazilian reais, e.g. "R$ 1.234,56" or "-R$ 5,00".
func Currency(v float64) string {
	s := Number(v)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return "-R$ " + rest
	}
	return "R$ " + s
}

// Percent renders v as "51,00%".
func Percent(v float64) string {
	return Number(v) + "%"
}

// SignedPercent renders v as Percent with a leading "+" for positive values.
func SignedPercent(v float64) string {
	if Round2(v) > 0 {
		return "+" + Percent(v)
	}
	return Percent(v)
}

// Multiplier renders a markup factor as "2,50x".
func Multiplier(v float64) string {
	return Number(v) + "x"
}
