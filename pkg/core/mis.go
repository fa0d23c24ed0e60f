package core

import "math"

// PowerHeuristic returns the β=2 MIS weight for a sample drawn from f when
// g could also have produced it: (nf·fPdf)² / ((nf·fPdf)² + (ng·gPdf)²).
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if math.IsInf(f*f, 1) {
		return 1
	}
	denom := f*f + g*g
	if denom == 0 {
		return 0
	}
	return (f * f) / denom
}

// BalanceHeuristic returns nf·fPdf / (nf·fPdf + ng·gPdf)
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f+g == 0 {
		return 0
	}
	return f / (f + g)
}
