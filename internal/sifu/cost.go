package sifu

import "github.com/rlondon3/jingwufoundationbackend/internal/settings"

// charsPerToken is the rough characters-per-token ratio the cost estimate
// assumes. The estimate is a policy constant, not a billing contract.
const charsPerToken = 4

// CostRateCentsPer1K returns the configured generation cost rate.
func CostRateCentsPer1K() int {
	return settings.IntValue(settings.CostCentsPer1KTokensKey, settings.DefaultCostCentsPer1KTokens)
}

// EstimateCostCents approximates the cost of one generation from input and
// output text length, rounding tokens and cents up.
func EstimateCostCents(questionText, responseText string, centsPer1K int) int64 {
	if centsPer1K <= 0 {
		return 0
	}
	chars := len(questionText) + len(responseText)
	if chars == 0 {
		return 0
	}
	tokens := (chars + charsPerToken - 1) / charsPerToken
	return int64((tokens*centsPer1K + 999) / 1000)
}
