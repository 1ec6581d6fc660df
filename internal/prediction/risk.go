package prediction

import "github.com/fleetsight/fleetsight/internal/database"

// ClassifyRisk maps a health score and surfaced predictions to a risk
// level. Branches are evaluated in order; the first match wins.
func ClassifyRisk(healthScore int, predictions []Prediction) database.RiskLevel {
	switch {
	case healthScore >= 80 && len(predictions) == 0:
		return database.RiskLow
	case healthScore >= 60 && maxProbability(predictions) <= 0.5:
		return database.RiskMedium
	case healthScore >= 40 && maxProbability(predictions) <= 0.7:
		return database.RiskHigh
	default:
		return database.RiskCritical
	}
}

func maxProbability(predictions []Prediction) float64 {
	max := 0.0
	for _, p := range predictions {
		if p.Probability > max {
			max = p.Probability
		}
	}
	return max
}
