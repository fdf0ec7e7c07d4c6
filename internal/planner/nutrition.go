package planner

import "math"

const (
	defaultWeightKg = 75.0
	kcalPerKg       = 30.0

	proteinShare = 0.30
	carbsShare   = 0.40
	fatShare     = 0.30

	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// Nutrition estimates daily calories and a 30/40/30 protein/carbs/fat split.
func Nutrition(weightKg *float64, level string) (int, Macros) {
	weight := defaultWeightKg
	if weightKg != nil && *weightKg > 0 {
		weight = *weightKg
	}

	calories := math.Round(weight * kcalPerKg * levelMultiplier(NormalizeLevel(level)))

	return int(calories), Macros{
		ProteinG: int(math.Round(calories * proteinShare / kcalPerGramProtein)),
		CarbsG:   int(math.Round(calories * carbsShare / kcalPerGramCarbs)),
		FatG:     int(math.Round(calories * fatShare / kcalPerGramFat)),
	}
}

func levelMultiplier(level string) float64 {
	switch level {
	case LevelAdvanced:
		return 1.2
	case LevelIntermediate:
		return 1.1
	default:
		return 1.0
	}
}
