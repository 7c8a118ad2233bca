package services

import (
	"context"

	"backend/repositories"
)

// Each allergy contributes 10% risk, capped at 30%.
const (
	riskPerAllergy = 0.1
	maxAllergyRisk = 0.3
)

// AllergyRiskScore maps an allergy count to a meal risk score. Pure
// function of the count: min(count*0.1, 0.3).
func AllergyRiskScore(allergyCount int64) float64 {
	if allergyCount <= 0 {
		return 0.0
	}
	risk := float64(allergyCount) * riskPerAllergy
	if risk > maxAllergyRisk {
		return maxAllergyRisk
	}
	return risk
}

// refreshMealRisk re-reads the meal's allergy count and persists the
// derived score. It must run inside the same transaction as the allergy
// mutation that triggered it, so readers never observe a count that
// disagrees with the stored risk.
func refreshMealRisk(ctx context.Context, st repositories.Store, mealID uint) (float64, error) {
	count, err := st.Allergies().CountByMeal(ctx, mealID)
	if err != nil {
		return 0, err
	}
	risk := AllergyRiskScore(count)
	if err := st.Meals().UpdateAllergyRisk(ctx, mealID, risk); err != nil {
		return 0, err
	}
	return risk, nil
}
