// services/allergy_service.go
package services

import (
	"context"

	"backend/models"
	"backend/repositories"
)

// AllergyService owns the allergy lifecycle. Every mutation recomputes
// the owning meal's risk score inside the same transaction as the
// allergy write; the hub, when attached, is notified only after commit.
type AllergyService struct {
	store repositories.Store
	hub   *RealtimeHub
}

func NewAllergyService(store repositories.Store, hub *RealtimeHub) *AllergyService {
	return &AllergyService{store: store, hub: hub}
}

type UpdateAllergyInput struct {
	Name     *string `json:"name"`
	Severity *string `json:"severity"`
}

func (s *AllergyService) CreateAllergy(ctx context.Context, userID, mealID uint, name, severity string) (*models.Allergy, error) {
	if err := validateEntityName(name, "allergy"); err != nil {
		return nil, err
	}
	normalized, ok := models.NormalizeSeverity(severity)
	if !ok {
		return nil, NewValidationError("severity must be one of: mild, moderate, severe")
	}

	var (
		created *models.Allergy
		risk    float64
	)
	err := s.store.Transaction(ctx, func(st repositories.Store) error {
		// Resolving the meal scoped to the acting user is what keeps an
		// allergy's user aligned with its meal's user.
		meal, err := st.Meals().GetMealByID(ctx, mealID, userID)
		if err != nil {
			return err
		}
		if meal == nil {
			return NewValidationError("meal not found or does not belong to the user")
		}

		allergy := &models.Allergy{
			Name:     name,
			Severity: normalized,
			UserID:   userID,
			MealID:   meal.ID,
		}
		if err := st.Allergies().CreateAllergy(ctx, allergy); err != nil {
			return err
		}

		risk, err = refreshMealRisk(ctx, st, meal.ID)
		if err != nil {
			return err
		}
		created = allergy
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyRiskUpdate(userID, mealID, risk)
	return created, nil
}

func (s *AllergyService) GetAllergy(ctx context.Context, allergyID, userID uint) (*models.Allergy, error) {
	allergy, err := s.store.Allergies().GetAllergyByID(ctx, allergyID, userID)
	if err != nil {
		return nil, err
	}
	if allergy == nil {
		return nil, ErrNotFound
	}
	return allergy, nil
}

func (s *AllergyService) ListAllergies(ctx context.Context, userID uint) ([]models.Allergy, error) {
	return s.store.Allergies().ListAllergiesByUser(ctx, userID)
}

// UpdateAllergy changes name and severity only. The recompute runs on
// every successful update even though severity does not currently feed
// the formula.
func (s *AllergyService) UpdateAllergy(ctx context.Context, allergyID, userID uint, input UpdateAllergyInput) (*models.Allergy, error) {
	var (
		updated *models.Allergy
		risk    float64
		mealID  uint
	)
	err := s.store.Transaction(ctx, func(st repositories.Store) error {
		allergy, err := st.Allergies().GetAllergyByID(ctx, allergyID, userID)
		if err != nil {
			return err
		}
		if allergy == nil {
			return ErrNotFound
		}

		if input.Name != nil {
			if err := validateEntityName(*input.Name, "allergy"); err != nil {
				return err
			}
			allergy.Name = *input.Name
		}
		if input.Severity != nil {
			normalized, ok := models.NormalizeSeverity(*input.Severity)
			if !ok {
				return NewValidationError("severity must be one of: mild, moderate, severe")
			}
			allergy.Severity = normalized
		}

		if err := st.Allergies().SaveAllergy(ctx, allergy); err != nil {
			return err
		}

		mealID = allergy.MealID
		risk, err = refreshMealRisk(ctx, st, allergy.MealID)
		if err != nil {
			return err
		}
		updated = allergy
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyRiskUpdate(userID, mealID, risk)
	return updated, nil
}

// DeleteAllergy captures the owning meal before removing the row, then
// recomputes on that meal. Deleting the last allergy takes the risk
// back to exactly 0.0.
func (s *AllergyService) DeleteAllergy(ctx context.Context, allergyID, userID uint) error {
	var (
		risk   float64
		mealID uint
	)
	err := s.store.Transaction(ctx, func(st repositories.Store) error {
		allergy, err := st.Allergies().GetAllergyByID(ctx, allergyID, userID)
		if err != nil {
			return err
		}
		if allergy == nil {
			return ErrNotFound
		}

		mealID = allergy.MealID
		if err := st.Allergies().DeleteAllergy(ctx, allergy.ID, userID); err != nil {
			return err
		}

		risk, err = refreshMealRisk(ctx, st, mealID)
		return err
	})
	if err != nil {
		return err
	}

	s.notifyRiskUpdate(userID, mealID, risk)
	return nil
}

// UsersWithAllergies reports users having at least one allergy, with
// the count. Global administrative query.
func (s *AllergyService) UsersWithAllergies(ctx context.Context) ([]repositories.UserAllergyCount, error) {
	return s.store.Allergies().UsersWithAllergies(ctx)
}

// MealsCausingAllergies reports meals with at least one allergy, count
// descending, across all owners.
func (s *AllergyService) MealsCausingAllergies(ctx context.Context) ([]repositories.MealAllergyCount, error) {
	return s.store.Allergies().MealsCausingAllergies(ctx)
}

func (s *AllergyService) notifyRiskUpdate(userID, mealID uint, risk float64) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastRiskUpdate(userID, mealID, risk)
}
