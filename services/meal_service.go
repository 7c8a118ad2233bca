// services/meal_service.go
package services

import (
	"context"
	"strings"

	"backend/models"
	"backend/repositories"
)

const DefaultHighRiskThreshold = 0.2

type MealService struct {
	store repositories.Store
}

func NewMealService(store repositories.Store) *MealService {
	return &MealService{store: store}
}

type UpdateMealInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Ingredients *string `json:"ingredients"`
}

func validateEntityName(name, entity string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return NewValidationError("%s name must be at least 2 characters long", entity)
	}
	return nil
}

func (s *MealService) CreateMeal(ctx context.Context, userID uint, name, description, ingredients string) (*models.Meal, error) {
	if err := validateEntityName(name, "meal"); err != nil {
		return nil, err
	}

	meal := &models.Meal{
		Name:        name,
		Description: description,
		Ingredients: ingredients,
		AllergyRisk: 0.0,
		UserID:      userID,
	}
	if err := s.store.Meals().CreateMeal(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *MealService) GetMeal(ctx context.Context, mealID, userID uint) (*models.Meal, error) {
	meal, err := s.store.Meals().GetMealByID(ctx, mealID, userID)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, ErrNotFound
	}
	return meal, nil
}

func (s *MealService) ListMeals(ctx context.Context, userID uint) ([]models.Meal, error) {
	return s.store.Meals().ListMealsByUser(ctx, userID)
}

// UpdateMeal applies name, description and ingredients only. The risk
// score is not part of the update vocabulary; anything else in the
// payload is dropped before it gets here.
func (s *MealService) UpdateMeal(ctx context.Context, mealID, userID uint, input UpdateMealInput) (*models.Meal, error) {
	meal, err := s.store.Meals().GetMealByID(ctx, mealID, userID)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, ErrNotFound
	}

	if input.Name != nil {
		if err := validateEntityName(*input.Name, "meal"); err != nil {
			return nil, err
		}
		meal.Name = *input.Name
	}
	if input.Description != nil {
		meal.Description = *input.Description
	}
	if input.Ingredients != nil {
		meal.Ingredients = *input.Ingredients
	}

	if err := s.store.Meals().SaveMeal(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// DeleteMeal removes the meal and all of its allergy rows in one
// transaction; child rows go first.
func (s *MealService) DeleteMeal(ctx context.Context, mealID, userID uint) error {
	return s.store.Transaction(ctx, func(st repositories.Store) error {
		meal, err := st.Meals().GetMealByID(ctx, mealID, userID)
		if err != nil {
			return err
		}
		if meal == nil {
			return ErrNotFound
		}
		if err := st.Allergies().DeleteAllergiesByMeal(ctx, meal.ID); err != nil {
			return err
		}
		return st.Meals().DeleteMeal(ctx, meal.ID, userID)
	})
}

// ListHighRisk returns meals at or above the threshold across all owners.
func (s *MealService) ListHighRisk(ctx context.Context, threshold float64) ([]models.Meal, error) {
	return s.store.Meals().ListHighRisk(ctx, threshold)
}

// ListMealsWithMostAllergies returns every meal with its allergy count,
// ordered by count descending. Global, not owner-scoped.
func (s *MealService) ListMealsWithMostAllergies(ctx context.Context) ([]repositories.MealAllergyCount, error) {
	return s.store.Meals().ListWithAllergyCounts(ctx)
}
