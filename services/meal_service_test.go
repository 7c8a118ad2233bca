package services_test

import (
	"context"
	"errors"
	"testing"

	"backend/services"
	"backend/testutil"
)

func newMealFixture(t *testing.T) (*services.MealService, *services.AllergyService, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	return services.NewMealService(store), services.NewAllergyService(store, nil), store
}

func TestCreateMealStartsAtZeroRisk(t *testing.T) {
	meals, _, _ := newMealFixture(t)

	meal, err := meals.CreateMeal(context.Background(), 1, "Pad Thai", "noodles", "rice noodles, peanuts")
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if meal.AllergyRisk != 0.0 {
		t.Errorf("new meal risk = %v, want 0.0", meal.AllergyRisk)
	}
	if meal.ID == 0 {
		t.Error("expected assigned meal id")
	}
}

func TestCreateMealRejectsShortName(t *testing.T) {
	meals, _, _ := newMealFixture(t)

	_, err := meals.CreateMeal(context.Background(), 1, "x", "", "")
	if !services.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	listed, err := meals.ListMeals(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListMeals: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("expected no meals persisted, got %d", len(listed))
	}
}

func TestGetMealHidesForeignMeals(t *testing.T) {
	meals, _, _ := newMealFixture(t)

	meal, err := meals.CreateMeal(context.Background(), 1, "Omelette", "", "")
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}

	// Owner sees it, anyone else gets the same not-found as for an
	// absent id.
	if _, err := meals.GetMeal(context.Background(), meal.ID, 1); err != nil {
		t.Fatalf("owner GetMeal: %v", err)
	}
	if _, err := meals.GetMeal(context.Background(), meal.ID, 2); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("foreign GetMeal err = %v, want ErrNotFound", err)
	}
	if _, err := meals.GetMeal(context.Background(), 9999, 1); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("absent GetMeal err = %v, want ErrNotFound", err)
	}
}

func TestUpdateMealDoesNotTouchRisk(t *testing.T) {
	meals, allergies, _ := newMealFixture(t)
	ctx := context.Background()

	meal, err := meals.CreateMeal(ctx, 1, "Satay", "", "chicken, peanut sauce")
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if _, err := allergies.CreateAllergy(ctx, 1, meal.ID, "peanut", ""); err != nil {
		t.Fatalf("CreateAllergy: %v", err)
	}

	desc := "grilled skewers"
	updated, err := meals.UpdateMeal(ctx, meal.ID, 1, services.UpdateMealInput{Description: &desc})
	if err != nil {
		t.Fatalf("UpdateMeal: %v", err)
	}
	if updated.Description != desc {
		t.Errorf("description = %q, want %q", updated.Description, desc)
	}
	if updated.AllergyRisk != 0.1 {
		t.Errorf("risk after description update = %v, want 0.1", updated.AllergyRisk)
	}
}

func TestUpdateMealNotOwned(t *testing.T) {
	meals, _, _ := newMealFixture(t)

	meal, err := meals.CreateMeal(context.Background(), 1, "Ramen", "", "")
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}

	name := "Tonkotsu"
	_, err = meals.UpdateMeal(context.Background(), meal.ID, 2, services.UpdateMealInput{Name: &name})
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMealCascadesAllergies(t *testing.T) {
	meals, allergies, _ := newMealFixture(t)
	ctx := context.Background()

	meal, err := meals.CreateMeal(ctx, 1, "Pesto Pasta", "", "basil, pine nuts")
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if _, err := allergies.CreateAllergy(ctx, 1, meal.ID, "pine nut", ""); err != nil {
		t.Fatalf("CreateAllergy: %v", err)
	}
	if _, err := allergies.CreateAllergy(ctx, 1, meal.ID, "dairy", "severe"); err != nil {
		t.Fatalf("CreateAllergy: %v", err)
	}

	if err := meals.DeleteMeal(ctx, meal.ID, 1); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}

	if _, err := meals.GetMeal(ctx, meal.ID, 1); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("deleted meal err = %v, want ErrNotFound", err)
	}
	left, err := allergies.ListAllergies(ctx, 1)
	if err != nil {
		t.Fatalf("ListAllergies: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("expected cascaded allergy delete, %d rows left", len(left))
	}

	// Deleting again reports the same not-found.
	if err := meals.DeleteMeal(ctx, meal.ID, 1); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListHighRiskIsGlobal(t *testing.T) {
	meals, allergies, _ := newMealFixture(t)
	ctx := context.Background()

	low, err := meals.CreateMeal(ctx, 1, "Salad", "", "")
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if _, err := allergies.CreateAllergy(ctx, 1, low.ID, "celery", ""); err != nil {
		t.Fatalf("CreateAllergy: %v", err)
	}

	// Meal owned by a second user, above the threshold.
	high, err := meals.CreateMeal(ctx, 2, "Trail Mix", "", "nuts")
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	for _, name := range []string{"peanut", "almond", "cashew"} {
		if _, err := allergies.CreateAllergy(ctx, 2, high.ID, name, ""); err != nil {
			t.Fatalf("CreateAllergy: %v", err)
		}
	}

	got, err := meals.ListHighRisk(ctx, 0.2)
	if err != nil {
		t.Fatalf("ListHighRisk: %v", err)
	}
	if len(got) != 1 || got[0].ID != high.ID {
		t.Fatalf("ListHighRisk = %+v, want only meal %d", got, high.ID)
	}
	if got[0].AllergyRisk != 0.3 {
		t.Errorf("high-risk meal risk = %v, want 0.3", got[0].AllergyRisk)
	}
}

func TestListMealsWithMostAllergiesIncludesZeroCounts(t *testing.T) {
	meals, allergies, _ := newMealFixture(t)
	ctx := context.Background()

	plain, err := meals.CreateMeal(ctx, 1, "Rice", "", "")
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	risky, err := meals.CreateMeal(ctx, 1, "Shrimp Pad Thai", "", "")
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	for _, name := range []string{"shrimp", "peanut"} {
		if _, err := allergies.CreateAllergy(ctx, 1, risky.ID, name, ""); err != nil {
			t.Fatalf("CreateAllergy: %v", err)
		}
	}

	counts, err := meals.ListMealsWithMostAllergies(ctx)
	if err != nil {
		t.Fatalf("ListMealsWithMostAllergies: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("got %d rows, want 2", len(counts))
	}
	if counts[0].Meal.ID != risky.ID || counts[0].AllergyCount != 2 {
		t.Errorf("first row = meal %d count %d, want meal %d count 2", counts[0].Meal.ID, counts[0].AllergyCount, risky.ID)
	}
	if counts[1].Meal.ID != plain.ID || counts[1].AllergyCount != 0 {
		t.Errorf("second row = meal %d count %d, want meal %d count 0", counts[1].Meal.ID, counts[1].AllergyCount, plain.ID)
	}
}
