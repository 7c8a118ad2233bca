package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backend/models"
)

type MealRepository interface {
	CreateMeal(ctx context.Context, meal *models.Meal) error
	// GetMealByID is owner-scoped: a meal belonging to another user is
	// indistinguishable from an absent one.
	GetMealByID(ctx context.Context, mealID, userID uint) (*models.Meal, error)
	ListMealsByUser(ctx context.Context, userID uint) ([]models.Meal, error)
	SaveMeal(ctx context.Context, meal *models.Meal) error
	UpdateAllergyRisk(ctx context.Context, mealID uint, risk float64) error
	DeleteMeal(ctx context.Context, mealID, userID uint) error
	ListHighRisk(ctx context.Context, threshold float64) ([]models.Meal, error)
	ListWithAllergyCounts(ctx context.Context) ([]MealAllergyCount, error)
}

type mealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) CreateMeal(ctx context.Context, meal *models.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

func (r *mealRepository) GetMealByID(ctx context.Context, mealID, userID uint) (*models.Meal, error) {
	var meal models.Meal
	err := r.db.WithContext(ctx).
		Preload("Allergies").
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meal, nil
}

func (r *mealRepository) ListMealsByUser(ctx context.Context, userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := r.db.WithContext(ctx).
		Preload("Allergies").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&meals).Error
	return meals, err
}

// SaveMeal writes the meal row only; the allergy association is owned
// by the allergy repository.
func (r *mealRepository) SaveMeal(ctx context.Context, meal *models.Meal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(meal).Error
}

func (r *mealRepository) UpdateAllergyRisk(ctx context.Context, mealID uint, risk float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Meal{}).
		Where("id = ?", mealID).
		Update("allergy_risk", risk).Error
}

func (r *mealRepository) DeleteMeal(ctx context.Context, mealID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mealID, userID).
		Delete(&models.Meal{}).Error
}

func (r *mealRepository) ListHighRisk(ctx context.Context, threshold float64) ([]models.Meal, error) {
	var meals []models.Meal
	err := r.db.WithContext(ctx).
		Where("allergy_risk >= ?", threshold).
		Order("allergy_risk DESC").
		Find(&meals).Error
	return meals, err
}

type mealCountRow struct {
	MealID       uint
	AllergyCount int64
}

func (r *mealRepository) ListWithAllergyCounts(ctx context.Context) ([]MealAllergyCount, error) {
	var rows []mealCountRow
	err := r.db.WithContext(ctx).
		Table("meals").
		Select("meals.id AS meal_id, count(allergies.id) AS allergy_count").
		Joins("LEFT JOIN allergies ON allergies.meal_id = meals.id AND allergies.deleted_at IS NULL").
		Where("meals.deleted_at IS NULL").
		Group("meals.id").
		Order("allergy_count DESC, meals.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.attachMeals(ctx, rows)
}

// attachMeals resolves the meal rows for a counted result set, keeping the
// order of the count query.
func (r *mealRepository) attachMeals(ctx context.Context, rows []mealCountRow) ([]MealAllergyCount, error) {
	if len(rows) == 0 {
		return []MealAllergyCount{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.MealID)
	}

	var meals []models.Meal
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&meals).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Meal, len(meals))
	for _, m := range meals {
		byID[m.ID] = m
	}

	out := make([]MealAllergyCount, 0, len(rows))
	for _, row := range rows {
		meal, ok := byID[row.MealID]
		if !ok {
			continue
		}
		out = append(out, MealAllergyCount{Meal: meal, AllergyCount: row.AllergyCount})
	}
	return out, nil
}
