package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"backend/models"
)

type AllergyRepository interface {
	CreateAllergy(ctx context.Context, allergy *models.Allergy) error
	GetAllergyByID(ctx context.Context, allergyID, userID uint) (*models.Allergy, error)
	ListAllergiesByUser(ctx context.Context, userID uint) ([]models.Allergy, error)
	SaveAllergy(ctx context.Context, allergy *models.Allergy) error
	DeleteAllergy(ctx context.Context, allergyID, userID uint) error
	DeleteAllergiesByMeal(ctx context.Context, mealID uint) error
	CountByMeal(ctx context.Context, mealID uint) (int64, error)
	UsersWithAllergies(ctx context.Context) ([]UserAllergyCount, error)
	MealsCausingAllergies(ctx context.Context) ([]MealAllergyCount, error)
}

type allergyRepository struct {
	db *gorm.DB
}

func NewAllergyRepository(db *gorm.DB) AllergyRepository {
	return &allergyRepository{db: db}
}

func (r *allergyRepository) CreateAllergy(ctx context.Context, allergy *models.Allergy) error {
	return r.db.WithContext(ctx).Create(allergy).Error
}

func (r *allergyRepository) GetAllergyByID(ctx context.Context, allergyID, userID uint) (*models.Allergy, error) {
	var a models.Allergy
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", allergyID, userID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *allergyRepository) ListAllergiesByUser(ctx context.Context, userID uint) ([]models.Allergy, error) {
	var allergies []models.Allergy
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&allergies).Error
	return allergies, err
}

func (r *allergyRepository) SaveAllergy(ctx context.Context, allergy *models.Allergy) error {
	return r.db.WithContext(ctx).Save(allergy).Error
}

func (r *allergyRepository) DeleteAllergy(ctx context.Context, allergyID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", allergyID, userID).
		Delete(&models.Allergy{}).Error
}

func (r *allergyRepository) DeleteAllergiesByMeal(ctx context.Context, mealID uint) error {
	return r.db.WithContext(ctx).
		Where("meal_id = ?", mealID).
		Delete(&models.Allergy{}).Error
}

func (r *allergyRepository) CountByMeal(ctx context.Context, mealID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Allergy{}).
		Where("meal_id = ?", mealID).
		Count(&count).Error
	return count, err
}

type userCountRow struct {
	UserID       uint
	AllergyCount int64
}

func (r *allergyRepository) UsersWithAllergies(ctx context.Context) ([]UserAllergyCount, error) {
	var rows []userCountRow
	err := r.db.WithContext(ctx).
		Table("allergies").
		Select("allergies.user_id AS user_id, count(allergies.id) AS allergy_count").
		Where("allergies.deleted_at IS NULL").
		Group("allergies.user_id").
		Order("allergy_count DESC, user_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []UserAllergyCount{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]UserAllergyCount, 0, len(rows))
	for _, row := range rows {
		user, ok := byID[row.UserID]
		if !ok {
			continue
		}
		out = append(out, UserAllergyCount{User: user, AllergyCount: row.AllergyCount})
	}
	return out, nil
}

func (r *allergyRepository) MealsCausingAllergies(ctx context.Context) ([]MealAllergyCount, error) {
	var rows []mealCountRow
	err := r.db.WithContext(ctx).
		Table("allergies").
		Select("allergies.meal_id AS meal_id, count(allergies.id) AS allergy_count").
		Where("allergies.deleted_at IS NULL").
		Group("allergies.meal_id").
		Order("allergy_count DESC, meal_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return (&mealRepository{db: r.db}).attachMeals(ctx, rows)
}
