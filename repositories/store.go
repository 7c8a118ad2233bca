package repositories

import (
	"context"

	"gorm.io/gorm"

	"backend/models"
)

// MealAllergyCount pairs a meal with the number of allergies recorded
// against it, for the reporting queries.
type MealAllergyCount struct {
	Meal         models.Meal `json:"meal"`
	AllergyCount int64       `json:"allergy_count"`
}

type UserAllergyCount struct {
	User         models.User `json:"user"`
	AllergyCount int64       `json:"allergy_count"`
}

// Store bundles the per-entity repositories behind a single handle that is
// passed explicitly into the services. Transaction runs fn against a
// store bound to one database transaction; any error rolls the whole
// sequence back.
type Store interface {
	Users() UserRepository
	Meals() MealRepository
	Allergies() AllergyRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db        *gorm.DB
	users     UserRepository
	meals     MealRepository
	allergies AllergyRepository
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:        db,
		users:     &userRepository{db: db},
		meals:     &mealRepository{db: db},
		allergies: &allergyRepository{db: db},
	}
}

func (s *gormStore) Users() UserRepository        { return s.users }
func (s *gormStore) Meals() MealRepository        { return s.meals }
func (s *gormStore) Allergies() AllergyRepository { return s.allergies }

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
