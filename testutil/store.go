// Package testutil provides an in-memory repositories.Store used by the
// service and router tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"backend/models"
	"backend/repositories"
)

// Store keeps all rows in maps guarded by one mutex. Transaction runs
// fn against the store directly; rollback behavior is the real store's
// concern, tests only exercise sequences that either fully succeed or
// fail before the first write.
type Store struct {
	mu            sync.Mutex
	nextUserID    uint
	nextMealID    uint
	nextAllergyID uint
	users         map[uint]models.User
	meals         map[uint]models.Meal
	allergies     map[uint]models.Allergy
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uint]models.User),
		meals:     make(map[uint]models.Meal),
		allergies: make(map[uint]models.Allergy),
	}
}

func (s *Store) Users() repositories.UserRepository        { return s }
func (s *Store) Meals() repositories.MealRepository        { return s }
func (s *Store) Allergies() repositories.AllergyRepository { return s }

func (s *Store) Transaction(ctx context.Context, fn func(repositories.Store) error) error {
	return fn(s)
}

// ----- users -----

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

// ----- meals -----

func (s *Store) CreateMeal(ctx context.Context, meal *models.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMealID++
	meal.ID = s.nextMealID
	meal.CreatedAt = time.Now()
	meal.UpdatedAt = meal.CreatedAt
	s.meals[meal.ID] = *meal
	return nil
}

func (s *Store) GetMealByID(ctx context.Context, mealID, userID uint) (*models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meal, ok := s.meals[mealID]
	if !ok || meal.UserID != userID {
		return nil, nil
	}
	cp := meal
	cp.Allergies = s.allergiesOfMeal(mealID)
	return &cp, nil
}

func (s *Store) ListMealsByUser(ctx context.Context, userID uint) ([]models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var meals []models.Meal
	for _, m := range s.meals {
		if m.UserID == userID {
			cp := m
			cp.Allergies = s.allergiesOfMeal(m.ID)
			meals = append(meals, cp)
		}
	}
	sort.Slice(meals, func(i, j int) bool { return meals[i].ID > meals[j].ID })
	return meals, nil
}

func (s *Store) SaveMeal(ctx context.Context, meal *models.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meal.UpdatedAt = time.Now()
	stored := *meal
	stored.Allergies = nil
	s.meals[meal.ID] = stored
	return nil
}

func (s *Store) UpdateAllergyRisk(ctx context.Context, mealID uint, risk float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if meal, ok := s.meals[mealID]; ok {
		meal.AllergyRisk = risk
		meal.UpdatedAt = time.Now()
		s.meals[mealID] = meal
	}
	return nil
}

func (s *Store) DeleteMeal(ctx context.Context, mealID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if meal, ok := s.meals[mealID]; ok && meal.UserID == userID {
		delete(s.meals, mealID)
	}
	return nil
}

func (s *Store) ListHighRisk(ctx context.Context, threshold float64) ([]models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var meals []models.Meal
	for _, m := range s.meals {
		if m.AllergyRisk >= threshold {
			meals = append(meals, m)
		}
	}
	sort.Slice(meals, func(i, j int) bool {
		if meals[i].AllergyRisk != meals[j].AllergyRisk {
			return meals[i].AllergyRisk > meals[j].AllergyRisk
		}
		return meals[i].ID < meals[j].ID
	})
	return meals, nil
}

func (s *Store) ListWithAllergyCounts(ctx context.Context) ([]repositories.MealAllergyCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repositories.MealAllergyCount, 0, len(s.meals))
	for _, m := range s.meals {
		out = append(out, repositories.MealAllergyCount{
			Meal:         m,
			AllergyCount: int64(len(s.allergiesOfMeal(m.ID))),
		})
	}
	sortMealCounts(out)
	return out, nil
}

// ----- allergies -----

func (s *Store) CreateAllergy(ctx context.Context, allergy *models.Allergy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAllergyID++
	allergy.ID = s.nextAllergyID
	allergy.CreatedAt = time.Now()
	allergy.UpdatedAt = allergy.CreatedAt
	s.allergies[allergy.ID] = *allergy
	return nil
}

func (s *Store) GetAllergyByID(ctx context.Context, allergyID, userID uint) (*models.Allergy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.allergies[allergyID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	cp := a
	return &cp, nil
}

func (s *Store) ListAllergiesByUser(ctx context.Context, userID uint) ([]models.Allergy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var allergies []models.Allergy
	for _, a := range s.allergies {
		if a.UserID == userID {
			allergies = append(allergies, a)
		}
	}
	sort.Slice(allergies, func(i, j int) bool { return allergies[i].ID > allergies[j].ID })
	return allergies, nil
}

func (s *Store) SaveAllergy(ctx context.Context, allergy *models.Allergy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	allergy.UpdatedAt = time.Now()
	s.allergies[allergy.ID] = *allergy
	return nil
}

func (s *Store) DeleteAllergy(ctx context.Context, allergyID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.allergies[allergyID]; ok && a.UserID == userID {
		delete(s.allergies, allergyID)
	}
	return nil
}

func (s *Store) DeleteAllergiesByMeal(ctx context.Context, mealID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.allergies {
		if a.MealID == mealID {
			delete(s.allergies, id)
		}
	}
	return nil
}

func (s *Store) CountByMeal(ctx context.Context, mealID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.allergiesOfMeal(mealID))), nil
}

func (s *Store) UsersWithAllergies(ctx context.Context) ([]repositories.UserAllergyCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[uint]int64)
	for _, a := range s.allergies {
		counts[a.UserID]++
	}
	out := make([]repositories.UserAllergyCount, 0, len(counts))
	for userID, n := range counts {
		if user, ok := s.users[userID]; ok {
			out = append(out, repositories.UserAllergyCount{User: user, AllergyCount: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AllergyCount != out[j].AllergyCount {
			return out[i].AllergyCount > out[j].AllergyCount
		}
		return out[i].User.ID < out[j].User.ID
	})
	return out, nil
}

func (s *Store) MealsCausingAllergies(ctx context.Context) ([]repositories.MealAllergyCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[uint]int64)
	for _, a := range s.allergies {
		counts[a.MealID]++
	}
	out := make([]repositories.MealAllergyCount, 0, len(counts))
	for mealID, n := range counts {
		if meal, ok := s.meals[mealID]; ok {
			out = append(out, repositories.MealAllergyCount{Meal: meal, AllergyCount: n})
		}
	}
	sortMealCounts(out)
	return out, nil
}

func (s *Store) allergiesOfMeal(mealID uint) []models.Allergy {
	var allergies []models.Allergy
	for _, a := range s.allergies {
		if a.MealID == mealID {
			allergies = append(allergies, a)
		}
	}
	sort.Slice(allergies, func(i, j int) bool { return allergies[i].ID < allergies[j].ID })
	return allergies
}

func sortMealCounts(counts []repositories.MealAllergyCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].AllergyCount != counts[j].AllergyCount {
			return counts[i].AllergyCount > counts[j].AllergyCount
		}
		return counts[i].Meal.ID < counts[j].Meal.ID
	})
}
