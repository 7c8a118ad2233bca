package models

import (
	"time"

	"gorm.io/gorm"
)

// Meal is a user-owned dish. AllergyRisk is derived from the number of
// attached allergies and is never accepted from request payloads.
type Meal struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Ingredients string  `gorm:"type:text" json:"ingredients"`
	AllergyRisk float64 `gorm:"not null;default:0" json:"allergy_risk"`

	UserID uint `gorm:"not null;index" json:"user_id"`

	Allergies []Allergy `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"allergies,omitempty"`
}

func (Meal) TableName() string {
	return "meals"
}
