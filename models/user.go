package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	// Bcrypt hash, never serialized.
	Password string `gorm:"size:255;not null" json:"-"`

	Meals     []Meal    `gorm:"foreignKey:UserID" json:"meals,omitempty"`
	Allergies []Allergy `gorm:"foreignKey:UserID" json:"allergies,omitempty"`
}

func (User) TableName() string {
	return "users"
}
