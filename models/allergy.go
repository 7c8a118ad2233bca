package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Severity vocabulary, stored lower-case.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

type Allergy struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Severity string `gorm:"size:20;not null;default:mild" json:"severity"`

	// UserID always equals the owning meal's UserID; enforced at creation
	// by the owner-scoped meal lookup, not by a database constraint.
	UserID uint `gorm:"not null;index" json:"user_id"`
	MealID uint `gorm:"not null;index" json:"meal_id"`
}

func (Allergy) TableName() string {
	return "allergies"
}

// NormalizeSeverity lower-cases s and reports whether it is part of the
// accepted vocabulary. An empty (or blank) input defaults to mild.
func NormalizeSeverity(s string) (string, bool) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "":
		return SeverityMild, true
	case SeverityMild, SeverityModerate, SeveritySevere:
		return v, true
	default:
		return "", false
	}
}
