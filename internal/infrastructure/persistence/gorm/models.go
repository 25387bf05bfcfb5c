// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// UserModel represents the GORM model for user profiles. Target columns are
// nullable on purpose: a row without them is a profile whose nutritional
// assessment has not completed yet.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(255);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`

	Sex       string  `gorm:"type:varchar(10)"`
	Age       int     `gorm:"default:0"`
	Weight    float64 `gorm:"default:0"`
	Height    float64 `gorm:"default:0"`
	Country   string  `gorm:"type:varchar(100)"`
	Objective string  `gorm:"type:varchar(50)"`

	Allergies           StringSlice `gorm:"type:json"`
	SportiveDescription StringSlice `gorm:"type:json"`
	MedicalConditions   StringSlice `gorm:"type:json"`
	FoodPreferences     StringSlice `gorm:"type:json"`

	RecommendedDailyCalories       *float64
	RecommendedWaterIntake         *float64
	RecommendedProteinIntake       *float64
	RecommendedFatsIntake          *float64
	RecommendedCarbohydratesIntake *float64
	NutritionalDeficiencyRisks     StringSlice `gorm:"type:json"`
	GeneralRecommendations         StringSlice `gorm:"type:json"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Menu *WeeklyMenuModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// WeeklyMenuModel represents the GORM model for weekly menus. One row per
// user; each day column holds the serialized meal list for that day so a
// revision can overwrite a single day without touching the rest.
type WeeklyMenuModel struct {
	UserID uuid.UUID `gorm:"type:char(36);primaryKey"`

	Day1 string `gorm:"type:text"`
	Day2 string `gorm:"type:text"`
	Day3 string `gorm:"type:text"`
	Day4 string `gorm:"type:text"`
	Day5 string `gorm:"type:text"`
	Day6 string `gorm:"type:text"`
	Day7 string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatHistoryModel represents the GORM model for revision chat turns. The
// autoincrement id doubles as the vector-index key, so insertion order is
// chronological order.
type ChatHistoryModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Day       int       `gorm:"not null;index"`
	Request   string    `gorm:"type:text;not null"`
	Notes     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`

	// Relationships
	User UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gormlib.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (WeeklyMenuModel) TableName() string {
	return "user_menus"
}

func (ChatHistoryModel) TableName() string {
	return "chat_history"
}
