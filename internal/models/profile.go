package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile holds the detailed information a user shares to match them with
// resources: personal details, location, education, employment, health,
// finances and declared needs. One profile per user.
type Profile struct {
	BaseModel
	UserID string `json:"user_id" gorm:"type:varchar(26);not null;uniqueIndex"`

	// Personal information
	FirstName   string     `json:"first_name" gorm:"type:varchar(100)"`
	LastName    string     `json:"last_name" gorm:"type:varchar(100)"`
	DateOfBirth *time.Time `json:"date_of_birth" gorm:"type:date"`
	Gender      string     `json:"gender" gorm:"type:varchar(50)"`
	PhoneNumber string     `json:"phone_number" gorm:"type:varchar(20)"`

	// Location information
	Address             datatypes.JSON `json:"address"`
	LocationCoordinates datatypes.JSON `json:"location_coordinates"`

	// Education information
	EducationLevel   EducationLevel `json:"education_level" gorm:"type:varchar(16);default:none"`
	EducationHistory datatypes.JSON `json:"education_history"`

	// Employment information
	EmploymentStatus  EmploymentStatus `json:"employment_status" gorm:"type:varchar(32);default:unemployed"`
	EmploymentHistory datatypes.JSON   `json:"employment_history"`
	Skills            datatypes.JSON   `json:"skills"`

	// Health information
	HealthInformation datatypes.JSON `json:"health_information"`

	// Financial information
	IncomeLevel   float64 `json:"income_level" gorm:"not null;default:0"`
	HouseholdSize int     `json:"household_size" gorm:"not null;default:1"`
	Dependents    int     `json:"dependents" gorm:"not null;default:0"`

	// Needs and preferences
	Needs datatypes.JSON `json:"needs"`

	// Profile metadata
	CompletionPercentage int            `json:"completion_percentage" gorm:"not null;default:0"`
	PrivacySettings      datatypes.JSON `json:"privacy_settings"`
	UpdatedAt            time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// CalculateCompletion recomputes the completion percentage from the tracked
// profile fields and stores it on the profile. Percentage is truncated, so
// 7 of 8 fields reads as 87.
func (p *Profile) CalculateCompletion() int {
	tracked := []bool{
		p.FirstName != "",
		p.LastName != "",
		p.DateOfBirth != nil,
		p.Gender != "",
		p.PhoneNumber != "",
		len(p.Address) > 0,
		p.EducationLevel != "",
		p.EmploymentStatus != "",
	}

	filled := 0
	for _, ok := range tracked {
		if ok {
			filled++
		}
	}

	p.CompletionPercentage = filled * 100 / len(tracked)
	return p.CompletionPercentage
}
