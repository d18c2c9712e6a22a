package models

import "time"

// User represents an account that can authenticate against the API
type User struct {
	BaseModel
	Username           string             `json:"username" gorm:"type:varchar(80);unique;not null"`
	Email              string             `json:"email" gorm:"type:varchar(120);unique;not null"`
	PasswordHash       string             `json:"-" gorm:"type:varchar(128);not null"`
	Role               Role               `json:"role" gorm:"type:varchar(16);not null;default:user"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"type:varchar(16);not null;default:unverified"`
	IsActive           bool               `json:"is_active" gorm:"not null;default:true"`
	UpdatedAt          time.Time          `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Profile      *Profile              `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Applications []ResourceApplication `json:"applications,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
