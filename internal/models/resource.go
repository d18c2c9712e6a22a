package models

import (
	"time"

	"gorm.io/datatypes"
)

// Resource represents a support service offered by a provider: food programs,
// housing assistance, job training and so on. Resources go through a review
// lifecycle (draft/pending/active) before they are publicly visible.
type Resource struct {
	BaseModel
	Title       string           `json:"title" gorm:"type:varchar(200);not null"`
	Description string           `json:"description" gorm:"type:text;not null"`
	Category    ResourceCategory `json:"category" gorm:"type:varchar(20);not null;index"`

	// Provider information
	ProviderID      string         `json:"provider_id" gorm:"type:varchar(26);index"`
	ProviderName    string         `json:"provider_name" gorm:"type:varchar(200);not null"`
	ProviderContact datatypes.JSON `json:"provider_contact"`

	// Location and availability
	Location            datatypes.JSON `json:"location"`
	EligibilityCriteria datatypes.JSON `json:"eligibility_criteria"`
	ApplicationProcess  string         `json:"application_process" gorm:"type:text"`
	RequiredDocuments   datatypes.JSON `json:"required_documents"`
	Capacity            int            `json:"capacity"`
	Availability        datatypes.JSON `json:"availability"`
	StartDate           *time.Time     `json:"start_date" gorm:"type:date"`
	EndDate             *time.Time     `json:"end_date" gorm:"type:date"`

	// Status and verification
	Status           ResourceStatus `json:"status" gorm:"type:varchar(16);not null;default:draft;index"`
	VerificationDate *time.Time     `json:"verification_date"`
	VerifiedBy       string         `json:"verified_by,omitempty" gorm:"type:varchar(26)"`

	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Provider     *User                 `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Applications []ResourceApplication `json:"applications,omitempty" gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE"`
}

// IsCurrentlyActive reports whether the resource is publicly visible right
// now: status active and the date falls inside the optional start/end window.
// Comparison is at day granularity, so a resource stays active through the
// whole of its end date.
func (r *Resource) IsCurrentlyActive(now time.Time) bool {
	if r.Status != ResourceStatusActive {
		return false
	}

	today := now.UTC().Truncate(24 * time.Hour)
	if r.StartDate != nil && r.StartDate.After(today) {
		return false
	}
	if r.EndDate != nil && r.EndDate.Before(today) {
		return false
	}
	return true
}
