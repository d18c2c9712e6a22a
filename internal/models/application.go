package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActiveApplicationStatuses are the states in which an application still
// occupies a slot: a user cannot apply to the same resource again while an
// application in one of these states exists.
var ActiveApplicationStatuses = []ApplicationStatus{
	ApplicationStatusDraft,
	ApplicationStatusSubmitted,
	ApplicationStatusUnderReview,
	ApplicationStatusApproved,
	ApplicationStatusWaitlisted,
}

// ResourceApplication connects a user to a resource they applied for and
// tracks the application through review.
type ResourceApplication struct {
	BaseModel
	UserID     string `json:"user_id" gorm:"type:varchar(26);not null;index"`
	ResourceID string `json:"resource_id" gorm:"type:varchar(26);not null;index"`

	// Application status and data
	Status          ApplicationStatus `json:"status" gorm:"type:varchar(16);not null;default:draft;index"`
	NeedLevel       NeedLevel         `json:"need_level" gorm:"type:varchar(8);default:medium"`
	Reason          string            `json:"reason" gorm:"type:text"`
	Documents       datatypes.JSON    `json:"documents"`
	ApplicationData datatypes.JSON    `json:"application_data"`
	Notes           string            `json:"notes" gorm:"type:text"`
	AdminNotes      string            `json:"admin_notes" gorm:"type:text"`

	// Review information
	SubmittedAt    *time.Time `json:"submitted_at"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	ReviewedBy     string     `json:"reviewed_by,omitempty" gorm:"type:varchar(26)"`
	DecisionReason string     `json:"decision_reason" gorm:"type:text"`

	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Resource *Resource `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`
}

// Submit moves the application out of draft and stamps the submission time.
func (a *ResourceApplication) Submit(now time.Time) {
	a.Status = ApplicationStatusSubmitted
	a.SubmittedAt = &now
}

// Review records an admin decision. Empty reason or notes leave the stored
// values untouched.
func (a *ResourceApplication) Review(reviewerID string, status ApplicationStatus, reason, adminNotes string, now time.Time) {
	a.Status = status
	a.ReviewedAt = &now
	a.ReviewedBy = reviewerID

	if reason != "" {
		a.DecisionReason = reason
	}
	if adminNotes != "" {
		a.AdminNotes = adminNotes
	}
}
