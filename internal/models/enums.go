package models

import "fmt"

// Role identifies what a user account is allowed to do. The set is closed:
// anything outside the three constants is rejected at the parse boundary.
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known constants.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// VerificationStatus tracks the admin review state of a user account.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationUnverified, VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// ParseVerificationStatus converts a string into a VerificationStatus.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	v := VerificationStatus(s)
	if !v.Valid() {
		return "", fmt.Errorf("invalid verification status %q", s)
	}
	return v, nil
}

// ResourceCategory classifies what kind of support a resource offers.
type ResourceCategory string

const (
	CategoryFood           ResourceCategory = "food"
	CategoryHousing        ResourceCategory = "housing"
	CategoryHealthcare     ResourceCategory = "healthcare"
	CategoryEducation      ResourceCategory = "education"
	CategoryEmployment     ResourceCategory = "employment"
	CategoryFinancial      ResourceCategory = "financial"
	CategoryLegal          ResourceCategory = "legal"
	CategoryChildcare      ResourceCategory = "childcare"
	CategoryTransportation ResourceCategory = "transportation"
	CategoryClothing       ResourceCategory = "clothing"
	CategoryMentalHealth   ResourceCategory = "mental_health"
	CategoryOther          ResourceCategory = "other"
)

func (c ResourceCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryHousing, CategoryHealthcare, CategoryEducation,
		CategoryEmployment, CategoryFinancial, CategoryLegal, CategoryChildcare,
		CategoryTransportation, CategoryClothing, CategoryMentalHealth, CategoryOther:
		return true
	}
	return false
}

// ParseResourceCategory converts a string into a ResourceCategory.
func ParseResourceCategory(s string) (ResourceCategory, error) {
	c := ResourceCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid resource category %q", s)
	}
	return c, nil
}

// ResourceStatus tracks a resource through its publication lifecycle.
type ResourceStatus string

const (
	ResourceStatusDraft    ResourceStatus = "draft"
	ResourceStatusPending  ResourceStatus = "pending"
	ResourceStatusActive   ResourceStatus = "active"
	ResourceStatusExpired  ResourceStatus = "expired"
	ResourceStatusInactive ResourceStatus = "inactive"
)

func (s ResourceStatus) Valid() bool {
	switch s {
	case ResourceStatusDraft, ResourceStatusPending, ResourceStatusActive,
		ResourceStatusExpired, ResourceStatusInactive:
		return true
	}
	return false
}

// ParseResourceStatus converts a string into a ResourceStatus.
func ParseResourceStatus(s string) (ResourceStatus, error) {
	st := ResourceStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid resource status %q", s)
	}
	return st, nil
}

// ApplicationStatus tracks an application from draft through decision.
type ApplicationStatus string

const (
	ApplicationStatusDraft       ApplicationStatus = "draft"
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusPending     ApplicationStatus = "pending" // kept for older seed data
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWaitlisted  ApplicationStatus = "waitlisted"
	ApplicationStatusExpired     ApplicationStatus = "expired"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusDraft, ApplicationStatusSubmitted, ApplicationStatusPending,
		ApplicationStatusUnderReview, ApplicationStatusApproved, ApplicationStatusRejected,
		ApplicationStatusWaitlisted, ApplicationStatusExpired, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// ParseApplicationStatus converts a string into an ApplicationStatus.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid application status %q", s)
	}
	return st, nil
}

// NeedLevel grades how urgent an applicant's situation is.
type NeedLevel string

const (
	NeedLevelLow      NeedLevel = "low"
	NeedLevelMedium   NeedLevel = "medium"
	NeedLevelHigh     NeedLevel = "high"
	NeedLevelCritical NeedLevel = "critical"
)

func (n NeedLevel) Valid() bool {
	switch n {
	case NeedLevelLow, NeedLevelMedium, NeedLevelHigh, NeedLevelCritical:
		return true
	}
	return false
}

// ParseNeedLevel converts a string into a NeedLevel.
func ParseNeedLevel(s string) (NeedLevel, error) {
	n := NeedLevel(s)
	if !n.Valid() {
		return "", fmt.Errorf("invalid need level %q", s)
	}
	return n, nil
}

// EducationLevel is the highest education a profile reports.
type EducationLevel string

const (
	EducationNone       EducationLevel = "none"
	EducationPrimary    EducationLevel = "primary"
	EducationSecondary  EducationLevel = "secondary"
	EducationTertiary   EducationLevel = "tertiary"
	EducationVocational EducationLevel = "vocational"
	EducationGraduate   EducationLevel = "graduate"
)

func (e EducationLevel) Valid() bool {
	switch e {
	case EducationNone, EducationPrimary, EducationSecondary,
		EducationTertiary, EducationVocational, EducationGraduate:
		return true
	}
	return false
}

// ParseEducationLevel converts a string into an EducationLevel.
func ParseEducationLevel(s string) (EducationLevel, error) {
	e := EducationLevel(s)
	if !e.Valid() {
		return "", fmt.Errorf("invalid education level %q", s)
	}
	return e, nil
}

// EmploymentStatus is the work situation a profile reports.
type EmploymentStatus string

const (
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentFullTime     EmploymentStatus = "employed_full_time"
	EmploymentPartTime     EmploymentStatus = "employed_part_time"
	EmploymentSelfEmployed EmploymentStatus = "self_employed"
	EmploymentStudent      EmploymentStatus = "student"
	EmploymentRetired      EmploymentStatus = "retired"
	EmploymentUnableToWork EmploymentStatus = "unable_to_work"
)

func (e EmploymentStatus) Valid() bool {
	switch e {
	case EmploymentUnemployed, EmploymentFullTime, EmploymentPartTime,
		EmploymentSelfEmployed, EmploymentStudent, EmploymentRetired, EmploymentUnableToWork:
		return true
	}
	return false
}

// ParseEmploymentStatus converts a string into an EmploymentStatus.
func ParseEmploymentStatus(s string) (EmploymentStatus, error) {
	e := EmploymentStatus(s)
	if !e.Valid() {
		return "", fmt.Errorf("invalid employment status %q", s)
	}
	return e, nil
}

// RegionType is the administrative level of a geographic region.
type RegionType string

const (
	RegionCountry      RegionType = "country"
	RegionState        RegionType = "state"
	RegionCounty       RegionType = "county"
	RegionCity         RegionType = "city"
	RegionDistrict     RegionType = "district"
	RegionNeighborhood RegionType = "neighborhood"
)

func (r RegionType) Valid() bool {
	switch r {
	case RegionCountry, RegionState, RegionCounty, RegionCity, RegionDistrict, RegionNeighborhood:
		return true
	}
	return false
}

// ParseRegionType converts a string into a RegionType.
func ParseRegionType(s string) (RegionType, error) {
	r := RegionType(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid region type %q", s)
	}
	return r, nil
}
