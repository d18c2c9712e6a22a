package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// Profile represents a user profile as the API returns it
type Profile struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	FirstName            string          `json:"first_name"`
	LastName             string          `json:"last_name"`
	DateOfBirth          *string         `json:"date_of_birth"`
	Gender               string          `json:"gender"`
	PhoneNumber          string          `json:"phone_number"`
	Address              json.RawMessage `json:"address,omitempty"`
	EducationLevel       string          `json:"education_level"`
	EmploymentStatus     string          `json:"employment_status"`
	Skills               json.RawMessage `json:"skills,omitempty"`
	IncomeLevel          float64         `json:"income_level"`
	HouseholdSize        int             `json:"household_size"`
	Dependents           int             `json:"dependents"`
	Needs                json.RawMessage `json:"needs,omitempty"`
	CompletionPercentage int             `json:"completion_percentage"`
}

// ProfileRequest carries profile fields for create and update. Zero-value
// fields are omitted so updates stay partial.
type ProfileRequest struct {
	FirstName        string  `json:"first_name,omitempty"`
	LastName         string  `json:"last_name,omitempty"`
	DateOfBirth      string  `json:"date_of_birth,omitempty"`
	Gender           string  `json:"gender,omitempty"`
	PhoneNumber      string  `json:"phone_number,omitempty"`
	EducationLevel   string  `json:"education_level,omitempty"`
	EmploymentStatus string  `json:"employment_status,omitempty"`
	IncomeLevel      float64 `json:"income_level,omitempty"`
	HouseholdSize    int     `json:"household_size,omitempty"`
	Dependents       int     `json:"dependents,omitempty"`
}

type profileEnvelope struct {
	Message string   `json:"message"`
	Profile *Profile `json:"profile"`
}

// CreateProfile creates the authenticated user's profile
func (c *Client) CreateProfile(ctx context.Context, req ProfileRequest) (*Profile, error) {
	var resp profileEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/profiles", req, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

// GetMyProfile fetches the authenticated user's profile
func (c *Client) GetMyProfile(ctx context.Context) (*Profile, error) {
	var resp profileEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/profiles/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

// UpdateMyProfile applies a partial update to the authenticated user's
// profile and returns the updated record
func (c *Client) UpdateMyProfile(ctx context.Context, req ProfileRequest) (*Profile, error) {
	var resp profileEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/profiles/me", req, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}
