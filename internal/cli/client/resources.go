package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Resource represents a support resource as the API returns it
type Resource struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Category            string          `json:"category"`
	ProviderID          string          `json:"provider_id"`
	ProviderName        string          `json:"provider_name"`
	ProviderContact     json.RawMessage `json:"provider_contact,omitempty"`
	Location            json.RawMessage `json:"location,omitempty"`
	EligibilityCriteria json.RawMessage `json:"eligibility_criteria,omitempty"`
	ApplicationProcess  string          `json:"application_process"`
	RequiredDocuments   json.RawMessage `json:"required_documents,omitempty"`
	Capacity            int             `json:"capacity"`
	Availability        json.RawMessage `json:"availability,omitempty"`
	StartDate           *string         `json:"start_date"`
	EndDate             *string         `json:"end_date"`
	Status              string          `json:"status"`
	CreatedAt           string          `json:"created_at"`
}

// ResourceList is one page of resources
type ResourceList struct {
	Resources []Resource `json:"resources"`
	Total     int64      `json:"total"`
	Pages     int        `json:"pages"`
	Page      int        `json:"page"`
	PerPage   int        `json:"per_page"`
}

// ListResourcesOptions are the supported browse filters
type ListResourcesOptions struct {
	Category string
	Search   string
	Page     int
	PerPage  int
}

// ListResources returns publicly visible resources matching the filters
func (c *Client) ListResources(ctx context.Context, opts ListResourcesOptions) (*ResourceList, error) {
	params := url.Values{}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	path := "/api/resources"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list ResourceList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetResource fetches a single resource by ID
func (c *Client) GetResource(ctx context.Context, resourceID string) (*Resource, error) {
	var resp struct {
		Resource *Resource `json:"resource"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/resources/"+resourceID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Resource, nil
}

// CreateResourceRequest represents a new resource listing
type CreateResourceRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	ProviderName       string `json:"provider_name"`
	ApplicationProcess string `json:"application_process,omitempty"`
	Capacity           int    `json:"capacity,omitempty"`
	StartDate          string `json:"start_date,omitempty"`
	EndDate            string `json:"end_date,omitempty"`
}

// CreateResource submits a new resource listing (provider or admin accounts)
func (c *Client) CreateResource(ctx context.Context, req CreateResourceRequest) (*Resource, error) {
	var resp struct {
		Message  string    `json:"message"`
		Resource *Resource `json:"resource"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/resources", req, &resp); err != nil {
		return nil, err
	}
	return resp.Resource, nil
}

// Application represents a resource application as the API returns it
type Application struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ResourceID     string          `json:"resource_id"`
	Status         string          `json:"status"`
	NeedLevel      string          `json:"need_level"`
	Reason         string          `json:"reason"`
	Documents      json.RawMessage `json:"documents,omitempty"`
	Notes          string          `json:"notes"`
	AdminNotes     string          `json:"admin_notes"`
	SubmittedAt    *string         `json:"submitted_at"`
	ReviewedAt     *string         `json:"reviewed_at"`
	DecisionReason string          `json:"decision_reason"`
	CreatedAt      string          `json:"created_at"`
}

// ApplyRequest represents an application for a resource
type ApplyRequest struct {
	Reason    string `json:"reason,omitempty"`
	NeedLevel string `json:"need_level,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Apply submits an application for the given resource
func (c *Client) Apply(ctx context.Context, resourceID string, req ApplyRequest) (*Application, error) {
	var resp struct {
		Message     string       `json:"message"`
		Application *Application `json:"application"`
	}
	path := fmt.Sprintf("/api/resources/%s/apply", resourceID)
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return resp.Application, nil
}

// GetApplication fetches one application (applicant, resource provider or admin)
func (c *Client) GetApplication(ctx context.Context, applicationID string) (*Application, error) {
	var resp struct {
		Application *Application `json:"application"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/resources/applications/"+applicationID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Application, nil
}
