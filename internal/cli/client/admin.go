package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DashboardSummary holds the platform-wide record counts
type DashboardSummary struct {
	Users               int64 `json:"users"`
	Profiles            int64 `json:"profiles"`
	Resources           int64 `json:"resources"`
	Applications        int64 `json:"applications"`
	PendingResources    int64 `json:"pending_resources"`
	PendingApplications int64 `json:"pending_applications"`
}

// Dashboard is the admin overview. Trend and distribution sections are kept
// raw; the CLI renders them as JSON.
type Dashboard struct {
	Summary        DashboardSummary `json:"summary"`
	Trends         json.RawMessage  `json:"trends"`
	Distributions  json.RawMessage  `json:"distributions"`
	RecentActivity json.RawMessage  `json:"recent_activity"`
}

// AdminDashboard fetches the admin overview
func (c *Client) AdminDashboard(ctx context.Context) (*Dashboard, error) {
	var dashboard Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/admin/dashboard", nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// UserList is one page of accounts
type UserList struct {
	Users   []User `json:"users"`
	Total   int64  `json:"total"`
	Pages   int    `json:"pages"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// ListUsersOptions are the supported account filters
type ListUsersOptions struct {
	Role    string
	Status  string
	Search  string
	Page    int
	PerPage int
}

// AdminListUsers returns accounts matching the filters
func (c *Client) AdminListUsers(ctx context.Context, opts ListUsersOptions) (*UserList, error) {
	params := url.Values{}
	if opts.Role != "" {
		params.Set("role", opts.Role)
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
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

	path := "/api/admin/users"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list UserList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AdminVerifyUser sets an account's verification status
func (c *Client) AdminVerifyUser(ctx context.Context, userID, status string) (*User, error) {
	var resp struct {
		Message string `json:"message"`
		User    *User  `json:"user"`
	}
	path := fmt.Sprintf("/api/admin/users/%s/verify", userID)
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPut, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// AdminPendingResources returns resources awaiting approval, oldest first
func (c *Client) AdminPendingResources(ctx context.Context, page, perPage int) (*ResourceList, error) {
	path := "/api/admin/resources/pending"
	if page > 0 || perPage > 0 {
		params := url.Values{}
		if page > 0 {
			params.Set("page", strconv.Itoa(page))
		}
		if perPage > 0 {
			params.Set("per_page", strconv.Itoa(perPage))
		}
		path += "?" + params.Encode()
	}

	var list ResourceList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AdminApproveResource resolves a pending resource to active or inactive
func (c *Client) AdminApproveResource(ctx context.Context, resourceID, status string) (*Resource, error) {
	var resp struct {
		Message  string    `json:"message"`
		Resource *Resource `json:"resource"`
	}
	path := fmt.Sprintf("/api/admin/resources/%s/approve", resourceID)
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPut, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Resource, nil
}

// ApplicationList is one page of applications
type ApplicationList struct {
	Applications []Application `json:"applications"`
	Total        int64         `json:"total"`
	Pages        int           `json:"pages"`
	Page         int           `json:"page"`
	PerPage      int           `json:"per_page"`
}

// AdminPendingApplications returns applications awaiting review, oldest
// submission first
func (c *Client) AdminPendingApplications(ctx context.Context, page, perPage int) (*ApplicationList, error) {
	path := "/api/admin/applications/pending"
	if page > 0 || perPage > 0 {
		params := url.Values{}
		if page > 0 {
			params.Set("page", strconv.Itoa(page))
		}
		if perPage > 0 {
			params.Set("per_page", strconv.Itoa(perPage))
		}
		path += "?" + params.Encode()
	}

	var list ApplicationList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ReviewRequest carries an admin's application decision
type ReviewRequest struct {
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	AdminNotes string `json:"admin_notes,omitempty"`
}

// AdminReviewApplication records a decision on a submitted application
func (c *Client) AdminReviewApplication(ctx context.Context, applicationID string, req ReviewRequest) (*Application, error) {
	var resp struct {
		Message     string       `json:"message"`
		Application *Application `json:"application"`
	}
	path := fmt.Sprintf("/api/admin/applications/%s/review", applicationID)
	if err := c.do(ctx, http.MethodPut, path, req, &resp); err != nil {
		return nil, err
	}
	return resp.Application, nil
}

// Analytics groups the trend and distribution sections both analytics
// endpoints return. Sections stay raw; the CLI renders them as JSON.
type Analytics struct {
	Trends        json.RawMessage `json:"trends"`
	Distributions json.RawMessage `json:"distributions"`
}

// AdminUserAnalytics fetches registration trends and account distributions
// for the given period (week, month or year)
func (c *Client) AdminUserAnalytics(ctx context.Context, period string) (*Analytics, error) {
	return c.analytics(ctx, "/api/admin/analytics/users", period)
}

// AdminResourceAnalytics fetches resource creation trends and category/status
// distributions for the given period
func (c *Client) AdminResourceAnalytics(ctx context.Context, period string) (*Analytics, error) {
	return c.analytics(ctx, "/api/admin/analytics/resources", period)
}

func (c *Client) analytics(ctx context.Context, path, period string) (*Analytics, error) {
	if period != "" {
		path += "?period=" + url.QueryEscape(period)
	}

	var analytics Analytics
	if err := c.do(ctx, http.MethodGet, path, nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}
