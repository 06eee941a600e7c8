package client

import (
	"context"
	"net/http"
	"net/url"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
)

func (c *Client) ListEmployers(ctx context.Context) ([]api.EmployerProfile, error) {
	var out struct {
		Employers []api.EmployerProfile `json:"employers"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/employers", nil, &out); err != nil {
		return nil, err
	}
	return out.Employers, nil
}

func (c *Client) SetEmployerVerification(ctx context.Context, employerID string, status api.VerificationStatus) (*api.EmployerProfile, error) {
	var out api.EmployerProfile
	req := api.EmployerVerification{Status: status}
	if err := c.do(ctx, http.MethodPut, "/admin/employers/"+url.PathEscape(employerID)+"/verification", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetEmployerVerified flips the verified badge, which is independent of the verification status.
func (c *Client) SetEmployerVerified(ctx context.Context, employerID string, verified bool) (*api.EmployerProfile, error) {
	var out api.EmployerProfile
	req := api.EmployerVerified{Verified: verified}
	if err := c.do(ctx, http.MethodPatch, "/admin/employers/"+url.PathEscape(employerID)+"/verified", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
