package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
)

type JobFilter struct {
	Category string
	Search   string
	Page     int
}

func (f JobFilter) query() string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) ListJobs(ctx context.Context, filter JobFilter) ([]api.Job, error) {
	var out struct {
		Jobs []api.Job `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/jobs"+filter.query(), nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (*api.Job, error) {
	var out api.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateJob(ctx context.Context, job api.JobCreate) (*api.Job, error) {
	var out api.Job
	if err := c.do(ctx, http.MethodPost, "/jobs", job, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateJob(ctx context.Context, id string, job api.JobCreate) (*api.Job, error) {
	var out api.Job
	if err := c.do(ctx, http.MethodPut, "/jobs/"+url.PathEscape(id), job, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CloseJob(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/jobs/"+url.PathEscape(id)+"/close", nil, nil)
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/jobs/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ApplyToJob(ctx context.Context, jobID string, req api.ApplicationCreate) (*api.Application, error) {
	var out api.Application
	if err := c.do(ctx, http.MethodPost, "/jobs/"+url.PathEscape(jobID)+"/apply", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListApplications(ctx context.Context, jobID string) ([]api.Application, error) {
	var out struct {
		Applications []api.Application `json:"applications"`
	}
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID)+"/applications", nil, &out); err != nil {
		return nil, err
	}
	return out.Applications, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, applicationID string, status api.ApplicationStatus) (*api.Application, error) {
	var out api.Application
	req := api.StatusUpdate{Status: status}
	if err := c.do(ctx, http.MethodPut, "/applications/"+url.PathEscape(applicationID)+"/status", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
