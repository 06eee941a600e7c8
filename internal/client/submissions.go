package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
)

// RequestUploadURL calls POST /submissions/upload-url.
func (c *Client) RequestUploadURL(ctx context.Context, req api.UploadTargetRequest) (*api.UploadTarget, error) {
	var out api.UploadTarget
	if err := c.do(ctx, http.MethodPost, "/submissions/upload-url", req, &out); err != nil {
		return nil, err
	}
	if out.UploadURL == "" || out.FileKey == "" {
		return nil, fmt.Errorf("upload target for %s is incomplete", req.FileName)
	}
	return &out, nil
}

// SubmitTaskWork calls POST /submit_task_work/:taskId.
func (c *Client) SubmitTaskWork(ctx context.Context, taskID string, req api.SubmissionCreate) (*api.Submission, error) {
	var out struct {
		Submission *api.Submission `json:"submission"`
	}
	if err := c.do(ctx, http.MethodPost, "/submit_task_work/"+url.PathEscape(taskID), req, &out); err != nil {
		return nil, err
	}
	if out.Submission == nil {
		return nil, ErrEmptyResponse
	}
	return out.Submission, nil
}

// GetMySubmissions calls GET /get_mysubmissions/:taskId.
func (c *Client) GetMySubmissions(ctx context.Context, taskID string) ([]api.Submission, error) {
	var out struct {
		Submissions []api.Submission `json:"submissions"`
	}
	if err := c.do(ctx, http.MethodGet, "/get_mysubmissions/"+url.PathEscape(taskID), nil, &out); err != nil {
		return nil, err
	}
	return out.Submissions, nil
}

// ViewTaskSubmissions calls GET /view_task_submissions/:taskId.
func (c *Client) ViewTaskSubmissions(ctx context.Context, taskID string) ([]api.Submission, error) {
	var out struct {
		Submissions []api.Submission `json:"submissions"`
	}
	if err := c.do(ctx, http.MethodGet, "/view_task_submissions/"+url.PathEscape(taskID), nil, &out); err != nil {
		return nil, err
	}
	return out.Submissions, nil
}

// ReviewTaskSubmission calls PUT /review_task_submission/:submissionId.
func (c *Client) ReviewTaskSubmission(ctx context.Context, submissionID string, review api.Review) (*api.Submission, error) {
	var out struct {
		Submission *api.Submission `json:"submission"`
	}
	if err := c.do(ctx, http.MethodPut, "/review_task_submission/"+url.PathEscape(submissionID), review, &out); err != nil {
		return nil, err
	}
	if out.Submission == nil {
		return nil, ErrEmptyResponse
	}
	return out.Submission, nil
}

// DeleteSubmission calls DELETE /delete/submission/:submissionId.
func (c *Client) DeleteSubmission(ctx context.Context, submissionID string) error {
	return c.do(ctx, http.MethodDelete, "/delete/submission/"+url.PathEscape(submissionID), nil, nil)
}

// GetPreviewURL calls GET /get_preview_url. The submission status travels along so
// the server can decide whether the returned URL also permits download.
func (c *Client) GetPreviewURL(ctx context.Context, fileKey string, status api.SubmissionStatus) (string, error) {
	q := url.Values{}
	q.Set("fileKey", fileKey)
	q.Set("selectedSubmission", string(status))

	var out api.PreviewURL
	if err := c.do(ctx, http.MethodGet, "/get_preview_url?"+q.Encode(), nil, &out); err != nil {
		return "", err
	}
	if out.PreviewURL == "" {
		return "", ErrEmptyResponse
	}
	return out.PreviewURL, nil
}
