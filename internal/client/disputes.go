package client

import (
	"context"
	"net/http"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
)

// RequestEvidenceUploadURL asks for a signed URL to attach dispute evidence.
// It shares the upload-url endpoint but answers with {publicUrl, uploadUrl}.
func (c *Client) RequestEvidenceUploadURL(ctx context.Context, req api.UploadTargetRequest) (*api.UploadTarget, error) {
	var out api.EvidenceUploadTarget
	if err := c.do(ctx, http.MethodPost, "/submissions/upload-url?purpose=evidence", req, &out); err != nil {
		return nil, err
	}
	if out.UploadURL == "" {
		return nil, ErrEmptyResponse
	}
	return &api.UploadTarget{UploadURL: out.UploadURL, FileKey: out.PublicURL, PublicURL: out.PublicURL}, nil
}

func (c *Client) CreateDispute(ctx context.Context, req api.DisputeCreate) (*api.Dispute, error) {
	var out api.Dispute
	if err := c.do(ctx, http.MethodPost, "/disputes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListDisputes(ctx context.Context) ([]api.Dispute, error) {
	var out struct {
		Disputes []api.Dispute `json:"disputes"`
	}
	if err := c.do(ctx, http.MethodGet, "/disputes", nil, &out); err != nil {
		return nil, err
	}
	return out.Disputes, nil
}
