package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
)

func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var out api.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", req, &out); err != nil {
		return nil, err
	}
	if out.Token != "" {
		c.token = out.Token
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) CurrentUser(ctx context.Context) (*api.User, error) {
	var out struct {
		User *api.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, ErrEmptyResponse
	}
	return out.User, nil
}

// ChatAuthenticate calls POST /athenticate (the server route is spelled this way).
func (c *Client) ChatAuthenticate(ctx context.Context) (*api.ChatAuth, error) {
	var out api.ChatAuth
	if err := c.do(ctx, http.MethodPost, "/athenticate", nil, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.UserData.Id == "" {
		return nil, ErrEmptyResponse
	}
	return &out, nil
}

// UploadProfileImage sends the image as multipart/form-data under the "image" field.
func (c *Client) UploadProfileImage(ctx context.Context, fileName string, image io.Reader) (*api.User, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", fileName)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copying image into multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/profile/image", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		User *api.User `json:"user"`
	}
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, ErrEmptyResponse
	}
	return out.User, nil
}
