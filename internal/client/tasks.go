package client

import (
	"context"
	"net/http"
	"net/url"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
)

func (c *Client) ListMiniTasks(ctx context.Context, filter JobFilter) ([]api.MiniTask, error) {
	var out struct {
		Tasks []api.MiniTask `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/mini-tasks"+filter.query(), nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) GetMiniTask(ctx context.Context, id string) (*api.MiniTask, error) {
	var out api.MiniTask
	if err := c.do(ctx, http.MethodGet, "/mini-tasks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMiniTask(ctx context.Context, task api.MiniTaskCreate) (*api.MiniTask, error) {
	var out api.MiniTask
	if err := c.do(ctx, http.MethodPost, "/mini-tasks", task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMiniTask(ctx context.Context, id string, task api.MiniTaskCreate) (*api.MiniTask, error) {
	var out api.MiniTask
	if err := c.do(ctx, http.MethodPut, "/mini-tasks/"+url.PathEscape(id), task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMiniTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/mini-tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) PlaceBid(ctx context.Context, taskID string, bid api.BidCreate) (*api.Bid, error) {
	var out api.Bid
	if err := c.do(ctx, http.MethodPost, "/mini-tasks/"+url.PathEscape(taskID)+"/bids", bid, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBids(ctx context.Context, taskID string) ([]api.Bid, error) {
	var out struct {
		Bids []api.Bid `json:"bids"`
	}
	if err := c.do(ctx, http.MethodGet, "/mini-tasks/"+url.PathEscape(taskID)+"/bids", nil, &out); err != nil {
		return nil, err
	}
	return out.Bids, nil
}

func (c *Client) UpdateBidStatus(ctx context.Context, bidID string, status api.ApplicationStatus) (*api.Bid, error) {
	var out api.Bid
	req := api.StatusUpdate{Status: status}
	if err := c.do(ctx, http.MethodPut, "/bids/"+url.PathEscape(bidID)+"/status", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
