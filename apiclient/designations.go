package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/benleytuano/taskmap-frontend/models"
)

func (c *Client) ListDesignations(ctx context.Context) ([]models.Designation, error) {
	var data struct {
		Designations []models.Designation `json:"designations"`
	}
	if err := c.getJSON(ctx, c.TasksBreaker, "/organizational-designations", &data); err != nil {
		return nil, err
	}
	return data.Designations, nil
}

func (c *Client) CreateDesignation(ctx context.Context, d models.Designation) (*models.Designation, error) {
	env, err := c.sendJSON(ctx, c.TasksBreaker, http.MethodPost, "/organizational-designations", d)
	if err != nil {
		return nil, err
	}
	var data struct {
		Designation *models.Designation `json:"designation"`
	}
	if err := env.decodeData(&data); err != nil {
		return nil, err
	}
	return data.Designation, nil
}

func (c *Client) UpdateDesignation(ctx context.Context, d models.Designation) (*models.Designation, error) {
	env, err := c.sendJSON(ctx, c.TasksBreaker, http.MethodPut, fmt.Sprintf("/organizational-designations/%d", d.ID), d)
	if err != nil {
		return nil, err
	}
	var data struct {
		Designation *models.Designation `json:"designation"`
	}
	if err := env.decodeData(&data); err != nil {
		return nil, err
	}
	return data.Designation, nil
}

func (c *Client) DeleteDesignation(ctx context.Context, id int64) error {
	_, err := c.do(ctx, c.TasksBreaker, http.MethodDelete, fmt.Sprintf("/organizational-designations/%d", id), "", nil)
	return err
}
