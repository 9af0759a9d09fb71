package services

import (
	"context"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/logging"
	"github.com/benleytuano/taskmap-frontend/models"
)

// DesignationService manages organizational designations, a superadmin-only
// surface unrelated to any single task.
type DesignationService struct {
	client *apiclient.Client
}

func NewDesignationService(client *apiclient.Client) *DesignationService {
	return &DesignationService{client: client}
}

func requireSuperadmin(actor models.User) error {
	if actor.Role != models.RoleSuperadmin {
		return &apiclient.PermissionError{Message: "managing designations requires superadmin"}
	}
	return nil
}

func (s *DesignationService) List(ctx context.Context, actor models.User) ([]models.Designation, error) {
	if err := requireSuperadmin(actor); err != nil {
		return nil, err
	}
	return s.client.ListDesignations(ctx)
}

func (s *DesignationService) Create(ctx context.Context, actor models.User, d models.Designation) (*models.Designation, error) {
	if err := requireSuperadmin(actor); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, &apiclient.ValidationError{Message: err.Error()}
	}
	created, err := s.client.CreateDesignation(ctx, d)
	if err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: DESIGNATION_CREATED, Description: Designation created")
	return created, nil
}

func (s *DesignationService) Update(ctx context.Context, actor models.User, d models.Designation) (*models.Designation, error) {
	if err := requireSuperadmin(actor); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, &apiclient.ValidationError{Message: err.Error()}
	}
	return s.client.UpdateDesignation(ctx, d)
}

func (s *DesignationService) Delete(ctx context.Context, actor models.User, id int64) error {
	if err := requireSuperadmin(actor); err != nil {
		return err
	}
	return s.client.DeleteDesignation(ctx, id)
}
