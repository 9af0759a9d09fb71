package handlers

import (
	"context"
	"fmt"

	"github.com/benleytuano/taskmap-frontend/models"
	"github.com/benleytuano/taskmap-frontend/services"
	"github.com/benleytuano/taskmap-frontend/session"
)

// DesignationActions covers the superadmin-only designation management page.
type DesignationActions struct {
	session      *session.Session
	designations *services.DesignationService
}

func NewDesignationActions(sess *session.Session, designations *services.DesignationService) *DesignationActions {
	return &DesignationActions{session: sess, designations: designations}
}

func (h *DesignationActions) actor() (models.User, *ActionResult) {
	user, ok := h.session.User()
	if !ok {
		return models.User{}, &ActionResult{Message: "authentication required", Redirect: LoginRoute}
	}
	return user, nil
}

func (h *DesignationActions) run(opID string, fn func() error) ActionResult {
	if !h.session.InFlight().Begin(opID) {
		return ActionResult{Message: "This action is already in progress"}
	}
	defer h.session.InFlight().End(opID)

	if err := fn(); err != nil {
		result := resultFromError(err)
		if result.Redirect == LoginRoute {
			h.session.Clear()
		}
		return result
	}
	return ActionResult{Success: true}
}

func (h *DesignationActions) Load(ctx context.Context) ([]models.Designation, ActionResult) {
	actor, redirect := h.actor()
	if redirect != nil {
		return nil, *redirect
	}
	designations, err := h.designations.List(ctx, actor)
	if err != nil {
		return nil, resultFromError(err)
	}
	return designations, success("")
}

func (h *DesignationActions) Create(ctx context.Context, d models.Designation) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run("create-designation", func() error {
		_, err := h.designations.Create(ctx, actor, d)
		return err
	})
}

func (h *DesignationActions) Update(ctx context.Context, d models.Designation) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("update-designation:%d", d.ID), func() error {
		_, err := h.designations.Update(ctx, actor, d)
		return err
	})
}

func (h *DesignationActions) Delete(ctx context.Context, id int64) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("delete-designation:%d", id), func() error {
		return h.designations.Delete(ctx, actor, id)
	})
}
