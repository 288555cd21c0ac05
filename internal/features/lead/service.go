package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/features/activity"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/features/user"

	"go.mongodb.org/mongo-driver/bson"
)

type LeadService interface {
	ListLeads(ctx context.Context, caller tenancy.Caller, filter LeadFilter) ([]models.Lead, error)
	GetLead(ctx context.Context, caller tenancy.Caller, id string) (*models.Lead, error)
	CreateLead(ctx context.Context, caller tenancy.Caller, req CreateLeadRequest) (*models.Lead, error)
	UpdateLead(ctx context.Context, caller tenancy.Caller, id string, req UpdateLeadRequest) (*models.Lead, error)
	AssignLead(ctx context.Context, caller tenancy.Caller, id string, assignee string) (*models.Lead, error)
	DeleteLead(ctx context.Context, caller tenancy.Caller, id string) error
}

type LeadServiceImpl struct {
	Repo      LeadRepository
	Users     user.UserRepository
	Isolation *tenancy.Isolation
	Activity  activity.ActivityRecorder
}

func NewLeadService(repo LeadRepository, users user.UserRepository, isolation *tenancy.Isolation, recorder activity.ActivityRecorder) LeadService {
	return &LeadServiceImpl{
		Repo:      repo,
		Users:     users,
		Isolation: isolation,
		Activity:  recorder,
	}
}

// ListLeads lists visible leads. The unassigned queue is read under the
// assign grant, since only callers who may route leads work it.
func (s *LeadServiceImpl) ListLeads(ctx context.Context, caller tenancy.Caller, f LeadFilter) ([]models.Lead, error) {
	if f.Unassigned && f.AssignedTo != "" {
		return nil, errs.Invalid("unassigned and assignedTo cannot be combined")
	}
	action := permission.ActionRead
	if f.Unassigned {
		action = permission.ActionAssign
	}
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceLeads, action),
		func(ctx context.Context, access tenancy.Access) ([]models.Lead, error) {
			predicate := bson.M{}
			if f.Status != "" {
				predicate["status"] = f.Status
			}
			if f.AssignedTo != "" {
				predicate["assigned_to"] = f.AssignedTo
			}
			scoped := access.Filter
			if f.Unassigned {
				predicate["$or"] = bson.A{bson.M{"assigned_to": ""}, bson.M{"assigned_to": nil}}
				scoped = access.RoutingFilter
			}
			filter, err := scoped(predicate)
			if err != nil {
				return nil, err
			}
			return s.Repo.List(ctx, filter)
		})
}

func (s *LeadServiceImpl) GetLead(ctx context.Context, caller tenancy.Caller, id string) (*models.Lead, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceLeads, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) (*models.Lead, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}
			return s.Repo.FindOne(ctx, filter)
		})
}

func (s *LeadServiceImpl) CreateLead(ctx context.Context, caller tenancy.Caller, req CreateLeadRequest) (*models.Lead, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceLeads, permission.ActionCreate),
		func(ctx context.Context, access tenancy.Access) (*models.Lead, error) {
			name := strings.TrimSpace(req.Name)
			if name == "" {
				return nil, errs.Invalid("lead name is required")
			}
			status := req.Status
			if status == "" {
				status = models.LeadStatusNew
			}
			if !validStatus(status) {
				return nil, errs.Invalid("unknown lead status %q", status)
			}
			if req.AssignedTo != "" {
				if err := s.checkAssignee(ctx, caller, access, req.AssignedTo); err != nil {
					return nil, err
				}
			} else if access.Level != permission.ScopeTenant {
				// A narrower creator must keep the lead inside its own view.
				req.AssignedTo = caller.UserID
			}

			now := time.Now()
			lead := &models.Lead{
				ID:           database.NewID(),
				TenantID:     access.TenantID,
				Name:         name,
				Phone:        req.Phone,
				Email:        req.Email,
				Budget:       req.Budget,
				Location:     req.Location,
				PropertyType: req.PropertyType,
				Status:       status,
				AssignedTo:   req.AssignedTo,
				Notes:        req.Notes,
				Source:       req.Source,
				CreatedBy:    caller.UserID,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := s.Repo.Create(ctx, lead); err != nil {
				return nil, err
			}

			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityLead, lead.ID,
				activity.ActionCreated, fmt.Sprintf("Created lead %s", lead.Name))
			return lead, nil
		})
}

func (s *LeadServiceImpl) UpdateLead(ctx context.Context, caller tenancy.Caller, id string, req UpdateLeadRequest) (*models.Lead, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceLeads, permission.ActionUpdate),
		func(ctx context.Context, access tenancy.Access) (*models.Lead, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}

			updates := bson.M{}
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				if name == "" {
					return nil, errs.Invalid("lead name is required")
				}
				updates["name"] = name
			}
			if req.Phone != nil {
				updates["phone"] = *req.Phone
			}
			if req.Email != nil {
				updates["email"] = *req.Email
			}
			if req.Budget != nil {
				updates["budget"] = *req.Budget
			}
			if req.Location != nil {
				updates["location"] = *req.Location
			}
			if req.PropertyType != nil {
				updates["property_type"] = *req.PropertyType
			}
			if req.Status != nil {
				if !validStatus(*req.Status) {
					return nil, errs.Invalid("unknown lead status %q", *req.Status)
				}
				updates["status"] = *req.Status
			}
			if req.Notes != nil {
				updates["notes"] = *req.Notes
			}
			if req.Source != nil {
				updates["source"] = *req.Source
			}
			if len(updates) == 0 {
				return s.Repo.FindOne(ctx, filter)
			}

			if err := s.Repo.Update(ctx, filter, updates); err != nil {
				return nil, err
			}
			lead, err := s.Repo.FindOne(ctx, filter)
			if err != nil {
				return nil, err
			}

			description := fmt.Sprintf("Updated lead %s", lead.Name)
			if req.Status != nil {
				description = fmt.Sprintf("Lead %s moved to %s", lead.Name, lead.Status)
			}
			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityLead, lead.ID,
				activity.ActionUpdated, description)
			return lead, nil
		})
}

func (s *LeadServiceImpl) AssignLead(ctx context.Context, caller tenancy.Caller, id string, assignee string) (*models.Lead, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceLeads, permission.ActionAssign),
		func(ctx context.Context, access tenancy.Access) (*models.Lead, error) {
			if assignee == "" {
				return nil, errs.Invalid("assignedTo is required")
			}
			filter, err := access.RoutingFilter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}
			if err := s.checkAssignee(ctx, caller, access, assignee); err != nil {
				return nil, err
			}

			if err := s.Repo.Update(ctx, filter, bson.M{"assigned_to": assignee}); err != nil {
				return nil, err
			}
			lead, err := s.Repo.FindOne(ctx, bson.M{"_id": id, "tenant_id": access.TenantID})
			if err != nil {
				return nil, err
			}

			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityLead, lead.ID,
				activity.ActionAssigned, fmt.Sprintf("Assigned lead %s to %s", lead.Name, assignee))
			return lead, nil
		})
}

func (s *LeadServiceImpl) DeleteLead(ctx context.Context, caller tenancy.Caller, id string) error {
	_, err := tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceLeads, permission.ActionDelete),
		func(ctx context.Context, access tenancy.Access) (struct{}, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return struct{}{}, err
			}
			if err := s.Repo.Delete(ctx, filter); err != nil {
				return struct{}{}, err
			}

			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityLead, id,
				activity.ActionDeleted, "Deleted lead")
			return struct{}{}, nil
		})
	return err
}

// checkAssignee requires an active user of the same tenant that the caller
// could itself see leads for.
func (s *LeadServiceImpl) checkAssignee(ctx context.Context, caller tenancy.Caller, access tenancy.Access, assignee string) error {
	u, err := s.Users.FindOne(ctx, bson.M{"_id": assignee, "tenant_id": access.TenantID})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Invalid("assignee %s is not a member of this tenant", assignee)
		}
		return err
	}
	if !u.IsActive {
		return errs.Invalid("assignee %s is inactive", assignee)
	}
	if !access.Owns(assignee) {
		return &errs.AuthorizationError{
			Role: string(caller.Role), Resource: permission.ResourceLeads, Action: permission.ActionAssign,
			Scope: string(access.Level), Reason: "assignee is outside the caller's scope",
		}
	}
	return nil
}
