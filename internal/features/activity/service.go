package activity

import (
	"context"
	"fmt"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"

	"go.mongodb.org/mongo-driver/bson"
)

type ActivityService interface {
	Recent(ctx context.Context, caller tenancy.Caller, limit int) ([]models.Activity, error)
	Log(ctx context.Context, caller tenancy.Caller, req LogActivityRequest) (*models.Activity, error)
	// FeedAccess authorizes a live feed subscription.
	FeedAccess(ctx context.Context, caller tenancy.Caller) (tenancy.Access, error)
}

type ActivityServiceImpl struct {
	Repo      ActivityRepository
	Entities  EntityRepository
	Recorder  ActivityRecorder
	Isolation *tenancy.Isolation
}

// entityResources maps an activity's entity type to the resource guarding it.
var entityResources = map[string]string{
	models.EntityLead:     permission.ResourceLeads,
	models.EntityProperty: permission.ResourceProperties,
	models.EntityDeal:     permission.ResourceDeals,
}

func NewActivityService(repo ActivityRepository, entities EntityRepository, recorder ActivityRecorder, isolation *tenancy.Isolation) ActivityService {
	return &ActivityServiceImpl{
		Repo:      repo,
		Entities:  entities,
		Recorder:  recorder,
		Isolation: isolation,
	}
}

func (s *ActivityServiceImpl) Recent(ctx context.Context, caller tenancy.Caller, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceActivities, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) ([]models.Activity, error) {
			filter, err := access.Filter(nil)
			if err != nil {
				return nil, err
			}
			return s.Repo.List(ctx, filter, int64(limit))
		})
}

func (s *ActivityServiceImpl) Log(ctx context.Context, caller tenancy.Caller, req LogActivityRequest) (*models.Activity, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceActivities, permission.ActionCreate),
		func(ctx context.Context, access tenancy.Access) (*models.Activity, error) {
			if !manualActions[req.Action] {
				return nil, errs.Invalid("action must be one of called, emailed, note")
			}
			if err := s.checkEntity(ctx, caller, req.EntityType, req.EntityID); err != nil {
				return nil, err
			}
			// Manual entries are always written as the caller.
			return s.Recorder.Record(ctx, access.TenantID, caller.UserID, req.EntityType, req.EntityID, req.Action, req.Description)
		})
}

// checkEntity requires the entity to be readable by the caller.
func (s *ActivityServiceImpl) checkEntity(ctx context.Context, caller tenancy.Caller, entityType, entityID string) error {
	resource, ok := entityResources[entityType]
	if !ok {
		return errs.Invalid("unknown entity type %q", entityType)
	}
	if entityID == "" {
		return errs.Invalid("entityId is required")
	}
	access, err := s.Isolation.Resolve(ctx, caller.Request(resource, permission.ActionRead))
	if err != nil {
		return err
	}
	filter, err := access.Filter(bson.M{"_id": entityID})
	if err != nil {
		return err
	}
	found, err := s.Entities.Exists(ctx, entityType, filter)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %s: %w", entityType, entityID, errs.ErrNotFound)
	}
	return nil
}

func (s *ActivityServiceImpl) FeedAccess(ctx context.Context, caller tenancy.Caller) (tenancy.Access, error) {
	access, err := s.Isolation.Resolve(ctx, caller.Request(permission.ResourceActivities, permission.ActionRead))
	if err != nil {
		return tenancy.Access{}, err
	}
	// Validates the boundary the same way a list would.
	if _, err := access.Filter(bson.M{}); err != nil {
		return tenancy.Access{}, err
	}
	return access, nil
}
