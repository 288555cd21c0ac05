package property

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/features/activity"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PropertyService interface {
	ListProperties(ctx context.Context, caller tenancy.Caller, filter PropertyFilter) ([]models.Property, error)
	GetProperty(ctx context.Context, caller tenancy.Caller, id string) (*models.Property, error)
	CreateProperty(ctx context.Context, caller tenancy.Caller, req CreatePropertyRequest) (*models.Property, error)
	UpdateProperty(ctx context.Context, caller tenancy.Caller, id string, req UpdatePropertyRequest) (*models.Property, error)
	DeleteProperty(ctx context.Context, caller tenancy.Caller, id string) error
}

type PropertyServiceImpl struct {
	Repo      PropertyRepository
	Isolation *tenancy.Isolation
	Activity  activity.ActivityRecorder
}

func NewPropertyService(repo PropertyRepository, isolation *tenancy.Isolation, recorder activity.ActivityRecorder) PropertyService {
	return &PropertyServiceImpl{
		Repo:      repo,
		Isolation: isolation,
		Activity:  recorder,
	}
}

func (s *PropertyServiceImpl) ListProperties(ctx context.Context, caller tenancy.Caller, f PropertyFilter) ([]models.Property, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceProperties, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) ([]models.Property, error) {
			predicate := bson.M{}
			if f.Type != "" {
				predicate["type"] = f.Type
			}
			if f.Status != "" {
				predicate["status"] = f.Status
			}
			if loc := strings.TrimSpace(f.Location); loc != "" {
				predicate["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(loc), Options: "i"}
			}
			filter, err := access.Filter(predicate)
			if err != nil {
				return nil, err
			}
			return s.Repo.List(ctx, filter)
		})
}

func (s *PropertyServiceImpl) GetProperty(ctx context.Context, caller tenancy.Caller, id string) (*models.Property, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceProperties, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) (*models.Property, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}
			return s.Repo.FindOne(ctx, filter)
		})
}

func (s *PropertyServiceImpl) CreateProperty(ctx context.Context, caller tenancy.Caller, req CreatePropertyRequest) (*models.Property, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceProperties, permission.ActionCreate),
		func(ctx context.Context, access tenancy.Access) (*models.Property, error) {
			title := strings.TrimSpace(req.Title)
			if title == "" {
				return nil, errs.Invalid("property title is required")
			}
			if !validType(req.Type) {
				return nil, errs.Invalid("unknown property type %q", req.Type)
			}
			if req.Price.IsNegative() {
				return nil, errs.Invalid("price cannot be negative")
			}
			status := req.Status
			if status == "" {
				status = models.PropertyStatusAvailable
			}
			if !validStatus(status) {
				return nil, errs.Invalid("unknown property status %q", status)
			}

			now := time.Now()
			property := &models.Property{
				ID:          database.NewID(),
				TenantID:    access.TenantID,
				Title:       title,
				Description: req.Description,
				Type:        req.Type,
				Location:    req.Location,
				Price:       req.Price,
				Bedrooms:    req.Bedrooms,
				Bathrooms:   req.Bathrooms,
				SquareFeet:  req.SquareFeet,
				ImageURL:    req.ImageURL,
				Status:      status,
				CreatedBy:   caller.UserID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.Repo.Create(ctx, property); err != nil {
				return nil, err
			}

			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityProperty, property.ID,
				activity.ActionCreated, fmt.Sprintf("Listed property %s", property.Title))
			return property, nil
		})
}

func (s *PropertyServiceImpl) UpdateProperty(ctx context.Context, caller tenancy.Caller, id string, req UpdatePropertyRequest) (*models.Property, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceProperties, permission.ActionUpdate),
		func(ctx context.Context, access tenancy.Access) (*models.Property, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}

			updates := bson.M{}
			if req.Title != nil {
				title := strings.TrimSpace(*req.Title)
				if title == "" {
					return nil, errs.Invalid("property title is required")
				}
				updates["title"] = title
			}
			if req.Description != nil {
				updates["description"] = *req.Description
			}
			if req.Type != nil {
				if !validType(*req.Type) {
					return nil, errs.Invalid("unknown property type %q", *req.Type)
				}
				updates["type"] = *req.Type
			}
			if req.Location != nil {
				updates["location"] = *req.Location
			}
			if req.Price != nil {
				if req.Price.IsNegative() {
					return nil, errs.Invalid("price cannot be negative")
				}
				updates["price"] = *req.Price
			}
			if req.Bedrooms != nil {
				updates["bedrooms"] = *req.Bedrooms
			}
			if req.Bathrooms != nil {
				updates["bathrooms"] = *req.Bathrooms
			}
			if req.SquareFeet != nil {
				updates["square_feet"] = *req.SquareFeet
			}
			if req.ImageURL != nil {
				updates["image_url"] = *req.ImageURL
			}
			if req.Status != nil {
				if !validStatus(*req.Status) {
					return nil, errs.Invalid("unknown property status %q", *req.Status)
				}
				updates["status"] = *req.Status
			}
			if len(updates) == 0 {
				return s.Repo.FindOne(ctx, filter)
			}

			if err := s.Repo.Update(ctx, filter, updates); err != nil {
				return nil, err
			}
			property, err := s.Repo.FindOne(ctx, filter)
			if err != nil {
				return nil, err
			}

			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityProperty, property.ID,
				activity.ActionUpdated, fmt.Sprintf("Updated property %s", property.Title))
			return property, nil
		})
}

func (s *PropertyServiceImpl) DeleteProperty(ctx context.Context, caller tenancy.Caller, id string) error {
	_, err := tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceProperties, permission.ActionDelete),
		func(ctx context.Context, access tenancy.Access) (struct{}, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return struct{}{}, err
			}
			if err := s.Repo.Delete(ctx, filter); err != nil {
				return struct{}{}, err
			}
			s.Activity.RecordBestEffort(ctx, access.TenantID, caller.UserID, models.EntityProperty, id,
				activity.ActionDeleted, "Removed property")
			return struct{}{}, nil
		})
	return err
}
