package activity

import (
	"context"
	"fmt"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/internal/metrics"

	"go.uber.org/zap"
)

// ActivityRecorder appends audit trail rows after a mutation succeeded.
type ActivityRecorder interface {
	Record(ctx context.Context, tenantID, userID, entityType, entityID, action, description string) (*models.Activity, error)
	// RecordBestEffort never fails the caller. A failed append is logged for
	// operators and counted.
	RecordBestEffort(ctx context.Context, tenantID, userID, entityType, entityID, action, description string)
}

type ActivityRecorderImpl struct {
	Repo    ActivityRepository
	Hub     *Hub
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	now     func() time.Time
}

func NewActivityRecorder(repo ActivityRepository, hub *Hub, logger *zap.Logger, m *metrics.Metrics) ActivityRecorder {
	return &ActivityRecorderImpl{
		Repo:    repo,
		Hub:     hub,
		Logger:  logger,
		Metrics: m,
		now:     time.Now,
	}
}

func (r *ActivityRecorderImpl) Record(ctx context.Context, tenantID, userID, entityType, entityID, action, description string) (*models.Activity, error) {
	if tenantID == "" {
		return nil, errs.ErrMissingTenantContext
	}
	if entityType == "" || entityID == "" || action == "" {
		return nil, errs.Invalid("activity needs entity type, entity id and action")
	}

	activity := &models.Activity{
		ID:          database.NewID(),
		TenantID:    tenantID,
		UserID:      userID,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
		CreatedAt:   r.now().UTC(),
	}
	if err := r.Repo.Append(ctx, activity); err != nil {
		return nil, fmt.Errorf("append activity: %w", err)
	}

	r.Hub.Publish(*activity)
	return activity, nil
}

func (r *ActivityRecorderImpl) RecordBestEffort(ctx context.Context, tenantID, userID, entityType, entityID, action, description string) {
	if _, err := r.Record(ctx, tenantID, userID, entityType, entityID, action, description); err != nil {
		r.Metrics.ActivityFailure()
		r.Logger.Error("activity not recorded",
			zap.Bool("operator_alert", true),
			zap.String("tenant_id", tenantID),
			zap.String("user_id", userID),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
