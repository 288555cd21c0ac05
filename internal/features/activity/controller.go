package activity

import (
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const feedAccessLocal = "activity_feed_access"

type ActivityController struct {
	ActivityService ActivityService
	Hub             *Hub
	Logger          *zap.Logger
}

func NewActivityController(activityService ActivityService, hub *Hub, logger *zap.Logger) *ActivityController {
	return &ActivityController{
		ActivityService: activityService,
		Hub:             hub,
		Logger:          logger,
	}
}

// ListRecent godoc
// @Summary      Recent activities
// @Description  Newest activities visible at the caller's scope
// @Tags         activities
// @Produce      json
// @Param        limit query int false "Maximum rows (default 10, max 100)"
// @Success      200  {array} models.Activity
// @Failure      403  {object} map[string]string
// @Router       /api/activities [get]
func (ctrl *ActivityController) ListRecent(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	activities, err := ctrl.ActivityService.Recent(c.UserContext(), caller, c.QueryInt("limit", DefaultFeedLimit))
	if err != nil {
		return err
	}
	return c.JSON(activities)
}

// LogActivity godoc
// @Summary      Log an activity
// @Description  Record a call, email or note against a lead, property or deal
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        input body LogActivityRequest true "Activity"
// @Success      201  {object} models.Activity
// @Failure      400  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Router       /api/activities [post]
func (ctrl *ActivityController) LogActivity(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req LogActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	activity, err := ctrl.ActivityService.Log(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

// AuthorizeFeed runs before the websocket upgrade and pins the access the
// connection will be filtered by.
func (ctrl *ActivityController) AuthorizeFeed(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}
	access, err := ctrl.ActivityService.FeedAccess(c.UserContext(), caller)
	if err != nil {
		return err
	}

	c.Locals(feedAccessLocal, access)
	return c.Next()
}

// StreamFeed pushes every new visible activity as a JSON message.
func (ctrl *ActivityController) StreamFeed(conn *websocket.Conn) {
	access, ok := conn.Locals(feedAccessLocal).(tenancy.Access)
	if !ok {
		_ = conn.Close()
		return
	}

	sub := ctrl.Hub.Subscribe(access)
	defer ctrl.Hub.Unsubscribe(sub)

	// The client never sends anything meaningful; reading only detects close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case a, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := conn.WriteJSON(a); err != nil {
				ctrl.Logger.Debug("activity feed write failed", zap.String("user_id", access.UserID), zap.Error(err))
				return
			}
		}
	}
}
