package activity

// Actions written by the services that mutate entities.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionAssigned = "assigned"
	ActionApproved = "approved"
)

// Actions a user may log by hand.
const (
	ActionCalled  = "called"
	ActionEmailed = "emailed"
	ActionNote    = "note"
)

var manualActions = map[string]bool{
	ActionCalled:  true,
	ActionEmailed: true,
	ActionNote:    true,
}

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 100
)

type LogActivityRequest struct {
	EntityType  string `json:"entityType"`
	EntityID    string `json:"entityId"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}
