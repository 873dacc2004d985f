package sharing

import "time"

type Scope string

const (
	ScopePlanRead       Scope = "plan:read"
	ScopePlanEdit       Scope = "plan:edit"
	ScopeTimelineRead   Scope = "timeline:read"
	ScopeTimelineRecord Scope = "timeline:record"
	ScopeTimelineRevert Scope = "timeline:revert"
	ScopeTimelineManage Scope = "timeline:manage" // import, clear
)

type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Grant delegates scoped access to one plan, from its owner to another user
// (an advisor, a partner).
type Grant struct {
	ID string

	PlanID string

	OwnerUserID   string
	GranteeUserID string

	Scopes []Scope
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// HasScope reports whether g carries the wanted scope.
func HasScope(g Grant, want Scope) bool {
	for _, s := range g.Scopes {
		if s == want {
			return true
		}
	}
	return false
}
