package timeline

// ActionType classifies what a change did to the tracked entity.
// @Enum create, update, delete, revert, import
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
	ActionRevert ActionType = "revert"
	ActionImport ActionType = "import"
)

// EntityType identifies the kind of plan entity a change touched.
// @Enum person, asset, income, commitment, event, scenario, plan
type EntityType string

const (
	EntityPerson     EntityType = "person"
	EntityAsset      EntityType = "asset"
	EntityIncome     EntityType = "income"
	EntityCommitment EntityType = "commitment"
	EntityEvent      EntityType = "event"
	EntityScenario   EntityType = "scenario"
	EntityPlan       EntityType = "plan"
)

// KnownActionType reports whether t is one of the supported action types.
func KnownActionType(t ActionType) bool {
	switch t {
	case ActionCreate, ActionUpdate, ActionDelete, ActionRevert, ActionImport:
		return true
	}
	return false
}

// KnownEntityType reports whether t is one of the supported entity types.
func KnownEntityType(t EntityType) bool {
	switch t {
	case EntityPerson, EntityAsset, EntityIncome, EntityCommitment,
		EntityEvent, EntityScenario, EntityPlan:
		return true
	}
	return false
}
