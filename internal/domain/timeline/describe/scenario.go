package describe

import (
	"fmt"

	"plan-timeline/internal/domain/timeline"
)

type Scenario struct {
	ID   string
	Name string
}

func ScenarioChange(action timeline.ActionType, s Scenario) timeline.RecordInput {
	return timeline.RecordInput{
		ActionType: action,
		EntityType: timeline.EntityScenario,
		EntityID:   s.ID,
		ScenarioID: s.ID,
		Summary:    fmt.Sprintf("%s scenario: %s", actionVerb(action), s.Name),
		Details:    fmt.Sprintf("Scenario %q", s.Name),
	}
}
