package describe

import (
	"fmt"

	"plan-timeline/internal/domain/timeline"
)

type Event struct {
	ID   string
	Name string
	Year int
}

func EventChange(action timeline.ActionType, e Event) timeline.RecordInput {
	details := fmt.Sprintf("Life event %q", e.Name)
	if e.Year > 0 {
		details = fmt.Sprintf("Life event %q in %d", e.Name, e.Year)
	}
	return timeline.RecordInput{
		ActionType: action,
		EntityType: timeline.EntityEvent,
		EntityID:   e.ID,
		Summary:    fmt.Sprintf("%s event: %s", actionVerb(action), e.Name),
		Details:    details,
	}
}
