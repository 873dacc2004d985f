package describe

import (
	"fmt"

	"plan-timeline/internal/domain/timeline"
)

type Person struct {
	ID        string
	Name      string
	BirthYear int
}

func PersonChange(action timeline.ActionType, p Person) timeline.RecordInput {
	details := fmt.Sprintf("Person %q", p.Name)
	if p.BirthYear > 0 {
		details = fmt.Sprintf("Person %q, born %d", p.Name, p.BirthYear)
	}
	return timeline.RecordInput{
		ActionType: action,
		EntityType: timeline.EntityPerson,
		EntityID:   p.ID,
		Summary:    fmt.Sprintf("%s person: %s", actionVerb(action), p.Name),
		Details:    details,
	}
}
