package describe

import (
	"fmt"

	"plan-timeline/internal/domain/timeline"
)

type Commitment struct {
	ID       string
	Name     string
	Amount   float64
	Currency string
	EndYear  int
}

func CommitmentChange(action timeline.ActionType, c Commitment) timeline.RecordInput {
	details := fmt.Sprintf("Commitment %q of %s", c.Name, formatMoney(c.Amount, c.Currency))
	if c.EndYear > 0 {
		details = fmt.Sprintf("%s until %d", details, c.EndYear)
	}
	return timeline.RecordInput{
		ActionType: action,
		EntityType: timeline.EntityCommitment,
		EntityID:   c.ID,
		Summary:    fmt.Sprintf("%s commitment: %s", actionVerb(action), c.Name),
		Details:    details,
	}
}
