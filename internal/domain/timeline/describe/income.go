package describe

import (
	"fmt"

	"plan-timeline/internal/domain/timeline"
)

type Income struct {
	ID        string
	Source    string
	Amount    float64
	Currency  string
	Frequency string // "monthly", "yearly", ...
}

func IncomeChange(action timeline.ActionType, in Income) timeline.RecordInput {
	details := fmt.Sprintf("Income %q of %s", in.Source, formatMoney(in.Amount, in.Currency))
	if in.Frequency != "" {
		details += " " + in.Frequency
	}
	return timeline.RecordInput{
		ActionType: action,
		EntityType: timeline.EntityIncome,
		EntityID:   in.ID,
		Summary:    fmt.Sprintf("%s income: %s", actionVerb(action), in.Source),
		Details:    details,
	}
}
