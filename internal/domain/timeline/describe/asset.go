package describe

import (
	"fmt"

	"plan-timeline/internal/domain/timeline"
)

type Asset struct {
	ID       string
	Name     string
	Value    float64
	Currency string
}

func AssetChange(action timeline.ActionType, a Asset) timeline.RecordInput {
	return timeline.RecordInput{
		ActionType: action,
		EntityType: timeline.EntityAsset,
		EntityID:   a.ID,
		Summary:    fmt.Sprintf("%s asset: %s", actionVerb(action), a.Name),
		Details:    fmt.Sprintf("Asset %q valued at %s", a.Name, formatMoney(a.Value, a.Currency)),
	}
}
