// Package describe turns raw plan entity values into the human summary and
// detail strings recorded on the timeline. Builders are pure: they hold no
// state and enforce no log invariants. Callers attach snapshots and hand the
// result to the tracker.
package describe

import (
	"fmt"
	"strconv"
	"strings"

	"plan-timeline/internal/domain/timeline"
)

func actionVerb(action timeline.ActionType) string {
	switch action {
	case timeline.ActionCreate:
		return "Added"
	case timeline.ActionUpdate:
		return "Updated"
	case timeline.ActionDelete:
		return "Removed"
	case timeline.ActionRevert:
		return "Reverted"
	case timeline.ActionImport:
		return "Imported"
	default:
		return "Changed"
	}
}

// formatMoney renders an amount for display strings, e.g. "USD 1,234.56".
func formatMoney(amount float64, currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = "USD"
	}

	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)

	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]
	var grouped strings.Builder
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	out := fmt.Sprintf("%s %s.%s", currency, grouped.String(), parts[1])
	if neg {
		out = "-" + out
	}
	return out
}
