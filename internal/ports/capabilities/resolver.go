package capabilities

import "context"

// Resolver answers whether a user's subscription carries a capability,
// e.g. the spreadsheet export.
type Resolver interface {
	Has(ctx context.Context, userID, capability string) (bool, error)
}
