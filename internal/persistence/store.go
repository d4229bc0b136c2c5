// Package persistence defines the boundary the core hands finished cell plans
// across (§6.4): the core never writes directly, it only builds CellPlan records and
// hands them to a Store implementation the caller supplies.
package persistence

import "github.com/mhus/nimbus-world-sub007/internal/composition"

// Store accepts the final cell plan list from one composition run and is
// responsible for idempotent upsert by (worldId, position).
type Store interface {
	UpsertCellPlans(plans []composition.CellPlan) error
}
