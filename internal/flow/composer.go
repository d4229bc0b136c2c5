// Package flow routes Road, River, and Wall features across the filled hex grid:
// point-to-point pathfinding with terrain-aware costs and curvature, closed-loop wall
// rings, and side-wall boundary descriptors.
package flow

import (
	"github.com/mhus/nimbus-world-sub007/internal/biome"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/rng"
)

const stageTag = "flow"

// Result is the outcome of routing every Flow feature.
type Result struct {
	HexGrids      map[string]*composition.FeatureHexGrid
	TotalSegments int
	Errors        []error
}

// ComposeAll routes every Flow feature in comp against the filled grid produced by
// gapfill.Fill, in declaration order (later flows may reference earlier ones via
// mergeToId).
func ComposeAll(comp *composition.Composition, biomeRes *biome.Result, filled *composition.FilledHexGrid, seed int64) *Result {
	res := &Result{HexGrids: make(map[string]*composition.FeatureHexGrid)}

	for _, f := range comp.Features {
		if f.Header.Kind != composition.KindFlow {
			continue
		}
		grid, err := composeFlow(comp, f, biomeRes, filled, seed)
		if err != nil {
			f.Header.Status = composition.StatusFailed
			f.Header.FailureMessage = err.Error()
			res.Errors = append(res.Errors, err)
			continue
		}
		f.Header.Status = composition.StatusComposed
		res.HexGrids[f.ID()] = grid
		for _, contrib := range grid.Cells {
			res.TotalSegments += len(contrib.Segments)
		}
	}
	return res
}

func composeFlow(comp *composition.Composition, f *composition.Feature, biomeRes *biome.Result, filled *composition.FilledHexGrid, seed int64) (*composition.FeatureHexGrid, error) {
	stream := rng.Split(seed, stageTag, f.ID())
	switch {
	case f.Flow.Variant == composition.FlowSideWall:
		return composeSideWall(comp, f, biomeRes)
	case f.Flow.IsClosedLoop():
		return composeClosedLoop(comp, f, stream)
	default:
		return composeOpenFlow(comp, f, filled, stream)
	}
}
