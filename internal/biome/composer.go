// Package biome assigns hex coordinates to each Area feature (biome or continent
// region), honoring shape, size range, anchor/direction/distance/priority, with
// collision detection and retries.
package biome

import (
	"sort"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/rng"
)

const (
	stageTag = "biome"

	// nRetries is the per-position attempt budget before BiomeComposer advances to
	// the feature's next declared position.
	nRetries = 12
	// nOuter is the outer retry budget across all positions, with increasing jitter
	// on the distance draw, before a feature is declared PlacementExhausted.
	nOuter = 5
)

// Result is the outcome of composing every Area feature in a Composition.
type Result struct {
	PlacedBiomes map[string]*composition.PlacedBiome
	HexGrids     map[string]*composition.FeatureHexGrid
	Success      bool
	Errors       []error
	Retries      int
}

// claimMap tracks which feature owns each hex as biomes are placed, in the order
// defined by the composition's placement priority.
type claimMap map[hexmath.Hex]string

// ComposeAll places every Area feature in comp, returning the placement result. On
// failure for a mandatory feature, composition continues for independent features;
// Success reflects whether every feature placed.
func ComposeAll(comp *composition.Composition, worldID string, seed int64) *Result {
	res := &Result{
		PlacedBiomes: make(map[string]*composition.PlacedBiome),
		HexGrids:     make(map[string]*composition.FeatureHexGrid),
		Success:      true,
	}

	claimed := make(claimMap)
	order := placementOrder(comp)

	for _, f := range order {
		placed, grid, attempts, err := placeFeature(comp, f, claimed, seed)
		res.Retries += attempts
		if err != nil {
			f.Header.Status = composition.StatusFailed
			f.Header.FailureMessage = err.Error()
			res.Errors = append(res.Errors, err)
			res.Success = false
			continue
		}
		f.Header.Status = composition.StatusComposed
		res.PlacedBiomes[f.ID()] = placed
		res.HexGrids[f.ID()] = grid
		for h := range placed.Coordinates {
			claimed[h] = f.ID()
		}
	}
	return res
}

// placementOrder returns Area features ordered by descending priority of their
// first declared position, then by insertion order — the composition's
// deterministic tie-break.
func placementOrder(comp *composition.Composition) []*composition.Feature {
	areas := make([]*composition.Feature, 0)
	for _, f := range comp.Features {
		if f.Header.Kind == composition.KindArea {
			areas = append(areas, f)
		}
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return firstPriority(areas[i]) > firstPriority(areas[j])
	})
	return areas
}

func firstPriority(f *composition.Feature) int {
	if f.Area == nil || len(f.Area.Positions) == 0 {
		return 0
	}
	return f.Area.Positions[0].Priority
}

func placeFeature(comp *composition.Composition, f *composition.Feature, claimed claimMap, seed int64) (*composition.PlacedBiome, *composition.FeatureHexGrid, int, error) {
	a := f.Area
	stream := rng.Split(seed, stageTag, f.ID())
	targetSize := stream.IntRange(a.CalculatedSizeFrom, a.CalculatedSizeTo)
	if targetSize < 1 {
		targetSize = 1
	}

	attempts := 0
	for outer := 0; outer < nOuter; outer++ {
		jitter := outer // widen the distance draw each outer retry
		center, side, ok := resolveCenter(comp, f, claimed, stream, jitter, &attempts)
		if !ok {
			continue
		}

		var coords map[hexmath.Hex]struct{}
		switch a.Shape {
		case composition.ShapeLine:
			coords = growLine(center, side, targetSize, a, stream, claimed)
		default:
			coords = growCircle(center, targetSize, stream, claimed)
		}

		placed := &composition.PlacedBiome{
			FeatureID:   f.ID(),
			AreaType:    a.Type,
			ContinentID: a.ContinentID,
			Center:      center,
			Coordinates: coords,
			ActualSize:  len(coords),
		}
		grid := buildHexGrid(f, placed)
		return placed, grid, attempts, nil
	}

	return nil, nil, attempts, &composition.PlacementExhaustedError{FeatureID: f.ID(), Attempts: attempts}
}

// resolveCenter walks the feature's declared positions in order, retrying each up to
// nRetries times with a freshly-sampled distance, until it finds an unclaimed
// candidate hex.
func resolveCenter(comp *composition.Composition, f *composition.Feature, claimed claimMap, stream *rng.Stream, jitter int, attempts *int) (hexmath.Hex, hexmath.Side, bool) {
	for _, pos := range f.Area.Positions {
		anchor := resolveAnchorHex(comp, pos.Anchor)
		side := pos.ResolvedSide

		lo, hi := pos.DistanceFrom, pos.DistanceTo+jitter
		for try := 0; try < nRetries; try++ {
			*attempts++
			d := stream.IntRange(lo, hi)
			candidate := hexmath.Step(anchor, side, d)
			if _, taken := claimed[candidate]; !taken {
				return candidate, side, true
			}
		}
	}
	return hexmath.Hex{}, 0, false
}

// resolveAnchorHex resolves an anchor name to a hex: a placed Point resolves to its
// cell; every other anchor, including one naming an Area (placed or not), resolves
// to the origin. Points are placed after biomes, so during biome placement an
// anchor in practice always resolves to the origin.
func resolveAnchorHex(comp *composition.Composition, anchor string) hexmath.Hex {
	if anchor == "" || anchor == "origin" {
		return hexmath.Origin
	}
	target := comp.FeatureByName(anchor)
	if target == nil {
		return hexmath.Origin
	}
	if target.Point != nil && target.Point.Placed {
		return target.Point.PlacedCoordinate
	}
	return hexmath.Origin
}

// growCircle BFS-grows a region of size s from center, at each step shuffling the
// unclaimed frontier with the feature's RNG stream and taking the first candidate —
// this is the source of the shape's randomness; see DESIGN.md for the tie-break
// decision against the lexicographic-order wording in the spec.
func growCircle(center hexmath.Hex, size int, stream *rng.Stream, claimed claimMap) map[hexmath.Hex]struct{} {
	coords := map[hexmath.Hex]struct{}{center: {}}
	inFrontier := map[hexmath.Hex]bool{}
	frontier := make([]hexmath.Hex, 0, 6)

	addFrontier := func(h hexmath.Hex) {
		for _, n := range h.Neighbors() {
			if _, already := coords[n]; already {
				continue
			}
			if _, taken := claimed[n]; taken {
				continue
			}
			if inFrontier[n] {
				continue
			}
			inFrontier[n] = true
			frontier = append(frontier, n)
		}
	}
	addFrontier(center)

	for len(coords) < size && len(frontier) > 0 {
		sortHexesLex(frontier)
		stream.Shuffle(len(frontier), func(i, j int) { frontier[i], frontier[j] = frontier[j], frontier[i] })

		next := frontier[0]
		frontier = frontier[1:]
		delete(inFrontier, next)

		if _, taken := claimed[next]; taken {
			continue
		}
		coords[next] = struct{}{}
		addFrontier(next)
	}
	return coords
}

// growLine walks size steps from center along side, with a single-step ±60deg
// deviation per the feature's DeviationLeft/DeviationRight probabilities. actualSize
// clamps to the distinct cells actually visited (see DESIGN.md open-question
// decision), which may be less than the planned size if the walker is boxed in by
// already-claimed cells.
func growLine(center hexmath.Hex, side hexmath.Side, size int, a *composition.AreaFeature, stream *rng.Stream, claimed claimMap) map[hexmath.Hex]struct{} {
	coords := map[hexmath.Hex]struct{}{center: {}}
	cur := center

	for i := 1; i < size; i++ {
		stepSide := side
		roll := stream.Float64()
		switch {
		case roll < a.DeviationLeft:
			stepSide = rotate(side, -1)
		case roll < a.DeviationLeft+a.DeviationRight:
			stepSide = rotate(side, 1)
		}

		next := cur.Neighbor(stepSide)
		if _, taken := claimed[next]; taken {
			next = cur.Neighbor(side)
			if _, taken := claimed[next]; taken {
				break
			}
		}
		coords[next] = struct{}{}
		cur = next
	}
	return coords
}

// rotate steps a Side by k*60 degrees; our six Sides are already laid out in 60
// degree increments (NE,E,SE,SW,W,NW), so rotation is simple modular addition.
func rotate(s hexmath.Side, k int) hexmath.Side {
	return hexmath.Side((int(s) + k + 6) % 6)
}

func sortHexesLex(hs []hexmath.Hex) {
	sort.Slice(hs, func(i, j int) bool {
		if hs[i].Q != hs[j].Q {
			return hs[i].Q < hs[j].Q
		}
		return hs[i].R < hs[j].R
	})
}

// buildHexGrid copies the feature's own parameters onto each hex it occupies, so the
// Assembler has a per-cell source for this biome's data.
func buildHexGrid(f *composition.Feature, placed *composition.PlacedBiome) *composition.FeatureHexGrid {
	grid := composition.NewFeatureHexGrid(f.ID())
	for h := range placed.Coordinates {
		cell := grid.Cell(h)
		for k, v := range f.Header.Parameters {
			cell.Parameters[k] = v
		}
		if placed.ContinentID != "" {
			cell.Parameters["continentId"] = placed.ContinentID
		}
		cell.Parameters["biome"] = string(placed.AreaType)
		cell.Parameters["biomeName"] = f.Name()
	}
	return grid
}
