// Package points places every zero-size Point feature inside a specific hex and
// local (lx, lz) coordinate, honoring snap mode, avoid, and preferNear filters.
package points

import (
	"sort"

	"github.com/mhus/nimbus-world-sub007/internal/biome"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/rng"
)

const (
	stageTag = "point"

	// gridSize is the local coordinate space within a cell; lx/lz are chosen in
	// [margin, gridSize-margin).
	gridSize = 16
	margin   = 2
)

// Result is the outcome of placing every Point feature.
type Result struct {
	Placed   int
	Errors   []error
}

// ComposeAll places every Point feature in comp against the already-placed biomes in
// biomeRes.
func ComposeAll(comp *composition.Composition, biomeRes *biome.Result, seed int64) *Result {
	res := &Result{}
	for _, f := range comp.Features {
		if f.Header.Kind != composition.KindPoint {
			continue
		}
		if err := placePoint(comp, f, biomeRes, seed); err != nil {
			f.Header.Status = composition.StatusFailed
			f.Header.FailureMessage = err.Error()
			res.Errors = append(res.Errors, err)
			continue
		}
		f.Header.Status = composition.StatusComposed
		res.Placed++
	}
	return res
}

func placePoint(comp *composition.Composition, f *composition.Feature, biomeRes *biome.Result, seed int64) error {
	p := f.Point
	targetFeature := comp.FeatureByName(p.Target)
	if targetFeature == nil {
		return &composition.UnknownTargetError{FeatureID: f.ID(), Target: p.Target}
	}
	target, ok := biomeRes.PlacedBiomes[targetFeature.ID()]
	if !ok {
		return &composition.UnknownTargetError{FeatureID: f.ID(), Target: p.Target}
	}

	avoidSets := resolveBiomeSets(comp, biomeRes, p.Avoid)
	preferSets := resolveBiomeSets(comp, biomeRes, p.PreferNear)

	candidates := candidateCells(target, p.Mode)
	candidates = filterAvoid(candidates, avoidSets)
	if len(candidates) == 0 {
		return &composition.UnknownTargetError{FeatureID: f.ID(), Target: p.Target}
	}

	best := pickBest(candidates, preferSets, rng.Split(seed, stageTag, f.ID()))

	stream := rng.Split(seed, stageTag, f.ID()+"#local")
	lx := margin + stream.Intn(gridSize-2*margin)
	lz := margin + stream.Intn(gridSize-2*margin)

	p.Placed = true
	p.PlacedCoordinate = best
	p.PlacedLx = lx
	p.PlacedLz = lz
	p.PlacedInBiome = targetFeature.ID()
	return nil
}

func resolveBiomeSets(comp *composition.Composition, biomeRes *biome.Result, names []string) []*composition.PlacedBiome {
	out := make([]*composition.PlacedBiome, 0, len(names))
	for _, name := range names {
		feat := comp.FeatureByName(name)
		if feat == nil {
			continue
		}
		if placed, ok := biomeRes.PlacedBiomes[feat.ID()]; ok {
			out = append(out, placed)
		}
	}
	return out
}

// candidateCells returns, for INSIDE mode, cells whose every neighbor lies in the
// target biome; for EDGE mode, cells with at least one neighbor outside it.
func candidateCells(target *composition.PlacedBiome, mode composition.SnapMode) []hexmath.Hex {
	out := make([]hexmath.Hex, 0, len(target.Coordinates))
	for h := range target.Coordinates {
		allInside := true
		for _, n := range h.Neighbors() {
			if _, in := target.Coordinates[n]; !in {
				allInside = false
				break
			}
		}
		if mode == composition.SnapEdge {
			if !allInside {
				out = append(out, h)
			}
		} else {
			if allInside {
				out = append(out, h)
			}
		}
	}
	return out
}

// filterAvoid removes any candidate that is itself in, or a neighbor of, a cell
// belonging to one of the avoid biomes.
func filterAvoid(candidates []hexmath.Hex, avoid []*composition.PlacedBiome) []hexmath.Hex {
	if len(avoid) == 0 {
		return candidates
	}
	blocked := make(map[hexmath.Hex]struct{})
	for _, biomeSet := range avoid {
		for h := range biomeSet.Coordinates {
			blocked[h] = struct{}{}
			for _, n := range h.Neighbors() {
				blocked[n] = struct{}{}
			}
		}
	}
	out := make([]hexmath.Hex, 0, len(candidates))
	for _, h := range candidates {
		if _, hit := blocked[h]; hit {
			continue
		}
		out = append(out, h)
	}
	return out
}

// pickBest scores candidates by minimum distance to any preferNear biome (smaller
// wins), breaking ties by hex lexicographic order then by RNG draw.
func pickBest(candidates []hexmath.Hex, preferNear []*composition.PlacedBiome, stream *rng.Stream) hexmath.Hex {
	type scored struct {
		hex   hexmath.Hex
		score int
	}
	scoredList := make([]scored, len(candidates))
	for i, h := range candidates {
		scoredList[i] = scored{hex: h, score: minDistanceTo(h, preferNear)}
	}

	sort.Slice(scoredList, func(i, j int) bool {
		if scoredList[i].score != scoredList[j].score {
			return scoredList[i].score < scoredList[j].score
		}
		if scoredList[i].hex.Q != scoredList[j].hex.Q {
			return scoredList[i].hex.Q < scoredList[j].hex.Q
		}
		return scoredList[i].hex.R < scoredList[j].hex.R
	})

	// Collect the best-scoring tier and break remaining ties with the RNG stream.
	bestScore := scoredList[0].score
	tier := make([]hexmath.Hex, 0, 1)
	for _, s := range scoredList {
		if s.score != bestScore {
			break
		}
		tier = append(tier, s.hex)
	}
	if len(tier) == 1 {
		return tier[0]
	}
	return tier[stream.Intn(len(tier))]
}

func minDistanceTo(h hexmath.Hex, biomes []*composition.PlacedBiome) int {
	if len(biomes) == 0 {
		return 0
	}
	best := -1
	for _, b := range biomes {
		for cell := range b.Coordinates {
			d := h.Distance(cell)
			if best == -1 || d < best {
				best = d
			}
		}
	}
	if best == -1 {
		return 0
	}
	return best
}
