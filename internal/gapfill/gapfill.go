// Package gapfill expands sparse biome placements into a complete tiled field and
// guarantees that any two Areas sharing a continentId are connected over
// land/continent-fill cells.
package gapfill

import (
	"sort"

	"github.com/mhus/nimbus-world-sub007/internal/biome"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
)

// Result is the outcome of filling every gap around a biome placement.
type Result struct {
	Grid               *composition.FilledHexGrid
	ContinentFillCount int
	LandFillCount      int
	CoastFillCount     int
	OceanFillCount     int
	Warnings           []string
}

// Fill expands biomeRes into a complete FilledHexGrid: continent filler first (so it
// can use any still-unclaimed cell as passable space), then land, coast, and ocean
// border rings, in that fixed order.
func Fill(biomeRes *biome.Result, comp *composition.Composition, worldID string, oceanBorderRings int) *Result {
	res := &Result{Grid: composition.NewFilledHexGrid()}
	seedBiomes(res.Grid, biomeRes)

	res.ContinentFillCount = fillContinents(res.Grid, biomeRes, comp)
	landCells := landSeedCells(biomeRes)
	res.LandFillCount = fillLand(res.Grid, landCells)
	res.CoastFillCount = fillCoast(res.Grid)
	res.OceanFillCount = fillOcean(res.Grid, oceanBorderRings)

	return res
}

func seedBiomes(grid *composition.FilledHexGrid, biomeRes *biome.Result) {
	for featureID, placed := range biomeRes.PlacedBiomes {
		hexGrid := biomeRes.HexGrids[featureID]
		for h := range placed.Coordinates {
			cell := grid.Claim(h, composition.CellOrigin{IsBiome: true, BiomeID: featureID})
			if hexGrid != nil {
				if contrib, ok := hexGrid.Cells[h]; ok {
					for k, v := range contrib.Parameters {
						cell.Parameters[k] = v
					}
				}
			}
		}
	}
}

// fillContinents connects, for each declared continentId with 2+ placed members, all
// member biomes via shortest hex paths over cells that are either unclaimed or
// already part of the same continent. Filler cells inserted along those paths are
// tagged CONTINENT and inherit the continent declaration's parameters.
func fillContinents(grid *composition.FilledHexGrid, biomeRes *biome.Result, comp *composition.Composition) int {
	byContinent := make(map[string][]*composition.PlacedBiome)
	for _, placed := range biomeRes.PlacedBiomes {
		if placed.ContinentID == "" {
			continue
		}
		byContinent[placed.ContinentID] = append(byContinent[placed.ContinentID], placed)
	}

	filled := 0
	// Deterministic iteration order over continent ids.
	ids := make([]string, 0, len(byContinent))
	for id := range byContinent {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, continentID := range ids {
		members := byContinent[continentID]
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].FeatureID < members[j].FeatureID })

		continentDecl := comp.ContinentByID(continentID)
		params := map[string]string{"continentId": continentID}
		if continentDecl != nil {
			for k, v := range continentDecl.Parameters {
				params[k] = v
			}
		}

		connected := make(map[hexmath.Hex]struct{})
		for h := range members[0].Coordinates {
			connected[h] = struct{}{}
		}

		for i := 1; i < len(members); i++ {
			path := shortestPath(grid, connected, members[i].Coordinates, continentID)
			for _, h := range path {
				if _, already := connected[h]; already {
					continue
				}
				connected[h] = struct{}{}
				if existing := grid.Get(h); existing == nil {
					cell := grid.Claim(h, composition.CellOrigin{IsBiome: false, FillerKind: composition.FillerContinent})
					for k, v := range params {
						cell.Parameters[k] = v
					}
					if _, ok := cell.Parameters["g_builder"]; !ok {
						cell.Parameters["g_builder"] = "island"
					}
					filled++
				}
			}
			for h := range members[i].Coordinates {
				connected[h] = struct{}{}
			}
		}
	}
	return filled
}

// shortestPath runs a multi-source BFS from every cell in from to the nearest cell in
// to, over cells that are unclaimed or already claimed by the same continent. It
// returns the path's intermediate cells (excluding the source, including the hit).
func shortestPath(grid *composition.FilledHexGrid, from map[hexmath.Hex]struct{}, to map[hexmath.Hex]struct{}, continentID string) []hexmath.Hex {
	passable := func(h hexmath.Hex) bool {
		cell := grid.Get(h)
		if cell == nil {
			return true
		}
		return cell.Parameters["continentId"] == continentID
	}

	parent := make(map[hexmath.Hex]hexmath.Hex)
	visited := make(map[hexmath.Hex]bool)
	queue := make([]hexmath.Hex, 0, len(from))
	for h := range from {
		visited[h] = true
		queue = append(queue, h)
	}
	sortHexes(queue)

	var hit hexmath.Hex
	found := false
	for len(queue) > 0 && !found {
		cur := queue[0]
		queue = queue[1:]
		if _, isTarget := to[cur]; isTarget {
			hit = cur
			found = true
			break
		}
		neighbors := cur.Neighbors()
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			if !passable(n) {
				continue
			}
			visited[n] = true
			parent[n] = cur
			queue = append(queue, n)
		}
	}
	if !found {
		return nil
	}

	var path []hexmath.Hex
	cur := hit
	for {
		if _, isSource := from[cur]; isSource {
			break
		}
		path = append([]hexmath.Hex{cur}, path...)
		p, ok := parent[cur]
		if !ok {
			break
		}
		cur = p
	}
	return path
}

// landSeedCells collects the coordinates of every placed non-OCEAN Area.
func landSeedCells(biomeRes *biome.Result) map[hexmath.Hex]struct{} {
	out := make(map[hexmath.Hex]struct{})
	for _, placed := range biomeRes.PlacedBiomes {
		if placed.AreaType == composition.AreaOcean {
			continue
		}
		for h := range placed.Coordinates {
			out[h] = struct{}{}
		}
	}
	return out
}

// fillLand expands exactly one ring of unclaimed cells around the land seed set,
// tagging them Filler{LAND}.
func fillLand(grid *composition.FilledHexGrid, landCells map[hexmath.Hex]struct{}) int {
	frontier := make(map[hexmath.Hex]struct{})
	for h := range landCells {
		for _, n := range h.Neighbors() {
			if grid.Get(n) != nil {
				continue
			}
			frontier[n] = struct{}{}
		}
	}
	count := 0
	for h := range frontier {
		cell := grid.Claim(h, composition.CellOrigin{FillerKind: composition.FillerLand})
		cell.Parameters["g_builder"] = "island"
		count++
	}
	return count
}

// isLand reports whether a claimed cell counts as land for coast/ocean purposes:
// any biome cell other than OCEAN, or a LAND/CONTINENT filler cell.
func isLand(cell *composition.FilledCell) bool {
	if cell == nil {
		return false
	}
	if cell.Origin.IsBiome {
		return cell.Parameters["biome"] != string(composition.AreaOcean)
	}
	switch cell.Origin.FillerKind {
	case composition.FillerLand, composition.FillerContinent, composition.FillerMountain:
		return true
	default:
		return false
	}
}

// fillCoast claims every unclaimed cell adjacent to a land cell as Filler{COAST}, one
// ring wide.
func fillCoast(grid *composition.FilledHexGrid) int {
	candidates := make(map[hexmath.Hex]struct{})
	for h, cell := range grid.Cells {
		if !isLand(cell) {
			continue
		}
		for _, n := range h.Neighbors() {
			if grid.Get(n) != nil {
				continue
			}
			candidates[n] = struct{}{}
		}
	}
	count := 0
	for h := range candidates {
		cell := grid.Claim(h, composition.CellOrigin{FillerKind: composition.FillerCoast})
		cell.Parameters["g_builder"] = "coast"
		count++
	}
	return count
}

// fillOcean claims oceanBorderRings rings of unclaimed cells outside the outermost
// coast, tagging them Filler{OCEAN}.
func fillOcean(grid *composition.FilledHexGrid, oceanBorderRings int) int {
	if oceanBorderRings <= 0 {
		return 0
	}

	frontier := make(map[hexmath.Hex]struct{})
	for h, cell := range grid.Cells {
		if cell.Origin.FillerKind != composition.FillerCoast {
			continue
		}
		for _, n := range h.Neighbors() {
			if grid.Get(n) != nil {
				continue
			}
			frontier[n] = struct{}{}
		}
	}

	count := 0
	for ring := 0; ring < oceanBorderRings && len(frontier) > 0; ring++ {
		next := make(map[hexmath.Hex]struct{})
		for h := range frontier {
			if grid.Get(h) == nil {
				cell := grid.Claim(h, composition.CellOrigin{FillerKind: composition.FillerOcean})
				cell.Parameters["g_builder"] = "ocean"
				count++
			}
			for _, n := range h.Neighbors() {
				if grid.Get(n) != nil {
					continue
				}
				next[n] = struct{}{}
			}
		}
		frontier = next
	}
	return count
}

func sortHexes(hs []hexmath.Hex) {
	sort.Slice(hs, func(i, j int) bool {
		if hs[i].Q != hs[j].Q {
			return hs[i].Q < hs[j].Q
		}
		return hs[i].R < hs[j].R
	})
}
