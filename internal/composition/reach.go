package composition

import "github.com/mhus/nimbus-world-sub007/internal/hexmath"

// IndirectReach walks outward from h across water cells (ocean or coast filler),
// mirroring a shipping-range bridge: two cells separated by a narrow strait still
// count as reachable within a bounded number of water hops, the same "distance-aware
// adjacency" a river-spanning bridge gives two land hexes on either bank. It reports
// every cell reached within maxDistance hops and the number of hops taken to reach it;
// h itself is never included. A cell reached by stepping off the water onto dry land
// is recorded but not expanded further, since the reach models crossing water, not
// traveling over land once ashore.
func (g *FilledHexGrid) IndirectReach(h hexmath.Hex, maxDistance int) map[hexmath.Hex]int {
	reach := make(map[hexmath.Hex]int)
	if maxDistance <= 0 {
		return reach
	}

	type step struct {
		hex  hexmath.Hex
		hops int
	}
	var frontier []step
	for _, n := range h.Neighbors() {
		if isWater(g.Get(n)) {
			reach[n] = 1
			frontier = append(frontier, step{n, 1})
		}
	}

	for len(frontier) > 0 {
		var next []step
		for _, cur := range frontier {
			if cur.hops >= maxDistance {
				continue
			}
			for _, n := range cur.hex.Neighbors() {
				if n == h {
					continue
				}
				if _, seen := reach[n]; seen {
					continue
				}
				reach[n] = cur.hops + 1
				if isWater(g.Get(n)) {
					next = append(next, step{n, cur.hops + 1})
				}
			}
		}
		frontier = next
	}
	return reach
}

func isWater(cell *FilledCell) bool {
	if cell == nil {
		return false
	}
	return !cell.Origin.IsBiome && (cell.Origin.FillerKind == FillerOcean || cell.Origin.FillerKind == FillerCoast)
}
