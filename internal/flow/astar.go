package flow

import (
	"container/heap"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
)

// terrainCost returns the per-step cost added on top of the base cost of 1 for
// entering cell h, plus whether the cell is impassable for this flow variant. Costs
// follow §4.6.1: OCEAN costs +4 for roads/walls and -1 (a discount) for rivers;
// MOUNTAIN costs +3 for roads/rivers and 0 for walls.
func terrainCost(grid *composition.FilledHexGrid, h hexmath.Hex, variant composition.FlowVariant) (cost float64, blocked bool) {
	cell := grid.Get(h)
	if cell == nil {
		return 0, false
	}

	isOcean := (cell.Origin.IsBiome && cell.Parameters["biome"] == string(composition.AreaOcean)) ||
		(!cell.Origin.IsBiome && cell.Origin.FillerKind == composition.FillerOcean)
	isMountain := (cell.Origin.IsBiome && cell.Parameters["biome"] == string(composition.AreaMountains)) ||
		(!cell.Origin.IsBiome && cell.Origin.FillerKind == composition.FillerMountain)

	switch variant {
	case composition.FlowRiver:
		if isOcean {
			return -1, false
		}
		if isMountain {
			return 3, false
		}
	case composition.FlowWall, composition.FlowSideWall:
		if isOcean {
			return 4, false
		}
		if isMountain {
			return 0, false
		}
	default: // Road
		if isOcean {
			return 4, false
		}
		if isMountain {
			return 3, false
		}
	}
	return 0, false
}

// isOceanCell reports whether h is an OCEAN cell (biome or filler), used by
// force=false river truncation.
func isOceanCell(grid *composition.FilledHexGrid, h hexmath.Hex) bool {
	cell := grid.Get(h)
	if cell == nil {
		return false
	}
	if cell.Origin.IsBiome {
		return cell.Parameters["biome"] == string(composition.AreaOcean)
	}
	return cell.Origin.FillerKind == composition.FillerOcean
}

type pqItem struct {
	hex      hexmath.Hex
	priority float64
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// astar finds the lowest-cost path from start to goal over the filled hex grid using
// terrainCost per variant and hex distance as the admissible-enough heuristic. It
// returns nil if no path exists under the grid's bounds.
func astar(grid *composition.FilledHexGrid, start, goal hexmath.Hex, variant composition.FlowVariant, bounds func(hexmath.Hex) bool) []hexmath.Hex {
	open := &priorityQueue{}
	heap.Init(open)
	heap.Push(open, &pqItem{hex: start, priority: float64(start.Distance(goal))})

	cameFrom := make(map[hexmath.Hex]hexmath.Hex)
	gScore := map[hexmath.Hex]float64{start: 0}
	visited := make(map[hexmath.Hex]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pqItem).hex
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if cur == goal {
			return reconstructPath(cameFrom, cur)
		}

		for _, n := range cur.Neighbors() {
			if bounds != nil && !bounds(n) {
				continue
			}
			cost, blocked := terrainCost(grid, n, variant)
			if blocked {
				continue
			}
			step := 1 + cost
			if step < 0.1 {
				step = 0.1
			}
			tentative := gScore[cur] + step
			if existing, ok := gScore[n]; ok && tentative >= existing {
				continue
			}
			gScore[n] = tentative
			cameFrom[n] = cur
			heap.Push(open, &pqItem{hex: n, priority: tentative + float64(n.Distance(goal))})
		}
	}
	return nil
}

func reconstructPath(cameFrom map[hexmath.Hex]hexmath.Hex, goal hexmath.Hex) []hexmath.Hex {
	path := []hexmath.Hex{goal}
	cur := goal
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append([]hexmath.Hex{prev}, path...)
		cur = prev
	}
	return path
}
