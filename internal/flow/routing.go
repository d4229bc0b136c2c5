package flow

import (
	"github.com/mhus/nimbus-world-sub007/internal/biome"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/rng"
)

const (
	defaultClosedLoopRadius = 3
	defaultSideWallDistance = 1
)

func resolveFeatureRef(comp *composition.Composition, ref string) *composition.Feature {
	if f := comp.FeatureByID(ref); f != nil {
		return f
	}
	return comp.FeatureByName(ref)
}

// resolveEndpointHex resolves a Start/End/Waypoint/MergeTo reference to a concrete
// hex. A reference to a Point feature resolves to its placed cell and local (lx, lz);
// a reference to another Flow feature (mergeToId) resolves through that flow's own
// end point, one level deep.
func resolveEndpointHex(comp *composition.Composition, featureID, ref string) (hex hexmath.Hex, lx, lz int, hasLocal bool, err error) {
	feat := resolveFeatureRef(comp, ref)
	if feat == nil {
		return hexmath.Hex{}, 0, 0, false, &composition.UnknownTargetError{FeatureID: featureID, Target: ref}
	}
	switch feat.Header.Kind {
	case composition.KindPoint:
		if feat.Point == nil || !feat.Point.Placed {
			return hexmath.Hex{}, 0, 0, false, &composition.UnknownTargetError{FeatureID: featureID, Target: ref}
		}
		return feat.Point.PlacedCoordinate, feat.Point.PlacedLx, feat.Point.PlacedLz, true, nil
	case composition.KindFlow:
		if feat.Flow != nil && feat.Flow.EndPointID != "" {
			return resolveEndpointHex(comp, featureID, feat.Flow.EndPointID)
		}
		return hexmath.Hex{}, 0, 0, false, &composition.UnknownTargetError{FeatureID: featureID, Target: ref}
	default:
		return hexmath.Hex{}, 0, 0, false, &composition.UnknownTargetError{FeatureID: featureID, Target: ref}
	}
}

// composeOpenFlow routes an open Road/River/Wall from its start point through any
// waypoints to its end point (or mergeTo reference), applies curvature, and emits
// the per-cell segments and JSON parameters.
func composeOpenFlow(comp *composition.Composition, f *composition.Feature, filled *composition.FilledHexGrid, stream *rng.Stream) (*composition.FeatureHexGrid, error) {
	fl := f.Flow

	startHex, startLx, startLz, hasStartLocal, err := resolveEndpointHex(comp, f.ID(), fl.StartPointID)
	if err != nil {
		return nil, err
	}

	endRef := fl.EndPointID
	if endRef == "" {
		endRef = fl.MergeToID
	}
	endHex, endLx, endLz, hasEndLocal, err := resolveEndpointHex(comp, f.ID(), endRef)
	if err != nil {
		return nil, err
	}

	checkpoints := []hexmath.Hex{startHex}
	for _, wp := range fl.WaypointIDs {
		h, _, _, _, err := resolveEndpointHex(comp, f.ID(), wp)
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, h)
	}
	checkpoints = append(checkpoints, endHex)

	var path []hexmath.Hex
	for i := 0; i < len(checkpoints)-1; i++ {
		seg := astar(filled, checkpoints[i], checkpoints[i+1], fl.Variant, nil)
		if seg == nil {
			if fl.Force {
				return nil, &composition.UnreachableError{FeatureID: f.ID()}
			}
			break
		}
		if len(path) > 0 {
			seg = seg[1:] // drop the duplicate junction cell
		}
		path = append(path, seg...)
	}
	if len(path) < 2 {
		return nil, &composition.UnreachableError{FeatureID: f.ID(), From: fl.StartPointID, To: endRef}
	}

	// A river that isn't forced stops at its first ocean cell rather than carving
	// across the sea to its nominal endpoint.
	if fl.Variant == composition.FlowRiver && !fl.Force {
		for i, h := range path {
			if i > 0 && isOceanCell(filled, h) {
				path = path[:i+1]
				hasEndLocal = false
				break
			}
		}
	}

	path = applyCurvature(path, fl.TendLeft, fl.TendRight, stream, filled, fl.Variant)

	grid := composition.NewFeatureHexGrid(f.ID())
	emitSegments(grid, f, path, startLx, startLz, hasStartLocal, endLx, endLz, hasEndLocal)
	applyFlowParams(grid, f)
	return grid, nil
}

// composeClosedLoop routes a Wall as a ring around a single center point. The ring
// radius reuses sideWallDistance (default 3 when unset), since a closed-loop wall has
// no independent "radius" field in the data model.
func composeClosedLoop(comp *composition.Composition, f *composition.Feature, stream *rng.Stream) (*composition.FeatureHexGrid, error) {
	fl := f.Flow
	center, _, _, _, err := resolveEndpointHex(comp, f.ID(), fl.StartPointID)
	if err != nil {
		return nil, err
	}

	radius := fl.SideWallDistance
	if radius <= 0 {
		radius = defaultClosedLoopRadius
	}
	ring := center.Ring(radius)
	if len(ring) == 0 {
		return nil, &composition.UnreachableError{FeatureID: f.ID()}
	}

	grid := composition.NewFeatureHexGrid(f.ID())
	n := len(ring)
	for i, h := range ring {
		prev := ring[(i-1+n)%n]
		next := ring[(i+1)%n]
		seg := composition.FlowSegment{FlowFeatureID: f.ID(), FlowType: fl.Variant, Width: fl.WidthBlocks, Level: fl.Level}
		if side, ok := prev.SideTo(h); ok {
			seg.HasFromSide = true
			seg.FromSide = hexmath.Opposite(side)
		}
		if side, ok := h.SideTo(next); ok {
			seg.HasToSide = true
			seg.ToSide = side
		}
		grid.Cell(h).Segments = append(grid.Cell(h).Segments, seg)
	}
	applyFlowParams(grid, f)
	return grid, nil
}

// composeSideWall places a g_sidewall descriptor on every cell of the target biome
// that sits within sideWallDistance rings of the biome's own boundary, filtered to the
// declared sideWallSides (or every boundary side, if none are declared).
func composeSideWall(comp *composition.Composition, f *composition.Feature, biomeRes *biome.Result) (*composition.FeatureHexGrid, error) {
	fl := f.Flow
	targetFeat := resolveFeatureRef(comp, fl.SideWallTargetBiomeID)
	if targetFeat == nil {
		return nil, &composition.UnknownTargetError{FeatureID: f.ID(), Target: fl.SideWallTargetBiomeID}
	}
	placed, ok := biomeRes.PlacedBiomes[targetFeat.ID()]
	if !ok {
		return nil, &composition.UnknownTargetError{FeatureID: f.ID(), Target: fl.SideWallTargetBiomeID}
	}

	distance := fl.SideWallDistance
	if distance <= 0 {
		distance = defaultSideWallDistance
	}
	allowed := make(map[hexmath.Side]bool)
	for _, s := range fl.SideWallSides {
		allowed[s] = true
	}

	// BFS inward from the biome's own boundary cells: every cell's outward side is
	// the direction its nearest boundary neighbor lies in, inherited along the BFS
	// frontier. depthOf tracks how many rings inside the boundary a cell sits.
	outwardSide := make(map[hexmath.Hex]hexmath.Side)
	depthOf := make(map[hexmath.Hex]int)
	var frontier []hexmath.Hex
	for h := range placed.Coordinates {
		for _, n := range h.Neighbors() {
			if _, inside := placed.Coordinates[n]; inside {
				continue
			}
			side, ok := h.SideTo(n)
			if !ok {
				continue
			}
			if _, seen := outwardSide[h]; !seen {
				outwardSide[h] = side
				depthOf[h] = 0
				frontier = append(frontier, h)
			}
		}
	}
	for len(frontier) > 0 {
		var next []hexmath.Hex
		for _, h := range frontier {
			for _, n := range h.Neighbors() {
				if _, inside := placed.Coordinates[n]; !inside {
					continue
				}
				if _, seen := outwardSide[n]; seen {
					continue
				}
				outwardSide[n] = outwardSide[h]
				depthOf[n] = depthOf[h] + 1
				next = append(next, n)
			}
		}
		frontier = next
	}

	wallCells := make(map[hexmath.Hex]hexmath.Side)
	for h, side := range outwardSide {
		if depthOf[h] > distance-1 {
			continue
		}
		if len(allowed) > 0 && !allowed[side] {
			continue
		}
		wallCells[h] = side
	}

	if len(wallCells) < fl.SideWallMinimum {
		return nil, &composition.PlacementExhaustedError{FeatureID: f.ID(), Attempts: len(wallCells)}
	}

	grid := composition.NewFeatureHexGrid(f.ID())
	applySideWallParams(grid, f, wallCells)
	return grid, nil
}

// emitSegments walks path and appends one FlowSegment per cell, wiring fromSide/
// toSide between adjacent path cells and binding the two path ends to their resolved
// local (lx, lz) coordinate when they land inside a Point's cell.
func emitSegments(grid *composition.FeatureHexGrid, f *composition.Feature, path []hexmath.Hex, startLx, startLz int, hasStartLocal bool, endLx, endLz int, hasEndLocal bool) {
	fl := f.Flow
	for i, h := range path {
		seg := composition.FlowSegment{FlowFeatureID: f.ID(), FlowType: fl.Variant, Width: fl.WidthBlocks, Level: fl.Level}
		if fl.Variant == composition.FlowRiver {
			seg.HasDepth = true
			seg.Depth = fl.RiverDepth
		}
		if fl.Variant == composition.FlowRoad {
			seg.HasRoadType = true
			seg.RoadType = fl.RoadType
		}

		if i == 0 {
			if hasStartLocal {
				seg.HasFromLocal = true
				seg.FromLx, seg.FromLz = startLx, startLz
			}
		} else if side, ok := path[i-1].SideTo(h); ok {
			seg.HasFromSide = true
			seg.FromSide = hexmath.Opposite(side)
		}

		if i == len(path)-1 {
			if hasEndLocal {
				seg.HasToLocal = true
				seg.ToLx, seg.ToLz = endLx, endLz
			}
		} else if side, ok := h.SideTo(path[i+1]); ok {
			seg.HasToSide = true
			seg.ToSide = side
		}

		grid.Cell(h).Segments = append(grid.Cell(h).Segments, seg)
	}
}

// applyCurvature walks path and, at each step, rolls the feature's tendLeft/tendRight
// probabilities to insert a one-hex detour before rejoining the original next cell.
// Rotating a hex's neighbor side by one step always yields a hex adjacent to both the
// current cell and the original next cell, so the detour never breaks contiguity. The
// detour is discarded if it is blocked terrain or would move the walker more than one
// hex further from the goal than the original next cell was.
func applyCurvature(path []hexmath.Hex, tendLeft, tendRight float64, stream *rng.Stream, grid *composition.FilledHexGrid, variant composition.FlowVariant) []hexmath.Hex {
	if len(path) < 2 || (tendLeft <= 0 && tendRight <= 0) {
		return path
	}
	goal := path[len(path)-1]
	out := make([]hexmath.Hex, 0, len(path))
	out = append(out, path[0])

	for i := 0; i < len(path)-1; i++ {
		cur := out[len(out)-1]
		next := path[i+1]

		side, ok := cur.SideTo(next)
		if !ok {
			out = append(out, next)
			continue
		}

		roll := stream.Float64()
		var altSide hexmath.Side
		wiggle := false
		switch {
		case roll < tendLeft:
			altSide = rotateSide(side, -1)
			wiggle = true
		case roll < tendLeft+tendRight:
			altSide = rotateSide(side, 1)
			wiggle = true
		}

		if wiggle {
			alt := cur.Neighbor(altSide)
			_, blocked := terrainCost(grid, alt, variant)
			if !blocked && alt != next && alt.Distance(goal) <= next.Distance(goal)+1 {
				out = append(out, alt, next)
				continue
			}
		}
		out = append(out, next)
	}
	return out
}

func rotateSide(s hexmath.Side, k int) hexmath.Side {
	return hexmath.Side((int(s) + k + 6) % 6)
}
