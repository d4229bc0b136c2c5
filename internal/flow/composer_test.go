package flow

import (
	"strings"
	"testing"

	"github.com/mhus/nimbus-world-sub007/internal/biome"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/gapfill"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/points"
	"github.com/mhus/nimbus-world-sub007/internal/preparer"
)

func roadComposition() *composition.Composition {
	plains := &composition.Feature{
		Header: composition.Header{Name: "plains", FeatureID: "plains-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaPlains, Shape: composition.ShapeCircle,
			SizeFrom: 30, SizeTo: 30,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN}},
		},
	}
	cityA := &composition.Feature{
		Header: composition.Header{Name: "city-a", FeatureID: "pt-a", Kind: composition.KindPoint},
		Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "plains"},
	}
	cityB := &composition.Feature{
		Header: composition.Header{Name: "city-b", FeatureID: "pt-b", Kind: composition.KindPoint},
		Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "plains"},
	}
	road := &composition.Feature{
		Header: composition.Header{Name: "main-road", FeatureID: "road-1", Kind: composition.KindFlow},
		Flow: &composition.FlowFeature{
			Variant: composition.FlowRoad, WidthBlocks: 1, Level: 0,
			StartPointID: "pt-a", EndPointID: "pt-b", RoadType: "dirt", Force: true,
		},
	}
	return &composition.Composition{
		WorldID: "w1", Name: "road-test", Seed: 7, HasSeed: true,
		Features: []*composition.Feature{plains, cityA, cityB, road},
	}
}

func buildFilledGrid(t *testing.T, comp *composition.Composition) (*biome.Result, *composition.FilledHexGrid) {
	t.Helper()
	if errs := preparer.Prepare(comp); len(errs) != 0 {
		t.Fatalf("Prepare errors: %v", errs)
	}
	biomeRes := biome.ComposeAll(comp, comp.WorldID, comp.Seed)
	if !biomeRes.Success {
		t.Fatalf("biome composition failed: %v", biomeRes.Errors)
	}
	pointRes := points.ComposeAll(comp, biomeRes, comp.Seed)
	if len(pointRes.Errors) != 0 {
		t.Fatalf("point composition failed: %v", pointRes.Errors)
	}
	fillRes := gapfill.Fill(biomeRes, comp, comp.WorldID, 2)
	return biomeRes, fillRes.Grid
}

func TestRoadConnectsTwoPoints(t *testing.T) {
	comp := roadComposition()
	biomeRes, grid := buildFilledGrid(t, comp)

	res := ComposeAll(comp, biomeRes, grid, comp.Seed)
	if len(res.Errors) != 0 {
		t.Fatalf("flow composition failed: %v", res.Errors)
	}
	roadGrid, ok := res.HexGrids["road-1"]
	if !ok {
		t.Fatalf("no hex grid emitted for road-1")
	}
	if len(roadGrid.Cells) < 2 {
		t.Fatalf("expected at least 2 road cells, got %d", len(roadGrid.Cells))
	}

	foundStart, foundEnd := false, false
	for _, contrib := range roadGrid.Cells {
		raw, ok := contrib.Parameters["road"]
		if !ok {
			t.Errorf("road cell missing road parameter")
			continue
		}
		if !strings.Contains(raw, `"route":[`) {
			t.Errorf("road parameter missing route: %s", raw)
		}
		for _, seg := range contrib.Segments {
			if seg.HasFromLocal {
				foundStart = true
			}
			if seg.HasToLocal {
				foundEnd = true
			}
		}
	}
	if !foundStart || !foundEnd {
		t.Errorf("expected road to bind both local endpoints: start=%v end=%v", foundStart, foundEnd)
	}
}

func riverComposition() *composition.Composition {
	plains := &composition.Feature{
		Header: composition.Header{Name: "plains", FeatureID: "plains-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaPlains, Shape: composition.ShapeCircle,
			SizeFrom: 6, SizeTo: 6,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN}},
		},
	}
	ocean := &composition.Feature{
		Header: composition.Header{Name: "ocean", FeatureID: "ocean-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaOcean, Shape: composition.ShapeCircle,
			SizeFrom: 12, SizeTo: 12,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirE, DistanceFrom: 12, DistanceTo: 12}},
		},
	}
	spring := &composition.Feature{
		Header: composition.Header{Name: "spring", FeatureID: "pt-spring", Kind: composition.KindPoint},
		Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "plains"},
	}
	sea := &composition.Feature{
		Header: composition.Header{Name: "sea", FeatureID: "pt-sea", Kind: composition.KindPoint},
		Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "ocean"},
	}
	river := &composition.Feature{
		Header: composition.Header{Name: "the-river", FeatureID: "river-1", Kind: composition.KindFlow},
		Flow: &composition.FlowFeature{
			Variant: composition.FlowRiver, WidthBlocks: 1, Level: 0, RiverDepth: 1,
			StartPointID: "pt-spring", EndPointID: "pt-sea", Force: false,
		},
	}
	return &composition.Composition{
		WorldID: "w2", Name: "river-test", Seed: 99, HasSeed: true,
		Features: []*composition.Feature{plains, ocean, spring, sea, river},
	}
}

func TestRiverTruncatesAtFirstOceanCell(t *testing.T) {
	comp := riverComposition()
	biomeRes, grid := buildFilledGrid(t, comp)

	res := ComposeAll(comp, biomeRes, grid, comp.Seed)
	if len(res.Errors) != 0 {
		t.Fatalf("flow composition failed: %v", res.Errors)
	}
	riverGrid, ok := res.HexGrids["river-1"]
	if !ok {
		t.Fatalf("no hex grid emitted for river-1")
	}

	seaHex := comp.FeatureByName("sea").Point.PlacedCoordinate
	var terminal hexmath.Hex
	found := false
	for h, contrib := range riverGrid.Cells {
		for _, seg := range contrib.Segments {
			if !seg.HasToSide && !seg.HasToLocal {
				terminal = h
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("river never terminated")
	}
	if !isOceanCell(grid, terminal) {
		t.Errorf("river terminal cell %v is not ocean", terminal)
	}
	if terminal == seaHex {
		t.Errorf("unforced river should stop at the coastline, not reach %v", seaHex)
	}
}

func wallComposition() *composition.Composition {
	plains := &composition.Feature{
		Header: composition.Header{Name: "plains", FeatureID: "plains-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaPlains, Shape: composition.ShapeCircle,
			SizeFrom: 10, SizeTo: 10,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN}},
		},
	}
	keep := &composition.Feature{
		Header: composition.Header{Name: "keep", FeatureID: "pt-keep", Kind: composition.KindPoint},
		Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "plains"},
	}
	wall := &composition.Feature{
		Header: composition.Header{Name: "curtain-wall", FeatureID: "wall-1", Kind: composition.KindFlow},
		Flow: &composition.FlowFeature{
			Variant: composition.FlowWall, WidthBlocks: 1, Level: 0,
			WallMaterial: "stone", WallHeight: 4,
			StartPointID: "pt-keep", EndPointID: "pt-keep", SideWallDistance: 2,
		},
	}
	return &composition.Composition{
		WorldID: "w3", Name: "wall-test", Seed: 3, HasSeed: true,
		Features: []*composition.Feature{plains, keep, wall},
	}
}

func TestClosedLoopWallRingSize(t *testing.T) {
	comp := wallComposition()
	biomeRes, grid := buildFilledGrid(t, comp)

	res := ComposeAll(comp, biomeRes, grid, comp.Seed)
	if len(res.Errors) != 0 {
		t.Fatalf("flow composition failed: %v", res.Errors)
	}
	wallGrid, ok := res.HexGrids["wall-1"]
	if !ok {
		t.Fatalf("no hex grid emitted for wall-1")
	}

	const radius = 2
	if len(wallGrid.Cells) != 6*radius {
		t.Errorf("expected ring of %d cells, got %d", 6*radius, len(wallGrid.Cells))
	}

	for h, contrib := range wallGrid.Cells {
		if len(contrib.Segments) != 1 {
			t.Fatalf("cell %v: expected exactly 1 segment, got %d", h, len(contrib.Segments))
		}
		seg := contrib.Segments[0]
		if !seg.HasFromSide || !seg.HasToSide {
			t.Errorf("cell %v: closed loop segment missing a side binding", h)
		}
		next := h.Neighbor(seg.ToSide)
		nextContrib, ok := wallGrid.Cells[next]
		if !ok {
			t.Fatalf("cell %v: toSide neighbor %v is not part of the ring", h, next)
		}
		if nextContrib.Segments[0].FromSide != hexmath.Opposite(seg.ToSide) {
			t.Errorf("cell %v -> %v: mirrored fromSide mismatch", h, next)
		}
	}
}

func sideWallComposition() *composition.Composition {
	plains := &composition.Feature{
		Header: composition.Header{Name: "plains", FeatureID: "plains-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaPlains, Shape: composition.ShapeCircle,
			SizeFrom: 15, SizeTo: 15,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN}},
		},
	}
	palisade := &composition.Feature{
		Header: composition.Header{Name: "palisade", FeatureID: "sidewall-1", Kind: composition.KindFlow},
		Flow: &composition.FlowFeature{
			Variant: composition.FlowSideWall, WidthBlocks: 1, Level: 0,
			WallMaterial: "wood", WallHeight: 2,
			SideWallTargetBiomeID: "plains-1", SideWallDistance: 1,
		},
	}
	return &composition.Composition{
		WorldID: "w4", Name: "sidewall-test", Seed: 11, HasSeed: true,
		Features: []*composition.Feature{plains, palisade},
	}
}

func TestSideWallCoversDeclaredBoundaryDepth(t *testing.T) {
	comp := sideWallComposition()
	biomeRes, grid := buildFilledGrid(t, comp)

	res := ComposeAll(comp, biomeRes, grid, comp.Seed)
	if len(res.Errors) != 0 {
		t.Fatalf("flow composition failed: %v", res.Errors)
	}
	wallGrid, ok := res.HexGrids["sidewall-1"]
	if !ok {
		t.Fatalf("no hex grid emitted for sidewall-1")
	}

	placed := biomeRes.PlacedBiomes["plains-1"]
	expectedEdge := 0
	for h := range placed.Coordinates {
		for _, n := range h.Neighbors() {
			if _, inside := placed.Coordinates[n]; !inside {
				expectedEdge++
				break
			}
		}
	}
	if len(wallGrid.Cells) != expectedEdge {
		t.Errorf("expected %d boundary cells at distance 1, got %d", expectedEdge, len(wallGrid.Cells))
	}
	for h, contrib := range wallGrid.Cells {
		if _, inside := placed.Coordinates[h]; !inside {
			t.Errorf("sidewall cell %v is not part of the target biome", h)
		}
		if _, ok := contrib.Parameters["g_sidewall"]; !ok {
			t.Errorf("cell %v missing g_sidewall parameter", h)
		}
	}
}
