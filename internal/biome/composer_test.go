package biome

import (
	"testing"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/preparer"
)

func simpleComposition() *composition.Composition {
	forest := &composition.Feature{
		Header: composition.Header{Name: "forest", FeatureID: "forest-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaForest, Shape: composition.ShapeCircle,
			SizeFrom: 3, SizeTo: 4,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN, Priority: 10}},
		},
	}
	mountains := &composition.Feature{
		Header: composition.Header{Name: "mountains", FeatureID: "mtn-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaMountains, Shape: composition.ShapeCircle,
			SizeFrom: 3, SizeTo: 4,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN, DistanceFrom: 5, DistanceTo: 7, Priority: 5}},
		},
	}
	return &composition.Composition{
		WorldID:  "w1",
		Name:     "simple",
		Seed:     12345,
		HasSeed:  true,
		Features: []*composition.Feature{forest, mountains},
	}
}

func TestComposeAllConnectivityAndSizeBounds(t *testing.T) {
	comp := simpleComposition()
	if errs := preparer.Prepare(comp); len(errs) != 0 {
		t.Fatalf("Prepare() errors: %v", errs)
	}

	res := biomeComposeOrFail(t, comp)
	if !res.Success {
		t.Fatalf("ComposeAll not successful: %v", res.Errors)
	}

	for id, placed := range res.PlacedBiomes {
		if placed.ActualSize < 1 {
			t.Errorf("biome %s: actualSize %d < 1", id, placed.ActualSize)
		}
		if !isConnected(placed.Coordinates) {
			t.Errorf("biome %s: coordinates not connected: %v", id, placed.OrderedCoordinates())
		}
	}
}

func TestComposeAllDisjoint(t *testing.T) {
	comp := simpleComposition()
	preparer.Prepare(comp)
	res := biomeComposeOrFail(t, comp)

	seen := map[hexmath.Hex]string{}
	for id, placed := range res.PlacedBiomes {
		for h := range placed.Coordinates {
			if owner, ok := seen[h]; ok {
				t.Errorf("hex %v claimed by both %s and %s", h, owner, id)
			}
			seen[h] = id
		}
	}
}

func TestComposeAllDeterministic(t *testing.T) {
	comp1 := simpleComposition()
	comp2 := simpleComposition()
	preparer.Prepare(comp1)
	preparer.Prepare(comp2)

	res1 := biomeComposeOrFail(t, comp1)
	res2 := biomeComposeOrFail(t, comp2)

	for id, p1 := range res1.PlacedBiomes {
		p2, ok := res2.PlacedBiomes[id]
		if !ok {
			t.Fatalf("feature %s missing from second run", id)
		}
		if p1.Center != p2.Center || p1.ActualSize != p2.ActualSize {
			t.Errorf("feature %s: run1 center=%v size=%d, run2 center=%v size=%d",
				id, p1.Center, p1.ActualSize, p2.Center, p2.ActualSize)
		}
		c1 := p1.OrderedCoordinates()
		c2 := p2.OrderedCoordinates()
		if len(c1) != len(c2) {
			t.Fatalf("feature %s: coordinate count differs between runs", id)
			continue
		}
		for i := range c1 {
			if c1[i] != c2[i] {
				t.Errorf("feature %s: coordinate %d differs: %v vs %v", id, i, c1[i], c2[i])
			}
		}
	}
}

func biomeComposeOrFail(t *testing.T, comp *composition.Composition) *Result {
	t.Helper()
	res := ComposeAll(comp, comp.WorldID, comp.Seed)
	if !res.Success {
		t.Fatalf("ComposeAll failed: %v", res.Errors)
	}
	return res
}

func isConnected(coords map[hexmath.Hex]struct{}) bool {
	if len(coords) <= 1 {
		return true
	}
	var start hexmath.Hex
	for h := range coords {
		start = h
		break
	}
	visited := map[hexmath.Hex]bool{start: true}
	queue := []hexmath.Hex{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors() {
			if _, in := coords[n]; !in {
				continue
			}
			if visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return len(visited) == len(coords)
}
