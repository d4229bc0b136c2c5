package biome

import (
	"fmt"
	"testing"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/preparer"
	"pgregory.net/rapid"
)

var propertyAreaTypes = []composition.AreaType{
	composition.AreaPlains, composition.AreaForest, composition.AreaMountains,
	composition.AreaDesert, composition.AreaSwamp,
}

var propertyDirections = []hexmath.CompassDirection{
	hexmath.DirN, hexmath.DirNE, hexmath.DirE, hexmath.DirSE,
	hexmath.DirS, hexmath.DirSW, hexmath.DirW, hexmath.DirNW,
}

// randomChainComposition builds a composition of featureCount Area features, each
// anchored on the previous one at a random compass direction and a distance range
// generous enough that collisions are rare without making them impossible — the
// composer's own retry budget is expected to absorb the rest.
func randomChainComposition(t *rapid.T) *composition.Composition {
	featureCount := rapid.IntRange(2, 6).Draw(t, "featureCount")
	seed := rapid.Int64().Draw(t, "seed")

	features := make([]*composition.Feature, featureCount)
	for i := 0; i < featureCount; i++ {
		name := fmt.Sprintf("area-%d", i)
		anchor := "origin"
		if i > 0 {
			anchor = fmt.Sprintf("area-%d", i-1)
		}
		areaType := propertyAreaTypes[rapid.IntRange(0, len(propertyAreaTypes)-1).Draw(t, name+"_type")]
		dir := propertyDirections[rapid.IntRange(0, len(propertyDirections)-1).Draw(t, name+"_dir")]
		sizeFrom := rapid.IntRange(3, 8).Draw(t, name+"_sizeFrom")
		sizeTo := sizeFrom + rapid.IntRange(0, 4).Draw(t, name+"_sizeSlack")
		distanceFrom := rapid.IntRange(8, 12).Draw(t, name+"_distFrom")
		distanceTo := distanceFrom + rapid.IntRange(0, 3).Draw(t, name+"_distSlack")

		features[i] = &composition.Feature{
			Header: composition.Header{Name: name, FeatureID: name, Kind: composition.KindArea},
			Area: &composition.AreaFeature{
				Type: areaType, Shape: composition.ShapeCircle,
				SizeFrom: sizeFrom, SizeTo: sizeTo,
				Positions: []composition.Position{{
					Anchor: anchor, Direction: dir,
					DistanceFrom: distanceFrom, DistanceTo: distanceTo,
				}},
			},
		}
	}

	return &composition.Composition{
		WorldID: "property-world", Name: "property-chain", Seed: seed, HasSeed: true,
		Features: features,
	}
}

// TestPropertyPlacedBiomesAreConnectedDisjointAndInSizeBounds exercises §8's
// Connectivity, Disjointness, and Size bounds properties across randomly generated
// chains of Area features: every biome the composer actually manages to place must
// be a single connected component, size-bounded, and disjoint from every other
// placed biome, regardless of how the chain was shaped.
func TestPropertyPlacedBiomesAreConnectedDisjointAndInSizeBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		comp := randomChainComposition(t)
		if errs := preparer.Prepare(comp); len(errs) != 0 {
			t.Fatalf("Prepare() errors: %v", errs)
		}

		res := ComposeAll(comp, comp.WorldID, comp.Seed)

		seen := make(map[hexmath.Hex]string)
		for id, placed := range res.PlacedBiomes {
			if !isConnected(placed.Coordinates) {
				t.Fatalf("biome %s: coordinates not connected: %v", id, placed.OrderedCoordinates())
			}

			feat := findFeature(comp, id)
			if placed.ActualSize < feat.Area.CalculatedSizeFrom || placed.ActualSize > feat.Area.CalculatedSizeTo {
				t.Fatalf("biome %s: actualSize %d outside [%d,%d]", id, placed.ActualSize,
					feat.Area.CalculatedSizeFrom, feat.Area.CalculatedSizeTo)
			}

			for h := range placed.Coordinates {
				if owner, dup := seen[h]; dup {
					t.Fatalf("hex %v claimed by both %s and %s", h, owner, id)
				}
				seen[h] = id
			}
		}
	})
}

func findFeature(comp *composition.Composition, id string) *composition.Feature {
	for _, f := range comp.Features {
		if f.ID() == id {
			return f
		}
	}
	return nil
}
