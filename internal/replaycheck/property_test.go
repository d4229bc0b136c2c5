package replaycheck

import (
	"testing"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/orchestrator"
	"github.com/mhus/nimbus-world-sub007/internal/structure"
	"pgregory.net/rapid"
)

// TestPropertyOrchestrateIsDeterministic exercises §8's Determinism property across
// randomly sized plains compositions and seeds: the same document and seed must
// always produce the same CompositionResult.
func TestPropertyOrchestrateIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		size := rapid.IntRange(5, 25).Draw(t, "size")

		build := func() *composition.Composition {
			plains := &composition.Feature{
				Header: composition.Header{Name: "plains", FeatureID: "plains-1", Kind: composition.KindArea},
				Area: &composition.AreaFeature{
					Type: composition.AreaPlains, Shape: composition.ShapeCircle,
					SizeFrom: size, SizeTo: size,
					Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN}},
				},
			}
			anchor := &composition.Feature{
				Header: composition.Header{Name: "anchor", FeatureID: "pt-anchor", Kind: composition.KindPoint},
				Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "plains"},
			}
			return &composition.Composition{
				WorldID: "property-world", Name: "property-determinism", Seed: seed, HasSeed: true,
				Features: []*composition.Feature{plains, anchor},
			}
		}

		mismatches := Verify(build, orchestrator.Options{TemplateProvider: structure.BuiltinTemplates()})
		if len(mismatches) != 0 {
			t.Fatalf("seed %d, size %d: expected determinism, got mismatches: %v", seed, size, mismatches)
		}
	})
}
