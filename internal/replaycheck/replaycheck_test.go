package replaycheck

import (
	"testing"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/orchestrator"
	"github.com/mhus/nimbus-world-sub007/internal/structure"
)

func buildDeterministicComposition() *composition.Composition {
	plains := &composition.Feature{
		Header: composition.Header{Name: "plains", FeatureID: "plains-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaPlains, Shape: composition.ShapeCircle,
			SizeFrom: 12, SizeTo: 12,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN}},
		},
	}
	anchor := &composition.Feature{
		Header: composition.Header{Name: "anchor", FeatureID: "pt-anchor", Kind: composition.KindPoint},
		Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "plains"},
	}
	return &composition.Composition{
		WorldID: "w1", Name: "replaycheck-test", Seed: 99, HasSeed: true,
		Features: []*composition.Feature{plains, anchor},
	}
}

func TestVerifyFindsNoMismatchesForTheSameSeed(t *testing.T) {
	mismatches := Verify(buildDeterministicComposition, orchestrator.Options{
		TemplateProvider: structure.BuiltinTemplates(),
	})
	if len(mismatches) != 0 {
		t.Fatalf("expected a deterministic run to match, got: %v", mismatches)
	}
}

func TestCompareDetectsDivergentPlans(t *testing.T) {
	a := &orchestrator.CompositionResult{
		Success: true, TotalBiomes: 1,
		Plans: []composition.CellPlan{
			{Position: "0:0", Parameters: map[string]string{"g_builder": "plains"}, Enabled: true},
		},
	}
	b := &orchestrator.CompositionResult{
		Success: true, TotalBiomes: 1,
		Plans: []composition.CellPlan{
			{Position: "0:0", Parameters: map[string]string{"g_builder": "ocean"}, Enabled: true},
		},
	}
	mismatches := Compare(a, b)
	if len(mismatches) != 1 {
		t.Fatalf("expected exactly 1 mismatch, got %v", mismatches)
	}
	if mismatches[0].Field != "Plans[0:0].Parameters[g_builder]" {
		t.Errorf("unexpected mismatch field: %s", mismatches[0].Field)
	}
}

func TestCompareDetectsPlanCountDivergence(t *testing.T) {
	a := &orchestrator.CompositionResult{Plans: []composition.CellPlan{{Position: "0:0"}}}
	b := &orchestrator.CompositionResult{Plans: nil}
	mismatches := Compare(a, b)
	if len(mismatches) != 1 || mismatches[0].Field != "len(Plans)" {
		t.Fatalf("expected a len(Plans) mismatch, got %v", mismatches)
	}
}
