package orchestrator

import (
	"path/filepath"
	"testing"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/persistence/sqlite"
	"github.com/mhus/nimbus-world-sub007/internal/structure"
)

func fullComposition() *composition.Composition {
	plains := &composition.Feature{
		Header: composition.Header{Name: "plains", FeatureID: "plains-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaPlains, Shape: composition.ShapeCircle,
			SizeFrom: 20, SizeTo: 20,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN}},
		},
	}
	anchor := &composition.Feature{
		Header: composition.Header{Name: "town-anchor", FeatureID: "pt-anchor", Kind: composition.KindPoint},
		Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "plains"},
	}
	other := &composition.Feature{
		Header: composition.Header{Name: "city-b", FeatureID: "pt-b", Kind: composition.KindPoint},
		Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "plains"},
	}
	road := &composition.Feature{
		Header: composition.Header{Name: "main-road", FeatureID: "road-1", Kind: composition.KindFlow},
		Flow: &composition.FlowFeature{
			Variant: composition.FlowRoad, WidthBlocks: 1,
			StartPointID: "pt-anchor", EndPointID: "pt-b", RoadType: "dirt", Force: true,
		},
	}
	hamlet := &composition.Feature{
		Header: composition.Header{Name: "hamlet", FeatureID: "struct-1", Kind: composition.KindStructure},
		Structure: &composition.StructureFeature{
			Template: "hamlet", AnchorPointID: "pt-anchor", BaseLevel: 64,
		},
	}
	return &composition.Composition{
		WorldID: "w1", Name: "orchestrator-test", Seed: 42, HasSeed: true,
		Features: []*composition.Feature{plains, anchor, other, road, hamlet},
	}
}

func TestOrchestrateSucceedsAndPersists(t *testing.T) {
	comp := fullComposition()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "cells.db"))
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	defer store.Close()

	res := Orchestrate(comp, Options{
		TemplateProvider: structure.BuiltinTemplates(),
		OceanBorderRings: 2,
		GenerateHexGrids: true,
		Store:            store,
	})

	if !res.Success {
		t.Fatalf("expected success, got errorMessage=%q warnings=%v", res.ErrorMessage, res.Warnings)
	}
	if res.TotalBiomes != 1 {
		t.Errorf("expected 1 biome, got %d", res.TotalBiomes)
	}
	if res.TotalFlows != 1 {
		t.Errorf("expected 1 flow, got %d", res.TotalFlows)
	}
	if len(res.Plans) != res.FilledGrids {
		t.Errorf("expected one cell plan per filled cell: %d plans vs %d filled cells", len(res.Plans), res.FilledGrids)
	}
	if res.FilledGrids == 0 {
		t.Fatalf("expected a non-empty filled grid")
	}

	stored, err := store.CellPlans("w1")
	if err != nil {
		t.Fatalf("CellPlans: %v", err)
	}
	if len(stored) != len(res.Plans) {
		t.Errorf("expected every plan persisted: stored=%d plans=%d", len(stored), len(res.Plans))
	}
}

func TestOrchestrateSkipsPersistenceWithoutFlag(t *testing.T) {
	comp := fullComposition()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "cells.db"))
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	defer store.Close()

	res := Orchestrate(comp, Options{
		TemplateProvider: structure.BuiltinTemplates(),
		GenerateHexGrids: false,
		Store:            store,
	})
	if !res.Success {
		t.Fatalf("expected success, got errorMessage=%q", res.ErrorMessage)
	}

	stored, err := store.CellPlans("w1")
	if err != nil {
		t.Fatalf("CellPlans: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("expected no rows persisted when generateHexGrids is false, got %d", len(stored))
	}
}

func TestOrchestrateFailsFastOnInvalidInput(t *testing.T) {
	comp := &composition.Composition{WorldID: "", Name: "broken"}
	res := Orchestrate(comp, Options{})
	if res.Success {
		t.Fatalf("expected failure for missing worldId")
	}
	if res.ErrorMessage == "" {
		t.Errorf("expected a non-empty errorMessage")
	}
	if res.Placement != nil {
		t.Errorf("expected the pipeline to short-circuit before biome composition")
	}
}

func TestOrchestrateUnknownTemplateIsFatal(t *testing.T) {
	comp := fullComposition()
	comp.FeatureByID("struct-1").Structure.Template = "castle"

	res := Orchestrate(comp, Options{TemplateProvider: structure.BuiltinTemplates()})
	if res.Success {
		t.Fatalf("expected failure for an unknown template")
	}
	found := false
	for _, w := range res.Warnings {
		if w != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected at least one warning recorded")
	}
}

func brokenRoadComposition(force bool) *composition.Composition {
	plains := &composition.Feature{
		Header: composition.Header{Name: "plains", FeatureID: "plains-1", Kind: composition.KindArea},
		Area: &composition.AreaFeature{
			Type: composition.AreaPlains, Shape: composition.ShapeCircle,
			SizeFrom: 15, SizeTo: 15,
			Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN}},
		},
	}
	cityA := &composition.Feature{
		Header: composition.Header{Name: "city-a", FeatureID: "pt-a", Kind: composition.KindPoint},
		Point:  &composition.PointFeature{Mode: composition.SnapInside, Target: "plains"},
	}
	road := &composition.Feature{
		Header: composition.Header{Name: "dead-end-road", FeatureID: "road-1", Kind: composition.KindFlow},
		Flow: &composition.FlowFeature{
			Variant: composition.FlowRoad, WidthBlocks: 1,
			StartPointID: "pt-a", EndPointID: "pt-does-not-exist", RoadType: "dirt", Force: force,
		},
	}
	return &composition.Composition{
		WorldID: "w1", Name: "broken-road-test", Seed: 42, HasSeed: true,
		Features: []*composition.Feature{plains, cityA, road},
	}
}

func TestOrchestrateForcedFlowFailureIsFatal(t *testing.T) {
	res := Orchestrate(brokenRoadComposition(true), Options{})
	if res.Success {
		t.Fatalf("expected a force=true flow's UnknownTarget to mark the whole call unsuccessful")
	}
	if res.ErrorMessage == "" {
		t.Errorf("expected a non-empty errorMessage")
	}
}

func TestOrchestrateNonForcedFlowFailureIsWarningOnly(t *testing.T) {
	res := Orchestrate(brokenRoadComposition(false), Options{})
	if !res.Success {
		t.Fatalf("expected a non-forced flow's UnknownTarget to stay a warning, got errorMessage=%q", res.ErrorMessage)
	}
	if len(res.Warnings) == 0 {
		t.Errorf("expected the UnknownTarget to still be recorded as a warning")
	}
}
