package hexviz

import (
	"bytes"
	"testing"

	"github.com/mhus/nimbus-world-sub007/internal/biome"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/gapfill"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/preparer"
)

func smallFilledGrid(t *testing.T) *composition.FilledHexGrid {
	t.Helper()
	comp := &composition.Composition{
		WorldID: "w1", Name: "hexviz-test", Seed: 7, HasSeed: true,
		Features: []*composition.Feature{
			{
				Header: composition.Header{Name: "plains", FeatureID: "plains-1", Kind: composition.KindArea},
				Area: &composition.AreaFeature{
					Type: composition.AreaPlains, Shape: composition.ShapeCircle,
					SizeFrom: 5, SizeTo: 5,
					Positions: []composition.Position{{Anchor: "origin", Direction: hexmath.DirN}},
				},
			},
		},
	}
	if errs := preparer.Prepare(comp); len(errs) != 0 {
		t.Fatalf("Prepare: %v", errs)
	}
	placement := biome.ComposeAll(comp, comp.WorldID, comp.Seed)
	fill := gapfill.Fill(placement, comp, comp.WorldID, 1)
	return fill.Grid
}

func TestRenderProducesWellFormedSVG(t *testing.T) {
	grid := smallFilledGrid(t)
	out := Render(grid, Options{})
	if !bytes.Contains(out, []byte("<svg")) {
		t.Fatalf("expected an <svg> tag, got: %s", out)
	}
	if !bytes.Contains(out, []byte("</svg>")) {
		t.Fatalf("expected a closing </svg> tag")
	}
	if !bytes.Contains(out, []byte("polygon")) {
		t.Fatalf("expected at least one polygon for a hex cell")
	}
}

func TestRenderHonorsCustomGridSize(t *testing.T) {
	grid := smallFilledGrid(t)
	small := Render(grid, Options{GridSize: 10, Margin: 5})
	large := Render(grid, Options{GridSize: 60, Margin: 5})
	smallPolys := bytes.Count(small, []byte("<polygon"))
	largePolys := bytes.Count(large, []byte("<polygon"))
	if smallPolys == 0 || smallPolys != largePolys {
		t.Errorf("expected the same non-zero polygon count regardless of grid size: small=%d large=%d", smallPolys, largePolys)
	}
}
