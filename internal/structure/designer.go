// Package structure designs villages and towns from named templates: a fixed hex
// footprint around an anchor, a grid of building plots per cell, and the plaza/
// inter-cell street graph, emitting the per-cell "g_village"/"road" parameter
// descriptors the Assembler later merges onto the final cell plan.
package structure

import (
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
)

const (
	// gridSize matches the local (lx, lz) coordinate space points.ComposeAll already
	// places Points within, so a Structure's plots and a Point snapped into the same
	// cell share one coordinate system.
	gridSize = 16
	margin   = 1
	plotSize = 3
	plotGap  = 1
)

// Plot is one building footprint within a cell's local (lx, lz) coordinate space.
type Plot struct {
	Lx, Lz int
	W, H   int
	Kind   string
}

// GridConfig is one footprint cell's design: its building plots and any
// plaza-internal or inter-cell street it carries, at the structure's base level.
type GridConfig struct {
	Plots   []Plot
	Streets []composition.StreetHop
	Level   int
}

// DesignResult is the outcome of laying a template out around an anchor cell.
type DesignResult struct {
	Layout      []hexmath.Hex
	GridConfigs map[hexmath.Hex]*GridConfig
}

// Design resolves templateName via provider and lays its footprint out around anchor,
// returning the per-cell plot/street configuration at baseLevel. featureID is carried
// only for the TemplateNotFoundError.
func Design(provider TemplateProvider, featureID, templateName string, anchor hexmath.Hex, baseLevel int) (*DesignResult, error) {
	tmpl, ok := provider.Template(templateName)
	if !ok {
		return nil, &composition.TemplateNotFoundError{FeatureID: featureID, Template: templateName}
	}

	result := &DesignResult{GridConfigs: make(map[hexmath.Hex]*GridConfig)}
	for _, rel := range tmpl.Footprint {
		cell := anchor.Add(rel)
		result.Layout = append(result.Layout, cell)
		result.GridConfigs[cell] = &GridConfig{
			Level: baseLevel,
			Plots: buildPlots(rel == tmpl.PlazaCell),
		}
	}
	for _, st := range tmpl.Streets {
		cfg := result.GridConfigs[anchor.Add(st.Cell)]
		cfg.Streets = append(cfg.Streets, composition.StreetHop{Side: st.Side, Width: st.Width, Type: st.Type})
	}
	return result, nil
}

// buildPlots lays a row-major grid of square plots within [margin, gridSize-margin),
// cycling between "house" and "market" kinds. The plaza cell reserves a central square
// where no plot is emitted, leaving room for the open plaza itself.
func buildPlots(reservePlaza bool) []Plot {
	kinds := [...]string{"house", "house", "market"}
	plazaLo, plazaHi := gridSize/2-2, gridSize/2+2

	var plots []Plot
	i := 0
	for lz := margin; lz+plotSize <= gridSize-margin; lz += plotSize + plotGap {
		for lx := margin; lx+plotSize <= gridSize-margin; lx += plotSize + plotGap {
			if reservePlaza && lx+plotSize > plazaLo && lx < plazaHi && lz+plotSize > plazaLo && lz < plazaHi {
				continue
			}
			plots = append(plots, Plot{Lx: lx, Lz: lz, W: plotSize, H: plotSize, Kind: kinds[i%len(kinds)]})
			i++
		}
	}
	return plots
}
